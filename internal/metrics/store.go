package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// StoreMetrics records requests made to the document store.
type StoreMetrics interface {
	// RecordRequest records one store request. Outcomes: "ok", "not_found", "conflict",
	// "unavailable", "error".
	RecordRequest(ctx context.Context, method, outcome string, duration time.Duration)
}

type storeMetrics struct {
	requests *instruments
}

// NewStoreMetrics creates "<ns>_store_requests_total" and "<ns>_store_request_duration_seconds".
func NewStoreMetrics(meterProvider metric.MeterProvider, namespace string) (StoreMetrics, error) {
	requests, err := newInstruments(
		meterProvider.Meter(namespace),
		fmt.Sprintf("%s_store_requests_total", namespace),
		fmt.Sprintf("%s_store_request_duration_seconds", namespace),
		"document store requests",
		"{request}",
	)
	if err != nil {
		return nil, err
	}

	return &storeMetrics{requests: requests}, nil
}

// RecordRequest counts the request and records its duration with method and outcome labels.
func (s *storeMetrics) RecordRequest(ctx context.Context, method, outcome string, duration time.Duration) {
	s.requests.record(ctx, duration,
		attribute.String("method", method),
		attribute.String("outcome", outcome),
	)
}

// NoOpStoreMetrics is a no-op implementation of StoreMetrics for when metrics are disabled.
type NoOpStoreMetrics struct{}

// NewNoOpStoreMetrics creates a no-op StoreMetrics implementation.
func NewNoOpStoreMetrics() StoreMetrics {
	return &NoOpStoreMetrics{}
}

// RecordRequest does nothing when metrics are disabled.
func (n *NoOpStoreMetrics) RecordRequest(ctx context.Context, method, outcome string, duration time.Duration) {}
