package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// instruments pairs a request counter with a duration histogram sharing one label set.
type instruments struct {
	counter  metric.Int64Counter
	duration metric.Float64Histogram
}

// newInstruments creates the counter and histogram named by counterName and durationName.
func newInstruments(meter metric.Meter, counterName, durationName, subject, unit string) (*instruments, error) {
	counter, err := meter.Int64Counter(
		counterName,
		metric.WithDescription(fmt.Sprintf("Total number of %s", subject)),
		metric.WithUnit(unit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s counter: %w", subject, err)
	}

	duration, err := meter.Float64Histogram(
		durationName,
		metric.WithDescription(fmt.Sprintf("Duration of %s in seconds", subject)),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s duration histogram: %w", subject, err)
	}

	return &instruments{counter: counter, duration: duration}, nil
}

// record counts one event and observes its duration.
func (i *instruments) record(ctx context.Context, elapsed time.Duration, attrs ...attribute.KeyValue) {
	opt := metric.WithAttributes(attrs...)
	i.counter.Add(ctx, 1, opt)
	i.duration.Record(ctx, elapsed.Seconds(), opt)
}
