package usecase

import (
	"context"
	"encoding/json"
	"time"

	authDomain "github.com/dapnet/dbgateway/internal/auth/domain"
	"github.com/dapnet/dbgateway/internal/metrics"
	resourceDomain "github.com/dapnet/dbgateway/internal/resource/domain"
)

// mediatorWithMetrics decorates Mediator with metrics instrumentation.
type mediatorWithMetrics struct {
	next    Mediator
	metrics metrics.BusinessMetrics
}

// NewMediatorWithMetrics wraps a Mediator with metrics recording. Operations are
// labelled "<resource>_<operation>", e.g. "users_get".
func NewMediatorWithMetrics(mediator Mediator, m metrics.BusinessMetrics) Mediator {
	return &mediatorWithMetrics{
		next:    mediator,
		metrics: m,
	}
}

// Definition returns the wrapped mediator's definition.
func (m *mediatorWithMetrics) Definition() *resourceDomain.Definition {
	return m.next.Definition()
}

// List records metrics for list operations.
func (m *mediatorWithMetrics) List(
	ctx context.Context,
	principal *authDomain.Principal,
	opts resourceDomain.ListOptions,
) (*resourceDomain.DocumentList, error) {
	start := time.Now()
	list, err := m.next.List(ctx, principal, opts)
	m.record(ctx, "list", start, err)
	return list, err
}

// Names records metrics for names queries.
func (m *mediatorWithMetrics) Names(ctx context.Context, principal *authDomain.Principal) (json.RawMessage, error) {
	start := time.Now()
	names, err := m.next.Names(ctx, principal)
	m.record(ctx, "names", start, err)
	return names, err
}

// Get records metrics for get operations.
func (m *mediatorWithMetrics) Get(
	ctx context.Context,
	principal *authDomain.Principal,
	id string,
) (resourceDomain.Document, error) {
	start := time.Now()
	doc, err := m.next.Get(ctx, principal, id)
	m.record(ctx, "get", start, err)
	return doc, err
}

// Put dispatches through the decorator so create and update are recorded individually.
func (m *mediatorWithMetrics) Put(
	ctx context.Context,
	principal *authDomain.Principal,
	payload resourceDomain.Document,
) (*resourceDomain.WriteResult, error) {
	op, err := resourceDomain.ClassifyWrite(payload)
	if err != nil {
		m.metrics.RecordOperation(ctx, "resource", m.operation("put"), "error")
		return nil, err
	}

	switch op := op.(type) {
	case resourceDomain.UpdateOperation:
		return m.Update(ctx, principal, op)
	case resourceDomain.CreateOperation:
		return m.Create(ctx, principal, op)
	default:
		return m.next.Put(ctx, principal, payload)
	}
}

// Create records metrics for create operations.
func (m *mediatorWithMetrics) Create(
	ctx context.Context,
	principal *authDomain.Principal,
	op resourceDomain.CreateOperation,
) (*resourceDomain.WriteResult, error) {
	start := time.Now()
	result, err := m.next.Create(ctx, principal, op)
	m.record(ctx, "create", start, err)
	return result, err
}

// Update records metrics for update operations.
func (m *mediatorWithMetrics) Update(
	ctx context.Context,
	principal *authDomain.Principal,
	op resourceDomain.UpdateOperation,
) (*resourceDomain.WriteResult, error) {
	start := time.Now()
	result, err := m.next.Update(ctx, principal, op)
	m.record(ctx, "update", start, err)
	return result, err
}

// Delete records metrics for delete operations.
func (m *mediatorWithMetrics) Delete(ctx context.Context, principal *authDomain.Principal, id, rev string) error {
	start := time.Now()
	err := m.next.Delete(ctx, principal, id, rev)
	m.record(ctx, "delete", start, err)
	return err
}

func (m *mediatorWithMetrics) operation(name string) string {
	return m.next.Definition().Name + "_" + name
}

func (m *mediatorWithMetrics) record(ctx context.Context, name string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	operation := m.operation(name)
	m.metrics.RecordOperation(ctx, "resource", operation, status)
	m.metrics.RecordDuration(ctx, "resource", operation, time.Since(start), status)
}
