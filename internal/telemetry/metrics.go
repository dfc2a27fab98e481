package telemetry

import (
	"context"
	"errors"

	"kirana/internal/core/domain/model/apartment"
	"kirana/internal/core/domain/model/bulkorder"
	"kirana/internal/core/domain/model/order"
	"kirana/internal/core/domain/services"
	"kirana/internal/pkg/errs"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the business counters. The zero value records nothing.
type Metrics struct {
	assignments metric.Int64Counter
	bulkJoins   metric.Int64Counter
}

func NewMetrics(m metric.Meter) Metrics {
	if m == nil {
		return Metrics{}
	}
	assignments, _ := m.Int64Counter("kirana.assignments",
		metric.WithDescription("Agent assignment attempts by outcome"))
	bulkJoins, _ := m.Int64Counter("kirana.bulk_joins",
		metric.WithDescription("Bulk order join attempts by outcome"))
	return Metrics{assignments: assignments, bulkJoins: bulkJoins}
}

// RecordAssignment counts one assignment attempt. target is "order" or
// "bulk_order"; trigger is "api", "ready" or "sweep".
func (m Metrics) RecordAssignment(ctx context.Context, target, strategy, trigger string, err error) {
	if m.assignments == nil {
		return
	}
	m.assignments.Add(ctx, 1, metric.WithAttributes(
		attribute.String("target", target),
		attribute.String("strategy", strategy),
		attribute.String("trigger", trigger),
		attribute.String("outcome", AssignmentOutcome(err)),
	))
}

func (m Metrics) RecordJoin(ctx context.Context, err error) {
	if m.bulkJoins == nil {
		return
	}
	m.bulkJoins.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", JoinOutcome(err))))
}

func AssignmentOutcome(err error) string {
	switch {
	case err == nil:
		return "assigned"
	case errors.Is(err, services.ErrNoAgentsAvailable):
		return "no_agents"
	case errors.Is(err, order.ErrAlreadyAssigned):
		return "already_assigned"
	case errors.Is(err, errs.ErrConcurrencyConflict):
		return "conflict"
	default:
		return "error"
	}
}

func JoinOutcome(err error) string {
	switch {
	case err == nil:
		return "joined"
	case errors.Is(err, apartment.ErrWindowClosed):
		return "window_closed"
	case errors.Is(err, apartment.ErrApartmentInactive):
		return "apartment_inactive"
	case errors.Is(err, bulkorder.ErrAlreadyJoined):
		return "already_joined"
	case errors.Is(err, bulkorder.ErrNotJoinable):
		return "not_joinable"
	case errors.Is(err, errs.ErrConcurrencyConflict):
		return "conflict"
	default:
		return "error"
	}
}
