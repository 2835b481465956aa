package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SchedulingMetrics counts slot mutations, rejected writes and seeding runs.
// A zero value is usable and records nothing.
type SchedulingMetrics struct {
	writes    metric.Int64Counter
	conflicts metric.Int64Counter
	seeded    metric.Int64Counter
}

// NewSchedulingMetrics registers the scheduling instruments on the global
// meter provider.
func NewSchedulingMetrics() (*SchedulingMetrics, error) {
	meter := otel.Meter(tracerName)

	writes, err := meter.Int64Counter("schedule_slot_writes_total",
		metric.WithDescription("Slot create/update/delete/purge operations that succeeded"))
	if err != nil {
		return nil, err
	}
	conflicts, err := meter.Int64Counter("schedule_slot_conflicts_total",
		metric.WithDescription("Slot writes rejected because of an overlap or a busy scope"))
	if err != nil {
		return nil, err
	}
	seeded, err := meter.Int64Counter("schedule_seeded_slots_total",
		metric.WithDescription("Slots created by default-week seeding"))
	if err != nil {
		return nil, err
	}
	return &SchedulingMetrics{writes: writes, conflicts: conflicts, seeded: seeded}, nil
}

func (m *SchedulingMetrics) Write(ctx context.Context, op string) {
	if m == nil || m.writes == nil {
		return
	}
	m.writes.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

func (m *SchedulingMetrics) Conflict(ctx context.Context, reason string) {
	if m == nil || m.conflicts == nil {
		return
	}
	m.conflicts.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (m *SchedulingMetrics) Seeded(ctx context.Context, week string, n int) {
	if m == nil || m.seeded == nil || n == 0 {
		return
	}
	m.seeded.Add(ctx, int64(n), metric.WithAttributes(attribute.String("week", week)))
}
