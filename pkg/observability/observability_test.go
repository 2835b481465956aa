package observability

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSchedulingMetricsNilSafe(t *testing.T) {
	var m *SchedulingMetrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.Write(ctx, "create")
		m.Conflict(ctx, "overlap")
		m.Seeded(ctx, "2025-09-15", 7)
	})

	var zero SchedulingMetrics
	assert.NotPanics(t, func() { zero.Write(ctx, "delete") })
}

func TestFiberMiddlewareSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	app := fiber.New()
	app.Use(FiberMiddleware("schedule-test"))
	app.Get("/livez", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Delete("/api/v1/admin/slots/:id", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/livez", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("X-Trace-Id"))
	assert.Empty(t, rec.Ended(), "probes are not traced")

	resp, err = app.Test(httptest.NewRequest(fiber.MethodDelete, "/api/v1/admin/slots/0199a6e2-6d55-7c1e-9a55-1c2b3d4e5f60", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-Id"))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "DELETE /api/v1/admin/slots/:id", spans[0].Name())
}
