package observability

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/thanhyclinic/schedule_backend/pkg/reqctx"
)

const tracerName = "github.com/thanhyclinic/schedule_backend/pkg/observability"

// untracedPrefixes are polled by orchestrators and scrapers.
var untracedPrefixes = []string{"/livez", "/readyz", "/startupz", "/metrics"}

func traced(path string) bool {
	for _, p := range untracedPrefixes {
		if strings.HasPrefix(path, p) {
			return false
		}
	}
	return true
}

// FiberMiddleware starts a server span per request and records request
// count and latency keyed by route template, so /admin/slots/:id does not
// explode into one series per slot.
func FiberMiddleware(serviceName string) fiber.Handler {
	tracer := otel.Tracer(tracerName)
	meter := otel.Meter(tracerName)

	requests, _ := meter.Int64Counter("http_server_request_count",
		metric.WithDescription("HTTP requests served"),
		metric.WithUnit("{request}"))
	latency, _ := meter.Float64Histogram("http_server_request_duration_ms",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("ms"))

	return func(c fiber.Ctx) error {
		if !traced(c.Path()) {
			return c.Next()
		}

		ctx := otel.GetTextMapPropagator().Extract(c.Context(), propagation.HeaderCarrier(c.GetReqHeaders()))
		ctx, span := tracer.Start(ctx, c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("service.name", serviceName),
				attribute.String("http.method", c.Method()),
				attribute.String("http.client_ip", c.IP()),
				attribute.String("http.user_agent", c.Get(fiber.HeaderUserAgent)),
			),
		)
		defer span.End()

		c.SetContext(ctx)
		if span.SpanContext().HasTraceID() {
			c.Set("X-Trace-Id", span.SpanContext().TraceID().String())
		}

		start := time.Now()
		err := c.Next()
		elapsed := float64(time.Since(start).Microseconds()) / 1000

		// the route is only known once routing has happened
		route := c.Route().Path
		if route == "" || route == "/" {
			route = "unmatched"
		}
		span.SetName(c.Method() + " " + route)

		status := c.Response().StatusCode()
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)
		if rid := reqctx.RequestIDFromContext(c.Context()); rid != "" {
			span.SetAttributes(attribute.String("http.request_id", rid))
		}
		if uid, ok := reqctx.UserIDFromContext(c.Context()); ok {
			span.SetAttributes(attribute.String("enduser.id", uid.String()))
		}

		attrs := metric.WithAttributes(
			attribute.String("http.method", c.Method()),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)
		requests.Add(ctx, 1, attrs)
		latency.Record(ctx, elapsed, attrs)

		if status >= fiber.StatusInternalServerError {
			span.SetStatus(codes.Error, "HTTP "+strconv.Itoa(status))
			if err != nil {
				span.RecordError(err)
			}
		}
		return err
	}
}
