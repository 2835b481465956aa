package reqctx

import (
	"context"
	"time"
)

type ctxKey int

const (
	keyRequestMeta ctxKey = iota
	keyClaims
)

// RequestMeta is captured once per HTTP request by the request-id middleware.
type RequestMeta struct {
	RequestID   string
	ClientIP    string
	UserAgent   string
	RequestedAt time.Time
}

func WithRequestMeta(ctx context.Context, meta *RequestMeta) context.Context {
	return context.WithValue(ctx, keyRequestMeta, meta)
}

func RequestMetaFromContext(ctx context.Context) (*RequestMeta, bool) {
	meta, ok := ctx.Value(keyRequestMeta).(*RequestMeta)
	return meta, ok && meta != nil
}

// RequestIDFromContext returns "" outside of an HTTP request, e.g. for the
// seed worker or the CLI.
func RequestIDFromContext(ctx context.Context) string {
	if meta, ok := RequestMetaFromContext(ctx); ok {
		return meta.RequestID
	}
	return ""
}

// LogAttrs returns the slog key/value pairs that correlate a log line with
// the request, trace and actor in ctx. Absent values are omitted.
func LogAttrs(ctx context.Context) []any {
	attrs := make([]any, 0, 6)
	if rid := RequestIDFromContext(ctx); rid != "" {
		attrs = append(attrs, "request_id", rid)
	}
	if tid := TraceIDFromContext(ctx); tid != "" {
		attrs = append(attrs, "trace_id", tid)
	}
	if uid, ok := UserIDFromContext(ctx); ok {
		attrs = append(attrs, "actor", uid.String())
	}
	return attrs
}
