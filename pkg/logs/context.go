package logs

import (
	"context"
	"log/slog"

	"github.com/thanhyclinic/schedule_backend/pkg/reqctx"
)

// contextHandler adds request_id, trace_id and actor to records logged with
// a request context (slog.InfoContext and friends).
type contextHandler struct {
	slog.Handler
}

// ContextHandler wraps h so request correlation attributes are attached
// from the context passed at the call site.
func ContextHandler(h slog.Handler) slog.Handler {
	if _, ok := h.(*contextHandler); ok {
		return h
	}
	return &contextHandler{Handler: h}
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if attrs := reqctx.LogAttrs(ctx); len(attrs) > 0 {
			r = r.Clone()
			r.Add(attrs...)
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}
