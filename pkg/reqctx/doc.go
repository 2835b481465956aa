// Package reqctx carries request-scoped values through context.Context.
//
// The HTTP layer stores a RequestMeta for every request and AuthClaims for
// requests that passed AuthRequired. Services read them back to attribute
// writes and to correlate log lines:
//
//	slog.InfoContext(ctx, "slot created", append(reqctx.LogAttrs(ctx), "id", id)...)
//
// Trace ids are not stored here; they are read from the OpenTelemetry span
// that the tracing middleware starts.
package reqctx
