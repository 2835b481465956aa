package reqctx

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

type testClaims struct {
	id      uuid.UUID
	expired bool
}

func (c testClaims) GetUserID() uuid.UUID     { return c.id }
func (c testClaims) GetSessionID() *uuid.UUID { return nil }
func (c testClaims) GetTokenType() string     { return "access" }
func (c testClaims) GetRole() string          { return "ADMIN" }
func (c testClaims) IsExpired() bool          { return c.expired }

func TestUserIDFromContext(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name   string
		ctx    context.Context
		wantOK bool
	}{
		{"anonymous", context.Background(), false},
		{"valid claims", WithClaims(context.Background(), testClaims{id: id}), true},
		{"expired claims", WithClaims(context.Background(), testClaims{id: id, expired: true}), false},
		{"nil user", WithClaims(context.Background(), testClaims{id: uuid.Nil}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := UserIDFromContext(tt.ctx)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, id, got)
			}
		})
	}
}

func TestLogAttrs(t *testing.T) {
	assert.Empty(t, LogAttrs(context.Background()))

	id := uuid.New()
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{0x01, 0x02},
		SpanID:  trace.SpanID{0x03},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	ctx = WithRequestMeta(ctx, &RequestMeta{RequestID: "rid-1", RequestedAt: time.Now()})
	ctx = WithClaims(ctx, testClaims{id: id})

	assert.Equal(t, []any{
		"request_id", "rid-1",
		"trace_id", sc.TraceID().String(),
		"actor", id.String(),
	}, LogAttrs(ctx))
}

func TestRequestIDFromContextOutsideRequest(t *testing.T) {
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
	assert.Equal(t, "", TraceIDFromContext(context.Background()))
}
