package logs

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/thanhyclinic/schedule_backend/pkg/reqctx"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLevel(tt.in); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMultiHandlerFansOut(t *testing.T) {
	var jsonBuf, textBuf bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewJSONHandler(&jsonBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&textBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}}

	logger := slog.New(h).With("component", "test")
	logger.Info("seeded week", "created", 7)
	logger.Warn("lock busy", "key", "slots:scope:1:none")

	lines := strings.Split(strings.TrimSpace(jsonBuf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("json handler got %d lines, want 2", len(lines))
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("invalid json line: %v", err)
	}
	if rec["component"] != "test" || rec["msg"] != "seeded week" {
		t.Errorf("unexpected record: %v", rec)
	}

	text := textBuf.String()
	if strings.Contains(text, "seeded week") {
		t.Error("text handler should drop info records")
	}
	if !strings.Contains(text, "lock busy") {
		t.Error("text handler should receive warn records")
	}
}

func TestMultiHandlerEnabled(t *testing.T) {
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewJSONHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}),
		slog.NewJSONHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}}

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled")
	}
	if !h.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn should be enabled")
	}
}

func TestContextHandlerAddsRequestAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(ContextHandler(slog.NewJSONHandler(&buf, nil))).With("component", "schedule")

	ctx := reqctx.WithRequestMeta(context.Background(), &reqctx.RequestMeta{RequestID: "rid-7"})
	logger.InfoContext(ctx, "slot created")
	logger.Info("seed worker started")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var withCtx, without map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &withCtx); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &without); err != nil {
		t.Fatal(err)
	}
	if withCtx["request_id"] != "rid-7" || withCtx["component"] != "schedule" {
		t.Errorf("unexpected record: %v", withCtx)
	}
	if _, ok := without["request_id"]; ok {
		t.Errorf("record without request context got request_id: %v", without)
	}
}

func TestContextHandlerNotDoubleWrapped(t *testing.T) {
	h := ContextHandler(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	if ContextHandler(h) != h {
		t.Error("wrapping twice should return the same handler")
	}
}
