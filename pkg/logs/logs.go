package logs

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/thanhyclinic/schedule_backend/config"
)

// New builds the process logger. Stdout and the rotating file share one
// encoder; Loki gets its own handler. Every record logged with a request
// context carries the request correlation attributes.
func New(cfg *config.Config) *slog.Logger {
	level := parseLevel(cfg.Logging.Level)
	out := cfg.Logging.Output

	var handlers []slog.Handler
	if w := localWriter(out); w != nil {
		handlers = append(handlers, localHandler(w, cfg, level))
	}
	if out.Loki.Enabled {
		h, err := newLokiHandler(cfg, level)
		if err != nil {
			slog.New(slog.NewJSONHandler(os.Stderr, nil)).Warn("loki output disabled", "error", err)
		} else {
			handlers = append(handlers, h)
		}
	}

	var h slog.Handler
	switch len(handlers) {
	case 0:
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	case 1:
		h = handlers[0]
	default:
		h = &multiHandler{handlers: handlers}
	}

	return slog.New(ContextHandler(h)).With(
		slog.String("service", cfg.Observability.ServiceName),
		slog.String("version", cfg.Observability.ServiceVersion),
		slog.String("env", cfg.Server.Environment),
	)
}

// localWriter returns nil when only Loki is configured. Stdout is the
// fallback when nothing is configured at all.
func localWriter(out config.OutputConfig) io.Writer {
	var writers []io.Writer
	if out.Stdout || (!out.File.Enabled && !out.Loki.Enabled) {
		writers = append(writers, os.Stdout)
	}
	if out.File.Enabled {
		writers = append(writers, &lumberjack.Logger{
			Filename:   out.File.Path,
			MaxSize:    out.File.MaxSizeMB,
			MaxBackups: out.File.MaxBackups,
			MaxAge:     out.File.MaxAgeDays,
			Compress:   out.File.Compress,
		})
	}
	switch len(writers) {
	case 0:
		return nil
	case 1:
		return writers[0]
	default:
		return io.MultiWriter(writers...)
	}
}

// localHandler is text in development unless json is asked for, JSON
// everywhere else.
func localHandler(w io.Writer, cfg *config.Config, level slog.Level) slog.Handler {
	dev := strings.EqualFold(cfg.Server.Environment, "development")
	opts := &slog.HandlerOptions{Level: level, AddSource: dev}
	if dev && !strings.EqualFold(cfg.Logging.Format, "json") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
