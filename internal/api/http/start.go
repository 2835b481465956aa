package http

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/thanhyclinic/schedule_backend/config"
	"github.com/thanhyclinic/schedule_backend/internal/api/http/router"
	"github.com/thanhyclinic/schedule_backend/internal/app"
)

// Start wires infrastructure, services, the seed worker and the HTTP server,
// then blocks until SIGINT or SIGTERM.
func Start(cfg *config.Config, stopTimeout time.Duration) {
	fx.New(
		fx.Supply(cfg),
		app.InfraModule,
		app.ServiceModule,
		app.WorkerModule,
		router.Module,
		Module,

		// NewServer registers the listen hook, so the app must be requested.
		fx.Invoke(func(*fiber.App) {}),

		fx.StopTimeout(stopTimeout),
		fx.WithLogger(func() fxevent.Logger { return fxLogger(cfg) }),
	).Run()
}

// fxLogger surfaces dependency graph events only at debug level.
func fxLogger(cfg *config.Config) fxevent.Logger {
	if !strings.EqualFold(cfg.Logging.Level, "debug") {
		return fxevent.NopLogger
	}
	l := &fxevent.SlogLogger{Logger: slog.Default().With("component", "fx")}
	l.UseLogLevel(slog.LevelDebug)
	return l
}
