package router

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/thanhyclinic/schedule_backend/config"
	"github.com/thanhyclinic/schedule_backend/internal/api/http/handler"
	"github.com/thanhyclinic/schedule_backend/internal/api/http/middleware"
	"github.com/thanhyclinic/schedule_backend/internal/repo"
	"github.com/thanhyclinic/schedule_backend/internal/service/auth"
	"github.com/thanhyclinic/schedule_backend/internal/service/scheduling"
	"github.com/thanhyclinic/schedule_backend/pkg/authorize"
	pasetotoken "github.com/thanhyclinic/schedule_backend/pkg/paseto"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg           *config.Config
	Redis         *redis.Client `optional:"true"`
	DB            *repo.Client  `optional:"true"`
	Auth          authorize.IAuthorization
	AuthSvc       auth.Service
	SchedulingSvc scheduling.Service
	PasetoMgr     *pasetotoken.Manager
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Middlewares
	authRequired := middleware.AuthRequired(r.p.PasetoMgr, r.p.AuthSvc)
	requirePerm := func(res authorize.Resource, act authorize.Action) fiber.Handler {
		return middleware.RequirePermission(r.p.Auth, res, act)
	}

	// 3. Handlers
	authH := handler.NewAuthHandler(r.p.AuthSvc)
	scheduleH := handler.NewScheduleHandler(r.p.SchedulingSvc)

	api := app.Group("/api/v1")

	r.registerAuthRoutes(api, authH, authRequired)
	r.registerScheduleRoutes(api, scheduleH, authRequired, requirePerm)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get("/api/health", handler.Health)

	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: r.ready,
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}

// ready requires reachable Postgres and Redis, and optionally a healthy
// policy reload.
func (r *Router) ready(c fiber.Ctx) bool {
	if r.p.Cfg.Authorization.HealthCheckEnabled && !authorize.IsPolicyHealthy() {
		return false
	}
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if r.p.DB != nil && r.p.DB.Ping(ctx) != nil {
		return false
	}
	if r.p.Redis != nil && r.p.Redis.Ping(ctx).Err() != nil {
		return false
	}
	return true
}
