package app

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/thanhyclinic/schedule_backend/config"
	"github.com/thanhyclinic/schedule_backend/internal/repo"
	"github.com/thanhyclinic/schedule_backend/internal/repo/migrations"
	"github.com/thanhyclinic/schedule_backend/internal/service/scheduling"
	"github.com/thanhyclinic/schedule_backend/pkg/authorize"
	"github.com/thanhyclinic/schedule_backend/pkg/database"
	"github.com/thanhyclinic/schedule_backend/pkg/locker"
	"github.com/thanhyclinic/schedule_backend/pkg/observability"
	redispkg "github.com/thanhyclinic/schedule_backend/pkg/redis"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideDatabase),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideLocker),
	fx.Provide(ProvideAuthorization),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideSchedulingMetrics),
	fx.Provide(ProvideNatsClient),
	fx.Provide(ProvidePublisher),
	fx.Provide(ProvideReadCache),
)

func ProvideDatabase(lc fx.Lifecycle, cfg *config.Config) (*repo.Client, error) {
	ctx := context.Background()
	pool, err := database.NewPool(ctx, database.FromCentralConfig(cfg.Database))
	if err != nil {
		return nil, err
	}

	if cfg.Database.Migrations.AutoMigrate {
		n, err := migrations.Up(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		slog.Info("database migrations applied", "count", n)
	}

	client := repo.NewClient(pool)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing main database connection")
			client.Close()
			return nil
		},
	})
	return client, nil
}

func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	rdb, err := redispkg.NewRedisFromCentral(context.Background(), cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvideLocker(rdb *redis.Client) locker.Locker {
	return locker.NewRedisLocker(rdb, "schedule:lock:")
}

func ProvideAuthorization(lc fx.Lifecycle, cfg *config.Config) (authorize.IAuthorization, error) {
	acfg := authorize.FromCentralConfig(cfg.Authorization)
	dsn := database.NewDSN(cfg.CasbinDatabase)
	enforcer, cleanup, err := authorize.NewEnforcer(acfg.CasbinModelPath, dsn)
	if err != nil {
		return nil, err
	}
	baseAuth, err := authorize.NewAuthorization(enforcer)
	if err != nil {
		cleanup(context.Background())
		return nil, err
	}

	auth := baseAuth
	if acfg.EnableAudit {
		auth = authorize.NewAuditedAuthorization(baseAuth, slog.Default())
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("cleaning up Casbin enforcer")
			cleanup(ctx)
			return nil
		},
	})
	return auth, nil
}

// ProvideNatsClient returns nil when nats is disabled; consumers treat a nil
// connection as "events off".
func ProvideNatsClient(lc fx.Lifecycle, cfg *config.Config) (*nats.Conn, error) {
	if !cfg.Nats.Enabled {
		return nil, nil
	}
	nc, err := nats.Connect(cfg.Nats.URL,
		nats.Name(cfg.Observability.ServiceName),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("draining NATS connection")
			return nc.Drain()
		},
	})
	return nc, nil
}

func ProvidePublisher(nc *nats.Conn, cfg *config.Config) scheduling.Publisher {
	if nc == nil {
		return scheduling.NopPublisher{}
	}
	return scheduling.NewNatsPublisher(nc, cfg.Nats.SubjectPrefix)
}

func ProvideReadCache(cfg *config.Config) *scheduling.ReadCache {
	return scheduling.NewReadCacheFromConfig(cfg)
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.FromCentralConfig(cfg))
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}

// ProvideSchedulingMetrics depends on the provider so the instruments bind
// to the configured meter provider rather than the no-op default.
func ProvideSchedulingMetrics(_ *observability.Provider) (*observability.SchedulingMetrics, error) {
	return observability.NewSchedulingMetrics()
}
