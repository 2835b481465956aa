package app

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/thanhyclinic/schedule_backend/config"
	"github.com/thanhyclinic/schedule_backend/internal/repo"
	"github.com/thanhyclinic/schedule_backend/internal/service/auth"
	"github.com/thanhyclinic/schedule_backend/internal/service/scheduling"
	"github.com/thanhyclinic/schedule_backend/pkg/authorize"
	"github.com/thanhyclinic/schedule_backend/pkg/locker"
	"github.com/thanhyclinic/schedule_backend/pkg/observability"
	pasetotoken "github.com/thanhyclinic/schedule_backend/pkg/paseto"
	"github.com/thanhyclinic/schedule_backend/pkg/password"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvidePasetoManager,
		ProvidePasswordHasher,
		ProvideAuthService,
		ProvideSchedulingService,
	),
)

func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	return pasetotoken.NewPasetoManager(cfg)
}

func ProvidePasswordHasher(cfg *config.Config) *password.Hasher {
	return password.NewHasherFromConfig(cfg)
}

func ProvideAuthService(
	db *repo.Client,
	rdb *redis.Client,
	hasher *password.Hasher,
	paseto *pasetotoken.Manager,
	authz authorize.IAuthorization,
) auth.Service {
	return auth.New(db.Store, auth.NewRedisSessionStore(rdb), hasher, paseto, authz)
}

type SchedulingParams struct {
	fx.In

	Cfg       *config.Config
	DB        *repo.Client
	Locker    locker.Locker
	Publisher scheduling.Publisher
	Cache     *scheduling.ReadCache             `optional:"true"`
	Metrics   *observability.SchedulingMetrics `optional:"true"`
}

func ProvideSchedulingService(p SchedulingParams) (scheduling.Service, error) {
	opts, err := scheduling.OptionsFromConfig(p.Cfg)
	if err != nil {
		return nil, err
	}
	return scheduling.New(scheduling.Deps{
		Store:     p.DB.Store,
		Locker:    p.Locker,
		Publisher: p.Publisher,
		Cache:     p.Cache,
		Metrics:   p.Metrics,
	}, opts), nil
}
