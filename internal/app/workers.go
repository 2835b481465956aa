package app

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/thanhyclinic/schedule_backend/config"
	"github.com/thanhyclinic/schedule_backend/internal/service/scheduling"
	"github.com/thanhyclinic/schedule_backend/pkg/locker"
)

// WorkerModule registers the background seeding job and the NATS cache
// invalidation listener.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc     fx.Lifecycle
	Cfg    *config.Config
	NC     *nats.Conn `optional:"true"`
	Locker locker.Locker
	Svc    scheduling.Service
}

func RegisterWorkers(p WorkerParams) error {
	var seeder *scheduling.SeedWorker
	if p.Cfg.Seeding.Enabled {
		trigger, err := scheduling.TriggerFromConfig(p.Cfg.Seeding)
		if err != nil {
			return err
		}
		seeder = scheduling.NewSeedWorker(p.Svc, p.Locker, trigger)
	}

	var sub *nats.Subscription

	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if seeder != nil {
				// the hook ctx ends with startup, so the job gets its own
				if err := seeder.Start(context.Background()); err != nil {
					return err
				}
			}
			if p.NC != nil {
				var err error
				sub, err = startInvalidationWorker(p.NC, p.Cfg.Nats.SubjectPrefix, p.Svc)
				if err != nil {
					return err
				}
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if seeder != nil {
				seeder.Stop()
			}
			if sub != nil {
				// Drain handled by ProvideNatsClient
				return sub.Unsubscribe()
			}
			return nil
		},
	})
	return nil
}

// ---------------------------------------------------------------------------
// invalidation_worker
// ---------------------------------------------------------------------------

func startInvalidationWorker(nc *nats.Conn, prefix string, svc scheduling.Service) (*nats.Subscription, error) {
	subject := scheduling.NewNatsPublisher(nc, prefix).Subject()
	sub, err := nc.Subscribe(subject, scheduling.InvalidationHandler(svc, scheduling.DefaultOrigin()))
	if err != nil {
		return nil, err
	}
	slog.Info("listening for schedule changes", "subject", subject)
	return sub, nil
}
