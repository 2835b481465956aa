package system

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/thanhyclinic/schedule_backend/internal/repo"
	"github.com/thanhyclinic/schedule_backend/internal/service/scheduling"
	"github.com/thanhyclinic/schedule_backend/pkg/database"
	"github.com/thanhyclinic/schedule_backend/pkg/locker"
	redispkg "github.com/thanhyclinic/schedule_backend/pkg/redis"
)

func NewSeedDefaultsCommand() *cobra.Command {
	var week string

	cmd := &cobra.Command{
		Use:   "seed-defaults",
		Short: "Fill a week with the default template if it has no slots",
		Long: `Run the default-week seeding once. The week defaults to the Monday after
today in seeding.timezone; --week takes a YYYY-MM-DD Monday. Weeks that
already have slots are left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			pool, err := database.NewPool(ctx, database.FromCentralConfig(cfg.Database))
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer pool.Close()

			rdb, err := redispkg.NewRedisFromCentral(ctx, cfg.Redis)
			if err != nil {
				return fmt.Errorf("failed to connect to redis: %w", err)
			}
			defer rdb.Close()

			// running servers drop their caches when they see the seeded event
			var publisher scheduling.Publisher = scheduling.NopPublisher{}
			if cfg.Nats.Enabled {
				nc, err := nats.Connect(cfg.Nats.URL)
				if err != nil {
					return fmt.Errorf("failed to connect to nats: %w", err)
				}
				defer nc.Drain()
				publisher = scheduling.NewNatsPublisher(nc, cfg.Nats.SubjectPrefix)
			}

			opts, err := scheduling.OptionsFromConfig(cfg)
			if err != nil {
				return err
			}
			svc := scheduling.New(scheduling.Deps{
				Store:     repo.NewClient(pool).Store,
				Locker:    locker.NewRedisLocker(rdb, "schedule:lock:"),
				Publisher: publisher,
			}, opts)

			anchor := svc.NextWeekAnchor()
			if week != "" {
				a, err := scheduling.ParseWeekAnchor(week)
				if err != nil {
					return err
				}
				anchor = *a
			}

			n, err := svc.SeedDefaultsIfMissing(ctx, anchor)
			if err != nil {
				return fmt.Errorf("failed to seed week %s: %w", anchor.Format(time.DateOnly), err)
			}
			if n == 0 {
				fmt.Printf("Week %s already has slots; nothing to do.\n", anchor.Format(time.DateOnly))
				return nil
			}
			fmt.Printf("Seeded %d slot(s) for week %s.\n", n, anchor.Format(time.DateOnly))
			return nil
		},
	}

	cmd.Flags().StringVar(&week, "week", "", "week anchor YYYY-MM-DD (default: next Monday)")

	return cmd
}
