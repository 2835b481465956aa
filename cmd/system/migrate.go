package system

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/thanhyclinic/schedule_backend/config"
	"github.com/thanhyclinic/schedule_backend/internal/repo/migrations"
	"github.com/thanhyclinic/schedule_backend/pkg/authorize"
	"github.com/thanhyclinic/schedule_backend/pkg/database"
)

func NewMigrateCommand() *cobra.Command {
	var (
		list         bool
		skipPolicies bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply SQL migrations and seed the RBAC policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if list {
				names, err := migrations.Names()
				if err != nil {
					return err
				}
				for _, n := range names {
					fmt.Fprintln(out, n)
				}
				return nil
			}

			cfg, err := readConfig(cmd)
			if err != nil {
				return err
			}

			timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			pool, err := database.NewPool(ctx, database.FromCentralConfig(cfg.Database))
			if err != nil {
				return fmt.Errorf("open %s: %w", cfg.Database.DBName, err)
			}
			defer pool.Close()

			n, err := migrations.Up(ctx, pool)
			if err != nil {
				return fmt.Errorf("migrate %s: %w", cfg.Database.DBName, err)
			}
			fmt.Fprintf(out, "%s: applied %d migration(s)\n", cfg.Database.DBName, n)

			if skipPolicies {
				return nil
			}
			if err := seedPolicies(ctx, cfg); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: policies seeded\n", cfg.CasbinDatabase.DBName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "print the embedded migrations and exit")
	cmd.Flags().BoolVar(&skipPolicies, "skip-policies", false, "do not touch the casbin database")

	return cmd
}

// seedPolicies writes the default RBAC rules. The ent adapter creates its
// table on first use, so there is no separate casbin migration.
func seedPolicies(ctx context.Context, cfg *config.Config) error {
	enforcer, cleanup, err := authorize.NewEnforcer(cfg.Authorization.CasbinModelPath, database.NewDSN(cfg.CasbinDatabase))
	if err != nil {
		return fmt.Errorf("create enforcer: %w", err)
	}
	defer cleanup(context.Background())

	auth, err := authorize.NewAuthorization(enforcer)
	if err != nil {
		return fmt.Errorf("load policies: %w", err)
	}
	if err := authorize.SeedDefaultPolicies(ctx, auth); err != nil {
		return fmt.Errorf("seed policies: %w", err)
	}
	return nil
}
