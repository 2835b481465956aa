package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/thanhyclinic/schedule_backend/internal/repo"
	"github.com/thanhyclinic/schedule_backend/pkg/authorize"
	"github.com/thanhyclinic/schedule_backend/pkg/database"
	"github.com/thanhyclinic/schedule_backend/pkg/password"
)

func NewSeedAdminCommand() *cobra.Command {
	var (
		email string
		pass  string
		role  string
	)

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create or reset an account and grant its RBAC role",
		Long: `Upsert an account by email with an Argon2id password hash and assign the
matching Casbin role. Without --password a random one is generated and printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if repo.NormalizeEmail(email) == "" {
				return errors.New("--email is required")
			}
			if _, ok := authorize.RBACRoleForUserRole(role); !ok {
				return fmt.Errorf("unknown role %q (use ADMIN or STAFF)", role)
			}

			cfg, err := readConfig(cmd)
			if err != nil {
				return err
			}

			generated := pass == ""
			if generated {
				pass = password.Generate(20)
			}

			hash, err := password.NewHasherFromConfig(cfg).Hash(pass)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			pool, err := database.NewPool(ctx, database.FromCentralConfig(cfg.Database))
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer pool.Close()

			u, err := repo.NewClient(pool).UpsertUser(ctx, email, hash, role)
			if err != nil {
				return err
			}

			enforcer, cleanup, err := authorize.NewEnforcer(cfg.Authorization.CasbinModelPath, database.NewDSN(cfg.CasbinDatabase))
			if err != nil {
				return fmt.Errorf("failed to create enforcer: %w", err)
			}
			defer cleanup(context.Background())

			auth, err := authorize.NewAuthorization(enforcer)
			if err != nil {
				return fmt.Errorf("failed to create authorization: %w", err)
			}
			if err := authorize.SyncUserRole(ctx, auth, u.ID.String(), u.Role); err != nil {
				return fmt.Errorf("failed to assign role: %w", err)
			}

			fmt.Printf("Account %s (%s) ready, id %s.\n", u.Email, u.Role, u.ID)
			if generated {
				fmt.Printf("Generated password: %s\n", pass)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&pass, "password", "", "account password (generated when empty)")
	cmd.Flags().StringVar(&role, "role", authorize.UserRoleAdmin, "account role: ADMIN or STAFF")

	return cmd
}
