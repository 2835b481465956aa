package system

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thanhyclinic/schedule_backend/pkg/database"
)

func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the schedule and casbin databases if they are missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(cmd)
			if err != nil {
				return err
			}

			created, err := database.InitializeDatabases(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("initialize databases: %w", err)
			}
			if len(created) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "all databases already exist")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created: %s\n", strings.Join(created, ", "))
			return nil
		},
	}
}
