package system

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thanhyclinic/schedule_backend/config"
	"github.com/thanhyclinic/schedule_backend/pkg/logs"
)

func NewSystemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "system",
		Short: "Maintenance and tooling commands",
	}

	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewGenDocsCommand())
	cmd.AddCommand(NewInitCommand())
	cmd.AddCommand(NewSeedAdminCommand())
	cmd.AddCommand(NewSeedDefaultsCommand())
	cmd.AddCommand(NewGenKeyCommand())

	return cmd
}

// readConfig loads the config named by --config and installs the
// configured logger so maintenance output lands with the server's.
func readConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	slog.SetDefault(logs.New(cfg))
	return cfg, nil
}
