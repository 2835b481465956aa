package http

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/thanhyclinic/schedule_backend/config"
	"github.com/thanhyclinic/schedule_backend/internal/api/http"
	"github.com/thanhyclinic/schedule_backend/pkg/logs"
)

func NewHTTPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "HTTP server commands",
	}
	cmd.AddCommand(newStartCommand())
	return cmd
}

func newStartCommand() *cobra.Command {
	var (
		shutdownTimeout time.Duration
		port            int
		noSeed          bool
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Serve the schedule API and run the weekly seed job",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return err
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if noSeed {
				cfg.Seeding.Enabled = false
			}

			// before fx starts so provider logs use it
			slog.SetDefault(logs.New(cfg))

			http.Start(cfg, shutdownTimeout)
			return nil
		},
	}

	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "maximum time to wait for graceful shutdown")
	cmd.Flags().IntVar(&port, "port", 0, "override server.port")
	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "do not run the weekly seed job in this process")

	return cmd
}
