package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpcmd "github.com/thanhyclinic/schedule_backend/cmd/http"
	systemcmd "github.com/thanhyclinic/schedule_backend/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Weekly appointment-slot schedule for the clinic.",
	Long: `schedule serves the clinic's weekly slot schedule: a public read endpoint,
an authenticated admin surface for editing slots, and a background job that
fills next week with the default template.`,
}

// Execute runs the CLI. SIGINT and SIGTERM cancel cmd.Context() for the
// one-shot system commands; the HTTP server handles its own shutdown.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
}
