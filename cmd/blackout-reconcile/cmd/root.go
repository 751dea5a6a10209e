package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-blackout/internal/config"
	"github.com/oshokin/alarm-blackout/internal/service/reconcile"
	"github.com/oshokin/alarm-blackout/internal/version"
)

var (
	// options collects flag values for the reconcile run.
	options reconcile.Options

	// rootCmd represents the base command for replaying a window change.
	rootCmd = &cobra.Command{
		Use:   "blackout-reconcile",
		Short: "Replay a blackout window change against stored alerts.",
		Long: `Reconciles stored alerts after a blackout window was created, updated or deleted.

Alerts listed with --in-blackout are muted and attributed to the window on create and update.
Alerts attributed to the window that are no longer covered are reopened.
With --remote the change is sent to a running blackout-server instead of the local alert store.`,
		Example: `  blackout-reconcile --window w1 --action create --in-blackout a1,a2
  blackout-reconcile --window w1 --action delete --remote`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return reconcile.Run(ctx, &options)
		},
	}
)

// Execute runs the blackout-reconcile CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&options.ConfigPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	flags.StringVarP(&options.WindowID, "window", "w", "", "blackout window ID")
	flags.StringVarP(&options.Action, "action", "a", "", "window action: create, update or delete")
	flags.StringSliceVar(&options.InBlackout, "in-blackout", nil, "alert IDs covered by blackouts")
	flags.StringVarP(&options.AlertStore, "alert-store", "s", "", "path to the alert store, overrides settings")
	flags.BoolVar(&options.Remote, "remote", false, "send the change to a running blackout-server")
	flags.StringVar(&options.ServerAddress, "server", "", "server address for --remote, overrides settings")

	_ = rootCmd.MarkFlagRequired("window")
	_ = rootCmd.MarkFlagRequired("action")
}
