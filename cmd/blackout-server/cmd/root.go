package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-blackout/internal/config"
	"github.com/oshokin/alarm-blackout/internal/service/server"
	"github.com/oshokin/alarm-blackout/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// alertStore path where alerts are persisted.
	alertStore string

	// rootCmd represents the base command for running the blackout server.
	rootCmd = &cobra.Command{
		Use:   "blackout-server [listen-address]",
		Short: "Run the alert intake server with blackout suppression.",
		Long: `Starts the gRPC intake server that applies blackout suppression to incoming alerts
and reconciles stored alerts when blackout windows are created, updated or deleted.

Only the port from server_addr in the configuration file is used for listening (e.g., :8080).
Listen address can be provided as argument to override config (e.g., :9090, 0.0.0.0:8080).
Blackout window events are consumed from NATS when nats.url is configured.
Prometheus metrics are served on metrics_addr when configured.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			return server.Run(ctx, &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				AlertStore:    alertStore,
			})
		},
	}
)

// Execute runs the blackout-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&alertStore, "alert-store", "s", "", "path to the alert store, overrides settings")
}
