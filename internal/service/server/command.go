package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"

	"github.com/oshokin/alarm-blackout/internal/api/grpc/intake"
	"github.com/oshokin/alarm-blackout/internal/api/nats/events"
	"github.com/oshokin/alarm-blackout/internal/config"
	"github.com/oshokin/alarm-blackout/internal/logger"
	"github.com/oshokin/alarm-blackout/internal/plugin/blackout"
	"github.com/oshokin/alarm-blackout/internal/repository/alerts"
	"github.com/oshokin/alarm-blackout/internal/version"
)

// Options controls the blackout-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// AlertStore overrides the alert store file from settings.
	AlertStore string
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// metricsReadHeaderTimeout bounds how long the metrics endpoint waits for request headers.
const metricsReadHeaderTimeout = 5 * time.Second

// Run starts the service and blocks until ctx is canceled or the gRPC server stops.
//
//nolint:funlen // Wiring of the transports reads best in one place.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "blackout-server")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	applyLogLevel(ctx, settings.LogLevel)

	alertStore := settings.AlertStore
	if opts.AlertStore != "" {
		alertStore = opts.AlertStore
	}

	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	holder := config.NewHolder(settings)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc := newService(alerts.NewFileRepository(alertStore), holder, blackout.NewMetrics(registry))

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer()
	intake.RegisterIntakeServer(grpcServer, intake.NewServer(svc))

	if settings.NATS.URL != "" {
		closeEvents, err := subscribeEvents(ctx, settings, svc)
		if err != nil {
			_ = lis.Close()

			return err
		}

		defer closeEvents()
	}

	var metricsServer *http.Server
	if settings.MetricsAddress != "" {
		metricsServer = serveMetrics(ctx, settings.MetricsAddress, registry)
	}

	go func() {
		err := config.Watch(ctx, opts.ConfigPath, func(cfg *config.Config) {
			holder.Set(cfg)
			applyLogLevel(ctx, cfg.LogLevel)
		})
		if err != nil {
			logger.WarnKV(ctx, "Settings are not watched", "error", err)
		}
	}()

	logger.InfoKV(ctx, "Blackout server listening", append([]any{
		"listen_address", listenAddress,
		"alert_store", alertStore,
		"metrics_address", settings.MetricsAddress,
		"nats_url", settings.NATS.URL,
	}, version.KV()...)...)

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down blackout server")
		grpcServer.GracefulStop()

		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settings.Timeout)
			_ = metricsServer.Shutdown(shutdownCtx)

			cancel()
		}

		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "Blackout server stopped")

	return nil
}

// subscribeEvents connects to NATS and starts consuming blackout events.
// The returned function drains the subscription and closes the connection.
func subscribeEvents(ctx context.Context, settings *config.Config, handler events.Handler) (func(), error) {
	nc, err := nats.Connect(settings.NATS.URL,
		nats.Name("alarm-blackout"),
		nats.Timeout(settings.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	subscriber := events.New(handler)
	if err := subscriber.Subscribe(ctx, nc, settings.NATS.Subject); err != nil {
		nc.Close()

		return nil, err
	}

	return func() {
		_ = subscriber.Close()

		nc.Close()
	}, nil
}

// serveMetrics exposes registry on address in the background.
func serveMetrics(ctx context.Context, address string, registry *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	srv := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorKV(ctx, "Metrics endpoint failed", "address", address, "error", err)
		}
	}()

	return srv
}

// applyLogLevel sets the global log level when level is valid.
func applyLogLevel(ctx context.Context, level string) {
	parsed, ok := logger.ParseLogLevel(level)
	if !ok {
		logger.WarnKV(ctx, "Unknown log level, keeping current", "log_level", level)

		return
	}

	logger.SetLevel(parsed)
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	// Bind on all interfaces.
	return ":" + port, nil
}
