package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/alarm-blackout/internal/api/grpc/intake"
	"github.com/oshokin/alarm-blackout/internal/codec"
	"github.com/oshokin/alarm-blackout/internal/config"
	"github.com/oshokin/alarm-blackout/internal/domain/window"
	"github.com/oshokin/alarm-blackout/internal/logger"
	"github.com/oshokin/alarm-blackout/internal/plugin/blackout"
	"github.com/oshokin/alarm-blackout/internal/predicate"
	"github.com/oshokin/alarm-blackout/internal/repository/alerts"
)

// Options describes a single window change to replay.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// WindowID identifies the blackout window.
	WindowID string
	// Action is the window lifecycle action: create, update or delete.
	Action string
	// InBlackout lists the alert IDs the blackout service reports as covered.
	InBlackout []string
	// AlertStore overrides the alert store file from settings.
	AlertStore string
	// Remote sends the change to the server at ServerAddress instead of
	// reconciling the local store.
	Remote bool
	// ServerAddress overrides the server address from settings in remote mode.
	ServerAddress string
}

// ErrWindowRequired indicates that no window ID was given.
var ErrWindowRequired = errors.New("window ID is required")

// Run replays the window change described by opts.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "blackout-reconcile")

	if opts.WindowID == "" {
		return ErrWindowRequired
	}

	action, err := window.ParseAction(opts.Action)
	if err != nil {
		return err
	}

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	event := &codec.Event{
		Action:     action,
		Window:     &window.Window{ID: opts.WindowID, Fields: map[string]any{}},
		InBlackout: opts.InBlackout,
	}

	if operator, err := detectOperator(); err == nil {
		event.Window.Fields[fieldUser] = operator
	} else {
		logger.WarnKV(ctx, "Operator is unknown", "error", err)
	}

	ctx = logger.WithFields(ctx, map[string]any{
		"window_id": opts.WindowID,
		"action":    action.String(),
		"operator":  event.Window.Fields[fieldUser],
	})

	if opts.Remote {
		return sendRemote(ctx, settings, opts.ServerAddress, event)
	}

	alertStore := settings.AlertStore
	if opts.AlertStore != "" {
		alertStore = opts.AlertStore
	}

	return reconcileLocal(ctx, settings, alerts.NewFileRepository(alertStore), event)
}

// reconcileLocal runs the blackout plugin directly over repo.
func reconcileLocal(ctx context.Context, settings config.Provider, repo alerts.Repository, event *codec.Event) error {
	handler := blackout.New(predicate.NewTracker(event.InBlackout...), settings, repo)

	err := handler.BlackoutChange(ctx, event.Window, event.Action)

	var reconcileErr *blackout.ReconcileError
	if errors.As(err, &reconcileErr) {
		logger.ErrorKV(ctx, "Some alerts were not reconciled", "alert_ids", reconcileErr.AlertIDs())
	}

	return err
}

// sendRemote forwards the change to a running blackout server.
func sendRemote(ctx context.Context, settings *config.Config, address string, event *codec.Event) error {
	if address == "" {
		address = settings.ServerAddress
	}

	client, err := intake.Dial(ctx, address, intake.WithCallTimeout(settings.Timeout))
	if err != nil {
		return fmt.Errorf("connect to %s: %w", address, err)
	}

	defer func() {
		_ = client.Close()
	}()

	if err := client.BlackoutChange(ctx, event); err != nil {
		return fmt.Errorf("send blackout change: %w", err)
	}

	logger.InfoKV(ctx, "Blackout change delivered", "server_address", address)

	return nil
}
