package plugin

import (
	"context"
	"errors"

	"github.com/oshokin/alarm-blackout/internal/domain/alert"
	"github.com/oshokin/alarm-blackout/internal/domain/window"
)

// ErrNotImplemented is returned for capabilities a plugin does not support.
var ErrNotImplemented = errors.New("plugin capability not implemented")

// Plugin is the full capability set of an alert-processing plugin.
type Plugin interface {
	// Name identifies the plugin in logs and metrics.
	Name() string
	// PreReceive runs before an incoming alert is stored. It may modify the
	// alert or stop the pipeline.
	PreReceive(ctx context.Context, a *alert.Alert) (*alert.Alert, error)
	// PostReceive runs after an incoming alert is stored.
	PostReceive(ctx context.Context, a *alert.Alert) error
	// StatusChange runs when an operator changes the status of an alert.
	StatusChange(ctx context.Context, a *alert.Alert, status alert.Status, text string) error
	// TakeAction runs when an operator triggers an action on an alert.
	TakeAction(ctx context.Context, a *alert.Alert, action, text string) error
	// Delete runs when an alert is deleted.
	Delete(ctx context.Context, a *alert.Alert) error
	// BlackoutChange runs after a blackout window is created, updated or deleted.
	BlackoutChange(ctx context.Context, w *window.Window, action window.Action) error
}

// Base implements every capability by returning ErrNotImplemented.
// Plugins embed it and override the capabilities they support.
type Base struct{}

// PreReceive implements Plugin.
func (Base) PreReceive(context.Context, *alert.Alert) (*alert.Alert, error) {
	return nil, ErrNotImplemented
}

// PostReceive implements Plugin.
func (Base) PostReceive(context.Context, *alert.Alert) error {
	return ErrNotImplemented
}

// StatusChange implements Plugin.
func (Base) StatusChange(context.Context, *alert.Alert, alert.Status, string) error {
	return ErrNotImplemented
}

// TakeAction implements Plugin.
func (Base) TakeAction(context.Context, *alert.Alert, string, string) error {
	return ErrNotImplemented
}

// Delete implements Plugin.
func (Base) Delete(context.Context, *alert.Alert) error {
	return ErrNotImplemented
}

// BlackoutChange implements Plugin.
func (Base) BlackoutChange(context.Context, *window.Window, window.Action) error {
	return ErrNotImplemented
}
