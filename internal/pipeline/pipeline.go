package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/oshokin/alarm-blackout/internal/domain/alert"
	"github.com/oshokin/alarm-blackout/internal/domain/window"
	"github.com/oshokin/alarm-blackout/internal/logger"
	"github.com/oshokin/alarm-blackout/internal/plugin"
	"github.com/oshokin/alarm-blackout/internal/repository/alerts"
)

// errAlertRequired is returned when an alert without id is received.
var errAlertRequired = errors.New("alert with an id is required")

// Outcome is the result of receiving an alert.
type Outcome struct {
	// Alert is the stored alert. Nil when suppressed.
	Alert *alert.Alert
	// Suppressed reports that a plugin stopped processing on purpose.
	Suppressed bool
	// Reason explains why the alert was suppressed.
	Reason string
}

// Pipeline runs plugins around alert storage.
type Pipeline struct {
	// repo stores accepted alerts.
	repo alerts.Repository
	// plugins run in order.
	plugins []plugin.Plugin
}

// New creates a pipeline storing alerts in repo and running plugins in order.
func New(repo alerts.Repository, plugins ...plugin.Plugin) *Pipeline {
	return &Pipeline{
		repo:    repo,
		plugins: plugins,
	}
}

// Receive runs pre-receive plugins, stores the alert and runs post-receive
// plugins. A plugin stopping the pipeline yields a suppressed Outcome and a
// nil error: nothing is stored and later plugins do not run.
func (p *Pipeline) Receive(ctx context.Context, a *alert.Alert) (*Outcome, error) {
	if a == nil || a.ID == "" {
		return nil, errAlertRequired
	}

	ctx = logger.WithKV(ctx, "alert_id", a.ID)

	if err := p.carryOver(ctx, a); err != nil {
		return nil, err
	}

	current := a

	for _, pl := range p.plugins {
		next, err := pl.PreReceive(ctx, current)
		if reason, ok := plugin.IsSuppressed(err); ok {
			logger.DebugKV(ctx, "Alert suppressed", "plugin", pl.Name(), "reason", reason)

			return &Outcome{Suppressed: true, Reason: reason}, nil
		}

		if err != nil {
			return nil, fmt.Errorf("pre-receive %s: %w", pl.Name(), err)
		}

		current = next
	}

	if err := p.repo.Save(ctx, current); err != nil {
		return nil, fmt.Errorf("store alert: %w", err)
	}

	for _, pl := range p.plugins {
		if err := pl.PostReceive(ctx, current); err != nil {
			return nil, fmt.Errorf("post-receive %s: %w", pl.Name(), err)
		}
	}

	logger.DebugKV(ctx, "Alert received", "status", current.Status)

	return &Outcome{Alert: current}, nil
}

// carryOver copies the stored history and blackout attribution onto a
// resubmitted alert. The incoming record replaces the stored one on save.
func (p *Pipeline) carryOver(ctx context.Context, a *alert.Alert) error {
	stored, err := p.repo.Get(ctx, a.ID)
	if errors.Is(err, alerts.ErrNotFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("load stored alert: %w", err)
	}

	a.History = stored.History

	if id, ok := stored.BlackoutID(); ok {
		a.SetBlackoutID(id)
	}

	return nil
}

// BlackoutChange passes a blackout window change to every plugin.
// All plugins run; their errors are combined.
func (p *Pipeline) BlackoutChange(ctx context.Context, w *window.Window, action window.Action) error {
	var errs error

	for _, pl := range p.plugins {
		if err := pl.BlackoutChange(ctx, w, action); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("blackout change %s: %w", pl.Name(), err))
		}
	}

	return errs
}

// TakeAction runs the action hooks of every plugin for a stored alert.
// The first failing plugin stops the chain.
func (p *Pipeline) TakeAction(ctx context.Context, id, action, text string) error {
	a, err := p.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get alert %s: %w", id, err)
	}

	for _, pl := range p.plugins {
		if err := pl.TakeAction(ctx, a, action, text); err != nil {
			return fmt.Errorf("take action %s: %w", pl.Name(), err)
		}
	}

	return nil
}

// Delete runs the delete hooks of every plugin for a stored alert.
// The first failing plugin stops the chain.
func (p *Pipeline) Delete(ctx context.Context, id string) error {
	a, err := p.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get alert %s: %w", id, err)
	}

	for _, pl := range p.plugins {
		if err := pl.Delete(ctx, a); err != nil {
			return fmt.Errorf("delete %s: %w", pl.Name(), err)
		}
	}

	return nil
}
