package blackout

import (
	"context"
	"fmt"

	"github.com/oshokin/alarm-blackout/internal/config"
	"github.com/oshokin/alarm-blackout/internal/domain/alert"
	"github.com/oshokin/alarm-blackout/internal/plugin"
	"github.com/oshokin/alarm-blackout/internal/predicate"
	"github.com/oshokin/alarm-blackout/internal/repository/alerts"
)

// Name is the plugin name used in logs and metrics.
const Name = "blackout"

// Handler is the blackout suppression plugin.
// TakeAction and Delete are not supported and fail with plugin.ErrNotImplemented.
type Handler struct {
	plugin.Base

	// predicate decides whether an alert is inside an active blackout.
	predicate predicate.Predicate
	// settings provides NOTIFICATION_BLACKOUT and ALARM_MODEL.
	settings config.Provider
	// repo is the alert store scanned on blackout changes.
	repo alerts.Repository
	// metrics records intake outcomes and reconcile transitions.
	metrics *Metrics
}

// Option configures a Handler.
type Option func(*Handler)

// WithMetrics records plugin activity in m.
func WithMetrics(m *Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// New creates the plugin.
func New(p predicate.Predicate, settings config.Provider, repo alerts.Repository, opts ...Option) *Handler {
	h := &Handler{
		predicate: p,
		settings:  settings,
		repo:      repo,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Name implements plugin.Plugin.
func (h *Handler) Name() string {
	return Name
}

// PostReceive implements plugin.Plugin. Stored alerts need no further work.
func (h *Handler) PostReceive(context.Context, *alert.Alert) error {
	return nil
}

// StatusChange implements plugin.Plugin. Operator status changes are accepted as is.
func (h *Handler) StatusChange(context.Context, *alert.Alert, alert.Status, string) error {
	return nil
}

// suppressedStatus resolves the status used for muted alerts from ALARM_MODEL.
func (h *Handler) suppressedStatus() (alert.Status, error) {
	model, err := h.settings.String(config.KeyAlarmModel)
	if err != nil {
		return "", fmt.Errorf("resolve alarm model: %w", err)
	}

	return alert.AlarmModel(model).SuppressedStatus(), nil
}
