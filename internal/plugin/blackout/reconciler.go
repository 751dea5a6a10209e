package blackout

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/alarm-blackout/internal/domain/alert"
	"github.com/oshokin/alarm-blackout/internal/domain/window"
	"github.com/oshokin/alarm-blackout/internal/logger"
)

// errWindowRequired is returned when a change arrives without a window id.
var errWindowRequired = errors.New("blackout window with an id is required")

// BlackoutChange brings every stored alert in line with a blackout window
// change.
//
// Alerts are fetched fresh and each change is persisted on its own. A failed
// alert does not stop the scan; failures are returned together as a
// *ReconcileError once every alert was visited. Replaying the same change is
// safe and is the way to recover from an interrupted scan.
func (h *Handler) BlackoutChange(ctx context.Context, w *window.Window, action window.Action) error {
	if w == nil || w.ID == "" {
		return errWindowRequired
	}

	ctx = logger.WithKV(ctx, "window_id", w.ID)
	logger.DebugKV(ctx, "Blackout state changed", "action", action)

	var status alert.Status

	switch action {
	case window.ActionCreated, window.ActionUpdated:
		var err error

		if status, err = h.suppressedStatus(); err != nil {
			return err
		}
	case window.ActionDeleted:
		// Reopening does not depend on the alarm model.
	default:
		return fmt.Errorf("%w: %s", window.ErrUnknownAction, action)
	}

	list, err := h.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("find alerts: %w", err)
	}

	var (
		failed = &ReconcileError{WindowID: w.ID, Action: action}
		muted  int
		opened int
	)

	for _, a := range list {
		reason, err := h.reconcile(ctx, w, action, status, a)
		if err != nil {
			logger.ErrorKV(ctx, "Failed to reconcile alert", "alert_id", a.ID, "action", action, "error", err)
			h.metrics.failure(action)
			failed.add(a.ID, err)

			continue
		}

		switch reason {
		case alert.ReasonMutedByBlackout:
			muted++
		case alert.ReasonReopenedByBlackout:
			opened++
		case alert.ReasonNone:
			continue
		}

		h.metrics.transition(action, reason)
	}

	logger.InfoKV(ctx, "Blackout change reconciled",
		"action", action,
		"alerts", len(list),
		"muted", muted,
		"reopened", opened,
		"failed", len(failed.Failed),
	)

	if len(failed.Failed) > 0 {
		return failed
	}

	return nil
}

// reconcile applies the transition for a single alert and returns the
// reason of the change, or alert.ReasonNone when nothing changed.
func (h *Handler) reconcile(
	ctx context.Context,
	w *window.Window,
	action window.Action,
	suppressed alert.Status,
	a *alert.Alert,
) (alert.Reason, error) {
	if action == window.ActionDeleted {
		if id, ok := a.BlackoutID(); ok && id == w.ID {
			return h.reopen(ctx, a)
		}

		return alert.ReasonNone, nil
	}

	inBlackout, err := h.predicate.IsBlackout(ctx, a)
	if err != nil {
		return alert.ReasonNone, fmt.Errorf("check blackout: %w", err)
	}

	switch {
	case inBlackout && action == window.ActionCreated:
		return h.mute(ctx, w, suppressed, a)
	case inBlackout && a.Status != suppressed:
		return h.mute(ctx, w, suppressed, a)
	case inBlackout:
		return alert.ReasonNone, nil
	case action == window.ActionUpdated:
		// Any muting window counts: the attribute holds a single owner.
		if _, ok := a.BlackoutID(); ok {
			return h.reopen(ctx, a)
		}
	}

	return alert.ReasonNone, nil
}

// mute tags the alert with the window and moves it to the suppressed status.
func (h *Handler) mute(ctx context.Context, w *window.Window, status alert.Status, a *alert.Alert) (alert.Reason, error) {
	logger.DebugKV(ctx, "Alert should be muted", "alert_id", a.ID)

	a.SetBlackoutID(w.ID)

	if err := h.repo.SetStatus(ctx, a, status, alert.ReasonMutedByBlackout); err != nil {
		return alert.ReasonNone, fmt.Errorf("mute: %w", err)
	}

	return alert.ReasonMutedByBlackout, nil
}

// reopen moves the alert back to open. The blackout attribute is kept.
func (h *Handler) reopen(ctx context.Context, a *alert.Alert) (alert.Reason, error) {
	logger.DebugKV(ctx, "Alert should be reopened", "alert_id", a.ID)

	if err := h.repo.SetStatus(ctx, a, alert.StatusOpen, alert.ReasonReopenedByBlackout); err != nil {
		return alert.ReasonNone, fmt.Errorf("reopen: %w", err)
	}

	return alert.ReasonReopenedByBlackout, nil
}
