package blackout

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/oshokin/alarm-blackout/internal/domain/window"
)

// AlertFailure is an alert the reconciler could not update.
type AlertFailure struct {
	// AlertID identifies the alert.
	AlertID string
	// Err is the store error.
	Err error
}

// ReconcileError reports alerts that failed during a blackout change scan.
// Every other alert was processed.
type ReconcileError struct {
	// WindowID is the window whose change was reconciled.
	WindowID string
	// Action is the reconciled change.
	Action window.Action
	// Failed lists failed alerts in scan order.
	Failed []AlertFailure

	// errs combines the failure causes.
	errs error
}

// add records a failed alert.
func (e *ReconcileError) add(alertID string, err error) {
	e.Failed = append(e.Failed, AlertFailure{AlertID: alertID, Err: err})
	e.errs = multierr.Append(e.errs, fmt.Errorf("alert %s: %w", alertID, err))
}

// AlertIDs returns the ids of failed alerts.
func (e *ReconcileError) AlertIDs() []string {
	ids := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		ids = append(ids, f.AlertID)
	}

	return ids
}

// Error implements error.
func (e *ReconcileError) Error() string {
	return fmt.Sprintf("reconcile blackout %s %s: %d alert(s) failed: %v",
		e.WindowID, e.Action, len(e.Failed), e.errs)
}

// Unwrap exposes every failure cause to errors.Is and errors.As.
func (e *ReconcileError) Unwrap() []error {
	return multierr.Errors(e.errs)
}
