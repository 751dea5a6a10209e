package alerts

import (
	"context"
	"errors"

	"github.com/oshokin/alarm-blackout/internal/domain/alert"
)

// ErrNotFound is returned when an alert does not exist.
var ErrNotFound = errors.New("alert not found")

// errNilAlert is returned when a nil alert or an alert without id is stored.
var errNilAlert = errors.New("alert with an id is required")

// Repository defines persistence operations for alerts.
type Repository interface {
	// FindAll returns every stored alert.
	FindAll(ctx context.Context) ([]*alert.Alert, error)
	// Get returns the alert with the given id.
	Get(ctx context.Context, id string) (*alert.Alert, error)
	// Save inserts or replaces the alert.
	Save(ctx context.Context, a *alert.Alert) error
	// SetStatus moves the alert to status, records reason in its history and
	// persists the alert, attributes included.
	SetStatus(ctx context.Context, a *alert.Alert, status alert.Status, reason alert.Reason) error
}
