package alert

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Status is the alert status name.
type Status string

const (
	// StatusOpen is the status of an active, unsuppressed alert.
	StatusOpen Status = "open"
	// StatusBlackout is the suppressed status used by the ALERTA alarm model.
	StatusBlackout Status = "blackout"
	// StatusOutOfService is the suppressed status used by the ISA-18.2 alarm model.
	StatusOutOfService Status = "OOSRV"
)

// AttributeBlackout is the attribute key that holds the id of the blackout
// window which muted the alert.
const AttributeBlackout = "blackout"

// HistoryEntry records a single status change.
type HistoryEntry struct {
	// ID uniquely identifies the history entry.
	ID string
	// Status is the status the alert was moved to.
	Status Status
	// Reason is the structured cause of the change.
	Reason Reason
	// Text is the human-readable explanation stored with the change.
	Text string
	// Timestamp is when the change happened.
	Timestamp time.Time
}

// Alert is an alert record as seen by the suppression plugin.
type Alert struct {
	// ID uniquely identifies the alert.
	ID string
	// Resource is the resource the alert refers to.
	Resource string
	// Event is the event name.
	Event string
	// Environment is the environment the alert was raised in.
	Environment string
	// Severity is the alert severity.
	Severity string
	// Status is the current alert status.
	Status Status
	// Attributes holds free-form alert attributes.
	Attributes map[string]string
	// History holds status changes in the order they happened.
	History []HistoryEntry
	// ReceivedAt is when the alert was last received.
	ReceivedAt time.Time
}

// BlackoutID returns the id of the window that muted the alert, if any.
func (a *Alert) BlackoutID() (string, bool) {
	id, ok := a.Attributes[AttributeBlackout]

	return id, ok
}

// SetBlackoutID records the window that muted the alert.
func (a *Alert) SetBlackoutID(windowID string) {
	if a.Attributes == nil {
		a.Attributes = make(map[string]string, 1)
	}

	a.Attributes[AttributeBlackout] = windowID
}

// SetStatus moves the alert to the given status and appends a history entry
// describing why.
func (a *Alert) SetStatus(status Status, reason Reason, now time.Time) HistoryEntry {
	entry := HistoryEntry{
		ID:        uuid.NewString(),
		Status:    status,
		Reason:    reason,
		Text:      reason.String(),
		Timestamp: now,
	}

	a.Status = status
	a.History = append(a.History, entry)

	return entry
}

// Clone returns a deep copy of the alert.
func (a *Alert) Clone() *Alert {
	if a == nil {
		return nil
	}

	cloned := *a
	cloned.Attributes = maps.Clone(a.Attributes)
	cloned.History = slices.Clone(a.History)

	return &cloned
}
