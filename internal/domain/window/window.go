package window

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

// Window is a blackout window.
type Window struct {
	// ID uniquely identifies the window.
	ID string
	// Fields holds the window definition (schedule, scope, tags).
	Fields map[string]any
}

// Clone returns a copy of the window with its own field map.
func (w *Window) Clone() *Window {
	if w == nil {
		return nil
	}

	return &Window{
		ID:     w.ID,
		Fields: maps.Clone(w.Fields),
	}
}

// Action is a lifecycle change of a blackout window.
type Action int

const (
	// ActionCreated is reported after a window is created.
	ActionCreated Action = iota + 1
	// ActionUpdated is reported after a window definition changes.
	ActionUpdated
	// ActionDeleted is reported after a window is removed.
	ActionDeleted
)

// ErrUnknownAction is returned when an action name cannot be parsed.
var ErrUnknownAction = errors.New("unknown blackout action")

// String returns the wire name of the action.
func (a Action) String() string {
	switch a {
	case ActionCreated:
		return "create"
	case ActionUpdated:
		return "update"
	case ActionDeleted:
		return "delete"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// ParseAction converts a wire name into an Action.
// Both verb ("create") and past tense ("created") forms are accepted.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "create", "created":
		return ActionCreated, nil
	case "update", "updated":
		return ActionUpdated, nil
	case "delete", "deleted":
		return ActionDeleted, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}
