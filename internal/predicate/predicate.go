package predicate

import (
	"context"
	"slices"
	"sync"

	"github.com/oshokin/alarm-blackout/internal/domain/alert"
)

// Predicate reports whether an alert is inside an active blackout window.
type Predicate interface {
	IsBlackout(ctx context.Context, a *alert.Alert) (bool, error)
}

// Func adapts a function to Predicate.
type Func func(ctx context.Context, a *alert.Alert) (bool, error)

// IsBlackout implements Predicate.
func (f Func) IsBlackout(ctx context.Context, a *alert.Alert) (bool, error) {
	return f(ctx, a)
}

// Tracker is a Predicate backed by the set of alert ids reported to be
// inside an active blackout window.
type Tracker struct {
	// ids holds the alert ids currently in blackout.
	ids map[string]struct{}
	// mu protects ids.
	mu sync.RWMutex
}

// NewTracker creates a tracker seeded with the given alert ids.
func NewTracker(ids ...string) *Tracker {
	t := &Tracker{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		t.ids[id] = struct{}{}
	}

	return t
}

// IsBlackout implements Predicate.
func (t *Tracker) IsBlackout(_ context.Context, a *alert.Alert) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.ids[a.ID]

	return ok, nil
}

// Replace swaps the whole membership set.
func (t *Tracker) Replace(ids []string) {
	next := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.ids = next
}

// Mark adds or removes a single alert.
func (t *Tracker) Mark(id string, inBlackout bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if inBlackout {
		t.ids[id] = struct{}{}

		return
	}

	delete(t.ids, id)
}

// IDs returns the tracked alert ids in sorted order.
func (t *Tracker) IDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]string, 0, len(t.ids))
	for id := range t.ids {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}
