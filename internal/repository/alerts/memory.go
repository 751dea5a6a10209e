package alerts

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/oshokin/alarm-blackout/internal/domain/alert"
)

// MemoryRepository keeps alerts in memory.
type MemoryRepository struct {
	// alerts holds stored alerts keyed by id.
	alerts map[string]*alert.Alert
	// now returns the current time, injectable for tests.
	now func() time.Time
	// mu protects alerts.
	mu sync.RWMutex
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		alerts: make(map[string]*alert.Alert),
		now:    time.Now,
	}
}

// FindAll returns copies of all alerts ordered by id.
func (r *MemoryRepository) FindAll(_ context.Context) ([]*alert.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*alert.Alert, 0, len(r.alerts))
	for _, a := range r.alerts {
		result = append(result, a.Clone())
	}

	sortByID(result)

	return result, nil
}

// Get returns a copy of the alert with the given id.
func (r *MemoryRepository) Get(_ context.Context, id string) (*alert.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.alerts[id]
	if !ok {
		return nil, ErrNotFound
	}

	return a.Clone(), nil
}

// Save stores a copy of the alert.
func (r *MemoryRepository) Save(_ context.Context, a *alert.Alert) error {
	if a == nil || a.ID == "" {
		return errNilAlert
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.alerts[a.ID] = a.Clone()

	return nil
}

// SetStatus implements Repository.
func (r *MemoryRepository) SetStatus(ctx context.Context, a *alert.Alert, status alert.Status, reason alert.Reason) error {
	if a == nil || a.ID == "" {
		return errNilAlert
	}

	a.SetStatus(status, reason, r.now())

	return r.Save(ctx, a)
}

// sortByID orders alerts by id so scans are deterministic.
func sortByID(list []*alert.Alert) {
	slices.SortFunc(list, func(a, b *alert.Alert) int {
		return cmp.Compare(a.ID, b.ID)
	})
}
