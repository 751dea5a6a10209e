package blackout

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-blackout/internal/config"
	"github.com/oshokin/alarm-blackout/internal/domain/alert"
	"github.com/oshokin/alarm-blackout/internal/predicate"
	"github.com/oshokin/alarm-blackout/internal/repository/alerts"
)

var (
	errTestStore     = errors.New("test store error")
	errTestPredicate = errors.New("test predicate error")
)

// settings builds plugin settings for the given alarm model and notification flag.
// A nil notify leaves NOTIFICATION_BLACKOUT unset.
func settings(model string, notify *bool) *config.Config {
	return &config.Config{
		Plugins: config.PluginsConfig{
			NotificationBlackout: notify,
			AlarmModel:           model,
		},
	}
}

// boolPtr returns a pointer to v.
func boolPtr(v bool) *bool {
	return &v
}

// failingRepository wraps a MemoryRepository and fails selected operations.
type failingRepository struct {
	*alerts.MemoryRepository

	// findErr is returned from FindAll when set.
	findErr error
	// failIDs lists alerts whose SetStatus fails.
	failIDs map[string]bool
}

// FindAll fails with findErr when set, otherwise delegates.
func (f *failingRepository) FindAll(ctx context.Context) ([]*alert.Alert, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}

	return f.MemoryRepository.FindAll(ctx)
}

// SetStatus fails for alerts listed in failIDs, otherwise delegates.
func (f *failingRepository) SetStatus(ctx context.Context, a *alert.Alert, status alert.Status, reason alert.Reason) error {
	if f.failIDs[a.ID] {
		return errTestStore
	}

	return f.MemoryRepository.SetStatus(ctx, a, status, reason)
}

// fixture bundles a handler with its collaborators.
type fixture struct {
	handler *Handler
	tracker *predicate.Tracker
	repo    *alerts.MemoryRepository
	metrics *Metrics
}

// newFixture creates a handler over an in-memory store seeded with alerts.
func newFixture(t *testing.T, cfg *config.Config, seed ...*alert.Alert) *fixture {
	t.Helper()

	repo := alerts.NewMemoryRepository()
	for _, a := range seed {
		require.NoError(t, repo.Save(context.Background(), a))
	}

	tracker := predicate.NewTracker()
	metrics := NewMetrics(prometheus.NewRegistry())

	return &fixture{
		handler: New(tracker, cfg, repo, WithMetrics(metrics)),
		tracker: tracker,
		repo:    repo,
		metrics: metrics,
	}
}

// get loads an alert from the fixture store.
func (f *fixture) get(t *testing.T, id string) *alert.Alert {
	t.Helper()

	a, err := f.repo.Get(context.Background(), id)
	require.NoError(t, err)

	return a
}
