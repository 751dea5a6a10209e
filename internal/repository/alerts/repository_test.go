package alerts

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-blackout/internal/domain/alert"
)

// repositories returns every implementation under test with a fixed clock.
func repositories(t *testing.T, now time.Time) map[string]Repository {
	t.Helper()

	memory := NewMemoryRepository()
	memory.now = func() time.Time { return now }

	file := NewFileRepository(filepath.Join(t.TempDir(), "alerts.json"))
	file.now = func() time.Time { return now }

	return map[string]Repository{
		"memory": memory,
		"file":   file,
	}
}

// TestRepository_SaveFindAll ensures saved alerts are returned ordered by id and detached from the caller.
func TestRepository_SaveFindAll(t *testing.T) {
	t.Parallel()

	for name, repo := range repositories(t, time.Now()) {
		repo := repo

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()

			empty, err := repo.FindAll(ctx)
			require.NoError(t, err)
			require.Empty(t, empty)

			b := &alert.Alert{ID: "b", Status: alert.StatusOpen}
			a := &alert.Alert{ID: "a", Status: alert.StatusOpen, Attributes: map[string]string{"region": "eu"}}

			require.NoError(t, repo.Save(ctx, b))
			require.NoError(t, repo.Save(ctx, a))

			// Mutating the caller's copy must not leak into the store.
			a.Attributes["region"] = "us"

			all, err := repo.FindAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			require.Equal(t, "a", all[0].ID)
			require.Equal(t, "b", all[1].ID)
			require.Equal(t, "eu", all[0].Attributes["region"])

			require.Error(t, repo.Save(ctx, nil))
			require.Error(t, repo.Save(ctx, new(alert.Alert)))
		})
	}
}

// TestRepository_Get covers found and missing alerts.
func TestRepository_Get(t *testing.T) {
	t.Parallel()

	for name, repo := range repositories(t, time.Now()) {
		repo := repo

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()

			_, err := repo.Get(ctx, "missing")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, repo.Save(ctx, &alert.Alert{ID: "a", Status: alert.StatusOpen}))

			got, err := repo.Get(ctx, "a")
			require.NoError(t, err)
			require.Equal(t, alert.StatusOpen, got.Status)
		})
	}
}

// TestRepository_SetStatus ensures status, attributes and audit history are persisted together.
func TestRepository_SetStatus(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

	for name, repo := range repositories(t, now) {
		repo := repo

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			a := &alert.Alert{ID: "a", Status: alert.StatusOpen}
			require.NoError(t, repo.Save(ctx, a))

			a.SetBlackoutID("w-1")
			require.NoError(t, repo.SetStatus(ctx, a, alert.StatusBlackout, alert.ReasonMutedByBlackout))

			got, err := repo.Get(ctx, "a")
			require.NoError(t, err)
			require.Equal(t, alert.StatusBlackout, got.Status)

			id, ok := got.BlackoutID()
			require.True(t, ok)
			require.Equal(t, "w-1", id)

			require.Len(t, got.History, 1)
			require.Equal(t, "muted by blackout plugin", got.History[0].Text)
			require.Equal(t, alert.ReasonMutedByBlackout, got.History[0].Reason)
			require.Equal(t, now, got.History[0].Timestamp)

			require.Error(t, repo.SetStatus(ctx, nil, alert.StatusOpen, alert.ReasonReopenedByBlackout))
		})
	}
}

// TestFileRepository_Corrupted verifies a broken store file is reported.
func TestFileRepository_Corrupted(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "alerts.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileRepository(path).FindAll(context.Background())
	require.Error(t, err)
}
