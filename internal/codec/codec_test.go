package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/alarm-blackout/internal/domain/alert"
	"github.com/oshokin/alarm-blackout/internal/domain/window"
)

// TestAlertStruct_Roundtrip ensures an alert with attributes and history survives encoding.
func TestAlertStruct_Roundtrip(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 10, 19, 12, 0, 0, 500, time.UTC)
	want := &alert.Alert{
		ID:          "a-1",
		Resource:    "web01",
		Event:       "HttpDown",
		Environment: "Production",
		Severity:    "major",
		Status:      alert.StatusOpen,
		Attributes:  map[string]string{"region": "eu"},
		ReceivedAt:  ts,
	}
	want.SetBlackoutID("w-1")
	want.SetStatus(alert.StatusBlackout, alert.ReasonMutedByBlackout, ts)

	s, err := AlertToStruct(want)
	require.NoError(t, err)

	got, err := AlertFromStruct(s)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

// TestAlertFromStruct_JSON decodes a submitter payload with non-string attributes.
func TestAlertFromStruct_JSON(t *testing.T) {
	t.Parallel()

	payload := `{
		"id": "a-2",
		"resource": "db01",
		"status": "open",
		"attributes": {"retries": 3, "flag": true, "note": null},
		"history": [{"id": "h-1", "status": "open", "text": "reopened by blackout plugin", "updateTime": "2026-10-19T12:00:00Z"}]
	}`

	s := new(structpb.Struct)
	require.NoError(t, protojson.Unmarshal([]byte(payload), s))

	a, err := AlertFromStruct(s)
	require.NoError(t, err)
	require.Equal(t, "3", a.Attributes["retries"])
	require.Equal(t, "true", a.Attributes["flag"])
	require.Empty(t, a.Attributes["note"])
	require.True(t, a.ReceivedAt.IsZero())
	require.Len(t, a.History, 1)
	require.Equal(t, alert.ReasonReopenedByBlackout, a.History[0].Reason)

	_, ok := a.BlackoutID()
	require.False(t, ok)
}

// TestAlertFromStruct_Invalid covers missing id, nil input and bad timestamps.
func TestAlertFromStruct_Invalid(t *testing.T) {
	t.Parallel()

	_, err := AlertFromStruct(nil)
	require.Error(t, err)

	s, err := structpb.NewStruct(map[string]any{"resource": "web01"})
	require.NoError(t, err)

	_, err = AlertFromStruct(s)
	require.ErrorIs(t, err, ErrMissingID)

	s, err = structpb.NewStruct(map[string]any{"id": "a-1", "receiveTime": "yesterday"})
	require.NoError(t, err)

	_, err = AlertFromStruct(s)
	require.Error(t, err)
}

// TestEventFromStruct_JSON decodes a lifecycle event as published on the bus.
func TestEventFromStruct_JSON(t *testing.T) {
	t.Parallel()

	payload := `{
		"action": "delete",
		"blackout": {"id": "w-1", "environment": "Production", "duration": 3600},
		"in_blackout": ["a-1", "", "a-2"]
	}`

	s := new(structpb.Struct)
	require.NoError(t, protojson.Unmarshal([]byte(payload), s))

	e, err := EventFromStruct(s)
	require.NoError(t, err)
	require.Equal(t, window.ActionDeleted, e.Action)
	require.Equal(t, "w-1", e.Window.ID)
	require.Equal(t, "Production", e.Window.Fields["environment"])
	require.InDelta(t, 3600.0, e.Window.Fields["duration"], 0)
	require.NotContains(t, e.Window.Fields, "id")
	require.Equal(t, []string{"a-1", "a-2"}, e.InBlackout)
}

// TestEventStruct_Roundtrip ensures encoding keeps the action, window and membership.
func TestEventStruct_Roundtrip(t *testing.T) {
	t.Parallel()

	want := &Event{
		Action:     window.ActionUpdated,
		Window:     &window.Window{ID: "w-2", Fields: map[string]any{"environment": "Development"}},
		InBlackout: []string{"a-3"},
	}

	s, err := EventToStruct(want)
	require.NoError(t, err)

	got, err := EventFromStruct(s)
	require.NoError(t, err)
	require.Equal(t, want, got)

	// Membership is optional.
	want.InBlackout = nil

	s, err = EventToStruct(want)
	require.NoError(t, err)

	got, err = EventFromStruct(s)
	require.NoError(t, err)
	require.Nil(t, got.InBlackout)
}

// TestEventFromStruct_Invalid covers unknown actions and missing window ids.
func TestEventFromStruct_Invalid(t *testing.T) {
	t.Parallel()

	_, err := EventFromStruct(nil)
	require.Error(t, err)

	s, err := structpb.NewStruct(map[string]any{
		"action":   "expire",
		"blackout": map[string]any{"id": "w-1"},
	})
	require.NoError(t, err)

	_, err = EventFromStruct(s)
	require.ErrorIs(t, err, window.ErrUnknownAction)

	s, err = structpb.NewStruct(map[string]any{
		"action":   "create",
		"blackout": map[string]any{},
	})
	require.NoError(t, err)

	_, err = EventFromStruct(s)
	require.ErrorIs(t, err, ErrMissingID)
}
