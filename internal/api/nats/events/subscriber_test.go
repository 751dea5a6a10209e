package events

import (
	"context"
	"errors"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/alarm-blackout/internal/codec"
	"github.com/oshokin/alarm-blackout/internal/domain/window"
)

var errTestHandler = errors.New("test handler error")

// recordingHandler records events and returns err.
type recordingHandler struct {
	events []*codec.Event
	err    error
}

// BlackoutChange records the event.
func (r *recordingHandler) BlackoutChange(_ context.Context, event *codec.Event) error {
	r.events = append(r.events, event)

	return r.err
}

// TestProcess_DecodesEvent verifies a published JSON event reaches the handler.
func TestProcess_DecodesEvent(t *testing.T) {
	t.Parallel()

	h := new(recordingHandler)
	s := New(h)

	data := []byte(`{"action": "update", "blackout": {"id": "w-1", "service": ["web"]}, "in_blackout": ["a-1"]}`)
	require.NoError(t, s.process(context.Background(), data))

	require.Len(t, h.events, 1)
	require.Equal(t, window.ActionUpdated, h.events[0].Action)
	require.Equal(t, "w-1", h.events[0].Window.ID)
	require.Equal(t, []string{"a-1"}, h.events[0].InBlackout)
}

// TestProcess_Errors covers malformed payloads and handler failures.
func TestProcess_Errors(t *testing.T) {
	t.Parallel()

	h := &recordingHandler{err: errTestHandler}
	s := New(h)
	ctx := context.Background()

	require.Error(t, s.process(ctx, []byte("not json")))
	require.ErrorIs(t, s.process(ctx, []byte(`{"action": "expire", "blackout": {"id": "w-1"}}`)), window.ErrUnknownAction)
	require.Empty(t, h.events)

	require.ErrorIs(t, s.process(ctx, []byte(`{"action": "delete", "blackout": {"id": "w-1"}}`)), errTestHandler)
	require.Len(t, h.events, 1)
}

// TestHandle_WithoutReply verifies fire-and-forget messages are processed without answering.
func TestHandle_WithoutReply(t *testing.T) {
	t.Parallel()

	h := new(recordingHandler)
	New(h).handle(context.Background(), &nats.Msg{
		Subject: "alerta.blackout",
		Data:    []byte(`{"action": "create", "blackout": {"id": "w-1"}}`),
	})

	require.Len(t, h.events, 1)
}

// TestReply renders success and failure answers.
func TestReply(t *testing.T) {
	t.Parallel()

	var ok structpb.Struct
	require.NoError(t, protojson.Unmarshal(reply(nil), &ok))
	require.Equal(t, "ok", ok.GetFields()["status"].GetStringValue())

	var failed structpb.Struct
	require.NoError(t, protojson.Unmarshal(reply(errTestHandler), &failed))
	require.Equal(t, "error", failed.GetFields()["status"].GetStringValue())
	require.Equal(t, "test handler error", failed.GetFields()["message"].GetStringValue())
}

// TestSubscribe_Validation verifies missing connection and subject are rejected.
func TestSubscribe_Validation(t *testing.T) {
	t.Parallel()

	s := New(new(recordingHandler))

	require.Error(t, s.Subscribe(context.Background(), nil, "alerta.blackout"))
	require.NoError(t, s.Close())
}
