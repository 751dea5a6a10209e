package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/alarm-blackout/internal/codec"
	"github.com/oshokin/alarm-blackout/internal/logger"
)

// Handler processes decoded blackout lifecycle events.
type Handler interface {
	BlackoutChange(ctx context.Context, event *codec.Event) error
}

// Subscriber delivers blackout lifecycle events from a NATS subject to a Handler.
type Subscriber struct {
	// handler processes decoded events.
	handler Handler
	// sub is the active NATS subscription.
	sub *nats.Subscription
}

var (
	// errConnRequired is returned when no NATS connection is provided.
	errConnRequired = errors.New("nats connection is required")
	// errSubjectRequired is returned when no subject is provided.
	errSubjectRequired = errors.New("nats subject is required")
)

// New creates a subscriber that passes events to h.
func New(h Handler) *Subscriber {
	return &Subscriber{handler: h}
}

// Subscribe starts consuming events published on subject.
// Messages are handled one at a time in the NATS delivery goroutine.
func (s *Subscriber) Subscribe(ctx context.Context, nc *nats.Conn, subject string) error {
	if nc == nil {
		return errConnRequired
	}

	if subject == "" {
		return errSubjectRequired
	}

	ctx = logger.WithKV(ctx, "subject", subject)

	sub, err := nc.Subscribe(subject, func(msg *nats.Msg) {
		s.handle(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}

	s.sub = sub

	logger.InfoKV(ctx, "Listening for blackout events")

	return nil
}

// Close drains the subscription.
func (s *Subscriber) Close() error {
	if s.sub == nil {
		return nil
	}

	return s.sub.Drain()
}

// handle decodes and processes a single message.
func (s *Subscriber) handle(ctx context.Context, msg *nats.Msg) {
	err := s.process(ctx, msg.Data)
	if err != nil {
		logger.ErrorKV(ctx, "Failed to process blackout event", "error", err)
	}

	if msg.Reply == "" {
		return
	}

	if err := msg.Respond(reply(err)); err != nil {
		logger.ErrorKV(ctx, "Failed to answer blackout event", "error", err)
	}
}

// process decodes an event and passes it to the handler.
func (s *Subscriber) process(ctx context.Context, data []byte) error {
	var payload structpb.Struct
	if err := protojson.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}

	event, err := codec.EventFromStruct(&payload)
	if err != nil {
		return err
	}

	ctx = logger.WithKV(ctx, "window_id", event.Window.ID)
	logger.DebugKV(ctx, "Blackout event received", "action", event.Action)

	return s.handler.BlackoutChange(ctx, event)
}

// reply renders the processing result for request-reply publishers.
func reply(err error) []byte {
	result := &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"status": structpb.NewStringValue("ok"),
		},
	}

	if err != nil {
		result.Fields["status"] = structpb.NewStringValue("error")
		result.Fields["message"] = structpb.NewStringValue(err.Error())
	}

	data, _ := protojson.Marshal(result) //nolint:errcheck // Struct of strings always encodes.

	return data
}
