package codec

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/alarm-blackout/internal/domain/window"
)

// Event field names.
const (
	fieldAction     = "action"
	fieldBlackout   = "blackout"
	fieldInBlackout = "in_blackout"
)

// Event is a blackout lifecycle event as published by the blackout service.
type Event struct {
	// Action is the lifecycle change.
	Action window.Action
	// Window is the window that changed.
	Window *window.Window
	// InBlackout lists the alerts inside any active blackout window after
	// the change. Nil means the publisher did not report membership.
	InBlackout []string
}

// WindowToStruct converts a window into a protobuf Struct.
func WindowToStruct(w *window.Window) (*structpb.Struct, error) {
	fields := make(map[string]any, len(w.Fields)+1)
	for k, v := range w.Fields {
		fields[k] = v
	}

	fields[fieldID] = w.ID

	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode blackout %s: %w", w.ID, err)
	}

	return s, nil
}

// WindowFromStruct converts a protobuf Struct into a window.
func WindowFromStruct(s *structpb.Struct) (*window.Window, error) {
	if s == nil {
		return nil, errNilStruct
	}

	fields := s.AsMap()

	id := stringField(fields, fieldID)
	if id == "" {
		return nil, fmt.Errorf("decode blackout: %w", ErrMissingID)
	}

	delete(fields, fieldID)

	return &window.Window{
		ID:     id,
		Fields: fields,
	}, nil
}

// EventToStruct converts an event into a protobuf Struct.
func EventToStruct(e *Event) (*structpb.Struct, error) {
	w, err := WindowToStruct(e.Window)
	if err != nil {
		return nil, err
	}

	s := &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldAction:   structpb.NewStringValue(e.Action.String()),
			fieldBlackout: structpb.NewStructValue(w),
		},
	}

	if e.InBlackout != nil {
		ids := make([]*structpb.Value, 0, len(e.InBlackout))
		for _, id := range e.InBlackout {
			ids = append(ids, structpb.NewStringValue(id))
		}

		s.Fields[fieldInBlackout] = structpb.NewListValue(&structpb.ListValue{Values: ids})
	}

	return s, nil
}

// EventFromStruct converts a protobuf Struct into an event.
func EventFromStruct(s *structpb.Struct) (*Event, error) {
	if s == nil {
		return nil, errNilStruct
	}

	action, err := window.ParseAction(s.GetFields()[fieldAction].GetStringValue())
	if err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	w, err := WindowFromStruct(s.GetFields()[fieldBlackout].GetStructValue())
	if err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	event := &Event{
		Action: action,
		Window: w,
	}

	if list := s.GetFields()[fieldInBlackout].GetListValue(); list != nil {
		event.InBlackout = make([]string, 0, len(list.GetValues()))
		for _, v := range list.GetValues() {
			if id := v.GetStringValue(); id != "" {
				event.InBlackout = append(event.InBlackout, id)
			}
		}
	}

	return event, nil
}
