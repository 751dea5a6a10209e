package codec

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/alarm-blackout/internal/domain/alert"
)

// Alert field names.
const (
	fieldID          = "id"
	fieldResource    = "resource"
	fieldEvent       = "event"
	fieldEnvironment = "environment"
	fieldSeverity    = "severity"
	fieldStatus      = "status"
	fieldAttributes  = "attributes"
	fieldHistory     = "history"
	fieldReceiveTime = "receiveTime"
	fieldText        = "text"
	fieldUpdateTime  = "updateTime"
)

var (
	// ErrMissingID is returned when a decoded object has no id.
	ErrMissingID = errors.New("id is required")
	// errNilStruct is returned when a nil message is decoded.
	errNilStruct = errors.New("message is empty")
)

// AlertToStruct converts an alert into a protobuf Struct.
func AlertToStruct(a *alert.Alert) (*structpb.Struct, error) {
	attributes := make(map[string]any, len(a.Attributes))
	for k, v := range a.Attributes {
		attributes[k] = v
	}

	history := make([]any, 0, len(a.History))
	for _, h := range a.History {
		history = append(history, map[string]any{
			fieldID:         h.ID,
			fieldStatus:     string(h.Status),
			fieldText:       h.Text,
			fieldUpdateTime: formatTime(h.Timestamp),
		})
	}

	fields := map[string]any{
		fieldID:          a.ID,
		fieldResource:    a.Resource,
		fieldEvent:       a.Event,
		fieldEnvironment: a.Environment,
		fieldSeverity:    a.Severity,
		fieldStatus:      string(a.Status),
		fieldAttributes:  attributes,
		fieldHistory:     history,
		fieldReceiveTime: formatTime(a.ReceivedAt),
	}

	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode alert %s: %w", a.ID, err)
	}

	return s, nil
}

// AlertFromStruct converts a protobuf Struct into an alert.
// Attribute values that are not strings are rendered with fmt.
func AlertFromStruct(s *structpb.Struct) (*alert.Alert, error) {
	if s == nil {
		return nil, errNilStruct
	}

	m := s.AsMap()

	a := &alert.Alert{
		ID:          stringField(m, fieldID),
		Resource:    stringField(m, fieldResource),
		Event:       stringField(m, fieldEvent),
		Environment: stringField(m, fieldEnvironment),
		Severity:    stringField(m, fieldSeverity),
		Status:      alert.Status(stringField(m, fieldStatus)),
	}

	if a.ID == "" {
		return nil, fmt.Errorf("decode alert: %w", ErrMissingID)
	}

	receivedAt, err := parseTime(stringField(m, fieldReceiveTime))
	if err != nil {
		return nil, fmt.Errorf("decode alert %s: %w", a.ID, err)
	}

	a.ReceivedAt = receivedAt

	if raw, ok := m[fieldAttributes].(map[string]any); ok && len(raw) > 0 {
		a.Attributes = make(map[string]string, len(raw))
		for k, v := range raw {
			a.Attributes[k] = renderValue(v)
		}
	}

	rawHistory, _ := m[fieldHistory].([]any)
	for _, item := range rawHistory {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}

		ts, err := parseTime(stringField(entry, fieldUpdateTime))
		if err != nil {
			return nil, fmt.Errorf("decode alert %s history: %w", a.ID, err)
		}

		text := stringField(entry, fieldText)
		a.History = append(a.History, alert.HistoryEntry{
			ID:        stringField(entry, fieldID),
			Status:    alert.Status(stringField(entry, fieldStatus)),
			Reason:    alert.ParseReason(text),
			Text:      text,
			Timestamp: ts,
		})
	}

	return a, nil
}

// stringField returns m[key] when it is a string.
func stringField(m map[string]any, key string) string {
	v, _ := m[key].(string)

	return v
}

// renderValue renders a decoded JSON value as an attribute string.
func renderValue(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case nil:
		return ""
	default:
		return fmt.Sprint(value)
	}
}

// formatTime renders t in UTC with nanoseconds; the zero time renders empty.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime is the inverse of formatTime.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}

	return t, nil
}
