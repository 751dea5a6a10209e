package intake

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/alarm-blackout/internal/codec"
	"github.com/oshokin/alarm-blackout/internal/config"
	"github.com/oshokin/alarm-blackout/internal/domain/alert"
	"github.com/oshokin/alarm-blackout/internal/domain/window"
	"github.com/oshokin/alarm-blackout/internal/logger"
	"github.com/oshokin/alarm-blackout/internal/pipeline"
	"github.com/oshokin/alarm-blackout/internal/plugin"
	"github.com/oshokin/alarm-blackout/internal/repository/alerts"
)

// Request and response field names.
const (
	fieldAlert      = "alert"
	fieldInBlackout = "in_blackout"
	fieldID         = "id"
	fieldStatus     = "status"
	fieldMessage    = "message"
	fieldAction     = "action"
	fieldText       = "text"
)

// Response status values.
const (
	statusOK         = "ok"
	statusSuppressed = "suppressed"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	// Receive processes an incoming alert. A non-nil inBlackout carries the
	// submitter's blackout verdict for the alert.
	Receive(ctx context.Context, a *alert.Alert, inBlackout *bool) (*pipeline.Outcome, error)
	// BlackoutChange applies a blackout window lifecycle event.
	BlackoutChange(ctx context.Context, event *codec.Event) error
	// TakeAction runs plugin action hooks for a stored alert.
	TakeAction(ctx context.Context, id, action, text string) error
	// Delete runs plugin delete hooks for a stored alert.
	Delete(ctx context.Context, id string) error
}

// Server implements the IntakeService gRPC API.
type Server struct {
	// service provides the business logic.
	service Service
	// now returns the current time, injectable for tests.
	now func() time.Time
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
		now:     time.Now,
	}
}

// Receive accepts an alert. Suppressed alerts are answered with status
// "suppressed" and a message rather than an error.
func (s *Server) Receive(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	a, err := codec.AlertFromStruct(req.GetFields()[fieldAlert].GetStructValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	// History is written by the server only.
	a.History = nil

	if a.Status == "" {
		a.Status = alert.StatusOpen
	}

	if a.ReceivedAt.IsZero() {
		a.ReceivedAt = s.now()
	}

	var inBlackout *bool
	if v, ok := req.GetFields()[fieldInBlackout]; ok {
		flag := v.GetBoolValue()
		inBlackout = &flag
	}

	outcome, err := s.service.Receive(ctx, a, inBlackout)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	if outcome.Suppressed {
		return &structpb.Struct{
			Fields: map[string]*structpb.Value{
				fieldID:      structpb.NewStringValue(a.ID),
				fieldStatus:  structpb.NewStringValue(statusSuppressed),
				fieldMessage: structpb.NewStringValue(outcome.Reason),
			},
		}, nil
	}

	encoded, err := codec.AlertToStruct(outcome.Alert)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldID:     structpb.NewStringValue(outcome.Alert.ID),
			fieldStatus: structpb.NewStringValue(statusOK),
			fieldAlert:  structpb.NewStructValue(encoded),
		},
	}, nil
}

// BlackoutChange applies a blackout window lifecycle event.
func (s *Server) BlackoutChange(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	event, err := codec.EventFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := s.service.BlackoutChange(ctx, event); err != nil {
		return nil, toStatus(ctx, err)
	}

	return new(emptypb.Empty), nil
}

// TakeAction runs action hooks for a stored alert.
func (s *Server) TakeAction(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	id := req.GetFields()[fieldID].GetStringValue()
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	err := s.service.TakeAction(ctx, id,
		req.GetFields()[fieldAction].GetStringValue(),
		req.GetFields()[fieldText].GetStringValue())
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return new(emptypb.Empty), nil
}

// Delete runs delete hooks for a stored alert.
func (s *Server) Delete(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	id := req.GetFields()[fieldID].GetStringValue()
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	if err := s.service.Delete(ctx, id); err != nil {
		return nil, toStatus(ctx, err)
	}

	return new(emptypb.Empty), nil
}

// toStatus maps service errors to gRPC status errors.
func toStatus(ctx context.Context, err error) error {
	var code codes.Code

	switch {
	case errors.Is(err, config.ErrConfigurationMissing):
		code = codes.FailedPrecondition
	case errors.Is(err, plugin.ErrNotImplemented):
		code = codes.Unimplemented
	case errors.Is(err, alerts.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, codec.ErrMissingID), errors.Is(err, window.ErrUnknownAction):
		code = codes.InvalidArgument
	default:
		code = codes.Internal
	}

	if code == codes.Internal {
		logger.ErrorKV(ctx, "Request failed", "error", err)
	}

	return status.Error(code, err.Error())
}
