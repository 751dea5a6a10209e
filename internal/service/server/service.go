package server

import (
	"context"

	"github.com/oshokin/alarm-blackout/internal/codec"
	"github.com/oshokin/alarm-blackout/internal/config"
	"github.com/oshokin/alarm-blackout/internal/domain/alert"
	"github.com/oshokin/alarm-blackout/internal/pipeline"
	"github.com/oshokin/alarm-blackout/internal/plugin/blackout"
	"github.com/oshokin/alarm-blackout/internal/predicate"
	"github.com/oshokin/alarm-blackout/internal/repository/alerts"
)

// service connects the transports to the processing pipeline.
// It is unexported to keep the transports decoupled from the implementation.
type service struct {
	// pipeline runs alerts and blackout changes through the plugins.
	pipeline *pipeline.Pipeline
	// tracker records which alerts the blackout service reports in blackout.
	tracker *predicate.Tracker
}

// newService creates a service with the blackout plugin over repo.
func newService(repo alerts.Repository, settings config.Provider, metrics *blackout.Metrics) *service {
	tracker := predicate.NewTracker()
	handler := blackout.New(tracker, settings, repo, blackout.WithMetrics(metrics))

	return &service{
		pipeline: pipeline.New(repo, handler),
		tracker:  tracker,
	}
}

// Receive records the submitter's blackout verdict, if any, and runs the alert
// through the pipeline.
func (s *service) Receive(ctx context.Context, a *alert.Alert, inBlackout *bool) (*pipeline.Outcome, error) {
	if inBlackout != nil {
		s.tracker.Mark(a.ID, *inBlackout)
	}

	return s.pipeline.Receive(ctx, a)
}

// BlackoutChange refreshes blackout membership from the event, when reported,
// and reconciles stored alerts.
func (s *service) BlackoutChange(ctx context.Context, event *codec.Event) error {
	if event.InBlackout != nil {
		s.tracker.Replace(event.InBlackout)
	}

	return s.pipeline.BlackoutChange(ctx, event.Window, event.Action)
}

// TakeAction runs plugin action hooks.
func (s *service) TakeAction(ctx context.Context, id, action, text string) error {
	return s.pipeline.TakeAction(ctx, id, action, text)
}

// Delete runs plugin delete hooks.
func (s *service) Delete(ctx context.Context, id string) error {
	return s.pipeline.Delete(ctx, id)
}
