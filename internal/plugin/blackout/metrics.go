package blackout

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oshokin/alarm-blackout/internal/domain/alert"
	"github.com/oshokin/alarm-blackout/internal/domain/window"
)

// Intake outcome label values.
const (
	outcomePassed     = "passed"
	outcomeMuted      = "muted"
	outcomeSuppressed = "suppressed"
)

// Metrics holds the plugin's Prometheus collectors.
// A nil *Metrics records nothing.
type Metrics struct {
	// intakeTotal counts intake decisions by outcome.
	intakeTotal *prometheus.CounterVec
	// transitionsTotal counts reconcile status changes by action and reason.
	transitionsTotal *prometheus.CounterVec
	// failuresTotal counts alerts that failed to reconcile by action.
	failuresTotal *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		intakeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "alarm_blackout",
			Name:      "intake_decisions_total",
			Help:      "Incoming alerts evaluated against blackout windows, by outcome.",
		}, []string{"outcome"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "alarm_blackout",
			Name:      "reconcile_transitions_total",
			Help:      "Alert status changes made while reconciling blackout window changes.",
		}, []string{"action", "reason"}),
		failuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "alarm_blackout",
			Name:      "reconcile_failures_total",
			Help:      "Alerts that could not be updated while reconciling blackout window changes.",
		}, []string{"action"}),
	}

	if reg != nil {
		reg.MustRegister(m.intakeTotal, m.transitionsTotal, m.failuresTotal)
	}

	return m
}

func (m *Metrics) intake(outcome string) {
	if m == nil {
		return
	}

	m.intakeTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) transition(action window.Action, reason alert.Reason) {
	if m == nil {
		return
	}

	label := "muted"
	if reason == alert.ReasonReopenedByBlackout {
		label = "reopened"
	}

	m.transitionsTotal.WithLabelValues(action.String(), label).Inc()
}

func (m *Metrics) failure(action window.Action) {
	if m == nil {
		return
	}

	m.failuresTotal.WithLabelValues(action.String()).Inc()
}
