package observability

import (
	"time"

	"github.com/aretw0/turing/pkg/engine"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the engine.
type Metrics struct {
	Transitions *prometheus.CounterVec
	Undefined   prometheus.Counter
	Halts       *prometheus.CounterVec
	RunDuration *prometheus.HistogramVec
	RunSteps    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_transitions_total",
				Help: "Total number of transitions taken, by head movement",
			},
			[]string{"action"},
		),
		Undefined: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "turing_undefined_transitions_total",
				Help: "Total number of steps that found no usable transition",
			},
		),
		Halts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_halts_total",
				Help: "Total number of machines that halted, by status",
			},
			[]string{"status"},
		),
		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "turing_run_duration_seconds",
				Help:    "Duration of complete runs",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"status"},
		),
		RunSteps: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "turing_run_steps",
				Help:    "Number of steps taken by complete runs",
				Buckets: prometheus.ExponentialBuckets(1, 10, 8),
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Transitions, m.Undefined, m.Halts, m.RunDuration, m.RunSteps)
	}
	return m
}

// ObserveRun records the outcome of a complete run.
func (m *Metrics) ObserveRun(status string, steps uint64, d time.Duration) {
	m.RunDuration.WithLabelValues(status).Observe(d.Seconds())
	m.RunSteps.Observe(float64(steps))
}

// MetricsHooks returns engine hooks that feed m.
func MetricsHooks[S comparable](m *Metrics) engine.Hooks[S] {
	return engine.Hooks[S]{
		OnTransition: func(e engine.TransitionEvent[S]) {
			m.Transitions.WithLabelValues(e.Action.String()).Inc()
		},
		OnUndefined: func(engine.UndefinedEvent[S]) {
			m.Undefined.Inc()
		},
		OnHalt: func(e engine.HaltEvent) {
			m.Halts.WithLabelValues(e.Status.String()).Inc()
		},
	}
}
