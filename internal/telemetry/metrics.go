package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Metrics wraps the Prometheus instruments the orchestrator publishes.
// Pulled in from the stack used for observability across the retrieval
// pack's service-shaped repos (C360Studio-semspec), rather than hand-rolled
// counters, so the /metrics surface speaks the ecosystem's native format.
type Metrics struct {
	Transitions       *prometheus.CounterVec
	EffectsDispatched *prometheus.CounterVec
	ParseFailures      prometheus.Counter
	StateVersion       prometheus.Gauge
}

// NewMetrics registers the orchestrator's instruments against the given
// registerer. Pass prometheus.NewRegistry() in tests to avoid colliding
// with the global default registry across parallel test packages.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orcaspine_transitions_total",
			Help: "Accepted state transitions, by intent type and resulting phase.",
		}, []string{"intent", "phase"}),
		EffectsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orcaspine_effects_dispatched_total",
			Help: "Effects handed to the dispatcher, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		ParseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orcaspine_planning_parse_failures_total",
			Help: "Planner outputs that failed normalization after the strict-JSON retry.",
		}),
		StateVersion: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orcaspine_state_version",
			Help: "Current ProjectState.version.",
		}),
	}
	reg.MustRegister(m.Transitions, m.EffectsDispatched, m.ParseFailures, m.StateVersion)
	return m
}
