package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the access gate.
type Metrics struct {
	// Decision outcomes by outcome and profile
	Outcomes *prometheus.CounterVec

	// Failed predicates by name
	PredicateFailures *prometheus.CounterVec

	// Geo lookup latency by result ("ok", "no_country", or error category)
	LookupLatency *prometheus.HistogramVec

	// Overall evaluation latency
	EvaluateLatency prometheus.Histogram
}

// New creates the gate metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "oceangate_decisions_total",
			Help: "Total gate decisions by outcome and profile",
		}, []string{"outcome", "profile"}), // outcome: "allowed", "denied", "invalid"

		PredicateFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "oceangate_predicate_failures_total",
			Help: "Total failed gate predicates by predicate",
		}, []string{"predicate"}),

		LookupLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "oceangate_geo_lookup_duration_seconds",
			Help:    "Duration of geo lookups by result",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"result"}),

		EvaluateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "oceangate_evaluate_duration_seconds",
			Help:    "Duration of full gate evaluation including the geo lookup",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// IncrementOutcome records a decision outcome.
func (m *Metrics) IncrementOutcome(outcome, profile string) {
	if m != nil {
		m.Outcomes.WithLabelValues(outcome, profile).Inc()
	}
}

// IncrementPredicateFailure records a predicate that did not hold.
func (m *Metrics) IncrementPredicateFailure(predicate string) {
	if m != nil {
		m.PredicateFailures.WithLabelValues(predicate).Inc()
	}
}

// ObserveLookup records the duration and result of a geo lookup.
func (m *Metrics) ObserveLookup(result string, d time.Duration) {
	if m != nil {
		m.LookupLatency.WithLabelValues(result).Observe(d.Seconds())
	}
}

// ObserveEvaluateLatency records the total evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}
