package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP holds transport-level metrics shared by every route.
type HTTP struct {
	RequestDuration *prometheus.HistogramVec
	InFlight        prometheus.Gauge
	Panics          prometheus.Counter
}

// NewHTTP creates and registers the HTTP metrics with reg.
func NewHTTP(reg prometheus.Registerer) *HTTP {
	factory := promauto.With(reg)
	return &HTTP{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "oceangate_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method, route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		InFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "oceangate_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		}),
		Panics: factory.NewCounter(prometheus.CounterOpts{
			Name: "oceangate_http_panics_total",
			Help: "Total handler panics recovered",
		}),
	}
}

// ObserveRequest records one finished request.
func (m *HTTP) ObserveRequest(method, route, status string, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
	}
}

func (m *HTTP) IncInFlight() {
	if m != nil {
		m.InFlight.Inc()
	}
}

func (m *HTTP) DecInFlight() {
	if m != nil {
		m.InFlight.Dec()
	}
}

// IncrementPanics records a recovered panic.
func (m *HTTP) IncrementPanics() {
	if m != nil {
		m.Panics.Inc()
	}
}
