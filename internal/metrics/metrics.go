package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP request latency by route template, method and status code
	RequestDuration *prometheus.HistogramVec

	// Registration status transitions by resulting status
	Transitions *prometheus.CounterVec

	// Best-effort writes that failed, by workflow step
	SideEffectFailures *prometheus.CounterVec

	// Denormalized values corrected by reconciliation, by kind
	ReconcileDrift *prometheus.CounterVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "unify_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route, method and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "method", "status"}),

		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "unify_registration_transitions_total",
			Help: "Registration requests moved into each status",
		}, []string{"status"}),

		SideEffectFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "unify_side_effect_failures_total",
			Help: "Best-effort workflow writes that failed, by step",
		}, []string{"step"}),

		ReconcileDrift: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "unify_reconcile_drift_total",
			Help: "Denormalized values found out of step and rewritten, by kind",
		}, []string{"kind"}), // kind: "member_count", "registered_chapters"
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(route, method, status string, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, method, status).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementTransition(status string) {
	if m != nil {
		m.Transitions.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) IncrementSideEffectFailure(step string) {
	if m != nil {
		m.SideEffectFailures.WithLabelValues(step).Inc()
	}
}

func (m *Metrics) IncrementDrift(kind string) {
	if m != nil {
		m.ReconcileDrift.WithLabelValues(kind).Inc()
	}
}
