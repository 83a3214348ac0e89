package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the auth metrics.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeError     = "error"
	OutcomeAnonymous = "anonymous"
	OutcomeRejected  = "rejected"
	OutcomeSkipped   = "skipped"
)

var loginDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.2, 0.3, 0.5, 1, 2}

// Auth tracks login, registration and per-request authentication outcomes.
// A nil *Auth is a valid no-op recorder.
type Auth struct {
	gatherer prometheus.Gatherer

	LoginDuration  *prometheus.HistogramVec
	Registrations  *prometheus.CounterVec
	FilterOutcomes *prometheus.CounterVec
}

// New registers the auth metrics on a fresh registry.
func New(namespace string) *Auth {
	return NewWithRegistry(namespace, prometheus.NewRegistry())
}

// NewWithRegistry registers the auth metrics on reg, letting tests inject their own.
func NewWithRegistry(namespace string, reg *prometheus.Registry) *Auth {
	factory := promauto.With(reg)
	return &Auth{
		gatherer: reg,
		LoginDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "login_duration_seconds",
				Help:      "Latency histogram for customer logins",
				Buckets:   loginDurationBuckets,
			},
			[]string{"outcome"},
		),
		Registrations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registrations_total",
				Help:      "Customer registrations grouped by outcome",
			},
			[]string{"outcome"},
		),
		FilterOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_filter_outcomes_total",
				Help:      "Bearer token filter outcomes grouped by outcome and token error kind",
			},
			[]string{"outcome", "kind"},
		),
	}
}

// ObserveLogin records a login attempt.
func (m *Auth) ObserveLogin(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.LoginDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// IncRegistration records a registration attempt.
func (m *Auth) IncRegistration(outcome string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(outcome).Inc()
}

// IncFilter records one pass of the authentication filter.
func (m *Auth) IncFilter(outcome, kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "none"
	}
	m.FilterOutcomes.WithLabelValues(outcome, kind).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Auth) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
