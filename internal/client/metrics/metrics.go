// Package metrics provides Prometheus metrics for the session client.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeNoop    = "noop"
)

// Metrics holds the session metrics. A nil or disabled Metrics is a no-op.
type Metrics struct {
	enabled bool
	reg     *prometheus.Registry

	// Lifecycle metrics
	authAttemptsTotal *prometheus.CounterVec
	restoresTotal     *prometheus.CounterVec
	refreshesTotal    *prometheus.CounterVec
	logoutsTotal      prometheus.Counter
	authenticated     prometheus.Gauge

	// Transport metrics
	requestDuration *prometheus.HistogramVec
}

// New creates the metrics on a private registry.
// If enabled is false, returns a no-op Metrics instance.
func New(enabled bool) *Metrics {
	m := &Metrics{enabled: enabled}
	if !enabled {
		return m
	}
	m.reg = prometheus.NewRegistry()
	f := promauto.With(m.reg)

	m.authAttemptsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "vetclinic_auth_attempts_total",
		Help: "Login and registration attempts by outcome",
	}, []string{"operation", "outcome"})

	m.restoresTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "vetclinic_session_restores_total",
		Help: "Session restore attempts by outcome",
	}, []string{"outcome"})

	m.refreshesTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "vetclinic_credential_refreshes_total",
		Help: "Credential refresh attempts by outcome",
	}, []string{"outcome"})

	m.logoutsTotal = f.NewCounter(prometheus.CounterOpts{
		Name: "vetclinic_logouts_total",
		Help: "Logouts, explicit or forced by the server",
	})

	m.authenticated = f.NewGauge(prometheus.GaugeOpts{
		Name: "vetclinic_session_authenticated",
		Help: "Whether a session is active (0=no, 1=yes)",
	})

	m.requestDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vetclinic_http_request_duration_seconds",
		Help:    "API request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "status"})

	return m
}

func (m *Metrics) on() bool { return m != nil && m.enabled }

// RecordAuth records a login or registration attempt.
func (m *Metrics) RecordAuth(operation, outcome string) {
	if !m.on() {
		return
	}
	m.authAttemptsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordRestore records a session restore.
func (m *Metrics) RecordRestore(outcome string) {
	if !m.on() {
		return
	}
	m.restoresTotal.WithLabelValues(outcome).Inc()
}

// RecordRefresh records a credential refresh.
func (m *Metrics) RecordRefresh(outcome string) {
	if !m.on() {
		return
	}
	m.refreshesTotal.WithLabelValues(outcome).Inc()
}

// RecordLogout records the end of a session.
func (m *Metrics) RecordLogout() {
	if !m.on() {
		return
	}
	m.logoutsTotal.Inc()
}

// SetAuthenticated sets the session gauge.
func (m *Metrics) SetAuthenticated(ok bool) {
	if !m.on() {
		return
	}
	v := 0.0
	if ok {
		v = 1.0
	}
	m.authenticated.Set(v)
}

// ObserveRequest records an API call. Status 0 means no response arrived.
func (m *Metrics) ObserveRequest(endpoint string, status int, seconds float64) {
	if !m.on() {
		return
	}
	m.requestDuration.WithLabelValues(endpoint, strconv.Itoa(status)).Observe(seconds)
}

// Registry exposes the underlying registry; nil when disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	if !m.on() {
		return nil
	}
	return m.reg
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if !m.on() {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
