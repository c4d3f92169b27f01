package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine's Prometheus collectors. All recording methods are safe to call
// on a nil *Metrics, which records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Business metrics
	CheckoutsTotal        *prometheus.CounterVec
	TenderedMinorUnits    *prometheus.CounterVec
	RegisterSessionsTotal *prometheus.CounterVec
	DiscrepanciesTotal    *prometheus.CounterVec
	ResolutionsTotal      *prometheus.CounterVec
	TransitionsTotal      *prometheus.CounterVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
}

// Config holds metrics configuration
type Config struct {
	Namespace string
}

// DefaultConfig returns default metrics configuration
func DefaultConfig() *Config {
	return &Config{Namespace: "pos_ledger"}
}

// New creates a new Metrics instance backed by its own registry.
func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
	m.HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)
	m.CheckoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "checkouts_total",
			Help:      "Checkouts by settlement path and result",
		},
		[]string{"path", "result"},
	)
	m.TenderedMinorUnits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "tendered_minor_units_total",
			Help:      "Net tendered amounts recorded into registers, in minor units",
		},
		[]string{"method"},
	)
	m.RegisterSessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "register_sessions_total",
			Help:      "Register session lifecycle events",
		},
		[]string{"event"},
	)
	m.DiscrepanciesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "register_discrepancies_total",
			Help:      "Per-method discrepancies found at register close",
		},
		[]string{"method", "direction"},
	)
	m.ResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "discrepancy_resolutions_total",
			Help:      "Discrepancy resolutions by kind",
		},
		[]string{"resolution"},
	)
	m.TransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "transaction_transitions_total",
			Help:      "Transaction status transitions by target status and result",
		},
		[]string{"to", "result"},
	)
	m.CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.CheckoutsTotal,
		m.TenderedMinorUnits,
		m.RegisterSessionsTotal,
		m.DiscrepanciesTotal,
		m.ResolutionsTotal,
		m.TransitionsTotal,
		m.CircuitBreakerState,
	)

	return m
}

// Handler returns the HTTP handler exposing the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordCheckout counts a checkout attempt.
func (m *Metrics) RecordCheckout(path, result string) {
	if m == nil {
		return
	}
	m.CheckoutsTotal.WithLabelValues(path, result).Inc()
}

// RecordTender adds a net tender amount. Negative movements (change given back) are not
// counted because counters only go up.
func (m *Metrics) RecordTender(method string, minorUnits int64) {
	if m == nil || minorUnits <= 0 {
		return
	}
	m.TenderedMinorUnits.WithLabelValues(method).Add(float64(minorUnits))
}

// RecordSessionEvent counts register opens and closes.
func (m *Metrics) RecordSessionEvent(event string) {
	if m == nil {
		return
	}
	m.RegisterSessionsTotal.WithLabelValues(event).Inc()
}

// RecordDiscrepancy counts one per-method discrepancy.
func (m *Metrics) RecordDiscrepancy(method string, delta int64) {
	if m == nil || delta == 0 {
		return
	}
	direction := "over"
	if delta < 0 {
		direction = "short"
	}
	m.DiscrepanciesTotal.WithLabelValues(method, direction).Inc()
}

// RecordResolution counts a discrepancy resolution.
func (m *Metrics) RecordResolution(resolution string) {
	if m == nil {
		return
	}
	m.ResolutionsTotal.WithLabelValues(resolution).Inc()
}

// RecordTransition counts a status transition attempt.
func (m *Metrics) RecordTransition(to, result string) {
	if m == nil {
		return
	}
	m.TransitionsTotal.WithLabelValues(to, result).Inc()
}

// SetCircuitBreakerState records the state of a named breaker.
func (m *Metrics) SetCircuitBreakerState(name string, state float64) {
	if m == nil {
		return
	}
	m.CircuitBreakerState.WithLabelValues(name).Set(state)
}
