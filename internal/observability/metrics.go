package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chargematch/backend/internal/domain"
)

// Match outcomes
const (
	OutcomeTopPick        = "top_pick"
	OutcomeAlternatesOnly = "alternates_only"
	OutcomeEmpty          = "empty"
	OutcomeDisabled       = "disabled"
	OutcomeInvalid        = "invalid"
	OutcomeError          = "error"
)

// Metrics exposes service counters on a dedicated registry
type Metrics struct {
	registry          *prometheus.Registry
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	matchOutcomes     *prometheus.CounterVec
	auditAnomalies    *prometheus.GaugeVec
	auditProducts     prometheus.Gauge
}

// NewMetrics creates and registers the service metrics
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chargematch_http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chargematch_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		matchOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chargematch_match_outcomes_total",
			Help: "Match requests by outcome.",
		}, []string{"outcome"}),
		auditAnomalies: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "chargematch_audit_anomalies",
			Help: "Anomalies found by the last catalog audit, by kind.",
		}, []string{"kind"}),
		auditProducts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chargematch_audit_products",
			Help: "Products scanned by the last catalog audit.",
		}),
	}

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.matchOutcomes,
		m.auditAnomalies,
		m.auditProducts,
	)

	return m
}

// ObserveRequest records one HTTP request
func (m *Metrics) ObserveRequest(route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// MatchOutcome records the outcome of a match request
func (m *Metrics) MatchOutcome(outcome string) {
	if m == nil {
		return
	}
	m.matchOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveMatchResult classifies a successful match result
func (m *Metrics) ObserveMatchResult(result *domain.MatchResult) {
	switch {
	case result == nil || len(result.AllRanked) == 0:
		m.MatchOutcome(OutcomeEmpty)
	case result.TopPick != nil:
		m.MatchOutcome(OutcomeTopPick)
	default:
		m.MatchOutcome(OutcomeAlternatesOnly)
	}
}

// ObserveAudit publishes the totals of an audit report
func (m *Metrics) ObserveAudit(report *domain.AuditReport) {
	if m == nil || report == nil {
		return
	}
	m.auditProducts.Set(float64(report.Total))
	m.auditAnomalies.WithLabelValues(string(domain.AnomalyMissingSpec)).
		Set(float64(report.CountAnomalies(domain.AnomalyMissingSpec)))
	m.auditAnomalies.WithLabelValues(string(domain.AnomalyPhaseMismatch)).
		Set(float64(report.CountAnomalies(domain.AnomalyPhaseMismatch)))
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry (tests gather from it)
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
