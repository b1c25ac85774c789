package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chargematch/backend/internal/domain"
)

func TestMetrics_MatchOutcomes(t *testing.T) {
	m := NewMetrics()

	top := domain.ScoredCandidate{MatchType: domain.MatchBest}
	m.ObserveMatchResult(&domain.MatchResult{TopPick: &top, AllRanked: []domain.ScoredCandidate{top}})
	m.ObserveMatchResult(&domain.MatchResult{AllRanked: []domain.ScoredCandidate{{MatchType: domain.MatchAlternate}}})
	m.ObserveMatchResult(&domain.MatchResult{})
	m.MatchOutcome(OutcomeDisabled)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.matchOutcomes.WithLabelValues(OutcomeTopPick)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.matchOutcomes.WithLabelValues(OutcomeAlternatesOnly)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.matchOutcomes.WithLabelValues(OutcomeEmpty)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.matchOutcomes.WithLabelValues(OutcomeDisabled)))
}

func TestMetrics_ObserveAudit(t *testing.T) {
	m := NewMetrics()
	m.ObserveAudit(&domain.AuditReport{
		Total: 3,
		Anomalies: []domain.AnomalyRecord{
			{Kind: domain.AnomalyMissingSpec},
			{Kind: domain.AnomalyMissingSpec},
			{Kind: domain.AnomalyPhaseMismatch},
		},
	})

	assert.Equal(t, 3.0, testutil.ToFloat64(m.auditProducts))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.auditAnomalies.WithLabelValues("missing_spec")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.auditAnomalies.WithLabelValues("phase_mismatch")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ObserveRequest("/api/v1/chargers/match", http.StatusOK, 15*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `chargematch_http_requests_total{route="/api/v1/chargers/match",status="200"} 1`), body)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("/health", 200, time.Millisecond)
		m.MatchOutcome(OutcomeEmpty)
		m.ObserveAudit(&domain.AuditReport{})
	})
}

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics()
		NewMetrics()
	})
}
