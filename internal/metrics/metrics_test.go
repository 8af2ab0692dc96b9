package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/crisis/internal/types"
)

func TestObserveAnalysis(t *testing.T) {
	m := New()
	m.ObserveAnalysis(types.AnalysisResult{SeverityLevel: types.SeverityCritical}, time.Millisecond)
	m.ObserveAnalysis(types.AnalysisResult{SeverityLevel: types.SeverityCritical}, time.Millisecond)
	m.ObserveAnalysis(types.AnalysisResult{SeverityLevel: types.SeverityNone}, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Analyses.WithLabelValues("critical")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Analyses.WithLabelValues("none")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Duration))
}

func TestObserveCategoriesAndEscalations(t *testing.T) {
	m := New()
	m.ObserveCategories([]types.Category{types.CategorySuicidal, types.CategorySuicidal, types.CategoryViolence})
	m.ObserveEscalations([]types.EscalationTier{types.TierImmediate, types.TierUrgent, types.TierSupport})
	m.EventDropped()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CategoryDetections.WithLabelValues("suicidal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CategoryDetections.WithLabelValues("violence")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Escalations.WithLabelValues("immediate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsDropped))
}

func TestHandler_ExposesCrisisMetrics(t *testing.T) {
	m := New()
	m.ObserveAnalysis(types.AnalysisResult{SeverityLevel: types.SeverityLow}, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `crisis_analyses_total{severity="low"} 1`))
	assert.Contains(t, body, "crisis_analysis_duration_seconds_bucket")
	assert.Contains(t, body, "go_goroutines")
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.EventDropped()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.EventsDropped))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.EventsDropped))
}
