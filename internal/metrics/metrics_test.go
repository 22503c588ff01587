package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/", 200, time.Millisecond)
		m.ObserveEvaluation("success")
		m.ObserveCategory("team", "scored")
		m.ObserveDecision("scored", "Yes")
		m.ObserveCompletion("groq", "ok", time.Second)
		m.ObserveNotification("sendgrid", "sent")
	})
}

func TestCountersAndExposition(t *testing.T) {
	m := New()
	m.ObserveCategory("team", "unavailable")
	m.ObserveCategory("team", "unavailable")
	m.ObserveEvaluation("success")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.categoryOutcomes.WithLabelValues("team", "unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.evaluations.WithLabelValues("success")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "pitch_evaluation_category_outcomes_total"))
}
