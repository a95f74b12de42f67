package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCommand(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.ObserveCommand("add", OutcomeOK, 10*time.Millisecond)
	m.ObserveCommand("add", OutcomeOK, 20*time.Millisecond)
	m.ObserveCommand("add", OutcomeUsage, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.commands.WithLabelValues("add", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues("add", OutcomeUsage)))
}

func TestCounters(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.ExpenseAdded()
	m.PublishFailed()
	m.PublishFailed()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.expensesAdded))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.publishFailures))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCommand("view", OutcomeError, time.Second)
		m.ExpenseAdded()
		m.PublishFailed()
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	m.ObserveCommand("balance", OutcomeOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `budgetbot_commands_total{command="balance",outcome="ok"} 1`)
	assert.Contains(t, rec.Body.String(), "budgetbot_command_duration_seconds_bucket")
}
