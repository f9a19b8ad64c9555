package observability

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveRequest(t *testing.T) {
	m := NewMetrics()

	m.ObserveRequest("/predict", 200, 10*time.Millisecond)
	m.ObserveRequest("/predict", 200, 20*time.Millisecond)
	m.ObserveRequest("/predict", 0, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.GatewayRequests.WithLabelValues("/predict", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GatewayRequests.WithLabelValues("/predict", "network_error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.GatewayRequestDuration))
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.ObserveLogout("unauthorized")
	m.ObserveTransition("prediction", "pending")
	m.ObserveTransition("prediction", "success")
	m.ObserveStale("prediction")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionLogouts.WithLabelValues("unauthorized")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WorkflowTransitions.WithLabelValues("prediction", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WorkflowStaleResponses.WithLabelValues("prediction")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("/x", 500, time.Second)
		m.ObserveLogout("user")
		m.ObserveTransition("w", "error")
		m.ObserveStale("w")
	})
	assert.NoError(t, m.WriteFile("ignored"))
	assert.Nil(t, m.Registry())
}

func TestMetrics_WriteFile(t *testing.T) {
	m := NewMetrics()
	m.ObserveLogout("user")

	path := filepath.Join(t.TempDir(), "careeriq.prom")
	require.NoError(t, m.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `careeriq_session_logouts_total{reason="user"} 1`)
}
