package observability

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the client-side counters for one process. All methods are
// safe to call on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	GatewayRequests        *prometheus.CounterVec
	GatewayRequestDuration *prometheus.HistogramVec
	SessionLogouts         *prometheus.CounterVec
	WorkflowTransitions    *prometheus.CounterVec
	WorkflowStaleResponses *prometheus.CounterVec
}

// NewMetrics registers the client metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		GatewayRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "careeriq_gateway_requests_total",
				Help: "Total number of backend requests by endpoint and status code",
			},
			[]string{"endpoint", "code"},
		),
		GatewayRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "careeriq_gateway_request_duration_seconds",
				Help:    "Duration of backend requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		SessionLogouts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "careeriq_session_logouts_total",
				Help: "Total number of session terminations by reason",
			},
			[]string{"reason"},
		),
		WorkflowTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "careeriq_workflow_transitions_total",
				Help: "Total number of workflow state transitions",
			},
			[]string{"workflow", "status"},
		),
		WorkflowStaleResponses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "careeriq_workflow_stale_responses_total",
				Help: "Responses discarded because a newer submission superseded them",
			},
			[]string{"workflow"},
		),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRequest records one backend round trip. A code of 0 means the
// request never produced a response.
func (m *Metrics) ObserveRequest(endpoint string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := strconv.Itoa(code)
	if code == 0 {
		label = "network_error"
	}
	m.GatewayRequests.WithLabelValues(endpoint, label).Inc()
	m.GatewayRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveLogout records a session termination.
func (m *Metrics) ObserveLogout(reason string) {
	if m == nil {
		return
	}
	m.SessionLogouts.WithLabelValues(reason).Inc()
}

// ObserveTransition records a workflow entering status.
func (m *Metrics) ObserveTransition(workflow, status string) {
	if m == nil {
		return
	}
	m.WorkflowTransitions.WithLabelValues(workflow, status).Inc()
}

// ObserveStale records a discarded out-of-order response.
func (m *Metrics) ObserveStale(workflow string) {
	if m == nil {
		return
	}
	m.WorkflowStaleResponses.WithLabelValues(workflow).Inc()
}

// WriteFile dumps the registry in the text exposition format, for the
// node_exporter textfile collector.
func (m *Metrics) WriteFile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
