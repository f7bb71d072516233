package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the custom Prometheus metrics for the AI flows.
type Metrics struct {
	AIRequests       *prometheus.CounterVec
	AIRequestLatency *prometheus.HistogramVec
	AIErrors         *prometheus.CounterVec
}

// InitMetrics registers the Prometheus metrics once at startup.
func InitMetrics() *Metrics {
	metrics := &Metrics{
		AIRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "marcenapp_ai_requests_total",
			Help: "Total number of AI gateway requests by flow",
		}, []string{"flow"}),

		AIRequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marcenapp_ai_request_duration_seconds",
			Help:    "AI gateway request latency in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120}, // image renders can take minutes
		}, []string{"flow"}),

		AIErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "marcenapp_ai_errors_total",
			Help: "Total number of AI gateway errors by flow",
		}, []string{"flow"}),
	}

	return metrics
}

// observe records one AI call. Safe on a nil receiver so tests can run
// without registering collectors.
func (m *Metrics) observe(flow string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.AIRequests.WithLabelValues(flow).Inc()
	m.AIRequestLatency.WithLabelValues(flow).Observe(time.Since(start).Seconds())
	if err != nil {
		m.AIErrors.WithLabelValues(flow).Inc()
	}
}
