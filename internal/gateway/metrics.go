package gateway

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records provider call counts and latency.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers gateway metrics with reg. A nil reg yields working
// but unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		// Labels: op (completion, analysis), status (ok or a failure reason)
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "codepad",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Provider calls by operation and outcome",
		}, []string{"op", "status"}),

		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "codepad",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Provider call latency in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"op"}),
	}
}

func (m *Metrics) observe(op, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(op, status).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}
