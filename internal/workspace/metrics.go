package workspace

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts responses dropped because a newer request overtook them.
// One instance is shared by every workspace in a process.
type Metrics struct {
	staleResponses *prometheus.CounterVec
}

// NewMetrics registers workspace metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		staleResponses: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "codepad",
			Subsystem: "workspace",
			Name:      "stale_responses_total",
			Help:      "Provider responses dropped as superseded",
		}, []string{"op"}),
	}
}

func (m *Metrics) stale(op string) {
	if m == nil {
		return
	}
	m.staleResponses.WithLabelValues(op).Inc()
}
