package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for report intake.
type Metrics struct {
	ReportsCreated  *prometheus.CounterVec
	ReportsRejected *prometheus.CounterVec
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ReportsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "algowatch_reports_created_total",
			Help: "Reports stored, by visibility",
		}, []string{"visibility"}),
		ReportsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "algowatch_reports_rejected_total",
			Help: "Reports rejected at the storage boundary, by reason (phi, too_long, invalid)",
		}, []string{"reason"}),
	}
}

func (m *Metrics) IncrementCreated(visibility string) {
	m.ReportsCreated.WithLabelValues(visibility).Inc()
}

func (m *Metrics) IncrementRejected(reason string) {
	m.ReportsRejected.WithLabelValues(reason).Inc()
}
