package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the kit lifecycle.
type Metrics struct {
	KitsCreated       *prometheus.CounterVec
	PublicationToggle *prometheus.CounterVec
	DuplicateDuration prometheus.Histogram
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		KitsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "algowatch_kits_created_total",
			Help: "Kits created, by source (saved or duplicated)",
		}, []string{"source"}),
		PublicationToggle: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "algowatch_kit_publications_total",
			Help: "Publication changes, by action (publish or unpublish)",
		}, []string{"action"}),
		DuplicateDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "algowatch_kit_duplicate_duration_seconds",
			Help:    "Duration of DuplicateKit (cross-owner read then owner write)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementKitsCreated(source string) {
	m.KitsCreated.WithLabelValues(source).Inc()
}

func (m *Metrics) IncrementPublication(action string) {
	m.PublicationToggle.WithLabelValues(action).Inc()
}

// ObserveDuplicate records the duration of a DuplicateKit operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveDuplicate(start time.Time) {
	m.DuplicateDuration.Observe(time.Since(start).Seconds())
}
