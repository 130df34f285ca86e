package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks generation outcomes and provider latency.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration prometheus.Histogram
}

// New registers the metrics with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics with reg; tests pass a fresh registry.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "algowatch_generation_requests_total",
			Help: "Kit generation requests by outcome",
		}, []string{"outcome"}),
		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "algowatch_generation_duration_seconds",
			Help:    "Duration of kit generation including the provider round trip",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}),
	}
}

// IncrementOutcome counts one generation by outcome ("success" or a failure kind).
func (m *Metrics) IncrementOutcome(outcome string) {
	m.Requests.WithLabelValues(outcome).Inc()
}

// ObserveGenerate records the duration of a GenerateKit call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveGenerate(start time.Time) {
	m.Duration.Observe(time.Since(start).Seconds())
}
