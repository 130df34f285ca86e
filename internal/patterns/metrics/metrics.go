package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for pattern aggregation.
type Metrics struct {
	CacheHits    prometheus.Counter
	CacheMisses  prometheus.Counter
	Suppressions prometheus.Counter
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "algowatch_patterns_cache_hits_total",
			Help: "Pattern summaries served from cache",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "algowatch_patterns_cache_misses_total",
			Help: "Pattern summaries computed from the report store",
		}),
		Suppressions: factory.NewCounter(prometheus.CounterOpts{
			Name: "algowatch_patterns_suppressed_total",
			Help: "Summaries fully suppressed for falling below the minimum sample",
		}),
	}
}
