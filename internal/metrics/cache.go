package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Count of cache lookups by result.",
	}, []string{"result"})
	cacheComputeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "computations_total",
		Help:      "Count of value computations behind cache misses.",
	}, []string{"status"})
	cacheComputeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "computation_duration_seconds",
		Help:      "Duration of value computations behind cache misses.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})
)

// Cache tracks read-through cache efficiency.
type Cache struct{}

// NewCache creates a Cache metrics collector.
func NewCache() *Cache {
	return &Cache{}
}

// ObserveLookup counts a hit or a miss.
func (m Cache) ObserveLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(result).Inc()
}

// ObserveCompute records one computation.
func (m Cache) ObserveCompute(err error, started time.Time) {
	status := statusOf(err)
	cacheComputeTotal.WithLabelValues(status).Inc()
	cacheComputeDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}
