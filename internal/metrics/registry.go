package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registryHeartbeatsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "node_registry",
		Name:      "heartbeats_total",
		Help:      "Count of applied heartbeats by outcome.",
	}, []string{"outcome"})
	registryEvictedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "node_registry",
		Name:      "evicted_total",
		Help:      "Count of stale node statuses evicted.",
	})
	registryEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "node_registry",
		Name:      "entries",
		Help:      "Number of node statuses held, including stale ones not yet swept.",
	})
	registryGeolocationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "node_registry",
		Name:      "geolocation_total",
		Help:      "Count of geolocation resolutions by outcome.",
	}, []string{"outcome"})
)

// NodeRegistry tracks node status registry activity.
type NodeRegistry struct{}

// NewNodeRegistry creates a NodeRegistry metrics collector.
func NewNodeRegistry() *NodeRegistry {
	return &NodeRegistry{}
}

// ObserveHeartbeat counts a heartbeat application outcome.
func (m NodeRegistry) ObserveHeartbeat(outcome string) {
	registryHeartbeatsTotal.WithLabelValues(outcome).Inc()
}

// ObserveEvicted counts swept entries and records the remaining size.
func (m NodeRegistry) ObserveEvicted(evicted, remaining int) {
	registryEvictedTotal.Add(float64(evicted))
	registryEntries.Set(float64(remaining))
}

// SetEntries records the number of held entries.
func (m NodeRegistry) SetEntries(n int) {
	registryEntries.Set(float64(n))
}

// ObserveGeolocation counts a geolocation resolution outcome.
func (m NodeRegistry) ObserveGeolocation(outcome string) {
	registryGeolocationTotal.WithLabelValues(outcome).Inc()
}
