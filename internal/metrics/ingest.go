package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ingestReceivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "heartbeat_ingest",
		Name:      "received_total",
		Help:      "Count of heartbeat envelopes handed over by the transport.",
	})
	ingestAcceptedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "heartbeat_ingest",
		Name:      "accepted_total",
		Help:      "Count of heartbeats that passed validation and reached the registry.",
	})
	ingestDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "heartbeat_ingest",
		Name:      "dropped_total",
		Help:      "Count of dropped heartbeats by reason.",
	}, []string{"reason"})
	ingestQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "heartbeat_ingest",
		Name:      "queue_depth",
		Help:      "Number of envelopes waiting for a worker.",
	})
)

// HeartbeatIngest tracks heartbeat ingest throughput and drops.
type HeartbeatIngest struct{}

// NewHeartbeatIngest creates a HeartbeatIngest metrics collector.
func NewHeartbeatIngest() *HeartbeatIngest {
	return &HeartbeatIngest{}
}

// ObserveReceived counts an envelope accepted into the queue.
func (m HeartbeatIngest) ObserveReceived() {
	ingestReceivedTotal.Inc()
}

// ObserveAccepted counts a heartbeat forwarded to the registry.
func (m HeartbeatIngest) ObserveAccepted() {
	ingestAcceptedTotal.Inc()
}

// ObserveDropped counts a dropped heartbeat.
func (m HeartbeatIngest) ObserveDropped(reason string) {
	ingestDroppedTotal.WithLabelValues(reason).Inc()
}

// SetQueueDepth records the current queue length.
func (m HeartbeatIngest) SetQueueDepth(n int) {
	ingestQueueDepth.Set(float64(n))
}
