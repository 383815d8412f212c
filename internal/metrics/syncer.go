package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncerCyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chain_syncer",
		Name:      "cycles_total",
		Help:      "Count of sync cycles.",
	}, []string{"status"})
	syncerCycleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "chain_syncer",
		Name:      "cycle_duration_seconds",
		Help:      "Duration of sync cycles.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})
	syncerFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chain_syncer",
		Name:      "failures_total",
		Help:      "Count of failed sync cycles by reason.",
	}, []string{"reason"})
	syncerBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chain_syncer",
		Name:      "blocks_persisted_total",
		Help:      "Count of blocks durably appended.",
	})
	syncerOverlapsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chain_syncer",
		Name:      "overlapping_cycles_total",
		Help:      "Count of cycles dropped because another cycle was running.",
	})
	syncerCursorHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "chain_syncer",
		Name:      "cursor_height",
		Help:      "Highest durably stored block height.",
	})
	syncerTipHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "chain_syncer",
		Name:      "chain_tip_height",
		Help:      "Chain tip height reported by the chain client.",
	})
)

// ChainSyncer tracks chain sync cycles.
type ChainSyncer struct{}

// NewChainSyncer creates a ChainSyncer metrics collector.
func NewChainSyncer() *ChainSyncer {
	return &ChainSyncer{}
}

// ObserveCycle records a finished cycle. reason is empty for successful cycles.
func (m ChainSyncer) ObserveCycle(err error, reason string, blocks int, started time.Time) {
	status := statusOf(err)
	syncerCyclesTotal.WithLabelValues(status).Inc()
	syncerCycleDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
	if err != nil {
		syncerFailuresTotal.WithLabelValues(reason).Inc()
		return
	}
	syncerBlocksTotal.Add(float64(blocks))
}

// ObserveOverlap counts a cycle dropped by the running flag.
func (m ChainSyncer) ObserveOverlap() {
	syncerOverlapsTotal.Inc()
}

// SetHeights records cursor and tip heights.
func (m ChainSyncer) SetHeights(cursor, tip uint64) {
	syncerCursorHeight.Set(float64(cursor))
	syncerTipHeight.Set(float64(tip))
}
