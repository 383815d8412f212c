package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	materializerRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "materializer",
		Name:      "runs_total",
		Help:      "Count of materialization runs.",
	}, []string{"status"})
	materializerRunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "materializer",
		Name:      "run_duration_seconds",
		Help:      "Duration of materialization runs.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})
	materializerLastPublished = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "materializer",
		Name:      "last_published_timestamp_seconds",
		Help:      "Compute time of the currently published snapshot.",
	})
	materializerConfidence = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "materializer",
		Name:      "mining_power_confidence",
		Help:      "Confidence of the published mining power estimate.",
	})
)

// Materializer tracks snapshot materialization.
type Materializer struct{}

// NewMaterializer creates a Materializer metrics collector.
func NewMaterializer() *Materializer {
	return &Materializer{}
}

// ObserveRun records a finished run.
func (m Materializer) ObserveRun(err error, started time.Time) {
	status := statusOf(err)
	materializerRunsTotal.WithLabelValues(status).Inc()
	materializerRunDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}

// ObservePublished records the published snapshot.
func (m Materializer) ObservePublished(computedAt time.Time, confidence float64) {
	materializerLastPublished.Set(float64(computedAt.Unix()))
	materializerConfidence.Set(confidence)
}
