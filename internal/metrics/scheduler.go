package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	schedulerRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "runs_total",
		Help:      "Count of scheduled job runs.",
	}, []string{"job", "status"})
	schedulerRunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "run_duration_seconds",
		Help:      "Duration of scheduled job runs.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job", "status"})
	schedulerSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "skipped_total",
		Help:      "Count of fires dropped because the previous run was still active.",
	}, []string{"job"})
)

// Scheduler tracks periodic job runs for one job.
type Scheduler struct {
	job string
}

// NewScheduler creates a Scheduler metrics collector for the named job.
func NewScheduler(job string) *Scheduler {
	if job == "" {
		job = "unknown"
	}
	return &Scheduler{job: job}
}

// ObserveRun records a finished run.
func (m Scheduler) ObserveRun(err error, started time.Time) {
	status := statusOf(err)
	schedulerRunsTotal.WithLabelValues(m.job, status).Inc()
	schedulerRunDuration.WithLabelValues(m.job, status).Observe(time.Since(started).Seconds())
}

// ObserveSkipped counts a dropped fire.
func (m Scheduler) ObserveSkipped() {
	schedulerSkippedTotal.WithLabelValues(m.job).Inc()
}
