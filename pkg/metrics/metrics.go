package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	CategoryLabel = "category"
	OutcomeLabel  = "outcome"
	StageLabel    = "stage"
)

type timeSinceFunc func(t time.Time) time.Duration

// Used to override time sensitive properties in tests.
var timeSinceFn = timeSinceFunc(func(t time.Time) time.Duration {
	return time.Since(t)
})

var (
	syncRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cloudsync_sync_runs_total",
		Help: "Counter tracking sync runs by category and outcome",
	}, []string{CategoryLabel, OutcomeLabel})

	syncDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cloudsync_sync_duration_seconds",
		Help:    "Histogram tracking sync run durations in seconds",
		Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{CategoryLabel})

	rowsWrittenTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cloudsync_rows_written_total",
		Help: "Counter tracking rows appended to storage",
	}, []string{CategoryLabel})

	rowsSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cloudsync_rows_skipped_total",
		Help: "Counter tracking records skipped while normalizing or persisting",
	}, []string{CategoryLabel, StageLabel})
)

func init() {
	prometheus.MustRegister(
		syncRunsTotal,
		syncDuration,
		rowsWrittenTotal,
		rowsSkippedTotal,
	)
}

func IncSyncRunsTotal(category, outcome string) {
	syncRunsTotal.WithLabelValues(category, outcome).Inc()
}

func ObserveSyncDuration(category string, start time.Time) {
	syncDuration.WithLabelValues(category).Observe(timeSinceFn(start).Seconds())
}

func AddRowsWritten(category string, n int) {
	if n > 0 {
		rowsWrittenTotal.WithLabelValues(category).Add(float64(n))
	}
}

func AddRowsSkipped(category, stage string, n int) {
	if n > 0 {
		rowsSkippedTotal.WithLabelValues(category, stage).Add(float64(n))
	}
}
