package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	tableDetectionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlagent_table_detection_total",
			Help: "Table detection attempts by outcome.",
		},
		[]string{"outcome"},
	)
	translationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlagent_translation_requests_total",
			Help: "SQL generation calls to the model provider by status.",
		},
		[]string{"status"},
	)
	translationDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sqlagent_translation_duration_seconds",
			Help:    "Latency of model generation calls.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)
	guardRejectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sqlagent_guard_rejections_total",
			Help: "Generated statements rejected by the read-only guard.",
		},
	)
	queryExecutionSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sqlagent_query_execution_seconds",
			Help:    "Latency of generated query execution by status.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)
	historyWriteFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sqlagent_history_write_failures_total",
			Help: "Query history records that could not be persisted.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		tableDetectionTotal,
		translationRequestsTotal,
		translationDurationSeconds,
		guardRejectionsTotal,
		queryExecutionSeconds,
		historyWriteFailuresTotal,
	)
}

// ObserveTableDetection records a detection attempt; the outcome label is
// derived from how many table names matched the question.
func ObserveTableDetection(candidates int) {
	outcome := "detected"
	switch {
	case candidates == 0:
		outcome = "unmatched"
	case candidates > 1:
		outcome = "ambiguous"
	}
	tableDetectionTotal.WithLabelValues(outcome).Inc()
}

func ObserveTranslation(success bool, elapsed time.Duration) {
	translationRequestsTotal.WithLabelValues(statusLabel(success)).Inc()
	translationDurationSeconds.Observe(elapsed.Seconds())
}

func IncrementGuardRejection() {
	guardRejectionsTotal.Inc()
}

func ObserveQueryExecution(success bool, elapsed time.Duration) {
	queryExecutionSeconds.WithLabelValues(statusLabel(success)).Observe(elapsed.Seconds())
}

func IncrementHistoryWriteFailure() {
	historyWriteFailuresTotal.Inc()
}

func statusLabel(success bool) string {
	if success {
		return "ok"
	}
	return "error"
}
