package archive

import "github.com/prometheus/client_golang/prometheus"

var (
	archiveRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlagent_archive_runs_total",
			Help: "Total number of history archive runs by status.",
		},
		[]string{"status"},
	)
	archiveRecordsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sqlagent_archive_records_total",
			Help: "Total number of history records written to archive objects.",
		},
	)
	historyRowsPrunedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sqlagent_history_rows_pruned_total",
			Help: "Total number of archived history rows pruned by retention.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		archiveRunsTotal,
		archiveRecordsTotal,
		historyRowsPrunedTotal,
	)
}
