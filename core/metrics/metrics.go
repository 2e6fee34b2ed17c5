package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsStarted counts full reconciliation runs that acquired the run slot.
	RunsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricesync_runs_started_total",
			Help: "Total number of reconciliation runs started",
		},
	)

	// RunsRejectedBusy counts triggers rejected because a run was active.
	RunsRejectedBusy = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricesync_runs_rejected_busy_total",
			Help: "Total number of run triggers rejected while another run was active",
		},
	)

	// RunsAborted counts runs that aborted on a fatal error.
	RunsAborted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricesync_runs_aborted_total",
			Help: "Total number of runs aborted by a fatal error",
		},
	)

	// ItemsProcessed counts per-item outcomes by status (updated, skipped, error).
	ItemsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricesync_items_processed_total",
			Help: "Total number of reconciled items by outcome",
		},
		[]string{"status"},
	)

	// LastRunCompleted tracks the unix timestamp of the last completed run.
	LastRunCompleted = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pricesync_last_run_completed_timestamp_seconds",
			Help: "Unix timestamp of the last completed reconciliation run",
		},
	)
)
