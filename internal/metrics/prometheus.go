package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the stats refresher

var (
	// Upstream API call metrics
	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nbastats_upstream_calls_total",
			Help: "Total number of NBA stats API calls",
		},
		[]string{"endpoint", "status"},
	)

	UpstreamCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nbastats_upstream_call_duration_seconds",
			Help:    "Duration of NBA stats API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Refresh pipeline metrics
	RefreshRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nbastats_refresh_runs_total",
			Help: "Total number of refresh runs by outcome",
		},
		[]string{"outcome"},
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nbastats_refresh_duration_seconds",
			Help:    "Duration of refresh runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	PlayersUpdated = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nbastats_players_updated",
			Help: "Number of players in the last persisted snapshot",
		},
	)

	PlayersSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nbastats_players_skipped_total",
			Help: "Total number of players skipped due to missing game logs",
		},
	)

	// Snapshot store metrics
	SnapshotOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nbastats_snapshot_ops_total",
			Help: "Total number of snapshot store operations",
		},
		[]string{"operation", "status"},
	)

	SnapshotOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nbastats_snapshot_op_duration_seconds",
			Help:    "Duration of snapshot store operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// Read endpoint metrics
	DemoFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nbastats_demo_fallbacks_total",
			Help: "Total number of demo-data substitutions by path",
		},
		[]string{"path"},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nbastats_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nbastats_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)

	LastSuccessfulRefresh = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nbastats_last_successful_refresh_timestamp",
			Help: "Timestamp of last successful refresh run",
		},
	)
)

// RecordSnapshotOp records a snapshot store operation metric
func RecordSnapshotOp(operation, status string, duration float64) {
	SnapshotOpsTotal.WithLabelValues(operation, status).Inc()
	SnapshotOpDuration.WithLabelValues(operation).Observe(duration)
}
