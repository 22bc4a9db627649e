package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vigil_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vigil_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "path"})
)

// Report lifecycle metrics
var (
	ReportsFiled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vigil_reports_filed_total",
		Help: "Total number of reports filed, by reason",
	}, []string{"reason"})

	ResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vigil_resolutions_total",
		Help: "Total number of report transitions performed, by action",
	}, []string{"action"})

	ResolutionReplays = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vigil_resolution_replays_total",
		Help: "Resolve calls that found the report already terminal and returned the recorded outcome",
	})

	BansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vigil_bans_total",
		Help: "Total number of direct user bans issued",
	})
)

// Block metrics
var (
	BlockOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vigil_block_ops_total",
		Help: "Total number of block operations, by operation",
	}, []string{"operation"})
)

// Command delivery metrics
var (
	CommandsEnqueued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vigil_commands_enqueued_total",
		Help: "Downstream commands accepted for delivery, by kind",
	}, []string{"kind"})

	CommandsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vigil_commands_delivered_total",
		Help: "Downstream commands successfully delivered, by kind",
	}, []string{"kind"})

	CommandRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vigil_command_retries_total",
		Help: "Failed delivery attempts that will be retried, by kind",
	}, []string{"kind"})

	CommandsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vigil_commands_failed_total",
		Help: "Downstream commands that exhausted retries, by kind",
	}, []string{"kind"})

	CommandsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vigil_commands_dropped_total",
		Help: "Downstream commands dropped because the queue was saturated, by kind",
	}, []string{"kind"})
)

// Queue depth gauges (updated periodically by collector; observability
// only, never used for classification)
var (
	ReportsPending = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vigil_reports_pending",
		Help: "Number of reports currently pending review",
	})

	ReportsOverdue = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vigil_reports_overdue",
		Help: "Number of pending reports past the review window",
	})
)

// NormalizePath reduces high-cardinality path labels by replacing dynamic
// segments with placeholders. This keeps the metric label space bounded.
func NormalizePath(path string) string {
	segments := splitPath(path)
	if len(segments) < 2 {
		return path
	}

	switch segments[0] {
	case "api":
		switch segments[1] {
		case "blocks":
			if len(segments) == 3 && segments[2] != "check" {
				return "/api/blocks/:id"
			}
		case "mod":
			if len(segments) >= 3 && segments[2] == "reports" {
				if len(segments) == 4 {
					return "/api/mod/reports/:id"
				}
				if len(segments) == 5 && segments[4] == "resolve" {
					return "/api/mod/reports/:id/resolve"
				}
			}
		}
	}

	return path
}

func splitPath(path string) []string {
	// Skip leading slash
	if len(path) > 0 && path[0] == '/' {
		path = path[1:]
	}
	// Split on /
	var segments []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			if i > start {
				segments = append(segments, path[start:i])
			}
			start = i + 1
		}
	}
	if start < len(path) {
		segments = append(segments, path[start:])
	}
	return segments
}
