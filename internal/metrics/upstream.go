package metrics

import "github.com/prometheus/client_golang/prometheus"

// Upstream (knowledge backend) Prometheus metrics.
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of knowledge backend requests",
		},
		[]string{"driver", "status"}, // status: HTTP code, "timeout" or "error"
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Knowledge backend request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"driver"},
	)

	// RepliesTotal counts composed replies by mode and outcome (answered, salvaged, fallback).
	RepliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replies_total",
			Help:      "Total number of composed chat replies",
		},
		[]string{"mode", "outcome"},
	)
)

var replyMetricsRegistered bool

// RegisterReplyMetrics registers upstream and reply metrics. Must be called once from main.
func RegisterReplyMetrics() {
	if replyMetricsRegistered {
		return
	}
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamRequestDuration)
	prometheus.MustRegister(RepliesTotal)
	replyMetricsRegistered = true
}
