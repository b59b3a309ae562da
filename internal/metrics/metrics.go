package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Submission pipeline metrics
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadgate_submissions_total",
			Help: "Total number of submissions received",
		},
		[]string{"kind", "outcome"},
	)

	SpamRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadgate_spam_rejections_total",
			Help: "Total number of submissions rejected by the honeypot check",
		},
		[]string{"kind"},
	)

	// Rate limiting metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadgate_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"kind"},
	)

	// Relay metrics
	RelayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leadgate_relay_duration_seconds",
			Help:    "Duration of upstream relay calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	RelayErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadgate_relay_errors_total",
			Help: "Total number of failed upstream relay calls",
		},
		[]string{"kind"},
	)

	// Passthrough metrics
	PassthroughRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadgate_passthrough_requests_total",
			Help: "Total number of webhook passthrough requests",
		},
		[]string{"status"},
	)
)
