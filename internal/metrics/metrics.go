package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, path and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytd_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestsInFlight tracks requests currently being handled.
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ytd_http_requests_in_flight",
			Help: "Number of HTTP requests currently being handled.",
		},
	)

	// HTTPRequestDuration observes request latency by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ytd_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	jobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytd_jobs_total",
			Help: "Total number of fetch jobs by outcome.",
		},
		[]string{"outcome"},
	)

	retentionDeletions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ytd_retention_deleted_files_total",
			Help: "Total number of artifacts deleted by the retention sweeper.",
		},
	)
)

// RecordJob increments the job counter for an outcome.
func RecordJob(outcome string) {
	jobsTotal.WithLabelValues(outcome).Inc()
}

// RecordRetentionDeletions adds n to the sweeper deletion counter.
func RecordRetentionDeletions(n int) {
	retentionDeletions.Add(float64(n))
}
