package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapdare_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "snapdare_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// SubmissionAttempts counts challenge submission attempts by outcome.
	// Outcomes: accepted, duplicate, expired, forbidden, error.
	SubmissionAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapdare_submission_attempts_total",
		Help: "Total challenge submission attempts by outcome",
	}, []string{"outcome"})

	// ChallengesClosed counts challenges transitioned from open to closed.
	ChallengesClosed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapdare_challenges_closed_total",
		Help: "Total number of challenges closed after reaching their deadline",
	})

	// MediaUploads counts processed media uploads by kind and format.
	MediaUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapdare_media_uploads_total",
		Help: "Total media uploads processed by kind and output format",
	}, []string{"kind", "format"})

	// MediaUploadBytes records the size distribution of stored media files.
	MediaUploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "snapdare_media_upload_bytes",
		Help:    "Size in bytes of stored media files",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
	})

	// CounterRepairs counts denormalized counters corrected by reconciliation,
	// labeled by the counter column that drifted.
	CounterRepairs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapdare_counter_repairs_total",
		Help: "Total denormalized counter values corrected by reconciliation",
	}, []string{"counter"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		ObserveQuery(operation, table, start)
	}
}
