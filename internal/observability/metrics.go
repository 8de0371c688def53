// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jsquared_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jsquared_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PostsPromotedTotal counts scheduled posts promoted to published by the sweeper.
	PostsPromotedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jsquared_posts_promoted_total",
		Help: "Total number of scheduled posts promoted to published",
	})

	// SweepFailuresTotal counts per-post failures during publication sweeps.
	SweepFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jsquared_publish_sweep_failures_total",
		Help: "Total number of per-post failures during publication sweeps",
	})

	// SweepDuration records the duration of publication sweeps.
	SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "jsquared_publish_sweep_duration_seconds",
		Help:    "Duration of scheduled publication sweeps in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// BlobUploadsTotal counts blob store uploads by outcome.
	BlobUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jsquared_blob_uploads_total",
		Help: "Total number of blob store uploads by outcome",
	}, []string{"outcome"})

	// LayoutDistribution reports the post count per assigned layout type
	// after the most recent reshuffle.
	LayoutDistribution = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "jsquared_layout_distribution",
		Help: "Post count per layout type after the most recent reshuffle",
	}, []string{"layout"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
