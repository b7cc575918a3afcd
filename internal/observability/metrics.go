// Package observability provides Prometheus metrics for the application.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuditWriteFailures counts audit entries that could not be persisted.
	// Audit writes are fire-and-forget, so this counter is the only signal
	// that entries are being dropped.
	AuditWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "murmur_audit_write_failures_total",
		Help: "Total number of audit log entries that failed to persist",
	})

	// AuditEntriesRecorded counts successfully persisted audit entries by action.
	AuditEntriesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_audit_entries_recorded_total",
		Help: "Total number of audit log entries persisted, by action",
	}, []string{"action"})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "murmur_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
