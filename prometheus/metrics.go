package prometheus

import (
	"time"

	"exhibits-dashboard/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Record lifecycle metrics
	RecordOperationsCounter *prometheus.CounterVec
	TrashedRecordsGauge     *prometheus.GaugeVec

	// Lock metrics
	LockDeniedCounter prometheus.Counter

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec
)

// InitMetrics initializes Prometheus metrics with configuration.
func InitMetrics(cfg *config.Config) {
	if !cfg.Metrics.Enabled {
		return
	}
	prefix := cfg.Metrics.Prefix

	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RecordOperationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_record_operations_total",
			Help: "Total number of record operations by entity kind",
		},
		[]string{"kind", "operation"},
	)

	TrashedRecordsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_trashed_records",
			Help: "Number of soft-deleted records by entity kind",
		},
		[]string{"kind"},
	)

	LockDeniedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_lock_denied_total",
			Help: "Total number of edit-lock requests denied because another user holds the lock",
		},
	)

	DbOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
}

// RecordOperation increments the record-operation counter for an entity kind.
func RecordOperation(kind, operation string) {
	if RecordOperationsCounter != nil {
		RecordOperationsCounter.WithLabelValues(kind, operation).Inc()
	}
}

// RecordHTTPRequest records one completed HTTP request.
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if HttpRequestsTotal != nil {
		HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	}
	if HttpRequestDuration != nil {
		HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	}
}

// RecordLockDenied increments the lock contention counter.
func RecordLockDenied() {
	if LockDeniedCounter != nil {
		LockDeniedCounter.Inc()
	}
}

// SetTrashedRecords updates the trashed-records gauge for an entity kind.
func SetTrashedRecords(kind string, count int) {
	if TrashedRecordsGauge != nil {
		TrashedRecordsGauge.WithLabelValues(kind).Set(float64(count))
	}
}

// TrackDBOperation returns a function that observes the elapsed time of a
// database operation: defer prometheus.TrackDBOperation("insert")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	return func(start time.Time) {
		if DbOperationDuration != nil {
			DbOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		}
	}
}
