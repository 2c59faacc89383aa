// Package metrics provides Prometheus metrics for the leaderboard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Cache Metrics - Snapshot serving behavior
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	statsCacheHits   prometheus.Counter
	statsCacheMisses prometheus.Counter
	identityMisses   prometheus.Counter
	invalidations    prometheus.Counter
	staleServes      prometheus.Counter

	// Refresh Metrics - Snapshot rebuild pipeline
	refreshCount         prometheus.Counter
	refreshFailures      prometheus.Counter
	refreshShared        prometheus.Counter
	refreshDuration      prometheus.Histogram
	storeFetchDuration   prometheus.Histogram
	storeFetchFailures   prometheus.Counter
	snapshotParticipants prometheus.Gauge
	snapshotRawRecords   prometheus.Gauge

	// Ingest Metrics - Result submission pipeline
	resultsEnqueued   prometheus.Counter
	resultsDropped    prometheus.Counter
	resultsInserted   prometheus.Counter
	insertFailures    prometheus.Counter
	insertDuration    prometheus.Histogram
	ingestQueueDepth  prometheus.Gauge
	ingestQueueLimit  prometheus.Gauge
	ingestWorkerCount prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics - Detailed error tracking
	errorRateByComponent *prometheus.CounterVec

	// System Metrics - Process health
	systemMemoryBytes prometheus.Gauge
	systemGoroutines  prometheus.Gauge
	systemGCPause     prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "testiq",
		subsystem:        "leaderboard",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Cache Metrics - How often reads are answered from the snapshot
	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_hits_total",
		Help:      "Total number of reads served from a fresh snapshot",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_misses_total",
		Help:      "Total number of reads that found the snapshot absent or expired",
	})

	m.statsCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stats_cache_hits_total",
		Help:      "Total number of stats reads served from the secondary stats cache",
	})

	m.statsCacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stats_cache_misses_total",
		Help:      "Total number of stats reads that missed the secondary stats cache",
	})

	m.identityMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "identity_misses_total",
		Help:      "Total number of rank lookups for identities absent from the ranking",
	})

	m.invalidations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "invalidations_total",
		Help:      "Total number of explicit cache invalidations",
	})

	m.staleServes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stale_serves_total",
		Help:      "Total number of reads served from an expired snapshot after a failed refresh",
	})

	// Refresh Metrics - Snapshot rebuild pipeline behavior
	m.refreshCount = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_total",
		Help:      "Total number of snapshots rebuilt and published",
	})

	m.refreshFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_failures_total",
		Help:      "Total number of snapshot rebuilds that failed",
	})

	m.refreshShared = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_shared_total",
		Help:      "Total number of callers that joined an already running refresh",
	})

	m.refreshDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_duration_seconds",
		Help:      "Histogram of snapshot rebuild duration in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeFetchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_fetch_duration_seconds",
		Help:      "Histogram of raw result store fetch duration in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeFetchFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_fetch_failures_total",
		Help:      "Total number of raw result store fetches that failed",
	})

	m.snapshotParticipants = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_participants",
		Help:      "Number of ranked participants in the published snapshot",
	})

	m.snapshotRawRecords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_raw_records",
		Help:      "Number of raw result records behind the published snapshot",
	})

	// Ingest Metrics - Result submission pipeline
	m.resultsEnqueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "results_enqueued_total",
		Help:      "Total number of submitted results accepted into the ingest queue",
	})

	m.resultsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "results_dropped_total",
		Help:      "Total number of submitted results rejected because the queue was full",
	})

	m.resultsInserted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "results_inserted_total",
		Help:      "Total number of results written to the raw result store",
	})

	m.insertFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "insert_failures_total",
		Help:      "Total number of raw result store writes that failed",
	})

	m.insertDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "insert_duration_seconds",
		Help:      "Histogram of raw result store write duration in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.ingestQueueDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_queue_depth",
		Help:      "Current number of results waiting in the ingest queue",
	})

	m.ingestQueueLimit = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_queue_capacity",
		Help:      "Maximum ingest queue capacity",
	})

	m.ingestWorkerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_worker_count",
		Help:      "Current number of ingest workers",
	})

	// HTTP Performance Metrics - User experience indicators
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Error Metrics - Detailed error tracking
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	// System Metrics - Process health, replacing the default Go collectors
	m.systemMemoryBytes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current heap memory allocation in bytes",
	})

	m.systemGoroutines = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})

	m.systemGCPause = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_seconds",
		Help:      "Histogram of average GC pause time in seconds",
		Buckets:   m.histogramBuckets,
	})
}

// Cache Metrics Functions.

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// RecordStatsCacheHit increments the secondary stats cache hit counter.
func RecordStatsCacheHit() {
	globalManager.statsCacheHits.Inc()
}

// RecordStatsCacheMiss increments the secondary stats cache miss counter.
func RecordStatsCacheMiss() {
	globalManager.statsCacheMisses.Inc()
}

// RecordIdentityMiss increments the counter of rank lookups that found nothing.
func RecordIdentityMiss() {
	globalManager.identityMisses.Inc()
}

// RecordInvalidation increments the explicit invalidation counter.
func RecordInvalidation() {
	globalManager.invalidations.Inc()
}

// RecordStaleServe increments the counter of reads served stale after a failed refresh.
func RecordStaleServe() {
	globalManager.staleServes.Inc()
}

// Refresh Metrics Functions.

// RecordRefresh increments the published snapshot counter.
func RecordRefresh() {
	globalManager.refreshCount.Inc()
}

// RecordRefreshFailure increments the failed rebuild counter.
func RecordRefreshFailure() {
	globalManager.refreshFailures.Inc()
}

// RecordRefreshShared increments the counter of callers that joined a running refresh.
func RecordRefreshShared() {
	globalManager.refreshShared.Inc()
}

// RecordRefreshDuration records one snapshot rebuild duration in seconds.
func RecordRefreshDuration(seconds float64) {
	globalManager.refreshDuration.Observe(seconds)
}

// RecordStoreFetchDuration records one raw store fetch duration in seconds.
func RecordStoreFetchDuration(seconds float64) {
	globalManager.storeFetchDuration.Observe(seconds)
}

// RecordStoreFetchFailure increments the failed raw store fetch counter.
func RecordStoreFetchFailure() {
	globalManager.storeFetchFailures.Inc()
}

// UpdateSnapshotParticipants sets the ranked participant count of the published snapshot.
func UpdateSnapshotParticipants(count int) {
	globalManager.snapshotParticipants.Set(float64(count))
}

// UpdateSnapshotRawRecords sets the raw record count behind the published snapshot.
func UpdateSnapshotRawRecords(count int) {
	globalManager.snapshotRawRecords.Set(float64(count))
}

// Ingest Metrics Functions.

// RecordResultEnqueued increments the accepted submission counter.
func RecordResultEnqueued() {
	globalManager.resultsEnqueued.Inc()
}

// RecordResultDropped increments the rejected submission counter.
func RecordResultDropped() {
	globalManager.resultsDropped.Inc()
}

// RecordResultInserted increments the stored result counter.
func RecordResultInserted() {
	globalManager.resultsInserted.Inc()
}

// RecordInsertFailure increments the failed store write counter.
func RecordInsertFailure() {
	globalManager.insertFailures.Inc()
}

// RecordInsertDuration records one raw store write duration in seconds.
func RecordInsertDuration(seconds float64) {
	globalManager.insertDuration.Observe(seconds)
}

// UpdateIngestQueueDepth sets the current ingest queue depth.
func UpdateIngestQueueDepth(depth int) {
	globalManager.ingestQueueDepth.Set(float64(depth))
}

// UpdateIngestQueueCapacity sets the maximum ingest queue capacity.
func UpdateIngestQueueCapacity(capacity int) {
	globalManager.ingestQueueLimit.Set(float64(capacity))
}

// UpdateIngestWorkerCount sets the current ingest worker count.
func UpdateIngestWorkerCount(count int) {
	globalManager.ingestWorkerCount.Set(float64(count))
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in seconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, seconds float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(seconds)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// System Metrics Functions.

// UpdateSystemMemoryUsage sets the current heap allocation in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryBytes.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutines.Set(float64(count))
}

// RecordSystemGCPause records an average GC pause duration in seconds.
func RecordSystemGCPause(seconds float64) {
	globalManager.systemGCPause.Observe(seconds)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
