// Package metrics provides Prometheus metrics for the arena rating service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the arena service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Refresh cycle metrics
	refreshSuccess  prometheus.Counter
	refreshFailure  *prometheus.CounterVec
	refreshSkipped  prometheus.Counter
	refreshDuration prometheus.Histogram
	lastRefreshUnix prometheus.Gauge

	// Feed metrics
	fetchLatency    prometheus.Histogram
	feedBytes       prometheus.Gauge
	recordsTotal    prometheus.Gauge
	recordsRejected *prometheus.CounterVec

	// Rating engine metrics
	fitDuration          prometheus.Histogram
	bootstrapRounds      prometheus.Gauge
	bootstrapConverged   prometheus.Gauge
	fitIterations        prometheus.Histogram
	competitorsTotal     prometheus.Gauge
	pairingsTotal        prometheus.Gauge
	nonConvergedFits     prometheus.Counter

	// Snapshot metrics
	snapshotPublished prometheus.Counter
	snapshotLastUnix  prometheus.Gauge

	// History metrics
	historyAppendLatency prometheus.Histogram
	historyErrors        prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "arena",
		subsystem:        "ratings",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.refreshSuccess = m.counter("refresh_success_total", "Total number of successful refresh cycles")
	m.refreshFailure = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_failure_total",
		Help:      "Total number of failed refresh cycles by stage",
	}, []string{"stage"})
	m.refreshSkipped = m.counter("refresh_skipped_total", "Refresh requests rejected because a refresh was in flight")
	m.refreshDuration = m.histogram("refresh_duration_milliseconds",
		"End-to-end refresh duration in milliseconds", []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000})
	m.lastRefreshUnix = m.gauge("refresh_last_success_unix", "Unix timestamp of the last successful refresh")

	m.fetchLatency = m.histogram("feed_fetch_latency_milliseconds",
		"Feed fetch latency in milliseconds", []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000})
	m.feedBytes = m.gauge("feed_bytes", "Size of the last fetched feed document in bytes")
	m.recordsTotal = m.gauge("feed_records", "Number of match records in the last fetched feed")
	m.recordsRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_rejected_total",
		Help:      "Total number of rejected match records by reason",
	}, []string{"reason"})

	m.fitDuration = m.histogram("fit_duration_milliseconds",
		"Rating fit duration including bootstrap in milliseconds", []float64{1, 5, 10, 50, 100, 250, 500, 1000, 5000})
	m.bootstrapRounds = m.gauge("bootstrap_rounds", "Number of bootstrap rounds in the last fit")
	m.bootstrapConverged = m.gauge("bootstrap_rounds_converged", "Number of bootstrap rounds that converged in the last fit")
	m.fitIterations = m.histogram("fit_iterations",
		"Iterations used by the point-estimate fit", []float64{1, 10, 50, 100, 250, 500, 1000})
	m.competitorsTotal = m.gauge("competitors", "Number of rated competitors")
	m.pairingsTotal = m.gauge("pairings", "Number of distinct competitor pairings")
	m.nonConvergedFits = m.counter("non_converged_fits_total", "Fits where at least one round hit the iteration cap")

	m.snapshotPublished = m.counter("snapshot_published_total", "Total number of leaderboard snapshots published")
	m.snapshotLastUnix = m.gauge("snapshot_last_unix", "Unix timestamp of the last snapshot publish")

	m.historyAppendLatency = m.histogram("history_append_latency_milliseconds",
		"Rating history append latency in milliseconds", m.histogramBuckets)
	m.historyErrors = m.counter("history_errors_total", "Total number of rating history errors")

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
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordRefreshSuccess records a completed refresh and its duration.
func RecordRefreshSuccess(durationMs float64, unix int64) {
	globalManager.refreshSuccess.Inc()
	globalManager.refreshDuration.Observe(durationMs)
	globalManager.lastRefreshUnix.Set(float64(unix))
}

// RecordRefreshFailure increments the failure counter for the failing stage.
func RecordRefreshFailure(stage string) {
	globalManager.refreshFailure.WithLabelValues(stage).Inc()
}

// RecordRefreshSkipped counts a refresh rejected because one was in flight.
func RecordRefreshSkipped() {
	globalManager.refreshSkipped.Inc()
}

// RecordFetch records feed fetch latency and the document size.
func RecordFetch(latencyMs float64, bytes, records int) {
	globalManager.fetchLatency.Observe(latencyMs)
	globalManager.feedBytes.Set(float64(bytes))
	globalManager.recordsTotal.Set(float64(records))
}

// RecordRejectedRecord increments the rejected record counter.
func RecordRejectedRecord(reason string) {
	globalManager.recordsRejected.WithLabelValues(reason).Inc()
}

// RecordFit records the outcome of a rating fit.
func RecordFit(durationMs float64, iterations, rounds, converged int) {
	globalManager.fitDuration.Observe(durationMs)
	globalManager.fitIterations.Observe(float64(iterations))
	globalManager.bootstrapRounds.Set(float64(rounds))
	globalManager.bootstrapConverged.Set(float64(converged))
	if converged < rounds {
		globalManager.nonConvergedFits.Inc()
	}
}

// UpdateCompetitors sets the number of rated competitors and pairings.
func UpdateCompetitors(competitors, pairings int) {
	globalManager.competitorsTotal.Set(float64(competitors))
	globalManager.pairingsTotal.Set(float64(pairings))
}

// RecordSnapshotPublished records a snapshot publish.
func RecordSnapshotPublished(unix int64) {
	globalManager.snapshotPublished.Inc()
	globalManager.snapshotLastUnix.Set(float64(unix))
}

// RecordHistoryAppend records rating history append latency.
func RecordHistoryAppend(latencyMs float64) {
	globalManager.historyAppendLatency.Observe(latencyMs)
}

// RecordHistoryError increments the history error counter.
func RecordHistoryError() {
	globalManager.historyErrors.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
