// Package metrics provides Prometheus metrics for the trackboard service.
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

// Manager manages all Prometheus metrics for the trackboard service.
type Manager struct {
	namespace       string
	subsystem       string
	enabled         bool
	refreshInterval time.Duration
	constLabels     prometheus.Labels
	registry        prometheus.Registerer

	// Table Metrics - what users do with the table
	actions       *prometheus.CounterVec
	actionLatency *prometheus.HistogramVec
	cellsCoerced  *prometheus.CounterVec
	sorts         *prometheus.CounterVec
	tableRows     prometheus.Gauge
	hiddenColumns prometheus.Gauge
	setupAttempts *prometheus.CounterVec
	imports       *prometheus.CounterVec
	sessionLoads  *prometheus.CounterVec
	importSkipped prometheus.Counter

	// Store Metrics - key-value persistence
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

	// Asset Cache Metrics
	assetRequests *prometheus.CounterVec
	assetsCached  prometheus.Gauge
	assetBytes    prometheus.Gauge

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

// Init rebuilds the global manager from opts on a fresh registry. It is
// meant to run once at startup, before GetRegistry is handed to a handler.
func Init(opts ...Option) *Manager {
	registry := prometheus.NewRegistry()
	opts = append(opts, WithPrometheusRegistry(registry))
	customRegistry = registry
	globalManager = NewManager(opts...)
	return globalManager
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       "trackboard",
		subsystem:       "table",
		enabled:         true,
		refreshInterval: defaultRefreshInterval,
		registry:        prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval returns how often gauge updaters should run.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// Enabled reports whether recorders write to the metrics.
func (m *Manager) Enabled() bool { return m.enabled }

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	// Table Metrics
	m.actions = auto.NewCounterVec(
		m.counterOpts("actions_total", "Total number of table actions by tag and outcome"),
		[]string{"action", "outcome"},
	)
	m.actionLatency = auto.NewHistogramVec(
		m.histogramOpts("action_latency_milliseconds", "Table action latency in milliseconds, including persistence", prometheus.DefBuckets),
		[]string{"action"},
	)
	m.cellsCoerced = auto.NewCounterVec(
		m.counterOpts("cells_coerced_total", "Edited values replaced by a placeholder, by column kind"),
		[]string{"kind"},
	)
	m.sorts = auto.NewCounterVec(
		m.counterOpts("sorts_total", "Header activations by column and direction"),
		[]string{"column", "direction"},
	)
	m.tableRows = auto.NewGauge(m.gaugeOpts("rows", "Current number of rows in the table"))
	m.hiddenColumns = auto.NewGauge(m.gaugeOpts("hidden_columns", "Current number of hidden columns"))
	m.setupAttempts = auto.NewCounterVec(
		m.counterOpts("setup_attempts_total", "Setup submissions by outcome"),
		[]string{"outcome"},
	)
	m.imports = auto.NewCounterVec(
		m.counterOpts("imports_total", "HTML imports by outcome"),
		[]string{"outcome"},
	)
	m.importSkipped = auto.NewCounter(m.counterOpts("import_skipped_elements_total", "uomTrack elements skipped on import because they are not tables"))
	m.sessionLoads = auto.NewCounterVec(
		m.counterOpts("session_loads_total", "Session loads from the store by outcome"),
		[]string{"outcome"},
	)

	// Store Metrics
	m.storeLatency = auto.NewHistogramVec(
		m.histogramOpts("store_operation_latency_milliseconds", "Key-value store operation latency in milliseconds", prometheus.DefBuckets),
		[]string{"operation"},
	)
	m.storeErrors = auto.NewCounterVec(
		m.counterOpts("store_errors_total", "Key-value store operation errors"),
		[]string{"operation"},
	)

	// Asset Cache Metrics
	m.assetRequests = auto.NewCounterVec(
		m.counterOpts("asset_requests_total", "Asset cache lookups by result"),
		[]string{"result"},
	)
	m.assetsCached = auto.NewGauge(m.gaugeOpts("assets_cached", "Number of precached assets"))
	m.assetBytes = auto.NewGauge(m.gaugeOpts("assets_cached_bytes", "Total size of precached assets in bytes"))

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", prometheus.DefBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	// Error Metrics
	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// Table Metrics Functions.

// RecordAction counts one table action with its outcome and latency.
func RecordAction(action, outcome string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.actions.WithLabelValues(action, outcome).Inc()
	globalManager.actionLatency.WithLabelValues(action).Observe(latencyMs)
}

// RecordCellCoerced counts an edited value replaced by a placeholder.
func RecordCellCoerced(kind string) {
	if !globalManager.enabled {
		return
	}
	globalManager.cellsCoerced.WithLabelValues(kind).Inc()
}

// RecordSort counts a header activation.
func RecordSort(column, direction string) {
	if !globalManager.enabled {
		return
	}
	globalManager.sorts.WithLabelValues(column, direction).Inc()
}

// UpdateTableRows sets the current row count.
func UpdateTableRows(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.tableRows.Set(float64(count))
}

// UpdateHiddenColumns sets the current number of hidden columns.
func UpdateHiddenColumns(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.hiddenColumns.Set(float64(count))
}

// RecordSetupAttempt counts a setup submission.
func RecordSetupAttempt(outcome string) {
	if !globalManager.enabled {
		return
	}
	globalManager.setupAttempts.WithLabelValues(outcome).Inc()
}

// RecordImport counts an HTML import.
func RecordImport(outcome string) {
	if !globalManager.enabled {
		return
	}
	globalManager.imports.WithLabelValues(outcome).Inc()
}

// RecordImportSkipped counts uomTrack elements that were not tables.
func RecordImportSkipped(n int) {
	if !globalManager.enabled || n <= 0 {
		return
	}
	globalManager.importSkipped.Add(float64(n))
}

// RecordSessionLoad counts a session load.
func RecordSessionLoad(outcome string) {
	if !globalManager.enabled {
		return
	}
	globalManager.sessionLoads.WithLabelValues(outcome).Inc()
}

// Store Metrics Functions.

// RecordStoreOperation records the latency of a store operation and counts
// it as an error when failed is true.
func RecordStoreOperation(operation string, latencyMs float64, failed bool) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeLatency.WithLabelValues(operation).Observe(latencyMs)
	if failed {
		globalManager.storeErrors.WithLabelValues(operation).Inc()
	}
}

// Asset Cache Metrics Functions.

// RecordAssetRequest counts an asset cache lookup ("hit" or "miss").
func RecordAssetRequest(result string) {
	if !globalManager.enabled {
		return
	}
	globalManager.assetRequests.WithLabelValues(result).Inc()
}

// UpdateAssetsCached sets the number and total size of precached assets.
func UpdateAssetsCached(count int, bytes int) {
	if !globalManager.enabled {
		return
	}
	globalManager.assetsCached.Set(float64(count))
	globalManager.assetBytes.Set(float64(bytes))
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

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

// Global returns the process-wide manager the recorders write to.
func Global() *Manager {
	return globalManager
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
