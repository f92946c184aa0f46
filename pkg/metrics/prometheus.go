// Package metrics provides Prometheus metrics for the extrack exercise service.
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

// Manager manages all Prometheus metrics for the extrack service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Domain metrics
	usersCreated    prometheus.Counter
	exercisesLogged prometheus.Counter
	logQueries      prometheus.Counter
	logEntriesSent  prometheus.Histogram
	validationFails *prometheus.CounterVec

	// Store size gauges
	totalUsers     prometheus.Gauge
	totalExercises prometheus.Gauge

	// Store metrics
	storeOpLatency *prometheus.HistogramVec
	storeOpErrors  *prometheus.CounterVec

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System performance metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "extrack",
		subsystem:        "api",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.usersCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("users_created_total"),
		Help:        "Total number of users created",
		ConstLabels: labels,
	})

	m.exercisesLogged = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("exercises_logged_total"),
		Help:        "Total number of exercises logged",
		ConstLabels: labels,
	})

	m.logQueries = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("log_queries_total"),
		Help:        "Total number of exercise log queries served",
		ConstLabels: labels,
	})

	m.logEntriesSent = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("log_entries_returned"),
		Help:        "Number of log entries returned per log query",
		Buckets:     []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
		ConstLabels: labels,
	})

	m.validationFails = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("validation_failures_total"),
			Help:        "Requests rejected by input validation, by field",
			ConstLabels: labels,
		},
		[]string{"endpoint", "field"},
	)

	m.totalUsers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("users"),
		Help:        "Number of users in the store",
		ConstLabels: labels,
	})

	m.totalExercises = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("exercises"),
		Help:        "Number of exercises in the store",
		ConstLabels: labels,
	})

	m.storeOpLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   "store",
			Name:        m.name("operation_duration_milliseconds"),
			Help:        "Store operation latency in milliseconds",
			Buckets:     []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 1000},
			ConstLabels: labels,
		},
		[]string{"driver", "operation"},
	)

	m.storeOpErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   "store",
			Name:        m.name("operation_errors_total"),
			Help:        "Store operations that returned an error",
			ConstLabels: labels,
		},
		[]string{"driver", "operation"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_requests_total"),
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_request_duration_milliseconds"),
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   "errors",
			Name:        m.name("by_type_total"),
			Help:        "Total number of errors by type and severity",
			ConstLabels: labels,
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   "errors",
			Name:        m.name("by_endpoint_total"),
			Help:        "Total number of errors by HTTP endpoint",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        m.name("memory_usage_bytes"),
		Help:        "Current heap allocation in bytes",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        m.name("goroutines"),
		Help:        "Current number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        m.name("gc_pause_milliseconds"),
		Help:        "Average garbage collection pause in milliseconds",
		Buckets:     []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50},
		ConstLabels: labels,
	})
}

// Domain recorders.

// RecordUserCreated increments the users created counter.
func RecordUserCreated() {
	if globalManager != nil && globalManager.enabled {
		globalManager.usersCreated.Inc()
	}
}

// RecordExerciseLogged increments the exercises logged counter.
func RecordExerciseLogged() {
	if globalManager != nil && globalManager.enabled {
		globalManager.exercisesLogged.Inc()
	}
}

// RecordLogQuery records a served log query and the number of entries it returned.
func RecordLogQuery(entries int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.logQueries.Inc()
		globalManager.logEntriesSent.Observe(float64(entries))
	}
}

// RecordValidationFailure records a request rejected on field.
func RecordValidationFailure(endpoint, field string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.validationFails.WithLabelValues(endpoint, field).Inc()
	}
}

// UpdateTotalUsers sets the users gauge.
func UpdateTotalUsers(count int64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.totalUsers.Set(float64(count))
	}
}

// UpdateTotalExercises sets the exercises gauge.
func UpdateTotalExercises(count int64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.totalExercises.Set(float64(count))
	}
}

// Store recorders.

// RecordStoreOperation observes the latency of a store call and counts it as
// an error when failed is true.
func RecordStoreOperation(driver, operation string, latencyMs float64, failed bool) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.storeOpLatency.WithLabelValues(driver, operation).Observe(latencyMs)
	if failed {
		globalManager.storeOpErrors.WithLabelValues(driver, operation).Inc()
	}
}

// HTTP recorders.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// RecordErrorByType records errors by type and severity.
func RecordErrorByType(errorType, severity string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
	}
}

// RecordErrorByEndpoint records errors by HTTP endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// System recorders.

// UpdateSystemMemoryUsage updates the memory usage metric.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount updates the goroutine count metric.
func UpdateSystemGoroutineCount(count int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime records GC pause time.
func RecordSystemGCPauseTime(pauseMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.systemGCPauseTime.Observe(pauseMs)
	}
}

// GetRegistry returns the custom Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
