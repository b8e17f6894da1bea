// Package metrics provides Prometheus metrics for the matchcast service.
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

// goalBuckets covers the clamped expected goal range.
var goalBuckets = []float64{0.2, 0.4, 0.6, 0.8, 1.0, 1.25, 1.5, 1.75, 2.0, 2.5, 3.0, 3.2} //nolint:gochecknoglobals // fixed bucket layout

// Manager manages all Prometheus metrics for the matchcast service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Prediction metrics
	predictionsTotal   prometheus.Counter
	predictionErrors   prometheus.Counter
	predictionLatency  prometheus.Histogram
	expectedGoals      *prometheus.HistogramVec
	formFallbacks      *prometheus.CounterVec
	weatherDampened    prometheus.Counter
	lastPredictionUnix prometheus.Gauge
	insightsServed     prometheus.Counter

	// Upstream provider metrics
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	weatherFallbacks prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInFlight        prometheus.Gauge

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System metrics
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
		namespace:        "matchcast",
		subsystem:        "predictor",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval returns how often gauge updaters should run.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

// Enabled reports whether recording is enabled.
func (m *Manager) Enabled() bool {
	return m.enabled
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	// Prediction metrics
	m.predictionsTotal = auto.NewCounter(m.counterOpts(
		"predictions_total", "Total number of match predictions computed"))
	m.predictionErrors = auto.NewCounter(m.counterOpts(
		"prediction_errors_total", "Total number of failed match predictions"))
	m.predictionLatency = auto.NewHistogram(m.histogramOpts(
		"prediction_latency_milliseconds", "Prediction engine latency in milliseconds", m.histogramBuckets))
	m.expectedGoals = auto.NewHistogramVec(m.histogramOpts(
		"expected_goals", "Distribution of expected goal rates by side", goalBuckets),
		[]string{"side"})
	m.formFallbacks = auto.NewCounterVec(m.counterOpts(
		"form_fallbacks_total", "Predictions that used the default form summary, by side"),
		[]string{"side"})
	m.weatherDampened = auto.NewCounter(m.counterOpts(
		"weather_dampened_total", "Predictions whose rates were dampened for rain or snow"))
	m.lastPredictionUnix = auto.NewGauge(m.gaugeOpts(
		"last_prediction_unix", "Unix timestamp of the last prediction"))
	m.insightsServed = auto.NewCounter(m.counterOpts(
		"insights_served_total", "Total number of match insight reports served"))

	// Upstream provider metrics
	m.upstreamRequests = auto.NewCounterVec(m.counterOpts(
		"upstream_requests_total", "Requests sent to upstream providers by provider and outcome"),
		[]string{"provider", "outcome"})
	m.upstreamLatency = auto.NewHistogramVec(m.histogramOpts(
		"upstream_latency_milliseconds", "Upstream provider latency in milliseconds", m.histogramBuckets),
		[]string{"provider"})
	m.weatherFallbacks = auto.NewCounter(m.counterOpts(
		"weather_fallbacks_total", "Weather lookups that fell back to the unknown report"))

	// HTTP metrics
	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})
	m.httpInFlight = auto.NewGauge(m.gaugeOpts(
		"http_requests_in_flight", "Number of HTTP requests being served"))

	// Error metrics
	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts(
		"errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts(
		"errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts(
		"errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogramOpts(
		"error_latency_milliseconds", "Latency of operations that resulted in errors", m.histogramBuckets),
		[]string{"component", "error_type"})

	// System metrics
	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts(
		"system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts(
		"system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// Prediction Metrics Functions.

// RecordPrediction records a successful prediction with its expected goals.
func RecordPrediction(latencyMs, homeRate, awayRate float64) {
	if !recording() {
		return
	}
	globalManager.predictionsTotal.Inc()
	globalManager.predictionLatency.Observe(latencyMs)
	globalManager.expectedGoals.WithLabelValues("home").Observe(homeRate)
	globalManager.expectedGoals.WithLabelValues("away").Observe(awayRate)
	globalManager.lastPredictionUnix.Set(float64(time.Now().Unix()))
}

// RecordPredictionError increments the prediction errors counter.
func RecordPredictionError() {
	if !recording() {
		return
	}
	globalManager.predictionErrors.Inc()
}

// RecordFormFallback counts a default form summary for side ("home" or "away").
func RecordFormFallback(side string) {
	if !recording() {
		return
	}
	globalManager.formFallbacks.WithLabelValues(side).Inc()
}

// RecordWeatherDampened counts a rain or snow adjustment.
func RecordWeatherDampened() {
	if !recording() {
		return
	}
	globalManager.weatherDampened.Inc()
}

// RecordInsightServed counts a match insight report.
func RecordInsightServed() {
	if !recording() {
		return
	}
	globalManager.insightsServed.Inc()
}

// Upstream Metrics Functions.

// RecordUpstreamRequest records one call to provider with its outcome label and latency.
func RecordUpstreamRequest(provider, outcome string, latencyMs float64) {
	if !recording() {
		return
	}
	globalManager.upstreamRequests.WithLabelValues(provider, outcome).Inc()
	globalManager.upstreamLatency.WithLabelValues(provider).Observe(latencyMs)
}

// RecordWeatherFallback counts a weather lookup that returned the unknown report.
func RecordWeatherFallback() {
	if !recording() {
		return
	}
	globalManager.weatherFallbacks.Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !recording() {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !recording() {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// IncHTTPInFlight marks a request as started.
func IncHTTPInFlight() {
	if !recording() {
		return
	}
	globalManager.httpInFlight.Inc()
}

// DecHTTPInFlight marks a request as finished.
func DecHTTPInFlight() {
	if !recording() {
		return
	}
	globalManager.httpInFlight.Dec()
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !recording() {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	if !recording() {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !recording() {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if !recording() {
		return
	}
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !recording() {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if !recording() {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if !recording() {
		return
	}
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// RefreshInterval returns how often the global gauge updaters should run.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

func recording() bool {
	return globalManager.enabled
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
