// Package metrics provides Prometheus metrics for the posterboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Layout metrics
	layouts          prometheus.Counter
	layoutLatency    prometheus.Histogram
	linesByKind      *prometheus.CounterVec
	workshopsParsed  prometheus.Counter
	daysParsed       prometheus.Counter
	columnImbalance  prometheus.Histogram
	inputRejections  prometheus.Counter
	lastLayoutDays   prometheus.Gauge
	lastLayoutEvents prometheus.Gauge

	// Job pipeline metrics
	jobsSubmitted   prometheus.Counter
	jobsCompleted   prometheus.Counter
	jobsRejected    *prometheus.CounterVec
	jobLatency      prometheus.Histogram
	queueSize       prometheus.Gauge
	queueCapacity   prometheus.Gauge
	workerCount     prometheus.Gauge
	workerBusy      prometheus.Gauge
	storedJobs      prometheus.Gauge
	storeEvictions  prometheus.Counter
	storeLookupMiss prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System metrics
	memoryUsage    prometheus.Gauge
	goroutineCount prometheus.Gauge
	gcPause        prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by package-level helpers

// Custom registry to keep default Go collectors out of the exposition.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals

func init() { //nolint:gochecknoinits
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "posterboard",
		subsystem:        "schedule",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// GetRegistry returns the registry backing the package-level helpers.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: buckets,
	})
}

func (m *Manager) initializeMetrics() { //nolint:funlen
	auto := promauto.With(m.registry)

	m.layouts = m.counter("layouts_total", "Total number of schedule layouts computed")
	m.layoutLatency = m.histogram("layout_latency_milliseconds", "Parse and balance latency in milliseconds", m.histogramBuckets)
	m.linesByKind = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "lines_total",
		Help: "Input lines by classification (combined, day, time, orphaned, dropped)",
	}, []string{"kind"})
	m.workshopsParsed = m.counter("workshops_parsed_total", "Total number of workshops extracted from input")
	m.daysParsed = m.counter("days_parsed_total", "Total number of distinct days extracted from input")
	m.columnImbalance = m.histogram("column_imbalance_workshops",
		"Absolute difference between left and right column workshop counts",
		[]float64{0, 1, 2, 3, 5, 8, 13, 21})
	m.inputRejections = m.counter("input_rejections_total", "Inputs refused before parsing (too large)")
	m.lastLayoutDays = m.gauge("last_layout_days", "Number of days in the most recent layout")
	m.lastLayoutEvents = m.gauge("last_layout_workshops", "Number of workshops in the most recent layout")

	m.jobsSubmitted = m.counter("jobs_submitted_total", "Total number of layout jobs accepted")
	m.jobsCompleted = m.counter("jobs_completed_total", "Total number of layout jobs completed")
	m.jobsRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "jobs_rejected_total",
		Help: "Layout jobs refused by reason",
	}, []string{"reason"})
	m.jobLatency = m.histogram("job_latency_milliseconds", "Time from job submission to completion in milliseconds", m.histogramBuckets)
	m.queueSize = m.gauge("queue_size", "Current number of queued layout jobs")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum number of queued layout jobs")
	m.workerCount = m.gauge("worker_count", "Number of layout workers")
	m.workerBusy = m.gauge("worker_busy", "Number of workers currently processing a job")
	m.storedJobs = m.gauge("stored_jobs", "Number of jobs retained in the result store")
	m.storeEvictions = m.counter("store_evictions_total", "Jobs evicted from the result store to make room")
	m.storeLookupMiss = m.counter("store_lookup_misses_total", "Job lookups for unknown or evicted ids")

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "http_requests_total",
		Help: "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "errors_by_endpoint_total",
		Help: "HTTP error responses by endpoint",
	}, []string{"endpoint", "method", "error_type"})

	m.memoryUsage = m.gauge("system_memory_bytes", "Bytes of allocated heap objects")
	m.goroutineCount = m.gauge("system_goroutines", "Number of goroutines")
	m.gcPause = m.histogram("system_gc_pause_milliseconds", "Average GC pause in milliseconds", m.histogramBuckets)
}

// Layout metrics.

// RecordLayout records one computed layout.
func RecordLayout(days, workshops, imbalance int, latencyMs float64) {
	globalManager.layouts.Inc()
	globalManager.layoutLatency.Observe(latencyMs)
	globalManager.daysParsed.Add(float64(days))
	globalManager.workshopsParsed.Add(float64(workshops))
	globalManager.columnImbalance.Observe(float64(imbalance))
	globalManager.lastLayoutDays.Set(float64(days))
	globalManager.lastLayoutEvents.Set(float64(workshops))
}

// RecordLines adds n lines of the given classification.
func RecordLines(kind string, n int) {
	if n <= 0 {
		return
	}
	globalManager.linesByKind.WithLabelValues(kind).Add(float64(n))
}

// RecordInputRejected counts an input refused before parsing.
func RecordInputRejected() {
	globalManager.inputRejections.Inc()
}

// Job pipeline metrics.

// RecordJobSubmitted counts an accepted job.
func RecordJobSubmitted() {
	globalManager.jobsSubmitted.Inc()
}

// RecordJobCompleted counts a finished job and its end-to-end latency.
func RecordJobCompleted(latencyMs float64) {
	globalManager.jobsCompleted.Inc()
	globalManager.jobLatency.Observe(latencyMs)
}

// RecordJobRejected counts a refused job.
func RecordJobRejected(reason string) {
	globalManager.jobsRejected.WithLabelValues(reason).Inc()
}

// UpdateQueueSize sets the current queue length.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateWorkerCount sets the number of workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// WorkerBusy adjusts the busy worker gauge by delta (+1 on start, -1 on finish).
func WorkerBusy(delta int) {
	globalManager.workerBusy.Add(float64(delta))
}

// UpdateStoredJobs sets the number of retained jobs.
func UpdateStoredJobs(count int) {
	globalManager.storedJobs.Set(float64(count))
}

// RecordStoreEviction counts a job evicted from the store.
func RecordStoreEviction() {
	globalManager.storeEvictions.Inc()
}

// RecordStoreMiss counts a lookup for an unknown job.
func RecordStoreMiss() {
	globalManager.storeLookupMiss.Inc()
}

// HTTP metrics.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an HTTP error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System metrics.

// UpdateSystemMemoryUsage sets the allocated heap size in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.memoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.goroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes an average GC pause in milliseconds.
func RecordSystemGCPauseTime(ms float64) {
	globalManager.gcPause.Observe(ms)
}
