package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Workspace metrics
	Mutations       *prometheus.CounterVec
	TreeEntities    *prometheus.GaugeVec
	PersistDuration prometheus.Histogram
	PersistFailures prometheus.Counter
	Loads           *prometheus.CounterVec

	// Upload metrics
	Uploads     *prometheus.CounterVec
	UploadBytes prometheus.Histogram

	// Preview metrics
	ComposeDuration prometheus.Histogram
	ComposeCache    *prometheus.CounterVec

	// Export metrics
	Exports        *prometheus.CounterVec
	ExportDuration prometheus.Histogram

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
	stop      chan struct{}
	stopOnce  sync.Once

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests     int64
	TotalErrors       int64
	Mutations         int64
	PersistFailures   int64
	Uploads           int64
	ActiveConnections int64
	TotalDuration     float64 // sum of all request durations
	RequestCount      int64   // count for averaging
}

// NewMetrics creates a new metrics collector with its own registry, so
// several collectors can coexist in one process (tests, CLI + server).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),
		stop:      make(chan struct{}),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codecraft_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "codecraft_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "codecraft_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "codecraft_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		// Workspace metrics
		Mutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codecraft_workspace_mutations_total",
				Help: "Workspace tree operations by outcome",
			},
			[]string{"operation", "status"},
		),
		TreeEntities: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "codecraft_workspace_entities",
				Help: "Number of projects, folders and files in the tree",
			},
			[]string{"level"},
		),
		PersistDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "codecraft_workspace_persist_duration_seconds",
				Help:    "Time spent encoding and saving the tree",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		PersistFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "codecraft_workspace_persist_failures_total",
				Help: "Saves that failed and were swallowed",
			},
		),
		Loads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codecraft_workspace_loads_total",
				Help: "Tree loads by outcome",
			},
			[]string{"outcome"},
		),

		// Upload metrics
		Uploads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codecraft_uploads_total",
				Help: "Uploads by kind and outcome",
			},
			[]string{"kind", "status"},
		),
		UploadBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "codecraft_upload_size_bytes",
				Help:    "Accepted upload sizes",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
			},
		),

		// Preview metrics
		ComposeDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "codecraft_preview_compose_duration_seconds",
				Help:    "Preview render duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
			},
		),
		ComposeCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codecraft_preview_cache_total",
				Help: "Preview cache lookups by result",
			},
			[]string{"result"},
		),

		// Export metrics
		Exports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codecraft_exports_total",
				Help: "Archive exports by format and outcome",
			},
			[]string{"format", "status"},
		),
		ExportDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "codecraft_export_duration_seconds",
				Help:    "Time spent building export archives",
				Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5},
			},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "codecraft_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codecraft_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),

		// System metrics
		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "codecraft_uptime_seconds",
				Help: "Backend uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// Registry exposes the collector's registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Close stops the uptime updater.
func (m *Metrics) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.Uptime.Set(time.Since(m.startTime).Seconds())
		}
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordMutation records one workspace operation.
func (m *Metrics) RecordMutation(operation string, ok bool) {
	m.Mutations.WithLabelValues(operation, statusLabel(ok)).Inc()
	if ok {
		m.mu.Lock()
		m.snapshot.Mutations++
		m.mu.Unlock()
	}
}

// RecordPersist records one tree save.
func (m *Metrics) RecordPersist(duration time.Duration, err error) {
	m.PersistDuration.Observe(duration.Seconds())
	if err != nil {
		m.PersistFailures.Inc()
		m.mu.Lock()
		m.snapshot.PersistFailures++
		m.mu.Unlock()
	}
}

// RecordLoad records how the tree was obtained at startup or reload.
func (m *Metrics) RecordLoad(outcome string) {
	m.Loads.WithLabelValues(outcome).Inc()
}

// SetTreeSize publishes entity counts.
func (m *Metrics) SetTreeSize(projects, folders, files int) {
	m.TreeEntities.WithLabelValues("project").Set(float64(projects))
	m.TreeEntities.WithLabelValues("folder").Set(float64(folders))
	m.TreeEntities.WithLabelValues("file").Set(float64(files))
}

// RecordUpload records an upload attempt.
func (m *Metrics) RecordUpload(kind string, size int64, ok bool) {
	m.Uploads.WithLabelValues(kind, statusLabel(ok)).Inc()
	if ok {
		m.UploadBytes.Observe(float64(size))
		m.mu.Lock()
		m.snapshot.Uploads++
		m.mu.Unlock()
	}
}

// ObserveCompose records a preview render.
func (m *Metrics) ObserveCompose(duration time.Duration, cached bool) {
	m.ComposeDuration.Observe(duration.Seconds())
	if cached {
		m.ComposeCache.WithLabelValues("hit").Inc()
	} else {
		m.ComposeCache.WithLabelValues("miss").Inc()
	}
}

// RecordExport records an archive export.
func (m *Metrics) RecordExport(format string, ok bool) {
	m.Exports.WithLabelValues(format, statusLabel(ok)).Inc()
}

// ObserveExport records how long an archive took to build.
func (m *Metrics) ObserveExport(duration time.Duration) {
	m.ExportDuration.Observe(duration.Seconds())
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

func statusLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}
