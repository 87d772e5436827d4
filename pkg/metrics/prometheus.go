// Package metrics provides Prometheus metrics for the Gambit report service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultNamespace = "gambit"
)

// Manager manages all Prometheus metrics for the Gambit service.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	// Core Business Metrics - one sample per report request
	reportsServed    prometheus.Counter
	reportsFailed    *prometheus.CounterVec
	reportDuration   prometheus.Histogram
	gamesProcessed   prometheus.Counter
	decodeErrors     prometheus.Counter
	playersPerReport prometheus.Histogram

	// Upstream Metrics - outbound calls to the chess server
	upstreamRequestDuration *prometheus.HistogramVec
	upstreamErrors          *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Operational Health Metrics
	systemMemoryBytes prometheus.Gauge
	systemGoroutines  prometheus.Gauge
}

// NewManager creates a metrics manager with configuration options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: defaultNamespace,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	factory := promauto.With(m.registry)

	m.reportsServed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "reports_served_total",
		Help:      "Total number of tournament reports served successfully.",
	})
	m.reportsFailed = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "reports_failed_total",
		Help:      "Total number of failed report requests by error code.",
	}, []string{"code"})
	m.reportDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "report_duration_ms",
		Help:      "End-to-end report computation time in milliseconds.",
		Buckets:   prometheus.ExponentialBuckets(10, 2, 12),
	})
	m.gamesProcessed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "games_processed_total",
		Help:      "Total number of game records decoded and classified.",
	})
	m.decodeErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "decode_errors_total",
		Help:      "Total number of feed lines that failed to decode.",
	})
	m.playersPerReport = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "players_per_report",
		Help:      "Distinct players aggregated per report.",
		Buckets:   prometheus.ExponentialBuckets(2, 2, 12),
	})

	m.upstreamRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "upstream_request_duration_ms",
		Help:      "Upstream call latency in milliseconds by endpoint.",
		Buckets:   prometheus.ExponentialBuckets(5, 2, 12),
	}, []string{"endpoint"})
	m.upstreamErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "upstream_errors_total",
		Help:      "Total number of upstream failures by kind.",
	}, []string{"kind"})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
	}, []string{"endpoint", "method", "status"})

	m.systemMemoryBytes = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "system_memory_bytes",
		Help:      "Current allocated heap bytes.",
	})
	m.systemGoroutines = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines.",
	})

	return m
}

// Registry returns the manager's registry for exposition.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

var (
	defaultManager *Manager
	defaultOnce    sync.Once
)

func def() *Manager {
	defaultOnce.Do(func() {
		defaultManager = NewManager()
	})
	return defaultManager
}

// GetRegistry returns the default registry used by the package-level helpers.
func GetRegistry() *prometheus.Registry {
	return def().Registry()
}

// RecordReportServed increments the served-report counter.
func RecordReportServed() {
	def().reportsServed.Inc()
}

// RecordReportFailed increments the failed-report counter for a code.
func RecordReportFailed(code string) {
	def().reportsFailed.WithLabelValues(code).Inc()
}

// RecordReportDuration observes one report's computation time.
func RecordReportDuration(ms float64) {
	def().reportDuration.Observe(ms)
}

// AddGamesProcessed adds to the processed-game counter.
func AddGamesProcessed(n int) {
	if n > 0 {
		def().gamesProcessed.Add(float64(n))
	}
}

// RecordDecodeError increments the decode error counter.
func RecordDecodeError() {
	def().decodeErrors.Inc()
}

// ObservePlayersPerReport observes the distinct player count of one report.
func ObservePlayersPerReport(n int) {
	def().playersPerReport.Observe(float64(n))
}

// RecordUpstreamRequestDuration observes one upstream call's latency.
func RecordUpstreamRequestDuration(endpoint string, ms float64) {
	def().upstreamRequestDuration.WithLabelValues(endpoint).Observe(ms)
}

// RecordUpstreamError increments the upstream failure counter for a kind.
func RecordUpstreamError(kind string) {
	def().upstreamErrors.WithLabelValues(kind).Inc()
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, status string) {
	def().httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request's latency.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	def().httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

// UpdateSystemMemoryUsage sets the heap usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	def().systemMemoryBytes.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(n int) {
	def().systemGoroutines.Set(float64(n))
}
