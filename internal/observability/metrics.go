package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for clusterview self-monitoring.
// It uses a custom registry to avoid polluting the global default.
type Metrics struct {
	Registry *prometheus.Registry

	// Snapshot metrics
	SnapshotBuildDuration prometheus.Histogram
	SnapshotBuildTotal    *prometheus.CounterVec
	SnapshotItems         *prometheus.GaugeVec

	// Fetch metrics, labelled by resource kind
	FetchDuration    *prometheus.HistogramVec
	FetchErrorsTotal *prometheus.CounterVec

	// Metrics API metrics
	MetricsAPIDuration   prometheus.Histogram
	MetricsFallbackTotal prometheus.Counter
	MetricsAPIAvailable  prometheus.Gauge

	// HTTP metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	RateLimitRejectsTotal prometheus.Counter

	// Runtime metrics
	MemoryPressureTotal prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all Prometheus metrics
// registered on a custom registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,

		SnapshotBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "clusterview_snapshot_build_duration_seconds",
			Help:    "Duration of snapshot build operations in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		SnapshotBuildTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clusterview_snapshot_build_total",
			Help: "Total number of snapshot builds by outcome.",
		}, []string{"status"}),
		SnapshotItems: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "clusterview_snapshot_items",
			Help: "Number of items of each kind in the most recent snapshot.",
		}, []string{"kind"}),

		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clusterview_fetch_duration_seconds",
			Help:    "Duration of resource list calls against the API server in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		FetchErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clusterview_fetch_errors_total",
			Help: "Total number of failed resource list calls.",
		}, []string{"kind"}),

		MetricsAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "clusterview_metrics_api_duration_seconds",
			Help:    "Duration of metrics-server node lookups in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		MetricsFallbackTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clusterview_metrics_fallback_total",
			Help: "Total number of node metrics lookups that fell back to N/A.",
		}),
		MetricsAPIAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clusterview_metrics_api_available",
			Help: "1 if metrics.k8s.io was detected at startup, 0 otherwise.",
		}),

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clusterview_http_requests_total",
			Help: "Total number of API requests by route and status code.",
		}, []string{"route", "code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clusterview_http_request_duration_seconds",
			Help:    "Duration of API requests in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		RateLimitRejectsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clusterview_rate_limit_rejects_total",
			Help: "Total number of API requests rejected by the rate limiter.",
		}),
		MemoryPressureTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clusterview_memory_pressure_total",
			Help: "Total number of times memory usage crossed the pressure threshold.",
		}),
	}

	// Register all metrics with the custom registry.
	reg.MustRegister(
		m.SnapshotBuildDuration,
		m.SnapshotBuildTotal,
		m.SnapshotItems,
		m.FetchDuration,
		m.FetchErrorsTotal,
		m.MetricsAPIDuration,
		m.MetricsFallbackTotal,
		m.MetricsAPIAvailable,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.RateLimitRejectsTotal,
		m.MemoryPressureTotal,
	)

	return m
}
