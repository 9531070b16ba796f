package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Export Metrics
	ExportsTotal         *prometheus.CounterVec
	ExportDuration       prometheus.Histogram
	ExportNodesProcessed prometheus.Histogram
	ExportLinksEmitted   prometheus.Histogram
	InstancesExtracted   *prometheus.CounterVec
	LinksDroppedTotal    prometheus.Counter
	ArtifactsWritten     *prometheus.CounterVec
	OutOfRangeMobiles    prometheus.Counter

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initHTTPMetrics()
	r.initExportMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netflux5g_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netflux5g_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "netflux5g_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)
}

func (r *Registry) initExportMetrics() {
	r.ExportsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netflux5g_exports_total",
			Help: "Total number of export compilations",
		},
		[]string{"status"},
	)

	r.ExportDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netflux5g_export_duration_seconds",
			Help:    "Export compilation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.ExportNodesProcessed = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netflux5g_export_nodes_processed",
			Help:    "Nodes processed per export",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		},
	)

	r.ExportLinksEmitted = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netflux5g_export_links_emitted",
			Help:    "Links emitted per export",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		},
	)

	r.InstancesExtracted = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netflux5g_instances_extracted_total",
			Help: "Core network-function instances extracted, by role",
		},
		[]string{"role"},
	)

	r.LinksDroppedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "netflux5g_links_dropped_total",
			Help: "Links dropped during rewrite",
		},
	)

	r.ArtifactsWritten = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netflux5g_artifacts_written_total",
			Help: "Config artifacts written, by resolution origin",
		},
		[]string{"origin"},
	)

	r.OutOfRangeMobiles = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "netflux5g_out_of_range_mobiles_total",
			Help: "Mobile nodes associated outside coverage",
		},
	)
}
