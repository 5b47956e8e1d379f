package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the various metrics used for monitoring the application.
// It covers the employee directory itself and every transport that serves it.
type Metrics struct {
	DirectoryOps        *prometheus.CounterVec
	DirectoryOpDuration *prometheus.HistogramVec
	DirectorySize       prometheus.Gauge
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	GRPCRequests        *prometheus.CounterVec
	HubConnections      prometheus.Gauge
	HubBroadcasts       prometheus.Counter
	HubDropped          prometheus.Counter
}

// NewMetrics creates a new Metrics instance with the provided Registerer.
//
// Parameters:
//   - reg: A prometheus.Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		DirectoryOps: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hestia_directory_operations_total",
			Help: "Total number of directory operations by operation and result.",
		}, []string{"op", "result"}), // result: 'ok', 'not_found', 'duplicate'
		DirectoryOpDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hestia_directory_operation_duration_seconds",
			Help:    "Duration of directory operations.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 10, 6), //nolint: mnd // in-memory scale
		}, []string{"op"}),
		DirectorySize: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "hestia_directory_employees",
			Help: "Number of employees currently stored in the directory.",
		}),
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hestia_http_requests_total",
			Help: "Total number of REST requests.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hestia_http_request_duration_seconds",
			Help:    "Duration of REST requests.",
			Buckets: prometheus.ExponentialBuckets(1e-3, 5, 6), //nolint: mnd // arbitrary
		}, []string{"method", "path"}),
		GRPCRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hestia_grpc_requests_total",
			Help: "Total number of gRPC requests by method and status code.",
		}, []string{"method", "code"}),
		HubConnections: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "hestia_hub_connections",
			Help: "Number of listeners connected to the real-time hub.",
		}),
		HubBroadcasts: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "hestia_hub_broadcasts_total",
			Help: "Total number of employees broadcast to hub listeners.",
		}),
		HubDropped: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "hestia_hub_dropped_listeners_total",
			Help: "Total number of listeners disconnected because their send buffer was full.",
		}),
	}

	for _, op := range []string{"create", "get", "list", "update", "delete"} {
		metrics.DirectoryOps.WithLabelValues(op, "ok")
	}

	return metrics
}
