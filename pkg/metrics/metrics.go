package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Reconciliation metrics
	OperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devicesync_operations_total",
			Help: "Total number of device operations by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	ReconcileDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "devicesync_reconcile_duration_seconds",
			Help:    "Time taken to reconcile one appliance in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	DevicesAudited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "devicesync_devices_audited_total",
			Help: "Total number of device rows written by the audit path",
		},
	)

	// Transport metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devicesync_api_requests_total",
			Help: "Total number of appliance API requests by method and status",
		},
		[]string{"method", "status"},
	)

	APIRequestRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "devicesync_api_request_retries_total",
			Help: "Total number of requests retried after a reconnect",
		},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "devicesync_api_request_duration_seconds",
			Help:    "Appliance API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(OperationsTotal)
	prometheus.MustRegister(ReconcileDuration)
	prometheus.MustRegister(DevicesAudited)
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(APIRequestRetries)
	prometheus.MustRegister(APIRequestDuration)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
