/*
Package metrics provides Prometheus metrics for devicesync.

All collectors are package-level variables registered in init(), so importing
the package is enough to make them live. The reconciler and the transport
layer increment them as a run progresses; the optional --metrics-addr flag
exposes them on /metrics for runs that are scraped while executing.

# Metrics

Reconciliation:
  - devicesync_operations_total{kind,outcome}: device operations by result
  - devicesync_reconcile_duration_seconds: per-appliance pass duration
  - devicesync_devices_audited_total: rows written by the audit path

Transport:
  - devicesync_api_requests_total{method,status}: appliance API calls
  - devicesync_api_request_retries_total: requests retried after a reconnect
  - devicesync_api_request_duration_seconds{method}: request latency

# Usage

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.ReconcileDuration)

	metrics.OperationsTotal.WithLabelValues("create", "created").Inc()
*/
package metrics
