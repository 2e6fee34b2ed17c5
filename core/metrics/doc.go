// Package metrics exposes Prometheus instrumentation for reconciliation runs.
//
// Counters and gauges are registered through promauto on the default registry
// and served from the /metrics endpoint.
package metrics
