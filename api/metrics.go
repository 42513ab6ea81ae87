/*
metrics.go - Prometheus instrumentation

PURPOSE:
  Counters and histograms for the reconciliation service. Each Metrics value
  owns its registry so tests can build handlers in isolation; the router
  exposes the registry at /metrics.

METRICS:
  arrears_runs_total{outcome}        Reconciliation runs by outcome
                                     (computed, cached, error)
  arrears_run_duration_seconds      Engine run latency (cache misses only)
  arrears_statements_uploaded_total Statements accepted by the normalizer
*/
package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service-level Prometheus collectors.
type Metrics struct {
	Registry *prometheus.Registry

	RunsTotal          *prometheus.CounterVec
	RunDuration        prometheus.Histogram
	StatementsUploaded prometheus.Counter
}

// NewMetrics builds the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "arrears_runs_total",
			Help: "Reconciliation runs by outcome.",
		}, []string{"outcome"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "arrears_run_duration_seconds",
			Help:    "Engine run latency for cache misses.",
			Buckets: prometheus.DefBuckets,
		}),
		StatementsUploaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "arrears_statements_uploaded_total",
			Help: "Statements accepted by the normalizer.",
		}),
	}
}
