package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Catalog lookup outcomes.
const (
	OutcomeFound       = "found"
	OutcomeNotFound    = "not_found"
	OutcomeUpstreamErr = "upstream_error"
	OutcomeMalformed   = "malformed"
	OutcomeBreakerOpen = "breaker_open"
)

// CatalogMetrics records outcomes of upstream catalog lookups.
type CatalogMetrics struct {
	lookups      *prometheus.CounterVec
	duration     prometheus.Histogram
	breakerState prometheus.Gauge
}

// NewCatalogMetrics registers the catalog metrics on the provided registerer.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_lookups_total",
		Help: "Upstream catalog lookups by outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_lookup_duration_seconds",
		Help:    "Duration of upstream catalog lookups in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	breakerState := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_circuit_breaker_state",
		Help: "Catalog circuit breaker state (0=closed, 1=half-open, 2=open).",
	})
	reg.MustRegister(lookups, duration, breakerState)
	return &CatalogMetrics{
		lookups:      lookups,
		duration:     duration,
		breakerState: breakerState,
	}
}

// ObserveLookup counts one lookup with its outcome and latency.
func (c *CatalogMetrics) ObserveLookup(outcome string, took time.Duration) {
	if c == nil || c.lookups == nil {
		return
	}
	c.lookups.WithLabelValues(normalizeLabel(outcome)).Inc()
	c.duration.Observe(took.Seconds())
}

// SetBreakerState publishes the breaker state gauge.
func (c *CatalogMetrics) SetBreakerState(state float64) {
	if c == nil || c.breakerState == nil {
		return
	}
	c.breakerState.Set(state)
}
