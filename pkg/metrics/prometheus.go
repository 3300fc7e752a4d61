// Package metrics provides Prometheus metrics for the pptally recompute
// pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns all Prometheus metrics for the tool.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Remote API metrics
	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec

	// Beatmap cache metrics
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	// Pipeline metrics
	playsEvaluated   prometheus.Counter
	evaluationErrors prometheus.Counter
	profilesChecked  prometheus.Counter
	fitDuration      prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with configuration options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pptally",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}

	factory := promauto.With(m.registry)

	m.apiRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "api_requests_total",
		Help:      "Remote API requests by endpoint and status.",
	}, []string{"endpoint", "status"})

	m.apiLatency = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Remote API request latency by endpoint.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint"})

	m.cacheHits = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "beatmap_cache_hits_total",
		Help:      "Beatmap lookups served from the local cache.",
	})

	m.cacheMisses = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "beatmap_cache_misses_total",
		Help:      "Beatmap lookups that required a download.",
	})

	m.playsEvaluated = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "plays_evaluated_total",
		Help:      "Plays run through the score evaluator.",
	})

	m.evaluationErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "evaluation_errors_total",
		Help:      "Per-play evaluation failures.",
	})

	m.profilesChecked = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "profiles_checked_total",
		Help:      "Completed profile comparisons.",
	})

	m.fitDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "curve_fit_duration_seconds",
		Help:      "Wall time of the reciprocal curve fit.",
		Buckets:   m.histogramBuckets,
	})

	return m
}

// RecordAPIRequest records one remote API request.
func RecordAPIRequest(endpoint, status string, duration time.Duration) {
	globalManager.apiRequests.WithLabelValues(endpoint, status).Inc()
	globalManager.apiLatency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordCacheHit records a beatmap served from the cache.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss records a beatmap that had to be downloaded.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// RecordPlayEvaluated records one successful per-play evaluation.
func RecordPlayEvaluated() {
	globalManager.playsEvaluated.Inc()
}

// RecordEvaluationError records one failed per-play evaluation.
func RecordEvaluationError() {
	globalManager.evaluationErrors.Inc()
}

// RecordProfileChecked records one completed comparison.
func RecordProfileChecked() {
	globalManager.profilesChecked.Inc()
}

// ObserveFitDuration records the wall time of one curve fit.
func ObserveFitDuration(duration time.Duration) {
	globalManager.fitDuration.Observe(duration.Seconds())
}

// Handler returns an HTTP handler serving the custom registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}
