// Package metrics provides Prometheus metrics for resolution and generation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// MetricsNamespace is the namespace for all engine metrics.
	MetricsNamespace = "seo_engine"
)

// Metrics holds all Prometheus metrics for the engine.
type Metrics struct {
	// Resolution metrics
	ResolutionsTotal   *prometheus.CounterVec
	TenantCacheLookups *prometheus.CounterVec

	// Generation metrics
	GenerationRunsTotal      *prometheus.CounterVec
	GenerationDurationSecs   *prometheus.HistogramVec
	GenerationURLsEmitted    *prometheus.CounterVec
	GenerationFilesWritten   *prometheus.CounterVec
	GenerationsLockedSkipped prometheus.Counter
	GenerationsRunning       prometheus.Gauge

	// Scheduler metrics
	SweepsTotal           prometheus.Counter
	DefaultConfigsCreated prometheus.Counter
}

// New creates and registers all engine metrics.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)
	m := &Metrics{}

	m.ResolutionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "resolutions_total",
			Help:      "Total number of URL resolutions by outcome",
		},
		[]string{"outcome"}, // canonical, redirect, not_found, error
	)

	m.TenantCacheLookups = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "tenant_cache_lookups_total",
			Help:      "Total number of tenant resolution cache lookups",
		},
		[]string{"result"}, // hit, miss
	)

	m.GenerationRunsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "generation_runs_total",
			Help:      "Total number of sitemap generation runs",
		},
		[]string{"type", "status"}, // status: success, failure
	)

	m.GenerationDurationSecs = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Name:      "generation_duration_seconds",
			Help:      "Duration of sitemap generation runs in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12), // 0.1s to ~7min
		},
		[]string{"type"},
	)

	m.GenerationURLsEmitted = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "generation_urls_emitted_total",
			Help:      "Total number of URLs written into sitemap files",
		},
		[]string{"type"},
	)

	m.GenerationFilesWritten = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "generation_files_written_total",
			Help:      "Total number of sitemap files written",
		},
		[]string{"type"},
	)

	m.GenerationsLockedSkipped = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "generations_locked_skipped_total",
			Help:      "Total number of generation runs skipped because the lock was held",
		},
	)

	m.GenerationsRunning = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "generations_running",
			Help:      "Number of generation runs currently in progress",
		},
	)

	m.SweepsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "scheduler_sweeps_total",
			Help:      "Total number of staleness sweeps executed",
		},
	)

	m.DefaultConfigsCreated = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "default_configs_created_total",
			Help:      "Total number of default sitemap configs bootstrapped",
		},
	)

	return m
}

// RecordResolution records a URL resolution by outcome.
func (m *Metrics) RecordResolution(outcome string) {
	m.ResolutionsTotal.WithLabelValues(outcome).Inc()
}

// RecordCacheLookup records a tenant cache lookup by result (hit, miss).
func (m *Metrics) RecordCacheLookup(result string) {
	m.TenantCacheLookups.WithLabelValues(result).Inc()
}

// RecordGeneration records a completed generation run.
func (m *Metrics) RecordGeneration(typ, status string, durationSeconds float64, urls, files int) {
	m.GenerationRunsTotal.WithLabelValues(typ, status).Inc()
	m.GenerationDurationSecs.WithLabelValues(typ).Observe(durationSeconds)
	m.GenerationURLsEmitted.WithLabelValues(typ).Add(float64(urls))
	m.GenerationFilesWritten.WithLabelValues(typ).Add(float64(files))
}

// RecordLockedSkip records a run skipped because another holder had the lock.
func (m *Metrics) RecordLockedSkip() {
	m.GenerationsLockedSkipped.Inc()
}

// RecordSweep records one scheduler sweep and any configs it bootstrapped.
func (m *Metrics) RecordSweep(defaultsCreated int) {
	m.SweepsTotal.Inc()
	m.DefaultConfigsCreated.Add(float64(defaultsCreated))
}
