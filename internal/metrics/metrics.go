// Package metrics defines the prometheus collectors for summary
// generation and the job lifecycle, plus the chi middleware that records
// per-route HTTP metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the application collectors. It satisfies both
// service.GenerationMetrics and job.Metrics.
type Metrics struct {
	summaries          *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	fallbacks          *prometheus.CounterVec
	jobs               *prometheus.CounterVec
}

// New creates the collectors and registers them with the given registerer.
// Pass prometheus.DefaultRegisterer in the server and a fresh
// prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		summaries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "summary_requests_total",
			Help: "Number of completed summary generations partitioned by audience and mode.",
		}, []string{"audience", "mode"}),

		generationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "generation_duration_seconds",
			Help:    "Duration of one generation backend call.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"backend"}),

		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "generation_fallbacks_total",
			Help: "Number of fall-throughs to the rule-based extractor partitioned by backend and failure kind.",
		}, []string{"backend", "kind"}),

		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobs_total",
			Help: "Number of job lifecycle events partitioned by status reached.",
		}, []string{"status"}),
	}

	reg.MustRegister(m.summaries, m.generationDuration, m.fallbacks, m.jobs)
	return m
}

// CountSummary implements service.GenerationMetrics.
func (m *Metrics) CountSummary(audience string, mode string) {
	m.summaries.WithLabelValues(audience, mode).Inc()
}

// ObserveGeneration implements service.GenerationMetrics.
func (m *Metrics) ObserveGeneration(backend string, seconds float64) {
	m.generationDuration.WithLabelValues(backend).Observe(seconds)
}

// CountFallback implements service.GenerationMetrics.
func (m *Metrics) CountFallback(backend string, kind string) {
	m.fallbacks.WithLabelValues(backend, kind).Inc()
}

// CountJob implements job.Metrics.
func (m *Metrics) CountJob(status string) {
	m.jobs.WithLabelValues(status).Inc()
}
