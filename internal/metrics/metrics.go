// Package metrics holds the service's Prometheus collectors. Collectors live
// on their own registry so tests and multiple servers in one process do not
// collide on the default registerer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matthewbaird/crisis/internal/types"
)

const namespace = "crisis"

// Metrics wraps the crisis analysis collectors.
type Metrics struct {
	registry *prometheus.Registry

	Analyses           *prometheus.CounterVec
	Escalations        *prometheus.CounterVec
	CategoryDetections *prometheus.CounterVec
	Duration           prometheus.Histogram
	EventsDropped      prometheus.Counter
}

// New creates and registers every collector on a fresh registry, along with
// the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Total analyses by resulting severity.",
		}, []string{"severity"}),
		Escalations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "escalations_total",
			Help:      "Escalation actions planned, by tier.",
		}, []string{"tier"}),
		CategoryDetections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "category_detections_total",
			Help:      "Analyses with at least one triggered indicator in the category.",
		}, []string{"category"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent in a single analysis.",
			Buckets:   []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .025, .05},
		}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Domain events dropped because the event bus buffer was full.",
		}),
	}
	reg.MustRegister(
		m.Analyses,
		m.Escalations,
		m.CategoryDetections,
		m.Duration,
		m.EventsDropped,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveAnalysis records one completed analysis.
func (m *Metrics) ObserveAnalysis(r types.AnalysisResult, elapsed time.Duration) {
	m.Analyses.WithLabelValues(r.SeverityLevel.String()).Inc()
	m.Duration.Observe(elapsed.Seconds())
}

// ObserveCategories counts one detection per category of an analysis.
func (m *Metrics) ObserveCategories(categories []types.Category) {
	for _, c := range categories {
		m.CategoryDetections.WithLabelValues(string(c)).Inc()
	}
}

// ObserveEscalations counts planned escalation tiers.
func (m *Metrics) ObserveEscalations(tiers []types.EscalationTier) {
	for _, t := range tiers {
		m.Escalations.WithLabelValues(t.String()).Inc()
	}
}

// EventDropped counts one dropped bus event.
func (m *Metrics) EventDropped() { m.EventsDropped.Inc() }
