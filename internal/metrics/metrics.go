// Package metrics exposes Prometheus collectors for collection builds and
// counter widgets.
package metrics

import (
	"net/http"
	"time"

	"github.com/aretw0/docu/pkg/collection"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors on a private registry.
type Metrics struct {
	Registry           *prometheus.Registry
	EntriesLoaded      *prometheus.GaugeVec
	ValidationFailures *prometheus.CounterVec
	BuildDuration      *prometheus.HistogramVec
	CounterIncrements  prometheus.Counter
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		EntriesLoaded: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "docu_entries_loaded",
				Help: "Number of valid entries in the last build of a collection",
			},
			[]string{"collection"},
		),
		ValidationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docu_validation_failures_total",
				Help: "Documents rejected while building a collection",
			},
			[]string{"collection", "kind"},
		),
		BuildDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docu_build_duration_seconds",
				Help:    "Duration of collection builds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"collection"},
		),
		CounterIncrements: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "docu_counter_increments_total",
				Help: "Increment actions applied to counter widgets",
			},
		),
	}

	m.Registry.MustRegister(
		m.EntriesLoaded,
		m.ValidationFailures,
		m.BuildDuration,
		m.CounterIncrements,
		collectors.NewGoCollector(),
	)
	return m
}

// BuildHooks records collection builds.
func (m *Metrics) BuildHooks() collection.Hooks {
	return collection.Hooks{
		OnIssue: func(issue collection.Issue) {
			m.ValidationFailures.WithLabelValues(issue.Collection, string(issue.Kind)).Inc()
		},
		OnBuilt: func(name string, entries, _ int, elapsed time.Duration) {
			m.EntriesLoaded.WithLabelValues(name).Set(float64(entries))
			m.BuildDuration.WithLabelValues(name).Observe(elapsed.Seconds())
		},
	}
}

// ObserveIncrement records one increment action.
func (m *Metrics) ObserveIncrement(_ string, _ int64) {
	m.CounterIncrements.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
