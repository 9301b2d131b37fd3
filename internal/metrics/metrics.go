// Package metrics exposes Prometheus collectors for index loading and
// feed assembly.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	inframetrics "github.com/jonesrussell/north-cloud/newsfeed/infrastructure/metrics"
)

const namespace = "newsfeed"

// Feed outcomes recorded by ObserveFeed.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Metrics holds the service collectors. A nil *Metrics is valid and
// records nothing, which keeps wiring optional in tests.
type Metrics struct {
	registry *prometheus.Registry

	IndexSize        prometheus.Gauge
	IndexLoads       prometheus.Counter
	FeedRequests     *prometheus.CounterVec
	ArticlesServed   prometheus.Counter
	ArticlesSkipped  prometheus.Counter
	AssemblyDuration prometheus.Histogram

	// HTTP records per-route request metrics.
	HTTP *inframetrics.HTTPMetrics
}

// New registers all collectors, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		IndexSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_size",
			Help:      "Number of article paths in the current index",
		}),
		IndexLoads: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_loads_total",
			Help:      "Total dataset scans written to the index store",
		}),
		FeedRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_assemblies_total",
			Help:      "Feed assemblies by outcome (ok, empty, error)",
		}, []string{"outcome"}),
		ArticlesServed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_served_total",
			Help:      "Normalized articles returned in feeds",
		}),
		ArticlesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_skipped_total",
			Help:      "Indexed articles skipped because their file was missing",
		}),
		AssemblyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_assembly_duration_seconds",
			Help:      "Time to assemble the full feed",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		HTTP: inframetrics.NewHTTPMetrics(reg, namespace),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveIndexLoad records a completed dataset load of size paths.
func (m *Metrics) ObserveIndexLoad(size int) {
	if m == nil {
		return
	}
	m.IndexLoads.Inc()
	m.IndexSize.Set(float64(size))
}

// ObserveSkip records one skipped index entry.
func (m *Metrics) ObserveSkip() {
	if m == nil {
		return
	}
	m.ArticlesSkipped.Inc()
}

// ObserveFeed records one assembly attempt.
func (m *Metrics) ObserveFeed(outcome string, served int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.FeedRequests.WithLabelValues(outcome).Inc()
	m.ArticlesServed.Add(float64(served))
	m.AssemblyDuration.Observe(elapsed.Seconds())
}
