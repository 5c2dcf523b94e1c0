// Package metrics holds the prometheus instruments of a map session.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sradmap"

// Metrics is a private registry plus the instruments registered on it.
type Metrics struct {
	registry *prometheus.Registry

	LoadSeconds    prometheus.Histogram
	BuildSeconds   prometheus.Histogram
	HitTestSeconds prometheus.Histogram
	Clicks         prometheus.Counter
	Hits           prometheus.Counter
	Shapes         prometheus.Gauge
}

// New registers every instrument on a fresh registry. withRuntime adds the
// Go and process collectors, which only the long-running server wants.
func New(withRuntime bool) *Metrics {
	reg := prometheus.NewRegistry()
	if withRuntime {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
		)
	}

	m := &Metrics{
		registry: reg,
		LoadSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_seconds",
			Help:      "Time spent reading and decoding the GeoJSON source.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		BuildSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_seconds",
			Help:      "Time spent building and painting shapes.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		HitTestSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "hittest_seconds",
			Help:      "Time spent hit-testing one click.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		Clicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clicks_total",
			Help:      "Pointer releases treated as clicks.",
		}),
		Hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hits_total",
			Help:      "Shapes matched by clicks.",
		}),
		Shapes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "shapes",
			Help:      "Shapes currently drawn.",
		}),
	}
	reg.MustRegister(m.LoadSeconds, m.BuildSeconds, m.HitTestSeconds, m.Clicks, m.Hits, m.Shapes)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
