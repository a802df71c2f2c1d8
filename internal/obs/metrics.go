// Package obs wires the engine's operational counters into Prometheus.
package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every counter and histogram the façade updates on each
// operation.
type Metrics struct {
	Inserts       prometheus.Counter
	Deletes       prometheus.Counter
	Queries       prometheus.Counter
	QueryErrors   prometheus.Counter
	SaveOps       prometheus.Counter
	LoadOps       prometheus.Counter
	QueryLatency  prometheus.Histogram
	InsertLatency prometheus.Histogram
	GraphSize     prometheus.Gauge
}

// NewMetrics registers and returns a fresh Metrics instance against the
// default Prometheus registry. Callers that need isolated metrics (e.g.
// tests creating multiple indexes) should use NewMetricsWith a private
// registerer instead.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers against reg instead of the global registry,
// so tests and multi-index processes can avoid duplicate-registration
// panics.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Inserts: factory.NewCounter(prometheus.CounterOpts{
			Name: "voyagraph_inserts_total",
			Help: "Total vectors inserted.",
		}),
		Deletes: factory.NewCounter(prometheus.CounterOpts{
			Name: "voyagraph_deletes_total",
			Help: "Total soft-delete operations.",
		}),
		Queries: factory.NewCounter(prometheus.CounterOpts{
			Name: "voyagraph_queries_total",
			Help: "Total nearest-neighbor queries.",
		}),
		QueryErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "voyagraph_query_errors_total",
			Help: "Total queries that returned an error.",
		}),
		SaveOps: factory.NewCounter(prometheus.CounterOpts{
			Name: "voyagraph_save_total",
			Help: "Total index save operations.",
		}),
		LoadOps: factory.NewCounter(prometheus.CounterOpts{
			Name: "voyagraph_load_total",
			Help: "Total index load operations.",
		}),
		QueryLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voyagraph_query_latency_seconds",
			Help:    "Query latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		InsertLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voyagraph_insert_latency_seconds",
			Help:    "Insert latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		GraphSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "voyagraph_graph_size",
			Help: "Current number of node slots in the graph, soft-deleted nodes included.",
		}),
	}
}
