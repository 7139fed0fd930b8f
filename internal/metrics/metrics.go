// Package metrics records crawl counters in a private Prometheus registry.
//
// The registry is never served; when requested it is written once at the end
// of a run in the text exposition format, suitable for the node_exporter
// textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ghanalyzer"

// Recorder holds the counters for one analysis run.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	pageFetches  *prometheus.CounterVec
	resolutions  *prometheus.CounterVec
	repositories prometheus.Gauge
	pullRequests prometheus.Gauge
}

// New creates a Recorder backed by a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		pageFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_fetches_total",
			Help:      "Page fetches by collection and outcome",
		}, []string{"collection", "outcome"}),
		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_count_resolutions_total",
			Help:      "Page count resolutions by collection and source of the result",
		}, []string{"collection", "source"}),
		repositories: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "repositories_collected",
			Help:      "Repositories enumerated in the last run",
		}),
		pullRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pull_requests_collected",
			Help:      "Pull requests collected in the last run",
		}),
	}
}

// PageFetched counts one page fetch for the collection.
func (r *Recorder) PageFetched(collection string, err error) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.pageFetches.WithLabelValues(collection, outcome).Inc()
}

// PageCountResolved counts one page count resolution.
func (r *Recorder) PageCountResolved(collection, source string) {
	if r == nil {
		return
	}
	r.resolutions.WithLabelValues(collection, source).Inc()
}

// Collected records the size of the final result.
func (r *Recorder) Collected(repositories, pullRequests int) {
	if r == nil {
		return
	}
	r.repositories.Set(float64(repositories))
	r.pullRequests.Set(float64(pullRequests))
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes all metrics to path, replacing it atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
