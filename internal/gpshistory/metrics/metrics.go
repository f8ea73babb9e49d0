// Package metrics defines the Prometheus collectors exposed by the parser,
// collection, and grid packages, grounded on the gauge/counter style of
// natesales-gpsd-exporter's dynMetricGauges. Unlike that exporter this
// package never starts an HTTP server or touches the global
// prometheus.DefaultRegisterer — it exists purely as collectors a caller's
// own process wires into whatever registry and exposition it runs (spec's
// "no networking" Non-goal covers the transport, not the instrumentation).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/banshee-data/gpshistory/internal/version"
)

// Collectors bundles every metric this module emits. Construct one with
// NewCollectors and Register it into the caller's prometheus.Registerer.
type Collectors struct {
	PointsParsed          prometheus.Counter
	PointsDroppedByFilter *prometheus.CounterVec
	PointsDiscardedPartial prometheus.Counter
	AppendRejectedByPolicy *prometheus.CounterVec
	GridBuildDuration      prometheus.Histogram
	StaysEmitted           prometheus.Counter
	BuildInfo              *prometheus.GaugeVec
}

// NewCollectors constructs every collector, unregistered. BuildInfo is
// pre-set to 1 with the process's version/commit/build-time labels, the
// usual "buildinfo gauge" exporter idiom, so a caller only needs to
// Register before scraping.
func NewCollectors() *Collectors {
	c := &Collectors{
		PointsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gpshistory_points_parsed_total",
			Help: "Total number of points successfully emitted by the streaming parser.",
		}),
		PointsDroppedByFilter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gpshistory_points_dropped_total",
			Help: "Points dropped by a parser filter, labeled by the filter that dropped them.",
		}, []string{"filter"}),
		PointsDiscardedPartial: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gpshistory_points_discarded_partial_total",
			Help: "Points discarded because a chunk boundary left them incomplete at stream end.",
		}),
		AppendRejectedByPolicy: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gpshistory_append_rejected_total",
			Help: "Collection appends rejected by a sort-order enforcement policy, labeled by policy.",
		}, []string{"policy"}),
		GridBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gpshistory_grid_build_duration_seconds",
			Help:    "Time taken to build a spatial grid from a collection.",
			Buckets: prometheus.DefBuckets,
		}),
		StaysEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gpshistory_stays_emitted_total",
			Help: "Total number of Stay items emitted by the points-to-stays converter.",
		}),
		BuildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gpshistory_build_info",
			Help: "Always 1, labeled with the running build's version, commit and build time.",
		}, []string{"version", "git_sha", "build_time"}),
	}
	c.BuildInfo.WithLabelValues(version.Version, version.GitSHA, version.BuildTime).Set(1)
	return c
}

// Register adds every collector in c to reg. Returns the first
// registration error encountered, if any.
func (c *Collectors) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		c.PointsParsed,
		c.PointsDroppedByFilter,
		c.PointsDiscardedPartial,
		c.AppendRejectedByPolicy,
		c.GridBuildDuration,
		c.StaysEmitted,
		c.BuildInfo,
	}
	for _, coll := range collectors {
		if err := reg.Register(coll); err != nil {
			return err
		}
	}
	return nil
}
