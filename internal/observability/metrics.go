package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "energy_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for the ETL job.
type Metrics struct {
	PipelineRunning prometheus.Gauge

	// Corpus metrics.
	LocationsSkipped  prometheus.Counter // station directories with no matching weather station
	BuildingsSeen     prometheus.Counter
	BuildingsSampled  prometheus.Counter
	BuildingsFailed   prometheus.Counter
	BuildingDuration  prometheus.Histogram
	RecordsNormalized prometheus.Counter
	RecordsSkipped    prometheus.Counter
	RecordsShifted    prometheus.Counter // readings moved past a DST gap or overlap
	RecordsLoaded     prometheus.Counter

	// Zone resolution metrics.
	ZoneCache *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all job metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PipelineRunning,
		m.LocationsSkipped,
		m.BuildingsSeen,
		m.BuildingsSampled,
		m.BuildingsFailed,
		m.BuildingDuration,
		m.RecordsNormalized,
		m.RecordsSkipped,
		m.RecordsShifted,
		m.RecordsLoaded,
		m.ZoneCache,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while the job is running, 0 otherwise.",
		}),
		LocationsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "locations_skipped_total",
			Help:      "Location directories skipped because their weather station is unknown.",
		}),
		BuildingsSeen: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "buildings_seen_total",
			Help:      "Building files found in known locations.",
		}),
		BuildingsSampled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "buildings_sampled_total",
			Help:      "Building files selected by the sampler.",
		}),
		BuildingsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "buildings_failed_total",
			Help:      "Sampled building files dropped because they could not be read.",
		}),
		BuildingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "building_processing_duration_seconds",
			Help:      "Duration of reading and normalizing one building file.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		RecordsNormalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_normalized_total",
			Help:      "Readings converted to zone-aware records.",
		}),
		RecordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "Readings dropped by the skip error policy.",
		}),
		RecordsShifted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_shifted_total",
			Help:      "Readings moved one hour forward around a DST transition.",
		}),
		RecordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_loaded_total",
			Help:      "Records written to the output sinks.",
		}),
		ZoneCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "zone_cache_total",
			Help:      "Time zone cache lookups by result.",
		}, []string{"result"}),
	}
}
