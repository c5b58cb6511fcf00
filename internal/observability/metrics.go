package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "nasr_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for the decoding pipeline.
type Metrics struct {
	LinesConsumed    *prometheus.CounterVec // labels: family
	RowsDecoded      *prometheus.CounterVec // labels: family, record_type
	LineErrors       *prometheus.CounterVec // labels: family, kind
	RowsProduced     *prometheus.CounterVec // labels: family
	LayoutLoadErrors *prometheus.CounterVec // labels: family
	FamiliesRunning  prometheus.Gauge
	PipelineRunning  prometheus.Gauge

	// Batch loading metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram
	FamilyDuration          *prometheus.HistogramVec // labels: family
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.LinesConsumed,
		m.RowsDecoded,
		m.LineErrors,
		m.RowsProduced,
		m.LayoutLoadErrors,
		m.FamiliesRunning,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.FamilyDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere, so
// tests can build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		LinesConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_consumed_total",
			Help:      "Physical data lines read, per record family.",
		}, []string{"family"}),
		RowsDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_decoded_total",
			Help:      "Lines decoded into typed rows, per family and record type.",
		}, []string{"family", "record_type"}),
		LineErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "line_errors_total",
			Help:      "Lines that failed to decode, per family and error kind.",
		}, []string{"family", "kind"}),
		RowsProduced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_produced_total",
			Help:      "Rows written to the sink, per family.",
		}, []string{"family"}),
		LayoutLoadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_load_errors_total",
			Help:      "Layout files that failed to load, per family.",
		}, []string{"family"}),
		FamiliesRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "families_running",
			Help:      "Record families currently being decoded.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when idle or shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of rows per batch handed to the sink.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100, 250, 500, 1000},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a batch load, including retries.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		FamilyDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "family_duration_seconds",
			Help:      "Wall time to decode and load one record family.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		}, []string{"family"}),
	}
}
