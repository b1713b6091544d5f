package observability

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/quakefeed/knet-etl/internal/knet"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// waveform ETL pipeline.
type Metrics struct {
	MessagesConsumed prometheus.Counter
	RecordsProduced  prometheus.Counter
	DecodeErrors     *prometheus.CounterVec // label: kind=<decoder error class>
	PipelineRunning  prometheus.Gauge

	// Per-record decode metrics.
	SamplesPerRecord prometheus.Histogram
	BatchSize        prometheus.Histogram
	BatchDuration    prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.MessagesConsumed,
		m.RecordsProduced,
		m.DecodeErrors,
		m.PipelineRunning,
		m.SamplesPerRecord,
		m.BatchSize,
		m.BatchDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "knet_etl",
			Name:      "messages_consumed_total",
			Help:      "Total messages read from the source topic.",
		}),
		RecordsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "knet_etl",
			Name:      "records_produced_total",
			Help:      "Total decoded waveform records written to the sink topic.",
		}),
		DecodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "knet_etl",
			Name:      "decode_errors_total",
			Help:      "Decode failures by error kind.",
		}, []string{"kind"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "knet_etl",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		SamplesPerRecord: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "knet_etl",
			Name:      "samples_per_record",
			Help:      "Sample count of each decoded record.",
			// 100 Hz × 60-300 s is the usual K-NET range.
			Buckets: []float64{1000, 6000, 12000, 18000, 30000, 60000, 120000},
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "knet_etl",
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "knet_etl",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-decode-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// ErrorKind classifies a decode error for the DecodeErrors metric label.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, knet.ErrHeaderLabelMismatch):
		return "header_label_mismatch"
	case errors.Is(err, knet.ErrHeaderLineCount):
		return "header_line_count"
	case errors.Is(err, knet.ErrPrematureEndOfHeader):
		return "premature_end_of_header"
	case errors.Is(err, knet.ErrStationNameTooLong):
		return "station_name_too_long"
	case errors.Is(err, knet.ErrMalformedNumericField):
		return "malformed_numeric_field"
	case errors.Is(err, knet.ErrMalformedCalibrationField):
		return "malformed_calibration_field"
	case errors.Is(err, knet.ErrMalformedSampleValue):
		return "malformed_sample_value"
	default:
		return "other"
	}
}
