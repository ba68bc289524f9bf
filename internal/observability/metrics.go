// Package observability provides Prometheus metrics for scoring runs.
//
// Each run owns a registry. A batch job has no scrape endpoint, so the
// registry is written once at the end in node_exporter textfile format.
package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "goz_scoring"

// RunMetrics holds all Prometheus metrics for one scoring run.
type RunMetrics struct {
	registry *prometheus.Registry

	// Ingestion metrics
	LinesRead    prometheus.Counter
	DecodeErrors prometheus.Counter

	// Engine metrics
	EnvelopesObserved *prometheus.CounterVec
	OpaqueOutcomes    *prometheus.CounterVec
	ChannelsSeen      *prometheus.CounterVec
	IgnoredMessages   *prometheus.CounterVec

	// Result metrics
	TeamsScored    prometheus.Gauge
	SourceChannels prometheus.Gauge

	// Pipeline metrics
	PhaseDuration     *prometheus.HistogramVec
	StoreWrites       *prometheus.CounterVec
	LastSuccessfulRun prometheus.Gauge
}

// NewRunMetrics creates a RunMetrics instance registered on a fresh registry.
func NewRunMetrics(namespace string) *RunMetrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &RunMetrics{
		registry: reg,

		// Ingestion metrics
		LinesRead: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "lines_read_total",
			Help:      "Total number of input lines read",
		}),
		DecodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "decode_errors_total",
			Help:      "Total number of input lines that failed to decode",
		}),

		// Engine metrics
		EnvelopesObserved: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "envelopes_observed_total",
			Help:      "Total number of envelopes observed by network",
		}, []string{"network"}),
		OpaqueOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "opaque_packets_total",
			Help:      "Total number of opaque packet observations by outcome",
		}, []string{"outcome"}),
		ChannelsSeen: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "transfer_channels_total",
			Help:      "Hub packet transfer destination channels seen, by whether they were new",
		}, []string{"result"}),
		IgnoredMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "ignored_messages_total",
			Help:      "Total number of messages and events skipped by variant",
		}, []string{"kind"}),

		// Result metrics
		TeamsScored: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "result",
			Name:      "teams_scored",
			Help:      "Number of teams with a score entry",
		}),
		SourceChannels: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "result",
			Name:      "source_channels",
			Help:      "Number of hub-sourced channels learned",
		}),

		// Pipeline metrics
		PhaseDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "phase_duration_seconds",
			Help:      "Scoring run phase duration in seconds",
			Buckets:   []float64{0.01, 0.1, 1, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"phase"}),
		StoreWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "store_writes_total",
			Help:      "Result store writes by backend and status",
		}, []string{"backend", "status"}),
		LastSuccessfulRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful scoring run",
		}),
	}
}

// Registry returns the run registry.
func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordLine increments the lines read counter.
func (m *RunMetrics) RecordLine() {
	m.LinesRead.Inc()
}

// RecordDecodeError increments the decode errors counter.
func (m *RunMetrics) RecordDecodeError() {
	m.DecodeErrors.Inc()
}

// RecordEnvelope counts one envelope from network.
func (m *RunMetrics) RecordEnvelope(network string) {
	m.EnvelopesObserved.WithLabelValues(network).Inc()
}

// RecordOpaqueOutcome counts one opaque packet observation.
func (m *RunMetrics) RecordOpaqueOutcome(outcome string) {
	m.OpaqueOutcomes.WithLabelValues(outcome).Inc()
}

// RecordChannelLearned counts one hub transfer destination channel.
func (m *RunMetrics) RecordChannelLearned(_ string, added bool) {
	result := "known"
	if added {
		result = "added"
	}
	m.ChannelsSeen.WithLabelValues(result).Inc()
}

// RecordIgnored counts one skipped message or event variant.
func (m *RunMetrics) RecordIgnored(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	m.IgnoredMessages.WithLabelValues(kind).Inc()
}

// ObservePhase records how long a pipeline phase took.
func (m *RunMetrics) ObservePhase(phase string, d time.Duration) {
	m.PhaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// RecordStoreWrite records a result store write.
func (m *RunMetrics) RecordStoreWrite(backend string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.StoreWrites.WithLabelValues(backend, status).Inc()
}

// SetResult updates the result gauges.
func (m *RunMetrics) SetResult(teams, sourceChannels int) {
	m.TeamsScored.Set(float64(teams))
	m.SourceChannels.Set(float64(sourceChannels))
}

// MarkSuccess sets the last successful run timestamp.
func (m *RunMetrics) MarkSuccess(at time.Time) {
	m.LastSuccessfulRun.Set(float64(at.Unix()))
}

// WriteTextfile writes the registry to path in textfile collector format.
// The file is written atomically.
func (m *RunMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
