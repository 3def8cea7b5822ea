// Package metrics provides Prometheus instrumentation for the analysis pipeline.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

const (
	defaultNamespace = "hr_signals"
	defaultSubsystem = "pipeline"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Manager owns the pipeline collectors. A nil *Manager is valid and records nothing.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	analyses     *prometheus.CounterVec
	fallbacks    *prometheus.CounterVec
	batchRecords *prometheus.CounterVec
	stageLatency *prometheus.HistogramVec
}

// Option configures a Manager.
type Option func(*Manager)

func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

func WithSubsystem(subsystem string) Option {
	return func(m *Manager) { m.subsystem = subsystem }
}

func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = append([]float64(nil), buckets...)
		}
	}
}

// WithRegistry registers the collectors on registry instead of a fresh private one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// NewManager creates the collectors on a private registry unless WithRegistry is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        defaultNamespace,
		subsystem:        defaultSubsystem,
		histogramBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.analyses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "analyses_total",
		Help:      "Total number of analyses by kind and outcome",
	}, []string{"kind", "outcome"})

	m.fallbacks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "collaborator_fallbacks_total",
		Help:      "Total number of times a collaborator failed and the deterministic fallback was used",
	}, []string{"collaborator"})

	m.batchRecords = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_records_total",
		Help:      "Total number of batch records by outcome",
	}, []string{"outcome"})

	m.stageLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stage_duration_seconds",
		Help:      "Duration of each pipeline stage",
		Buckets:   m.histogramBuckets,
	}, []string{"stage"})
}

// RecordAnalysis counts one finished analysis.
func (m *Manager) RecordAnalysis(kind string, err error) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(kind, outcome(err)).Inc()
}

// RecordFallback counts one collaborator fallback.
func (m *Manager) RecordFallback(collaborator string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(collaborator).Inc()
}

// RecordBatchRecord counts one processed batch slot.
func (m *Manager) RecordBatchRecord(err error) {
	if m == nil {
		return
	}
	m.batchRecords.WithLabelValues(outcome(err)).Inc()
}

// ObserveStage records the duration of a pipeline stage.
func (m *Manager) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageLatency.WithLabelValues(stage).Observe(d.Seconds())
}

// Registry exposes the underlying registry.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteText renders every gathered family in the text exposition format.
func (m *Manager) WriteText(w io.Writer) error {
	if m == nil {
		return nil
	}

	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metric family %s: %w", mf.GetName(), err)
		}
	}

	return nil
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
