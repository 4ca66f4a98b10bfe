package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsConfig configures metrics collection.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected.
	Enabled bool `yaml:"enabled"`
	// Namespace is the metrics namespace prefix.
	Namespace string `yaml:"namespace" validate:"omitempty,alphanum"`
}

// Metrics holds the engine's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	flushes       prometheus.Counter
	flushDuration prometheus.Histogram
	mutations     prometheus.Counter
	renders       *prometheus.CounterVec
	hostOps       *prometheus.CounterVec
	recovered     *prometheus.CounterVec
}

// NewMetrics creates collectors registered on a private registry.
// It returns nil when cfg is disabled.
func NewMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return nil
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = "vdom"
	}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		flushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "flushes_total",
			Help:      "Number of scheduler flushes.",
		}),
		flushDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "flush_duration_seconds",
			Help:      "Duration of scheduler flushes.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.004, 0.008, 0.016, 0.033, 0.1},
		}),
		mutations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "state_mutations_total",
			Help:      "Number of queued state mutations applied.",
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "renders_total",
			Help:      "Number of component render passes.",
		}, []string{"component"}),
		hostOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "host_operations_total",
			Help:      "Number of host adapter calls.",
		}, []string{"op"}),
		recovered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "recovered_panics_total",
			Help:      "Number of panics recovered from components.",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(m.flushes, m.flushDuration, m.mutations, m.renders, m.hostOps, m.recovered)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveFlush records one flush.
func (m *Metrics) ObserveFlush(d time.Duration, mutations int) {
	if m == nil {
		return
	}
	m.flushes.Inc()
	m.flushDuration.Observe(d.Seconds())
	m.mutations.Add(float64(mutations))
}

// RecordRender counts one render pass of component.
func (m *Metrics) RecordRender(component string) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(component).Inc()
}

// RecordHostOp counts one host adapter call.
func (m *Metrics) RecordHostOp(op string) {
	if m == nil {
		return
	}
	m.hostOps.WithLabelValues(op).Inc()
}

// RecordRecovered counts a recovered panic of kind.
func (m *Metrics) RecordRecovered(kind string) {
	if m == nil {
		return
	}
	m.recovered.WithLabelValues(kind).Inc()
}
