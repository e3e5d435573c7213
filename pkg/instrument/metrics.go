package instrument

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/safecontext/pkg/safecontext"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "safecontext").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "safecontext",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a safecontext.Observer recording Prometheus metrics.
// It is safe for concurrent use.
type Metrics struct {
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	resolutions    *prometheus.CounterVec
	missing        *prometheus.CounterVec
	memoDecisions  *prometheus.CounterVec
}

var _ safecontext.Observer = (*Metrics)(nil)

// NewMetrics creates the collectors and registers them with the configured
// registry. Registering twice with the same registry panics, like promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of wrapped component renders",
			ConstLabels: config.ConstLabels,
		}, []string{"component"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Wrapped component render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"component"}),

		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resolutions_total",
			Help:        "Total number of complete context map resolutions",
			ConstLabels: config.ConstLabels,
		}, []string{"component"}),

		missing: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "missing_contexts_total",
			Help:        "Total number of consumers rendered without a provider",
			ConstLabels: config.ConstLabels,
		}, []string{"context"}),

		memoDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "memo_decisions_total",
			Help:        "Total number of memoized renders by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "outcome"}),
	}
}

// RenderStarted times the render and counts it when it finishes.
func (m *Metrics) RenderStarted(component string) func() {
	start := time.Now()
	return func() {
		m.renderDuration.WithLabelValues(component).Observe(time.Since(start).Seconds())
		m.renders.WithLabelValues(component).Inc()
	}
}

// ContextsResolved counts a complete resolution.
func (m *Metrics) ContextsResolved(component string, _ []string) {
	m.resolutions.WithLabelValues(component).Inc()
}

// ContextMissing counts a consumer without a provider.
func (m *Metrics) ContextMissing(context string) {
	m.missing.WithLabelValues(context).Inc()
}

// MemoEvaluated counts a memoized render by outcome.
func (m *Metrics) MemoEvaluated(component string, decision safecontext.MemoDecision) {
	m.memoDecisions.WithLabelValues(component, decision.String()).Inc()
}
