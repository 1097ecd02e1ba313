package binding

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus collectors of a Coordinator.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "dynbind").
	Namespace string

	// Subsystem is the metrics subsystem (default: "binding").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collectors.
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

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "dynbind",
		Subsystem: "binding",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors shared by every Coordinator that uses it.
// A nil *Metrics records nothing.
type Metrics struct {
	passes        *prometheus.CounterVec
	rebinds       prometheus.Counter
	assignments   prometheus.Counter
	notifications prometheus.Counter
	errors        *prometheus.CounterVec
}

// NewMetrics creates and registers the binding collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		passes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "passes_total",
			Help:        "Evaluation passes by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		rebinds: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "rebinds_total",
			Help:        "Output rebinds caused by target identity changes",
			ConstLabels: config.ConstLabels,
		}),

		assignments: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "input_assignments_total",
			Help:        "Input properties assigned to targets",
			ConstLabels: config.ConstLabels,
		}),

		notifications: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notifications_total",
			Help:        "Change batches delivered to targets",
			ConstLabels: config.ConstLabels,
		}),

		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "errors_total",
			Help:        "Binding failures by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),
	}
}

func (m *Metrics) pass(outcome Outcome) {
	if m == nil {
		return
	}
	m.passes.WithLabelValues(string(outcome)).Inc()
}

func (m *Metrics) rebind() {
	if m == nil {
		return
	}
	m.rebinds.Inc()
}

func (m *Metrics) assigned() {
	if m == nil {
		return
	}
	m.assignments.Inc()
}

func (m *Metrics) notified() {
	if m == nil {
		return
	}
	m.notifications.Inc()
}

func (m *Metrics) failed(kind string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(kind).Inc()
}
