package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/observer/pkg/subject"
)

// MetricsConfig configures the Prometheus recorder.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "observer").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for notify duration.
	// Default: fine-grained buckets from 1µs to 100ms.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus recorder.
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
		Namespace: "observer",
		Buckets:   []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 5e-3, 1e-2, 1e-1},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records engine activity as Prometheus metrics.
type Metrics struct {
	notifications *prometheus.CounterVec
	deliveries    *prometheus.CounterVec
	restarts      *prometheus.CounterVec
	dropped       *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	observers     *prometheus.GaugeVec
	problems      *prometheus.CounterVec
}

var _ subject.Recorder = (*Metrics)(nil)

// NewMetrics registers the engine metrics and returns a recorder that
// updates them. Registering twice on the same registry panics, as with
// any Prometheus collector.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notifications_total",
			Help:        "Total number of subject notifications",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		deliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "deliveries_total",
			Help:        "Total number of observer callback invocations",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		restarts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notify_restarts_total",
			Help:        "Total number of notification walks restarted after an observer was removed",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		dropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notify_dropped_total",
			Help:        "Total number of nested notifications refused by the depth guard",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notify_duration_seconds",
			Help:        "Time spent delivering one notification in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"kind"}),

		observers: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "observers",
			Help:        "Number of attached observers",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		problems: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "problems_total",
			Help:        "Total number of reported misuses by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),
	}
}

// ObserverAdded implements subject.Recorder.
func (m *Metrics) ObserverAdded(k subject.Kind) {
	m.observers.WithLabelValues(k.String()).Inc()
}

// ObserverRemoved implements subject.Recorder.
func (m *Metrics) ObserverRemoved(k subject.Kind) {
	m.observers.WithLabelValues(k.String()).Dec()
}

// NotifyStart implements subject.Recorder.
func (m *Metrics) NotifyStart(s *subject.Subject) func(subject.NotifyStats) {
	kind := s.Kind().String()
	return func(stats subject.NotifyStats) {
		if stats.Dropped {
			m.dropped.WithLabelValues(kind).Inc()
			return
		}
		m.notifications.WithLabelValues(kind).Inc()
		m.deliveries.WithLabelValues(kind).Add(float64(stats.Delivered))
		m.restarts.WithLabelValues(kind).Add(float64(stats.Restarts))
		m.duration.WithLabelValues(kind).Observe(stats.Duration.Seconds())
	}
}

// Problem implements subject.Recorder.
func (m *Metrics) Problem(code string, _ error) {
	m.problems.WithLabelValues(code).Inc()
}
