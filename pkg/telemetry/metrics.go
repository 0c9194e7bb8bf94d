package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for CloudConnect.
type Metrics struct {
	config MetricsConfig

	// Operation metrics
	operations        *prometheus.CounterVec
	operationErrors   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec

	// Resource metrics
	resourcesByState *prometheus.GaugeVec

	// Activity log metrics
	recordFailures prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given
// configuration. With metrics disabled a no-op instance is returned.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of lifecycle operations",
			},
			[]string{"type", "operation", "status"},
		),
		operationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operation_errors_total",
				Help:      "Total number of failed lifecycle operations by error code",
			},
			[]string{"code"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Duration of lifecycle operations in seconds",
				Buckets:   buckets,
			},
			[]string{"operation"},
		),
		resourcesByState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "resources",
				Help:      "Current number of resources by type and state",
			},
			[]string{"type", "state"},
		),
		recordFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "activity_record_failures_total",
				Help:      "Total number of activity log write failures",
			},
		),
	}

	registry.MustRegister(
		m.operations,
		m.operationErrors,
		m.operationDuration,
		m.resourcesByState,
		m.recordFailures,
	)

	return m, nil
}

// RecordOperation records a lifecycle operation with its outcome and
// duration.
func (m *Metrics) RecordOperation(typeName, operation, status string, duration time.Duration) {
	if m.operations == nil {
		return
	}
	m.operations.WithLabelValues(typeName, operation, status).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordOperationError records a failed operation by error code.
func (m *Metrics) RecordOperationError(code string) {
	if m.operationErrors == nil {
		return
	}
	m.operationErrors.WithLabelValues(code).Inc()
}

// SetResourceCount sets the current count of resources in a given type
// and state.
func (m *Metrics) SetResourceCount(typeName, state string, count float64) {
	if m.resourcesByState == nil {
		return
	}
	m.resourcesByState.WithLabelValues(typeName, state).Set(count)
}

// RecordActivityFailure counts an activity log write failure.
func (m *Metrics) RecordActivityFailure() {
	if m.recordFailures == nil {
		return
	}
	m.recordFailures.Inc()
}

// Handler returns an HTTP handler exposing the metrics, or nil when
// metrics are disabled.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return nil
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying Prometheus registry, or nil when
// metrics are disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
