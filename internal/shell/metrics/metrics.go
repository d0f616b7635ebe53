// Package metrics exposes Prometheus metrics for parameter validation.
//
// Metrics:
//   - <ns>_parameters_validated_total: Parameters validated by type and result
//   - <ns>_validation_errors_total: Error messages reported by type
//   - <ns>_validation_duration_seconds: Time to validate a parameter set by source
package metrics

import (
	"net/http"
	"time"

	"github.com/artpar/paramcheck/internal/core/domain"
	"github.com/artpar/paramcheck/internal/core/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultValid   = "valid"
	ResultInvalid = "invalid"

	// unknownType bounds label cardinality for caller-supplied types.
	unknownType = "unknown"
)

// Config holds collector settings.
type Config struct {
	Enabled   bool
	Namespace string
}

// Collector records validation outcomes. A disabled collector is a no-op.
type Collector struct {
	enabled  bool
	registry *prometheus.Registry

	validatedTotal *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	duration       *prometheus.HistogramVec
}

// NewCollector creates a collector and registers its metrics with registry.
// If registry is nil, a new one is created.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "paramcheck"
	}

	c := &Collector{
		enabled:  cfg.Enabled,
		registry: registry,

		validatedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "parameters_validated_total",
				Help:      "Total number of parameters validated",
			},
			[]string{"type", "result"},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "validation_errors_total",
				Help:      "Total number of validation error messages reported",
			},
			[]string{"type"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "validation_duration_seconds",
				Help:      "Duration of parameter set validation in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 10), // 1µs to ~260ms
			},
			[]string{"source"},
		),
	}

	registry.MustRegister(c.validatedTotal, c.errorsTotal, c.duration)
	return c
}

// Enabled reports whether the collector records anything.
func (c *Collector) Enabled() bool {
	return c.enabled
}

// RecordReport records every result of a report validated from source
// (e.g. "api", "cli") in d.
func (c *Collector) RecordReport(source string, report validation.Report, d time.Duration) {
	if !c.enabled {
		return
	}

	for _, res := range report.Results {
		c.RecordResult(res)
	}
	c.duration.WithLabelValues(source).Observe(d.Seconds())
}

// RecordResult records the outcome of a single parameter.
func (c *Collector) RecordResult(res validation.Result) {
	if !c.enabled {
		return
	}

	label := typeLabel(res.Type)
	result := ResultValid
	if !res.Valid() {
		result = ResultInvalid
		c.errorsTotal.WithLabelValues(label).Add(float64(len(res.Errors)))
	}
	c.validatedTotal.WithLabelValues(label, result).Inc()
}

// Handler returns an HTTP handler serving the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

func typeLabel(pt domain.ParameterType) string {
	if pt.IsValid() {
		return string(pt)
	}
	return unknownType
}
