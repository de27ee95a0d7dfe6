package metrics

import (
	"time"

	"mercator-hq/symbolic/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// EvaluationMetrics tracks evaluate and rewrite requests.
//
// Metrics:
//   - symbolic_engine_evaluations_total: Requests by status
//   - symbolic_engine_evaluation_duration_seconds: Request duration by operation
type EvaluationMetrics struct {
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration *prometheus.HistogramVec
}

// NewEvaluationMetrics creates and registers evaluation metrics.
func NewEvaluationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *EvaluationMetrics {
	em := &EvaluationMetrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluations_total",
				Help:      "Total number of expression evaluations",
			},
			[]string{"status"},
		),

		evaluationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of expression evaluation in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 12), // 1µs to ~4s
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(em.evaluationsTotal, em.evaluationDuration)

	return em
}

// Record records one request.
func (em *EvaluationMetrics) Record(operation, status string, duration time.Duration) {
	em.evaluationsTotal.WithLabelValues(status).Inc()
	em.evaluationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
