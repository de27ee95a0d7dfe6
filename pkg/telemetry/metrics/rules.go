package metrics

import (
	"mercator-hq/symbolic/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RuleMetrics tracks rewrite rule activity.
//
// Metrics:
//   - symbolic_engine_rewrites_total: Rewrites performed by rule
//   - symbolic_engine_non_convergent_total: Non-convergent rewrites by rule
//   - symbolic_engine_rules_loaded: Rules in the active rule set
type RuleMetrics struct {
	rewritesTotal      *prometheus.CounterVec
	nonConvergentTotal *prometheus.CounterVec
	rulesLoaded        prometheus.Gauge
}

// NewRuleMetrics creates and registers rule metrics.
func NewRuleMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RuleMetrics {
	rm := &RuleMetrics{
		rewritesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rewrites_total",
				Help:      "Total number of rewrites performed",
			},
			[]string{"rule"},
		),

		nonConvergentTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "non_convergent_total",
				Help:      "Total number of rewrites stopped for exceeding their bound",
			},
			[]string{"rule"},
		),

		rulesLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rules_loaded",
				Help:      "Number of rules in the active rule set",
			},
		),
	}

	registry.MustRegister(rm.rewritesTotal, rm.nonConvergentTotal, rm.rulesLoaded)

	return rm
}

// RecordRewrites adds count rewrites for rule.
func (rm *RuleMetrics) RecordRewrites(rule string, count int) {
	rm.rewritesTotal.WithLabelValues(rule).Add(float64(count))
}

// RecordNonConvergent counts one non-convergent rewrite for rule.
func (rm *RuleMetrics) RecordNonConvergent(rule string) {
	rm.nonConvergentTotal.WithLabelValues(rule).Inc()
}

// SetLoaded sets the active rule count.
func (rm *RuleMetrics) SetLoaded(n int) {
	rm.rulesLoaded.Set(float64(n))
}
