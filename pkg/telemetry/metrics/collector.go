package metrics

import (
	"sync"
	"time"

	"mercator-hq/symbolic/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// otherRule is the label used once the rule cardinality limit is reached.
const otherRule = "other"

// Collector owns every Prometheus metric of the service. It implements the
// engine's Recorder and EvaluationRecorder interfaces so it can be handed
// straight to an Engine and its RuleSets.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	evaluationMetrics *EvaluationMetrics
	ruleMetrics       *RuleMetrics

	// Rule names come from user-supplied files
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a collector registering into registry. A nil
// registry creates a fresh one.
//
// Example:
//
//	cfg := &config.MetricsConfig{Enabled: true, Namespace: "symbolic", Subsystem: "engine"}
//	collector := metrics.NewCollector(cfg, nil)
//	eng.WithRecorder(collector)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}

	return &Collector{
		config:             cfg,
		registry:           registry,
		evaluationMetrics:  NewEvaluationMetrics(cfg, registry),
		ruleMetrics:        NewRuleMetrics(cfg, registry),
		cardinalityLimiter: NewCardinalityLimiter(1000),
	}
}

// RecordEvaluation records one evaluate or rewrite request.
//
// Parameters:
//   - operation: "evaluate" or "rewrite"
//   - status: "success" or "error"
//   - duration: Time from receiving the text to producing the result
func (c *Collector) RecordEvaluation(operation, status string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.evaluationMetrics.Record(operation, status, duration)
}

// RecordRewrite records that rule fired count times during one pass.
func (c *Collector) RecordRewrite(rule string, count int) {
	if !c.config.Enabled || count <= 0 {
		return
	}
	c.ruleMetrics.RecordRewrites(c.ruleLabel(rule), count)
}

// RecordNonConvergent records that rule, or "*" for a whole rule set,
// exceeded its rewrite bound.
func (c *Collector) RecordNonConvergent(rule string) {
	if !c.config.Enabled {
		return
	}
	c.ruleMetrics.RecordNonConvergent(c.ruleLabel(rule))
}

// SetRulesLoaded sets the number of rules in the active rule set.
func (c *Collector) SetRulesLoaded(n int) {
	if !c.config.Enabled {
		return
	}
	c.ruleMetrics.SetLoaded(n)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) ruleLabel(rule string) string {
	if !c.cardinalityLimiter.Allow(rule) {
		return otherRule
	}
	return rule
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label set is allowed. Returns true if the label set
// already exists or if we haven't reached the cardinality limit yet.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
