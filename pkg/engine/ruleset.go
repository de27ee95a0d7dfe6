package engine

import (
	"context"
	"fmt"
	"log/slog"

	"mercator-hq/symbolic/pkg/expr/ast"
)

// Recorder receives engine measurements. The metrics package provides the
// Prometheus implementation.
type Recorder interface {
	RecordRewrite(rule string, count int)
	RecordNonConvergent(rule string)
}

type nopRecorder struct{}

func (nopRecorder) RecordRewrite(string, int)   {}
func (nopRecorder) RecordNonConvergent(string) {}

// RuleSet is an ordered collection of named rules applied together until
// no rule fires. A RuleSet must not be modified while Rewrite is running;
// build a new one and swap it instead.
type RuleSet struct {
	name   string
	rules  []*Rule
	byName map[string]*Rule

	maxRewritesPerNode int
	maxPasses          int

	logger   *slog.Logger
	recorder Recorder
}

// NewRuleSet creates an empty rule set using the default bounds.
func NewRuleSet(name string) *RuleSet {
	cfg := DefaultEngineConfig()
	return &RuleSet{
		name:               name,
		byName:             make(map[string]*Rule),
		maxRewritesPerNode: cfg.MaxRewritesPerNode,
		maxPasses:          cfg.MaxPasses,
		logger:             slog.Default(),
		recorder:           nopRecorder{},
	}
}

// WithConfig applies the bounds from cfg.
func (rs *RuleSet) WithConfig(cfg *EngineConfig) *RuleSet {
	if cfg != nil {
		rs.maxRewritesPerNode = cfg.MaxRewritesPerNode
		rs.maxPasses = cfg.MaxPasses
	}
	return rs
}

// WithLogger sets the logger used for rewrite tracing.
func (rs *RuleSet) WithLogger(logger *slog.Logger) *RuleSet {
	if logger != nil {
		rs.logger = logger
	}
	return rs
}

// WithRecorder sets the metrics recorder.
func (rs *RuleSet) WithRecorder(r Recorder) *RuleSet {
	if r != nil {
		rs.recorder = r
	}
	return rs
}

// Add appends a named rule. Names must be unique within the set.
func (rs *RuleSet) Add(r *Rule) error {
	name := r.Name()
	if name == "" {
		name = fmt.Sprintf("rule_%d", len(rs.rules)+1)
		r = &Rule{name: name, predicate: r.predicate, result: r.result, pivots: r.pivots}
	}
	if _, exists := rs.byName[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRule, name)
	}
	rs.rules = append(rs.rules, r)
	rs.byName[name] = r
	return nil
}

// Name returns the rule set name.
func (rs *RuleSet) Name() string {
	return rs.name
}

// Rules returns the rules in application order.
func (rs *RuleSet) Rules() []*Rule {
	out := make([]*Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Get returns the rule with the given name.
func (rs *RuleSet) Get(name string) (*Rule, bool) {
	r, ok := rs.byName[name]
	return r, ok
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Step records one rule application that changed the tree.
type Step struct {
	Rule     string `json:"rule"`
	Before   string `json:"before"`
	After    string `json:"after"`
	Rewrites int    `json:"rewrites"`
}

// Report describes a completed Rewrite.
type Report struct {
	Passes   int    `json:"passes"`
	Rewrites int    `json:"rewrites"`
	Steps    []Step `json:"steps,omitempty"`
}

// Rewrite applies every rule in order, repeating full passes until one
// makes no change. The input is never modified.
func (rs *RuleSet) Rewrite(ctx context.Context, expr ast.Ast) (ast.Ast, *Report, error) {
	report := &Report{}
	current := expr.Clone()

	for pass := 0; pass < rs.maxPasses; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}
		report.Passes++

		changed := false
		for _, rule := range rs.rules {
			out, n, err := rule.ApplyLimit(current, rs.maxRewritesPerNode)
			if err != nil {
				rs.recorder.RecordNonConvergent(rule.Name())
				rs.logger.WarnContext(ctx, "rule did not converge",
					"rule_set", rs.name,
					"rule", rule.Name(),
					"error", err)
				return nil, report, err
			}
			if n == 0 {
				continue
			}

			rs.recorder.RecordRewrite(rule.Name(), n)
			rs.logger.DebugContext(ctx, "rule applied",
				"rule_set", rs.name,
				"rule", rule.Name(),
				"before", current.String(),
				"after", out.String(),
				"rewrites", n)

			report.Steps = append(report.Steps, Step{
				Rule:     rule.Name(),
				Before:   current.String(),
				After:    out.String(),
				Rewrites: n,
			})
			report.Rewrites += n
			current = out
			changed = true
		}

		if !changed {
			return current, report, nil
		}
	}

	rs.recorder.RecordNonConvergent("*")
	return nil, report, &NonConvergentError{Node: current.String(), Limit: rs.maxPasses}
}
