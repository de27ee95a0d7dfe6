package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"mercator-hq/symbolic/pkg/expr/ast"
	"mercator-hq/symbolic/pkg/expr/parser"
)

// Evaluate parses text and returns its canonical tree. Parse failures are
// returned as *errors.Error values carrying the offending column.
func Evaluate(text string) (ast.Ast, error) {
	tree, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}
	return Flatten(tree), nil
}

// EvaluateExpr canonicalizes an existing tree.
func EvaluateExpr(a ast.Ast) ast.Ast {
	return Flatten(a.Clone())
}

// Operation names used for metrics and history.
const (
	OperationEvaluate = "evaluate"
	OperationRewrite  = "rewrite"
)

// EvaluationRecorder receives per-request measurements.
type EvaluationRecorder interface {
	RecordEvaluation(operation, status string, duration time.Duration)
}

// Outcome is the result of Engine.Rewrite.
type Outcome struct {
	Input  ast.Ast
	Output ast.Ast
	Report *Report
}

// Engine ties the parser, canonicalizer and the active rule set together.
// The rule set can be replaced at any time; in-flight rewrites keep the set
// they started with.
type Engine struct {
	config *EngineConfig
	parser *parser.Parser

	rules   *RuleSet
	rulesMu sync.RWMutex

	logger   *slog.Logger
	recorder EvaluationRecorder
}

// NewEngine creates an engine. A nil config selects the defaults and a nil
// logger selects slog.Default().
func NewEngine(config *EngineConfig, logger *slog.Logger) (*Engine, error) {
	if config == nil {
		config = DefaultEngineConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		config: config,
		parser: parser.NewParser().WithMaxLength(config.MaxExpressionLength),
		rules:  NewRuleSet("empty").WithConfig(config).WithLogger(logger),
		logger: logger,
	}, nil
}

// WithRecorder sets the per-request metrics recorder.
func (e *Engine) WithRecorder(r EvaluationRecorder) *Engine {
	e.recorder = r
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() *EngineConfig {
	return e.config
}

// SetRules replaces the active rule set. The set must be fully built; it
// is not modified afterwards.
func (e *Engine) SetRules(rs *RuleSet) {
	if rs == nil {
		rs = NewRuleSet("empty").WithConfig(e.config)
	}

	e.rulesMu.Lock()
	e.rules = rs
	e.rulesMu.Unlock()

	e.logger.Info("rule set loaded", "rule_set", rs.Name(), "rules", rs.Len())
}

// Rules returns the active rule set.
func (e *Engine) Rules() *RuleSet {
	e.rulesMu.RLock()
	defer e.rulesMu.RUnlock()
	return e.rules
}

// Evaluate parses and canonicalizes text.
func (e *Engine) Evaluate(ctx context.Context, text string) (ast.Ast, error) {
	start := time.Now()

	tree, err := e.parse(text)
	e.observe(OperationEvaluate, err, time.Since(start))
	if err != nil {
		e.logger.DebugContext(ctx, "evaluation failed", "input", text, "error", err)
		return nil, err
	}
	return tree, nil
}

// Rewrite canonicalizes text and applies the active rule set to it.
func (e *Engine) Rewrite(ctx context.Context, text string) (*Outcome, error) {
	start := time.Now()

	outcome, err := e.rewrite(ctx, text)
	e.observe(OperationRewrite, err, time.Since(start))
	if err != nil {
		e.logger.DebugContext(ctx, "rewrite failed", "input", text, "error", err)
		return nil, err
	}
	return outcome, nil
}

func (e *Engine) rewrite(ctx context.Context, text string) (*Outcome, error) {
	tree, err := e.parse(text)
	if err != nil {
		return nil, err
	}

	out, report, err := e.Rules().Rewrite(ctx, tree)
	if err != nil {
		return nil, err
	}
	return &Outcome{Input: tree, Output: out, Report: report}, nil
}

func (e *Engine) parse(text string) (ast.Ast, error) {
	tree, err := e.parser.Parse(text)
	if err != nil {
		return nil, err
	}
	return Flatten(tree), nil
}

func (e *Engine) observe(operation string, err error, d time.Duration) {
	if e.recorder == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	e.recorder.RecordEvaluation(operation, status, d)
}
