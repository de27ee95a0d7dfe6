package engine

import (
	"fmt"
	"sort"
	"strings"

	"mercator-hq/symbolic/pkg/expr/ast"
)

// DefaultMaxRewritesPerNode bounds how many times a rule may fire at one
// node before Apply gives up.
const DefaultMaxRewritesPerNode = 64

// Rule pairs a predicate with the result that replaces what it matches.
// Rules are immutable once constructed and safe for concurrent use.
type Rule struct {
	name      string
	predicate Predicate
	result    Result
	pivots    map[*CallPattern][]int
}

// NewRule validates and constructs a rule. It fails when either side is
// malformed or when the result references a tag the predicate never binds.
func NewRule(p Predicate, r Result) (*Rule, error) {
	return NewNamedRule("", p, r)
}

// NewNamedRule is NewRule with a name used in errors and logs.
func NewNamedRule(name string, p Predicate, r Result) (*Rule, error) {
	if err := validatePredicate(p); err != nil {
		return nil, &RuleError{Rule: name, Message: err.Error(), Cause: ErrInvalidRule}
	}
	if err := validateResult(r); err != nil {
		return nil, &RuleError{Rule: name, Message: err.Error(), Cause: ErrInvalidRule}
	}

	bound := make(map[int]struct{})
	collectTags(p, bound)
	refs := make(map[int]struct{})
	collectRefs(r, refs)

	var dangling []int
	for id := range refs {
		if _, ok := bound[id]; !ok {
			dangling = append(dangling, id)
		}
	}
	if len(dangling) > 0 {
		sort.Ints(dangling)
		ids := make([]string, len(dangling))
		for i, id := range dangling {
			ids[i] = fmt.Sprintf("%d", id)
		}
		return nil, &RuleError{
			Rule:    name,
			Message: fmt.Sprintf("result references tag(s) %s not bound by the predicate", strings.Join(ids, ", ")),
			Cause:   ErrDanglingTag,
		}
	}

	pivots := make(map[*CallPattern][]int)
	computePivots(p, pivots)

	return &Rule{
		name:      name,
		predicate: p,
		result:    r,
		pivots:    pivots,
	}, nil
}

// Name returns the rule name, which may be empty.
func (r *Rule) Name() string {
	return r.name
}

// Predicate returns the rule's predicate.
func (r *Rule) Predicate() Predicate {
	return r.predicate
}

// Result returns the rule's result template.
func (r *Rule) Result() Result {
	return r.result
}

// String renders the rule as "predicate => result".
func (r *Rule) String() string {
	return fmt.Sprintf("%s => %s", r.predicate, r.result)
}

// Match tests the rule's predicate against a using the precomputed pivot
// orders.
func (r *Rule) Match(a ast.Ast) (Bindings, bool) {
	m := newMatcher(r.pivots)
	if !m.match(r.predicate, a, accept) {
		return nil, false
	}
	return m.bindings, true
}

// Rewrite replaces a with the rule's result if the predicate matches it at
// the root.
func (r *Rule) Rewrite(a ast.Ast) (ast.Ast, bool, error) {
	b, ok := r.Match(a)
	if !ok {
		return a, false, nil
	}
	out, err := Build(r.result, b)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// Apply rewrites every node of expr in post-order, left to right, with
// DefaultMaxRewritesPerNode as the bound. It returns the rewritten tree and
// the number of rewrites performed. The input is never modified.
func (r *Rule) Apply(expr ast.Ast) (ast.Ast, int, error) {
	return r.ApplyLimit(expr, DefaultMaxRewritesPerNode)
}

// ApplyLimit is Apply with an explicit per-node bound. After a rewrite the
// rule is tried again at the replacement; firing more than limit times at
// one node returns a *NonConvergentError.
func (r *Rule) ApplyLimit(expr ast.Ast, limit int) (ast.Ast, int, error) {
	if limit <= 0 {
		limit = DefaultMaxRewritesPerNode
	}
	out, n, err := r.apply(expr.Clone(), limit)
	if err != nil {
		return nil, n, err
	}
	return out, n, nil
}

func (r *Rule) apply(a ast.Ast, limit int) (ast.Ast, int, error) {
	count := 0

	if call, ok := a.(*ast.Call); ok {
		args := make([]ast.Ast, len(call.Args))
		for i, arg := range call.Args {
			out, n, err := r.apply(arg, limit)
			if err != nil {
				return nil, count + n, err
			}
			args[i] = out
			count += n
		}
		a = &ast.Call{Fn: call.Fn, Args: args}
		if count > 0 {
			a = Flatten(a)
		}
	}

	for fired := 0; ; fired++ {
		b, ok := r.Match(a)
		if !ok {
			return a, count, nil
		}
		if fired == limit {
			return nil, count, &NonConvergentError{Rule: r.name, Node: a.String(), Limit: limit}
		}

		out, err := Build(r.result, b)
		if err != nil {
			return nil, count, err
		}
		a = out
		count++
	}
}
