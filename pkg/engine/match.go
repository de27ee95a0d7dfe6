package engine

import (
	"sort"

	"mercator-hq/symbolic/pkg/expr/ast"
	"mercator-hq/symbolic/pkg/expr/function"
)

// Bindings maps tag ids to the nodes they captured. Bound nodes are copies
// and never alias the matched tree.
type Bindings map[int]ast.Ast

// Match reports whether p matches a, returning the captured bindings.
func Match(p Predicate, a ast.Ast) (Bindings, bool) {
	m := newMatcher(nil)
	if !m.match(p, a, accept) {
		return nil, false
	}
	return m.bindings, true
}

func accept() bool { return true }

// matcher holds the state of a single match attempt.
type matcher struct {
	bindings Bindings
	pivots   map[*CallPattern][]int
}

func newMatcher(pivots map[*CallPattern][]int) *matcher {
	return &matcher{
		bindings: make(Bindings),
		pivots:   pivots,
	}
}

// match tests p against a and, for every way p can match, asks k whether
// the rest of the search succeeds. It returns true as soon as k does and
// leaves those bindings in place. On false the bindings are unchanged.
//
// Passing the continuation down lets a conflict found by a later sibling
// resume the search inside an earlier, nested commutative call instead of
// only moving that call to another argument.
func (m *matcher) match(p Predicate, a ast.Ast, k func() bool) bool {
	switch p := p.(type) {
	case *AnyPattern:
		return k()

	case *LiteralPattern:
		lit, ok := a.(*ast.Literal)
		if !ok || (p.Value != nil && !ast.FloatEqual(*p.Value, lit.Value)) {
			return false
		}
		return k()

	case *VariablePattern:
		if _, ok := a.(*ast.Variable); !ok {
			return false
		}
		return k()

	case *TagPattern:
		return m.match(p.Pattern, a, func() bool {
			return m.bind(p.ID, a, k)
		})

	case *CallPattern:
		call, ok := a.(*ast.Call)
		if !ok || call.Fn != p.Fn || len(call.Args) != len(p.Args) {
			return false
		}
		return m.matchArgs(p, call.Args, k)

	default:
		return false
	}
}

// bind records a under id, or checks it against an earlier capture, then
// continues with k. A fresh binding is removed again if k fails.
func (m *matcher) bind(id int, a ast.Ast, k func() bool) bool {
	if bound, ok := m.bindings[id]; ok {
		return ast.Equal(bound, a) && k()
	}
	m.bindings[id] = a.Clone()
	if k() {
		return true
	}
	delete(m.bindings, id)
	return false
}

// matchArgs pairs pattern arguments with call arguments according to the
// function's commutativity.
func (m *matcher) matchArgs(p *CallPattern, args []ast.Ast, k func() bool) bool {
	switch p.Fn.Commutativity {
	case function.CommutativeAll:
		return m.matchUnordered(p, args, 0, k)

	case function.CommutativeTail:
		return m.match(p.Args[0], args[0], func() bool {
			return m.matchUnordered(p, args, 1, k)
		})

	default:
		return m.matchInOrder(p.Args, args, 0, k)
	}
}

// matchInOrder pairs preds[i:] with args[i:] position by position.
func (m *matcher) matchInOrder(preds []Predicate, args []ast.Ast, i int, k func() bool) bool {
	if i == len(preds) {
		return k()
	}
	return m.match(preds[i], args[i], func() bool {
		return m.matchInOrder(preds, args, i+1, k)
	})
}

// matchUnordered pairs p.Args[from:] with args[from:] in any order.
func (m *matcher) matchUnordered(p *CallPattern, args []ast.Ast, from int, k func() bool) bool {
	var order []int
	for _, slot := range m.pivotOrder(p) {
		if slot >= from {
			order = append(order, slot-from)
		}
	}

	preds := p.Args[from:]
	nodes := args[from:]
	_, ok := assign(order, len(nodes), func(slot, candidate int, next func() bool) bool {
		return m.match(preds[slot], nodes[candidate], next)
	}, k)
	return ok
}

// pivotOrder returns the argument indices of p, most selective first.
func (m *matcher) pivotOrder(p *CallPattern) []int {
	if order, ok := m.pivots[p]; ok {
		return order
	}
	return pivotOrder(p)
}

// pivotOrder ranks the arguments of p by selectivity. Ties keep their
// original order.
func pivotOrder(p *CallPattern) []int {
	order := make([]int, len(p.Args))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return selectivity(p.Args[order[i]]) < selectivity(p.Args[order[j]])
	})
	return order
}

// computePivots precomputes pivot orders for every call pattern in p.
func computePivots(p Predicate, into map[*CallPattern][]int) {
	switch p := p.(type) {
	case *TagPattern:
		computePivots(p.Pattern, into)
	case *CallPattern:
		into[p] = pivotOrder(p)
		for _, arg := range p.Args {
			computePivots(arg, into)
		}
	}
}
