package engine

import (
	"mercator-hq/symbolic/pkg/expr/ast"
	"mercator-hq/symbolic/pkg/expr/function"
)

// Flatten merges nested calls of the same function into their parent where
// the function's associativity allows it, so that (a + b) + c and
// a + (b + c) both become +(a, b, c). Only variadic functions are merged;
// a fixed-arity call keeps its shape.
//
// Flatten works bottom-up in a single pass and is idempotent. It takes
// ownership of its argument: the result may reuse the argument's leaves.
func Flatten(a ast.Ast) ast.Ast {
	call, ok := a.(*ast.Call)
	if !ok {
		return a
	}

	last := len(call.Args) - 1
	args := make([]ast.Ast, 0, len(call.Args))

	for i, arg := range call.Args {
		flat := Flatten(arg)

		if sub, ok := flat.(*ast.Call); ok && sub.Fn == call.Fn && mergeable(call.Fn, i, last) {
			args = append(args, sub.Args...)
			continue
		}
		args = append(args, flat)
	}

	return &ast.Call{Fn: call.Fn, Args: args}
}

// mergeable reports whether a same-function child at position i of a call
// whose last position is last may be spliced into it.
func mergeable(fn *function.Function, i, last int) bool {
	if fn.ArityType != function.ArityDynamic {
		return false
	}
	switch fn.Associativity {
	case function.AssociativeLeft:
		return i == 0
	case function.AssociativeRight:
		return i == last
	case function.AssociativeAll:
		return true
	default:
		return false
	}
}
