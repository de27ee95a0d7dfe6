// Package ast defines the expression tree produced by the parser and
// consumed by the canonicalizer and rewrite engine.
//
// A tree is made of three node types:
//
//	*Literal   numeric constant (float64)
//	*Variable  opaque named symbol
//	*Call      catalog function applied to arguments
//
// Trees are plain values. Nothing is shared implicitly: Clone is the only way
// a subtree is duplicated, and callers that need to keep a tree while handing
// it to a mutating operation clone it first.
//
// # Equality
//
// Equal compares structure. Calls must refer to the same *function.Function
// (pointer identity) and have pairwise-equal arguments in order. Literals are
// equal when they differ by at most Epsilon relative to the larger magnitude.
//
// # Rendering
//
// String produces the canonical text of a tree. A child call is wrapped in
// parentheses when it binds no tighter than its parent, so the output parses
// back to an equal tree:
//
//	1 + 2*3
//	(1 + 2)*3
//	min(a + b, 2)
package ast
