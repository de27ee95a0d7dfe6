// Package engine implements canonicalization and rule-based rewriting of
// expression trees.
//
// # Canonicalization
//
// Flatten merges nested calls of the same associative function into one
// call, so equivalent groupings share a single representation:
//
//	(1 + 2) + 3   ->  +(1, 2, 3)
//	a - b - c     ->  -(a, b, c)    left-associative: first position only
//	2**3**4       ->  **(2, 3, 4)   right-associative: last position only
//
// Evaluate parses text and flattens the result.
//
// # Rules
//
// A Rule pairs a Predicate with a Result. Predicates match trees:
//
//	Any()                 any node
//	AnyLiteral(), Value(v) literals
//	AnyVariable()         variables
//	Tag(id, p)            p, capturing the node as id
//	CallOf(fn, args...)   calls to fn
//
// Arguments of a commutative function are paired with argument predicates
// in any order; the first argument of a tail-commutative function stays in
// place. Reusing a tag id requires the captured subtrees to be equal.
//
// Results build the replacement: Ref(id) copies a capture, Constant(tree)
// copies a fixed tree and Template(fn, args...) builds a call, which is
// flattened on construction.
//
// NewRule rejects results referencing tags the predicate never binds.
//
// # Applying rules
//
// Rule.Apply rewrites a tree in post-order, retrying at each replacement
// until the rule stops matching. A rule that keeps matching its own output
// fails with ErrNonConvergent once it exceeds the per-node bound. RuleSet
// applies several rules in passes until a pass changes nothing.
package engine
