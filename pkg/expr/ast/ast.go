package ast

import (
	"fmt"
	"math"

	"mercator-hq/symbolic/pkg/expr/function"
)

// Epsilon is the relative tolerance used when comparing literal values.
const Epsilon = 1e-10

// Ast is a node of an expression tree. The set of node types is closed:
// *Literal, *Variable and *Call.
type Ast interface {
	fmt.Stringer

	// Clone returns a deep copy sharing no mutable state with the receiver.
	Clone() Ast

	isAst()
}

// Literal is a numeric constant.
type Literal struct {
	Value float64
}

// Variable is an opaque named symbol. Variables are never evaluated.
type Variable struct {
	Name string
}

// Call applies a catalog function to its arguments. len(Args) always
// satisfies Fn.Accepts.
type Call struct {
	Fn   *function.Function
	Args []Ast
}

func (*Literal) isAst()  {}
func (*Variable) isAst() {}
func (*Call) isAst()     {}

// NewLiteral returns a literal node.
func NewLiteral(v float64) *Literal {
	return &Literal{Value: v}
}

// NewVariable returns a variable node.
func NewVariable(name string) *Variable {
	return &Variable{Name: name}
}

// NewCall returns a call node after checking that fn accepts the number of
// arguments given.
func NewCall(fn *function.Function, args ...Ast) (*Call, error) {
	if fn == nil {
		return nil, fmt.Errorf("call has no function")
	}
	if !fn.Accepts(len(args)) {
		return nil, fmt.Errorf("function %s does not accept %d arguments", fn, len(args))
	}
	return &Call{Fn: fn, Args: args}, nil
}

// MustCall is like NewCall but panics on an arity mismatch. It is meant for
// trees assembled from constants.
func MustCall(fn *function.Function, args ...Ast) *Call {
	c, err := NewCall(fn, args...)
	if err != nil {
		panic(err)
	}
	return c
}

// Clone returns a copy of the literal.
func (l *Literal) Clone() Ast {
	return &Literal{Value: l.Value}
}

// Clone returns a copy of the variable.
func (v *Variable) Clone() Ast {
	return &Variable{Name: v.Name}
}

// Clone returns a deep copy of the call and all of its arguments.
func (c *Call) Clone() Ast {
	args := make([]Ast, len(c.Args))
	for i, arg := range c.Args {
		args[i] = arg.Clone()
	}
	return &Call{Fn: c.Fn, Args: args}
}

// Equal reports whether two trees are structurally equal. Literals compare
// within a relative tolerance of Epsilon; calls require the same function
// and pairwise-equal arguments in order.
func Equal(a, b Ast) bool {
	switch x := a.(type) {
	case *Literal:
		y, ok := b.(*Literal)
		return ok && FloatEqual(x.Value, y.Value)
	case *Variable:
		y, ok := b.(*Variable)
		return ok && x.Name == y.Name
	case *Call:
		y, ok := b.(*Call)
		if !ok || x.Fn != y.Fn || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// FloatEqual reports whether a and b differ by at most Epsilon relative to
// the larger magnitude.
func FloatEqual(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= Epsilon*math.Max(math.Abs(a), math.Abs(b))
}

// Precedence returns the binding strength of a node. Leaves are atomic.
func Precedence(a Ast) function.Precedence {
	if c, ok := a.(*Call); ok {
		return c.Fn.Precedence
	}
	return function.PrecedenceAtomic
}

// Walk visits every node of the tree in pre-order. Returning false from
// visit skips the node's children.
func Walk(a Ast, visit func(Ast) bool) {
	if !visit(a) {
		return
	}
	if c, ok := a.(*Call); ok {
		for _, arg := range c.Args {
			Walk(arg, visit)
		}
	}
}

// Size returns the number of nodes in the tree.
func Size(a Ast) int {
	n := 0
	Walk(a, func(Ast) bool {
		n++
		return true
	})
	return n
}
