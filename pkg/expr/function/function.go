package function

import "fmt"

// Syntax describes how a function is written in expression text.
type Syntax uint8

const (
	// SyntaxRoutine is the call form: name(a, b).
	SyntaxRoutine Syntax = iota
	// SyntaxInfix is the operator form: a op b, or op a when unary.
	SyntaxInfix
)

// String returns the lowercase name of the syntax.
func (s Syntax) String() string {
	switch s {
	case SyntaxRoutine:
		return "routine"
	case SyntaxInfix:
		return "infix"
	default:
		return fmt.Sprintf("syntax(%d)", uint8(s))
	}
}

// Commutativity describes which argument positions may be reordered.
type Commutativity uint8

const (
	// CommutativeNone keeps every argument in position.
	CommutativeNone Commutativity = iota
	// CommutativeTail pins the first argument; the rest may be permuted.
	CommutativeTail
	// CommutativeAll allows any permutation.
	CommutativeAll
)

// String returns the lowercase name of the commutativity.
func (c Commutativity) String() string {
	switch c {
	case CommutativeNone:
		return "none"
	case CommutativeTail:
		return "tail"
	case CommutativeAll:
		return "all"
	default:
		return fmt.Sprintf("commutativity(%d)", uint8(c))
	}
}

// Associativity describes which nested same-function calls may be merged
// into their parent.
type Associativity uint8

const (
	// AssociativeNone never merges.
	AssociativeNone Associativity = iota
	// AssociativeLeft merges a nested call in the first position.
	AssociativeLeft
	// AssociativeRight merges a nested call in the last position.
	AssociativeRight
	// AssociativeAll merges a nested call in any position.
	AssociativeAll
)

// String returns the lowercase name of the associativity.
func (a Associativity) String() string {
	switch a {
	case AssociativeNone:
		return "none"
	case AssociativeLeft:
		return "left"
	case AssociativeRight:
		return "right"
	case AssociativeAll:
		return "all"
	default:
		return fmt.Sprintf("associativity(%d)", uint8(a))
	}
}

// ArityType tells whether the declared arity is exact or a minimum.
type ArityType uint8

const (
	// ArityStatic requires exactly the declared number of arguments.
	ArityStatic ArityType = iota
	// ArityDynamic requires at least the declared number of arguments.
	ArityDynamic
)

// String returns the lowercase name of the arity type.
func (a ArityType) String() string {
	switch a {
	case ArityStatic:
		return "static"
	case ArityDynamic:
		return "dynamic"
	default:
		return fmt.Sprintf("arity(%d)", uint8(a))
	}
}

// Precedence orders binding strength. Larger values bind tighter, so
// Lowest is the loosest level and Atomic the tightest.
type Precedence uint8

const (
	PrecedenceLowest   Precedence = iota // ||
	PrecedenceLogical                    // && ^^
	PrecedenceCompare                    // == != < <= > >=
	PrecedenceAdditive                   // + -
	PrecedenceProduct                    // * / %
	PrecedenceAtomic                     // unary, **, routines, leaves
)

// Level returns the level number used in documentation, where L1 is the
// tightest and L6 the loosest.
func (p Precedence) Level() int {
	return int(PrecedenceAtomic-p) + 1
}

// String returns the level in "L<n>" form.
func (p Precedence) String() string {
	return fmt.Sprintf("L%d", p.Level())
}

// Function describes one entry of the catalog. Entries are immutable and
// compared by pointer identity.
type Function struct {
	Identifier    string
	Syntax        Syntax
	Commutativity Commutativity
	Associativity Associativity
	ArityType     ArityType
	Arity         int
	Precedence    Precedence
}

// Accepts reports whether the function can be called with n arguments.
func (f *Function) Accepts(n int) bool {
	if f.ArityType == ArityStatic {
		return n == f.Arity
	}
	return n >= f.Arity
}

// IsUnary reports whether the function is an operator taking one operand.
func (f *Function) IsUnary() bool {
	return f.Syntax == SyntaxInfix && f.ArityType == ArityStatic && f.Arity == 1
}

// String returns a short description such as "+/2+" or "sqrt/1".
func (f *Function) String() string {
	if f.ArityType == ArityDynamic {
		return fmt.Sprintf("%s/%d+", f.Identifier, f.Arity)
	}
	return fmt.Sprintf("%s/%d", f.Identifier, f.Arity)
}
