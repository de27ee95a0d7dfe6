package function

import "sort"

func infix(id string, prec Precedence, comm Commutativity, assoc Associativity) *Function {
	return &Function{
		Identifier:    id,
		Syntax:        SyntaxInfix,
		Commutativity: comm,
		Associativity: assoc,
		ArityType:     ArityDynamic,
		Arity:         2,
		Precedence:    prec,
	}
}

func unary(id string) *Function {
	return &Function{
		Identifier:    id,
		Syntax:        SyntaxInfix,
		Commutativity: CommutativeAll,
		Associativity: AssociativeRight,
		ArityType:     ArityStatic,
		Arity:         1,
		Precedence:    PrecedenceAtomic,
	}
}

func routine(id string, comm Commutativity, assoc Associativity, arityType ArityType, arity int) *Function {
	return &Function{
		Identifier:    id,
		Syntax:        SyntaxRoutine,
		Commutativity: comm,
		Associativity: assoc,
		ArityType:     arityType,
		Arity:         arity,
		Precedence:    PrecedenceAtomic,
	}
}

// Arithmetic.
var (
	Negate   = unary("-")
	Power    = infix("**", PrecedenceAtomic, CommutativeNone, AssociativeRight)
	Multiply = infix("*", PrecedenceProduct, CommutativeAll, AssociativeAll)
	Divide   = infix("/", PrecedenceProduct, CommutativeTail, AssociativeLeft)
	Modulo   = infix("%", PrecedenceProduct, CommutativeNone, AssociativeLeft)
	Add      = infix("+", PrecedenceAdditive, CommutativeAll, AssociativeAll)
	Subtract = infix("-", PrecedenceAdditive, CommutativeTail, AssociativeLeft)
)

// Comparison.
var (
	Equal        = infix("==", PrecedenceCompare, CommutativeAll, AssociativeNone)
	NotEqual     = infix("!=", PrecedenceCompare, CommutativeAll, AssociativeNone)
	Less         = infix("<", PrecedenceCompare, CommutativeNone, AssociativeNone)
	LessEqual    = infix("<=", PrecedenceCompare, CommutativeNone, AssociativeNone)
	Greater      = infix(">", PrecedenceCompare, CommutativeNone, AssociativeNone)
	GreaterEqual = infix(">=", PrecedenceCompare, CommutativeNone, AssociativeNone)
)

// Logic.
var (
	Not = unary("!")
	And = infix("&&", PrecedenceLogical, CommutativeAll, AssociativeLeft)
	Xor = infix("^^", PrecedenceLogical, CommutativeAll, AssociativeLeft)
	Or  = infix("||", PrecedenceLowest, CommutativeAll, AssociativeLeft)
)

// Routines.
var (
	Sqrt = routine("sqrt", CommutativeAll, AssociativeNone, ArityStatic, 1)
	Abs  = routine("abs", CommutativeAll, AssociativeNone, ArityStatic, 1)
	Min  = routine("min", CommutativeNone, AssociativeAll, ArityDynamic, 2)
	Max  = routine("max", CommutativeNone, AssociativeAll, ArityDynamic, 2)
)

var catalog = []*Function{
	Negate, Power, Multiply, Divide, Modulo, Add, Subtract,
	Equal, NotEqual, Less, LessEqual, Greater, GreaterEqual,
	Not, And, Xor, Or,
	Sqrt, Abs, Min, Max,
}

var (
	byIdentifier = make(map[string][]*Function)
	identifiers  []string
)

func init() {
	for _, fn := range catalog {
		if _, seen := byIdentifier[fn.Identifier]; !seen {
			identifiers = append(identifiers, fn.Identifier)
		}
		byIdentifier[fn.Identifier] = append(byIdentifier[fn.Identifier], fn)
	}
	sort.Strings(identifiers)
}

// Lookup returns the function registered under identifier that accepts
// arity arguments. The catalog guarantees at most one match.
func Lookup(identifier string, arity int) (*Function, bool) {
	for _, fn := range byIdentifier[identifier] {
		if fn.Accepts(arity) {
			return fn, true
		}
	}
	return nil, false
}

// IsIdentifier reports whether text names any catalog function.
func IsIdentifier(text string) bool {
	_, ok := byIdentifier[text]
	return ok
}

// Identifiers returns every distinct identifier in sorted order.
func Identifiers() []string {
	out := make([]string, len(identifiers))
	copy(out, identifiers)
	return out
}

// Catalog returns every registered function in declaration order.
// The returned slice is a copy; the functions themselves are shared.
func Catalog() []*Function {
	out := make([]*Function, len(catalog))
	copy(out, catalog)
	return out
}
