package engine

import (
	"fmt"
	"strconv"
	"strings"

	"mercator-hq/symbolic/pkg/expr/function"
)

// Predicate is a pattern over expression trees. The set of predicate types
// is closed: *AnyPattern, *LiteralPattern, *VariablePattern, *TagPattern and
// *CallPattern.
type Predicate interface {
	fmt.Stringer
	isPredicate()
}

// AnyPattern matches every node.
type AnyPattern struct{}

// LiteralPattern matches a literal. A nil Value matches any literal;
// otherwise the literal must equal *Value within tolerance.
type LiteralPattern struct {
	Value *float64
}

// VariablePattern matches any variable.
type VariablePattern struct{}

// TagPattern matches whatever Pattern matches and binds the node to ID.
// When ID is already bound, the node must also equal the earlier binding.
type TagPattern struct {
	Pattern Predicate
	ID      int
}

// CallPattern matches a call to exactly Fn whose arguments can be paired
// with Args. Fn.Commutativity decides which pairings are tried.
type CallPattern struct {
	Fn   *function.Function
	Args []Predicate
}

func (*AnyPattern) isPredicate()      {}
func (*LiteralPattern) isPredicate()  {}
func (*VariablePattern) isPredicate() {}
func (*TagPattern) isPredicate()      {}
func (*CallPattern) isPredicate()     {}

// Any returns a predicate matching every node.
func Any() *AnyPattern {
	return &AnyPattern{}
}

// AnyLiteral returns a predicate matching every literal.
func AnyLiteral() *LiteralPattern {
	return &LiteralPattern{}
}

// Value returns a predicate matching literals equal to v.
func Value(v float64) *LiteralPattern {
	return &LiteralPattern{Value: &v}
}

// AnyVariable returns a predicate matching every variable.
func AnyVariable() *VariablePattern {
	return &VariablePattern{}
}

// Tag wraps p so that the matched node is bound to id.
func Tag(id int, p Predicate) *TagPattern {
	return &TagPattern{Pattern: p, ID: id}
}

// CallOf returns a predicate matching calls to fn with the given argument
// predicates.
func CallOf(fn *function.Function, args ...Predicate) *CallPattern {
	return &CallPattern{Fn: fn, Args: args}
}

// String returns "_".
func (*AnyPattern) String() string {
	return "_"
}

// String returns the expected value, or "#" for any literal.
func (p *LiteralPattern) String() string {
	if p.Value == nil {
		return "#"
	}
	return strconv.FormatFloat(*p.Value, 'f', -1, 64)
}

// String returns "$".
func (*VariablePattern) String() string {
	return "$"
}

// String returns the wrapped pattern followed by ":id".
func (p *TagPattern) String() string {
	return fmt.Sprintf("%s:%d", p.Pattern, p.ID)
}

// String renders the pattern in prefix form, e.g. "+(_:0, 1)".
func (p *CallPattern) String() string {
	parts := make([]string, len(p.Args))
	for i, arg := range p.Args {
		parts[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", p.Fn.Identifier, strings.Join(parts, ", "))
}

// collectTags returns every tag id bound anywhere in p.
func collectTags(p Predicate, into map[int]struct{}) {
	switch p := p.(type) {
	case *TagPattern:
		into[p.ID] = struct{}{}
		collectTags(p.Pattern, into)
	case *CallPattern:
		for _, arg := range p.Args {
			collectTags(arg, into)
		}
	}
}

// validatePredicate checks that every node is well formed.
func validatePredicate(p Predicate) error {
	switch p := p.(type) {
	case nil:
		return fmt.Errorf("nil predicate")
	case *AnyPattern, *LiteralPattern, *VariablePattern:
		return nil
	case *TagPattern:
		if p.Pattern == nil {
			return fmt.Errorf("tag %d wraps no pattern", p.ID)
		}
		return validatePredicate(p.Pattern)
	case *CallPattern:
		if p.Fn == nil {
			return fmt.Errorf("call pattern has no function")
		}
		if !p.Fn.Accepts(len(p.Args)) {
			return fmt.Errorf("call pattern %s does not accept %d arguments", p.Fn, len(p.Args))
		}
		for _, arg := range p.Args {
			if err := validatePredicate(arg); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown predicate type %T", p)
	}
}

// selectivity ranks how quickly a predicate is expected to reject a node.
// Lower ranks are tried first when searching argument assignments.
func selectivity(p Predicate) int {
	switch p := p.(type) {
	case *LiteralPattern:
		if p.Value != nil {
			return 0
		}
		return 3
	case *CallPattern:
		return 1
	case *TagPattern:
		if _, ok := p.Pattern.(*AnyPattern); ok {
			return 4
		}
		return 2
	case *VariablePattern:
		return 3
	default:
		return 4
	}
}
