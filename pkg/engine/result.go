package engine

import (
	"fmt"
	"strings"

	"mercator-hq/symbolic/pkg/expr/ast"
	"mercator-hq/symbolic/pkg/expr/function"
)

// Result is a template for the tree a rule produces. The set of result
// types is closed: *TagRef, *Splice and *CallTemplate.
type Result interface {
	fmt.Stringer
	isResult()
}

// TagRef produces a copy of the node bound to ID.
type TagRef struct {
	ID int
}

// Splice produces a copy of a fixed tree.
type Splice struct {
	Value ast.Ast
}

// CallTemplate produces a call to Fn over the built arguments.
type CallTemplate struct {
	Fn   *function.Function
	Args []Result
}

func (*TagRef) isResult()       {}
func (*Splice) isResult()       {}
func (*CallTemplate) isResult() {}

// Ref returns a result that copies the binding of id.
func Ref(id int) *TagRef {
	return &TagRef{ID: id}
}

// Constant returns a result that copies v.
func Constant(v ast.Ast) *Splice {
	return &Splice{Value: v}
}

// Template returns a result that builds a call to fn.
func Template(fn *function.Function, args ...Result) *CallTemplate {
	return &CallTemplate{Fn: fn, Args: args}
}

// String returns "@id".
func (r *TagRef) String() string {
	return fmt.Sprintf("@%d", r.ID)
}

// String returns the rendering of the fixed tree.
func (r *Splice) String() string {
	if r.Value == nil {
		return "<nil>"
	}
	return r.Value.String()
}

// String renders the template in prefix form, e.g. "*(2, @0)".
func (r *CallTemplate) String() string {
	parts := make([]string, len(r.Args))
	for i, arg := range r.Args {
		parts[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", r.Fn.Identifier, strings.Join(parts, ", "))
}

// Build instantiates r with the given bindings. Every call it creates is
// flattened, and no part of the output aliases the bindings or splices.
func Build(r Result, b Bindings) (ast.Ast, error) {
	switch r := r.(type) {
	case *TagRef:
		bound, ok := b[r.ID]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrDanglingTag, r.ID)
		}
		return bound.Clone(), nil

	case *Splice:
		if r.Value == nil {
			return nil, fmt.Errorf("%w: splice has no value", ErrInvalidRule)
		}
		return Flatten(r.Value.Clone()), nil

	case *CallTemplate:
		args := make([]ast.Ast, len(r.Args))
		for i, arg := range r.Args {
			built, err := Build(arg, b)
			if err != nil {
				return nil, err
			}
			args[i] = built
		}
		call, err := ast.NewCall(r.Fn, args...)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
		}
		return Flatten(call), nil

	default:
		return nil, fmt.Errorf("%w: unknown result type %T", ErrInvalidRule, r)
	}
}

// collectRefs returns every tag id r references.
func collectRefs(r Result, into map[int]struct{}) {
	switch r := r.(type) {
	case *TagRef:
		into[r.ID] = struct{}{}
	case *CallTemplate:
		for _, arg := range r.Args {
			collectRefs(arg, into)
		}
	}
}

// validateResult checks that every node is well formed.
func validateResult(r Result) error {
	switch r := r.(type) {
	case nil:
		return fmt.Errorf("nil result")
	case *TagRef:
		return nil
	case *Splice:
		if r.Value == nil {
			return fmt.Errorf("splice has no value")
		}
		return nil
	case *CallTemplate:
		if r.Fn == nil {
			return fmt.Errorf("call template has no function")
		}
		if !r.Fn.Accepts(len(r.Args)) {
			return fmt.Errorf("call template %s does not accept %d arguments", r.Fn, len(r.Args))
		}
		for _, arg := range r.Args {
			if err := validateResult(arg); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown result type %T", r)
	}
}
