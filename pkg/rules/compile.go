package rules

import (
	"errors"
	"fmt"
	"sort"

	"mercator-hq/symbolic/pkg/engine"
	"mercator-hq/symbolic/pkg/expr/ast"
	exprerrors "mercator-hq/symbolic/pkg/expr/errors"
	"mercator-hq/symbolic/pkg/expr/function"
)

// ErrUndeclaredCapture indicates a pattern uses a name missing from captures.
var ErrUndeclaredCapture = errors.New("undeclared capture")

// Compile builds an engine rule from pattern and result text.
//
// Names in the pattern must be declared in captures; each becomes a tag
// restricted to its capture kind, and repeated names must match equal
// subtrees. Tag ids follow the sorted capture names. In the result, capture
// names are replaced by what they matched and any other name is kept as a
// variable.
func Compile(name, pattern, result string, captures map[string]CaptureKind) (*engine.Rule, error) {
	ids, err := captureIDs(captures)
	if err != nil {
		return nil, err
	}

	pred, err := CompilePattern(pattern, captures, ids)
	if err != nil {
		return nil, err
	}

	res, err := CompileResult(result, ids)
	if err != nil {
		return nil, err
	}

	return engine.NewNamedRule(name, pred, res)
}

// captureIDs validates capture declarations and numbers them in sorted
// name order.
func captureIDs(captures map[string]CaptureKind) (map[string]int, error) {
	names := make([]string, 0, len(captures))
	for name, kind := range captures {
		if function.IsIdentifier(name) {
			return nil, &exprerrors.Error{
				Type:    exprerrors.ErrorTypeRule,
				Message: fmt.Sprintf("capture name '%s' is a function identifier", name),
			}
		}
		switch kind {
		case CaptureAny, CaptureLiteral, CaptureVariable:
		default:
			return nil, &exprerrors.Error{
				Type:       exprerrors.ErrorTypeRule,
				Message:    fmt.Sprintf("unknown capture kind '%s' for '%s'", kind, name),
				Suggestion: exprerrors.SuggestName(string(kind), CaptureKinds()),
			}
		}
		names = append(names, name)
	}
	sort.Strings(names)

	ids := make(map[string]int, len(names))
	for i, name := range names {
		ids[name] = i
	}
	return ids, nil
}

// CompilePattern converts pattern text into a predicate. ids maps each
// capture name to its tag id.
func CompilePattern(text string, captures map[string]CaptureKind, ids map[string]int) (engine.Predicate, error) {
	tree, err := engine.Evaluate(text)
	if err != nil {
		return nil, err
	}

	used := make(map[string]bool)
	pred, err := toPredicate(tree, captures, ids, used)
	if err != nil {
		return nil, err
	}

	for name := range captures {
		if !used[name] {
			return nil, &exprerrors.Error{
				Type:    exprerrors.ErrorTypeRule,
				Message: fmt.Sprintf("capture '%s' is declared but not used in the pattern", name),
			}
		}
	}
	return pred, nil
}

func toPredicate(a ast.Ast, captures map[string]CaptureKind, ids map[string]int, used map[string]bool) (engine.Predicate, error) {
	switch n := a.(type) {
	case *ast.Literal:
		return engine.Value(n.Value), nil

	case *ast.Variable:
		kind, ok := captures[n.Name]
		if !ok {
			return nil, &exprerrors.Error{
				Type:       exprerrors.ErrorTypeRule,
				Message:    fmt.Sprintf("%v '%s' in pattern", ErrUndeclaredCapture, n.Name),
				Suggestion: exprerrors.SuggestCapture(n.Name),
			}
		}
		used[n.Name] = true

		var inner engine.Predicate
		switch kind {
		case CaptureLiteral:
			inner = engine.AnyLiteral()
		case CaptureVariable:
			inner = engine.AnyVariable()
		default:
			inner = engine.Any()
		}
		return engine.Tag(ids[n.Name], inner), nil

	case *ast.Call:
		args := make([]engine.Predicate, len(n.Args))
		for i, arg := range n.Args {
			p, err := toPredicate(arg, captures, ids, used)
			if err != nil {
				return nil, err
			}
			args[i] = p
		}
		return engine.CallOf(n.Fn, args...), nil

	default:
		return nil, fmt.Errorf("unexpected node %T", a)
	}
}

// CompileResult converts result text into a result template. Names found
// in ids become references to the matching capture.
func CompileResult(text string, ids map[string]int) (engine.Result, error) {
	tree, err := engine.Evaluate(text)
	if err != nil {
		return nil, err
	}
	return toResult(tree, ids), nil
}

func toResult(a ast.Ast, ids map[string]int) engine.Result {
	switch n := a.(type) {
	case *ast.Variable:
		if id, ok := ids[n.Name]; ok {
			return engine.Ref(id)
		}
		return engine.Constant(n)

	case *ast.Call:
		if !referencesCapture(n, ids) {
			return engine.Constant(n)
		}
		args := make([]engine.Result, len(n.Args))
		for i, arg := range n.Args {
			args[i] = toResult(arg, ids)
		}
		return engine.Template(n.Fn, args...)

	default:
		return engine.Constant(a)
	}
}

func referencesCapture(a ast.Ast, ids map[string]int) bool {
	found := false
	ast.Walk(a, func(node ast.Ast) bool {
		if v, ok := node.(*ast.Variable); ok {
			if _, ok := ids[v.Name]; ok {
				found = true
			}
		}
		return !found
	})
	return found
}
