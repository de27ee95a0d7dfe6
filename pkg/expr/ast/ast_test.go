package ast

import (
	"testing"

	"mercator-hq/symbolic/pkg/expr/function"
)

func TestEqual(t *testing.T) {
	x := NewVariable("x")
	y := NewVariable("y")
	one := NewLiteral(1)

	tests := []struct {
		name string
		a, b Ast
		want bool
	}{
		{name: "same variable", a: x, b: NewVariable("x"), want: true},
		{name: "different variable", a: x, b: y, want: false},
		{name: "literal exact", a: one, b: NewLiteral(1), want: true},
		{name: "literal within tolerance", a: NewLiteral(1e6), b: NewLiteral(1e6 + 1e-5), want: true},
		{name: "literal outside tolerance", a: NewLiteral(1), b: NewLiteral(1.001), want: false},
		{name: "zero", a: NewLiteral(0), b: NewLiteral(0), want: true},
		{name: "variant mismatch", a: one, b: x, want: false},
		{
			name: "same call",
			a:    MustCall(function.Add, x, one),
			b:    MustCall(function.Add, NewVariable("x"), NewLiteral(1)),
			want: true,
		},
		{
			name: "argument order matters",
			a:    MustCall(function.Add, x, one),
			b:    MustCall(function.Add, one, x),
			want: false,
		},
		{
			name: "function identity",
			a:    MustCall(function.Add, x, one),
			b:    MustCall(function.Multiply, x, one),
			want: false,
		},
		{
			name: "same identifier different function",
			a:    MustCall(function.Negate, x),
			b:    MustCall(function.Subtract, x, x),
			want: false,
		},
		{
			name: "argument count",
			a:    MustCall(function.Add, x, one),
			b:    MustCall(function.Add, x, one, y),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := Equal(tt.b, tt.a); got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v (symmetry)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := MustCall(function.Add, NewVariable("x"), MustCall(function.Multiply, NewLiteral(2), NewVariable("y")))
	clone := orig.Clone().(*Call)

	if !Equal(orig, clone) {
		t.Fatalf("clone %s differs from original %s", clone, orig)
	}

	clone.Args[1].(*Call).Args[0].(*Literal).Value = 5
	clone.Args[0] = NewVariable("z")

	if got := orig.String(); got != "x + 2*y" {
		t.Errorf("original changed after mutating clone: %s", got)
	}
}

func TestNewCallArity(t *testing.T) {
	if _, err := NewCall(function.Sqrt, NewLiteral(1), NewLiteral(2)); err == nil {
		t.Error("NewCall(sqrt, 2 args) succeeded, want error")
	}
	if _, err := NewCall(nil, NewLiteral(1)); err == nil {
		t.Error("NewCall(nil) succeeded, want error")
	}
	if _, err := NewCall(function.Min, NewLiteral(1), NewLiteral(2), NewLiteral(3)); err != nil {
		t.Errorf("NewCall(min, 3 args) error = %v", err)
	}
}

func TestString(t *testing.T) {
	a, b, c := NewVariable("a"), NewVariable("b"), NewVariable("c")

	tests := []struct {
		name string
		tree Ast
		want string
	}{
		{name: "integer literal", tree: NewLiteral(3), want: "3"},
		{name: "fraction literal", tree: NewLiteral(0.25), want: "0.25"},
		{name: "large literal", tree: NewLiteral(1e21), want: "1000000000000000000000"},
		{name: "variable", tree: a, want: "a"},
		{name: "sum", tree: MustCall(function.Add, a, b, c), want: "a + b + c"},
		{name: "product", tree: MustCall(function.Multiply, a, b), want: "a*b"},
		{
			name: "product inside sum",
			tree: MustCall(function.Add, NewLiteral(1), MustCall(function.Multiply, NewLiteral(2), NewLiteral(3))),
			want: "1 + 2*3",
		},
		{
			name: "sum inside product",
			tree: MustCall(function.Multiply, MustCall(function.Add, NewLiteral(1), NewLiteral(2)), NewLiteral(3)),
			want: "(1 + 2)*3",
		},
		{
			name: "equal precedence child",
			tree: MustCall(function.Subtract, a, MustCall(function.Subtract, b, c)),
			want: "a - (b - c)",
		},
		{name: "negation", tree: MustCall(function.Negate, a), want: "-a"},
		{name: "negative literal", tree: NewLiteral(-3), want: "-3"},
		{
			name: "negative literal operand",
			tree: MustCall(function.Subtract, a, NewLiteral(-3)),
			want: "a - (-3)",
		},
		{
			name: "negative literal base",
			tree: MustCall(function.Power, NewLiteral(-2), b),
			want: "(-2)**b",
		},
		{
			name: "negated negative literal",
			tree: MustCall(function.Negate, NewLiteral(-0.5)),
			want: "-(-0.5)",
		},
		{name: "negative literal argument", tree: MustCall(function.Max, NewLiteral(-1), a), want: "max(-1, a)"},
		{
			name: "negated sum",
			tree: MustCall(function.Negate, MustCall(function.Add, a, b)),
			want: "-(a + b)",
		},
		{name: "routine", tree: MustCall(function.Max, a, b, NewLiteral(1)), want: "max(a, b, 1)"},
		{
			name: "routine arguments unwrapped",
			tree: MustCall(function.Min, MustCall(function.Add, a, b), c),
			want: "min(a + b, c)",
		},
		{
			name: "routine operand",
			tree: MustCall(function.Negate, MustCall(function.Sqrt, a)),
			want: "-sqrt(a)",
		},
		{
			name: "comparison of sums",
			tree: MustCall(function.Less, MustCall(function.Add, a, b), c),
			want: "a + b < c",
		},
		{
			name: "logic",
			tree: MustCall(function.Or, MustCall(function.And, a, b), MustCall(function.Not, c)),
			want: "a && b || !c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tree.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrecedenceAndSize(t *testing.T) {
	tree := MustCall(function.Add, NewVariable("x"), MustCall(function.Multiply, NewLiteral(2), NewVariable("y")))

	if got := Precedence(tree); got != function.PrecedenceAdditive {
		t.Errorf("Precedence(sum) = %s", got)
	}
	if got := Precedence(NewLiteral(1)); got != function.PrecedenceAtomic {
		t.Errorf("Precedence(literal) = %s", got)
	}
	if got := Size(tree); got != 5 {
		t.Errorf("Size() = %d, want 5", got)
	}
}
