package parser

import (
	"errors"
	"strings"
	"testing"

	"mercator-hq/symbolic/pkg/expr/ast"
	exprerrors "mercator-hq/symbolic/pkg/expr/errors"
	"mercator-hq/symbolic/pkg/expr/function"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "literal", input: "42", want: "42"},
		{name: "variable", input: "x", want: "x"},
		{name: "precedence", input: "1+2*3", want: "1 + 2*3"},
		{name: "parentheses override", input: "(1+2)*3", want: "(1 + 2)*3"},
		{name: "left nesting kept raw", input: "1 - 2 - 3", want: "(1 - 2) - 3"},
		{name: "right associative power", input: "2**3**4", want: "2**(3**4)"},
		{name: "implicit multiplication", input: "2x", want: "2*x"},
		{name: "implicit multiplication with group", input: "3(a + b)", want: "3*(a + b)"},
		{name: "implicit chain", input: "2 x y", want: "2*(x*y)"},
		{name: "unary minus", input: "-x + 1", want: "-x + 1"},
		{name: "unary binds before power", input: "-x**2", want: "(-x)**2"},
		{name: "subtract negative", input: "a - -b", want: "a - -b"},
		{name: "routine", input: "max(1, 2, x)", want: "max(1, 2, x)"},
		{name: "routine with expressions", input: "min(a+b, c*d)", want: "min(a + b, c*d)"},
		{name: "unary routine without parentheses", input: "sqrt x", want: "sqrt(x)"},
		{name: "comparison", input: "a+1 <= b", want: "a + 1 <= b"},
		{name: "comparisons nest left", input: "a < b == c", want: "(a < b) == c"},
		{name: "logic", input: "!a && b || c", want: "!a && b || c"},
		{name: "greedy operator split", input: "a<=-b", want: "a <= -b"},
		{name: "decimal", input: "0.5 * .25", want: "0.5*0.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.input, got.String(), tt.want)
			}
		})
	}
}

func TestParseStructure(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ast.Ast
	}{
		{
			name:  "power is right associative",
			input: "2**3**4",
			want: ast.MustCall(function.Power, ast.NewLiteral(2),
				ast.MustCall(function.Power, ast.NewLiteral(3), ast.NewLiteral(4))),
		},
		{
			name:  "implicit multiplication",
			input: "2x",
			want:  ast.MustCall(function.Multiply, ast.NewLiteral(2), ast.NewVariable("x")),
		},
		{
			name:  "binary minus resolves to subtract",
			input: "a - b",
			want:  ast.MustCall(function.Subtract, ast.NewVariable("a"), ast.NewVariable("b")),
		},
		{
			name:  "prefix minus resolves to negate",
			input: "-a",
			want:  ast.MustCall(function.Negate, ast.NewVariable("a")),
		},
		{
			name:  "parenthesized negative literal",
			input: ast.MustCall(function.Subtract, ast.NewVariable("x"), ast.NewLiteral(-3)).String(),
			want: ast.MustCall(function.Subtract, ast.NewVariable("x"),
				ast.MustCall(function.Negate, ast.NewLiteral(3))),
		},
		{
			name:  "negative literal base keeps grouping",
			input: ast.MustCall(function.Power, ast.NewLiteral(-2), ast.NewVariable("b")).String(),
			want: ast.MustCall(function.Power,
				ast.MustCall(function.Negate, ast.NewLiteral(2)), ast.NewVariable("b")),
		},
		{
			name:  "min overload by count",
			input: "min(1, 2, 3)",
			want:  ast.MustCall(function.Min, ast.NewLiteral(1), ast.NewLiteral(2), ast.NewLiteral(3)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if !ast.Equal(got, tt.want) {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		errType exprerrors.ErrorType
		column  int
		message string
	}{
		{name: "empty", input: "", errType: exprerrors.ErrorTypeSyntax, column: 0, message: "expected an expression"},
		{name: "dangling operator", input: "1 +", errType: exprerrors.ErrorTypeSyntax, column: 3, message: "expected an expression"},
		{name: "unmatched parenthesis", input: "(1 + 2", errType: exprerrors.ErrorTypeSyntax, column: 6, message: "expected ')'"},
		{name: "unexpected closing", input: "1 )", errType: exprerrors.ErrorTypeSyntax, column: 2, message: "unexpected ')'"},
		{name: "invalid token", input: ")", errType: exprerrors.ErrorTypeSyntax, column: 0, message: "invalid token ')'"},
		{name: "unknown symbol", input: "a # b", errType: exprerrors.ErrorTypeSyntax, column: 2, message: "unexpected '#'"},
		{name: "not unary", input: "+x", errType: exprerrors.ErrorTypeSyntax, column: 0, message: "function is not a unary operator '+'"},
		{
			name: "sqrt arity", input: "sqrt(1, 2)", errType: exprerrors.ErrorTypeSyntax, column: 9,
			message: "no overload found for 'sqrt' taking 2 arguments",
		},
		{
			name: "min arity", input: "min(1)", errType: exprerrors.ErrorTypeSyntax, column: 5,
			message: "no overload found for 'min' taking 1 arguments",
		},
		{name: "missing comma", input: "max(1, 2", errType: exprerrors.ErrorTypeSyntax, column: 8, message: "expected ',' or ')'"},
		{name: "bad number", input: "1..2", errType: exprerrors.ErrorTypeLexical, column: 0, message: "invalid number '1..2'"},
		{name: "unicode column", input: "π + (1", errType: exprerrors.ErrorTypeSyntax, column: 6, message: "expected ')'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.input)
			}

			var perr *exprerrors.Error
			if !errors.As(err, &perr) {
				t.Fatalf("error type = %T, want *errors.Error", err)
			}
			if perr.Type != tt.errType {
				t.Errorf("Type = %s, want %s", perr.Type, tt.errType)
			}
			if perr.Column != tt.column {
				t.Errorf("Column = %d, want %d", perr.Column, tt.column)
			}
			if perr.Message != tt.message {
				t.Errorf("Message = %q, want %q", perr.Message, tt.message)
			}
			if perr.Source != tt.input {
				t.Errorf("Source = %q, want %q", perr.Source, tt.input)
			}
		})
	}
}

func TestParserMaxLength(t *testing.T) {
	p := NewParser().WithMaxLength(8)

	if _, err := p.Parse("1 + 2"); err != nil {
		t.Fatalf("short input error = %v", err)
	}

	_, err := p.Parse(strings.Repeat("1+", 10) + "1")
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("long input error = %v, want length error", err)
	}
}
