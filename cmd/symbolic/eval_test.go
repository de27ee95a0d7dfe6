package main

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"mercator-hq/symbolic/pkg/cli"
	exprerrors "mercator-hq/symbolic/pkg/expr/errors"
)

func TestEvalExpression(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "flattens nested sum", args: []string{"(a + b) + c"}, want: "a + b + c\n"},
		{name: "joins arguments", args: []string{"(a", "+", "b)", "+", "c"}, want: "a + b + c\n"},
		{name: "keeps needed parentheses", args: []string{"(a + b) * c"}, want: "(a + b)*c\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evalFlags.format = "text"
			cmd, out, _ := newTestCommand()

			if err := evalExpression(cmd, tt.args); err != nil {
				t.Fatalf("evalExpression() error = %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestEvalExpressionJSON(t *testing.T) {
	evalFlags.format = "json"
	defer func() { evalFlags.format = "text" }()
	cmd, out, _ := newTestCommand()

	if err := evalExpression(cmd, []string{"(a + b) + c"}); err != nil {
		t.Fatalf("evalExpression() error = %v", err)
	}

	var result EvalResult
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out.String())
	}
	if result.Input != "(a + b) + c" || result.Result != "a + b + c" {
		t.Errorf("result = %+v", result)
	}
}

func TestEvalExpressionError(t *testing.T) {
	evalFlags.format = "text"
	cmd, out, errOut := newTestCommand()

	err := evalExpression(cmd, []string{"1 +"})
	if err == nil {
		t.Fatal("evalExpression() should fail on incomplete input")
	}

	var cmdErr *cli.CommandError
	if !errors.As(err, &cmdErr) {
		t.Errorf("error = %T, want *cli.CommandError", err)
	}
	var exprErr *exprerrors.Error
	if !errors.As(err, &exprErr) {
		t.Fatalf("error does not wrap *errors.Error: %v", err)
	}
	if exprErr.Column != 3 {
		t.Errorf("Column = %d, want 3", exprErr.Column)
	}

	if out.Len() != 0 {
		t.Errorf("unexpected stdout: %q", out.String())
	}
	want := "1 +\n   ^ expected an expression\n"
	if errOut.String() != want {
		t.Errorf("stderr = %q, want %q", errOut.String(), want)
	}
}

func TestEvalExpressionBadFormat(t *testing.T) {
	evalFlags.format = "yaml"
	defer func() { evalFlags.format = "text" }()

	err := evalExpression(nil, []string{"x"})
	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Errorf("evalExpression() error = %v, want unknown output format", err)
	}
}
