package rules

import (
	"encoding/json"
	"fmt"

	"mercator-hq/symbolic/pkg/engine"
	"mercator-hq/symbolic/pkg/expr/ast"
)

// TestResult is the outcome of one embedded rule test.
type TestResult struct {
	File     string `json:"file"`
	Rule     string `json:"rule"`
	Input    string `json:"input"`
	Expected string `json:"expected"`
	Got      string `json:"got,omitempty"`
	Passed   bool   `json:"passed"`
	Err      error  `json:"-"`
}

// MarshalJSON adds the error message, if any.
func (r TestResult) MarshalJSON() ([]byte, error) {
	type plain TestResult
	out := struct {
		plain
		Error string `json:"error,omitempty"`
	}{plain: plain(r)}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

// String formats the result as a single report line.
func (r TestResult) String() string {
	switch {
	case r.Err != nil:
		return fmt.Sprintf("FAIL %s: %s: %v", r.Rule, r.Input, r.Err)
	case !r.Passed:
		return fmt.Sprintf("FAIL %s: %s => %s, want %s", r.Rule, r.Input, r.Got, r.Expected)
	default:
		return fmt.Sprintf("PASS %s: %s => %s", r.Rule, r.Input, r.Got)
	}
}

// RunTests applies each rule to its embedded test inputs and compares
// the output with the expected expression. Disabled rules are tested too.
func RunTests(files ...*RuleFile) []TestResult {
	var results []TestResult
	for _, f := range files {
		for _, def := range f.Rules {
			for _, test := range def.Tests {
				result := runTest(def, test)
				result.File = f.Source
				results = append(results, result)
			}
		}
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []TestResult) []TestResult {
	var out []TestResult
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

func runTest(def *RuleDef, test RuleTest) TestResult {
	result := TestResult{
		Rule:     def.Name,
		Input:    test.Input,
		Expected: test.Expect,
	}

	input, err := engine.Evaluate(test.Input)
	if err != nil {
		result.Err = err
		return result
	}
	expected, err := engine.Evaluate(test.Expect)
	if err != nil {
		result.Err = err
		return result
	}
	result.Expected = expected.String()

	got, _, err := def.Rule.Apply(input)
	if err != nil {
		result.Err = err
		return result
	}
	result.Got = got.String()
	result.Passed = ast.Equal(got, expected)
	return result
}
