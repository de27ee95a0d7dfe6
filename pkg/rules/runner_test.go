package rules

import (
	"strings"
	"testing"
)

func TestRunTests(t *testing.T) {
	file, err := NewParser().Parse("testdata/simplify.yaml")
	if err != nil {
		t.Fatal(err)
	}

	results := RunTests(file)
	if len(results) != 4 {
		t.Fatalf("len(results) = %d, want 4", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Errorf("failed tests: %v", failed)
	}
	for _, r := range results {
		if r.File != "testdata/simplify.yaml" {
			t.Errorf("File = %q, want testdata/simplify.yaml", r.File)
		}
		if !strings.HasPrefix(r.String(), "PASS ") {
			t.Errorf("String() = %q, want PASS prefix", r.String())
		}
	}
}

func TestRunTestsReportsMismatch(t *testing.T) {
	yaml := `name: t
rules:
  - name: wrong
    pattern: "x * 1"
    result: "x"
    captures: {x: any}
    tests:
      - input: "a * 1"
        expect: "b"
`
	file, err := NewParser().ParseBytes([]byte(yaml), "t.yaml")
	if err != nil {
		t.Fatal(err)
	}

	results := RunTests(file)
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	r := results[0]
	if r.Passed {
		t.Error("Passed = true, want false")
	}
	if r.Got != "a" || r.Expected != "b" {
		t.Errorf("Got = %q, Expected = %q, want a and b", r.Got, r.Expected)
	}
	if !strings.HasPrefix(r.String(), "FAIL wrong") {
		t.Errorf("String() = %q", r.String())
	}
}
