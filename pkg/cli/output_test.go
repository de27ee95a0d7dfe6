package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"mercator-hq/symbolic/pkg/rules"
)

func TestTextFormatter(t *testing.T) {
	formatter := &TextFormatter{}
	data := "test message"

	output, err := formatter.Format(data)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	expected := "test message\n"
	if string(output) != expected {
		t.Errorf("Format() = %q, want %q", string(output), expected)
	}
}

func TestTextFormatterWriter(t *testing.T) {
	formatter := &TextFormatter{}
	data := "test message"
	buf := &bytes.Buffer{}

	err := formatter.FormatTo(buf, data)
	if err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	expected := "test message\n"
	if buf.String() != expected {
		t.Errorf("FormatTo() = %q, want %q", buf.String(), expected)
	}
}

func TestJSONFormatter(t *testing.T) {
	tests := []struct {
		name   string
		data   interface{}
		indent bool
	}{
		{
			name:   "simple string",
			data:   "test",
			indent: false,
		},
		{
			name: "map with indent",
			data: map[string]string{
				"key": "value",
			},
			indent: true,
		},
		{
			name: "struct",
			data: struct {
				Name  string `json:"name"`
				Value int    `json:"value"`
			}{
				Name:  "test",
				Value: 42,
			},
			indent: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &JSONFormatter{Indent: tt.indent}
			output, err := formatter.Format(tt.data)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}

			// Verify it's valid JSON by unmarshaling
			var result interface{}
			if err := json.Unmarshal(output, &result); err != nil {
				t.Errorf("Format() produced invalid JSON: %v", err)
			}
		})
	}
}

func TestJSONFormatterWriter(t *testing.T) {
	formatter := &JSONFormatter{Indent: true}
	data := map[string]string{"test": "value"}
	buf := &bytes.Buffer{}

	err := formatter.FormatTo(buf, data)
	if err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	// Verify valid JSON
	var result map[string]string
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Errorf("FormatTo() produced invalid JSON: %v", err)
	}

	if result["test"] != "value" {
		t.Errorf("FormatTo() = %v, want %v", result, data)
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name   string
		format OutputFormat
		want   string
	}{
		{
			name:   "text formatter",
			format: FormatText,
			want:   "*cli.TextFormatter",
		},
		{
			name:   "json formatter",
			format: FormatJSON,
			want:   "*cli.JSONFormatter",
		},
		{
			name:   "csv formatter",
			format: FormatCSV,
			want:   "*cli.CSVFormatter",
		},
		{
			name:   "junit formatter",
			format: FormatJUnit,
			want:   "*cli.JUnitFormatter",
		},
		{
			name:   "default to text",
			format: "unknown",
			want:   "*cli.TextFormatter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := NewFormatter(tt.format)
			got := fmt.Sprintf("%T", formatter)
			if got != tt.want {
				t.Errorf("NewFormatter(%q) type = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

func TestCSVFormatter(t *testing.T) {
	formatter := &CSVFormatter{}
	table := &Table{
		Headers: []string{"identifier", "arity"},
		Rows:    [][]string{{"+", "2"}, {"max", "1"}},
	}

	output, err := formatter.Format(table)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	expected := "identifier,arity\n+,2\nmax,1\n"
	if string(output) != expected {
		t.Errorf("Format() = %q, want %q", string(output), expected)
	}

	if _, err := formatter.Format("not a table"); err == nil {
		t.Error("Format() of non-table succeeded")
	}
}

func TestTextFormatterTable(t *testing.T) {
	table := &Table{
		Headers: []string{"ID", "ARITY"},
		Rows:    [][]string{{"+", "2"}, {"sqrt", "1"}},
	}

	output, err := (&TextFormatter{}).Format(table)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	expected := "ID    ARITY\n+     2\nsqrt  1\n"
	if string(output) != expected {
		t.Errorf("Format() = %q, want %q", string(output), expected)
	}
}

func testResults() []rules.TestResult {
	return []rules.TestResult{
		{File: "simplify.yaml", Rule: "add_zero", Input: "x + 0", Expected: "x", Got: "x", Passed: true},
		{File: "simplify.yaml", Rule: "mul_one", Input: "x * 1", Expected: "x", Got: "x*1"},
	}
}

func TestJUnitFormatter(t *testing.T) {
	output, err := (&JUnitFormatter{Suite: "simplify"}).Format(testResults())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := string(output)
	for _, want := range []string{
		`<testsuite name="simplify" tests="2" failures="1">`,
		`<testcase name="add_zero: x + 0" classname="simplify.yaml"></testcase>`,
		`<failure message="FAIL mul_one: x * 1 =&gt; x*1, want x">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}

	if _, err := (&JUnitFormatter{}).Format("x"); err == nil {
		t.Error("Format() of non-results succeeded")
	}
}

func TestTextFormatterResults(t *testing.T) {
	output, err := (&TextFormatter{}).Format(testResults())
	if err != nil {
		t.Fatal(err)
	}
	expected := "PASS add_zero: x + 0 => x\nFAIL mul_one: x * 1 => x*1, want x\n"
	if string(output) != expected {
		t.Errorf("Format() = %q, want %q", string(output), expected)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"JSON", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"junit", FormatJUnit, false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
