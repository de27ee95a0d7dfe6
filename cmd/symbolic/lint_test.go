package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setLintFlags(file, dir, format string) {
	lintFlags.file = file
	lintFlags.dir = dir
	lintFlags.format = format
	lintFlags.skipTests = false
	lintFlags.progress = false
}

func TestLintRulesValidFile(t *testing.T) {
	setLintFlags("testdata/simplify.yaml", "", "text")
	cmd, out, _ := newTestCommand()

	if err := lintRules(cmd, []string{}); err != nil {
		t.Fatalf("lintRules() with valid file returned error: %v", err)
	}
	for _, want := range []string{"✓ testdata/simplify.yaml (2 rules)", "PASS add_zero", "2 tests, 2 passed, 0 failed"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output does not contain %q:\n%s", want, out.String())
		}
	}
}

func TestLintRulesInvalidFile(t *testing.T) {
	setLintFlags("testdata/invalid.yaml", "", "text")
	cmd, out, _ := newTestCommand()

	err := lintRules(cmd, []string{})
	if err == nil {
		t.Fatal("lintRules() with invalid file should return error")
	}
	if !strings.Contains(out.String(), "✗ testdata/invalid.yaml") {
		t.Errorf("output does not mark the file invalid:\n%s", out.String())
	}
	if !strings.Contains(err.Error(), "1 invalid file(s)") {
		t.Errorf("error = %v", err)
	}
}

func TestLintRulesFailingTest(t *testing.T) {
	setLintFlags("testdata/failing-test.yaml", "", "text")
	cmd, out, _ := newTestCommand()

	err := lintRules(cmd, []string{})
	if err == nil {
		t.Fatal("lintRules() with a failing rule test should return error")
	}
	if !strings.Contains(err.Error(), "1 failed test(s)") {
		t.Errorf("error = %v", err)
	}
	if !strings.Contains(out.String(), "FAIL mul_zero") {
		t.Errorf("output does not report the failure:\n%s", out.String())
	}

	// The file itself is valid, so skipping tests passes.
	setLintFlags("testdata/failing-test.yaml", "", "text")
	lintFlags.skipTests = true
	if err := lintRules(cmd, []string{}); err != nil {
		t.Errorf("lintRules() with --skip-tests returned error: %v", err)
	}
}

func TestLintRulesNonexistentFile(t *testing.T) {
	setLintFlags("testdata/nonexistent.yaml", "", "text")

	if err := lintRules(nil, []string{}); err == nil {
		t.Error("lintRules() with nonexistent file should return error")
	}
}

func TestLintRulesNoFileOrDir(t *testing.T) {
	setLintFlags("", "", "text")

	if err := lintRules(nil, []string{}); err == nil {
		t.Error("lintRules() without file or dir should return error")
	}
}

func TestLintRulesEmptyDir(t *testing.T) {
	setLintFlags("", t.TempDir(), "text")

	err := lintRules(nil, []string{})
	if err == nil || !strings.Contains(err.Error(), "no rule files found") {
		t.Errorf("lintRules() error = %v, want no rule files found", err)
	}
}

func TestLintRulesDirectory(t *testing.T) {
	setLintFlags("", "testdata/rules", "json")
	cmd, out, _ := newTestCommand()

	if err := lintRules(cmd, []string{}); err != nil {
		t.Fatalf("lintRules() with directory returned error: %v", err)
	}

	var report LintReport
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out.String())
	}
	if len(report.Files) != 2 {
		t.Fatalf("got %d files, want 2", len(report.Files))
	}
	if report.Files[0].File != filepath.Join("testdata", "rules", "simplify.yaml") {
		t.Errorf("files not in name order: %s", report.Files[0].File)
	}
	if len(report.Tests) != 3 {
		t.Errorf("got %d test results, want 3", len(report.Tests))
	}
}

func TestLintRulesJSONErrors(t *testing.T) {
	setLintFlags("testdata/invalid.yaml", "", "json")
	cmd, out, _ := newTestCommand()

	if err := lintRules(cmd, []string{}); err == nil {
		t.Fatal("lintRules() with invalid file should return error")
	}

	var report LintReport
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out.String())
	}
	if len(report.Files) != 1 || report.Files[0].Valid {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(report.Files[0].Errors) < 2 {
		t.Errorf("got %d errors, want one per broken rule", len(report.Files[0].Errors))
	}
	for _, e := range report.Files[0].Errors {
		if e.Line == 0 {
			t.Errorf("error without line: %+v", e)
		}
	}
}

func TestLintRulesJUnit(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"simplify.yaml", "invalid.yaml"} {
		data, err := os.ReadFile(filepath.Join("testdata", name))
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	setLintFlags("", dir, "junit")
	lintFlags.progress = true
	cmd, out, errOut := newTestCommand()

	if err := lintRules(cmd, []string{}); err == nil {
		t.Fatal("lintRules() should fail when one file is invalid")
	}

	output := out.String()
	if !strings.Contains(output, `<testsuite name="lint"`) {
		t.Errorf("missing testsuite element:\n%s", output)
	}
	if !strings.Contains(output, "<failure") {
		t.Errorf("invalid file not reported as failure:\n%s", output)
	}
	if !strings.Contains(errOut.String(), "(1 failed)") {
		t.Errorf("progress does not count the failure: %q", errOut.String())
	}
}

func TestLintRulesCSVRejected(t *testing.T) {
	setLintFlags("testdata/simplify.yaml", "", "csv")

	if err := lintRules(nil, []string{}); err == nil {
		t.Error("lintRules() with csv format should return error")
	}
}
