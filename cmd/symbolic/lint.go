package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"mercator-hq/symbolic/pkg/cli"
	exprerrors "mercator-hq/symbolic/pkg/expr/errors"
	"mercator-hq/symbolic/pkg/rules"
)

var lintFlags struct {
	file      string
	dir       string
	format    string
	skipTests bool
	progress  bool
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate rule files and run their tests",
	Long: `Validate rule files and run the tests embedded in them.

The lint command checks each rule file for:
  - YAML syntax errors
  - Missing rule fields and duplicate rule names
  - Pattern and result expressions that do not parse
  - Undeclared or unused captures and unknown capture kinds

Every rule test (an input with its expected rewrite) is then run against
its rule.

Examples:
  # Lint single file
  symbolic lint --file rules/simplify.yaml

  # Lint directory
  symbolic lint --dir rules/

  # JUnit report for CI
  symbolic lint --dir rules/ --format junit > report.xml`,
	RunE: lintRules,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "rule file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of rule files")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json, junit")
	lintCmd.Flags().BoolVar(&lintFlags.skipTests, "skip-tests", false, "validate without running rule tests")
	lintCmd.Flags().BoolVar(&lintFlags.progress, "progress", false, "show a progress bar on stderr")
}

// FileResult is the validation result for a single rule file.
type FileResult struct {
	File   string      `json:"file"`
	Valid  bool        `json:"valid"`
	Rules  int         `json:"rules"`
	Errors []LintError `json:"errors,omitempty"`
}

// LintError is a single diagnostic in a rule file.
type LintError struct {
	Line       int    `json:"line,omitempty"`
	Column     int    `json:"column,omitempty"`
	Message    string `json:"message"`
	Type       string `json:"type,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// LintReport is the JSON output of lint.
type LintReport struct {
	Files []FileResult       `json:"files"`
	Tests []rules.TestResult `json:"tests,omitempty"`
}

func lintRules(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}
	format, err := cli.ParseFormat(lintFlags.format)
	if err != nil {
		return err
	}
	if format == cli.FormatCSV {
		return cli.NewConfigError("format", "csv output is not supported for lint")
	}

	var paths []string
	if lintFlags.file != "" {
		paths = append(paths, lintFlags.file)
	}
	if lintFlags.dir != "" {
		matches, err := rules.RuleFiles(lintFlags.dir)
		if err != nil {
			return fmt.Errorf("failed to list rule files: %w", err)
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no rule files found")
	}

	var progress *cli.SimpleProgress
	if lintFlags.progress {
		progress = cli.NewProgressReporter(stderr(cmd), "files")
		progress.Start(int64(len(paths)))
	}

	parser := rules.NewParser()
	report := LintReport{Files: make([]FileResult, 0, len(paths))}
	var parsed []*rules.RuleFile

	for i, path := range paths {
		file, err := parser.Parse(path)
		result := FileResult{File: path, Valid: err == nil}
		if err != nil {
			result.Errors = lintErrors(err)
			if progress != nil {
				progress.Error(err)
			}
		} else {
			result.Rules = len(file.Rules)
			parsed = append(parsed, file)
		}
		report.Files = append(report.Files, result)

		if progress != nil {
			progress.Update(int64(i + 1))
		}
	}
	if progress != nil {
		progress.Finish()
	}

	if !lintFlags.skipTests {
		report.Tests = rules.RunTests(parsed...)
	}

	out := stdout(cmd)
	switch format {
	case cli.FormatJSON:
		err = cli.NewFormatter(format).FormatTo(out, report)
	case cli.FormatJUnit:
		err = (&cli.JUnitFormatter{Suite: "lint"}).FormatTo(out, junitResults(report))
	default:
		err = outputLintText(out, report)
	}
	if err != nil {
		return err
	}

	invalid := 0
	for _, f := range report.Files {
		if !f.Valid {
			invalid++
		}
	}
	failed := len(rules.Failed(report.Tests))
	if invalid > 0 || failed > 0 {
		return cli.NewCommandError("lint", fmt.Errorf("%d invalid file(s), %d failed test(s)", invalid, failed))
	}
	return nil
}

// lintErrors flattens a parser error into diagnostics.
func lintErrors(err error) []LintError {
	var list *exprerrors.ErrorList
	if errors.As(err, &list) {
		out := make([]LintError, 0, len(list.Errors))
		for _, e := range list.Errors {
			out = append(out, lintError(e))
		}
		return out
	}

	var single *exprerrors.Error
	if errors.As(err, &single) {
		return []LintError{lintError(single)}
	}

	return []LintError{{Message: err.Error(), Type: "error"}}
}

func lintError(e *exprerrors.Error) LintError {
	return LintError{
		Line:       e.Location.Line,
		Column:     e.Location.Column,
		Message:    e.Message,
		Type:       string(e.Type),
		Suggestion: e.Suggestion,
	}
}

// junitResults reports each invalid file as a failed case ahead of the
// rule tests.
func junitResults(report LintReport) []rules.TestResult {
	var results []rules.TestResult
	for _, f := range report.Files {
		if f.Valid {
			continue
		}
		for _, e := range f.Errors {
			results = append(results, rules.TestResult{
				File: f.File,
				Rule: "validate",
				Err:  errors.New(formatLintError(e)),
			})
		}
	}
	return append(results, report.Tests...)
}

func outputLintText(w io.Writer, report LintReport) error {
	for _, f := range report.Files {
		if f.Valid {
			fmt.Fprintf(w, "✓ %s (%d rules)\n", f.File, f.Rules)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", f.File)
		for _, e := range f.Errors {
			fmt.Fprintf(w, "  %s\n", formatLintError(e))
			if e.Suggestion != "" {
				fmt.Fprintf(w, "    suggestion: %s\n", e.Suggestion)
			}
		}
	}

	if len(report.Tests) > 0 {
		fmt.Fprintln(w)
		if err := (&cli.TextFormatter{}).FormatTo(w, report.Tests); err != nil {
			return err
		}
		failed := len(rules.Failed(report.Tests))
		fmt.Fprintf(w, "\n%d tests, %d passed, %d failed\n", len(report.Tests), len(report.Tests)-failed, failed)
	}
	return nil
}

func formatLintError(e LintError) string {
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: [%s] %s", e.Line, e.Column, e.Type, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}
