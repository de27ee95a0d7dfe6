package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"mercator-hq/symbolic/pkg/cli"
	"mercator-hq/symbolic/pkg/engine"
	"mercator-hq/symbolic/pkg/rules"
)

var rewriteFlags struct {
	rules  string
	format string
	steps  bool
}

var rewriteCmd = &cobra.Command{
	Use:   "rewrite --rules PATH <expression>",
	Short: "Rewrite an expression with a rule set",
	Long: `Canonicalize an expression and apply the rules from a rule file or
directory until no rule fires.

Examples:
  # Apply a single rule file
  symbolic rewrite --rules rules/simplify.yaml "(a * 1) + 0"

  # Show every rule application
  symbolic rewrite --rules rules/ --steps "x * x + 0"

  # JSON output
  symbolic rewrite --rules rules/ --format json "x * 1"`,
	Args: cobra.MinimumNArgs(1),
	RunE: rewriteExpression,
}

func init() {
	rootCmd.AddCommand(rewriteCmd)

	rewriteCmd.Flags().StringVarP(&rewriteFlags.rules, "rules", "r", "", "rule file or directory (required)")
	rewriteCmd.Flags().StringVar(&rewriteFlags.format, "format", "text", "output format: text, json")
	rewriteCmd.Flags().BoolVar(&rewriteFlags.steps, "steps", false, "print each rule application")
}

// RewriteResult is the JSON output of rewrite.
type RewriteResult struct {
	Input     string        `json:"input"`
	Canonical string        `json:"canonical"`
	Result    string        `json:"result"`
	RuleSet   string        `json:"rule_set"`
	Passes    int           `json:"passes"`
	Rewrites  int           `json:"rewrites"`
	Steps     []engine.Step `json:"steps,omitempty"`
}

func rewriteExpression(cmd *cobra.Command, args []string) error {
	if rewriteFlags.rules == "" {
		return cli.NewConfigError("rules", "--rules must be specified")
	}
	format, err := cli.ParseFormat(rewriteFlags.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := commandLogger()
	eng, err := engine.NewEngine(engineConfig(cfg), logger)
	if err != nil {
		return cli.NewCommandError("rewrite", err)
	}
	if err := rules.NewLoader(rewriteFlags.rules, eng, logger).Load(); err != nil {
		return cli.NewCommandError("rewrite", err)
	}

	input := strings.Join(args, " ")
	outcome, err := eng.Rewrite(context.Background(), input)
	if err != nil {
		fmt.Fprintln(stderr(cmd), input)
		fmt.Fprintln(stderr(cmd), cli.RenderExpressionError(err, 0))
		return cli.NewCommandError("rewrite", err)
	}

	result := RewriteResult{
		Input:     input,
		Canonical: outcome.Input.String(),
		Result:    outcome.Output.String(),
		RuleSet:   eng.Rules().Name(),
		Passes:    outcome.Report.Passes,
		Rewrites:  outcome.Report.Rewrites,
		Steps:     outcome.Report.Steps,
	}

	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(stdout(cmd), result)
	}

	out := stdout(cmd)
	if rewriteFlags.steps {
		for _, step := range result.Steps {
			fmt.Fprintf(out, "  %s: %s => %s", step.Rule, step.Before, step.After)
			if step.Rewrites > 1 {
				fmt.Fprintf(out, " (x%d)", step.Rewrites)
			}
			fmt.Fprintln(out)
		}
	}
	_, err = fmt.Fprintln(out, result.Result)
	return err
}
