package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"mercator-hq/symbolic/pkg/cli"
	"mercator-hq/symbolic/pkg/engine"
)

var evalFlags struct {
	format string
}

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Print the canonical form of an expression",
	Long: `Parse an expression and print its canonical form.

Arguments are joined with spaces, so quoting is optional for simple input.
Parse errors are shown with a caret under the offending column.

Examples:
  # Flatten nested sums
  symbolic eval "(a + b) + c"

  # JSON output
  symbolic eval --format json "2x^2"`,
	Args: cobra.MinimumNArgs(1),
	RunE: evalExpression,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVar(&evalFlags.format, "format", "text", "output format: text, json")
}

// EvalResult is the JSON output of eval.
type EvalResult struct {
	Input  string `json:"input"`
	Result string `json:"result"`
}

func evalExpression(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(evalFlags.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	eng, err := engine.NewEngine(engineConfig(cfg), commandLogger())
	if err != nil {
		return cli.NewCommandError("eval", err)
	}

	input := strings.Join(args, " ")
	tree, err := eng.Evaluate(context.Background(), input)
	if err != nil {
		fmt.Fprintln(stderr(cmd), input)
		fmt.Fprintln(stderr(cmd), cli.RenderExpressionError(err, 0))
		return cli.NewCommandError("eval", err)
	}

	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(stdout(cmd), EvalResult{Input: input, Result: tree.String()})
	}
	_, err = fmt.Fprintln(stdout(cmd), tree.String())
	return err
}
