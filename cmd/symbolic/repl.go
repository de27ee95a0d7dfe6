package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"mercator-hq/symbolic/pkg/cli"
	"mercator-hq/symbolic/pkg/engine"
	"mercator-hq/symbolic/pkg/rules"
)

const replPrompt = "> "

var replFlags struct {
	rules string
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Evaluate expressions interactively",
	Long: `Read expressions line by line and print their canonical form.

Errors are shown as a caret under the offending column of the input line.
With --rules, each line is also rewritten by the rule set. The session
ends at end of input (Ctrl+D) or on "quit".

Examples:
  # Canonicalize interactively
  symbolic repl

  # Rewrite each line with a rule file
  symbolic repl --rules rules/simplify.yaml`,
	Args: cobra.NoArgs,
	RunE: startRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().StringVarP(&replFlags.rules, "rules", "r", "", "rule file or directory applied to each line")
}

func startRepl(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := commandLogger()
	eng, err := engine.NewEngine(engineConfig(cfg), logger)
	if err != nil {
		return cli.NewCommandError("repl", err)
	}

	if replFlags.rules != "" {
		if err := rules.NewLoader(replFlags.rules, eng, logger).Load(); err != nil {
			return cli.NewCommandError("repl", err)
		}
	}

	var in io.Reader = os.Stdin
	if cmd != nil {
		in = cmd.InOrStdin()
	}

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

	return runRepl(ctx, in, stdout(cmd), eng, replFlags.rules != "")
}

// runRepl runs the read-eval-print loop until in is exhausted, the user
// types quit, or ctx is cancelled.
func runRepl(ctx context.Context, in io.Reader, out io.Writer, eng *engine.Engine, rewrite bool) error {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, replPrompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimRight(scanner.Text(), "\r")
		switch strings.TrimSpace(line) {
		case "":
			continue
		case "quit", "exit":
			return nil
		}

		fmt.Fprintln(out, replLine(ctx, eng, line, rewrite))
	}
}

// replLine evaluates one line and returns the text to print for it.
func replLine(ctx context.Context, eng *engine.Engine, line string, rewrite bool) string {
	if !rewrite {
		tree, err := eng.Evaluate(ctx, line)
		if err != nil {
			return cli.RenderExpressionError(err, len(replPrompt))
		}
		return tree.String()
	}

	outcome, err := eng.Rewrite(ctx, line)
	if err != nil {
		return cli.RenderExpressionError(err, len(replPrompt))
	}
	return outcome.Output.String()
}
