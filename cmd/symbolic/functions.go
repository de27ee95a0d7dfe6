package main

import (
	"strconv"

	"github.com/spf13/cobra"
	"mercator-hq/symbolic/pkg/cli"
	"mercator-hq/symbolic/pkg/expr/function"
)

var functionsFlags struct {
	format string
}

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List the known operators and functions",
	Long: `List every operator and named function the parser recognises together
with its syntax, arity, precedence, commutativity and associativity.

Examples:
  symbolic functions
  symbolic functions --format json
  symbolic functions --format csv`,
	Args: cobra.NoArgs,
	RunE: listFunctions,
}

func init() {
	rootCmd.AddCommand(functionsCmd)

	functionsCmd.Flags().StringVar(&functionsFlags.format, "format", "text", "output format: text, json, csv")
}

// FunctionEntry is the JSON output of functions.
type FunctionEntry struct {
	Identifier    string `json:"identifier"`
	Syntax        string `json:"syntax"`
	Arity         int    `json:"arity"`
	ArityType     string `json:"arity_type"`
	Precedence    int    `json:"precedence"`
	Commutativity string `json:"commutativity"`
	Associativity string `json:"associativity"`
}

func listFunctions(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(functionsFlags.format)
	if err != nil {
		return err
	}

	catalog := function.Catalog()
	entries := make([]FunctionEntry, 0, len(catalog))
	for _, f := range catalog {
		entries = append(entries, FunctionEntry{
			Identifier:    f.Identifier,
			Syntax:        f.Syntax.String(),
			Arity:         f.Arity,
			ArityType:     f.ArityType.String(),
			Precedence:    f.Precedence.Level(),
			Commutativity: f.Commutativity.String(),
			Associativity: f.Associativity.String(),
		})
	}

	switch format {
	case cli.FormatJSON:
		return cli.NewFormatter(format).FormatTo(stdout(cmd), entries)
	case cli.FormatJUnit:
		return cli.NewConfigError("format", "junit output is only available for lint")
	default:
		return cli.NewFormatter(format).FormatTo(stdout(cmd), functionTable(entries))
	}
}

func functionTable(entries []FunctionEntry) *cli.Table {
	table := &cli.Table{
		Headers: []string{"IDENTIFIER", "SYNTAX", "ARITY", "PRECEDENCE", "COMMUTATIVITY", "ASSOCIATIVITY"},
	}
	for _, e := range entries {
		arity := strconv.Itoa(e.Arity)
		if e.ArityType == function.ArityDynamic.String() {
			arity += "+"
		}
		table.Rows = append(table.Rows, []string{
			e.Identifier,
			e.Syntax,
			arity,
			strconv.Itoa(e.Precedence),
			e.Commutativity,
			e.Associativity,
		})
	}
	return table
}
