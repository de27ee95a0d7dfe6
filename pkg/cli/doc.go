/*
Package cli provides helpers shared by the symbolic commands.

Output formatting:

Commands print results as text, JSON, CSV (tables) or JUnit XML (rule test
results):

	format, err := cli.ParseFormat(flagValue)
	formatter := cli.NewFormatter(format)
	table := &cli.Table{Headers: []string{"ID", "ARITY"}, Rows: rows}
	if err := formatter.FormatTo(os.Stdout, table); err != nil {
		return err
	}

Expression errors:

RenderExpressionError points a caret at the offending column:

	> 1 + * 2
	      ^ unexpected '*'

Signal handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
