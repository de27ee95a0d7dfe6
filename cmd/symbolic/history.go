package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"mercator-hq/symbolic/pkg/cli"
	"mercator-hq/symbolic/pkg/history"
)

var historyFlags struct {
	db        string
	limit     int
	offset    int
	operation string
	failed    bool
	format    string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded evaluations",
	Long: `Show evaluations and rewrites recorded by the HTTP service, newest first.

Examples:
  # Last 20 records
  symbolic history --limit 20

  # Failed rewrites as JSON
  symbolic history --operation rewrite --failed --format json

  # Apply the retention policy now
  symbolic history prune`,
	Args: cobra.NoArgs,
	RunE: showHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete records outside the retention policy",
	Long: `Delete records older than history.retention_days and, when
history.max_records is set, the oldest records beyond that count.`,
	Args: cobra.NoArgs,
	RunE: pruneHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyCmd.PersistentFlags().StringVar(&historyFlags.db, "db", "", "history database path (uses config if not specified)")
	historyCmd.Flags().IntVar(&historyFlags.limit, "limit", 20, "max results")
	historyCmd.Flags().IntVar(&historyFlags.offset, "offset", 0, "pagination offset")
	historyCmd.Flags().StringVar(&historyFlags.operation, "operation", "", "filter by operation (evaluate, rewrite)")
	historyCmd.Flags().BoolVar(&historyFlags.failed, "failed", false, "only show failed evaluations")
	historyCmd.Flags().StringVar(&historyFlags.format, "format", "text", "output format: text, json, csv")
}

// openHistory opens the SQLite history store named by --db or the config.
func openHistory() (*history.SQLiteStore, *history.PrunerConfig, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	sqliteConfig := history.DefaultSQLiteConfig()
	sqliteConfig.Path = cfg.History.DBPath
	if historyFlags.db != "" {
		sqliteConfig.Path = historyFlags.db
	}

	store, err := history.NewSQLiteStore(sqliteConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history store: %w", err)
	}
	return store, history.PrunerConfigFrom(&cfg.History), nil
}

func showHistory(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(historyFlags.format)
	if err != nil {
		return err
	}
	if format == cli.FormatJUnit {
		return cli.NewConfigError("format", "junit output is only available for lint")
	}
	switch historyFlags.operation {
	case "", "evaluate", "rewrite":
	default:
		return cli.NewConfigError("operation", fmt.Sprintf("unknown operation %q", historyFlags.operation))
	}

	store, _, err := openHistory()
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	defer store.Close()

	ctx := context.Background()
	records, err := store.Query(ctx, &history.Query{
		Operation:  historyFlags.operation,
		FailedOnly: historyFlags.failed,
		Limit:      historyFlags.limit,
		Offset:     historyFlags.offset,
	})
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(stdout(cmd), records)
	}
	return cli.NewFormatter(format).FormatTo(stdout(cmd), historyTable(records))
}

func historyTable(records []*history.Record) *cli.Table {
	table := &cli.Table{
		Headers: []string{"TIME", "OPERATION", "INPUT", "RESULT", "REWRITES", "DURATION"},
	}
	for _, r := range records {
		result := r.Output
		if !r.Succeeded() {
			result = "error: " + r.Error
		}
		table.Rows = append(table.Rows, []string{
			r.CreatedAt.Local().Format(time.RFC3339),
			r.Operation,
			r.Input,
			result,
			strconv.Itoa(r.Rewrites),
			r.Duration.String(),
		})
	}
	return table
}

func pruneHistory(cmd *cobra.Command, args []string) error {
	store, prunerConfig, err := openHistory()
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}
	defer store.Close()

	deleted, err := history.NewPruner(store, prunerConfig).Prune(context.Background())
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}

	_, err = fmt.Fprintf(stdout(cmd), "✓ Deleted %d records\n", deleted)
	return err
}
