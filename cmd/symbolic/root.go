package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"mercator-hq/symbolic/pkg/cli"
	"mercator-hq/symbolic/pkg/config"
	"mercator-hq/symbolic/pkg/engine"
	"mercator-hq/symbolic/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "symbolic",
	Short: "Symbolic - expression parser and rewrite engine",
	Long: `Symbolic parses algebraic expressions into a canonical tree form and
rewrites them with pattern rules loaded from YAML files.

It provides:
  - Canonical rendering with minimal parentheses
  - Flattening of associative operators such as + and *
  - Pattern rules with captures, commutative matching and hot reload
  - An HTTP service with evaluation history and Prometheus metrics`,
	Version:      Version,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults and SYMBOLIC_* environment when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the configuration for one-shot commands. serve uses the
// global configuration instead.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("config", err.Error())
	}
	return cfg, nil
}

// commandLogger returns a text logger on stderr for interactive commands.
// Only warnings are shown unless --verbose is set.
func commandLogger() *slog.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Config{
		Level:  level,
		Format: string(logging.FormatText),
		Writer: os.Stderr,
	})
	if err != nil {
		return slog.Default()
	}
	return logger.Slog()
}

// engineConfig maps the engine and server sections onto engine limits.
func engineConfig(cfg *config.Config) *engine.EngineConfig {
	return engine.DefaultEngineConfig().
		WithMaxRewritesPerNode(cfg.Engine.MaxRewritesPerNode).
		WithMaxPasses(cfg.Engine.MaxPasses).
		WithMaxExpressionLength(cfg.Server.MaxExpressionBytes)
}

// stdout returns the command's output writer. Tests call the run functions
// with a nil command.
func stdout(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return os.Stdout
	}
	return cmd.OutOrStdout()
}

func stderr(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return os.Stderr
	}
	return cmd.ErrOrStderr()
}
