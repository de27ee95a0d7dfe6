package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"mercator-hq/symbolic/pkg/cli"
	"mercator-hq/symbolic/pkg/config"
	"mercator-hq/symbolic/pkg/engine"
	"mercator-hq/symbolic/pkg/history"
	"mercator-hq/symbolic/pkg/rules"
	"mercator-hq/symbolic/pkg/server"
	"mercator-hq/symbolic/pkg/telemetry/health"
	"mercator-hq/symbolic/pkg/telemetry/logging"
	"mercator-hq/symbolic/pkg/telemetry/metrics"
	"mercator-hq/symbolic/pkg/telemetry/tracing"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	rules         string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP service",
	Long: `Start the HTTP service with the specified configuration.

The service exposes expression evaluation and rewriting over HTTP, records
each request in the history store and publishes Prometheus metrics.

Endpoints:
  POST /v1/evaluate      canonicalize an expression
  POST /v1/rewrite       rewrite an expression with the loaded rules
  GET  /v1/functions     list operators and functions
  GET  /v1/history       recent evaluations
  GET  /health, /ready   liveness and readiness
  GET  /metrics          Prometheus metrics

Examples:
  # Start with defaults
  symbolic serve

  # Start with custom config
  symbolic serve --config /etc/symbolic/config.yaml

  # Override listen address and rules
  symbolic serve --listen 0.0.0.0:8080 --rules rules/

  # Validate config without starting server
  symbolic serve --dry-run`,
	Args: cobra.NoArgs,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().StringVarP(&serveFlags.rules, "rules", "r", "", "override rules path")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config and rules without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	// Flags override a private copy; the installed configuration is shared.
	loaded := *config.GetConfig()
	cfg := &loaded

	// Apply flag overrides
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}
	if serveFlags.rules != "" {
		cfg.Engine.RulesPath = serveFlags.rules
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	l, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	logger := l.Slog()
	slog.SetDefault(logger)

	out := stdout(cmd)

	eng, err := engine.NewEngine(engineConfig(cfg), logger)
	if err != nil {
		return cli.NewConfigError("engine", err.Error())
	}

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
		if err := collector.RegisterRuntimeCollectors(); err != nil {
			slog.Warn("runtime metrics unavailable", "error", err)
		}
		eng.WithRecorder(collector)
	}

	// Load rules before anything is opened so --dry-run can report them
	var loader *rules.Loader
	if cfg.Engine.RulesPath != "" {
		loader = rules.NewLoader(cfg.Engine.RulesPath, eng, logger)
		if collector != nil {
			loader.WithRecorder(collector).OnLoad(func(rs *engine.RuleSet) {
				collector.SetRulesLoaded(rs.Len())
			})
		}
		if err := loader.Load(); err != nil {
			return cli.NewCommandError("serve", fmt.Errorf("failed to load rules: %w", err))
		}
		fmt.Fprintf(out, "✓ Rules loaded (%d rules from %s)\n", eng.Rules().Len(), cfg.Engine.RulesPath)
	}

	if serveFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	printBanner(cmd, cfg)

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewConfigError("telemetry.tracing", err.Error())
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()
	if tracer.Enabled() {
		fmt.Fprintf(out, "✓ Tracing enabled (exporting to %s)\n", cfg.Telemetry.Tracing.Endpoint)
	}

	checker := health.New(5 * time.Second)
	deps := server.Dependencies{
		Metrics:     collector,
		MetricsPath: cfg.Telemetry.Metrics.Path,
		Health:      checker,
		Tracer:      tracer,
		Logger:      logger,
	}

	// Initialize evaluation history (if enabled)
	if cfg.History.Enabled {
		slog.Info("initializing evaluation history", "path", cfg.History.DBPath)

		sqliteConfig := history.DefaultSQLiteConfig()
		sqliteConfig.Path = cfg.History.DBPath
		store, err := history.NewSQLiteStore(sqliteConfig)
		if err != nil {
			return cli.NewCommandError("serve", fmt.Errorf("failed to open history store: %w", err))
		}
		defer store.Close()

		recorder := history.NewRecorder(store, history.DefaultRecorderConfig())
		defer recorder.Close()

		scheduler := history.NewScheduler(history.NewPruner(store, history.PrunerConfigFrom(&cfg.History)))
		if err := scheduler.Start(ctx); err != nil {
			slog.Warn("failed to start history scheduler", "error", err)
		} else {
			defer scheduler.Stop()
			if next := scheduler.NextRun(); next != nil {
				slog.Debug("history scheduler started", "next_prune", next)
			}
		}

		checker.RegisterOptionalCheck("history", health.PingCheck(store))
		deps.History = store
		deps.Recorder = recorder

		fmt.Fprintln(out, "✓ History store initialized")
	}

	if loader != nil {
		checker.RegisterCheck("rules", health.RulesCheck(func() int {
			return eng.Rules().Len()
		}))

		if cfg.Engine.WatchRules {
			go func() {
				if err := loader.Watch(ctx, rules.DefaultWatcherConfig()); err != nil {
					slog.Error("rule watcher stopped", "error", err)
				}
			}()
			defer loader.Stop()
		}
	}

	srv := server.NewServer(&cfg.Server, eng, deps)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(ctx)
	}()

	if err := waitForServerReady(srv, errChan, 5*time.Second); err != nil {
		return cli.NewCommandError("serve", err)
	}

	addr := srv.Addr().String()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "✓ Server listening on %s\n", addr)
	fmt.Fprintf(out, "✓ Health endpoint: http://%s/health\n", addr)
	if collector != nil {
		fmt.Fprintf(out, "✓ Metrics endpoint: http://%s%s\n", addr, cfg.Telemetry.Metrics.Path)
	}
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	if err := <-errChan; err != nil {
		slog.Error("server stopped with error", "error", err)
		return cli.NewCommandError("serve", err)
	}

	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}

func printBanner(cmd *cobra.Command, cfg *config.Config) {
	out := stdout(cmd)
	fmt.Fprintf(out, "Symbolic v%s\n", Version)
	if cfgFile != "" {
		fmt.Fprintf(out, "Loading configuration from: %s\n", cfgFile)
	}
	fmt.Fprintln(out, "✓ Configuration loaded")

	slog.Debug("engine limits",
		"max_rewrites_per_node", cfg.Engine.MaxRewritesPerNode,
		"max_passes", cfg.Engine.MaxPasses,
	)
	if cfg.History.Enabled {
		slog.Debug("history enabled", "retention_days", cfg.History.RetentionDays)
	}
}

// waitForServerReady polls until the server has bound its listener. It
// fails early if Start returns first.
func waitForServerReady(srv *server.Server, errChan <-chan error, timeout time.Duration) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(timeout)

	for {
		if srv.IsRunning() && srv.Addr() != nil {
			return nil
		}
		select {
		case err := <-errChan:
			if err == nil {
				err = fmt.Errorf("server stopped before it was ready")
			}
			return err
		case <-deadline:
			return fmt.Errorf("server did not start within %s", timeout)
		case <-ticker.C:
		}
	}
}
