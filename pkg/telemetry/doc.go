// Package telemetry groups the observability packages of the symbolic
// service.
//
// # Components
//
//   - logging: Structured logging over log/slog with request and rule
//     fields taken from the context
//   - metrics: Prometheus counters and histograms for evaluations, rule
//     firings and non-convergent rewrites
//   - health: Liveness and readiness checks with HTTP endpoints
//   - tracing: OpenTelemetry spans exported over OTLP gRPC
//
// # Usage
//
//	cfg := config.GetConfig()
//
//	l, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
//	if err != nil {
//		return err
//	}
//	slog.SetDefault(l.Slog())
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	eng.WithRecorder(collector)
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("rules", health.RulesCheck(func() int {
//		return eng.Rules().Len()
//	}))
//
// Metric updates are lock-free counter increments; rule names used as
// label values are capped so a large rule set cannot explode cardinality.
package telemetry
