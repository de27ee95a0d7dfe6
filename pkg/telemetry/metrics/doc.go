// Package metrics exposes the service's Prometheus metrics.
//
// A Collector registers evaluation and rule metrics in its own registry:
//
//	symbolic_engine_evaluations_total{status}
//	symbolic_engine_evaluation_duration_seconds{operation}
//	symbolic_engine_rewrites_total{rule}
//	symbolic_engine_non_convergent_total{rule}
//	symbolic_engine_rules_loaded
//
// The Collector satisfies engine.Recorder and engine.EvaluationRecorder.
// Rule labels are capped by a CardinalityLimiter; rules past the cap are
// counted under "other". Handler serves the registry over HTTP.
package metrics
