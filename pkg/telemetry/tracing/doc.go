// Package tracing provides OpenTelemetry distributed tracing for the
// symbolic server.
//
// Spans are exported over OTLP gRPC. When tracing is disabled the package
// hands out a noop tracer, so callers can create spans unconditionally.
//
// # Configuration
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: "localhost:4317"
//	    insecure: true
//	    sampler: ratio
//	    sample_ratio: 0.1
//
// # Propagation
//
// Incoming requests carrying a W3C traceparent header continue the
// caller's trace. Use Extract on the server side and Inject on clients.
package tracing
