package tracing

import (
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	// SamplerAlways samples every root span.
	SamplerAlways = "always"

	// SamplerNever samples no root spans.
	SamplerNever = "never"

	// SamplerRatio samples a fraction of root spans by trace ID.
	SamplerRatio = "ratio"
)

// createSampler builds the root sampler for strategy and wraps it in
// ParentBased, so a span arriving with a sampled parent is always kept
// and one with an unsampled parent is always dropped.
func createSampler(strategy string, ratio float64) (sdktrace.Sampler, error) {
	var root sdktrace.Sampler
	switch strategy {
	case SamplerAlways:
		root = sdktrace.AlwaysSample()
	case SamplerNever:
		root = sdktrace.NeverSample()
	case SamplerRatio:
		if ratio < 0 || ratio > 1 {
			return nil, fmt.Errorf("sample ratio must be between 0.0 and 1.0, got %f", ratio)
		}
		root = sdktrace.TraceIDRatioBased(ratio)
	default:
		return nil, fmt.Errorf("unknown sampler %q", strategy)
	}
	return sdktrace.ParentBased(root), nil
}
