package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/propagation"
)

func newPropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

// Extract reads W3C trace context and baggage from request headers into
// ctx. Headers without a traceparent leave ctx unchanged.
func Extract(ctx context.Context, header http.Header) context.Context {
	return newPropagator().Extract(ctx, propagation.HeaderCarrier(header))
}

// Inject writes the span context in ctx into header.
func Inject(ctx context.Context, header http.Header) {
	newPropagator().Inject(ctx, propagation.HeaderCarrier(header))
}
