package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestContextAccessors(t *testing.T) {
	tests := []struct {
		name string
		with func(context.Context, string) context.Context
		get  func(context.Context) string
	}{
		{"request id", WithRequestID, GetRequestID},
		{"rule", WithRule, GetRule},
		{"operation", WithOperation, GetOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.get(context.Background()); got != "" {
				t.Errorf("get(empty) = %q, want empty", got)
			}
			ctx := tt.with(context.Background(), "value")
			if got := tt.get(ctx); got != "value" {
				t.Errorf("get() = %q, want %q", got, "value")
			}
		})
	}
}

func TestContextAttrs(t *testing.T) {
	if attrs := contextAttrs(context.Background()); len(attrs) != 0 {
		t.Errorf("contextAttrs(empty) = %v, want none", attrs)
	}

	ctx := WithOperation(WithRequestID(context.Background(), "r1"), "evaluate")
	attrs := contextAttrs(ctx)
	want := []slog.Attr{slog.String("request_id", "r1"), slog.String("operation", "evaluate")}
	if len(attrs) != len(want) {
		t.Fatalf("contextAttrs() = %v, want %v", attrs, want)
	}
	for i := range want {
		if !attrs[i].Equal(want[i]) {
			t.Errorf("attrs[%d] = %v, want %v", i, attrs[i], want[i])
		}
	}
}
