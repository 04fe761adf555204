package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestEnvCarrier(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		var e propagation.TextMapCarrier = CreateEnvCarrier()

		e.Set("a-b", "c")

		assert.Equal(t, "c", e.Get("a-b"), "failed to retrieve set value")
		assert.Equal(t, []string{"a-b"}, e.Keys(), "failed to get set keys")
	})

	t.Run("FromEnv", func(t *testing.T) {
		t.Setenv("TRACEPARENT", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")

		e := CreateEnvCarrier()
		ctx := propagation.TraceContext{}.Extract(context.Background(), e)

		sc := trace.SpanContextFromContext(ctx)
		assert.True(t, sc.IsValid(), "span context should be extracted")
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", sc.TraceID().String())
		assert.Empty(t, e.Keys(), "environment keys are not listed")
	})
}
