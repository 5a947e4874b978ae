package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore/oteladapters"
)

func newTracing(t *testing.T) (*oteladapters.TracingCollector, *tracetest.SpanRecorder) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	return oteladapters.NewTracingCollector(provider.Tracer("test")), recorder
}

func Test_TracingCollector_FinishSpan_RecordsAttributesAndStatus(t *testing.T) {
	testCases := []struct {
		status   string
		expected codes.Code
	}{
		{status: "success", expected: codes.Ok},
		{status: "idempotent", expected: codes.Ok},
		{status: "rejected", expected: codes.Ok},
		{status: "error", expected: codes.Error},
		{status: "canceled", expected: codes.Error},
		{status: "concurrency_conflict", expected: codes.Error},
		{status: "conflict", expected: codes.Error},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			// arrange
			collector, recorder := newTracing(t)

			// act
			ctx, span := collector.StartSpan(context.Background(), "eventstore.append", map[string]string{"engine": "memory"})
			collector.FinishSpan(span, tc.status, map[string]string{"event_count": "2"})

			// assert
			assert.True(t, trace.SpanContextFromContext(ctx).IsValid())
			ended := recorder.Ended()
			require.Len(t, ended, 1)
			assert.Equal(t, "eventstore.append", ended[0].Name())
			assert.Equal(t, tc.expected, ended[0].Status().Code)
			assert.Contains(t, ended[0].Attributes(), attribute.String("engine", "memory"))
			assert.Contains(t, ended[0].Attributes(), attribute.String("event_count", "2"))
		})
	}
}

func Test_TracingCollector_UnknownStatus_BecomesAttribute(t *testing.T) {
	// arrange
	collector, recorder := newTracing(t)
	_, span := collector.StartSpan(context.Background(), "op", nil)

	// act
	collector.FinishSpan(span, "weird", nil)

	// assert
	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.String("status", "weird"))
}
