package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell/config"
)

func Test_Telemetry_DisabledIsNil(t *testing.T) {
	// act
	tel := newTelemetry(config.ObservabilityConfig{Enabled: false}, log.New(&bytes.Buffer{}))

	// assert
	assert.Nil(t, tel)
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func Test_Telemetry_ContextualLoggerCarriesTheSpanIDs(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	tel := newTelemetry(config.ObservabilityConfig{Enabled: true, ServiceName: "shelvingctl-test"}, logger)
	require.NotNil(t, tel)
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })

	ctx, span := tel.tracerProvider.Tracer("test").Start(context.Background(), "place book")

	// act
	tel.contextualLogger().InfoContext(ctx, "placing book", "shelf_id", "s-1")
	span.End()

	// assert
	output := buf.String()
	assert.Contains(t, output, "placing book")
	assert.Contains(t, output, "shelf_id=s-1")
	assert.Contains(t, output, "trace_id="+span.SpanContext().TraceID().String())
	assert.Contains(t, output, "span_id="+span.SpanContext().SpanID().String())
}

func Test_Telemetry_ContextualLoggerWithoutSpan(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	tel := newTelemetry(config.ObservabilityConfig{Enabled: true, ServiceName: "shelvingctl-test"}, log.New(&buf))
	require.NotNil(t, tel)
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })

	// act
	tel.contextualLogger().WarnContext(context.Background(), "no span here")

	// assert
	assert.Contains(t, buf.String(), "no span here")
	assert.NotContains(t, buf.String(), "trace_id")
}
