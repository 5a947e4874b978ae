package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore/oteladapters"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell/config"
)

// telemetry holds the OpenTelemetry providers of one CLI invocation.
// Finished spans go to the logger at debug level, metrics are summarized on shutdown.
type telemetry struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	reader         *sdkmetric.ManualReader
	logger         *log.Logger
}

func newTelemetry(cfg config.ObservabilityConfig, logger *log.Logger) *telemetry {
	if !cfg.Enabled {
		return nil
	}

	res := resource.NewSchemaless(semconv.ServiceName(cfg.ServiceName))
	reader := sdkmetric.NewManualReader()

	t := &telemetry{
		tracerProvider: sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(spanLogExporter{logger: logger}),
			sdktrace.WithResource(res),
		),
		meterProvider: sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(reader),
			sdkmetric.WithResource(res),
		),
		reader: reader,
		logger: logger,
	}

	otel.SetTracerProvider(t.tracerProvider)
	otel.SetMeterProvider(t.meterProvider)

	return t
}

func (t *telemetry) metrics(name string) *oteladapters.MetricsCollector {
	return oteladapters.NewMetricsCollector(t.meterProvider.Meter(name))
}

func (t *telemetry) tracing(name string) *oteladapters.TracingCollector {
	return oteladapters.NewTracingCollector(t.tracerProvider.Tracer(name))
}

// contextualLogger logs through the CLI logger and stamps each record with the ids of the span in ctx.
func (t *telemetry) contextualLogger() *oteladapters.SlogBridgeLogger {
	return oteladapters.NewSlogBridgeLoggerWithHandler(traceHandler{next: t.logger})
}

// Shutdown logs the collected metrics and flushes the providers. A nil telemetry is a no-op.
func (t *telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}

	var collected metricdata.ResourceMetrics
	if err := t.reader.Collect(ctx, &collected); err == nil {
		for _, scope := range collected.ScopeMetrics {
			for _, m := range scope.Metrics {
				t.logger.Debug("metric", "scope", scope.Scope.Name, "name", m.Name, "points", dataPoints(m.Data))
			}
		}
	}

	return errors.Join(
		t.tracerProvider.Shutdown(ctx),
		t.meterProvider.Shutdown(ctx),
	)
}

func dataPoints(data metricdata.Aggregation) int {
	switch d := data.(type) {
	case metricdata.Sum[int64]:
		return len(d.DataPoints)
	case metricdata.Sum[float64]:
		return len(d.DataPoints)
	case metricdata.Gauge[float64]:
		return len(d.DataPoints)
	case metricdata.Histogram[float64]:
		return len(d.DataPoints)
	default:
		return 0
	}
}

type spanLogExporter struct {
	logger *log.Logger
}

func (e spanLogExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		e.logger.Debug("span",
			"name", span.Name(),
			"trace_id", span.SpanContext().TraceID().String(),
			"duration", span.EndTime().Sub(span.StartTime()),
			"status", span.Status().Code.String(),
		)
	}

	return nil
}

func (e spanLogExporter) Shutdown(context.Context) error {
	return nil
}

type traceHandler struct {
	next slog.Handler
}

func (h traceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h traceHandler) Handle(ctx context.Context, record slog.Record) error {
	if spanContext := trace.SpanContextFromContext(ctx); spanContext.IsValid() {
		record.AddAttrs(
			slog.String("trace_id", spanContext.TraceID().String()),
			slog.String("span_id", spanContext.SpanID().String()),
		)
	}

	return h.next.Handle(ctx, record)
}

func (h traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return traceHandler{next: h.next.WithAttrs(attrs)}
}

func (h traceHandler) WithGroup(name string) slog.Handler {
	return traceHandler{next: h.next.WithGroup(name)}
}
