// Package observe is the logging, metrics and tracing glue shared by all engines.
// Every collector is optional; a zero Instrumentation is silent.
package observe

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
)

const (
	MetricQueryDuration        = "eventstore_query_duration_seconds"
	MetricAppendDuration       = "eventstore_append_duration_seconds"
	MetricEventsQueried        = "eventstore_events_queried_total"
	MetricEventsAppended       = "eventstore_events_appended_total"
	MetricConcurrencyConflicts = "eventstore_concurrency_conflicts_total"
	MetricDatabaseErrors       = "eventstore_database_errors_total"

	OperationQuery  = "query"
	OperationAppend = "append"

	StatusSuccess  = "success"
	StatusError    = "error"
	StatusConflict = "conflict"

	ErrorTypeBuildQuery   = "build_query"
	ErrorTypeExecQuery    = "exec_query"
	ErrorTypeScanRow      = "scan_row"
	ErrorTypeBuildEvent   = "build_storable_event"
	ErrorTypeRowsAffected = "rows_affected"
	ErrorTypeNoEvents     = "no_events"

	spanPrefix           = "eventstore."
	attrOperation        = "operation"
	attrEngine           = "engine"
	attrStatus           = "status"
	attrErrorType        = "error_type"
	attrEventCount       = "event_count"
	attrMaxSequence      = "max_sequence"
	attrExpectedSequence = "expected_sequence"
	attrDurationMS       = "duration_ms"
	attrError            = "error"
	attrQuery            = "query"
	attrRowsAffected     = "rows_affected"
	logMsgOperation      = "eventstore operation: "
	logMsgSQLExecuted    = "executed sql for: "
)

// Instrumentation bundles the optional collectors of an engine.
type Instrumentation struct {
	Engine           string
	Logger           eventstore.Logger
	ContextualLogger eventstore.ContextualLogger
	Metrics          eventstore.MetricsCollector
	Tracing          eventstore.TracingCollector
}

// Operation tracks one Query or Append call from start to finish.
type Operation struct {
	inst  Instrumentation
	ctx   context.Context
	name  string
	span  eventstore.SpanContext
	start time.Time
}

// Start opens a span (if tracing is configured) and starts the clock.
func (i Instrumentation) Start(ctx context.Context, operation string, attrs map[string]string) (context.Context, *Operation) {
	op := &Operation{inst: i, name: operation, start: time.Now()}

	if i.Tracing != nil {
		spanAttrs := map[string]string{attrOperation: operation, attrEngine: i.Engine}
		for k, v := range attrs {
			spanAttrs[k] = v
		}

		ctx, op.span = i.Tracing.StartSpan(ctx, spanPrefix+operation, spanAttrs)
	}

	op.ctx = ctx

	return ctx, op
}

// SQL logs an executed statement at debug level.
func (o *Operation) SQL(query string) {
	o.debug(logMsgSQLExecuted+o.name, attrDurationMS, ToMilliseconds(time.Since(o.start)), attrQuery, query)
}

// QuerySucceeded finishes a successful query.
func (o *Operation) QuerySucceeded(eventCount int, maxSequenceNumber eventstore.MaxSequenceNumberUint) {
	duration := time.Since(o.start)
	o.recordDuration(MetricQueryDuration, duration, StatusSuccess)
	o.recordValue(MetricEventsQueried, float64(eventCount))
	o.info(logMsgOperation+"query completed", attrEventCount, eventCount, attrDurationMS, ToMilliseconds(duration))
	o.finish(StatusSuccess, map[string]string{
		attrEventCount:  fmt.Sprintf("%d", eventCount),
		attrMaxSequence: fmt.Sprintf("%d", maxSequenceNumber),
	})
}

// AppendSucceeded finishes a successful append.
func (o *Operation) AppendSucceeded(eventCount int) {
	duration := time.Since(o.start)
	o.recordDuration(MetricAppendDuration, duration, StatusSuccess)
	o.recordValue(MetricEventsAppended, float64(eventCount))
	o.info(logMsgOperation+"events appended", attrEventCount, eventCount, attrDurationMS, ToMilliseconds(duration))
	o.finish(StatusSuccess, map[string]string{attrEventCount: fmt.Sprintf("%d", eventCount)})
}

// Conflicted finishes an append that lost the race.
func (o *Operation) Conflicted(expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint, rowsAffected int64) {
	o.recordDuration(MetricAppendDuration, time.Since(o.start), StatusConflict)
	o.increment(MetricConcurrencyConflicts, map[string]string{attrOperation: o.name, attrEngine: o.inst.Engine})
	o.info(
		logMsgOperation+"concurrency conflict detected",
		attrExpectedSequence, expectedMaxSequenceNumber,
		attrRowsAffected, rowsAffected,
	)
	o.finish(StatusConflict, map[string]string{attrExpectedSequence: fmt.Sprintf("%d", expectedMaxSequenceNumber)})
}

// Failed finishes an operation that hit a technical error.
func (o *Operation) Failed(msg string, errorType string, err error, args ...any) {
	metric := MetricQueryDuration
	if o.name == OperationAppend {
		metric = MetricAppendDuration
	}

	o.recordDuration(metric, time.Since(o.start), StatusError)
	o.increment(MetricDatabaseErrors, map[string]string{attrOperation: o.name, attrEngine: o.inst.Engine, attrErrorType: errorType})

	allArgs := append([]any{attrError, err.Error()}, args...)
	if o.inst.Logger != nil {
		o.inst.Logger.Error(msg, allArgs...)
	}

	if o.inst.ContextualLogger != nil {
		o.inst.ContextualLogger.ErrorContext(o.ctx, msg, allArgs...)
	}

	o.finish(StatusError, map[string]string{attrErrorType: errorType})
}

func (o *Operation) finish(status string, attrs map[string]string) {
	if o.inst.Tracing == nil || o.span == nil {
		return
	}

	o.span.SetStatus(status)
	attrs[attrDurationMS] = fmt.Sprintf("%.3f", ToMilliseconds(time.Since(o.start)))
	o.inst.Tracing.FinishSpan(o.span, status, attrs)
}

func (o *Operation) debug(msg string, args ...any) {
	if o.inst.Logger != nil {
		o.inst.Logger.Debug(msg, args...)
	}

	if o.inst.ContextualLogger != nil {
		o.inst.ContextualLogger.DebugContext(o.ctx, msg, args...)
	}
}

func (o *Operation) info(msg string, args ...any) {
	if o.inst.Logger != nil {
		o.inst.Logger.Info(msg, args...)
	}

	if o.inst.ContextualLogger != nil {
		o.inst.ContextualLogger.InfoContext(o.ctx, msg, args...)
	}
}

func (o *Operation) labels(status string) map[string]string {
	return map[string]string{attrOperation: o.name, attrEngine: o.inst.Engine, attrStatus: status}
}

func (o *Operation) recordDuration(metric string, duration time.Duration, status string) {
	if o.inst.Metrics == nil {
		return
	}

	if c, ok := o.inst.Metrics.(eventstore.ContextualMetricsCollector); ok {
		c.RecordDurationContext(o.ctx, metric, duration, o.labels(status))
		return
	}

	o.inst.Metrics.RecordDuration(metric, duration, o.labels(status))
}

func (o *Operation) recordValue(metric string, value float64) {
	if o.inst.Metrics == nil {
		return
	}

	if c, ok := o.inst.Metrics.(eventstore.ContextualMetricsCollector); ok {
		c.RecordValueContext(o.ctx, metric, value, o.labels(StatusSuccess))
		return
	}

	o.inst.Metrics.RecordValue(metric, value, o.labels(StatusSuccess))
}

func (o *Operation) increment(metric string, labels map[string]string) {
	if o.inst.Metrics == nil {
		return
	}

	if c, ok := o.inst.Metrics.(eventstore.ContextualMetricsCollector); ok {
		c.IncrementCounterContext(o.ctx, metric, labels)
		return
	}

	o.inst.Metrics.IncrementCounter(metric, labels)
}

// ToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func ToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
