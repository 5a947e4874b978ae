package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

const (
	CommandHandlerDurationMetric          = "commandhandler_handle_duration_seconds"
	CommandHandlerCallsMetric             = "commandhandler_handle_calls_total"
	CommandHandlerIdempotentMetric        = "commandhandler_idempotent_operations_total"
	CommandHandlerRetriesMetric           = "commandhandler_retries_total"
	CommandHandlerRetryDelayMetric        = "commandhandler_retry_delay_seconds"
	CommandHandlerMaxRetriesReachedMetric = "commandhandler_max_retries_reached_total"
	QueryHandlerDurationMetric            = "queryhandler_handle_duration_seconds"
	QueryHandlerCallsMetric               = "queryhandler_handle_calls_total"
	SpanNameCommandHandle                 = "commandhandler.handle"
	SpanNameQueryHandle                   = "queryhandler.handle"
	StatusSuccess                         = "success"
	StatusError                           = "error"
	StatusIdempotent                      = "idempotent"
	StatusRejected                        = "rejected"
	StatusCanceled                        = "canceled"
	StatusTimeout                         = "timeout"
	StatusConcurrencyConflict             = "concurrency_conflict"
	LogMsgCommandStarted                  = "command handler started"
	LogMsgCommandCompleted                = "command handler completed"
	LogMsgCommandRejected                 = "command handler rejected command"
	LogMsgCommandFailed                   = "command handler failed"
	LogMsgQueryStarted                    = "query handler started"
	LogMsgQueryCompleted                  = "query handler completed"
	LogMsgQueryFailed                     = "query handler failed"
	LogAttrCommandType                    = "command_type"
	LogAttrQueryType                      = "query_type"
	LogAttrStatus                         = "status"
	LogAttrDurationMS                     = "duration_ms"
	LogAttrBusinessOutcome                = "business_outcome"
	LogAttrError                          = "error"
	LogAttrAttempts                       = "attempts"
	LogAttrErrorType                      = "error_type"
	LogAttrAttemptNumber                  = "attempt_number"
)

// Interface aliases so that slices and wrappers depend on shell only.
type (
	MetricsCollector           = eventstore.MetricsCollector
	ContextualMetricsCollector = eventstore.ContextualMetricsCollector
	TracingCollector           = eventstore.TracingCollector
	SpanContext                = eventstore.SpanContext
	ContextualLogger           = eventstore.ContextualLogger
	Logger                     = eventstore.Logger
)

// StatusOf classifies the error of a handler call.
// Domain rejections (capacity, not found, conflicts, invalid input) are "rejected", not "error".
func StatusOf(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case IsCancellationError(err):
		return StatusCanceled
	case IsTimeoutError(err):
		return StatusTimeout
	case IsConcurrencyConflictError(err):
		return StatusConcurrencyConflict
	case IsDomainError(err):
		return StatusRejected
	default:
		return StatusError
	}
}

func IsCancellationError(err error) bool {
	return errors.Is(err, context.Canceled)
}

func IsTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

func IsConcurrencyConflictError(err error) bool {
	return errors.Is(err, eventstore.ErrConcurrencyConflict)
}

func IsDomainError(err error) bool {
	return errors.Is(err, core.ErrNotFound) ||
		errors.Is(err, core.ErrConflict) ||
		errors.Is(err, core.ErrCapacityExceeded) ||
		errors.Is(err, core.ErrInvalidArgument) ||
		errors.Is(err, core.ErrIntegrityViolation)
}

func BuildCommandLabels(commandType, status string) map[string]string {
	return map[string]string{LogAttrCommandType: commandType, LogAttrStatus: status}
}

func BuildQueryLabels(queryType, status string) map[string]string {
	return map[string]string{LogAttrQueryType: queryType, LogAttrStatus: status}
}

func BuildRetryLabels(commandType string, attemptNumber int, errorType string) map[string]string {
	return map[string]string{
		LogAttrCommandType:   commandType,
		LogAttrAttemptNumber: strconv.Itoa(attemptNumber),
		LogAttrErrorType:     errorType,
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// RecordCommandMetrics records duration and call count, and counts idempotent calls separately.
func RecordCommandMetrics(ctx context.Context, collector MetricsCollector, commandType, status string, duration time.Duration) {
	if collector == nil {
		return
	}

	labels := BuildCommandLabels(commandType, status)
	recordDuration(ctx, collector, CommandHandlerDurationMetric, duration, labels)
	incrementCounter(ctx, collector, CommandHandlerCallsMetric, labels)

	if status == StatusIdempotent {
		incrementCounter(ctx, collector, CommandHandlerIdempotentMetric, labels)
	}
}

// RecordRetryMetrics turns the retry metadata of a HandlerResult into metrics.
func RecordRetryMetrics(ctx context.Context, collector MetricsCollector, commandType string, result HandlerResult) {
	if collector == nil {
		return
	}

	if result.RetryAttempts > 1 {
		incrementCounter(ctx, collector, CommandHandlerRetriesMetric,
			BuildRetryLabels(commandType, result.RetryAttempts-1, result.LastErrorType))
		recordDuration(ctx, collector, CommandHandlerRetryDelayMetric, result.TotalRetryDelay,
			map[string]string{LogAttrCommandType: commandType})
	}

	if result.RetriesExhausted {
		incrementCounter(ctx, collector, CommandHandlerMaxRetriesReachedMetric,
			map[string]string{LogAttrCommandType: commandType, LogAttrErrorType: result.LastErrorType})
	}
}

func RecordQueryMetrics(ctx context.Context, collector MetricsCollector, queryType, status string, duration time.Duration) {
	if collector == nil {
		return
	}

	labels := BuildQueryLabels(queryType, status)
	recordDuration(ctx, collector, QueryHandlerDurationMetric, duration, labels)
	incrementCounter(ctx, collector, QueryHandlerCallsMetric, labels)
}

// StartCommandSpan returns ctx unchanged and a nil span when tracing is disabled.
func StartCommandSpan(ctx context.Context, tracingCollector TracingCollector, commandType string) (context.Context, SpanContext) {
	if tracingCollector == nil {
		return ctx, nil
	}

	return tracingCollector.StartSpan(ctx, SpanNameCommandHandle, map[string]string{LogAttrCommandType: commandType})
}

func StartQuerySpan(ctx context.Context, tracingCollector TracingCollector, queryType string) (context.Context, SpanContext) {
	if tracingCollector == nil {
		return ctx, nil
	}

	return tracingCollector.StartSpan(ctx, SpanNameQueryHandle, map[string]string{LogAttrQueryType: queryType})
}

// FinishSpan completes a command or query span.
func FinishSpan(tracingCollector TracingCollector, span SpanContext, status string, duration time.Duration, err error) {
	if tracingCollector == nil || span == nil {
		return
	}

	attrs := map[string]string{
		LogAttrStatus:     status,
		LogAttrDurationMS: fmt.Sprintf("%.2f", ToMilliseconds(duration)),
	}

	if err != nil {
		attrs[LogAttrError] = err.Error()
	}

	tracingCollector.FinishSpan(span, status, attrs)
}

// LogStart logs at info level. The contextual logger wins when both are configured.
func LogStart(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg, typeAttr, typeName string) {
	switch {
	case contextualLogger != nil:
		contextualLogger.InfoContext(ctx, msg, typeAttr, typeName)
	case logger != nil:
		logger.Info(msg, typeAttr, typeName)
	}
}

func LogSuccess(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	msg, typeAttr, typeName, outcome string,
	duration time.Duration,
) {

	args := []any{typeAttr, typeName, LogAttrBusinessOutcome, outcome, LogAttrDurationMS, ToMilliseconds(duration)}

	switch {
	case contextualLogger != nil:
		contextualLogger.InfoContext(ctx, msg, args...)
	case logger != nil:
		logger.Info(msg, args...)
	}
}

// LogFailure logs domain rejections at warn level and everything else at error level.
func LogFailure(ctx context.Context, logger Logger, contextualLogger ContextualLogger, typeAttr, typeName string, err error) {
	args := []any{typeAttr, typeName, LogAttrStatus, StatusOf(err), LogAttrError, err.Error()}

	msg := LogMsgCommandFailed
	if typeAttr == LogAttrQueryType {
		msg = LogMsgQueryFailed
	}

	if IsDomainError(err) {
		if typeAttr == LogAttrCommandType {
			msg = LogMsgCommandRejected
		}

		switch {
		case contextualLogger != nil:
			contextualLogger.WarnContext(ctx, msg, args...)
		case logger != nil:
			logger.Warn(msg, args...)
		}

		return
	}

	switch {
	case contextualLogger != nil:
		contextualLogger.ErrorContext(ctx, msg, args...)
	case logger != nil:
		logger.Error(msg, args...)
	}
}

func recordDuration(ctx context.Context, collector MetricsCollector, metric string, duration time.Duration, labels map[string]string) {
	if contextual, ok := collector.(ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	collector.RecordDuration(metric, duration, labels)
}

func incrementCounter(ctx context.Context, collector MetricsCollector, metric string, labels map[string]string) {
	if contextual, ok := collector.(ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	collector.IncrementCounter(metric, labels)
}
