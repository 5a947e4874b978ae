package shell

import "time"

// HandlerResult is what a command handler reports besides its error:
// the business outcome (idempotent or not) and how the retry loop went.
type HandlerResult struct {
	// Idempotent is true when no state change was needed. It is an outcome, not an error.
	Idempotent bool

	// RetryAttempts is the total number of attempts made (1 for no retries).
	RetryAttempts int

	// TotalRetryDelay is the time spent sleeping between attempts.
	TotalRetryDelay time.Duration

	// LastErrorType is one of "none", "concurrency_conflict", "context_canceled",
	// "context_deadline_exceeded", "other".
	LastErrorType string

	// RetriesExhausted is true when every attempt ended in a retryable error.
	RetriesExhausted bool
}

func NewSuccessResult(retryMetrics RetryMetrics) HandlerResult {
	return resultFrom(retryMetrics, false)
}

func NewIdempotentResult(retryMetrics RetryMetrics) HandlerResult {
	return resultFrom(retryMetrics, true)
}

// NewErrorResult keeps the retry metadata of a failed handler call.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return resultFrom(retryMetrics, false)
}

func resultFrom(retryMetrics RetryMetrics, idempotent bool) HandlerResult {
	return HandlerResult{
		Idempotent:       idempotent,
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}
