package core

// DecisionResult is the outcome of a Decide function.
// Construct it only with IdempotentDecision, SuccessDecision, ErrorDecision or RejectionDecision.
type DecisionResult struct {
	Outcome string       // "idempotent", "success", or "error"
	Events  DomainEvents // empty for idempotent decisions, appended atomically otherwise
	Err     error
}

const (
	idempotentOutcome = "idempotent"
	successOutcome    = "success"
	errorOutcome      = "error"
)

// IdempotentDecision means the state already is what the command asks for.
func IdempotentDecision() DecisionResult {
	return DecisionResult{Outcome: idempotentOutcome}
}

// SuccessDecision carries one or more events that must be appended together.
func SuccessDecision(events ...DomainEvent) DecisionResult {
	return DecisionResult{
		Outcome: successOutcome,
		Events:  events,
	}
}

// ErrorDecision records a business rule violation as a failure event and returns err to the caller.
func ErrorDecision(event DomainEvent, err error) DecisionResult {
	return DecisionResult{
		Outcome: errorOutcome,
		Events:  DomainEvents{event},
		Err:     err,
	}
}

// RejectionDecision refuses the command without recording a failure event.
// Used where no failure fact exists for the command, e.g. input that references nothing.
func RejectionDecision(err error) DecisionResult {
	return DecisionResult{
		Outcome: errorOutcome,
		Err:     err,
	}
}

// HasEventsToAppend returns true if there is at least one event to append.
func (r DecisionResult) HasEventsToAppend() bool {
	return r.Outcome != idempotentOutcome && len(r.Events) > 0
}

// HasError returns the error of an error decision, otherwise nil.
func (r DecisionResult) HasError() error {
	if r.Outcome == errorOutcome {
		return r.Err
	}

	return nil
}
