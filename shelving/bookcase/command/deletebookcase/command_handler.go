package deletebookcase

import (
	"context"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/bookcase"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell"
)

type decider func(history core.DomainEvents, command Command) core.DecisionResult

// CommandHandler runs the deletion cascade. Each bookcase step is its own
// Query -> Unmarshal -> Decide -> Append with retry.
type CommandHandler struct {
	eventStore   shell.EventStore
	shelves      bookcase.ShelfAccessPort
	retryOptions []shell.RetryOption
}

type Option func(*CommandHandler)

func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

func NewCommandHandler(eventStore shell.EventStore, shelves bookcase.ShelfAccessPort, opts ...Option) CommandHandler {
	handler := CommandHandler{
		eventStore: eventStore,
		shelves:    shelves,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var alreadyDeleted bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		deleted, execErr := h.executeStep(retryCtx, command, DecideStart)
		alreadyDeleted = deleted

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	if alreadyDeleted {
		return shell.NewIdempotentResult(retryMetrics), nil
	}

	if err = h.shelves.DeleteAllShelvesInBookcase(ctx, command.BookcaseID); err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	_, err = shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		_, execErr := h.executeStep(retryCtx, command, DecideFinish)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	return shell.NewSuccessResult(retryMetrics), nil
}

// executeStep reports whether the bookcase was already deleted before the step ran.
func (h CommandHandler) executeStep(ctx context.Context, command Command, decide decider) (bool, error) {
	filter := BuildEventFilter(command.BookcaseID)

	ctx = eventstore.WithStrongConsistency(ctx)

	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, filter)
	if err != nil {
		return false, err
	}

	if IsDeleted(history) {
		return true, nil
	}

	_, err = shell.AppendDecision(ctx, h.eventStore, filter, maxSequenceNumber, decide(history, command))

	return false, err
}
