package removeshelves

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf"
)

// CommandHandler clears and removes the shelves of a bookcase, retrying the whole step
// when the shelves changed underneath.
type CommandHandler struct {
	eventStore   shell.EventStore
	books        shelf.BookAccessPort
	retryOptions []shell.RetryOption
}

type Option func(*CommandHandler)

func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

func NewCommandHandler(eventStore shell.EventStore, books shelf.BookAccessPort, opts ...Option) CommandHandler {
	handler := CommandHandler{
		eventStore: eventStore,
		books:      books,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var isIdempotent bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		idempotent, execErr := h.executeCommand(retryCtx, command)
		isIdempotent = idempotent

		return execErr
	}, h.retryOptions...)

	if isIdempotent {
		return shell.NewIdempotentResult(retryMetrics), err
	}

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	return shell.NewSuccessResult(retryMetrics), nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (bool, error) {
	ctx = eventstore.WithStrongConsistency(ctx)

	shelvesHistory, _, err := shell.QueryHistory(ctx, h.eventStore, BuildShelvesFilter(command.BookcaseID))
	if err != nil {
		return false, err
	}

	shelfIDs := LiveShelfIDs(shelvesHistory, command.BookcaseID)
	if len(shelfIDs) == 0 {
		return true, nil
	}

	if err = h.clearBooks(ctx, command.Policy, shelfIDs); err != nil {
		return false, err
	}

	filter := BuildEventFilter(command.BookcaseID, shelfIDs)

	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, filter)
	if err != nil {
		return false, err
	}

	result := Decide(history, command, shelfIDs)

	idempotent, err := shell.AppendDecision(ctx, h.eventStore, filter, maxSequenceNumber, result)
	if errors.Is(err, ErrShelvesNotEmpty) || errors.Is(err, ErrShelvesChanged) {
		return false, errors.Join(eventstore.ErrConcurrencyConflict, err)
	}

	return idempotent, err
}

func (h CommandHandler) clearBooks(ctx context.Context, policy shelf.CascadePolicy, shelfIDs []core.ShelfID) error {
	if policy == shelf.CascadeDelete {
		return h.books.DeleteBooksOnShelves(ctx, shelfIDs)
	}

	return h.books.UnassignBooksOnShelves(ctx, shelfIDs)
}
