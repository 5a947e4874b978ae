package createbookcase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/bookcase"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell"
)

const (
	shelfLabelPrefix = "Shelf "

	logMsgRollbackFailed = "rolling back bookcase creation failed, left for the reconciler"
	logAttrBookcaseID    = "bookcase_id"
)

// CommandHandler runs the creation saga: the bookcase fact, then one shelf per position.
type CommandHandler struct {
	eventStore       shell.EventStore
	shelves          bookcase.ShelfAccessPort
	retryOptions     []shell.RetryOption
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
	now              func() time.Time
}

type Option func(*CommandHandler)

func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// WithLogger sets the logger for failed compensations.
func WithLogger(logger shell.Logger) Option {
	return func(h *CommandHandler) {
		h.logger = logger
	}
}

func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(h *CommandHandler) {
		h.contextualLogger = logger
	}
}

// WithClock sets the time source for the rollback fact.
func WithClock(now func() time.Time) Option {
	return func(h *CommandHandler) {
		h.now = now
	}
}

func NewCommandHandler(eventStore shell.EventStore, shelves bookcase.ShelfAccessPort, opts ...Option) CommandHandler {
	handler := CommandHandler{
		eventStore: eventStore,
		shelves:    shelves,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle appends the bookcase and creates its shelves. When a shelf fails, the shelves are removed
// again, the bookcase is closed and the shelf error is returned.
// A replay compensates only on a conflict, which means an earlier rollback already removed shelves.
// Any other replay failure leaves the bookcase as it is, for the reconciler to resume.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	if err := command.Validate(); err != nil {
		return shell.HandlerResult{}, err
	}

	var isIdempotent bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		idempotent, execErr := h.executeCommand(retryCtx, command)
		isIdempotent = idempotent

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	if err = h.createShelves(ctx, command); err != nil {
		if !isIdempotent || errors.Is(err, core.ErrConflict) {
			h.rollBack(ctx, command)
		}

		return shell.NewErrorResult(retryMetrics), err
	}

	if isIdempotent {
		return shell.NewIdempotentResult(retryMetrics), nil
	}

	return shell.NewSuccessResult(retryMetrics), nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (bool, error) {
	filter := BuildEventFilter(command)

	ctx = eventstore.WithStrongConsistency(ctx)

	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, filter)
	if err != nil {
		return false, err
	}

	result := Decide(history, command)

	return shell.AppendDecision(ctx, h.eventStore, filter, maxSequenceNumber, result)
}

func (h CommandHandler) createShelves(ctx context.Context, command Command) error {
	for position := 1; position <= command.ShelfCapacity; position++ {
		label := shelfLabelPrefix + strconv.Itoa(position)

		if _, err := h.shelves.CreateShelf(ctx, command.BookcaseID, position, label, command.BookCapacityPerShelf); err != nil {
			return err
		}
	}

	return nil
}

// rollBack runs detached from ctx, so that a canceled request still compensates.
func (h CommandHandler) rollBack(ctx context.Context, command Command) {
	ctx = context.WithoutCancel(ctx)

	err := h.shelves.DeleteAllShelvesInBookcase(ctx, command.BookcaseID)
	if err == nil {
		err = h.closeBookcase(ctx, command)
	}

	if err != nil {
		h.logRollbackFailure(ctx, command, err)
	}
}

func (h CommandHandler) closeBookcase(ctx context.Context, command Command) error {
	filter := BuildBookcaseFilter(command.BookcaseID)
	command.OccurredAt = core.ToOccurredAt(h.now())

	_, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		retryCtx = eventstore.WithStrongConsistency(retryCtx)

		history, maxSequenceNumber, err := shell.QueryHistory(retryCtx, h.eventStore, filter)
		if err != nil {
			return err
		}

		_, err = shell.AppendDecision(retryCtx, h.eventStore, filter, maxSequenceNumber, DecideRollback(history, command))

		return err
	}, h.retryOptions...)

	return err
}

func (h CommandHandler) logRollbackFailure(ctx context.Context, command Command, err error) {
	args := []any{
		logAttrBookcaseID, command.BookcaseID.String(),
		shell.LogAttrError, err.Error(),
		shell.LogAttrErrorType, shell.ErrorTypeOf(err),
	}

	switch {
	case h.contextualLogger != nil:
		h.contextualLogger.ErrorContext(ctx, logMsgRollbackFailed, args...)
	case h.logger != nil:
		h.logger.Error(logMsgRollbackFailed, args...)
	}
}
