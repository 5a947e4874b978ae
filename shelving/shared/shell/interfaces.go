package shell

import (
	"context"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
)

// QueriesEvents is the read half of the event store.
type QueriesEvents interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
}

// EventStore is what command handlers need: a read and a conditional append on the same filter.
type EventStore interface {
	QueriesEvents
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		storableEvents ...eventstore.StorableEvent,
	) error
}

// Command is implemented by every command; CommandType labels logs, metrics and spans.
type Command interface {
	CommandType() string
}

// Query is implemented by every query.
type Query interface {
	QueryType() string
}

// CoreCommandHandler runs the business workflow of one command without any observability.
type CoreCommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (HandlerResult, error)
}

// CoreQueryHandler runs one query without any observability.
type CoreQueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
