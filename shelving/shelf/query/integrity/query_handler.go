package integrity

import (
	"context"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell"
)

type QueryHandler struct {
	eventStore shell.QueriesEvents
}

func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{
		eventStore: eventStore,
	}
}

// Handle reads with strong consistency; its findings feed repairs.
func (h QueryHandler) Handle(ctx context.Context, query Query) (DanglingPlacements, error) {
	ctx = eventstore.WithStrongConsistency(ctx)

	history, maxSeq, err := shell.QueryHistory(ctx, h.eventStore, BuildEventFilter())
	if err != nil {
		return DanglingPlacements{}, err
	}

	return Project(history, query, maxSeq), nil
}
