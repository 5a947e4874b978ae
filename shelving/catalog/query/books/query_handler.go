package books

import (
	"context"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell"
)

// QueryHandler runs Query -> Unmarshal -> Project.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{
		eventStore: eventStore,
	}
}

func (h QueryHandler) Handle(ctx context.Context, query Query) (Books, error) {
	ctx = eventstore.WithEventualConsistency(ctx)

	history, maxSeq, err := shell.QueryHistory(ctx, h.eventStore, BuildEventFilter())
	if err != nil {
		return Books{}, err
	}

	return Project(history, query, maxSeq), nil
}
