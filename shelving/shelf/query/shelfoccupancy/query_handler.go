package shelfoccupancy

import (
	"context"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf"
)

// QueryHandler runs Query -> Unmarshal -> count books -> Project.
type QueryHandler struct {
	eventStore shell.QueriesEvents
	books      shelf.BookAccessPort
}

func NewQueryHandler(eventStore shell.QueriesEvents, books shelf.BookAccessPort) QueryHandler {
	return QueryHandler{
		eventStore: eventStore,
		books:      books,
	}
}

func (h QueryHandler) Handle(ctx context.Context, query Query) (Occupancy, error) {
	ctx = eventstore.WithEventualConsistency(ctx)

	history, maxSeq, err := shell.QueryHistory(ctx, h.eventStore, BuildEventFilter(query.ShelfID))
	if err != nil {
		return Occupancy{}, err
	}

	bookCount, err := h.books.BookCountForShelf(ctx, query.ShelfID)
	if err != nil {
		return Occupancy{}, err
	}

	return Project(history, query, bookCount, maxSeq)
}
