package shelfoptions

import (
	"context"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf"
)

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

func (h QueryHandler) Handle(ctx context.Context, query Query) (ShelfOptions, error) {
	ctx = eventstore.WithEventualConsistency(ctx)

	history, maxSeq, err := shell.QueryHistory(ctx, h.eventStore, BuildEventFilter(query))
	if err != nil {
		return ShelfOptions{}, err
	}

	options := Project(history, query, maxSeq)

	counts := make(map[string]int, options.Count)
	for _, option := range options.Shelves {
		count, countErr := h.books.BookCountForShelf(ctx, core.MustShelfID(option.ShelfID))
		if countErr != nil {
			return ShelfOptions{}, countErr
		}

		counts[option.ShelfID] = count
	}

	return options.WithCounts(counts), nil
}
