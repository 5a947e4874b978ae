package shelfoccupancy

import (
	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

const (
	failureReasonShelfIsUnknown = "shelf does not exist"
)

// Project builds the occupancy of the queried shelf from its lifecycle facts and a live book count.
//
//	ERROR: NotFound if the shelf was never added or has been removed
func Project(history core.DomainEvents, query Query, bookCount int, maxSequence uint) (Occupancy, error) {
	var added *core.ShelfAdded

	for _, event := range history {
		switch e := event.(type) {
		case core.ShelfAdded:
			shelf := e
			added = &shelf

		case core.ShelfRemoved:
			added = nil
		}
	}

	if added == nil {
		return Occupancy{}, core.Failure(core.ErrNotFound, queryType, failureReasonShelfIsUnknown)
	}

	return Occupancy{
		ShelfID:        added.ShelfID,
		BookcaseID:     added.BookcaseID,
		Capacity:       added.BookCapacity,
		BookCount:      bookCount,
		State:          StateFor(bookCount, added.BookCapacity),
		SequenceNumber: maxSequence,
	}, nil
}

func BuildEventFilter(shelfID core.ShelfID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.ShelfAddedEventType,
			core.ShelfRemovedEventType,
		).
		AndAnyPredicateOf(eventstore.P("ShelfID", shelfID.String())).
		Finalize()
}
