package takebookoffshelf

import (
	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

// Decide takes the book off the shelf.
//
//	GIVEN: a book with BookID on the shelf with ShelfID
//	WHEN: TakeBookOffShelf is received
//	THEN: BookTakenOffShelf is generated
//	IDEMPOTENCY: a book that is not on this shelf generates nothing
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if project(history, command.BookID.String()) != command.ShelfID.String() {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildBookTakenOffShelf(command.BookID, command.ShelfID, core.TakenOffReasonTakenOff, command.OccurredAt),
	)
}

// project returns the shelf the book currently sits on, or "".
func project(history core.DomainEvents, bookID string) string {
	currentShelfID := ""

	for _, event := range history {
		switch e := event.(type) {
		case core.BookPlacedOnShelf:
			if e.BookID == bookID {
				currentShelfID = e.ShelfID
			}

		case core.BookTakenOffShelf:
			if e.BookID == bookID && e.ShelfID == currentShelfID {
				currentShelfID = ""
			}
		}
	}

	return currentShelfID
}

func BuildEventFilter(bookID core.BookID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookPlacedOnShelfEventType,
			core.BookTakenOffShelfEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("BookID", bookID.String()),
		).
		Finalize()
}
