package removebook

import (
	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

const (
	failureReasonBookNotInCatalog = "book is not in the catalog"
)

type state struct {
	bookIsNotInCatalog bool
	bookWasRemoved     bool
	currentShelfID     string
}

// Decide removes a book from the catalog.
//
//	GIVEN: a book with BookID
//	WHEN: RemoveBookFromCatalog is received
//	THEN: BookRemovedFromCatalog is generated, preceded by BookTakenOffShelf if the book is shelved
//	ERROR: NotFound if the book was never added
//	IDEMPOTENCY: an already removed book generates nothing
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	s := project(history, command.BookID.String())

	if s.bookWasRemoved {
		return core.IdempotentDecision()
	}

	if s.bookIsNotInCatalog {
		event := core.BuildRemovingBookFromCatalogFailed(command.BookID, failureReasonBookNotInCatalog, command.OccurredAt)
		return core.ErrorDecision(event, core.Failure(core.ErrNotFound, event.EventType(), failureReasonBookNotInCatalog))
	}

	removed := core.BuildBookRemovedFromCatalog(command.BookID, command.Reason, command.OccurredAt)

	if s.currentShelfID == "" {
		return core.SuccessDecision(removed)
	}

	return core.SuccessDecision(
		core.BuildBookTakenOffShelf(
			command.BookID,
			core.MustShelfID(s.currentShelfID),
			core.TakenOffReasonRemovedFromCatalog,
			command.OccurredAt,
		),
		removed,
	)
}

func project(history core.DomainEvents, bookID string) state {
	s := state{
		bookIsNotInCatalog: true,
	}

	for _, event := range history {
		switch e := event.(type) {
		case core.BookAddedToCatalog:
			if e.BookID == bookID {
				s.bookIsNotInCatalog = false
			}

		case core.BookRemovedFromCatalog:
			if e.BookID == bookID {
				s.bookWasRemoved = true
			}

		case core.BookPlacedOnShelf:
			if e.BookID == bookID {
				s.currentShelfID = e.ShelfID
			}

		case core.BookTakenOffShelf:
			if e.BookID == bookID && e.ShelfID == s.currentShelfID {
				s.currentShelfID = ""
			}
		}
	}

	return s
}

func BuildEventFilter(bookID core.BookID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
			core.BookRemovedFromCatalogEventType,
			core.BookPlacedOnShelfEventType,
			core.BookTakenOffShelfEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("BookID", bookID.String()),
		).
		Finalize()
}
