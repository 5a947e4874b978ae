package placebook

import (
	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

const (
	failureReasonShelfDoesNotExist = "shelf does not exist"
	failureReasonShelfWasRemoved   = "shelf was removed"
	failureReasonBookNotInCatalog  = "book is not in the catalog"
	failureReasonShelfIsFull       = "shelf is full"
)

type state struct {
	shelfDoesNotExist  bool
	shelfWasRemoved    bool
	shelfCapacity      int
	booksOnShelf       map[string]bool
	bookIsNotInCatalog bool
	bookCurrentShelfID string
}

// Decide places a book on a shelf.
//
//	GIVEN: a book with BookID and a shelf with ShelfID
//	WHEN: PlaceBookOnShelf is received
//	THEN: BookPlacedOnShelf is generated, preceded by BookTakenOffShelf when the book moves
//	ERROR: NotFound if the shelf does not exist or was removed
//	ERROR: NotFound if the book is not in the catalog
//	ERROR: CapacityExceeded if the shelf already holds Capacity books
//	IDEMPOTENCY: a book already on this shelf generates nothing
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	s := project(history, command.BookID.String(), command.ShelfID.String())

	if s.shelfDoesNotExist {
		return failed(command, core.ErrNotFound, failureReasonShelfDoesNotExist)
	}

	if s.shelfWasRemoved {
		return failed(command, core.ErrNotFound, failureReasonShelfWasRemoved)
	}

	if s.bookIsNotInCatalog {
		return failed(command, core.ErrNotFound, failureReasonBookNotInCatalog)
	}

	if s.booksOnShelf[command.BookID.String()] {
		return core.IdempotentDecision()
	}

	if len(s.booksOnShelf) >= s.shelfCapacity {
		return failed(command, core.ErrCapacityExceeded, failureReasonShelfIsFull)
	}

	placed := core.BuildBookPlacedOnShelf(command.BookID, command.ShelfID, command.OccurredAt)

	if s.bookCurrentShelfID == "" {
		return core.SuccessDecision(placed)
	}

	return core.SuccessDecision(
		core.BuildBookTakenOffShelf(
			command.BookID,
			core.MustShelfID(s.bookCurrentShelfID),
			core.TakenOffReasonMoved,
			command.OccurredAt,
		),
		placed,
	)
}

func failed(command Command, kind error, reason string) core.DecisionResult {
	event := core.BuildPlacingBookOnShelfFailed(command.BookID, command.ShelfID, reason, command.OccurredAt)

	return core.ErrorDecision(event, core.Failure(kind, event.EventType(), reason))
}

func project(history core.DomainEvents, bookID string, shelfID string) state { //nolint:gocognit
	s := state{
		shelfDoesNotExist:  true,
		booksOnShelf:       make(map[string]bool),
		bookIsNotInCatalog: true,
	}

	for _, event := range history {
		switch e := event.(type) {
		case core.ShelfAdded:
			if e.ShelfID == shelfID {
				s.shelfDoesNotExist = false
				s.shelfCapacity = e.BookCapacity
			}

		case core.ShelfRemoved:
			if e.ShelfID == shelfID {
				s.shelfWasRemoved = true
			}

		case core.BookAddedToCatalog:
			if e.BookID == bookID {
				s.bookIsNotInCatalog = false
			}

		case core.BookRemovedFromCatalog:
			if e.BookID == bookID {
				s.bookIsNotInCatalog = true
			}

		case core.BookPlacedOnShelf:
			if e.ShelfID == shelfID {
				s.booksOnShelf[e.BookID] = true
			}

			if e.BookID == bookID {
				s.bookCurrentShelfID = e.ShelfID
			}

		case core.BookTakenOffShelf:
			if e.ShelfID == shelfID {
				delete(s.booksOnShelf, e.BookID)
			}

			if e.BookID == bookID && e.ShelfID == s.bookCurrentShelfID {
				s.bookCurrentShelfID = ""
			}
		}
	}

	return s
}

// BuildEventFilter selects every fact that changes the shelf's occupancy or lifecycle,
// and the book's catalog and placement facts.
func BuildEventFilter(bookID core.BookID, shelfID core.ShelfID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.ShelfAddedEventType,
			core.ShelfRemovedEventType,
			core.BookPlacedOnShelfEventType,
			core.BookTakenOffShelfEventType,
			core.BookAddedToCatalogEventType,
			core.BookRemovedFromCatalogEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("ShelfID", shelfID.String()),
			eventstore.P("BookID", bookID.String()),
		).
		Finalize()
}
