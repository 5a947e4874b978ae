package addbook

import (
	"errors"
	"strings"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

const (
	failureReasonBookWasRemoved = "book was removed from the catalog"
)

type state struct {
	bookWasAdded      bool
	bookWasRemoved    bool
	registeredAuthors map[string]bool
}

// Decide adds the book to the catalog.
//
//	GIVEN: a book with BookID and its authors
//	WHEN: AddBookToCatalog is received
//	THEN: BookAddedToCatalog is generated
//	ERROR: NotFound if an author is not registered
//	ERROR: Conflict if the book was removed from the catalog
//	IDEMPOTENCY: an already added book generates nothing
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	s := project(history, command.BookID.String())

	if s.bookWasRemoved {
		return core.RejectionDecision(
			core.Failure(core.ErrConflict, core.BookAddedToCatalogEventType, failureReasonBookWasRemoved),
		)
	}

	if s.bookWasAdded {
		return core.IdempotentDecision()
	}

	var unknown []string
	for _, authorID := range command.AuthorIDs {
		if !s.registeredAuthors[authorID.String()] {
			unknown = append(unknown, authorID.String())
		}
	}

	if len(unknown) > 0 {
		return core.RejectionDecision(
			errors.Join(core.ErrNotFound, errors.New("authors are not registered: "+strings.Join(unknown, ", "))),
		)
	}

	return core.SuccessDecision(
		core.BuildBookAddedToCatalog(
			command.BookID,
			command.ISBN,
			command.Title,
			command.AuthorIDs,
			command.OccurredAt,
		),
	)
}

func project(history core.DomainEvents, bookID string) state {
	s := state{registeredAuthors: make(map[string]bool)}

	for _, event := range history {
		switch e := event.(type) {
		case core.AuthorRegistered:
			s.registeredAuthors[e.AuthorID] = true

		case core.BookAddedToCatalog:
			if e.BookID == bookID {
				s.bookWasAdded = true
			}

		case core.BookRemovedFromCatalog:
			if e.BookID == bookID {
				s.bookWasRemoved = true
			}
		}
	}

	return s
}

// BuildEventFilter covers the book itself and the registrations of its authors.
func BuildEventFilter(bookID core.BookID, authorIDs []core.AuthorID) eventstore.Filter {
	bookItem := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
			core.BookRemovedFromCatalogEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("BookID", bookID.String()),
		)

	if len(authorIDs) == 0 {
		return bookItem.Finalize()
	}

	authorPredicates := make([]eventstore.FilterPredicate, 0, len(authorIDs))
	for _, authorID := range authorIDs {
		authorPredicates = append(authorPredicates, eventstore.P("AuthorID", authorID.String()))
	}

	return bookItem.
		OrMatching().
		AnyEventTypeOf(
			core.AuthorRegisteredEventType,
		).
		AndAnyPredicateOf(authorPredicates[0], authorPredicates[1:]...).
		Finalize()
}
