package removeshelves

import (
	"errors"
	"slices"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

var (
	// ErrShelvesNotEmpty means books were (re)placed on a shelf after the books were cleared.
	ErrShelvesNotEmpty = errors.New("shelves still hold books")

	// ErrShelvesChanged means a shelf was added after the shelves to remove were determined.
	ErrShelvesChanged = errors.New("shelves changed while being removed")
)

type liveShelf struct {
	shelfID  string
	position int
}

type state struct {
	liveShelves  []liveShelf
	booksOnShelf map[string]int
}

// Decide removes the live shelves of a bookcase.
//
//	GIVEN: a bookcase with BookcaseID and the shelves covered by the query
//	WHEN: RemoveShelvesOfBookcase is received
//	THEN: ShelfRemoved is generated for every live shelf, in position order
//	ERROR: ErrShelvesNotEmpty if any live shelf still holds books
//	ERROR: ErrShelvesChanged if a live shelf is not among the covered ones
//	IDEMPOTENCY: a bookcase without live shelves generates nothing
func Decide(history core.DomainEvents, command Command, covered []core.ShelfID) core.DecisionResult {
	s := project(history, command.BookcaseID.String())

	if len(s.liveShelves) == 0 {
		return core.IdempotentDecision()
	}

	coveredIDs := make(map[string]bool, len(covered))
	for _, shelfID := range covered {
		coveredIDs[shelfID.String()] = true
	}

	events := make(core.DomainEvents, 0, len(s.liveShelves))

	for _, live := range s.liveShelves {
		if !coveredIDs[live.shelfID] {
			return core.RejectionDecision(errors.Join(ErrShelvesChanged, errors.New("shelf "+live.shelfID)))
		}

		if s.booksOnShelf[live.shelfID] > 0 {
			return core.RejectionDecision(errors.Join(ErrShelvesNotEmpty, errors.New("shelf "+live.shelfID)))
		}

		events = append(events, core.BuildShelfRemoved(core.MustShelfID(live.shelfID), command.BookcaseID, command.OccurredAt))
	}

	return core.SuccessDecision(events...)
}

// LiveShelfIDs returns the shelves of the bookcase that were added and not removed, in position order.
func LiveShelfIDs(history core.DomainEvents, bookcaseID core.BookcaseID) []core.ShelfID {
	s := project(history, bookcaseID.String())

	shelfIDs := make([]core.ShelfID, 0, len(s.liveShelves))
	for _, live := range s.liveShelves {
		shelfIDs = append(shelfIDs, core.MustShelfID(live.shelfID))
	}

	return shelfIDs
}

func project(history core.DomainEvents, bookcaseID string) state {
	live := make(map[string]int)
	s := state{
		booksOnShelf: make(map[string]int),
	}

	for _, event := range history {
		switch e := event.(type) {
		case core.ShelfAdded:
			if e.BookcaseID == bookcaseID {
				live[e.ShelfID] = e.Position
			}

		case core.ShelfRemoved:
			delete(live, e.ShelfID)

		case core.BookPlacedOnShelf:
			s.booksOnShelf[e.ShelfID]++

		case core.BookTakenOffShelf:
			s.booksOnShelf[e.ShelfID]--
		}
	}

	for shelfID, position := range live {
		s.liveShelves = append(s.liveShelves, liveShelf{shelfID: shelfID, position: position})
	}

	slices.SortFunc(s.liveShelves, func(a, b liveShelf) int { return a.position - b.position })

	return s
}

// BuildShelvesFilter selects the lifecycle of the bookcase's shelves.
func BuildShelvesFilter(bookcaseID core.BookcaseID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.ShelfAddedEventType,
			core.ShelfRemovedEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("BookcaseID", bookcaseID.String()),
		).
		Finalize()
}

// BuildEventFilter selects the lifecycle of the bookcase's shelves and the placement ledgers of
// the given shelves.
func BuildEventFilter(bookcaseID core.BookcaseID, shelfIDs []core.ShelfID) eventstore.Filter {
	if len(shelfIDs) == 0 {
		return BuildShelvesFilter(bookcaseID)
	}

	predicates := make([]eventstore.FilterPredicate, 0, len(shelfIDs))
	for _, shelfID := range shelfIDs {
		predicates = append(predicates, eventstore.P("ShelfID", shelfID.String()))
	}

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.ShelfAddedEventType,
			core.ShelfRemovedEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("BookcaseID", bookcaseID.String()),
		).
		OrMatching().
		AnyEventTypeOf(
			core.BookPlacedOnShelfEventType,
			core.BookTakenOffShelfEventType,
		).
		AndAnyPredicateOf(predicates[0], predicates[1:]...).
		Finalize()
}
