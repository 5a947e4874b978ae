package shelfaccess

import (
	"slices"
	"strings"
	"time"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

const (
	removalReasonShelfRemoved = "its shelf was removed"
)

// OccupantsByShelf returns the books currently on each shelf, in placement order.
func OccupantsByShelf(history core.DomainEvents) map[string][]string {
	placedAt := make(map[string]map[string]int)

	for i, event := range history {
		switch e := event.(type) {
		case core.BookPlacedOnShelf:
			if placedAt[e.ShelfID] == nil {
				placedAt[e.ShelfID] = make(map[string]int)
			}
			placedAt[e.ShelfID][e.BookID] = i

		case core.BookTakenOffShelf:
			delete(placedAt[e.ShelfID], e.BookID)
		}
	}

	occupants := make(map[string][]string, len(placedAt))
	for shelfID, books := range placedAt {
		if len(books) == 0 {
			continue
		}

		bookIDs := make([]string, 0, len(books))
		for bookID := range books {
			bookIDs = append(bookIDs, bookID)
		}

		slices.SortFunc(bookIDs, func(a, b string) int { return books[a] - books[b] })
		occupants[shelfID] = bookIDs
	}

	return occupants
}

// DecideClearShelves takes every book off the given shelves, and removes it from the
// catalog too when deleteBooks is set.
//
//	IDEMPOTENCY: shelves without books generate nothing
func DecideClearShelves(history core.DomainEvents, shelfIDs []core.ShelfID, deleteBooks bool, occurredAt time.Time) core.DecisionResult {
	occupants := OccupantsByShelf(history)
	events := make(core.DomainEvents, 0)

	for _, shelfID := range UniqueShelfIDs(shelfIDs) {
		for _, bookID := range occupants[shelfID.String()] {
			events = append(events, core.BuildBookTakenOffShelf(
				core.MustBookID(bookID),
				shelfID,
				core.TakenOffReasonShelfRemoved,
				occurredAt,
			))

			if deleteBooks {
				events = append(events, core.BuildBookRemovedFromCatalog(core.MustBookID(bookID), removalReasonShelfRemoved, occurredAt))
			}
		}
	}

	if len(events) == 0 {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(events...)
}

// UniqueShelfIDs returns the distinct shelf ids, sorted by their string form.
func UniqueShelfIDs(shelfIDs []core.ShelfID) []core.ShelfID {
	unique := slices.Clone(shelfIDs)
	slices.SortFunc(unique, func(a, b core.ShelfID) int { return strings.Compare(a.String(), b.String()) })

	return slices.Compact(unique)
}

// BuildEventFilter selects the placement ledger of the given shelves.
func BuildEventFilter(shelfIDs []core.ShelfID) eventstore.Filter {
	predicates := make([]eventstore.FilterPredicate, 0, len(shelfIDs))
	for _, shelfID := range shelfIDs {
		predicates = append(predicates, eventstore.P("ShelfID", shelfID.String()))
	}

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookPlacedOnShelfEventType,
			core.BookTakenOffShelfEventType,
		).
		AndAnyPredicateOf(predicates[0], predicates[1:]...).
		Finalize()
}
