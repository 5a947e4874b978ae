package integrity

import (
	"cmp"
	"slices"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

// Project lists the placements that point at a shelf which is not live.
func Project(history core.DomainEvents, _ Query, maxSequence uint) DanglingPlacements {
	liveShelves := make(map[string]bool)
	currentShelf := make(map[string]string)

	for _, event := range history {
		switch e := event.(type) {
		case core.ShelfAdded:
			liveShelves[e.ShelfID] = true

		case core.ShelfRemoved:
			delete(liveShelves, e.ShelfID)

		case core.BookPlacedOnShelf:
			currentShelf[e.BookID] = e.ShelfID

		case core.BookTakenOffShelf:
			if currentShelf[e.BookID] == e.ShelfID {
				delete(currentShelf, e.BookID)
			}
		}
	}

	placements := make([]DanglingPlacement, 0)
	for bookID, shelfID := range currentShelf {
		if !liveShelves[shelfID] {
			placements = append(placements, DanglingPlacement{BookID: bookID, ShelfID: shelfID})
		}
	}

	slices.SortFunc(placements, func(a, b DanglingPlacement) int {
		return cmp.Or(cmp.Compare(a.ShelfID, b.ShelfID), cmp.Compare(a.BookID, b.BookID))
	})

	return DanglingPlacements{
		Placements:     placements,
		Count:          len(placements),
		SequenceNumber: maxSequence,
	}
}

func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.ShelfAddedEventType,
			core.ShelfRemovedEventType,
			core.BookPlacedOnShelfEventType,
			core.BookTakenOffShelfEventType,
		).
		Finalize()
}
