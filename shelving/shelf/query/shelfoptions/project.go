package shelfoptions

import (
	"cmp"
	"slices"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

// Project lists the live shelves ordered by bookcase and position. Counts are filled in by the
// caller with WithCounts.
func Project(history core.DomainEvents, _ Query, maxSequence uint) ShelfOptions {
	live := make(map[string]core.ShelfAdded)

	for _, event := range history {
		switch e := event.(type) {
		case core.ShelfAdded:
			live[e.ShelfID] = e

		case core.ShelfRemoved:
			delete(live, e.ShelfID)
		}
	}

	shelves := make([]ShelfOption, 0, len(live))
	for _, added := range live {
		shelves = append(shelves, ShelfOption{
			ShelfID:    added.ShelfID,
			BookcaseID: added.BookcaseID,
			Position:   added.Position,
			Label:      added.Label,
			Capacity:   added.BookCapacity,
			HasSpace:   added.BookCapacity > 0,
		})
	}

	slices.SortFunc(shelves, func(a, b ShelfOption) int {
		return cmp.Or(cmp.Compare(a.BookcaseID, b.BookcaseID), cmp.Compare(a.Position, b.Position))
	})

	return ShelfOptions{
		Shelves:        shelves,
		Count:          len(shelves),
		SequenceNumber: maxSequence,
	}
}

// WithCounts sets CurrentCount and HasSpace from the book counts per shelf id.
func (o ShelfOptions) WithCounts(counts map[string]int) ShelfOptions {
	shelves := make([]ShelfOption, len(o.Shelves))

	for i, shelf := range o.Shelves {
		shelf.CurrentCount = counts[shelf.ShelfID]
		shelf.HasSpace = shelf.CurrentCount < shelf.Capacity
		shelves[i] = shelf
	}

	o.Shelves = shelves

	return o
}

func BuildEventFilter(query Query) eventstore.Filter {
	if query.BookcaseID.IsZero() {
		return eventstore.BuildEventFilter().
			Matching().
			AnyEventTypeOf(
				core.ShelfAddedEventType,
				core.ShelfRemovedEventType,
			).
			Finalize()
	}

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.ShelfAddedEventType,
			core.ShelfRemovedEventType,
		).
		AndAnyPredicateOf(eventstore.P("BookcaseID", query.BookcaseID.String())).
		Finalize()
}
