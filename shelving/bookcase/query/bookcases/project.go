package bookcases

import (
	"cmp"
	"slices"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

func Project(history core.DomainEvents, query Query, maxSequence uint) Bookcases {
	byID := make(map[string]*Bookcase)

	for _, event := range history {
		switch e := event.(type) {
		case core.BookcaseCreated:
			byID[e.BookcaseID] = &Bookcase{
				BookcaseID:           e.BookcaseID,
				OwnerID:              e.OwnerID,
				Label:                e.Label,
				Location:             e.Location,
				Zone:                 e.Zone,
				ZoneIndex:            e.ZoneIndex,
				ShelfCapacity:        e.ShelfCapacity,
				BookCapacityPerShelf: e.BookCapacityPerShelf,
				NominalCapacity:      e.ShelfCapacity * e.BookCapacityPerShelf,
				Status:               StatusActive,
				CreatedAt:            e.OccurredAt,
			}

		case core.BookcaseDeletionStarted:
			if bookcase, ok := byID[e.BookcaseID]; ok {
				bookcase.Status = StatusDeleting
			}

		case core.BookcaseDeleted:
			delete(byID, e.BookcaseID)
		}
	}

	ownerID := ""
	if !query.OwnerID.IsZero() {
		ownerID = query.OwnerID.String()
	}

	list := make([]Bookcase, 0, len(byID))
	for _, bookcase := range byID {
		if ownerID != "" && bookcase.OwnerID != ownerID {
			continue
		}

		if bookcase.Status == StatusDeleting && !query.IncludeDeleting {
			continue
		}

		list = append(list, *bookcase)
	}

	slices.SortFunc(list, func(a, b Bookcase) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.BookcaseID, b.BookcaseID))
	})

	return Bookcases{
		Bookcases:      list,
		Count:          len(list),
		SequenceNumber: maxSequence,
	}
}

func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookcaseCreatedEventType,
			core.BookcaseDeletionStartedEventType,
			core.BookcaseDeletedEventType,
		).
		Finalize()
}
