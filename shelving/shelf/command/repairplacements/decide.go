package repairplacements

import (
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/query/integrity"
)

// Decide takes every dangling placement off its shelf.
//
//	GIVEN: books whose current shelf is removed or unknown
//	WHEN: RepairDanglingPlacements is received
//	THEN: BookTakenOffShelf is generated per dangling placement
//	IDEMPOTENCY: without dangling placements nothing is generated
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	dangling := integrity.Project(history, integrity.BuildQuery(), 0)

	if dangling.Count == 0 {
		return core.IdempotentDecision()
	}

	events := make(core.DomainEvents, 0, dangling.Count)
	for _, placement := range dangling.Placements {
		events = append(events, core.BuildBookTakenOffShelf(
			core.MustBookID(placement.BookID),
			core.MustShelfID(placement.ShelfID),
			core.TakenOffReasonDanglingRepaired,
			command.OccurredAt,
		))
	}

	return core.SuccessDecision(events...)
}
