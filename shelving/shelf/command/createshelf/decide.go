package createshelf

import (
	"strconv"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

const (
	failureReasonShelfWasRemoved     = "shelf was removed"
	failureReasonDifferentAttributes = "shelf exists with different attributes"
)

type state struct {
	thisShelf        *core.ShelfAdded
	thisShelfRemoved bool
	liveAtPosition   map[int]string
}

// Decide adds the shelf to its bookcase.
//
//	GIVEN: a shelf with ShelfID at Position in BookcaseID
//	WHEN: CreateShelf is received
//	THEN: ShelfAdded is generated
//	ERROR: Conflict if the shelf was removed, exists with different attributes,
//	       or another live shelf holds the position
//	IDEMPOTENCY: the same shelf with identical attributes generates nothing
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	s := project(history, command.ShelfID.String(), command.BookcaseID.String())

	if s.thisShelfRemoved {
		return conflict(command, failureReasonShelfWasRemoved)
	}

	if s.thisShelf != nil {
		if sameAttributes(*s.thisShelf, command) {
			return core.IdempotentDecision()
		}

		return conflict(command, failureReasonDifferentAttributes)
	}

	if other, taken := s.liveAtPosition[command.Position]; taken {
		return conflict(command, "position "+strconv.Itoa(command.Position)+" is taken by shelf "+other)
	}

	return core.SuccessDecision(
		core.BuildShelfAdded(
			command.ShelfID,
			command.BookcaseID,
			command.Position,
			command.Label,
			command.Capacity,
			command.OccurredAt,
		),
	)
}

func conflict(command Command, reason string) core.DecisionResult {
	event := core.BuildAddingShelfFailed(command.ShelfID, command.BookcaseID, reason, command.OccurredAt)

	return core.ErrorDecision(event, core.Failure(core.ErrConflict, event.EventType(), reason))
}

func sameAttributes(existing core.ShelfAdded, command Command) bool {
	return existing.BookcaseID == command.BookcaseID.String() &&
		existing.Position == command.Position &&
		existing.Label == command.Label &&
		existing.BookCapacity == command.Capacity
}

func project(history core.DomainEvents, shelfID string, bookcaseID string) state {
	s := state{
		liveAtPosition: make(map[int]string),
	}

	positions := make(map[string]int)

	for _, event := range history {
		switch e := event.(type) {
		case core.ShelfAdded:
			if e.BookcaseID == bookcaseID {
				positions[e.ShelfID] = e.Position
				s.liveAtPosition[e.Position] = e.ShelfID
			}

			if e.ShelfID == shelfID {
				added := e
				s.thisShelf = &added
			}

		case core.ShelfRemoved:
			if position, ok := positions[e.ShelfID]; ok && s.liveAtPosition[position] == e.ShelfID {
				delete(s.liveAtPosition, position)
			}

			if e.ShelfID == shelfID {
				s.thisShelfRemoved = true
			}
		}
	}

	return s
}

// BuildEventFilter covers all shelves of the bookcase and the shelf id itself.
func BuildEventFilter(shelfID core.ShelfID, bookcaseID core.BookcaseID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.ShelfAddedEventType,
			core.ShelfRemovedEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("ShelfID", shelfID.String()),
			eventstore.P("BookcaseID", bookcaseID.String()),
		).
		Finalize()
}
