package createbookcase

import (
	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

const (
	failureReasonBookcaseWasDeleted  = "bookcase was deleted"
	failureReasonDifferentAttributes = "bookcase exists with different attributes"
	failureReasonDuplicate           = "a bookcase with this label already exists at this location"
)

type state struct {
	thisBookcase *core.BookcaseCreated
	thisClosed   bool
	duplicates   map[string]bool
}

// Decide appends the bookcase fact that starts the creation.
//
//	GIVEN: a bookcase with BookcaseID, Label and Location
//	WHEN: CreateBookcase is received
//	THEN: BookcaseCreated is generated
//	ERROR: Conflict(DuplicateBookcase) if another bookcase with the same label and location is not deleted
//	ERROR: Conflict if this bookcase was deleted, is being deleted or has different attributes
//	IDEMPOTENCY: the same bookcase with identical attributes generates nothing, so the shelves can be resumed
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	s := project(history, command)

	if s.thisBookcase != nil {
		if s.thisClosed {
			return conflict(command, core.ErrConflict, failureReasonBookcaseWasDeleted)
		}

		if sameAttributes(*s.thisBookcase, command) {
			return core.IdempotentDecision()
		}

		return conflict(command, core.ErrConflict, failureReasonDifferentAttributes)
	}

	if len(s.duplicates) > 0 {
		return conflict(command, core.ErrDuplicateBookcase, failureReasonDuplicate)
	}

	return core.SuccessDecision(
		core.BuildBookcaseCreated(
			command.BookcaseID,
			command.OwnerID,
			command.Label,
			command.Location,
			command.Zone,
			command.ZoneIndex,
			command.ShelfCapacity,
			command.BookCapacityPerShelf,
			command.OccurredAt,
		),
	)
}

// DecideRollback closes a bookcase whose shelves could not all be created.
//
//	IDEMPOTENCY: a bookcase that is already deleted, or was never created, generates nothing
func DecideRollback(history core.DomainEvents, command Command) core.DecisionResult {
	s := project(history, command)

	if s.thisBookcase == nil || s.thisClosed {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildBookcaseDeleted(
			command.BookcaseID,
			s.thisBookcase.Label,
			s.thisBookcase.Location,
			core.BookcaseDeletedReasonCreationRolledBack,
			command.OccurredAt,
		),
	)
}

func conflict(command Command, kind error, reason string) core.DecisionResult {
	event := core.BuildCreatingBookcaseFailed(command.BookcaseID, command.Label, command.Location, reason, command.OccurredAt)

	return core.ErrorDecision(event, core.Failure(kind, event.EventType(), reason))
}

func sameAttributes(existing core.BookcaseCreated, command Command) bool {
	return existing.OwnerID == command.OwnerID.String() &&
		existing.Label == command.Label &&
		existing.Location == command.Location &&
		existing.Zone == command.Zone &&
		existing.ZoneIndex == command.ZoneIndex &&
		existing.ShelfCapacity == command.ShelfCapacity &&
		existing.BookCapacityPerShelf == command.BookCapacityPerShelf
}

func project(history core.DomainEvents, command Command) state {
	s := state{
		duplicates: make(map[string]bool),
	}

	bookcaseID := command.BookcaseID.String()

	for _, event := range history {
		switch e := event.(type) {
		case core.BookcaseCreated:
			if e.BookcaseID == bookcaseID {
				created := e
				s.thisBookcase = &created

				continue
			}

			if e.Label == command.Label && e.Location == command.Location {
				s.duplicates[e.BookcaseID] = true
			}

		case core.BookcaseDeletionStarted:
			if e.BookcaseID == bookcaseID {
				s.thisClosed = true
			}

		case core.BookcaseDeleted:
			if e.BookcaseID == bookcaseID {
				s.thisClosed = true
			}

			delete(s.duplicates, e.BookcaseID)
		}
	}

	return s
}

// BuildEventFilter covers the bookcases holding the same label and location, and this bookcase's lifecycle.
func BuildEventFilter(command Command) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookcaseCreatedEventType,
			core.BookcaseDeletedEventType,
		).
		AndAllPredicatesOf(
			eventstore.P("Label", command.Label),
			eventstore.P("Location", command.Location),
		).
		OrMatching().
		AnyEventTypeOf(
			core.BookcaseCreatedEventType,
			core.BookcaseDeletionStartedEventType,
			core.BookcaseDeletedEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("BookcaseID", command.BookcaseID.String()),
		).
		Finalize()
}

func BuildBookcaseFilter(bookcaseID core.BookcaseID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookcaseCreatedEventType,
			core.BookcaseDeletionStartedEventType,
			core.BookcaseDeletedEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("BookcaseID", bookcaseID.String()),
		).
		Finalize()
}
