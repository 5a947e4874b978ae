package deletebookcase

import (
	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

const (
	failureReasonBookcaseIsUnknown = "bookcase does not exist"
)

type state struct {
	created         *core.BookcaseCreated
	deletionStarted bool
	deleted         bool
}

// DecideStart marks the deletion as started.
//
//	GIVEN: a bookcase with BookcaseID
//	WHEN: DeleteBookcase is received
//	THEN: BookcaseDeletionStarted is generated
//	ERROR: NotFound if the bookcase was never created
//	IDEMPOTENCY: a deletion that has started or finished generates nothing
func DecideStart(history core.DomainEvents, command Command) core.DecisionResult {
	s := project(history)

	if s.created == nil {
		return core.RejectionDecision(
			core.Failure(core.ErrNotFound, core.BookcaseDeletionStartedEventType, failureReasonBookcaseIsUnknown),
		)
	}

	if s.deletionStarted || s.deleted {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildBookcaseDeletionStarted(command.BookcaseID, s.created.Label, s.created.Location, command.OccurredAt),
	)
}

// DecideFinish marks the bookcase as deleted once its shelves are gone.
//
//	IDEMPOTENCY: a deleted or unknown bookcase generates nothing
func DecideFinish(history core.DomainEvents, command Command) core.DecisionResult {
	s := project(history)

	if s.created == nil || s.deleted {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildBookcaseDeleted(
			command.BookcaseID,
			s.created.Label,
			s.created.Location,
			core.BookcaseDeletedReasonRequested,
			command.OccurredAt,
		),
	)
}

// IsDeleted reports whether the history contains the final deletion fact.
func IsDeleted(history core.DomainEvents) bool {
	return project(history).deleted
}

func project(history core.DomainEvents) state {
	var s state

	for _, event := range history {
		switch e := event.(type) {
		case core.BookcaseCreated:
			created := e
			s.created = &created

		case core.BookcaseDeletionStarted:
			s.deletionStarted = true

		case core.BookcaseDeleted:
			s.deleted = true
		}
	}

	return s
}

func BuildEventFilter(bookcaseID core.BookcaseID) eventstore.Filter {
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
