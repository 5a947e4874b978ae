package registerauthor

import (
	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

// Decide registers the author unless it is already registered.
//
//	GIVEN: an author with AuthorID
//	WHEN: RegisterAuthor is received
//	THEN: AuthorRegistered is generated
//	IDEMPOTENCY: an already registered author generates nothing
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	for _, event := range history {
		if e, ok := event.(core.AuthorRegistered); ok && e.AuthorID == command.AuthorID.String() {
			return core.IdempotentDecision()
		}
	}

	return core.SuccessDecision(
		core.BuildAuthorRegistered(command.AuthorID, command.Name, command.OccurredAt),
	)
}

func BuildEventFilter(authorID core.AuthorID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.AuthorRegisteredEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("AuthorID", authorID.String()),
		).
		Finalize()
}
