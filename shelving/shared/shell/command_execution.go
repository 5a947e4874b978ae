package shell

import (
	"context"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

// QueryHistory runs the Query and Unmarshal phases for one filter.
func QueryHistory(
	ctx context.Context,
	eventStore QueriesEvents,
	filter eventstore.Filter,
) (core.DomainEvents, eventstore.MaxSequenceNumberUint, error) {

	storableEvents, maxSequenceNumber, err := eventStore.Query(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	history, err := DomainEventsFrom(storableEvents)
	if err != nil {
		return nil, 0, err
	}

	return history, maxSequenceNumber, nil
}

// AppendDecision runs the Append phase of a decision, conditional on filter and maxSequenceNumber.
//
// It reports idempotent when the decision has nothing to append and no error.
// A rejection without events returns its error without touching the store.
// Failure events are appended first, then the decision's error is returned.
func AppendDecision(
	ctx context.Context,
	eventStore EventStore,
	filter eventstore.Filter,
	maxSequenceNumber eventstore.MaxSequenceNumberUint,
	result core.DecisionResult,
) (bool, error) {

	if !result.HasEventsToAppend() {
		if err := result.HasError(); err != nil {
			return false, err
		}

		return true, nil
	}

	storableEvents, err := StorableEventsFrom(result.Events)
	if err != nil {
		return false, err
	}

	if err = eventStore.Append(ctx, filter, maxSequenceNumber, storableEvents...); err != nil {
		return false, err
	}

	return false, result.HasError()
}
