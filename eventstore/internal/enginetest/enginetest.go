// Package enginetest holds the behavior every engine must share, run against each engine's factory.
package enginetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
)

// Factory returns a fresh, empty engine.
type Factory func(t *testing.T) eventstore.EventStore

// Run executes the shared engine behavior as subtests.
func Run(t *testing.T, newStore Factory) {
	t.Run("append to empty stream then query", func(t *testing.T) { appendToEmptyStream(t, newStore(t)) })
	t.Run("stale expected sequence conflicts", func(t *testing.T) { staleExpectedSequenceConflicts(t, newStore(t)) })
	t.Run("unrelated streams do not conflict", func(t *testing.T) { unrelatedStreamsDoNotConflict(t, newStore(t)) })
	t.Run("multiple events keep their order", func(t *testing.T) { multipleEventsKeepOrder(t, newStore(t)) })
	t.Run("all predicates must match", func(t *testing.T) { allPredicatesMustMatch(t, newStore(t)) })
	t.Run("empty filter matches everything", func(t *testing.T) { emptyFilterMatchesEverything(t, newStore(t)) })
	t.Run("concurrent appends on one stream", func(t *testing.T) { concurrentAppends(t, newStore(t)) })
	t.Run("empty append is rejected", func(t *testing.T) { emptyAppendIsRejected(t, newStore(t)) })
}

// Event builds a StorableEvent for the given type and payload.
func Event(t *testing.T, eventType string, payloadJSON string) eventstore.StorableEvent {
	t.Helper()

	event, err := eventstore.BuildStorableEvent(
		eventType,
		time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		[]byte(payloadJSON),
		[]byte(`{"MessageID":"m"}`),
	)
	require.NoError(t, err)

	return event
}

func shelfFilter(shelfID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("BookPlacedOnShelf", "BookTakenOffShelf").
		AndAnyPredicateOf(eventstore.P("ShelfID", shelfID)).
		Finalize()
}

func appendToEmptyStream(t *testing.T, store eventstore.EventStore) {
	// arrange
	ctx := context.Background()
	filter := shelfFilter("s-1")

	// act
	err := store.Append(ctx, filter, 0, Event(t, "BookPlacedOnShelf", `{"BookID":"b-1","ShelfID":"s-1"}`))

	// assert
	require.NoError(t, err)
	events, maxSeq, err := store.Query(ctx, filter)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "BookPlacedOnShelf", events[0].EventType)
	assert.JSONEq(t, `{"BookID":"b-1","ShelfID":"s-1"}`, string(events[0].PayloadJSON))
	assert.True(t, events[0].OccurredAt.Equal(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)))
	assert.Positive(t, maxSeq)
}

func staleExpectedSequenceConflicts(t *testing.T, store eventstore.EventStore) {
	// arrange
	ctx := context.Background()
	filter := shelfFilter("s-1")
	require.NoError(t, store.Append(ctx, filter, 0, Event(t, "BookPlacedOnShelf", `{"BookID":"b-1","ShelfID":"s-1"}`)))

	// act
	err := store.Append(ctx, filter, 0, Event(t, "BookPlacedOnShelf", `{"BookID":"b-2","ShelfID":"s-1"}`))

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	events, _, queryErr := store.Query(ctx, filter)
	require.NoError(t, queryErr)
	assert.Len(t, events, 1)
}

func unrelatedStreamsDoNotConflict(t *testing.T, store eventstore.EventStore) {
	// arrange
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, shelfFilter("s-1"), 0, Event(t, "BookPlacedOnShelf", `{"BookID":"b-1","ShelfID":"s-1"}`)))

	// act
	err := store.Append(ctx, shelfFilter("s-2"), 0, Event(t, "BookPlacedOnShelf", `{"BookID":"b-2","ShelfID":"s-2"}`))

	// assert
	assert.NoError(t, err)
}

func multipleEventsKeepOrder(t *testing.T, store eventstore.EventStore) {
	// arrange
	ctx := context.Background()
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("BookID", "b-1")).
		Finalize()

	// act
	err := store.Append(
		ctx,
		filter,
		0,
		Event(t, "BookTakenOffShelf", `{"BookID":"b-1","ShelfID":"s-1"}`),
		Event(t, "BookPlacedOnShelf", `{"BookID":"b-1","ShelfID":"s-2"}`),
		Event(t, "BookTakenOffShelf", `{"BookID":"b-1","ShelfID":"s-2"}`),
	)

	// assert
	require.NoError(t, err)
	events, maxSeq, err := store.Query(ctx, filter)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "BookTakenOffShelf", events[0].EventType)
	assert.Equal(t, "BookPlacedOnShelf", events[1].EventType)
	assert.Equal(t, "BookTakenOffShelf", events[2].EventType)

	// the stream moved, so the old expectation conflicts and the new one does not
	assert.ErrorIs(t, store.Append(ctx, filter, 0, Event(t, "BookPlacedOnShelf", `{"BookID":"b-1","ShelfID":"s-3"}`)), eventstore.ErrConcurrencyConflict)
	assert.NoError(t, store.Append(ctx, filter, maxSeq, Event(t, "BookPlacedOnShelf", `{"BookID":"b-1","ShelfID":"s-3"}`)))
}

func allPredicatesMustMatch(t *testing.T, store eventstore.EventStore) {
	// arrange
	ctx := context.Background()
	all := eventstore.BuildEventFilter().MatchingAnyEvent()
	require.NoError(t, store.Append(ctx, all, 0, Event(t, "BookcaseCreated", `{"BookcaseID":"bc-1","Label":"Oak","Location":"Study"}`)))

	_, maxSeq, err := store.Query(ctx, all)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, all, maxSeq, Event(t, "BookcaseCreated", `{"BookcaseID":"bc-2","Label":"Oak","Location":"Hall"}`)))

	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("BookcaseCreated").
		AndAllPredicatesOf(eventstore.P("Label", "Oak"), eventstore.P("Location", "Hall")).
		Finalize()

	// act
	events, _, err := store.Query(ctx, filter)

	// assert
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Contains(t, string(events[0].PayloadJSON), "bc-2")
}

func emptyFilterMatchesEverything(t *testing.T, store eventstore.EventStore) {
	// arrange
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, shelfFilter("s-1"), 0, Event(t, "BookPlacedOnShelf", `{"BookID":"b-1","ShelfID":"s-1"}`)))
	require.NoError(t, store.Append(ctx, shelfFilter("s-2"), 0, Event(t, "ShelfAdded", `{"ShelfID":"s-2"}`)))

	// act
	events, maxSeq, err := store.Query(ctx, eventstore.BuildEventFilter().MatchingAnyEvent())

	// assert
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Positive(t, maxSeq)
}

func concurrentAppends(t *testing.T, store eventstore.EventStore) {
	// arrange
	ctx := context.Background()
	filter := shelfFilter("s-1")
	_, maxSeq, err := store.Query(ctx, filter)
	require.NoError(t, err)

	const writers = 8
	results := make([]error, writers)

	var wg sync.WaitGroup
	wg.Add(writers)

	// act
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			results[i] = store.Append(ctx, filter, maxSeq, Event(t, "BookPlacedOnShelf", `{"BookID":"b","ShelfID":"s-1"}`))
		}(i)
	}

	wg.Wait()

	// assert
	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}

		assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	}

	assert.Equal(t, 1, succeeded)
}

func emptyAppendIsRejected(t *testing.T, store eventstore.EventStore) {
	err := store.Append(context.Background(), shelfFilter("s-1"), 0)

	assert.ErrorIs(t, err, eventstore.ErrEmptyEventsList)
}
