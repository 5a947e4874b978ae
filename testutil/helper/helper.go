package helper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore/memengine"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell"
)

// FakeClock is the base time of all fixtures.
var FakeClock = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

func NewMemoryEventStore(t testing.TB) memengine.EventStore {
	t.Helper()

	es, err := memengine.NewEventStore()
	require.NoError(t, err, "error in arranging test data")

	return es
}

func QueryMaxSequenceNumberBeforeAppend(t testing.TB, ctx context.Context, es shell.QueriesEvents, filter eventstore.Filter) eventstore.MaxSequenceNumberUint {
	t.Helper()

	_, maxSequenceNumBeforeAppend, err := es.Query(ctx, filter)
	assert.NoError(t, err, "error in arranging test data")

	return maxSequenceNumBeforeAppend
}

func ToStorable(t testing.TB, domainEvent core.DomainEvent) eventstore.StorableEvent {
	t.Helper()

	storableEvents, err := shell.StorableEventsFrom(core.DomainEvents{domainEvent})
	assert.NoError(t, err, "error in arranging test data")

	return storableEvents[0]
}

// GivenEventsWereAppended appends the events one by one, bypassing any business rule.
func GivenEventsWereAppended(t testing.TB, ctx context.Context, es shell.EventStore, events ...core.DomainEvent) {
	t.Helper()

	filter := eventstore.BuildEventFilter().MatchingAnyEvent()

	for _, event := range events {
		err := es.Append(
			ctx,
			filter,
			QueryMaxSequenceNumberBeforeAppend(t, ctx, es, filter),
			ToStorable(t, event),
		)
		assert.NoError(t, err, "error in arranging test data")
	}
}

// EventsOfType returns all events of the given types in sequence order.
func EventsOfType(t testing.TB, ctx context.Context, es shell.QueriesEvents, eventType string, eventTypes ...string) core.DomainEvents {
	t.Helper()

	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(eventType, eventTypes...).
		Finalize()

	history, _, err := shell.QueryHistory(ctx, es, filter)
	require.NoError(t, err, "error in querying events")

	return history
}

func CountEvents(t testing.TB, ctx context.Context, es shell.QueriesEvents) int {
	t.Helper()

	storableEvents, _, err := es.Query(ctx, eventstore.BuildEventFilter().MatchingAnyEvent())
	require.NoError(t, err, "error in querying events")

	return len(storableEvents)
}

func FixtureAuthorRegistered(authorID core.AuthorID, fakeClock time.Time) core.DomainEvent {
	return core.BuildAuthorRegistered(authorID, "Vlad Khononov", fakeClock)
}

func FixtureBookAddedToCatalog(bookID core.BookID, fakeClock time.Time) core.DomainEvent {
	return core.BuildBookAddedToCatalog(
		bookID,
		"978-1-098-10013-1",
		"Learning Domain-Driven Design",
		nil,
		fakeClock,
	)
}

func FixtureBookRemovedFromCatalog(bookID core.BookID, fakeClock time.Time) core.DomainEvent {
	return core.BuildBookRemovedFromCatalog(bookID, "worn out", fakeClock)
}

// FixtureShelfAdded builds the shelf at position of bookcaseID, with the derived shelf id.
func FixtureShelfAdded(bookcaseID core.BookcaseID, position int, capacity int, fakeClock time.Time) core.DomainEvent {
	return core.BuildShelfAdded(
		core.ShelfIDFor(bookcaseID, position),
		bookcaseID,
		position,
		"Shelf",
		capacity,
		fakeClock,
	)
}

func FixtureShelfRemoved(bookcaseID core.BookcaseID, position int, fakeClock time.Time) core.DomainEvent {
	return core.BuildShelfRemoved(core.ShelfIDFor(bookcaseID, position), bookcaseID, fakeClock)
}

func FixtureBookPlacedOnShelf(bookID core.BookID, shelfID core.ShelfID, fakeClock time.Time) core.DomainEvent {
	return core.BuildBookPlacedOnShelf(bookID, shelfID, fakeClock)
}

func FixtureBookTakenOffShelf(bookID core.BookID, shelfID core.ShelfID, fakeClock time.Time) core.DomainEvent {
	return core.BuildBookTakenOffShelf(bookID, shelfID, core.TakenOffReasonTakenOff, fakeClock)
}

func FixtureBookcaseCreated(bookcaseID core.BookcaseID, label string, location string, shelfCapacity int, bookCapacity int, fakeClock time.Time) core.DomainEvent {
	return core.BuildBookcaseCreated(
		bookcaseID,
		core.NewOwnerID(),
		label,
		location,
		"north",
		1,
		shelfCapacity,
		bookCapacity,
		fakeClock,
	)
}

// GivenShelvedBooks adds n books to the catalog and places them on shelfID.
func GivenShelvedBooks(t testing.TB, ctx context.Context, es shell.EventStore, shelfID core.ShelfID, n int) []core.BookID {
	t.Helper()

	bookIDs := make([]core.BookID, 0, n)

	for i := 0; i < n; i++ {
		bookID := core.NewBookID()
		GivenEventsWereAppended(t, ctx, es,
			FixtureBookAddedToCatalog(bookID, FakeClock.Add(time.Duration(i)*time.Minute)),
			FixtureBookPlacedOnShelf(bookID, shelfID, FakeClock.Add(time.Duration(i)*time.Minute+time.Second)),
		)
		bookIDs = append(bookIDs, bookID)
	}

	return bookIDs
}
