package shelfaccess_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/catalog/shelfaccess"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf"
	. "github.com/AntonStoeckl/dynamic-streams-shelving/testutil/helper" //nolint:revive
)

var _ shelf.BookAccessPort = shelfaccess.Adapter{}

func Test_Adapter_BookIDsOnShelf_FollowsThePlacementLedger(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	bookcaseID := core.NewBookcaseID()
	shelfID := core.ShelfIDFor(bookcaseID, 1)
	bookIDs := GivenShelvedBooks(t, ctx, es, shelfID, 3)
	GivenEventsWereAppended(t, ctx, es, FixtureBookTakenOffShelf(bookIDs[1], shelfID, FakeClock))

	adapter := shelfaccess.NewAdapter(es)

	// act
	onShelf, err := adapter.BookIDsOnShelf(ctx, shelfID)
	require.NoError(t, err)
	count, err := adapter.BookCountForShelf(ctx, shelfID)
	require.NoError(t, err)

	// assert
	assert.Equal(t, []core.BookID{bookIDs[0], bookIDs[2]}, onShelf)
	assert.Equal(t, 2, count)
}

func Test_Adapter_UnassignBooksOnShelves(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	bookcaseID := core.NewBookcaseID()
	shelfOne := core.ShelfIDFor(bookcaseID, 1)
	shelfTwo := core.ShelfIDFor(bookcaseID, 2)
	GivenShelvedBooks(t, ctx, es, shelfOne, 2)
	GivenShelvedBooks(t, ctx, es, shelfTwo, 1)

	adapter := shelfaccess.NewAdapter(es)

	// act
	err := adapter.UnassignBooksOnShelves(ctx, []core.ShelfID{shelfOne, shelfTwo})

	// assert
	require.NoError(t, err)
	for _, shelfID := range []core.ShelfID{shelfOne, shelfTwo} {
		count, countErr := adapter.BookCountForShelf(ctx, shelfID)
		require.NoError(t, countErr)
		assert.Zero(t, count)
	}

	takenOff := EventsOfType(t, ctx, es, core.BookTakenOffShelfEventType)
	assert.Len(t, takenOff, 3)
	assert.Empty(t, EventsOfType(t, ctx, es, core.BookRemovedFromCatalogEventType))
}

func Test_Adapter_DeleteBooksOnShelves_RemovesBooksFromCatalog(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	shelfID := core.ShelfIDFor(core.NewBookcaseID(), 1)
	bookIDs := GivenShelvedBooks(t, ctx, es, shelfID, 2)

	// act
	err := shelfaccess.NewAdapter(es).DeleteBooksOnShelves(ctx, []core.ShelfID{shelfID})

	// assert
	require.NoError(t, err)
	removed := EventsOfType(t, ctx, es, core.BookRemovedFromCatalogEventType)
	if assert.Len(t, removed, 2) {
		assert.Equal(t, bookIDs[0].String(), removed[0].(core.BookRemovedFromCatalog).BookID)
		assert.Equal(t, bookIDs[1].String(), removed[1].(core.BookRemovedFromCatalog).BookID)
	}
}

func Test_Adapter_DeleteBooksOnShelves_IsIdempotent(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	shelfID := core.ShelfIDFor(core.NewBookcaseID(), 1)
	GivenShelvedBooks(t, ctx, es, shelfID, 2)
	adapter := shelfaccess.NewAdapter(es)

	// act
	emptyErr := adapter.DeleteBooksOnShelves(ctx, nil)
	countAfterEmpty := CountEvents(t, ctx, es)

	firstErr := adapter.DeleteBooksOnShelves(ctx, []core.ShelfID{shelfID})
	countAfterFirst := CountEvents(t, ctx, es)

	secondErr := adapter.DeleteBooksOnShelves(ctx, []core.ShelfID{shelfID})
	countAfterSecond := CountEvents(t, ctx, es)

	// assert
	assert.NoError(t, emptyErr)
	assert.Equal(t, 4, countAfterEmpty)
	assert.NoError(t, firstErr)
	assert.Equal(t, 8, countAfterFirst)
	assert.NoError(t, secondErr)
	assert.Equal(t, countAfterFirst, countAfterSecond)
}

func Test_Adapter_DeleteBooksOnShelves_ClearsARepeatedShelfOnce(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	shelfID := core.ShelfIDFor(core.NewBookcaseID(), 1)
	GivenShelvedBooks(t, ctx, es, shelfID, 1)

	// act
	err := shelfaccess.NewAdapter(es).DeleteBooksOnShelves(ctx, []core.ShelfID{shelfID, shelfID})

	// assert
	require.NoError(t, err)
	assert.Len(t, EventsOfType(t, ctx, es, core.BookTakenOffShelfEventType), 1)
	assert.Len(t, EventsOfType(t, ctx, es, core.BookRemovedFromCatalogEventType), 1)
}

func Test_DecideClearShelves_IgnoresRepeatedShelfIDs(t *testing.T) {
	// arrange
	bookID := core.NewBookID()
	shelfID := core.ShelfIDFor(core.NewBookcaseID(), 2)
	history := core.DomainEvents{
		FixtureBookAddedToCatalog(bookID, FakeClock),
		FixtureBookPlacedOnShelf(bookID, shelfID, FakeClock),
	}

	// act
	result := shelfaccess.DecideClearShelves(history, []core.ShelfID{shelfID, shelfID, shelfID}, false, FakeClock)

	// assert
	assert.Len(t, result.Events, 1)
	assert.Len(t, shelfaccess.UniqueShelfIDs([]core.ShelfID{shelfID, shelfID}), 1)
}
