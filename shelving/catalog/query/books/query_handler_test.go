package books_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/catalog/query/books"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	. "github.com/AntonStoeckl/dynamic-streams-shelving/testutil/helper" //nolint:revive
)

func Test_QueryHandler_Handle(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	bookcaseID := core.NewBookcaseID()
	shelfOne := core.ShelfIDFor(bookcaseID, 1)
	shelfTwo := core.ShelfIDFor(bookcaseID, 2)

	shelved := GivenShelvedBooks(t, ctx, es, shelfOne, 2)
	loose := core.NewBookID()
	removed := core.NewBookID()
	GivenEventsWereAppended(t, ctx, es,
		FixtureBookAddedToCatalog(loose, FakeClock.Add(time.Hour)),
		FixtureBookAddedToCatalog(removed, FakeClock.Add(2*time.Hour)),
		FixtureBookRemovedFromCatalog(removed, FakeClock.Add(3*time.Hour)),
		FixtureBookTakenOffShelf(shelved[1], shelfOne, FakeClock.Add(4*time.Hour)),
		FixtureBookPlacedOnShelf(shelved[1], shelfTwo, FakeClock.Add(4*time.Hour)),
	)

	handler := books.NewQueryHandler(es)

	// act
	all, err := handler.Handle(ctx, books.BuildQuery())
	require.NoError(t, err)
	onShelfOne, err := handler.Handle(ctx, books.BuildQueryForShelf(shelfOne.String()))
	require.NoError(t, err)

	// assert
	assert.Equal(t, 3, all.Count)
	assert.Equal(t, uint(CountEvents(t, ctx, es)), all.SequenceNumber)
	assert.Equal(t, shelved[0].String(), all.Books[0].BookID)
	assert.Equal(t, shelfTwo.String(), all.Books[1].ShelfID)
	assert.Equal(t, loose.String(), all.Books[2].BookID)
	assert.Empty(t, all.Books[2].ShelfID)

	if assert.Len(t, onShelfOne.Books, 1) {
		assert.Equal(t, shelved[0].String(), onShelfOne.Books[0].BookID)
	}
}
