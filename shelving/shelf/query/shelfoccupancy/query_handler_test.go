package shelfoccupancy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/catalog/shelfaccess"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/query/shelfoccupancy"
	. "github.com/AntonStoeckl/dynamic-streams-shelving/testutil/helper" //nolint:revive
)

func Test_QueryHandler_Handle_StatesFollowTheBookCount(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	bookcaseID := core.NewBookcaseID()
	emptyShelf := core.ShelfIDFor(bookcaseID, 1)
	partialShelf := core.ShelfIDFor(bookcaseID, 2)
	fullShelf := core.ShelfIDFor(bookcaseID, 3)

	GivenEventsWereAppended(t, ctx, es,
		FixtureShelfAdded(bookcaseID, 1, 3, FakeClock),
		FixtureShelfAdded(bookcaseID, 2, 3, FakeClock),
		FixtureShelfAdded(bookcaseID, 3, 3, FakeClock),
	)
	GivenShelvedBooks(t, ctx, es, partialShelf, 2)
	GivenShelvedBooks(t, ctx, es, fullShelf, 3)

	handler := shelfoccupancy.NewQueryHandler(es, shelfaccess.NewAdapter(es))

	// act
	empty, emptyErr := handler.Handle(ctx, shelfoccupancy.BuildQuery(emptyShelf))
	partial, partialErr := handler.Handle(ctx, shelfoccupancy.BuildQuery(partialShelf))
	full, fullErr := handler.Handle(ctx, shelfoccupancy.BuildQuery(fullShelf))

	// assert
	require.NoError(t, emptyErr)
	require.NoError(t, partialErr)
	require.NoError(t, fullErr)

	assert.Equal(t, shelfoccupancy.StateEmpty, empty.State)
	assert.False(t, empty.IsFull())
	assert.Equal(t, shelfoccupancy.StatePartial, partial.State)
	assert.Equal(t, 2, partial.BookCount)
	assert.Equal(t, shelfoccupancy.StateFull, full.State)
	assert.True(t, full.IsFull())
	assert.Equal(t, 3, full.Capacity)
}

func Test_QueryHandler_Handle_UnknownOrRemovedShelf(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	bookcaseID := core.NewBookcaseID()
	GivenEventsWereAppended(t, ctx, es,
		FixtureShelfAdded(bookcaseID, 1, 3, FakeClock),
		FixtureShelfRemoved(bookcaseID, 1, FakeClock),
	)

	handler := shelfoccupancy.NewQueryHandler(es, shelfaccess.NewAdapter(es))

	// act
	_, removedErr := handler.Handle(ctx, shelfoccupancy.BuildQuery(core.ShelfIDFor(bookcaseID, 1)))
	_, unknownErr := handler.Handle(ctx, shelfoccupancy.BuildQuery(core.ShelfIDFor(bookcaseID, 2)))

	// assert
	assert.ErrorIs(t, removedErr, core.ErrNotFound)
	assert.ErrorIs(t, unknownErr, core.ErrNotFound)
}

func Test_StateFor(t *testing.T) {
	assert.Equal(t, shelfoccupancy.StateEmpty, shelfoccupancy.StateFor(0, 1))
	assert.Equal(t, shelfoccupancy.StatePartial, shelfoccupancy.StateFor(1, 2))
	assert.Equal(t, shelfoccupancy.StateFull, shelfoccupancy.StateFor(2, 2))
}
