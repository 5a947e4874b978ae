package placebook_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/command/placebook"
	. "github.com/AntonStoeckl/dynamic-streams-shelving/testutil/helper" //nolint:revive
)

func Test_CommandHandler_Handle_FillsShelfThenRejects(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	bookcaseID := core.NewBookcaseID()
	shelfID := core.ShelfIDFor(bookcaseID, 1)
	GivenEventsWereAppended(t, ctx, es, FixtureShelfAdded(bookcaseID, 1, 5, FakeClock))

	bookIDs := make([]core.BookID, 6)
	for i := range bookIDs {
		bookIDs[i] = core.NewBookID()
		GivenEventsWereAppended(t, ctx, es, FixtureBookAddedToCatalog(bookIDs[i], FakeClock))
	}

	handler := placebook.NewCommandHandler(es)

	// act
	for _, bookID := range bookIDs[:5] {
		_, err := handler.Handle(ctx, placebook.BuildCommand(bookID, shelfID, FakeClock))
		require.NoError(t, err)
	}

	_, err := handler.Handle(ctx, placebook.BuildCommand(bookIDs[5], shelfID, FakeClock))

	// assert
	assert.ErrorIs(t, err, core.ErrCapacityExceeded)
	assert.Len(t, EventsOfType(t, ctx, es, core.BookPlacedOnShelfEventType), 5)
	assert.Len(t, EventsOfType(t, ctx, es, core.PlacingBookOnShelfFailedEventType), 1)
}

func Test_CommandHandler_Handle_ConcurrentPlacementsForTheLastSlot(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	bookcaseID := core.NewBookcaseID()
	shelfID := core.ShelfIDFor(bookcaseID, 1)
	first := core.NewBookID()
	second := core.NewBookID()
	GivenEventsWereAppended(t, ctx, es,
		FixtureShelfAdded(bookcaseID, 1, 1, FakeClock),
		FixtureBookAddedToCatalog(first, FakeClock),
		FixtureBookAddedToCatalog(second, FakeClock),
	)

	handler := placebook.NewCommandHandler(es, placebook.WithRetryOptions(shell.WithBaseDelay(time.Millisecond)))

	// act
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, bookID := range []core.BookID{first, second} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = handler.Handle(ctx, placebook.BuildCommand(bookID, shelfID, FakeClock))
		}()
	}
	wg.Wait()

	// assert
	successes := 0
	rejections := 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, core.ErrCapacityExceeded):
			rejections++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, rejections)
	assert.Len(t, EventsOfType(t, ctx, es, core.BookPlacedOnShelfEventType), 1)
}

func Test_CommandHandler_Handle_Idempotent(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	bookcaseID := core.NewBookcaseID()
	shelfID := core.ShelfIDFor(bookcaseID, 1)
	GivenEventsWereAppended(t, ctx, es, FixtureShelfAdded(bookcaseID, 1, 1, FakeClock))
	bookIDs := GivenShelvedBooks(t, ctx, es, shelfID, 1)

	// act
	result, err := placebook.NewCommandHandler(es).Handle(ctx, placebook.BuildCommand(bookIDs[0], shelfID, FakeClock))

	// assert
	assert.NoError(t, err)
	assert.True(t, result.Idempotent)
}
