package removeshelves_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/command/removeshelves"
	. "github.com/AntonStoeckl/dynamic-streams-shelving/testutil/helper" //nolint:revive
)

func Test_Decide_Error_WhenAShelfWasAddedAfterTheShelvesWereDetermined(t *testing.T) {
	// arrange
	bookcaseID := core.NewBookcaseID()
	history := core.DomainEvents{
		FixtureShelfAdded(bookcaseID, 1, 5, FakeClock),
		FixtureShelfAdded(bookcaseID, 2, 5, FakeClock),
	}
	covered := []core.ShelfID{core.ShelfIDFor(bookcaseID, 1)}

	// act
	result := removeshelves.Decide(history, removeshelves.BuildCommand(bookcaseID, shelf.CascadeUnassign, FakeClock), covered)

	// assert
	assert.ErrorIs(t, result.HasError(), removeshelves.ErrShelvesChanged)
	assert.False(t, result.HasEventsToAppend())
}

func Test_Decide_Success_BooksTakenOffAreNotCounted(t *testing.T) {
	// arrange
	bookcaseID := core.NewBookcaseID()
	shelfID := core.ShelfIDFor(bookcaseID, 1)
	bookID := core.NewBookID()
	history := core.DomainEvents{
		FixtureShelfAdded(bookcaseID, 1, 5, FakeClock),
		FixtureBookPlacedOnShelf(bookID, shelfID, FakeClock),
		FixtureBookTakenOffShelf(bookID, shelfID, FakeClock),
	}

	// act
	result := removeshelves.Decide(history, removeshelves.BuildCommand(bookcaseID, shelf.CascadeUnassign, FakeClock), []core.ShelfID{shelfID})

	// assert
	assert.NoError(t, result.HasError())
	assert.Len(t, result.Events, 1)
}
