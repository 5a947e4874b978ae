package integrity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/query/integrity"
	. "github.com/AntonStoeckl/dynamic-streams-shelving/testutil/helper" //nolint:revive
)

func Test_Project_FindsPlacementsOnRemovedOrUnknownShelves(t *testing.T) {
	// arrange
	bookcaseID := core.NewBookcaseID()
	live := core.ShelfIDFor(bookcaseID, 1)
	removed := core.ShelfIDFor(bookcaseID, 2)
	unknown := core.ShelfIDFor(core.NewBookcaseID(), 1)

	okBook := core.NewBookID()
	danglingBook := core.NewBookID()
	ghostBook := core.NewBookID()
	takenOffBook := core.NewBookID()

	history := core.DomainEvents{
		FixtureShelfAdded(bookcaseID, 1, 5, FakeClock),
		FixtureShelfAdded(bookcaseID, 2, 5, FakeClock),
		FixtureBookPlacedOnShelf(okBook, live, FakeClock),
		FixtureBookPlacedOnShelf(danglingBook, removed, FakeClock),
		FixtureBookPlacedOnShelf(takenOffBook, removed, FakeClock),
		FixtureBookTakenOffShelf(takenOffBook, removed, FakeClock),
		FixtureShelfRemoved(bookcaseID, 2, FakeClock),
		FixtureBookPlacedOnShelf(ghostBook, unknown, FakeClock),
	}

	// act
	result := integrity.Project(history, integrity.BuildQuery(), 8)

	// assert
	assert.Equal(t, 2, result.Count)
	assert.ElementsMatch(t, []integrity.DanglingPlacement{
		{BookID: danglingBook.String(), ShelfID: removed.String()},
		{BookID: ghostBook.String(), ShelfID: unknown.String()},
	}, result.Placements)
	assert.Equal(t, uint(8), result.SequenceNumber)
}
