package createshelf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/command/createshelf"
	. "github.com/AntonStoeckl/dynamic-streams-shelving/testutil/helper" //nolint:revive
)

func buildCommand(bookcaseID core.BookcaseID, position int, capacity int) createshelf.Command {
	return createshelf.BuildCommand(core.ShelfIDFor(bookcaseID, position), bookcaseID, position, "Shelf", capacity, FakeClock)
}

func Test_Decide_Success(t *testing.T) {
	// arrange
	bookcaseID := core.NewBookcaseID()
	history := core.DomainEvents{FixtureShelfAdded(bookcaseID, 1, 5, FakeClock)}

	// act
	result := createshelf.Decide(history, buildCommand(bookcaseID, 2, 5))

	// assert
	assert.NoError(t, result.HasError())
	if assert.Len(t, result.Events, 1) {
		added := result.Events[0].(core.ShelfAdded)
		assert.Equal(t, 2, added.Position)
		assert.Equal(t, 5, added.BookCapacity)
		assert.Equal(t, bookcaseID.String(), added.BookcaseID)
	}
}

func Test_Decide_Idempotent_WhenSameShelfExists(t *testing.T) {
	// arrange
	bookcaseID := core.NewBookcaseID()
	history := core.DomainEvents{FixtureShelfAdded(bookcaseID, 1, 5, FakeClock)}

	// act
	result := createshelf.Decide(history, buildCommand(bookcaseID, 1, 5))

	// assert
	assert.NoError(t, result.HasError())
	assert.False(t, result.HasEventsToAppend())
}

func Test_Decide_Error_Conflicts(t *testing.T) {
	bookcaseID := core.NewBookcaseID()

	testCases := []struct {
		name    string
		history core.DomainEvents
		command createshelf.Command
		reason  string
	}{
		{
			name:    "different capacity",
			history: core.DomainEvents{FixtureShelfAdded(bookcaseID, 1, 5, FakeClock)},
			command: buildCommand(bookcaseID, 1, 7),
			reason:  "different attributes",
		},
		{
			name: "removed shelf",
			history: core.DomainEvents{
				FixtureShelfAdded(bookcaseID, 1, 5, FakeClock),
				FixtureShelfRemoved(bookcaseID, 1, FakeClock),
			},
			command: buildCommand(bookcaseID, 1, 5),
			reason:  "shelf was removed",
		},
		{
			name:    "position taken",
			history: core.DomainEvents{FixtureShelfAdded(bookcaseID, 1, 5, FakeClock)},
			command: createshelf.BuildCommand(core.ShelfIDFor(core.NewBookcaseID(), 9), bookcaseID, 1, "Other", 5, FakeClock),
			reason:  "position 1 is taken",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := createshelf.Decide(tc.history, tc.command)

			assert.ErrorIs(t, result.HasError(), core.ErrConflict)
			assert.ErrorContains(t, result.HasError(), tc.reason)
			if assert.Len(t, result.Events, 1) {
				assert.Equal(t, core.AddingShelfFailedEventType, result.Events[0].EventType())
			}
		})
	}
}

func Test_Decide_Success_PositionFreedByRemovedShelf(t *testing.T) {
	// arrange
	bookcaseID := core.NewBookcaseID()
	history := core.DomainEvents{
		FixtureShelfAdded(bookcaseID, 1, 5, FakeClock),
		FixtureShelfRemoved(bookcaseID, 1, FakeClock),
	}
	command := createshelf.BuildCommand(core.ShelfIDFor(core.NewBookcaseID(), 1), bookcaseID, 1, "Replacement", 5, FakeClock)

	// act
	result := createshelf.Decide(history, command)

	// assert
	assert.NoError(t, result.HasError())
	assert.True(t, result.HasEventsToAppend())
}
