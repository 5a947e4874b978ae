package createbookcase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/bookcase/command/createbookcase"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	. "github.com/AntonStoeckl/dynamic-streams-shelving/testutil/helper" //nolint:revive
)

func Test_Decide(t *testing.T) {
	bookcaseID := core.NewBookcaseID()
	otherID := core.NewBookcaseID()
	ownerID := core.NewOwnerID()
	command := createbookcase.BuildCommand(bookcaseID, ownerID, "Fiction", "Living room", "north", 1, 3, 5, FakeClock)

	thisCreated := core.BuildBookcaseCreated(bookcaseID, ownerID, "Fiction", "Living room", "north", 1, 3, 5, FakeClock)

	testCases := []struct {
		name          string
		history       core.DomainEvents
		expectEvent   string
		expectErr     error
		expectNothing bool
	}{
		{
			name:        "new bookcase",
			history:     core.DomainEvents{},
			expectEvent: core.BookcaseCreatedEventType,
		},
		{
			name: "live bookcase with same label and location",
			history: core.DomainEvents{
				FixtureBookcaseCreated(otherID, "Fiction", "Living room", 2, 2, FakeClock),
			},
			expectEvent: core.CreatingBookcaseFailedEventType,
			expectErr:   core.ErrDuplicateBookcase,
		},
		{
			name: "deleted bookcase released label and location",
			history: core.DomainEvents{
				FixtureBookcaseCreated(otherID, "Fiction", "Living room", 2, 2, FakeClock),
				core.BuildBookcaseDeleted(otherID, "Fiction", "Living room", core.BookcaseDeletedReasonRequested, FakeClock),
			},
			expectEvent: core.BookcaseCreatedEventType,
		},
		{
			name:          "replay with identical attributes",
			history:       core.DomainEvents{thisCreated},
			expectNothing: true,
		},
		{
			name: "same id with different attributes",
			history: core.DomainEvents{
				core.BuildBookcaseCreated(bookcaseID, ownerID, "Fiction", "Living room", "north", 1, 4, 5, FakeClock),
			},
			expectEvent: core.CreatingBookcaseFailedEventType,
			expectErr:   core.ErrConflict,
		},
		{
			name: "same id is being deleted",
			history: core.DomainEvents{
				thisCreated,
				core.BuildBookcaseDeletionStarted(bookcaseID, "Fiction", "Living room", FakeClock),
			},
			expectEvent: core.CreatingBookcaseFailedEventType,
			expectErr:   core.ErrConflict,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := createbookcase.Decide(tc.history, command)

			// assert
			if tc.expectNothing {
				assert.False(t, result.HasEventsToAppend())
				assert.NoError(t, result.HasError())

				return
			}

			if assert.Len(t, result.Events, 1) {
				assert.Equal(t, tc.expectEvent, result.Events[0].EventType())
			}

			if tc.expectErr != nil {
				assert.ErrorIs(t, result.HasError(), tc.expectErr)
			} else {
				assert.NoError(t, result.HasError())
			}
		})
	}
}

func Test_DecideRollback_IsIdempotent(t *testing.T) {
	// arrange
	bookcaseID := core.NewBookcaseID()
	ownerID := core.NewOwnerID()
	command := createbookcase.BuildCommand(bookcaseID, ownerID, "Fiction", "Hall", "", 0, 2, 2, FakeClock)
	created := core.BuildBookcaseCreated(bookcaseID, ownerID, "Fiction", "Hall", "", 0, 2, 2, FakeClock)

	// act
	first := createbookcase.DecideRollback(core.DomainEvents{created}, command)
	second := createbookcase.DecideRollback(core.DomainEvents{created, first.Events[0]}, command)

	// assert
	assert.Equal(t, core.BookcaseDeletedReasonCreationRolledBack, first.Events[0].(core.BookcaseDeleted).Reason)
	assert.False(t, second.HasEventsToAppend())
}

func Test_BuildCommand_ClampsShelfCapacity(t *testing.T) {
	command := createbookcase.BuildCommand(core.NewBookcaseID(), core.NewOwnerID(), " Fiction ", "Hall", "", 0, 0, 5, FakeClock)

	assert.Equal(t, 1, command.ShelfCapacity)
	assert.Equal(t, "Fiction", command.Label)
	assert.Equal(t, 5, command.NominalCapacity())
}

func Test_Command_Validate(t *testing.T) {
	valid := createbookcase.BuildCommand(core.NewBookcaseID(), core.NewOwnerID(), "Fiction", "Hall", "", 0, 3, 5, FakeClock)
	blankLabel := createbookcase.BuildCommand(core.NewBookcaseID(), core.NewOwnerID(), "  ", "Hall", "", 0, 3, 5, FakeClock)
	noOwner := createbookcase.BuildCommand(core.NewBookcaseID(), core.OwnerID{}, "Fiction", "Hall", "", 0, 3, 5, FakeClock)
	noBookCapacity := createbookcase.BuildCommand(core.NewBookcaseID(), core.NewOwnerID(), "Fiction", "Hall", "", 0, 3, 0, FakeClock)

	assert.NoError(t, valid.Validate())
	assert.ErrorIs(t, blankLabel.Validate(), core.ErrInvalidArgument)
	assert.ErrorIs(t, noOwner.Validate(), core.ErrInvalidArgument)
	assert.ErrorIs(t, noBookCapacity.Validate(), core.ErrInvalidArgument)
}
