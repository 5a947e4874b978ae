package bookcases_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/bookcase/query/bookcases"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	. "github.com/AntonStoeckl/dynamic-streams-shelving/testutil/helper" //nolint:revive
)

func Test_QueryHandler_Handle(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	ownerID := core.NewOwnerID()
	active := core.NewBookcaseID()
	deleting := core.NewBookcaseID()
	deleted := core.NewBookcaseID()
	foreign := core.NewBookcaseID()

	GivenEventsWereAppended(t, ctx, es,
		core.BuildBookcaseCreated(active, ownerID, "Fiction", "Hall", "north", 1, 3, 5, FakeClock),
		core.BuildBookcaseCreated(deleting, ownerID, "Poetry", "Hall", "north", 2, 2, 2, FakeClock.Add(time.Minute)),
		core.BuildBookcaseCreated(deleted, ownerID, "Travel", "Hall", "north", 3, 1, 1, FakeClock.Add(2*time.Minute)),
		FixtureBookcaseCreated(foreign, "Comics", "Attic", 1, 1, FakeClock.Add(3*time.Minute)),
		core.BuildBookcaseDeletionStarted(deleting, "Poetry", "Hall", FakeClock),
		core.BuildBookcaseDeletionStarted(deleted, "Travel", "Hall", FakeClock),
		core.BuildBookcaseDeleted(deleted, "Travel", "Hall", core.BookcaseDeletedReasonRequested, FakeClock),
	)

	handler := bookcases.NewQueryHandler(es)

	// act
	owned, err := handler.Handle(ctx, bookcases.BuildQueryForOwner(ownerID))
	require.NoError(t, err)
	withDeleting, err := handler.Handle(ctx, bookcases.BuildQueryIncludingDeleting())
	require.NoError(t, err)

	// assert
	if assert.Equal(t, 1, owned.Count) {
		assert.Equal(t, active.String(), owned.Bookcases[0].BookcaseID)
		assert.Equal(t, 15, owned.Bookcases[0].NominalCapacity)
		assert.Equal(t, bookcases.StatusActive, owned.Bookcases[0].Status)
	}

	if assert.Equal(t, 3, withDeleting.Count) {
		assert.Equal(t, bookcases.StatusDeleting, withDeleting.Bookcases[1].Status)
		assert.Equal(t, foreign.String(), withDeleting.Bookcases[2].BookcaseID)
	}
}
