package createbookcase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/bookcase"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/bookcase/command/createbookcase"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf"
	. "github.com/AntonStoeckl/dynamic-streams-shelving/testutil/helper" //nolint:revive
	"github.com/AntonStoeckl/dynamic-streams-shelving/testutil/observability/testdoubles"
	"github.com/AntonStoeckl/dynamic-streams-shelving/testutil/wiring"
)

var errShelfBroke = errors.New("shelf broke")

// failingShelves fails CreateShelf at one position and, optionally, the compensation.
type failingShelves struct {
	bookcase.ShelfAccessPort
	failAtPosition int
	failDeletion   bool
}

func (s failingShelves) CreateShelf(
	ctx context.Context,
	bookcaseID core.BookcaseID,
	position int,
	label string,
	capacity int,
) (core.ShelfID, error) {

	if position == s.failAtPosition {
		return core.ShelfID{}, errShelfBroke
	}

	return s.ShelfAccessPort.CreateShelf(ctx, bookcaseID, position, label, capacity)
}

func (s failingShelves) DeleteAllShelvesInBookcase(ctx context.Context, bookcaseID core.BookcaseID) error {
	if s.failDeletion {
		return errShelfBroke
	}

	return s.ShelfAccessPort.DeleteAllShelvesInBookcase(ctx, bookcaseID)
}

func Test_CommandHandler_Handle_CreatesBookcaseWithShelves(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	handler := createbookcase.NewCommandHandler(es, wiring.ShelfAccess(es, shelf.CascadeUnassign, FakeClock))
	bookcaseID := core.NewBookcaseID()
	command := createbookcase.BuildCommand(bookcaseID, core.NewOwnerID(), "Fiction", "Living room", "north", 1, 3, 5, FakeClock)

	// act
	result, err := handler.Handle(ctx, command)

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)

	shelves := EventsOfType(t, ctx, es, core.ShelfAddedEventType)
	require.Len(t, shelves, 3)

	for i, event := range shelves {
		added := event.(core.ShelfAdded)
		assert.Equal(t, bookcaseID.String(), added.BookcaseID)
		assert.Equal(t, i+1, added.Position)
		assert.Equal(t, 5, added.BookCapacity)
		assert.Equal(t, core.ShelfIDFor(bookcaseID, i+1).String(), added.ShelfID)
	}

	assert.Equal(t, "Shelf 1", shelves[0].(core.ShelfAdded).Label)
}

func Test_CommandHandler_Handle_ReplayResumesWithoutNewFacts(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	handler := createbookcase.NewCommandHandler(es, wiring.ShelfAccess(es, shelf.CascadeUnassign, FakeClock))
	command := createbookcase.BuildCommand(core.NewBookcaseID(), core.NewOwnerID(), "Fiction", "Hall", "", 0, 2, 2, FakeClock)

	_, err := handler.Handle(ctx, command)
	require.NoError(t, err)
	eventsBefore := CountEvents(t, ctx, es)

	// act
	result, err := handler.Handle(ctx, command)

	// assert
	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Equal(t, eventsBefore, CountEvents(t, ctx, es))
}

func Test_CommandHandler_Handle_DuplicateBookcase(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	handler := createbookcase.NewCommandHandler(es, wiring.ShelfAccess(es, shelf.CascadeUnassign, FakeClock))
	first := createbookcase.BuildCommand(core.NewBookcaseID(), core.NewOwnerID(), "Fiction", "Hall", "", 0, 1, 2, FakeClock)
	second := createbookcase.BuildCommand(core.NewBookcaseID(), core.NewOwnerID(), "Fiction", "Hall", "", 0, 1, 2, FakeClock)

	_, err := handler.Handle(ctx, first)
	require.NoError(t, err)

	// act
	_, err = handler.Handle(ctx, second)

	// assert
	assert.ErrorIs(t, err, core.ErrConflict)
	assert.ErrorIs(t, err, core.ErrDuplicateBookcase)
	assert.Len(t, EventsOfType(t, ctx, es, core.CreatingBookcaseFailedEventType), 1)
	assert.Len(t, EventsOfType(t, ctx, es, core.ShelfAddedEventType), 1)
}

func Test_CommandHandler_Handle_RollsBackWhenAShelfFails(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	shelves := failingShelves{ShelfAccessPort: wiring.ShelfAccess(es, shelf.CascadeUnassign, FakeClock), failAtPosition: 3}
	handler := createbookcase.NewCommandHandler(es, shelves, createbookcase.WithClock(func() time.Time { return FakeClock }))
	command := createbookcase.BuildCommand(core.NewBookcaseID(), core.NewOwnerID(), "Fiction", "Hall", "", 0, 4, 2, FakeClock)

	// act
	_, err := handler.Handle(ctx, command)

	// assert
	require.ErrorIs(t, err, errShelfBroke)
	assert.Len(t, EventsOfType(t, ctx, es, core.ShelfAddedEventType), 2)
	assert.Len(t, EventsOfType(t, ctx, es, core.ShelfRemovedEventType), 2)

	deleted := EventsOfType(t, ctx, es, core.BookcaseDeletedEventType)
	if assert.Len(t, deleted, 1) {
		assert.Equal(t, core.BookcaseDeletedReasonCreationRolledBack, deleted[0].(core.BookcaseDeleted).Reason)
	}
}

func Test_CommandHandler_Handle_FailingReplayKeepsTheBookcaseInUse(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	access := wiring.ShelfAccess(es, shelf.CascadeUnassign, FakeClock)
	bookcaseID := core.NewBookcaseID()
	command := createbookcase.BuildCommand(bookcaseID, core.NewOwnerID(), "Fiction", "Hall", "", 0, 3, 5, FakeClock)

	_, err := createbookcase.NewCommandHandler(es, access).Handle(ctx, command)
	require.NoError(t, err)
	GivenShelvedBooks(t, ctx, es, core.ShelfIDFor(bookcaseID, 1), 4)

	replaying := createbookcase.NewCommandHandler(es, failingShelves{ShelfAccessPort: access, failAtPosition: 2})

	// act
	_, err = replaying.Handle(ctx, command)

	// assert
	require.ErrorIs(t, err, errShelfBroke)
	assert.Empty(t, EventsOfType(t, ctx, es, core.ShelfRemovedEventType))
	assert.Empty(t, EventsOfType(t, ctx, es, core.BookcaseDeletedEventType))
	assert.Empty(t, EventsOfType(t, ctx, es, core.BookTakenOffShelfEventType))
	assert.Len(t, EventsOfType(t, ctx, es, core.ShelfAddedEventType), 3)
}

func Test_CommandHandler_Handle_ReplayFinishesAHalfDoneRollback(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	bookcaseID := core.NewBookcaseID()
	ownerID := core.NewOwnerID()
	GivenEventsWereAppended(t, ctx, es,
		core.BuildBookcaseCreated(bookcaseID, ownerID, "Fiction", "Hall", "", 0, 2, 3, FakeClock),
		FixtureShelfAdded(bookcaseID, 1, 3, FakeClock),
		FixtureShelfRemoved(bookcaseID, 1, FakeClock),
	)

	handler := createbookcase.NewCommandHandler(es, wiring.ShelfAccess(es, shelf.CascadeUnassign, FakeClock))
	command := createbookcase.BuildCommand(bookcaseID, ownerID, "Fiction", "Hall", "", 0, 2, 3, FakeClock)

	// act
	_, err := handler.Handle(ctx, command)

	// assert
	require.ErrorIs(t, err, core.ErrConflict)
	deleted := EventsOfType(t, ctx, es, core.BookcaseDeletedEventType)
	if assert.Len(t, deleted, 1) {
		assert.Equal(t, core.BookcaseDeletedReasonCreationRolledBack, deleted[0].(core.BookcaseDeleted).Reason)
	}
}

func Test_CommandHandler_Handle_LogsFailedRollback(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	logger := testdoubles.NewContextualLoggerSpy()
	shelves := failingShelves{
		ShelfAccessPort: wiring.ShelfAccess(es, shelf.CascadeUnassign, FakeClock),
		failAtPosition:  2,
		failDeletion:    true,
	}
	handler := createbookcase.NewCommandHandler(es, shelves, createbookcase.WithContextualLogger(logger))
	command := createbookcase.BuildCommand(core.NewBookcaseID(), core.NewOwnerID(), "Fiction", "Hall", "", 0, 2, 2, FakeClock)

	// act
	_, err := handler.Handle(ctx, command)

	// assert
	require.ErrorIs(t, err, errShelfBroke)
	assert.Len(t, logger.Records("error"), 1)
	assert.Empty(t, EventsOfType(t, ctx, es, core.BookcaseDeletedEventType))
	assert.Len(t, EventsOfType(t, ctx, es, core.ShelfAddedEventType), 1)
}

func Test_CommandHandler_Handle_InvalidCommand(t *testing.T) {
	// arrange
	es := NewMemoryEventStore(t)
	handler := createbookcase.NewCommandHandler(es, wiring.ShelfAccess(es, shelf.CascadeUnassign, FakeClock))
	command := createbookcase.BuildCommand(core.NewBookcaseID(), core.NewOwnerID(), "", "Hall", "", 0, 2, 2, FakeClock)

	// act
	_, err := handler.Handle(context.Background(), command)

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	assert.Zero(t, CountEvents(t, context.Background(), es))
}
