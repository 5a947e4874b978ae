package addbook_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/catalog/command/addbook"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/catalog/command/registerauthor"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	. "github.com/AntonStoeckl/dynamic-streams-shelving/testutil/helper" //nolint:revive
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	authorID := core.NewAuthorID()
	_, err := registerauthor.NewCommandHandler(es).Handle(ctx, registerauthor.BuildCommand(authorID, "Eric Evans", FakeClock))
	assert.NoError(t, err)

	handler := addbook.NewCommandHandler(es)
	command := addbook.BuildCommand(core.NewBookID(), "978-0-321-12521-7", "Domain-Driven Design", []core.AuthorID{authorID}, FakeClock)

	// act
	result, err := handler.Handle(ctx, command)

	// assert
	assert.NoError(t, err)
	assert.False(t, result.Idempotent)
	assert.Len(t, EventsOfType(t, ctx, es, core.BookAddedToCatalogEventType), 1)
}

func Test_CommandHandler_Handle_Error_UnregisteredAuthorAppendsNothing(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	handler := addbook.NewCommandHandler(es)
	command := addbook.BuildCommand(core.NewBookID(), "", "Domain-Driven Design", []core.AuthorID{core.NewAuthorID()}, FakeClock)

	// act
	_, err := handler.Handle(ctx, command)

	// assert
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Equal(t, 0, CountEvents(t, ctx, es))
}

func Test_CommandHandler_Handle_Error_BlankTitle(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	handler := addbook.NewCommandHandler(es)

	// act
	_, err := handler.Handle(ctx, addbook.BuildCommand(core.NewBookID(), "", "  ", nil, FakeClock))

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}
