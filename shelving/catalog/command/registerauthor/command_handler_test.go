package registerauthor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/catalog/command/registerauthor"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	. "github.com/AntonStoeckl/dynamic-streams-shelving/testutil/helper" //nolint:revive
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	handler := registerauthor.NewCommandHandler(es)
	authorID := core.NewAuthorID()

	// act
	result, err := handler.Handle(ctx, registerauthor.BuildCommand(authorID, "  Vaughn Vernon ", FakeClock))

	// assert
	assert.NoError(t, err)
	assert.False(t, result.Idempotent)

	events := EventsOfType(t, ctx, es, core.AuthorRegisteredEventType)
	if assert.Len(t, events, 1) {
		registered := events[0].(core.AuthorRegistered)
		assert.Equal(t, authorID.String(), registered.AuthorID)
		assert.Equal(t, "Vaughn Vernon", registered.Name)
	}
}

func Test_CommandHandler_Handle_Idempotent_WhenAlreadyRegistered(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	handler := registerauthor.NewCommandHandler(es)
	command := registerauthor.BuildCommand(core.NewAuthorID(), "Vaughn Vernon", FakeClock)

	_, err := handler.Handle(ctx, command)
	assert.NoError(t, err)

	// act
	result, err := handler.Handle(ctx, command)

	// assert
	assert.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Equal(t, 1, CountEvents(t, ctx, es))
}

func Test_CommandHandler_Handle_Error_InvalidInput(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := NewMemoryEventStore(t)
	handler := registerauthor.NewCommandHandler(es)

	// act
	_, blankErr := handler.Handle(ctx, registerauthor.BuildCommand(core.NewAuthorID(), "   ", FakeClock))
	_, zeroErr := handler.Handle(ctx, registerauthor.BuildCommand(core.AuthorID{}, "Vaughn Vernon", FakeClock))

	// assert
	assert.ErrorIs(t, blankErr, core.ErrInvalidArgument)
	assert.ErrorIs(t, zeroErr, core.ErrInvalidArgument)
	assert.Equal(t, 0, CountEvents(t, ctx, es))
}
