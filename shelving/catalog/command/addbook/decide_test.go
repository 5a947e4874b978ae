package addbook_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/catalog/command/addbook"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	. "github.com/AntonStoeckl/dynamic-streams-shelving/testutil/helper" //nolint:revive
)

func Test_Decide_Success_WhenAllAuthorsAreRegistered(t *testing.T) {
	// arrange
	bookID := core.NewBookID()
	authorID := core.NewAuthorID()
	history := core.DomainEvents{FixtureAuthorRegistered(authorID, FakeClock)}
	command := addbook.BuildCommand(bookID, "978-0-321-12521-7", "Domain-Driven Design", []core.AuthorID{authorID}, FakeClock)

	// act
	result := addbook.Decide(history, command)

	// assert
	assert.NoError(t, result.HasError())
	if assert.Len(t, result.Events, 1) {
		added := result.Events[0].(core.BookAddedToCatalog)
		assert.Equal(t, bookID.String(), added.BookID)
		assert.Equal(t, []string{authorID.String()}, added.AuthorIDs)
	}
}

func Test_Decide_Error_WhenAnAuthorIsNotRegistered(t *testing.T) {
	// arrange
	registered := core.NewAuthorID()
	unknown := core.NewAuthorID()
	history := core.DomainEvents{FixtureAuthorRegistered(registered, FakeClock)}
	command := addbook.BuildCommand(core.NewBookID(), "", "Implementing DDD", []core.AuthorID{registered, unknown}, FakeClock)

	// act
	result := addbook.Decide(history, command)

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrNotFound)
	assert.ErrorContains(t, result.HasError(), unknown.String())
	assert.False(t, result.HasEventsToAppend())
}

func Test_Decide_Idempotent_WhenAlreadyAdded(t *testing.T) {
	// arrange
	bookID := core.NewBookID()
	history := core.DomainEvents{FixtureBookAddedToCatalog(bookID, FakeClock)}

	// act
	result := addbook.Decide(history, addbook.BuildCommand(bookID, "", "Learning Domain-Driven Design", nil, FakeClock))

	// assert
	assert.NoError(t, result.HasError())
	assert.False(t, result.HasEventsToAppend())
}

func Test_Decide_Error_WhenBookWasRemoved(t *testing.T) {
	// arrange
	bookID := core.NewBookID()
	history := core.DomainEvents{
		FixtureBookAddedToCatalog(bookID, FakeClock),
		FixtureBookRemovedFromCatalog(bookID, FakeClock),
	}

	// act
	result := addbook.Decide(history, addbook.BuildCommand(bookID, "", "Learning Domain-Driven Design", nil, FakeClock))

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrConflict)
}
