package addbook

import (
	"errors"
	"strings"
	"time"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

const (
	commandType = "AddBookToCatalog"
)

// Command represents the intent to add a book to the catalog.
type Command struct {
	BookID     core.BookID
	ISBN       string
	Title      string
	AuthorIDs  []core.AuthorID
	OccurredAt core.OccurredAt
}

func (c Command) CommandType() string {
	return commandType
}

func (c Command) Validate() error {
	if c.BookID.IsZero() {
		return errors.Join(core.ErrInvalidArgument, errors.New("book id must not be empty"))
	}

	if c.Title == "" {
		return errors.Join(core.ErrInvalidArgument, errors.New("book title must not be blank"))
	}

	return nil
}

func BuildCommand(bookID core.BookID, isbn string, title string, authorIDs []core.AuthorID, occurredAt time.Time) Command {
	return Command{
		BookID:     bookID,
		ISBN:       strings.TrimSpace(isbn),
		Title:      strings.TrimSpace(title),
		AuthorIDs:  authorIDs,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
