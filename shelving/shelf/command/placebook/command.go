package placebook

import (
	"time"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

const (
	commandType = "PlaceBookOnShelf"
)

// Command represents the intent to put a book on a shelf. A book on another shelf is moved.
type Command struct {
	BookID     core.BookID
	ShelfID    core.ShelfID
	OccurredAt core.OccurredAt
}

func (c Command) CommandType() string {
	return commandType
}

func BuildCommand(bookID core.BookID, shelfID core.ShelfID, occurredAt time.Time) Command {
	return Command{
		BookID:     bookID,
		ShelfID:    shelfID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
