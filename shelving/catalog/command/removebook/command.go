package removebook

import (
	"strings"
	"time"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

const (
	commandType = "RemoveBookFromCatalog"

	defaultReason = "removed by request"
)

// Command represents the intent to remove a book from the catalog.
type Command struct {
	BookID     core.BookID
	Reason     string
	OccurredAt core.OccurredAt
}

func (c Command) CommandType() string {
	return commandType
}

// BuildCommand falls back to a generic reason when reason is blank.
func BuildCommand(bookID core.BookID, reason string, occurredAt time.Time) Command {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultReason
	}

	return Command{
		BookID:     bookID,
		Reason:     reason,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
