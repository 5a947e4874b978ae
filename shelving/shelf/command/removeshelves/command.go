package removeshelves

import (
	"time"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf"
)

const (
	commandType = "RemoveShelvesOfBookcase"
)

// Command represents the intent to remove every live shelf of a bookcase.
type Command struct {
	BookcaseID core.BookcaseID
	Policy     shelf.CascadePolicy
	OccurredAt core.OccurredAt
}

func (c Command) CommandType() string {
	return commandType
}

func BuildCommand(bookcaseID core.BookcaseID, policy shelf.CascadePolicy, occurredAt time.Time) Command {
	return Command{
		BookcaseID: bookcaseID,
		Policy:     policy,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
