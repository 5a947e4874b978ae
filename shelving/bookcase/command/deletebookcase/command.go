package deletebookcase

import (
	"time"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

const (
	commandType = "DeleteBookcase"
)

type Command struct {
	BookcaseID core.BookcaseID
	OccurredAt core.OccurredAt
}

func (c Command) CommandType() string {
	return commandType
}

func BuildCommand(bookcaseID core.BookcaseID, occurredAt time.Time) Command {
	return Command{
		BookcaseID: bookcaseID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
