package registerauthor

import (
	"errors"
	"strings"
	"time"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

const (
	commandType = "RegisterAuthor"
)

// Command represents the intent to register an author.
type Command struct {
	AuthorID   core.AuthorID
	Name       string
	OccurredAt core.OccurredAt
}

func (c Command) CommandType() string {
	return commandType
}

// Validate rejects commands that can never succeed.
func (c Command) Validate() error {
	if c.AuthorID.IsZero() {
		return errors.Join(core.ErrInvalidArgument, errors.New("author id must not be empty"))
	}

	if strings.TrimSpace(c.Name) == "" {
		return errors.Join(core.ErrInvalidArgument, errors.New("author name must not be blank"))
	}

	return nil
}

func BuildCommand(authorID core.AuthorID, name string, occurredAt time.Time) Command {
	return Command{
		AuthorID:   authorID,
		Name:       strings.TrimSpace(name),
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
