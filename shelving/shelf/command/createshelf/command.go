package createshelf

import (
	"errors"
	"strings"
	"time"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

const (
	commandType = "CreateShelf"
)

// Command represents the intent to add a shelf to a bookcase.
type Command struct {
	ShelfID    core.ShelfID
	BookcaseID core.BookcaseID
	Position   int
	Label      string
	Capacity   int
	OccurredAt core.OccurredAt
}

func (c Command) CommandType() string {
	return commandType
}

func (c Command) Validate() error {
	var errs []error

	if c.ShelfID.IsZero() {
		errs = append(errs, errors.New("shelf id must not be empty"))
	}

	if c.BookcaseID.IsZero() {
		errs = append(errs, errors.New("bookcase id must not be empty"))
	}

	if c.Position <= 0 {
		errs = append(errs, errors.New("position must be at least 1"))
	}

	if c.Label == "" {
		errs = append(errs, errors.New("label must not be blank"))
	}

	if c.Capacity <= 0 {
		errs = append(errs, errors.New("capacity must be at least 1"))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{core.ErrInvalidArgument}, errs...)...)
	}

	return nil
}

func BuildCommand(
	shelfID core.ShelfID,
	bookcaseID core.BookcaseID,
	position int,
	label string,
	capacity int,
	occurredAt time.Time,
) Command {

	return Command{
		ShelfID:    shelfID,
		BookcaseID: bookcaseID,
		Position:   position,
		Label:      strings.TrimSpace(label),
		Capacity:   capacity,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
