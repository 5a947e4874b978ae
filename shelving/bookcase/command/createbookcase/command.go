package createbookcase

import (
	"errors"
	"strings"
	"time"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

const (
	commandType = "CreateBookcase"
)

// Command represents the intent to create a bookcase with ShelfCapacity shelves.
type Command struct {
	BookcaseID           core.BookcaseID
	OwnerID              core.OwnerID
	Label                string
	Location             string
	Zone                 string
	ZoneIndex            int
	ShelfCapacity        int
	BookCapacityPerShelf int
	OccurredAt           core.OccurredAt
}

// Result is what callers get back from a successful creation.
type Result struct {
	BookcaseID core.BookcaseID `json:"bookcaseId"`
}

func (c Command) CommandType() string {
	return commandType
}

func (c Command) Validate() error {
	var errs []error

	if c.BookcaseID.IsZero() {
		errs = append(errs, errors.New("bookcase id must not be empty"))
	}

	if c.OwnerID.IsZero() {
		errs = append(errs, errors.New("owner id must not be empty"))
	}

	if c.Label == "" {
		errs = append(errs, errors.New("label must not be blank"))
	}

	if c.BookCapacityPerShelf <= 0 {
		errs = append(errs, errors.New("book capacity per shelf must be at least 1"))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{core.ErrInvalidArgument}, errs...)...)
	}

	return nil
}

// NominalCapacity is the number of books the bookcase holds when every shelf is full.
func (c Command) NominalCapacity() int {
	return c.ShelfCapacity * c.BookCapacityPerShelf
}

// BuildCommand trims label and location and raises a shelf capacity below 1 to 1.
func BuildCommand(
	bookcaseID core.BookcaseID,
	ownerID core.OwnerID,
	label string,
	location string,
	zone string,
	zoneIndex int,
	shelfCapacity int,
	bookCapacityPerShelf int,
	occurredAt time.Time,
) Command {

	return Command{
		BookcaseID:           bookcaseID,
		OwnerID:              ownerID,
		Label:                strings.TrimSpace(label),
		Location:             strings.TrimSpace(location),
		Zone:                 strings.TrimSpace(zone),
		ZoneIndex:            zoneIndex,
		ShelfCapacity:        max(shelfCapacity, 1),
		BookCapacityPerShelf: bookCapacityPerShelf,
		OccurredAt:           core.ToOccurredAt(occurredAt),
	}
}
