package core

import (
	"time"
)

const (
	ShelfAddedEventType        = "ShelfAdded"
	ShelfRemovedEventType      = "ShelfRemoved"
	AddingShelfFailedEventType = "AddingShelfFailed"
)

// ShelfAdded records a shelf at a 1-based position of a bookcase. It never lists books;
// membership comes from the placement facts.
type ShelfAdded struct {
	ShelfID      string
	BookcaseID   string
	Position     int
	Label        string
	BookCapacity int
	OccurredAt   OccurredAt
}

func BuildShelfAdded(
	shelfID ShelfID,
	bookcaseID BookcaseID,
	position int,
	label string,
	bookCapacity int,
	occurredAt time.Time,
) ShelfAdded {

	return ShelfAdded{
		ShelfID:      shelfID.String(),
		BookcaseID:   bookcaseID.String(),
		Position:     position,
		Label:        label,
		BookCapacity: bookCapacity,
		OccurredAt:   ToOccurredAt(occurredAt),
	}
}

func (e ShelfAdded) EventType() string        { return ShelfAddedEventType }
func (e ShelfAdded) HasOccurredAt() time.Time { return e.OccurredAt }
func (e ShelfAdded) IsErrorEvent() bool       { return false }

type ShelfRemoved struct {
	ShelfID    string
	BookcaseID string
	OccurredAt OccurredAt
}

func BuildShelfRemoved(shelfID ShelfID, bookcaseID BookcaseID, occurredAt time.Time) ShelfRemoved {
	return ShelfRemoved{
		ShelfID:    shelfID.String(),
		BookcaseID: bookcaseID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e ShelfRemoved) EventType() string        { return ShelfRemovedEventType }
func (e ShelfRemoved) HasOccurredAt() time.Time { return e.OccurredAt }
func (e ShelfRemoved) IsErrorEvent() bool       { return false }

type AddingShelfFailed struct {
	ShelfID     string
	BookcaseID  string
	FailureInfo string
	OccurredAt  OccurredAt
}

func BuildAddingShelfFailed(shelfID ShelfID, bookcaseID BookcaseID, failureInfo string, occurredAt time.Time) AddingShelfFailed {
	return AddingShelfFailed{
		ShelfID:     shelfID.String(),
		BookcaseID:  bookcaseID.String(),
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e AddingShelfFailed) EventType() string        { return AddingShelfFailedEventType }
func (e AddingShelfFailed) HasOccurredAt() time.Time { return e.OccurredAt }
func (e AddingShelfFailed) IsErrorEvent() bool       { return true }
