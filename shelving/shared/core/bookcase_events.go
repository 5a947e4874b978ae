package core

import (
	"time"
)

const (
	BookcaseCreatedEventType         = "BookcaseCreated"
	CreatingBookcaseFailedEventType  = "CreatingBookcaseFailed"
	BookcaseDeletionStartedEventType = "BookcaseDeletionStarted"
	BookcaseDeletedEventType         = "BookcaseDeleted"
)

// Reasons carried by BookcaseDeleted.
const (
	BookcaseDeletedReasonRequested          = "deletion requested"
	BookcaseDeletedReasonCreationRolledBack = "creation rolled back"
)

// BookcaseCreated is the first step of the creation saga; the shelves follow as ShelfAdded facts.
type BookcaseCreated struct {
	BookcaseID           string
	OwnerID              string
	Label                string
	Location             string
	Zone                 string
	ZoneIndex            int
	ShelfCapacity        int
	BookCapacityPerShelf int
	OccurredAt           OccurredAt
}

func BuildBookcaseCreated(
	bookcaseID BookcaseID,
	ownerID OwnerID,
	label string,
	location string,
	zone string,
	zoneIndex int,
	shelfCapacity int,
	bookCapacityPerShelf int,
	occurredAt time.Time,
) BookcaseCreated {

	return BookcaseCreated{
		BookcaseID:           bookcaseID.String(),
		OwnerID:              ownerID.String(),
		Label:                label,
		Location:             location,
		Zone:                 zone,
		ZoneIndex:            zoneIndex,
		ShelfCapacity:        shelfCapacity,
		BookCapacityPerShelf: bookCapacityPerShelf,
		OccurredAt:           ToOccurredAt(occurredAt),
	}
}

func (e BookcaseCreated) EventType() string        { return BookcaseCreatedEventType }
func (e BookcaseCreated) HasOccurredAt() time.Time { return e.OccurredAt }
func (e BookcaseCreated) IsErrorEvent() bool       { return false }

type CreatingBookcaseFailed struct {
	BookcaseID  string
	Label       string
	Location    string
	FailureInfo string
	OccurredAt  OccurredAt
}

func BuildCreatingBookcaseFailed(
	bookcaseID BookcaseID,
	label string,
	location string,
	failureInfo string,
	occurredAt time.Time,
) CreatingBookcaseFailed {

	return CreatingBookcaseFailed{
		BookcaseID:  bookcaseID.String(),
		Label:       label,
		Location:    location,
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e CreatingBookcaseFailed) EventType() string        { return CreatingBookcaseFailedEventType }
func (e CreatingBookcaseFailed) HasOccurredAt() time.Time { return e.OccurredAt }
func (e CreatingBookcaseFailed) IsErrorEvent() bool       { return true }

// BookcaseDeletionStarted is the durable progress marker of the deletion cascade.
type BookcaseDeletionStarted struct {
	BookcaseID string
	Label      string
	Location   string
	OccurredAt OccurredAt
}

func BuildBookcaseDeletionStarted(bookcaseID BookcaseID, label string, location string, occurredAt time.Time) BookcaseDeletionStarted {
	return BookcaseDeletionStarted{
		BookcaseID: bookcaseID.String(),
		Label:      label,
		Location:   location,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BookcaseDeletionStarted) EventType() string        { return BookcaseDeletionStartedEventType }
func (e BookcaseDeletionStarted) HasOccurredAt() time.Time { return e.OccurredAt }
func (e BookcaseDeletionStarted) IsErrorEvent() bool       { return false }

// BookcaseDeleted carries label and location so that the duplicate check can release them.
type BookcaseDeleted struct {
	BookcaseID string
	Label      string
	Location   string
	Reason     string
	OccurredAt OccurredAt
}

func BuildBookcaseDeleted(bookcaseID BookcaseID, label string, location string, reason string, occurredAt time.Time) BookcaseDeleted {
	return BookcaseDeleted{
		BookcaseID: bookcaseID.String(),
		Label:      label,
		Location:   location,
		Reason:     reason,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BookcaseDeleted) EventType() string        { return BookcaseDeletedEventType }
func (e BookcaseDeleted) HasOccurredAt() time.Time { return e.OccurredAt }
func (e BookcaseDeleted) IsErrorEvent() bool       { return false }
