package core

import (
	"time"
)

const (
	BookPlacedOnShelfEventType        = "BookPlacedOnShelf"
	BookTakenOffShelfEventType        = "BookTakenOffShelf"
	PlacingBookOnShelfFailedEventType = "PlacingBookOnShelfFailed"
)

// Reasons carried by BookTakenOffShelf.
const (
	TakenOffReasonTakenOff           = "taken off"
	TakenOffReasonMoved              = "moved to another shelf"
	TakenOffReasonRemovedFromCatalog = "removed from catalog"
	TakenOffReasonShelfRemoved       = "shelf removed"
	TakenOffReasonDanglingRepaired   = "shelf no longer exists"
)

// BookPlacedOnShelf is the placement fact. A book sits on the shelf of its latest placement
// until a BookTakenOffShelf for that same shelf follows.
type BookPlacedOnShelf struct {
	BookID     string
	ShelfID    string
	OccurredAt OccurredAt
}

func BuildBookPlacedOnShelf(bookID BookID, shelfID ShelfID, occurredAt time.Time) BookPlacedOnShelf {
	return BookPlacedOnShelf{
		BookID:     bookID.String(),
		ShelfID:    shelfID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BookPlacedOnShelf) EventType() string        { return BookPlacedOnShelfEventType }
func (e BookPlacedOnShelf) HasOccurredAt() time.Time { return e.OccurredAt }
func (e BookPlacedOnShelf) IsErrorEvent() bool       { return false }

// BookTakenOffShelf always names the shelf the book leaves, also for moves and cascades.
type BookTakenOffShelf struct {
	BookID     string
	ShelfID    string
	Reason     string
	OccurredAt OccurredAt
}

func BuildBookTakenOffShelf(bookID BookID, shelfID ShelfID, reason string, occurredAt time.Time) BookTakenOffShelf {
	return BookTakenOffShelf{
		BookID:     bookID.String(),
		ShelfID:    shelfID.String(),
		Reason:     reason,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BookTakenOffShelf) EventType() string        { return BookTakenOffShelfEventType }
func (e BookTakenOffShelf) HasOccurredAt() time.Time { return e.OccurredAt }
func (e BookTakenOffShelf) IsErrorEvent() bool       { return false }

type PlacingBookOnShelfFailed struct {
	BookID      string
	ShelfID     string
	FailureInfo string
	OccurredAt  OccurredAt
}

func BuildPlacingBookOnShelfFailed(bookID BookID, shelfID ShelfID, failureInfo string, occurredAt time.Time) PlacingBookOnShelfFailed {
	return PlacingBookOnShelfFailed{
		BookID:      bookID.String(),
		ShelfID:     shelfID.String(),
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e PlacingBookOnShelfFailed) EventType() string        { return PlacingBookOnShelfFailedEventType }
func (e PlacingBookOnShelfFailed) HasOccurredAt() time.Time { return e.OccurredAt }
func (e PlacingBookOnShelfFailed) IsErrorEvent() bool       { return true }
