package core

import (
	"time"
)

const (
	AuthorRegisteredEventType              = "AuthorRegistered"
	BookAddedToCatalogEventType            = "BookAddedToCatalog"
	BookRemovedFromCatalogEventType        = "BookRemovedFromCatalog"
	RemovingBookFromCatalogFailedEventType = "RemovingBookFromCatalogFailed"
)

// AuthorRegistered records that an author is known to the catalog.
type AuthorRegistered struct {
	AuthorID   string
	Name       string
	OccurredAt OccurredAt
}

func BuildAuthorRegistered(authorID AuthorID, name string, occurredAt time.Time) AuthorRegistered {
	return AuthorRegistered{
		AuthorID:   authorID.String(),
		Name:       name,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e AuthorRegistered) EventType() string        { return AuthorRegisteredEventType }
func (e AuthorRegistered) HasOccurredAt() time.Time { return e.OccurredAt }
func (e AuthorRegistered) IsErrorEvent() bool       { return false }

// BookAddedToCatalog records a book with its opaque catalog data.
type BookAddedToCatalog struct {
	BookID     string
	ISBN       string
	Title      string
	AuthorIDs  []string
	OccurredAt OccurredAt
}

func BuildBookAddedToCatalog(
	bookID BookID,
	isbn string,
	title string,
	authorIDs []AuthorID,
	occurredAt time.Time,
) BookAddedToCatalog {

	authors := make([]string, 0, len(authorIDs))
	for _, authorID := range authorIDs {
		authors = append(authors, authorID.String())
	}

	return BookAddedToCatalog{
		BookID:     bookID.String(),
		ISBN:       isbn,
		Title:      title,
		AuthorIDs:  authors,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BookAddedToCatalog) EventType() string        { return BookAddedToCatalogEventType }
func (e BookAddedToCatalog) HasOccurredAt() time.Time { return e.OccurredAt }
func (e BookAddedToCatalog) IsErrorEvent() bool       { return false }

// BookRemovedFromCatalog records that a book is gone for good.
type BookRemovedFromCatalog struct {
	BookID     string
	Reason     string
	OccurredAt OccurredAt
}

func BuildBookRemovedFromCatalog(bookID BookID, reason string, occurredAt time.Time) BookRemovedFromCatalog {
	return BookRemovedFromCatalog{
		BookID:     bookID.String(),
		Reason:     reason,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BookRemovedFromCatalog) EventType() string        { return BookRemovedFromCatalogEventType }
func (e BookRemovedFromCatalog) HasOccurredAt() time.Time { return e.OccurredAt }
func (e BookRemovedFromCatalog) IsErrorEvent() bool       { return false }

// RemovingBookFromCatalogFailed records a rejected removal.
type RemovingBookFromCatalogFailed struct {
	BookID      string
	FailureInfo string
	OccurredAt  OccurredAt
}

func BuildRemovingBookFromCatalogFailed(bookID BookID, failureInfo string, occurredAt time.Time) RemovingBookFromCatalogFailed {
	return RemovingBookFromCatalogFailed{
		BookID:      bookID.String(),
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e RemovingBookFromCatalogFailed) EventType() string {
	return RemovingBookFromCatalogFailedEventType
}
func (e RemovingBookFromCatalogFailed) HasOccurredAt() time.Time { return e.OccurredAt }
func (e RemovingBookFromCatalogFailed) IsErrorEvent() bool       { return true }
