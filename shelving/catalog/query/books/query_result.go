package books

import (
	"time"
)

// BookInfo is one catalog entry. ShelfID is empty for unshelved books.
type BookInfo struct {
	BookID    string    `json:"bookId"`
	ISBN      string    `json:"isbn"`
	Title     string    `json:"title"`
	AuthorIDs []string  `json:"authorIds"`
	ShelfID   string    `json:"shelfId,omitempty"`
	AddedAt   time.Time `json:"addedAt"`
}

type Books struct {
	Books          []BookInfo `json:"books"`
	Count          int        `json:"count"`
	SequenceNumber uint       `json:"sequenceNumber"`
}
