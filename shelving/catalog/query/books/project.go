package books

import (
	"slices"
	"strings"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

// Project builds the list of books in the catalog, oldest first.
//
//	INCLUDES: books added and not removed, with their current shelf
//	EXCLUDES: removed books, and books on other shelves when the query names a shelf
func Project(history core.DomainEvents, query Query, maxSequence uint) Books {
	books := make(map[string]*BookInfo)

	for _, event := range history {
		switch e := event.(type) {
		case core.BookAddedToCatalog:
			books[e.BookID] = &BookInfo{
				BookID:    e.BookID,
				ISBN:      e.ISBN,
				Title:     e.Title,
				AuthorIDs: e.AuthorIDs,
				AddedAt:   e.OccurredAt,
			}

		case core.BookRemovedFromCatalog:
			delete(books, e.BookID)

		case core.BookPlacedOnShelf:
			if book, ok := books[e.BookID]; ok {
				book.ShelfID = e.ShelfID
			}

		case core.BookTakenOffShelf:
			if book, ok := books[e.BookID]; ok && book.ShelfID == e.ShelfID {
				book.ShelfID = ""
			}
		}
	}

	bookList := make([]BookInfo, 0, len(books))
	for _, book := range books {
		if query.ShelfID != "" && book.ShelfID != query.ShelfID {
			continue
		}

		bookList = append(bookList, *book)
	}

	slices.SortFunc(bookList, func(a, b BookInfo) int {
		if c := a.AddedAt.Compare(b.AddedAt); c != 0 {
			return c
		}

		return strings.Compare(a.BookID, b.BookID)
	})

	return Books{
		Books:          bookList,
		Count:          len(bookList),
		SequenceNumber: maxSequence,
	}
}

func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
			core.BookRemovedFromCatalogEventType,
			core.BookPlacedOnShelfEventType,
			core.BookTakenOffShelfEventType,
		).
		Finalize()
}
