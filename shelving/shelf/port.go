package shelf

import (
	"context"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

// BookAccessPort is the shelf module's view of the books.
//
// DeleteBooksOnShelves and UnassignBooksOnShelves are idempotent: an empty list is a no-op,
// and repeating a call with the same shelves appends nothing and returns no error.
type BookAccessPort interface {
	BookIDsOnShelf(ctx context.Context, shelfID core.ShelfID) ([]core.BookID, error)
	BookCountForShelf(ctx context.Context, shelfID core.ShelfID) (int, error)
	DeleteBooksOnShelves(ctx context.Context, shelfIDs []core.ShelfID) error
	UnassignBooksOnShelves(ctx context.Context, shelfIDs []core.ShelfID) error
}
