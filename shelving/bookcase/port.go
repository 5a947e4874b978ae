package bookcase

import (
	"context"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

// ShelfAccessPort is the bookcase module's view of the shelves.
//
// DeleteAllShelvesInBookcase takes care of the books on the shelves first, following the cascade
// policy the shelf module was configured with. Calling it for a bookcase without shelves is a no-op.
type ShelfAccessPort interface {
	CreateShelf(ctx context.Context, bookcaseID core.BookcaseID, position int, label string, capacity int) (core.ShelfID, error)
	ShelfIDsInBookcase(ctx context.Context, bookcaseID core.BookcaseID) ([]core.ShelfID, error)
	DeleteAllShelvesInBookcase(ctx context.Context, bookcaseID core.BookcaseID) error
	RepairDanglingPlacements(ctx context.Context) ([]DanglingPlacement, error)
}

// DanglingPlacement is a book that was left on a shelf which no longer exists.
type DanglingPlacement struct {
	BookID  core.BookID  `json:"bookId"`
	ShelfID core.ShelfID `json:"shelfId"`
}
