// Package bookcaseaccess implements the bookcase module's ShelfAccessPort with the shelf module's
// own command and query handlers.
package bookcaseaccess

import (
	"context"
	"time"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/bookcase"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/command/createshelf"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/command/removeshelves"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/command/repairplacements"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/query/integrity"
)

// Handlers are the shelf handlers the adapter drives. Observable wrappers fit as well as the
// plain handlers. Shelves is read directly for the live shelf ids of a bookcase.
type Handlers struct {
	CreateShelf      shell.CoreCommandHandler[createshelf.Command]
	RemoveShelves    shell.CoreCommandHandler[removeshelves.Command]
	RepairPlacements shell.CoreCommandHandler[repairplacements.Command]
	Integrity        shell.CoreQueryHandler[integrity.Query, integrity.DanglingPlacements]
	Shelves          shell.QueriesEvents
}

type Adapter struct {
	handlers Handlers
	policy   shelf.CascadePolicy
	now      func() time.Time
}

type Option func(*Adapter)

// WithCascadePolicy sets what happens to the books on removed shelves. The default is CascadeUnassign.
func WithCascadePolicy(policy shelf.CascadePolicy) Option {
	return func(a *Adapter) {
		a.policy = policy
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Adapter) {
		a.now = now
	}
}

func NewAdapter(handlers Handlers, opts ...Option) Adapter {
	adapter := Adapter{
		handlers: handlers,
		policy:   shelf.CascadeUnassign,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(&adapter)
	}

	return adapter
}

// CreateShelf creates the shelf at position with the id derived from bookcase and position,
// so a replayed call lands on the same shelf.
func (a Adapter) CreateShelf(
	ctx context.Context,
	bookcaseID core.BookcaseID,
	position int,
	label string,
	capacity int,
) (core.ShelfID, error) {

	shelfID := core.ShelfIDFor(bookcaseID, position)
	command := createshelf.BuildCommand(shelfID, bookcaseID, position, label, capacity, a.now())

	if _, err := a.handlers.CreateShelf.Handle(ctx, command); err != nil {
		return core.ShelfID{}, err
	}

	return shelfID, nil
}

// ShelfIDsInBookcase reads the shelf lifecycle with strong consistency, in position order.
func (a Adapter) ShelfIDsInBookcase(ctx context.Context, bookcaseID core.BookcaseID) ([]core.ShelfID, error) {
	ctx = eventstore.WithStrongConsistency(ctx)

	history, _, err := shell.QueryHistory(ctx, a.handlers.Shelves, removeshelves.BuildShelvesFilter(bookcaseID))
	if err != nil {
		return nil, err
	}

	return removeshelves.LiveShelfIDs(history, bookcaseID), nil
}

func (a Adapter) DeleteAllShelvesInBookcase(ctx context.Context, bookcaseID core.BookcaseID) error {
	_, err := a.handlers.RemoveShelves.Handle(ctx, removeshelves.BuildCommand(bookcaseID, a.policy, a.now()))

	return err
}

// RepairDanglingPlacements returns the placements it found dangling before taking them off.
func (a Adapter) RepairDanglingPlacements(ctx context.Context) ([]bookcase.DanglingPlacement, error) {
	found, err := a.handlers.Integrity.Handle(ctx, integrity.BuildQuery())
	if err != nil {
		return nil, err
	}

	if found.Count == 0 {
		return nil, nil
	}

	if _, err = a.handlers.RepairPlacements.Handle(ctx, repairplacements.BuildCommand(a.now())); err != nil {
		return nil, err
	}

	repaired := make([]bookcase.DanglingPlacement, 0, found.Count)
	for _, placement := range found.Placements {
		repaired = append(repaired, bookcase.DanglingPlacement{
			BookID:  core.MustBookID(placement.BookID),
			ShelfID: core.MustShelfID(placement.ShelfID),
		})
	}

	return repaired, nil
}

var _ bookcase.ShelfAccessPort = Adapter{}
