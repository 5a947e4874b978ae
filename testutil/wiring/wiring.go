// Package wiring connects the module adapters the way the app does, for tests that cross module borders.
package wiring

import (
	"time"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/catalog/shelfaccess"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/bookcaseaccess"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/command/createshelf"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/command/removeshelves"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/command/repairplacements"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/query/integrity"
)

// BookAccess returns the catalog's implementation of the shelf module's book port.
func BookAccess(es shell.EventStore, clock time.Time) shelfaccess.Adapter {
	return shelfaccess.NewAdapter(es, shelfaccess.WithClock(func() time.Time { return clock }))
}

// ShelfAccess returns the shelf module's implementation of the bookcase module's shelf port.
func ShelfAccess(es shell.EventStore, policy shelf.CascadePolicy, clock time.Time) bookcaseaccess.Adapter {
	books := BookAccess(es, clock)

	return bookcaseaccess.NewAdapter(
		bookcaseaccess.Handlers{
			CreateShelf:      createshelf.NewCommandHandler(es),
			RemoveShelves:    removeshelves.NewCommandHandler(es, books),
			RepairPlacements: repairplacements.NewCommandHandler(es),
			Integrity:        integrity.NewQueryHandler(es),
			Shelves:          es,
		},
		bookcaseaccess.WithCascadePolicy(policy),
		bookcaseaccess.WithClock(func() time.Time { return clock }),
	)
}
