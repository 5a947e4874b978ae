package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/app"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/bookcase/command/createbookcase"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/catalog/command/addbook"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell/config"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/command/placebook"
)

var seedZones = []string{"north", "east", "south", "west"}

type seedSummary struct {
	Bookcases    int `json:"bookcases"`
	Books        int `json:"books"`
	Placed       int `json:"placed"`
	ShelvesFull  int `json:"shelvesFull"`
	DurationMsec int `json:"durationMsec"`
}

func seedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Fill the store with sample bookcases and books",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "bookcases", Usage: "Number of bookcases", Value: 3},
			&cli.IntFlag{Name: "shelves", Usage: "Shelves per bookcase", Value: 4},
			&cli.IntFlag{Name: "books-per-shelf", Usage: "Book capacity of each shelf", Value: 10},
			&cli.IntFlag{Name: "books", Usage: "Number of books to add and place", Value: 50},
		},
		Action: r.withApp(r.Seed),
	}
}

// Seed adds bookcases and books and places every book on a random shelf.
// Books that find only full shelves stay unassigned.
func (r *Runner) Seed(ctx context.Context, cmd *cli.Command, a *app.App, _ config.Config) error {
	started := time.Now()
	ownerID := core.NewOwnerID()
	shelves := int(cmd.Int("shelves"))
	summary := seedSummary{}

	var shelfIDs []core.ShelfID

	for i := range int(cmd.Int("bookcases")) {
		bookcaseID := core.NewBookcaseID()
		command := createbookcase.BuildCommand(
			bookcaseID,
			ownerID,
			fmt.Sprintf("Bookcase %d", i+1),
			fmt.Sprintf("Room %d", i/len(seedZones)+1),
			seedZones[i%len(seedZones)],
			i,
			shelves,
			int(cmd.Int("books-per-shelf")),
			time.Now(),
		)

		if _, err := a.CreateBookcase(ctx, command); err != nil {
			return fmt.Errorf("seeding bookcase %d: %w", i+1, err)
		}
		summary.Bookcases++

		for position := 1; position <= command.ShelfCapacity; position++ {
			shelfIDs = append(shelfIDs, core.ShelfIDFor(bookcaseID, position))
		}
	}

	full := make(map[core.ShelfID]bool)

	for i := range int(cmd.Int("books")) {
		bookID := core.NewBookID()
		if _, err := a.AddBook(ctx, addbook.BuildCommand(bookID, "", fmt.Sprintf("Sample Book %d", i+1), nil, time.Now())); err != nil {
			return fmt.Errorf("seeding book %d: %w", i+1, err)
		}
		summary.Books++

		placed, err := r.placeOnAnyShelf(ctx, a, bookID, shelfIDs, full)
		if err != nil {
			return err
		}
		if placed {
			summary.Placed++
		}
	}

	summary.ShelvesFull = len(full)
	summary.DurationMsec = int(time.Since(started).Milliseconds())
	r.logger.Info("seeding finished", "bookcases", summary.Bookcases, "books", summary.Books, "placed", summary.Placed)

	return r.writeJSON(summary)
}

func (r *Runner) placeOnAnyShelf(
	ctx context.Context,
	a *app.App,
	bookID core.BookID,
	shelfIDs []core.ShelfID,
	full map[core.ShelfID]bool,
) (bool, error) {

	for _, idx := range rand.Perm(len(shelfIDs)) { //nolint:gosec
		shelfID := shelfIDs[idx]
		if full[shelfID] {
			continue
		}

		_, err := a.PlaceBook(ctx, placebook.BuildCommand(bookID, shelfID, time.Now()))
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, core.ErrCapacityExceeded):
			full[shelfID] = true
		default:
			return false, err
		}
	}

	return false, nil
}
