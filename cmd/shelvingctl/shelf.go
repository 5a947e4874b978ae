package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/app"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell/config"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/command/placebook"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/command/takebookoffshelf"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/query/shelfoccupancy"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/query/shelfoptions"
)

func shelfCommand(r *Runner) *cli.Command {
	bookAndShelf := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{Name: "book", Usage: "Book id", Required: true},
			&cli.StringFlag{Name: "shelf", Usage: "Shelf id", Required: true},
		}
	}

	return &cli.Command{
		Name:  "shelf",
		Usage: "Place books on shelves and inspect shelves",
		Commands: []*cli.Command{
			{
				Name:   "place",
				Usage:  "Put a book on a shelf, moving it when it is on another one",
				Flags:  bookAndShelf(),
				Action: r.withApp(r.PlaceBook),
			},
			{
				Name:   "take",
				Usage:  "Take a book off its shelf",
				Flags:  bookAndShelf(),
				Action: r.withApp(r.TakeBookOffShelf),
			},
			{
				Name:  "options",
				Usage: "List shelves with their free space",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "bookcase", Usage: "Only shelves of this bookcase"},
				},
				Action: r.withApp(r.ShelfOptions),
			},
			{
				Name:  "occupancy",
				Usage: "Show how full a shelf is",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "shelf", Usage: "Shelf id", Required: true},
				},
				Action: r.withApp(r.ShelfOccupancy),
			},
			{
				Name:   "dangling",
				Usage:  "List books placed on shelves that no longer exist",
				Action: r.withApp(r.DanglingPlacements),
			},
		},
	}
}

func parseBookAndShelf(cmd *cli.Command) (core.BookID, core.ShelfID, error) {
	bookID, err := core.ParseBookID(cmd.String("book"))
	if err != nil {
		return core.BookID{}, core.ShelfID{}, err
	}

	shelfID, err := core.ParseShelfID(cmd.String("shelf"))
	if err != nil {
		return core.BookID{}, core.ShelfID{}, err
	}

	return bookID, shelfID, nil
}

func (r *Runner) PlaceBook(ctx context.Context, cmd *cli.Command, a *app.App, _ config.Config) error {
	bookID, shelfID, err := parseBookAndShelf(cmd)
	if err != nil {
		return err
	}

	result, err := a.PlaceBook(ctx, placebook.BuildCommand(bookID, shelfID, time.Now()))
	if err != nil {
		return err
	}

	return r.writeJSON(result)
}

func (r *Runner) TakeBookOffShelf(ctx context.Context, cmd *cli.Command, a *app.App, _ config.Config) error {
	bookID, shelfID, err := parseBookAndShelf(cmd)
	if err != nil {
		return err
	}

	result, err := a.TakeBookOffShelf(ctx, takebookoffshelf.BuildCommand(bookID, shelfID, time.Now()))
	if err != nil {
		return err
	}

	return r.writeJSON(result)
}

func (r *Runner) ShelfOptions(ctx context.Context, cmd *cli.Command, a *app.App, _ config.Config) error {
	query := shelfoptions.BuildQuery()
	if bookcase := cmd.String("bookcase"); bookcase != "" {
		bookcaseID, err := core.ParseBookcaseID(bookcase)
		if err != nil {
			return err
		}
		query = shelfoptions.BuildQueryForBookcase(bookcaseID)
	}

	result, err := a.QueryShelfOptions(ctx, query)
	if err != nil {
		return err
	}

	return r.writeJSON(result)
}

func (r *Runner) ShelfOccupancy(ctx context.Context, cmd *cli.Command, a *app.App, _ config.Config) error {
	shelfID, err := core.ParseShelfID(cmd.String("shelf"))
	if err != nil {
		return err
	}

	result, err := a.ShelfOccupancy(ctx, shelfoccupancy.BuildQuery(shelfID))
	if err != nil {
		return err
	}

	return r.writeJSON(result)
}

func (r *Runner) DanglingPlacements(ctx context.Context, _ *cli.Command, a *app.App, _ config.Config) error {
	result, err := a.DanglingPlacements(ctx)
	if err != nil {
		return err
	}

	return r.writeJSON(result)
}
