package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/app"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/bookcase/command/createbookcase"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/bookcase/command/deletebookcase"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/bookcase/query/bookcases"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell/config"
)

func bookcaseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "bookcase",
		Usage: "Create, delete and list bookcases",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a bookcase with all of its shelves",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Bookcase id; a new one is generated when empty"},
					&cli.StringFlag{Name: "owner", Usage: "Owner id", Required: true},
					&cli.StringFlag{Name: "label", Usage: "Bookcase label", Required: true},
					&cli.StringFlag{Name: "location", Usage: "Where the bookcase stands"},
					&cli.StringFlag{Name: "zone", Usage: "Zone of the location"},
					&cli.IntFlag{Name: "zone-index", Usage: "Index within the zone"},
					&cli.IntFlag{Name: "shelves", Usage: "Number of shelves", Value: 1},
					&cli.IntFlag{Name: "books-per-shelf", Usage: "Book capacity of each shelf", Required: true},
				},
				Action: r.withApp(r.CreateBookcase),
			},
			{
				Name:  "delete",
				Usage: "Delete a bookcase; the books on its shelves are unassigned or deleted per cascade policy",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Bookcase id", Required: true},
				},
				Action: r.withApp(r.DeleteBookcase),
			},
			{
				Name:  "list",
				Usage: "List bookcases",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Usage: "Only bookcases of this owner"},
					&cli.BoolFlag{Name: "include-deleting", Usage: "Also list bookcases whose deletion has not finished"},
				},
				Action: r.withApp(r.ListBookcases),
			},
		},
	}
}

func (r *Runner) CreateBookcase(ctx context.Context, cmd *cli.Command, a *app.App, _ config.Config) error {
	bookcaseID := core.NewBookcaseID()
	if id := cmd.String("id"); id != "" {
		parsed, err := core.ParseBookcaseID(id)
		if err != nil {
			return err
		}
		bookcaseID = parsed
	}

	ownerID, err := core.ParseOwnerID(cmd.String("owner"))
	if err != nil {
		return err
	}

	command := createbookcase.BuildCommand(
		bookcaseID,
		ownerID,
		cmd.String("label"),
		cmd.String("location"),
		cmd.String("zone"),
		int(cmd.Int("zone-index")),
		int(cmd.Int("shelves")),
		int(cmd.Int("books-per-shelf")),
		time.Now(),
	)

	result, err := a.CreateBookcase(ctx, command)
	if err != nil {
		return err
	}

	r.logger.Info("bookcase created", "bookcase_id", result.BookcaseID.String(), "shelves", command.ShelfCapacity)

	return r.writeJSON(result)
}

func (r *Runner) DeleteBookcase(ctx context.Context, cmd *cli.Command, a *app.App, cfg config.Config) error {
	bookcaseID, err := core.ParseBookcaseID(cmd.String("id"))
	if err != nil {
		return err
	}

	result, err := a.DeleteBookcase(ctx, deletebookcase.BuildCommand(bookcaseID, time.Now()))
	if err != nil {
		return err
	}

	r.logger.Info("bookcase deleted",
		"bookcase_id", bookcaseID.String(),
		"cascade_policy", cfg.CascadePolicy().String(),
		"idempotent", result.Idempotent,
	)

	return r.writeJSON(result)
}

func (r *Runner) ListBookcases(ctx context.Context, cmd *cli.Command, a *app.App, _ config.Config) error {
	query := bookcases.BuildQuery()
	if owner := cmd.String("owner"); owner != "" {
		ownerID, err := core.ParseOwnerID(owner)
		if err != nil {
			return err
		}
		query = bookcases.BuildQueryForOwner(ownerID)
	}
	query.IncludeDeleting = cmd.Bool("include-deleting")

	result, err := a.Bookcases(ctx, query)
	if err != nil {
		return err
	}

	return r.writeJSON(result)
}
