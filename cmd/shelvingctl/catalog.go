package main

import (
	"context"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/app"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/catalog/command/addbook"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/catalog/command/registerauthor"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/catalog/command/removebook"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/catalog/query/books"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell/config"
)

type registered struct {
	ID string `json:"id"`
}

func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Manage authors and books",
		Commands: []*cli.Command{
			{
				Name:  "register-author",
				Usage: "Register an author",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Author name", Required: true},
				},
				Action: r.withApp(r.RegisterAuthor),
			},
			{
				Name:  "add-book",
				Usage: "Add a book to the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "Book title", Required: true},
					&cli.StringFlag{Name: "isbn", Usage: "ISBN"},
					&cli.StringFlag{Name: "authors", Usage: "Comma separated author ids"},
				},
				Action: r.withApp(r.AddBook),
			},
			{
				Name:  "remove-book",
				Usage: "Remove a book from the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Book id", Required: true},
					&cli.StringFlag{Name: "reason", Usage: "Why the book is removed", Value: "removed"},
				},
				Action: r.withApp(r.RemoveBook),
			},
			{
				Name:  "books",
				Usage: "List the books in the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "shelf", Usage: "Only books on this shelf"},
				},
				Action: r.withApp(r.ListBooks),
			},
		},
	}
}

func (r *Runner) RegisterAuthor(ctx context.Context, cmd *cli.Command, a *app.App, _ config.Config) error {
	authorID := core.NewAuthorID()

	if _, err := a.RegisterAuthor(ctx, registerauthor.BuildCommand(authorID, cmd.String("name"), time.Now())); err != nil {
		return err
	}

	return r.writeJSON(registered{ID: authorID.String()})
}

func (r *Runner) AddBook(ctx context.Context, cmd *cli.Command, a *app.App, _ config.Config) error {
	var authorIDs []core.AuthorID

	for _, raw := range strings.Split(cmd.String("authors"), ",") {
		if raw = strings.TrimSpace(raw); raw == "" {
			continue
		}

		authorID, err := core.ParseAuthorID(raw)
		if err != nil {
			return err
		}
		authorIDs = append(authorIDs, authorID)
	}

	bookID := core.NewBookID()
	command := addbook.BuildCommand(bookID, cmd.String("isbn"), cmd.String("title"), authorIDs, time.Now())

	if _, err := a.AddBook(ctx, command); err != nil {
		return err
	}

	return r.writeJSON(registered{ID: bookID.String()})
}

func (r *Runner) RemoveBook(ctx context.Context, cmd *cli.Command, a *app.App, _ config.Config) error {
	bookID, err := core.ParseBookID(cmd.String("id"))
	if err != nil {
		return err
	}

	result, err := a.RemoveBook(ctx, removebook.BuildCommand(bookID, cmd.String("reason"), time.Now()))
	if err != nil {
		return err
	}

	return r.writeJSON(result)
}

func (r *Runner) ListBooks(ctx context.Context, cmd *cli.Command, a *app.App, _ config.Config) error {
	query := books.BuildQuery()
	if shelf := cmd.String("shelf"); shelf != "" {
		shelfID, err := core.ParseShelfID(shelf)
		if err != nil {
			return err
		}
		query = books.BuildQueryForShelf(shelfID.String())
	}

	result, err := a.CatalogBooks(ctx, query)
	if err != nil {
		return err
	}

	return r.writeJSON(result)
}
