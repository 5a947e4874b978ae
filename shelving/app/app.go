package app

import (
	"context"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/bookcase/command/createbookcase"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/bookcase/command/deletebookcase"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/bookcase/query/bookcases"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/bookcase/reconcile"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/catalog/command/addbook"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/catalog/command/registerauthor"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/catalog/command/removebook"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/catalog/query/books"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/catalog/shelfaccess"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/bookcaseaccess"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/command/createshelf"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/command/placebook"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/command/removeshelves"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/command/repairplacements"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/command/takebookoffshelf"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/query/integrity"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/query/shelfoccupancy"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf/query/shelfoptions"
)

// App contains all command and query handlers, already wrapped for observability.
type App struct {
	// Catalog.
	registerAuthor shell.CoreCommandHandler[registerauthor.Command]
	addBook        shell.CoreCommandHandler[addbook.Command]
	removeBook     shell.CoreCommandHandler[removebook.Command]
	catalogBooks   shell.CoreQueryHandler[books.Query, books.Books]

	// Shelves.
	placeBook        shell.CoreCommandHandler[placebook.Command]
	takeBookOffShelf shell.CoreCommandHandler[takebookoffshelf.Command]
	shelfOccupancy   shell.CoreQueryHandler[shelfoccupancy.Query, shelfoccupancy.Occupancy]
	shelfOptions     shell.CoreQueryHandler[shelfoptions.Query, shelfoptions.ShelfOptions]
	integrity        shell.CoreQueryHandler[integrity.Query, integrity.DanglingPlacements]

	// Bookcases.
	createBookcase shell.CoreCommandHandler[createbookcase.Command]
	deleteBookcase shell.CoreCommandHandler[deletebookcase.Command]
	bookcases      shell.CoreQueryHandler[bookcases.Query, bookcases.Bookcases]

	bookAccess  shelf.BookAccessPort
	shelfAccess bookcaseaccess.Adapter
	reconciler  *reconcile.Reconciler
}

// New builds the application on top of eventStore.
func New(eventStore shell.EventStore, opts ...Option) (*App, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	var err error
	a := &App{}

	bookAccess := shelfaccess.NewAdapter(eventStore,
		shelfaccess.WithRetryOptions(s.retryOptions...),
		shelfaccess.WithClock(s.now),
	)
	a.bookAccess = bookAccess

	// Catalog.
	if a.registerAuthor, err = wrapCommand[registerauthor.Command](
		registerauthor.NewCommandHandler(eventStore, registerauthor.WithRetryOptions(s.retryOptions...)), s); err != nil {
		return nil, err
	}

	if a.addBook, err = wrapCommand[addbook.Command](
		addbook.NewCommandHandler(eventStore, addbook.WithRetryOptions(s.retryOptions...)), s); err != nil {
		return nil, err
	}

	if a.removeBook, err = wrapCommand[removebook.Command](
		removebook.NewCommandHandler(eventStore, removebook.WithRetryOptions(s.retryOptions...)), s); err != nil {
		return nil, err
	}

	if a.catalogBooks, err = wrapQuery[books.Query, books.Books](
		books.NewQueryHandler(eventStore), s); err != nil {
		return nil, err
	}

	// Shelves.
	createShelf, err := wrapCommand[createshelf.Command](
		createshelf.NewCommandHandler(eventStore, createshelf.WithRetryOptions(s.retryOptions...)), s)
	if err != nil {
		return nil, err
	}

	removeShelves, err := wrapCommand[removeshelves.Command](
		removeshelves.NewCommandHandler(eventStore, bookAccess, removeshelves.WithRetryOptions(s.retryOptions...)), s)
	if err != nil {
		return nil, err
	}

	repairPlacements, err := wrapCommand[repairplacements.Command](
		repairplacements.NewCommandHandler(eventStore, repairplacements.WithRetryOptions(s.retryOptions...)), s)
	if err != nil {
		return nil, err
	}

	if a.placeBook, err = wrapCommand[placebook.Command](
		placebook.NewCommandHandler(eventStore, placebook.WithRetryOptions(s.retryOptions...)), s); err != nil {
		return nil, err
	}

	if a.takeBookOffShelf, err = wrapCommand[takebookoffshelf.Command](
		takebookoffshelf.NewCommandHandler(eventStore, takebookoffshelf.WithRetryOptions(s.retryOptions...)), s); err != nil {
		return nil, err
	}

	if a.shelfOccupancy, err = wrapQuery[shelfoccupancy.Query, shelfoccupancy.Occupancy](
		shelfoccupancy.NewQueryHandler(eventStore, bookAccess), s); err != nil {
		return nil, err
	}

	if a.shelfOptions, err = wrapQuery[shelfoptions.Query, shelfoptions.ShelfOptions](
		shelfoptions.NewQueryHandler(eventStore, bookAccess), s); err != nil {
		return nil, err
	}

	if a.integrity, err = wrapQuery[integrity.Query, integrity.DanglingPlacements](
		integrity.NewQueryHandler(eventStore), s); err != nil {
		return nil, err
	}

	a.shelfAccess = bookcaseaccess.NewAdapter(
		bookcaseaccess.Handlers{
			CreateShelf:      createShelf,
			RemoveShelves:    removeShelves,
			RepairPlacements: repairPlacements,
			Integrity:        a.integrity,
			Shelves:          eventStore,
		},
		bookcaseaccess.WithCascadePolicy(s.policy),
		bookcaseaccess.WithClock(s.now),
	)

	// Bookcases.
	if a.createBookcase, err = wrapCommand[createbookcase.Command](
		createbookcase.NewCommandHandler(eventStore, a.shelfAccess,
			createbookcase.WithRetryOptions(s.retryOptions...),
			createbookcase.WithLogger(s.logger),
			createbookcase.WithContextualLogger(s.contextualLogger),
			createbookcase.WithClock(s.now),
		), s); err != nil {
		return nil, err
	}

	if a.deleteBookcase, err = wrapCommand[deletebookcase.Command](
		deletebookcase.NewCommandHandler(eventStore, a.shelfAccess, deletebookcase.WithRetryOptions(s.retryOptions...)), s); err != nil {
		return nil, err
	}

	if a.bookcases, err = wrapQuery[bookcases.Query, bookcases.Bookcases](
		bookcases.NewQueryHandler(eventStore), s); err != nil {
		return nil, err
	}

	a.reconciler = reconcile.NewReconciler(
		reconcile.Handlers{
			Bookcases:      a.bookcases,
			CreateBookcase: a.createBookcase,
			DeleteBookcase: a.deleteBookcase,
		},
		a.shelfAccess,
		reconcile.WithStaleAfter(s.staleAfter),
		reconcile.WithClock(s.now),
		reconcile.WithLogger(s.logger),
		reconcile.WithContextualLogger(s.contextualLogger),
	)

	return a, nil
}

func (a *App) RegisterAuthor(ctx context.Context, command registerauthor.Command) (shell.HandlerResult, error) {
	return a.registerAuthor.Handle(ctx, command)
}

func (a *App) AddBook(ctx context.Context, command addbook.Command) (shell.HandlerResult, error) {
	return a.addBook.Handle(ctx, command)
}

func (a *App) RemoveBook(ctx context.Context, command removebook.Command) (shell.HandlerResult, error) {
	return a.removeBook.Handle(ctx, command)
}

func (a *App) CatalogBooks(ctx context.Context, query books.Query) (books.Books, error) {
	return a.catalogBooks.Handle(ctx, query)
}

// CreateBookcase creates the bookcase and all of its shelves.
func (a *App) CreateBookcase(ctx context.Context, command createbookcase.Command) (createbookcase.Result, error) {
	if _, err := a.createBookcase.Handle(ctx, command); err != nil {
		return createbookcase.Result{}, err
	}

	return createbookcase.Result{BookcaseID: command.BookcaseID}, nil
}

// DeleteBookcase removes the bookcase, its shelves and, per cascade policy, the placements or the books.
func (a *App) DeleteBookcase(ctx context.Context, command deletebookcase.Command) (shell.HandlerResult, error) {
	return a.deleteBookcase.Handle(ctx, command)
}

func (a *App) Bookcases(ctx context.Context, query bookcases.Query) (bookcases.Bookcases, error) {
	return a.bookcases.Handle(ctx, query)
}

func (a *App) PlaceBook(ctx context.Context, command placebook.Command) (shell.HandlerResult, error) {
	return a.placeBook.Handle(ctx, command)
}

func (a *App) TakeBookOffShelf(ctx context.Context, command takebookoffshelf.Command) (shell.HandlerResult, error) {
	return a.takeBookOffShelf.Handle(ctx, command)
}

func (a *App) ShelfOccupancy(ctx context.Context, query shelfoccupancy.Query) (shelfoccupancy.Occupancy, error) {
	return a.shelfOccupancy.Handle(ctx, query)
}

func (a *App) QueryShelfOptions(ctx context.Context, query shelfoptions.Query) (shelfoptions.ShelfOptions, error) {
	return a.shelfOptions.Handle(ctx, query)
}

func (a *App) DanglingPlacements(ctx context.Context) (integrity.DanglingPlacements, error) {
	return a.integrity.Handle(ctx, integrity.BuildQuery())
}

// BookAccess is the book port the shelf module is wired with.
func (a *App) BookAccess() shelf.BookAccessPort {
	return a.bookAccess
}

func (a *App) Reconciler() *reconcile.Reconciler {
	return a.reconciler
}
