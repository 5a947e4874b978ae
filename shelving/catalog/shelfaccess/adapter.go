package shelfaccess

import (
	"context"
	"time"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell"
)

// Adapter implements shelf.BookAccessPort on top of the event store.
type Adapter struct {
	eventStore   shell.EventStore
	retryOptions []shell.RetryOption
	now          func() time.Time
}

type Option func(*Adapter)

func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(a *Adapter) {
		a.retryOptions = opts
	}
}

// WithClock sets the time source for the OccurredAt of the events the adapter appends.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) {
		a.now = now
	}
}

func NewAdapter(eventStore shell.EventStore, opts ...Option) Adapter {
	adapter := Adapter{
		eventStore: eventStore,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(&adapter)
	}

	return adapter
}

func (a Adapter) BookIDsOnShelf(ctx context.Context, shelfID core.ShelfID) ([]core.BookID, error) {
	ctx = eventstore.WithStrongConsistency(ctx)

	history, _, err := shell.QueryHistory(ctx, a.eventStore, BuildEventFilter([]core.ShelfID{shelfID}))
	if err != nil {
		return nil, err
	}

	occupants := OccupantsByShelf(history)[shelfID.String()]
	bookIDs := make([]core.BookID, 0, len(occupants))

	for _, bookID := range occupants {
		bookIDs = append(bookIDs, core.MustBookID(bookID))
	}

	return bookIDs, nil
}

func (a Adapter) BookCountForShelf(ctx context.Context, shelfID core.ShelfID) (int, error) {
	bookIDs, err := a.BookIDsOnShelf(ctx, shelfID)
	if err != nil {
		return 0, err
	}

	return len(bookIDs), nil
}

func (a Adapter) UnassignBooksOnShelves(ctx context.Context, shelfIDs []core.ShelfID) error {
	return a.clearShelves(ctx, shelfIDs, false)
}

func (a Adapter) DeleteBooksOnShelves(ctx context.Context, shelfIDs []core.ShelfID) error {
	return a.clearShelves(ctx, shelfIDs, true)
}

func (a Adapter) clearShelves(ctx context.Context, shelfIDs []core.ShelfID, deleteBooks bool) error {
	shelfIDs = UniqueShelfIDs(shelfIDs)
	if len(shelfIDs) == 0 {
		return nil
	}

	filter := BuildEventFilter(shelfIDs)

	_, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		retryCtx = eventstore.WithStrongConsistency(retryCtx)

		history, maxSequenceNumber, err := shell.QueryHistory(retryCtx, a.eventStore, filter)
		if err != nil {
			return err
		}

		result := DecideClearShelves(history, shelfIDs, deleteBooks, a.now())

		_, err = shell.AppendDecision(retryCtx, a.eventStore, filter, maxSequenceNumber, result)

		return err
	}, a.retryOptions...)

	return err
}
