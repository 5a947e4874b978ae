package eventstore

import (
	"context"
	"errors"
)

var (
	// ErrEmptyEventsTableName is returned when an empty table name is supplied to an engine.
	ErrEmptyEventsTableName = errors.New("events table name must not be empty")

	// ErrNilDatabaseConnection is returned when a nil database handle is supplied to an engine.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrConcurrencyConflict is returned when the dynamic event stream changed between Query and Append.
	ErrConcurrencyConflict = errors.New("concurrency error, no rows were affected")

	// ErrEmptyEventsList is returned when Append is called without events.
	ErrEmptyEventsList = errors.New("no events supplied to append")

	ErrQueryingEventsFailed        = errors.New("querying events failed")
	ErrAppendingEventFailed        = errors.New("appending the event failed")
	ErrBuildingQueryFailed         = errors.New("building the query failed")
	ErrScanningDBRowFailed         = errors.New("scanning the database row failed")
	ErrBuildingStorableEventFailed = errors.New("building the storable event failed")
	ErrGettingRowsAffectedFailed   = errors.New("getting rows affected failed")
)

// MaxSequenceNumberUint is a type alias for uint, representing the maximum sequence number for a "dynamic event stream".
type MaxSequenceNumberUint = uint

// EventStore is the contract all engines fulfill.
//
// Append must only succeed if the maximum sequence number of the events matching the filter
// is still the expectedMaxSequenceNumber that the caller observed with Query.
type EventStore interface {
	Query(ctx context.Context, filter Filter) (StorableEvents, MaxSequenceNumberUint, error)
	Append(
		ctx context.Context,
		filter Filter,
		expectedMaxSequenceNumber MaxSequenceNumberUint,
		storableEvents ...StorableEvent,
	) error
}
