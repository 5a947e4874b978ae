// Package eventstore provides core abstractions and types for event sourcing
// with dynamic event streams.
//
// A dynamic event stream is not a fixed aggregate stream. It is whatever a Filter
// selects from a single append-only log: event types combined with top-level JSON
// payload predicates. A command handler queries the stream, decides, and appends
// conditionally on the stream's maximum sequence number, which makes the
// read-check-write cycle atomic without row locks.
//
// Key types:
//   - Filter: Defines criteria for querying events
//   - StorableEvent: Represents an event that can be stored and retrieved
//   - EventStore: The Query/Append contract implemented by the engines
//
// Engines:
//   - postgresengine: PostgreSQL via pgx, database/sql or sqlx
//   - sqliteengine: a single-file SQLite store
//   - memengine: an in-memory store for tests and ephemeral runs
//
// Common usage pattern:
//
//	filter := BuildEventFilter().
//		Matching().
//		AnyEventTypeOf(
//			core.BookPlacedOnShelfEventType,
//			core.BookTakenOffShelfEventType).
//		AndAnyPredicateOf(P("ShelfID", shelfID.String())).
//		Finalize()
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	if err != nil {
//		// handle error
//	}
//
//	newEvent, err := eventstore.BuildStorableEvent(eventType, time.Now(), payload, metadata)
//	err = store.Append(ctx, filter, maxSeq, newEvent)
package eventstore
