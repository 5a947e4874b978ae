// Package sqliteengine provides a SQLite engine for dynamic event streams, built on mattn/go-sqlite3.
//
// It implements the same Query/Append contract as postgresengine. Predicates compare
// json_extract(payload, '$."Key"') with the expected value. SQLite serializes writers,
// and a busy or locked database during Append is reported as eventstore.ErrConcurrencyConflict
// so that command handlers retry it like any other lost race.
//
// Use a single connection for ":memory:" databases:
//
//	db, _ := sql.Open("sqlite3", ":memory:")
//	db.SetMaxOpenConns(1)
//	store, _ := sqliteengine.NewEventStore(db)
//	_ = store.CreateSchema(ctx)
package sqliteengine
