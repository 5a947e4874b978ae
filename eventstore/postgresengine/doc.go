// Package postgresengine provides the PostgreSQL engine for dynamic event streams.
//
// Events live in one append-only table. Filters become JSONB containment predicates
// (payload @> '{"ShelfID": "..."}'), and Append is a single conditional
// INSERT ... SELECT guarded by the maximum sequence number of the filtered stream.
// Appends are serialized with a transaction-scoped advisory lock per table, so two
// writers that observed the same stream can never both succeed.
//
// Three connection types are supported through internal adapters: *pgxpool.Pool
// (optionally with a read replica), *sql.DB (lib/pq) and *sqlx.DB.
//
//	pool, _ := pgxpool.New(ctx, dsn)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(
//		pool,
//		postgresengine.WithTableName("shelving_events"),
//		postgresengine.WithLogger(logger),
//	)
//	_ = store.CreateSchema(ctx)
//
//	events, maxSeq, _ := store.Query(ctx, filter)
//	err := store.Append(ctx, filter, maxSeq, newEvent)
package postgresengine
