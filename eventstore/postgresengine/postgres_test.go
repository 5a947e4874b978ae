package postgresengine

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
)

func Test_Factories_RejectNilConnections(t *testing.T) {
	_, err := NewEventStoreFromSQLDB(nil)
	assert.ErrorIs(t, err, eventstore.ErrNilDatabaseConnection)

	_, err = NewEventStoreFromPGXPool(nil)
	assert.ErrorIs(t, err, eventstore.ErrNilDatabaseConnection)

	_, err = NewEventStoreFromSQLX(nil)
	assert.ErrorIs(t, err, eventstore.ErrNilDatabaseConnection)
}

func Test_WithTableName_Validation(t *testing.T) {
	// arrange
	db := &sql.DB{}

	// act
	_, emptyErr := NewEventStoreFromSQLDB(db, WithTableName(""))
	_, invalidErr := NewEventStoreFromSQLDB(db, WithTableName("events; DROP TABLE x"))
	es, validErr := NewEventStoreFromSQLDB(db, WithTableName("shelving_events"))

	// assert
	assert.ErrorIs(t, emptyErr, eventstore.ErrEmptyEventsTableName)
	assert.ErrorIs(t, invalidErr, ErrInvalidEventsTableName)
	assert.NoError(t, validErr)
	assert.Equal(t, "shelving_events", es.eventTableName)
}

func Test_BuildSelectQuery_EmptyFilter_HasNoWhereClause(t *testing.T) {
	// arrange
	es := EventStore{eventTableName: "events"}

	// act
	sqlQuery, args, err := es.buildSelectQuery(eventstore.BuildEventFilter().MatchingAnyEvent())

	// assert
	assert.NoError(t, err)
	assert.NotContains(t, sqlQuery, "WHERE")
	assert.Contains(t, sqlQuery, `ORDER BY "sequence_number" ASC`)
	assert.Empty(t, args)
}

func Test_BuildSelectQuery_PredicatesAreBoundAsJSONB(t *testing.T) {
	// arrange
	es := EventStore{eventTableName: "events"}
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("ShelfAdded", "BookPlacedOnShelf").
		AndAnyPredicateOf(eventstore.P("ShelfID", `it's "quoted"`)).
		Finalize()

	// act
	sqlQuery, args, err := es.buildSelectQuery(filter)

	// assert
	assert.NoError(t, err)
	assert.Contains(t, sqlQuery, "payload @> $")
	assert.Contains(t, sqlQuery, "::jsonb")
	assert.NotContains(t, sqlQuery, "quoted")
	assert.Contains(t, args, `{"ShelfID":"it's \"quoted\""}`)
	assert.Contains(t, args, "ShelfAdded")
	assert.Contains(t, args, "BookPlacedOnShelf")
}

func Test_BuildInsertQuery_IsConditionalOnExpectedSequence(t *testing.T) {
	// arrange
	es := EventStore{eventTableName: "events"}
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("BookPlacedOnShelf").
		AndAnyPredicateOf(eventstore.P("ShelfID", "s-1")).
		Finalize()

	first, _ := eventstore.BuildStorableEventWithEmptyMetadata("BookTakenOffShelf", time.Now(), []byte(`{"BookID":"b-1"}`))
	second, _ := eventstore.BuildStorableEventWithEmptyMetadata("BookPlacedOnShelf", time.Now(), []byte(`{"BookID":"b-1"}`))

	// act
	sqlQuery, args, err := es.buildInsertQuery(eventstore.StorableEvents{first, second}, filter, 42)

	// assert
	assert.NoError(t, err)
	assert.Contains(t, sqlQuery, "WITH context AS")
	assert.Contains(t, sqlQuery, "UNION ALL")
	assert.Contains(t, sqlQuery, "COALESCE")
	assert.Contains(t, sqlQuery, `INSERT INTO "events"`)
	assert.Contains(t, args, int64(42))
	assert.Contains(t, args, "BookTakenOffShelf")
	assert.Contains(t, args, "BookPlacedOnShelf")
}

func Test_AppendLockID_IsStablePerTable(t *testing.T) {
	a := EventStore{eventTableName: "events"}
	b := EventStore{eventTableName: "other_events"}

	assert.Equal(t, a.appendLockID(), EventStore{eventTableName: "events"}.appendLockID())
	assert.NotEqual(t, a.appendLockID(), b.appendLockID())
}
