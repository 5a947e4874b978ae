package postgresengine

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore/internal/adapters"
	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore/internal/observe"
)

const (
	defaultEventTableName          = "events"
	engineName                     = "postgres"
	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgRowsAffectedFailed       = "failed to get rows affected count"
	logMsgEmptyAppend              = "append called without events"
	logAttrError                   = "error"
	logAttrEventCount              = "event_count"
	colEventType                   = "event_type"
	colOccurredAt                  = "occurred_at"
	colPayload                     = "payload"
	colMetadata                    = "metadata"
	colSequenceNumber              = "sequence_number"
	colOrdinal                     = "ord"
	cteContext                     = "context"
	cteVals                        = "vals"
	dialectPostgres                = "postgres"
	aliasMaxSeq                    = "max_seq"
	castText                       = "?::text"
	castTimestamp                  = "?::timestamptz"
	castJsonb                      = "?::jsonb"
	castInt                        = "?::int"
	predicateContains              = "payload @> ?::jsonb"
)

//go:embed schema.sql
var schemaTemplate string

type sqlQueryString = string

// EventStore is the PostgreSQL engine. It is safe for concurrent use.
type EventStore struct {
	db             adapters.DBAdapter
	eventTableName string
	observer       observe.Instrumentation
}

// NewEventStoreFromPGXPool creates a new EventStore using a pgx Pool with optional configuration.
func NewEventStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapter(db), options...)
}

// NewEventStoreFromPGXPoolAndReplica creates a new EventStore that serves eventually consistent reads from replica.
func NewEventStoreFromPGXPoolAndReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (EventStore, error) {
	if db == nil || replica == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewEventStoreFromSQLDB creates a new EventStore using a sql.DB with optional configuration.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapter(db), options...)
}

// NewEventStoreFromSQLX creates a new EventStore using a sqlx.DB with optional configuration.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLXAdapter(db), options...)
}

func newEventStore(db adapters.DBAdapter, options ...Option) (EventStore, error) {
	es := EventStore{
		db:             db,
		eventTableName: defaultEventTableName,
		observer:       observe.Instrumentation{Engine: engineName},
	}

	for _, option := range options {
		if err := option(&es); err != nil {
			return EventStore{}, err
		}
	}

	return es, nil
}

// CreateSchema creates the events table and its indexes if they do not exist yet.
func (es EventStore) CreateSchema(ctx context.Context) error {
	if _, err := es.db.Exec(ctx, fmt.Sprintf(schemaTemplate, es.eventTableName)); err != nil {
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	return nil
}

// Query retrieves the events matching the filter in sequence order,
// together with the MaxSequenceNumberUint of this "dynamic event stream" at the time of the query.
func (es EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	ctx, op := es.observer.Start(ctx, observe.OperationQuery, nil)

	sqlQuery, args, buildErr := es.buildSelectQuery(filter)
	if buildErr != nil {
		op.Failed(logMsgBuildSelectQueryFailed, observe.ErrorTypeBuildQuery, buildErr)
		return nil, 0, buildErr
	}

	rows, queryErr := es.db.Query(ctx, sqlQuery, args...)
	op.SQL(sqlQuery)

	if queryErr != nil {
		op.Failed(logMsgDBQueryFailed, observe.ErrorTypeExecQuery, queryErr)
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil && es.observer.Logger != nil {
			es.observer.Logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}()

	eventStream, maxSequenceNumber, scanErr := es.processQueryResults(rows, op)
	if scanErr != nil {
		return nil, 0, scanErr
	}

	op.QuerySucceeded(len(eventStream), maxSequenceNumber)

	return eventStream, maxSequenceNumber, nil
}

func (es EventStore) processQueryResults(rows adapters.DBRows, op *observe.Operation) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	var (
		eventType      string
		occurredAt     time.Time
		payload        []byte
		metadata       []byte
		sequenceNumber int64
	)

	eventStream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for rows.Next() {
		if err := rows.Scan(&eventType, &occurredAt, &payload, &metadata, &sequenceNumber); err != nil {
			op.Failed(logMsgScanRowFailed, observe.ErrorTypeScanRow, err)
			return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, err)
		}

		event, buildErr := eventstore.BuildStorableEvent(eventType, occurredAt, payload, metadata)
		if buildErr != nil {
			op.Failed(logMsgBuildStorableEventFailed, observe.ErrorTypeBuildEvent, buildErr)
			return nil, 0, errors.Join(eventstore.ErrBuildingStorableEventFailed, buildErr)
		}

		eventStream = append(eventStream, event)
		maxSequenceNumber = eventstore.MaxSequenceNumberUint(sequenceNumber)
	}

	if err := rows.Err(); err != nil {
		op.Failed(logMsgScanRowFailed, observe.ErrorTypeScanRow, err)
		return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, err)
	}

	return eventStream, maxSequenceNumber, nil
}

// Append appends one or multiple events atomically, but only if the MaxSequenceNumberUint of the
// "dynamic event stream" selected by filter is still expectedMaxSequenceNumber.
// Otherwise, it returns eventstore.ErrConcurrencyConflict and appends nothing.
//
// The filter should be the same one that was used for the Query before making the business decision.
func (es EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	storableEvents ...eventstore.StorableEvent,
) error {

	ctx, op := es.observer.Start(ctx, observe.OperationAppend, map[string]string{
		logAttrEventCount: fmt.Sprintf("%d", len(storableEvents)),
	})

	if len(storableEvents) == 0 {
		op.Failed(logMsgEmptyAppend, observe.ErrorTypeNoEvents, eventstore.ErrEmptyEventsList)
		return eventstore.ErrEmptyEventsList
	}

	sqlQuery, args, buildErr := es.buildInsertQuery(storableEvents, filter, expectedMaxSequenceNumber)
	if buildErr != nil {
		op.Failed(logMsgBuildInsertQueryFailed, observe.ErrorTypeBuildQuery, buildErr, logAttrEventCount, len(storableEvents))
		return buildErr
	}

	result, execErr := es.db.ExecLocked(ctx, es.appendLockID(), sqlQuery, args...)
	op.SQL(sqlQuery)

	if execErr != nil {
		op.Failed(logMsgDBExecFailed, observe.ErrorTypeExecQuery, execErr)
		return errors.Join(eventstore.ErrAppendingEventFailed, execErr)
	}

	rowsAffected, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		op.Failed(logMsgRowsAffectedFailed, observe.ErrorTypeRowsAffected, rowsErr)
		return errors.Join(eventstore.ErrGettingRowsAffectedFailed, rowsErr)
	}

	if rowsAffected < int64(len(storableEvents)) {
		op.Conflicted(expectedMaxSequenceNumber, rowsAffected)
		return eventstore.ErrConcurrencyConflict
	}

	op.AppendSucceeded(len(storableEvents))

	return nil
}

// appendLockID derives a stable advisory lock key from the table name.
func (es EventStore) appendLockID() int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(es.eventTableName))

	return int64(h.Sum64()) //nolint:gosec // wrap-around is fine for a lock key
}

func (es EventStore) buildSelectQuery(filter eventstore.Filter) (sqlQueryString, []any, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Prepared(true).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	whereClause, err := buildWhereClause(filter)
	if err != nil {
		return "", nil, err
	}

	if whereClause != nil {
		selectStmt = selectStmt.Where(whereClause)
	}

	sqlQuery, args, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", nil, errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}

func (es EventStore) buildInsertQuery(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (sqlQueryString, []any, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt := builder.
		From(es.eventTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq))

	whereClause, err := buildWhereClause(filter)
	if err != nil {
		return "", nil, err
	}

	if whereClause != nil {
		cteStmt = cteStmt.Where(whereClause)
	}

	var valuesStmt *goqu.SelectDataset
	for i, event := range events {
		row := builder.Select(
			goqu.L(castInt, i).As(colOrdinal),
			goqu.L(castText, event.EventType).As(colEventType),
			goqu.L(castTimestamp, event.OccurredAt).As(colOccurredAt),
			goqu.L(castJsonb, string(event.PayloadJSON)).As(colPayload),
			goqu.L(castJsonb, string(event.MetadataJSON)).As(colMetadata),
		)

		if valuesStmt == nil {
			valuesStmt = row
			continue
		}

		valuesStmt = valuesStmt.UnionAll(row)
	}

	insertStmt := builder.
		Insert(es.eventTableName).
		Prepared(true).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(
					goqu.I(cteVals+"."+colEventType),
					goqu.I(cteVals+"."+colOccurredAt),
					goqu.I(cteVals+"."+colPayload),
					goqu.I(cteVals+"."+colMetadata),
				).
				Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(int64(expectedMaxSequenceNumber))). //nolint:gosec
				Order(goqu.I(cteVals + "." + colOrdinal).Asc()),
		)

	sqlQuery, args, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", nil, errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}

// buildWhereClause translates the filter. A nil expression means "match all events".
func buildWhereClause(filter eventstore.Filter) (exp.Expression, error) {
	if filter.IsEmpty() {
		return nil, nil
	}

	itemExpressions := make([]exp.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		if item.IsEmpty() {
			return nil, nil
		}

		parts := make([]exp.Expression, 0, 2)

		if len(item.EventTypes()) > 0 {
			parts = append(parts, goqu.C(colEventType).In(item.EventTypes()))
		}

		if len(item.Predicates()) > 0 {
			predicateExpressions := make([]exp.Expression, 0, len(item.Predicates()))

			for _, predicate := range item.Predicates() {
				containment, err := jsoniter.ConfigFastest.MarshalToString(map[string]string{predicate.Key(): predicate.Val()})
				if err != nil {
					return nil, errors.Join(eventstore.ErrBuildingQueryFailed, err)
				}

				predicateExpressions = append(predicateExpressions, goqu.L(predicateContains, containment))
			}

			if item.AllPredicatesMustMatch() {
				parts = append(parts, goqu.And(predicateExpressions...))
			} else {
				parts = append(parts, goqu.Or(predicateExpressions...))
			}
		}

		itemExpressions = append(itemExpressions, goqu.And(parts...))
	}

	return goqu.Or(itemExpressions...), nil
}
