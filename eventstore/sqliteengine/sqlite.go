package sqliteengine

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/mattn/go-sqlite3"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore/internal/adapters"
	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore/internal/observe"
)

const (
	defaultEventTableName = "events"
	engineName            = "sqlite"
	dialectSQLite         = "sqlite3"
	colEventType          = "event_type"
	colOccurredAt         = "occurred_at"
	colPayload            = "payload"
	colMetadata           = "metadata"
	colSequenceNumber     = "sequence_number"
	colOrdinal            = "ord"
	cteContext            = "context"
	cteVals               = "vals"
	aliasMaxSeq           = "max_seq"
	predicateJSONExtract  = "json_extract(payload, ?) = ?"
	logAttrEventCount     = "event_count"
	logAttrError          = "error"
)

// ErrInvalidEventsTableName is returned for table names that are not plain SQL identifiers.
var ErrInvalidEventsTableName = errors.New("events table name must be a plain sql identifier")

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,62}$`)

//go:embed schema.sql
var schemaTemplate string

// EventStore is the SQLite engine.
type EventStore struct {
	db             adapters.DBAdapter
	eventTableName string
	observer       observe.Instrumentation
}

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

func WithTableName(tableName string) Option {
	return func(es *EventStore) error {
		if tableName == "" {
			return eventstore.ErrEmptyEventsTableName
		}

		if !tableNamePattern.MatchString(tableName) {
			return ErrInvalidEventsTableName
		}

		es.eventTableName = tableName

		return nil
	}
}

func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.observer.Logger = logger
		return nil
	}
}

func WithContextualLogger(logger eventstore.ContextualLogger) Option {
	return func(es *EventStore) error {
		es.observer.ContextualLogger = logger
		return nil
	}
}

func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(es *EventStore) error {
		es.observer.Metrics = collector
		return nil
	}
}

func WithTracing(collector eventstore.TracingCollector) Option {
	return func(es *EventStore) error {
		es.observer.Tracing = collector
		return nil
	}
}

// NewEventStore creates a new EventStore on a go-sqlite3 *sql.DB.
func NewEventStore(db *sql.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	es := EventStore{
		db:             adapters.NewSQLAdapter(db),
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

// CreateSchema creates the events table and its index if they do not exist yet.
func (es EventStore) CreateSchema(ctx context.Context) error {
	if _, err := es.db.Exec(ctx, fmt.Sprintf(schemaTemplate, es.eventTableName)); err != nil {
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	return nil
}

// Query returns the events matching filter in sequence order and the stream's max sequence number.
func (es EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	ctx, op := es.observer.Start(ctx, observe.OperationQuery, nil)

	selectStmt := goqu.Dialect(dialectSQLite).
		From(es.eventTableName).
		Prepared(true).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	if where := buildWhereClause(filter); where != nil {
		selectStmt = selectStmt.Where(where)
	}

	sqlQuery, args, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		op.Failed("failed to build select query", observe.ErrorTypeBuildQuery, toSQLErr)
		return nil, 0, errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := es.db.Query(ctx, sqlQuery, args...)
	op.SQL(sqlQuery)

	if queryErr != nil {
		op.Failed("database query execution failed", observe.ErrorTypeExecQuery, queryErr)
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil && es.observer.Logger != nil {
			es.observer.Logger.Warn("failed to close database rows", logAttrError, closeErr.Error())
		}
	}()

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
			op.Failed("failed to scan database row", observe.ErrorTypeScanRow, err)
			return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, err)
		}

		event, buildErr := eventstore.BuildStorableEvent(eventType, occurredAt, payload, metadata)
		if buildErr != nil {
			op.Failed("failed to build storable event from database row", observe.ErrorTypeBuildEvent, buildErr)
			return nil, 0, errors.Join(eventstore.ErrBuildingStorableEventFailed, buildErr)
		}

		eventStream = append(eventStream, event)
		maxSequenceNumber = eventstore.MaxSequenceNumberUint(sequenceNumber)
	}

	if err := rows.Err(); err != nil {
		op.Failed("failed to iterate database rows", observe.ErrorTypeScanRow, err)
		return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, err)
	}

	op.QuerySucceeded(len(eventStream), maxSequenceNumber)

	return eventStream, maxSequenceNumber, nil
}

// Append appends the events atomically if the stream selected by filter still has expectedMaxSequenceNumber.
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
		op.Failed("append called without events", observe.ErrorTypeNoEvents, eventstore.ErrEmptyEventsList)
		return eventstore.ErrEmptyEventsList
	}

	sqlQuery, args, buildErr := es.buildInsertQuery(storableEvents, filter, expectedMaxSequenceNumber)
	if buildErr != nil {
		op.Failed("failed to build insert query", observe.ErrorTypeBuildQuery, buildErr)
		return buildErr
	}

	result, execErr := es.db.Exec(ctx, sqlQuery, args...)
	op.SQL(sqlQuery)

	if execErr != nil {
		if isBusy(execErr) {
			op.Conflicted(expectedMaxSequenceNumber, 0)
			return errors.Join(eventstore.ErrConcurrencyConflict, execErr)
		}

		op.Failed("database execution failed during event append", observe.ErrorTypeExecQuery, execErr)

		return errors.Join(eventstore.ErrAppendingEventFailed, execErr)
	}

	rowsAffected, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		op.Failed("failed to get rows affected count", observe.ErrorTypeRowsAffected, rowsErr)
		return errors.Join(eventstore.ErrGettingRowsAffectedFailed, rowsErr)
	}

	if rowsAffected < int64(len(storableEvents)) {
		op.Conflicted(expectedMaxSequenceNumber, rowsAffected)
		return eventstore.ErrConcurrencyConflict
	}

	op.AppendSucceeded(len(storableEvents))

	return nil
}

func (es EventStore) buildInsertQuery(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (string, []any, error) {

	builder := goqu.Dialect(dialectSQLite)

	cteStmt := builder.
		From(es.eventTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq))

	if where := buildWhereClause(filter); where != nil {
		cteStmt = cteStmt.Where(where)
	}

	var valuesStmt *goqu.SelectDataset
	for i, event := range events {
		row := builder.Select(
			goqu.V(i).As(colOrdinal),
			goqu.V(event.EventType).As(colEventType),
			goqu.V(event.OccurredAt.UTC()).As(colOccurredAt),
			goqu.V(string(event.PayloadJSON)).As(colPayload),
			goqu.V(string(event.MetadataJSON)).As(colMetadata),
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
func buildWhereClause(filter eventstore.Filter) exp.Expression {
	if filter.IsEmpty() {
		return nil
	}

	itemExpressions := make([]exp.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		if item.IsEmpty() {
			return nil
		}

		parts := make([]exp.Expression, 0, 2)

		if len(item.EventTypes()) > 0 {
			parts = append(parts, goqu.C(colEventType).In(item.EventTypes()))
		}

		if len(item.Predicates()) > 0 {
			predicateExpressions := make([]exp.Expression, 0, len(item.Predicates()))
			for _, predicate := range item.Predicates() {
				predicateExpressions = append(
					predicateExpressions,
					goqu.L(predicateJSONExtract, jsonPath(predicate.Key()), predicate.Val()),
				)
			}

			if item.AllPredicatesMustMatch() {
				parts = append(parts, goqu.And(predicateExpressions...))
			} else {
				parts = append(parts, goqu.Or(predicateExpressions...))
			}
		}

		itemExpressions = append(itemExpressions, goqu.And(parts...))
	}

	return goqu.Or(itemExpressions...)
}

// jsonPath quotes the key so that dots or brackets in it are not interpreted as path syntax.
func jsonPath(key string) string {
	return `$."` + key + `"`
}

func isBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}

	return false
}
