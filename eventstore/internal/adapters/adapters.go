package adapters

import (
	"context"
	"database/sql"
	"errors"
)

const advisoryLockSQL = "SELECT pg_advisory_xact_lock($1)"

// DBAdapter defines the database operations needed by the SQL engines.
type DBAdapter interface {
	Query(ctx context.Context, query string, args ...any) (DBRows, error)
	Exec(ctx context.Context, query string, args ...any) (DBResult, error)

	// ExecLocked runs the statement in a transaction that first takes the
	// transaction-scoped advisory lock lockID, so conditional appends are serialized.
	ExecLocked(ctx context.Context, lockID int64, query string, args ...any) (DBResult, error)
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
}

// stdRows wraps *sql.Rows, shared by the sql.DB and sqlx.DB adapters.
type stdRows struct {
	rows *sql.Rows
}

func (s *stdRows) Next() bool             { return s.rows.Next() }
func (s *stdRows) Scan(dest ...any) error { return s.rows.Scan(dest...) }
func (s *stdRows) Err() error             { return s.rows.Err() }
func (s *stdRows) Close() error           { return s.rows.Close() }

type stdResult struct {
	result sql.Result
}

func (s *stdResult) RowsAffected() (int64, error) {
	return s.result.RowsAffected()
}

type beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// execLockedStd is shared by the sql.DB and sqlx.DB adapters.
func execLockedStd(ctx context.Context, db beginner, lockID int64, query string, args ...any) (DBResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx, advisoryLockSQL, lockID); err != nil {
		return nil, errors.Join(err, tx.Rollback())
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(err, tx.Rollback())
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &stdResult{result: result}, nil
}
