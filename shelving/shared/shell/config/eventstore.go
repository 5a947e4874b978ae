package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore/memengine"
	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore/postgresengine"
	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore/sqliteengine"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell"
)

// Observers are handed to the engine. Nil fields are skipped.
type Observers struct {
	Logger           eventstore.Logger
	ContextualLogger eventstore.ContextualLogger
	Metrics          eventstore.MetricsCollector
	Tracing          eventstore.TracingCollector
}

// Store is an opened event store together with the function releasing its connections.
type Store struct {
	EventStore shell.EventStore
	Close      func()
}

type schemaCreator interface {
	CreateSchema(ctx context.Context) error
}

// OpenEventStore builds the configured engine. The events table is created when it does not exist.
func (c StorageConfig) OpenEventStore(ctx context.Context, observers Observers) (Store, error) {
	switch c.Engine {
	case EngineMemory:
		return c.openMemory(observers)
	case EngineSQLite:
		return c.openSQLite(ctx, observers)
	case EnginePostgres:
		return c.openPostgres(ctx, observers)
	default:
		return Store{}, fmt.Errorf("%w: unknown storage engine %q", ErrInvalidConfig, c.Engine)
	}
}

func (c StorageConfig) openMemory(observers Observers) (Store, error) {
	var opts []memengine.Option
	if observers.Logger != nil {
		opts = append(opts, memengine.WithLogger(observers.Logger))
	}
	if observers.ContextualLogger != nil {
		opts = append(opts, memengine.WithContextualLogger(observers.ContextualLogger))
	}
	if observers.Metrics != nil {
		opts = append(opts, memengine.WithMetrics(observers.Metrics))
	}
	if observers.Tracing != nil {
		opts = append(opts, memengine.WithTracing(observers.Tracing))
	}

	es, err := memengine.NewEventStore(opts...)
	if err != nil {
		return Store{}, err
	}

	return Store{EventStore: es, Close: func() {}}, nil
}

func (c StorageConfig) openSQLite(ctx context.Context, observers Observers) (Store, error) {
	db, err := c.OpenSQLite(ctx)
	if err != nil {
		return Store{}, err
	}

	opts := []sqliteengine.Option{sqliteengine.WithTableName(c.Table)}
	if observers.Logger != nil {
		opts = append(opts, sqliteengine.WithLogger(observers.Logger))
	}
	if observers.ContextualLogger != nil {
		opts = append(opts, sqliteengine.WithContextualLogger(observers.ContextualLogger))
	}
	if observers.Metrics != nil {
		opts = append(opts, sqliteengine.WithMetrics(observers.Metrics))
	}
	if observers.Tracing != nil {
		opts = append(opts, sqliteengine.WithTracing(observers.Tracing))
	}

	es, err := sqliteengine.NewEventStore(db, opts...)
	if err != nil {
		_ = db.Close()
		return Store{}, err
	}

	closeDB := func() { _ = db.Close() }

	return withSchema(ctx, es, closeDB)
}

func (c StorageConfig) openPostgres(ctx context.Context, observers Observers) (Store, error) {
	opts := []postgresengine.Option{postgresengine.WithTableName(c.Table)}
	if observers.Logger != nil {
		opts = append(opts, postgresengine.WithLogger(observers.Logger))
	}
	if observers.ContextualLogger != nil {
		opts = append(opts, postgresengine.WithContextualLogger(observers.ContextualLogger))
	}
	if observers.Metrics != nil {
		opts = append(opts, postgresengine.WithMetrics(observers.Metrics))
	}
	if observers.Tracing != nil {
		opts = append(opts, postgresengine.WithTracing(observers.Tracing))
	}

	switch c.Driver {
	case DriverPGXPool:
		return c.openPostgresPGXPool(ctx, opts)

	case DriverSQLDB:
		db, err := c.OpenSQLDB(ctx)
		if err != nil {
			return Store{}, err
		}

		es, err := postgresengine.NewEventStoreFromSQLDB(db, opts...)
		if err != nil {
			_ = db.Close()
			return Store{}, err
		}

		return withSchema(ctx, es, func() { _ = db.Close() })

	case DriverSQLX:
		db, err := c.OpenSQLX(ctx)
		if err != nil {
			return Store{}, err
		}

		es, err := postgresengine.NewEventStoreFromSQLX(db, opts...)
		if err != nil {
			_ = db.Close()
			return Store{}, err
		}

		return withSchema(ctx, es, func() { _ = db.Close() })

	default:
		return Store{}, fmt.Errorf("%w: unknown postgres driver %q", ErrInvalidConfig, c.Driver)
	}
}

func (c StorageConfig) openPostgresPGXPool(ctx context.Context, opts []postgresengine.Option) (Store, error) {
	primary, err := c.OpenPGXPool(ctx, c.DSN)
	if err != nil {
		return Store{}, err
	}

	if c.ReplicaDSN == "" {
		es, esErr := postgresengine.NewEventStoreFromPGXPool(primary, opts...)
		if esErr != nil {
			primary.Close()
			return Store{}, esErr
		}

		return withSchema(ctx, es, primary.Close)
	}

	replica, err := c.OpenPGXPool(ctx, c.ReplicaDSN)
	if err != nil {
		primary.Close()
		return Store{}, err
	}

	closePools := func() {
		replica.Close()
		primary.Close()
	}

	es, err := postgresengine.NewEventStoreFromPGXPoolAndReplica(primary, replica, opts...)
	if err != nil {
		closePools()
		return Store{}, err
	}

	return withSchema(ctx, es, closePools)
}

func withSchema[ES interface {
	shell.EventStore
	schemaCreator
}](ctx context.Context, es ES, closeFn func()) (Store, error) {
	if err := es.CreateSchema(ctx); err != nil {
		closeFn()
		return Store{}, errors.Join(errors.New("failed to create events table"), err)
	}

	return Store{EventStore: es, Close: closeFn}, nil
}
