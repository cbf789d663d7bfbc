package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/gameday-api/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

var (
	ErrNotOpen     = errors.New("database is not open")
	ErrAlreadyOpen = errors.New("database is already open")
	ErrClosed      = errors.New("database has been closed")
)

const driverName = "postgres"

// Options tunes the connection pool.
type Options struct {
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
	BinaryParameters bool
}

// Result is the generic outcome of Query.
type Result struct {
	Rows     []map[string]any
	RowCount int
}

// Database owns the lifecycle of one pooled connection to PostgreSQL. Every
// statement borrows a single connection and returns it before the call ends.
type Database struct {
	connectionString string
	opts             Options
	logger           *logging.Logger

	mu     sync.RWMutex
	pool   *sqlx.DB
	closed bool
}

func New(connectionString string, opts Options, logger *logging.Logger) *Database {
	if logger == nil {
		logger = logging.Default()
	}
	return &Database{
		connectionString: connectionString,
		opts:             opts,
		logger:           logger.Named("database"),
	}
}

// Open creates the pool and verifies it with a ping. A failed ping is treated
// as a pool fault: the pool is discarded and the manager stays unopened.
func (d *Database) Open(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if d.pool != nil {
		return ErrAlreadyOpen
	}

	dsn := normalizeURL(d.connectionString, d.opts.BinaryParameters)
	pool, err := otelsqlx.Open(driverName, dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatQueryForTrace),
	)
	if err != nil {
		d.logger.Error("unable to create database pool", "error", err)
		return fmt.Errorf("open database pool: %w", err)
	}

	if d.opts.MaxOpenConns > 0 {
		pool.SetMaxOpenConns(d.opts.MaxOpenConns)
	}
	if d.opts.MaxIdleConns > 0 {
		pool.SetMaxIdleConns(d.opts.MaxIdleConns)
	}
	if d.opts.ConnMaxLifetime > 0 {
		pool.SetConnMaxLifetime(d.opts.ConnMaxLifetime)
	}

	if err := pool.PingContext(ctx); err != nil {
		d.logger.Error("error in database pool", "error", err)
		_ = pool.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	d.pool = pool
	d.logger.Info("database pool opened", "db_name", dbNameFromURL(dsn))
	return nil
}

// Close releases the pool. The reference is dropped even when closing
// fails, and a closed manager cannot be opened again.
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pool == nil {
		d.logger.Error("unable to close database connection that is not open")
		return ErrNotOpen
	}

	pool := d.pool
	d.pool = nil
	d.closed = true

	if err := pool.Close(); err != nil {
		d.logger.Error("error closing database pool", "error", err)
		return fmt.Errorf("close database pool: %w", err)
	}
	return nil
}

// IsOpen reports whether a pool is currently held.
func (d *Database) IsOpen() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pool != nil
}

// DB exposes the pool for tooling such as migrations. It returns nil when
// the manager is not open.
func (d *Database) DB() *sqlx.DB {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pool
}

// Connect borrows one connection from the pool. Callers must Close it.
func (d *Database) Connect(ctx context.Context) (*sqlx.Conn, error) {
	d.mu.RLock()
	pool := d.pool
	d.mu.RUnlock()

	if pool == nil {
		d.logger.ErrorContext(ctx, "attempted to use a database that is not open")
		return nil, ErrNotOpen
	}

	conn, err := pool.Connx(ctx)
	if err != nil {
		d.logger.ErrorContext(ctx, "error connecting to db", "error", err)
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return conn, nil
}

func (d *Database) Ping(ctx context.Context) error {
	d.mu.RLock()
	pool := d.pool
	d.mu.RUnlock()

	if pool == nil {
		return ErrNotOpen
	}
	return pool.PingContext(ctx)
}

// Query runs a statement and collects every returned row as a column map.
func (d *Database) Query(ctx context.Context, query string, args ...any) (Result, error) {
	var out Result
	err := d.withConn(ctx, func(conn *sqlx.Conn) error {
		rows, err := conn.QueryxContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			row := make(map[string]any)
			if err := rows.MapScan(row); err != nil {
				return err
			}
			for key, value := range row {
				if b, ok := value.([]byte); ok {
					row[key] = string(b)
				}
			}
			out.Rows = append(out.Rows, row)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		out.RowCount = len(out.Rows)
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return out, nil
}

// Select scans all rows into dest, a pointer to a slice.
func (d *Database) Select(ctx context.Context, dest any, query string, args ...any) error {
	return d.withConn(ctx, func(conn *sqlx.Conn) error {
		return conn.SelectContext(ctx, dest, query, args...)
	})
}

// Get scans exactly one row into dest and returns sql.ErrNoRows when none match.
func (d *Database) Get(ctx context.Context, dest any, query string, args ...any) error {
	return d.withConn(ctx, func(conn *sqlx.Conn) error {
		return conn.GetContext(ctx, dest, query, args...)
	})
}

// Exec runs a statement and returns the number of affected rows.
func (d *Database) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	var affected int64
	err := d.withConn(ctx, func(conn *sqlx.Conn) error {
		res, err := conn.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	return affected, err
}

func (d *Database) withConn(ctx context.Context, fn func(conn *sqlx.Conn) error) error {
	conn, err := d.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			d.logger.WarnContext(ctx, "error releasing connection", "error", cerr)
		}
	}()

	if err := fn(conn); err != nil {
		if !isNoRows(err) {
			d.logger.ErrorContext(ctx, "error running query", "error", err)
		}
		return err
	}
	return nil
}
