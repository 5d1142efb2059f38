package infra

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// SQLExecutor defines the contract repositories need for executing SQL.
// Queries carry a short name used for logging.
type SQLExecutor interface {
	Exec(ctx context.Context, name, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, name, query string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, name, query string, args ...any) pgx.Row
}

// SQLRunner executes queries against a pgx pool and logs each one with its
// name, duration and outcome.
type SQLRunner struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewSQLRunner(pool *pgxpool.Pool, logger zerolog.Logger) *SQLRunner {
	return &SQLRunner{pool: pool, logger: logger}
}

func (r *SQLRunner) Exec(ctx context.Context, name, query string, args ...any) (pgconn.CommandTag, error) {
	start := time.Now()
	tag, err := r.pool.Exec(ctx, query, args...)
	r.log(name, start, err)
	return tag, err
}

func (r *SQLRunner) Query(ctx context.Context, name, query string, args ...any) (pgx.Rows, error) {
	start := time.Now()
	rows, err := r.pool.Query(ctx, query, args...)
	r.log(name, start, err)
	return rows, err
}

// QueryRow defers errors to Scan, so the wrapped row logs at scan time.
func (r *SQLRunner) QueryRow(ctx context.Context, name, query string, args ...any) pgx.Row {
	start := time.Now()
	row := r.pool.QueryRow(ctx, query, args...)
	return loggingRow{row: row, runner: r, name: name, start: start}
}

func (r *SQLRunner) log(name string, start time.Time, err error) {
	if err != nil {
		r.logger.Error().Err(err).Str("query", name).Dur("took", time.Since(start)).Msg("sql error")
		return
	}
	r.logger.Debug().Str("query", name).Dur("took", time.Since(start)).Msg("sql ok")
}

type loggingRow struct {
	row    pgx.Row
	runner *SQLRunner
	name   string
	start  time.Time
}

func (l loggingRow) Scan(dest ...any) error {
	err := l.row.Scan(dest...)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		l.runner.log(l.name, l.start, err)
		return err
	}
	l.runner.log(l.name, l.start, nil)
	return err
}
