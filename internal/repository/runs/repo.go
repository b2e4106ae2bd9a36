// Package runs persists query run records in the append-only query_runs table.
package runs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver
	"github.com/raglab/raglab-api/internal/domain"
)

// Config holds connection pool settings for the runs store.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Repo is the Postgres-backed run store. Safe for concurrent use; the
// pool owns its own synchronization.
type Repo struct {
	db *sql.DB
}

// Open creates a connection pool. It does not ping: the service must be
// able to start with the database down, with run logging degraded to
// warnings instead of failing requests.
func Open(cfg Config) (*Repo, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return &Repo{db: db}, nil
}

// New wraps an existing connection pool.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Close closes the underlying pool.
func (r *Repo) Close() error {
	return r.db.Close() //nolint:wrapcheck // delegating to database/sql
}

// Ping checks database reachability.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS query_runs (
	id              UUID PRIMARY KEY,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	backend         TEXT        NOT NULL,
	query           TEXT        NOT NULL,
	top_k           INTEGER     NOT NULL,
	latency_ms      BIGINT      NOT NULL,
	retrieved_count INTEGER     NOT NULL,
	status          TEXT        NOT NULL,
	error_code      TEXT,
	error_message   TEXT
);
CREATE INDEX IF NOT EXISTS idx_query_runs_created_at ON query_runs (created_at DESC);
`

// EnsureSchema applies the query_runs DDL idempotently.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure query_runs schema: %w", err)
	}
	return nil
}

// Insert appends one run row. created_at is assigned server-side.
func (r *Repo) Insert(ctx context.Context, run domain.Run) error {
	query := `
		INSERT INTO query_runs (
			id, backend, query, top_k, latency_ms, retrieved_count,
			status, error_code, error_message
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.Backend, run.Query, run.TopK, run.LatencyMS,
		run.RetrievedCount, run.Status,
		nullString(run.ErrorCode), nullString(run.ErrorMessage),
	)
	if err != nil {
		return fmt.Errorf("insert query run: %w", err)
	}
	return nil
}

// List returns up to limit runs, newest first, optionally filtered by
// exact backend match.
func (r *Repo) List(ctx context.Context, limit int, backend string) ([]domain.Run, error) {
	query := `
		SELECT id, created_at, backend, query, top_k, latency_ms,
		       retrieved_count, status, error_code, error_message
		FROM query_runs
	`

	var args []any
	if backend != "" {
		args = append(args, backend)
		query += fmt.Sprintf(" WHERE backend = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []domain.Run
	for rows.Next() {
		var (
			run                 domain.Run
			errCode, errMessage sql.NullString
		)
		if err := rows.Scan(
			&run.ID, &run.CreatedAt, &run.Backend, &run.Query, &run.TopK,
			&run.LatencyMS, &run.RetrievedCount, &run.Status,
			&errCode, &errMessage,
		); err != nil {
			return nil, fmt.Errorf("scan query run: %w", err)
		}
		run.ErrorCode = errCode.String
		run.ErrorMessage = errMessage.String
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate query runs: %w", err)
	}

	return out, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
