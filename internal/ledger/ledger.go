// Package ledger records migrated files in Postgres so that repeated runs
// reuse earlier uploads instead of transferring the same file again.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is one migrated file.
type Entry struct {
	SourceURL   string // Normalized bubble.io link
	Bucket      string
	ObjectPath  string
	PublicURL   string
	ContentType string
	Size        int64
	TableKind   string
	ColumnName  string
	MigratedAt  time.Time
}

// Ledger looks up and records migrated files.
type Ledger interface {
	Lookup(ctx context.Context, sourceURL string) (Entry, bool, error)
	Record(ctx context.Context, e Entry) error
}

// DBTX is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock pools.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const createTable = `
CREATE TABLE IF NOT EXISTS migrated_files (
	source_url   TEXT PRIMARY KEY,
	bucket       TEXT NOT NULL,
	object_path  TEXT NOT NULL,
	public_url   TEXT NOT NULL,
	content_type TEXT NOT NULL DEFAULT '',
	size_bytes   BIGINT NOT NULL DEFAULT 0,
	table_kind   TEXT NOT NULL DEFAULT '',
	column_name  TEXT NOT NULL DEFAULT '',
	migrated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const lookupEntry = `
SELECT source_url, bucket, object_path, public_url, content_type,
       size_bytes, table_kind, column_name, migrated_at
FROM migrated_files
WHERE source_url = $1`

const recordEntry = `
INSERT INTO migrated_files
	(source_url, bucket, object_path, public_url, content_type, size_bytes, table_kind, column_name)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (source_url) DO UPDATE SET
	bucket       = EXCLUDED.bucket,
	object_path  = EXCLUDED.object_path,
	public_url   = EXCLUDED.public_url,
	content_type = EXCLUDED.content_type,
	size_bytes   = EXCLUDED.size_bytes,
	table_kind   = EXCLUDED.table_kind,
	column_name  = EXCLUDED.column_name,
	migrated_at  = now()`

const countEntries = `SELECT count(*) FROM migrated_files`

// Store is the Postgres ledger.
type Store struct {
	db DBTX
}

// New creates a store on db.
func New(db DBTX) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the ledger table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("create migrated_files: %w", err)
	}
	return nil
}

// Lookup returns the entry for sourceURL. ok is false when the file has not
// been migrated yet.
func (s *Store) Lookup(ctx context.Context, sourceURL string) (Entry, bool, error) {
	var e Entry
	err := s.db.QueryRow(ctx, lookupEntry, sourceURL).Scan(
		&e.SourceURL,
		&e.Bucket,
		&e.ObjectPath,
		&e.PublicURL,
		&e.ContentType,
		&e.Size,
		&e.TableKind,
		&e.ColumnName,
		&e.MigratedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("lookup %s: %w", sourceURL, err)
	}
	return e, true, nil
}

// Record inserts or replaces the entry for e.SourceURL.
func (s *Store) Record(ctx context.Context, e Entry) error {
	_, err := s.db.Exec(ctx, recordEntry,
		e.SourceURL,
		e.Bucket,
		e.ObjectPath,
		e.PublicURL,
		e.ContentType,
		e.Size,
		e.TableKind,
		e.ColumnName,
	)
	if err != nil {
		return fmt.Errorf("record %s: %w", e.SourceURL, err)
	}
	return nil
}

// Count returns the number of recorded files.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, countEntries).Scan(&n); err != nil {
		return 0, fmt.Errorf("count migrated_files: %w", err)
	}
	return n, nil
}

// Noop is used when no database is configured. Nothing is found and
// nothing is kept.
type Noop struct{}

func (Noop) Lookup(context.Context, string) (Entry, bool, error) { return Entry{}, false, nil }
func (Noop) Record(context.Context, Entry) error                 { return nil }

// PoolOptions sizes the connection pool.
type PoolOptions struct {
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
}

// Connect opens and pings a pool for url.
func Connect(ctx context.Context, url string, opts PoolOptions) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if opts.MaxConns > 0 {
		poolConfig.MaxConns = int32(opts.MaxConns)
	}
	poolConfig.MinConns = int32(opts.MinConns)
	if opts.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = opts.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}
