// Package repository is the Postgres-backed car store.
package repository

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const (
	maxConns = 10
	minConns = 2

	// migrationLockID serializes schema setup between replicas that start
	// at the same time. It spells "carshare" in ASCII.
	migrationLockID int64 = 0x6361727368617265
)

// Repository owns the connection pool for the cars and users tables.
type Repository struct {
	pool *pgxpool.Pool
}

// New opens a pool for databaseURL and verifies it with a ping.
func New(ctx context.Context, databaseURL string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	config.MaxConns = maxConns
	config.MinConns = minConns

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{pool: pool}, nil
}

// Migrate applies every embedded up migration in name order inside one
// transaction, holding an advisory lock for its duration. The migrations use
// IF NOT EXISTS, so rerunning against an existing schema changes nothing.
func (r *Repository) Migrate(ctx context.Context) error {
	names, err := fs.Glob(migrationFS, "migrations/*.up.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	slices.Sort(names)

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", migrationLockID); err != nil {
			return fmt.Errorf("failed to take migration lock: %w", err)
		}

		for _, name := range names {
			sql, err := migrationFS.ReadFile(name)
			if err != nil {
				return fmt.Errorf("failed to read migration %s: %w", name, err)
			}
			if _, err := tx.Exec(ctx, string(sql)); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", path.Base(name), err)
			}
		}
		return nil
	})
}

// Ping satisfies the /readyz checker.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repository) Close() {
	r.pool.Close()
}

// Pool exposes the raw pool for test setup.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}
