// Package postgres stores values in the storefront_kv table.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/rasulshaikhdev/techgear-hub/pkg/database"
	apperrors "github.com/rasulshaikhdev/techgear-hub/pkg/errors"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the schema migrations for the storefront_kv table.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(fmt.Sprintf("migrations sub fs: %v", err))
	}
	return sub
}

// Migrate applies the store's schema migrations.
func Migrate(ctx context.Context, pool database.Pool, logger *slog.Logger) error {
	if err := database.RunMigrations(ctx, pool, Migrations(), logger); err != nil {
		return fmt.Errorf("migrate storefront_kv: %w", err)
	}
	return nil
}

// Store implements repository.KV on PostgreSQL.
type Store struct {
	pool database.Pool
}

// New creates a PostgreSQL-backed store. The schema must already be migrated.
func New(pool database.Pool) *Store {
	return &Store{pool: pool}
}

const (
	getQuery    = `SELECT value FROM storefront_kv WHERE key = $1`
	setQuery    = `INSERT INTO storefront_kv (key, value, updated_at) VALUES ($1, $2, NOW()) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	deleteQuery = `DELETE FROM storefront_kv WHERE key = $1`
)

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) (value string, err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemPostgres, "kv.get", getQuery)
	defer func() { end(err) }()

	if err := s.pool.QueryRow(ctx, getQuery, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NotFound("key", key)
		}
		return "", fmt.Errorf("select storefront_kv %s: %w", key, err)
	}
	return value, nil
}

// Set upserts a value.
func (s *Store) Set(ctx context.Context, key, value string) (err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemPostgres, "kv.set", setQuery)
	defer func() { end(err) }()

	if _, err := s.pool.Exec(ctx, setQuery, key, value); err != nil {
		return fmt.Errorf("upsert storefront_kv %s: %w", key, err)
	}
	return nil
}

// Delete removes a key.
func (s *Store) Delete(ctx context.Context, key string) (err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemPostgres, "kv.delete", deleteQuery)
	defer func() { end(err) }()

	if _, err := s.pool.Exec(ctx, deleteQuery, key); err != nil {
		return fmt.Errorf("delete storefront_kv %s: %w", key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close is a no-op; the pool is owned and closed by the application.
func (s *Store) Close() error { return nil }
