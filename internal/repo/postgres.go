package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/leadbook/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn and pgx.Tx
// (and by pgxmock). Integration tests pass a transaction that is rolled back
// after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresKV stores blobs in the kv_store table created by the migrations.
type PostgresKV struct {
	db db
}

// NewPostgresKV constructs a PostgresKV backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPostgresKV(db db) *PostgresKV {
	return &PostgresKV{db: db}
}

// Get retrieves the value stored under key.
func (p *PostgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `
		SELECT value
		FROM kv_store
		WHERE key = @key`

	var value string
	err := p.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("repo.PostgresKV.Get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.PostgresKV.Get: %w", err)
	}
	return []byte(value), nil
}

// Set upserts the value for key.
func (p *PostgresKV) Set(ctx context.Context, key string, value []byte) error {
	const q = `
		INSERT INTO kv_store (key, value)
		VALUES (@key, @value)
		ON CONFLICT (key) DO UPDATE
		SET value      = EXCLUDED.value,
		    updated_at = now()`

	_, err := p.db.Exec(ctx, q, pgx.NamedArgs{"key": key, "value": string(value)})
	if err != nil {
		return fmt.Errorf("repo.PostgresKV.Set: %w", err)
	}
	return nil
}
