package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/tinyurl-history/internal/history"
)

// PostgresStore is a PostgreSQL implementation of history.Backend.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed history backend.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the collections table if it does not exist yet.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS history_collections (
			key        TEXT PRIMARY KEY,
			payload    BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`

	_, err := p.pool.Exec(ctx, query)

	return err
}

func (p *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO history_collections (key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`

	_, err := p.pool.Exec(ctx, query, key, value)

	return err
}

func (p *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `
		SELECT payload
		FROM history_collections
		WHERE key = $1
	`

	var payload []byte

	err := p.pool.QueryRow(ctx, query, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, history.ErrNotFound
		}

		return nil, err
	}

	return payload, nil
}

// Ping checks PostgreSQL connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

var _ history.Backend = (*PostgresStore)(nil)
