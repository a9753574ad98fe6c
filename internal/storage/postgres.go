package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/userdesk/internal/core"
)

const (
	loadQuery = `SELECT value FROM kv_store WHERE key = $1`

	saveQuery = `
INSERT INTO kv_store (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
)

// PostgresStore keeps the collection as one JSONB value in kv_store.
// The table is created by Migrate.
type PostgresStore struct {
	pool *pgxpool.Pool
	key  string
}

// NewPostgresStore returns a store for key backed by pool.
func NewPostgresStore(pool *pgxpool.Pool, key string) *PostgresStore {
	if key == "" {
		key = DefaultKey
	}
	return &PostgresStore{pool: pool, key: key}
}

// Load reads the collection. No row yields no records.
func (s *PostgresStore) Load(ctx context.Context) ([]core.Record, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, loadQuery, s.key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return []core.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.key, err)
	}

	return decodeRecords(data)
}

// Save upserts the collection under the store's key.
func (s *PostgresStore) Save(ctx context.Context, records []core.Record) error {
	data, err := encodeRecords(records)
	if err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, saveQuery, s.key, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	return nil
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
