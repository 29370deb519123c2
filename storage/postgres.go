package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresStorage keeps slots in the local_storage table of a PostgreSQL
// database. Any *sql.DB opened with the postgres driver works.
type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (p *PostgresStorage) GetItem(ctx context.Context, key string) (string, error) {
	var value string
	err := p.db.QueryRowContext(ctx, `SELECT value FROM local_storage WHERE storage_key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, nil
}

func (p *PostgresStorage) SetItem(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO local_storage (storage_key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (storage_key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	if _, err := p.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func (p *PostgresStorage) RemoveItem(ctx context.Context, key string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM local_storage WHERE storage_key = $1`, key); err != nil {
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}
	return nil
}
