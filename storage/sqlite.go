package storage

import (
	"context"
	"fmt"
	"time"

	"storefront-server/database"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// SQLiteStorage keeps slots in the local_storage table of a sqlite file.
type SQLiteStorage struct {
	db *database.SQLite
}

func NewSQLiteStorage(db *database.SQLite) *SQLiteStorage {
	return &SQLiteStorage{db: db}
}

func (s *SQLiteStorage) GetItem(ctx context.Context, key string) (string, error) {
	conn, err := s.db.Take(ctx)
	if err != nil {
		return "", err
	}
	defer s.db.Put(conn)

	var (
		value string
		found bool
	)
	err = sqlitex.Execute(conn, `SELECT value FROM local_storage WHERE storage_key = ?`, &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			value = stmt.ColumnText(0)
			found = true
			return nil
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", key, err)
	}
	if !found {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *SQLiteStorage) SetItem(ctx context.Context, key, value string) error {
	conn, err := s.db.Take(ctx)
	if err != nil {
		return err
	}
	defer s.db.Put(conn)

	err = sqlitex.Execute(conn, `
		INSERT INTO local_storage (storage_key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(storage_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		&sqlitex.ExecOptions{Args: []any{key, value, time.Now().Unix()}})
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStorage) RemoveItem(ctx context.Context, key string) error {
	conn, err := s.db.Take(ctx)
	if err != nil {
		return err
	}
	defer s.db.Put(conn)

	if err := sqlitex.Execute(conn, `DELETE FROM local_storage WHERE storage_key = ?`,
		&sqlitex.ExecOptions{Args: []any{key}}); err != nil {
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}
	return nil
}
