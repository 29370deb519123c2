package database

import (
	"context"
	"fmt"

	"storefront-server/models"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// SQLite is a pool of connections to the local storage database file.
// Individual connections are not safe for concurrent use; Take one per
// operation and Put it back.
type SQLite struct {
	pool   *sqlitex.Pool
	path   string
	logger *zap.Logger
}

// OpenSQLite opens (creating if needed) the database at path and makes sure
// the local_storage table exists on every connection. Use ":memory:" with
// poolSize 1 in tests.
func OpenSQLite(path string, poolSize int, logger *zap.Logger) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if poolSize <= 0 {
		poolSize = 4
	}

	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}

	logger.Info("sqlite pool opened", zap.String("path", path), zap.Int("pool_size", poolSize))
	return &SQLite{pool: pool, path: path, logger: logger}, nil
}

func prepareConnection(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if err := sqlitex.ExecuteScript(conn, models.StorageEntry{}.CreateTableSQLite(), nil); err != nil {
		return fmt.Errorf("failed to create table %s: %w", models.StorageEntry{}.TableName(), err)
	}
	return nil
}

// Take borrows a connection. The caller must Put it back.
func (s *SQLite) Take(ctx context.Context) (*sqlite.Conn, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to take sqlite connection: %w", err)
	}
	return conn, nil
}

func (s *SQLite) Put(conn *sqlite.Conn) {
	s.pool.Put(conn)
}

func (s *SQLite) Close() error {
	if err := s.pool.Close(); err != nil {
		return fmt.Errorf("failed to close sqlite %s: %w", s.path, err)
	}
	s.logger.Info("sqlite pool closed", zap.String("path", s.path))
	return nil
}
