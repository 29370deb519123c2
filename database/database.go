package database

import (
	"database/sql"
	"fmt"

	"storefront-server/models"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type DB struct {
	*sql.DB
	logger *zap.Logger
}

// Connect establishes a connection to the PostgreSQL database
func Connect(databaseURL string, logger *zap.Logger) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, logger: logger}, nil
}

// tableModel is implemented by every model that owns a table.
type tableModel interface {
	TableName() string
	CreateTableSQL() string
}

// InitializeTables creates all tables if they don't exist
func (db *DB) InitializeTables() error {
	tables := []tableModel{
		models.StorageEntry{},
	}

	for _, model := range tables {
		db.logger.Info("creating table", zap.String("table", model.TableName()))
		if _, err := db.Exec(model.CreateTableSQL()); err != nil {
			return fmt.Errorf("failed to create table %s: %w", model.TableName(), err)
		}
	}

	return db.runMigrations()
}

func (db *DB) runMigrations() error {
	migrations := []string{
		`CREATE INDEX IF NOT EXISTS idx_local_storage_updated_at ON local_storage(updated_at);`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			// Continue with other migrations even if one fails
			db.logger.Warn("migration failed", zap.Int("migration", i+1), zap.Error(err))
		}
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
