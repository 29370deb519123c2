package models

import "time"

// StorageEntry is one key-value slot of the local storage table.
type StorageEntry struct {
	Key       string    `json:"key" db:"storage_key"`
	Value     string    `json:"value" db:"value"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (StorageEntry) TableName() string {
	return "local_storage"
}

func (StorageEntry) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS local_storage (
		storage_key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}

// CreateTableSQLite is the same table for the sqlite driver.
func (StorageEntry) CreateTableSQLite() string {
	return `
	CREATE TABLE IF NOT EXISTS local_storage (
		storage_key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL DEFAULT 0
	);`
}
