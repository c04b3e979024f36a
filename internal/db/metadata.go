package db

import (
	"context"
)

// Metadata keys
const (
	MetaKeySchemaVersion = "schema_version"
)

// GetMetadata retrieves a metadata value by key
func (db *DB) GetMetadata(ctx context.Context, key string) (string, error) {
	var value string
	err := db.QueryRow(ctx, "SELECT value FROM ivy_metadata WHERE key = $1", key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetMetadata sets a metadata key-value pair (upsert)
func (db *DB) SetMetadata(ctx context.Context, key, value string) error {
	return db.Exec(ctx, `
		INSERT INTO ivy_metadata (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, value)
}
