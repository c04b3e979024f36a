package db

import (
	"context"
	"fmt"
	"strconv"
)

// Schema version for migrations
const SchemaVersion = 1

// InitSchema creates the ivy tables if they do not exist yet
func (db *DB) InitSchema(ctx context.Context) error {
	// Create tables in order (respecting foreign keys)
	if err := db.createSheetsTable(ctx); err != nil {
		return err
	}
	if err := db.createColumnsTable(ctx); err != nil {
		return err
	}
	if err := db.createRowsTable(ctx); err != nil {
		return err
	}
	if err := db.createMetadataTable(ctx); err != nil {
		return err
	}

	return db.SetMetadata(ctx, MetaKeySchemaVersion, strconv.Itoa(SchemaVersion))
}

func (db *DB) createSheetsTable(ctx context.Context) error {
	sql := `
	CREATE TABLE IF NOT EXISTS ivy_sheets (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL UNIQUE,
		content_hash    TEXT NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

	if err := db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to create ivy_sheets: %w", err)
	}

	return nil
}

func (db *DB) createColumnsTable(ctx context.Context) error {
	sql := `
	CREATE TABLE IF NOT EXISTS ivy_columns (
		sheet_id    TEXT NOT NULL REFERENCES ivy_sheets(id) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		name        TEXT NOT NULL,
		read_only   BOOLEAN NOT NULL DEFAULT FALSE,
		computed    BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (sheet_id, position)
	)`

	if err := db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to create ivy_columns: %w", err)
	}

	return nil
}

func (db *DB) createRowsTable(ctx context.Context) error {
	sql := `
	CREATE TABLE IF NOT EXISTS ivy_rows (
		sheet_id    TEXT NOT NULL REFERENCES ivy_sheets(id) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		cells       TEXT[] NOT NULL,
		PRIMARY KEY (sheet_id, position)
	)`

	if err := db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to create ivy_rows: %w", err)
	}

	return nil
}

func (db *DB) createMetadataTable(ctx context.Context) error {
	sql := `
	CREATE TABLE IF NOT EXISTS ivy_metadata (
		key     TEXT PRIMARY KEY,
		value   TEXT NOT NULL
	)`

	if err := db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to create ivy_metadata: %w", err)
	}

	return nil
}

// SchemaExists checks if the ivy schema exists
func (db *DB) SchemaExists(ctx context.Context) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'ivy_sheets'
		)
	`).Scan(&exists)
	return exists, err
}

// DropSchema drops all ivy tables (use with caution!)
func (db *DB) DropSchema(ctx context.Context) error {
	tables := []string{
		"ivy_metadata",
		"ivy_rows",
		"ivy_columns",
		"ivy_sheets",
	}

	for _, table := range tables {
		if err := db.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to drop %s: %w", table, err)
		}
	}

	return nil
}
