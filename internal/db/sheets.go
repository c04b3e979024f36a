package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imgajeed76/ivy/internal/util"
	"github.com/jackc/pgx/v5"
)

// ColumnDef is one stored column
type ColumnDef struct {
	Name     string
	ReadOnly bool
	Computed bool
}

// Sheet is a sheet as stored in the database
type Sheet struct {
	ID          string
	Name        string
	ContentHash string
	UpdatedAt   time.Time
	Columns     []ColumnDef
	Rows        [][]string
}

// SheetInfo is the summary row returned by ListSheets
type SheetInfo struct {
	Name        string
	ContentHash string
	RowCount    int
	UpdatedAt   time.Time
}

// GetSheet loads a sheet by name. It returns util.ErrSheetNotFound when no
// sheet with that name exists.
func (db *DB) GetSheet(ctx context.Context, name string) (*Sheet, error) {
	s := &Sheet{Name: name}
	err := db.QueryRow(ctx,
		`SELECT id, content_hash, updated_at FROM ivy_sheets WHERE name = $1`, name,
	).Scan(&s.ID, &s.ContentHash, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, util.ErrSheetNotFound
	}
	if err != nil {
		return nil, err
	}

	cols, err := db.Query(ctx,
		`SELECT name, read_only, computed FROM ivy_columns WHERE sheet_id = $1 ORDER BY position`, s.ID)
	if err != nil {
		return nil, err
	}
	defer cols.Close()
	for cols.Next() {
		var c ColumnDef
		if err := cols.Scan(&c.Name, &c.ReadOnly, &c.Computed); err != nil {
			return nil, err
		}
		s.Columns = append(s.Columns, c)
	}
	if err := cols.Err(); err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx,
		`SELECT cells FROM ivy_rows WHERE sheet_id = $1 ORDER BY position`, s.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var cells []string
		if err := rows.Scan(&cells); err != nil {
			return nil, err
		}
		s.Rows = append(s.Rows, cells)
	}

	return s, rows.Err()
}

// PutSheet replaces a sheet's columns and rows in one transaction, creating
// the sheet when it does not exist yet.
func (db *DB) PutSheet(ctx context.Context, s *Sheet) error {
	return db.WithTx(ctx, func(tx pgx.Tx) error {
		var id string
		err := tx.QueryRow(ctx, `
			INSERT INTO ivy_sheets (id, name, content_hash, updated_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (name) DO UPDATE SET
				content_hash = EXCLUDED.content_hash,
				updated_at = NOW()
			RETURNING id`,
			util.NewULID(), s.Name, s.ContentHash,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to upsert sheet: %w", err)
		}
		s.ID = id

		if _, err := tx.Exec(ctx, `DELETE FROM ivy_columns WHERE sheet_id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear columns: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM ivy_rows WHERE sheet_id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear rows: %w", err)
		}

		batch := &pgx.Batch{}
		for i, c := range s.Columns {
			batch.Queue(`INSERT INTO ivy_columns (sheet_id, position, name, read_only, computed)
				VALUES ($1, $2, $3, $4, $5)`, id, i, c.Name, c.ReadOnly, c.Computed)
		}
		for i, cells := range s.Rows {
			batch.Queue(`INSERT INTO ivy_rows (sheet_id, position, cells) VALUES ($1, $2, $3)`, id, i, cells)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to write sheet contents: %w", err)
		}
		return nil
	})
}

// ListSheets returns every stored sheet, most recently updated first
func (db *DB) ListSheets(ctx context.Context) ([]SheetInfo, error) {
	rows, err := db.Query(ctx, `
		SELECT s.name, s.content_hash, s.updated_at, COUNT(r.position)
		FROM ivy_sheets s
		LEFT JOIN ivy_rows r ON r.sheet_id = s.id
		GROUP BY s.id
		ORDER BY s.updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SheetInfo
	for rows.Next() {
		var info SheetInfo
		if err := rows.Scan(&info.Name, &info.ContentHash, &info.UpdatedAt, &info.RowCount); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteSheet removes a sheet and everything attached to it
func (db *DB) DeleteSheet(ctx context.Context, name string) error {
	return db.Exec(ctx, `DELETE FROM ivy_sheets WHERE name = $1`, name)
}
