package store

import (
	"context"
	"errors"

	"github.com/imgajeed76/ivy/internal/db"
	"github.com/imgajeed76/ivy/internal/util"
)

// PostgresBackend keeps a named sheet in the ivy tables of a database.
type PostgresBackend struct {
	DB    *db.DB
	Sheet string
}

// NewPostgresBackend returns a backend for the sheet called name.
func NewPostgresBackend(conn *db.DB, name string) *PostgresBackend {
	return &PostgresBackend{DB: conn, Sheet: name}
}

func (b *PostgresBackend) Describe() string {
	return b.Sheet + " @ database"
}

// Load reads the sheet. A missing sheet yields a RemoteSheetNotFoundError.
func (b *PostgresBackend) Load(ctx context.Context) (*Document, error) {
	s, err := b.DB.GetSheet(ctx, b.Sheet)
	if errors.Is(err, util.ErrSheetNotFound) {
		return nil, util.RemoteSheetNotFoundError(b.Sheet)
	}
	if err != nil {
		return nil, err
	}

	doc := &Document{Name: s.Name, Rows: s.Rows}
	for _, c := range s.Columns {
		doc.Columns = append(doc.Columns, Column{Name: c.Name, ReadOnly: c.ReadOnly, Computed: c.Computed})
	}
	if err := doc.Validate(); err != nil {
		return nil, util.MalformedSheetError(b.Sheet, err)
	}
	return doc, nil
}

// Save replaces the stored sheet in a single transaction, creating the
// schema first if this database has never held a sheet.
func (b *PostgresBackend) Save(ctx context.Context, doc *Document) error {
	if err := b.DB.InitSchema(ctx); err != nil {
		return err
	}

	s := &db.Sheet{
		Name:        b.Sheet,
		ContentHash: doc.Hash(),
		Rows:        doc.Rows,
	}
	for _, c := range doc.Columns {
		s.Columns = append(s.Columns, db.ColumnDef{Name: c.Name, ReadOnly: c.ReadOnly, Computed: c.Computed})
	}
	return b.DB.PutSheet(ctx, s)
}
