// Package store moves sheets between the grid engine and where they live:
// CSV or XLSX files, a PostgreSQL database, and the export formats.
//
// A Document is the interchange form. It knows column names and flags and
// holds rows as plain strings; ToGrid and FromGrid convert to and from the
// engine's grid.Store.
package store

import (
	"context"
	"fmt"

	"github.com/imgajeed76/ivy/internal/grid"
	"github.com/imgajeed76/ivy/internal/util"
)

// Column describes one column of a sheet.
type Column struct {
	Name string
	// ReadOnly columns reject operator edits.
	ReadOnly bool
	// Computed columns are derived by host hooks and also reject edits.
	Computed bool
}

// Document is a sheet: a header plus rectangular rows of text.
type Document struct {
	Name    string
	Columns []Column
	Rows    [][]string
}

// NewDocument builds a document from header names and rows.
func NewDocument(name string, headers []string, rows [][]string) *Document {
	cols := make([]Column, len(headers))
	for i, h := range headers {
		cols[i] = Column{Name: h}
	}
	return &Document{Name: name, Columns: cols, Rows: rows}
}

// Headers returns the column names in order.
func (d *Document) Headers() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// Validate checks that the document has columns and that every row has
// exactly one value per column.
func (d *Document) Validate() error {
	if len(d.Columns) == 0 {
		return util.ErrEmptySheet
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Columns) {
			return fmt.Errorf("row %d has %d values, header has %d: %w",
				i+1, len(row), len(d.Columns), util.ErrNotRectangular)
		}
	}
	return nil
}

// MarkReadOnly flags the given column indices as read-only. Out of range
// indices are ignored.
func (d *Document) MarkReadOnly(cols []int) {
	for _, c := range cols {
		if c >= 0 && c < len(d.Columns) {
			d.Columns[c].ReadOnly = true
		}
	}
}

// Hash returns a content hash over the header and rows.
func (d *Document) Hash() string {
	all := make([][]string, 0, len(d.Rows)+1)
	all = append(all, d.Headers())
	all = append(all, d.Rows...)
	return util.HashRows(all)
}

// ToGrid loads the document into a new grid store, carrying column flags
// onto every cell of the column.
func ToGrid(d *Document) *grid.Store {
	s := grid.NewStore(len(d.Columns), d.Rows)
	for i, c := range d.Columns {
		if c.ReadOnly {
			s.MarkColumn(i, grid.FlagReadOnly)
		}
		if c.Computed {
			s.MarkColumn(i, grid.FlagComputed)
		}
	}
	return s
}

// FromGrid snapshots a grid store into a document using the given columns.
func FromGrid(name string, columns []Column, s *grid.Store) *Document {
	return &Document{
		Name:    name,
		Columns: append([]Column(nil), columns...),
		Rows:    s.Values(),
	}
}

// Backend is somewhere a document can be loaded from and saved to.
type Backend interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
	// Describe names the backend for status lines and logs.
	Describe() string
}
