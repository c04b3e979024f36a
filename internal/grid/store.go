// Package grid implements the editing engine behind ivy's sheet editor.
//
// The engine is made of four cooperating parts:
//   - Store: the rectangular table of cells, the only thing that touches raw values
//   - Cursor: the single active coordinate, always clamped to the store's extents
//   - Engine: wraps every mutation in a Command and keeps bounded undo/redo stacks
//   - Hooks: callbacks through which host logic (e.g. timesheet math) reacts to changes
//
// Everything here is single-threaded. Each public Engine operation runs to
// completion, hooks included, before returning to the caller.
package grid

import (
	"github.com/imgajeed76/ivy/internal/util"
)

// Flag is a bit set of per-cell state markers.
type Flag uint8

const (
	// FlagActive marks the cell under the cursor. Exactly one cell carries it.
	FlagActive Flag = 1 << iota
	// FlagEditing marks the cell the edit surface is attached to.
	FlagEditing
	// FlagReadOnly cells reject every mutation that enters through the Engine.
	FlagReadOnly
	// FlagComputed cells hold values derived by hooks. They are read-only to
	// the operator as well.
	FlagComputed
)

// structural flags survive row cloning; state flags do not
const stateFlags = FlagActive | FlagEditing

// Cell is a single text value plus its state flags.
type Cell struct {
	Value string
	Flags Flag
}

// Has reports whether all bits of f are set on the cell.
func (c Cell) Has(f Flag) bool {
	return c.Flags&f == f
}

// Row is an ordered run of cells. ID is unique per process and only used to
// tell otherwise identical rows apart.
type Row struct {
	ID    string
	Cells []Cell
}

// Store owns the grid's shape and values. Every row has exactly ColumnCount
// cells; nothing in this type can break that.
type Store struct {
	rows  []*Row
	cols  int
	dirty bool
}

// NewStore creates a store with the given number of columns. Each value row is
// copied into exactly that many cells: short rows are padded with empty cells
// and long rows are cut. A store always has at least one row and one column.
func NewStore(columns int, values [][]string) *Store {
	if columns < 1 {
		columns = 1
	}
	s := &Store{cols: columns}
	for _, vals := range values {
		s.rows = append(s.rows, newRow(columns, vals))
	}
	if len(s.rows) == 0 {
		s.rows = append(s.rows, newRow(columns, nil))
	}
	return s
}

func newRow(columns int, vals []string) *Row {
	row := &Row{ID: util.NewULID(), Cells: make([]Cell, columns)}
	for i := 0; i < columns && i < len(vals); i++ {
		row.Cells[i].Value = vals[i]
	}
	return row
}

// RowCount returns the current number of rows.
func (s *Store) RowCount() int {
	return len(s.rows)
}

// ColumnCount returns the number of cells in every row.
func (s *Store) ColumnCount() int {
	return s.cols
}

// InBounds reports whether (row, col) addresses an existing cell.
func (s *Store) InBounds(row, col int) bool {
	return row >= 0 && row < len(s.rows) && col >= 0 && col < s.cols
}

// Cell returns a copy of the cell at (row, col). Out of range yields a zero cell.
func (s *Store) Cell(row, col int) Cell {
	if !s.InBounds(row, col) {
		return Cell{}
	}
	return s.rows[row].Cells[col]
}

// Value returns the text at (row, col), or "" when out of range.
func (s *Store) Value(row, col int) string {
	return s.Cell(row, col).Value
}

// Set writes a value directly, ignoring flags. It reports whether the stored
// value changed. Hooks use this path for derived values.
func (s *Store) Set(row, col int, value string) bool {
	if !s.InBounds(row, col) {
		return false
	}
	cell := &s.rows[row].Cells[col]
	if cell.Value == value {
		return false
	}
	cell.Value = value
	s.dirty = true
	return true
}

// SetFlag turns f on or off for the cell at (row, col).
func (s *Store) SetFlag(row, col int, f Flag, on bool) {
	if !s.InBounds(row, col) {
		return
	}
	cell := &s.rows[row].Cells[col]
	if on {
		cell.Flags |= f
	} else {
		cell.Flags &^= f
	}
}

// MarkColumn sets f on every cell of a column.
func (s *Store) MarkColumn(col int, f Flag) {
	for r := range s.rows {
		s.SetFlag(r, col, f, true)
	}
}

// RowID returns the identity of a row, or "" when out of range.
func (s *Store) RowID(row int) string {
	if row < 0 || row >= len(s.rows) {
		return ""
	}
	return s.rows[row].ID
}

// IndexOf returns the index of the row with the given ID, or -1.
func (s *Store) IndexOf(id string) int {
	for i, r := range s.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// CloneRow copies a row's structure: the same number of cells with the same
// read-only and computed flags, but empty values and a fresh identity.
func (s *Store) CloneRow(row int) *Row {
	clone := &Row{ID: util.NewULID(), Cells: make([]Cell, s.cols)}
	if row < 0 || row >= len(s.rows) {
		return clone
	}
	for i, c := range s.rows[row].Cells {
		clone.Cells[i].Flags = c.Flags &^ stateFlags
	}
	return clone
}

// InsertRow places row at index at, shifting later rows down. at is clamped
// into [0, RowCount]. A row with the wrong number of cells is resized first.
func (s *Store) InsertRow(at int, row *Row) int {
	if at < 0 {
		at = 0
	}
	if at > len(s.rows) {
		at = len(s.rows)
	}
	if len(row.Cells) != s.cols {
		cells := make([]Cell, s.cols)
		copy(cells, row.Cells)
		row.Cells = cells
	}
	s.rows = append(s.rows, nil)
	copy(s.rows[at+1:], s.rows[at:])
	s.rows[at] = row
	s.dirty = true
	return at
}

// RemoveRow deletes the row at index at and returns it with its state flags
// cleared. It returns nil when at is out of range.
func (s *Store) RemoveRow(at int) *Row {
	if at < 0 || at >= len(s.rows) {
		return nil
	}
	row := s.rows[at]
	s.rows = append(s.rows[:at], s.rows[at+1:]...)
	for i := range row.Cells {
		row.Cells[i].Flags &^= stateFlags
	}
	s.dirty = true
	return row
}

// RowValues returns a copy of one row's values.
func (s *Store) RowValues(row int) []string {
	if row < 0 || row >= len(s.rows) {
		return nil
	}
	vals := make([]string, s.cols)
	for i, c := range s.rows[row].Cells {
		vals[i] = c.Value
	}
	return vals
}

// Values returns a copy of every value in row-major order.
func (s *Store) Values() [][]string {
	out := make([][]string, len(s.rows))
	for i := range s.rows {
		out[i] = s.RowValues(i)
	}
	return out
}

// Dirty reports whether any value or the row structure changed since the last
// ResetDirty. Callers poll it from their save tick.
func (s *Store) Dirty() bool {
	return s.dirty
}

// ResetDirty clears the dirty flag, typically right after a successful save.
func (s *Store) ResetDirty() {
	s.dirty = false
}
