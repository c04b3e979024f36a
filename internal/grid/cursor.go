package grid

// Coord addresses a cell, zero-based.
type Coord struct {
	Row int
	Col int
}

// Cursor is the active coordinate. Extents are read from the store on every
// call, so a row deleted by one command is already respected by the next clamp.
type Cursor struct {
	store *Store
	pos   Coord
}

func newCursor(s *Store) *Cursor {
	return &Cursor{store: s}
}

// Coord returns the active coordinate.
func (c *Cursor) Coord() Coord {
	return c.pos
}

// Is reports whether (row, col) is the active coordinate.
func (c *Cursor) Is(row, col int) bool {
	return c.pos.Row == row && c.pos.Col == col
}

// SetRow moves to row, clamped into the store's current row range.
func (c *Cursor) SetRow(row int) {
	c.pos.Row = clamp(row, c.store.RowCount()-1)
}

// SetCol moves to col, clamped into the store's current column range.
func (c *Cursor) SetCol(col int) {
	c.pos.Col = clamp(col, c.store.ColumnCount()-1)
}

// Activate marks the cell under the cursor as active.
func (c *Cursor) Activate() {
	c.store.SetFlag(c.pos.Row, c.pos.Col, FlagActive, true)
}

// Deactivate clears the active marker from the cell under the cursor.
func (c *Cursor) Deactivate() {
	c.store.SetFlag(c.pos.Row, c.pos.Col, FlagActive, false)
}

// MoveTo runs deactivate, clamp, activate so two cells are never active at once.
func (c *Cursor) MoveTo(row, col int) {
	c.Deactivate()
	c.SetRow(row)
	c.SetCol(col)
	c.Activate()
}

// Reclamp re-applies the clamp to the current position after the store's
// shape changed underneath the cursor.
func (c *Cursor) Reclamp() {
	c.SetRow(c.pos.Row)
	c.SetCol(c.pos.Col)
	c.Activate()
}

func clamp(i, max int) int {
	if i > max {
		i = max
	}
	if i < 0 {
		i = 0
	}
	return i
}
