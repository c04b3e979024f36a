package grid

// State is what a command captures before it runs: where the cursor was, which
// cell the command is about to touch, and that cell's text at the time.
type State struct {
	Active Coord
	Target Coord
	Value  string
}

// Command is one undoable unit of work.
//
// Execute returns false when the command refuses to run (read-only target,
// last remaining row); a refused command leaves no trace in history.
// Touched reports the cell whose state identifies the command's result.
type Command interface {
	Kind() string
	State() State
	Execute(e *Engine) bool
	Undo(e *Engine)
	Touched(e *Engine) Coord
}

// identified is implemented by commands that carry a process-unique ID.
type identified interface {
	ID() string
}

// base holds the captured pre-state and the default undo behaviour.
type base struct {
	state State
}

func (b *base) State() State { return b.state }

func (b *base) Undo(e *Engine) { e.restore(b.state) }

// ═══════════════════════════════════════════════════════════════════════════
// Navigation
// ═══════════════════════════════════════════════════════════════════════════

type navigateCommand struct {
	base
	to Coord
}

func (c *navigateCommand) Kind() string { return "navigate" }

func (c *navigateCommand) Execute(e *Engine) bool {
	e.cursor.MoveTo(c.to.Row, c.to.Col)
	return true
}

func (c *navigateCommand) Touched(e *Engine) Coord { return e.cursor.Coord() }

// ═══════════════════════════════════════════════════════════════════════════
// Cell values
// ═══════════════════════════════════════════════════════════════════════════

type updateCommand struct {
	base
	target Coord
	value  string
}

func (c *updateCommand) Kind() string { return "update" }

func (c *updateCommand) Execute(e *Engine) bool {
	if e.ReadOnly(c.target.Row, c.target.Col) {
		return false
	}
	e.change(c.target, c.value)
	return true
}

func (c *updateCommand) Touched(*Engine) Coord { return c.target }

// cutCommand copies the active cell to the clipboard, then erases it.
type cutCommand struct {
	base
	target Coord
}

func (c *cutCommand) Kind() string { return "cut" }

func (c *cutCommand) Execute(e *Engine) bool {
	if e.ReadOnly(c.target.Row, c.target.Col) {
		return false
	}
	e.copyCell(c.target)
	e.change(c.target, "")
	return true
}

func (c *cutCommand) Touched(*Engine) Coord { return c.target }

// editCommand is one edit session. Starting it attaches the edit surface;
// it only reaches history when the session is committed with a new value.
// Re-executing it (redo) writes the committed value again.
type editCommand struct {
	base
	target Coord
	buffer string
	value  string
}

func (c *editCommand) Kind() string { return "edit" }

func (c *editCommand) attach(e *Engine, seed string, seeded bool) {
	c.buffer = e.store.Value(c.target.Row, c.target.Col)
	if seeded {
		c.buffer = seed
	}
	e.store.SetFlag(c.target.Row, c.target.Col, FlagEditing, true)
}

func (c *editCommand) detach(e *Engine) {
	e.store.SetFlag(c.target.Row, c.target.Col, FlagEditing, false)
}

func (c *editCommand) Execute(e *Engine) bool {
	if e.ReadOnly(c.target.Row, c.target.Col) {
		return false
	}
	e.change(c.target, c.value)
	return true
}

func (c *editCommand) Touched(*Engine) Coord { return c.target }

// ═══════════════════════════════════════════════════════════════════════════
// Structural commands
// ═══════════════════════════════════════════════════════════════════════════

// insertRowCommand clones the structure of a source row and places the clone
// after it (insert) or after the last row (append). The clone's ID doubles as
// the command's identity so repeated identical inserts stay distinct entries.
type insertRowCommand struct {
	base
	appendRow bool
	id        string
	at        int
}

func (c *insertRowCommand) Kind() string {
	if c.appendRow {
		return "appendRow"
	}
	return "insertRow"
}

func (c *insertRowCommand) ID() string { return c.id }

func (c *insertRowCommand) Execute(e *Engine) bool {
	src := e.cursor.Coord().Row
	if c.appendRow {
		src = e.store.RowCount() - 1
	}

	e.cursor.Deactivate()
	row := e.store.CloneRow(src)
	if c.id == "" {
		c.id = row.ID
	}
	row.ID = c.id
	c.at = e.store.InsertRow(src+1, row)
	e.cursor.Reclamp()

	if c.appendRow {
		e.hooks.AfterAppendRow(e, c.at)
	} else {
		e.hooks.AfterInsertRow(e, c.at)
	}
	return true
}

func (c *insertRowCommand) Undo(e *Engine) {
	at := e.store.IndexOf(c.id)
	if at < 0 {
		e.restore(c.state)
		return
	}
	e.cursor.Deactivate()
	e.store.RemoveRow(at)
	e.cursor.Reclamp()
	e.hooks.AfterDeleteRow(e, at)
	e.restore(c.state)
}

func (c *insertRowCommand) Touched(e *Engine) Coord { return e.cursor.Coord() }

// deleteRowCommand removes the active row. Undo puts the saved row, values
// included, back at the exact index it came from.
type deleteRowCommand struct {
	base
	at    int
	saved *Row
}

func (c *deleteRowCommand) Kind() string { return "deleteRow" }

func (c *deleteRowCommand) ID() string {
	if c.saved == nil {
		return ""
	}
	return c.saved.ID
}

func (c *deleteRowCommand) Execute(e *Engine) bool {
	if e.store.RowCount() <= 1 {
		return false
	}
	c.at = e.cursor.Coord().Row

	e.cursor.Deactivate()
	c.saved = e.store.RemoveRow(c.at)
	e.cursor.Reclamp()

	e.hooks.AfterDeleteRow(e, c.at)
	return true
}

func (c *deleteRowCommand) Undo(e *Engine) {
	if c.saved == nil {
		e.restore(c.state)
		return
	}
	row := &Row{ID: c.saved.ID, Cells: append([]Cell(nil), c.saved.Cells...)}

	e.cursor.Deactivate()
	at := e.store.InsertRow(c.at, row)
	e.cursor.Reclamp()

	for col := 0; col < e.store.ColumnCount(); col++ {
		if !e.ReadOnly(at, col) {
			e.hooks.AfterChange(e, at, col)
		}
	}
	e.restore(c.state)
}

func (c *deleteRowCommand) Touched(e *Engine) Coord { return e.cursor.Coord() }
