package grid

import (
	"log/slog"
)

// DefaultPageSize is how many rows page up/down move.
const DefaultPageSize = 30

// Options configures an Engine. Zero values fall back to defaults.
type Options struct {
	// ReadOnly marks cells read-only in addition to FlagReadOnly/FlagComputed.
	ReadOnly func(row, col int) bool
	// PageSize is the step for paged navigation.
	PageSize int
	// UndoLevels bounds the undo and redo stacks.
	UndoLevels int
	// Hooks receives change and structure notifications.
	Hooks Hooks
	// Clipboard backs cut, copy and paste.
	Clipboard Clipboard
	// Logger receives debug records for every recorded command.
	Logger *slog.Logger
}

// Engine runs every mutation of a Store as a Command and keeps history.
type Engine struct {
	store    *Store
	cursor   *Cursor
	hist     *history
	hooks    Hooks
	clip     Clipboard
	readOnly func(row, col int) bool
	pageSize int
	log      *slog.Logger

	edit *editCommand // open edit session, nil in navigate mode
}

// New attaches an engine to store and activates (0,0).
func New(store *Store, opts Options) *Engine {
	e := &Engine{
		store:    store,
		cursor:   newCursor(store),
		hist:     newHistory(opts.UndoLevels),
		hooks:    opts.Hooks,
		clip:     opts.Clipboard,
		readOnly: opts.ReadOnly,
		pageSize: opts.PageSize,
		log:      opts.Logger,
	}
	if e.hooks == nil {
		e.hooks = NopHooks{}
	}
	if e.clip == nil {
		e.clip = &MemoryClipboard{}
	}
	if e.pageSize <= 0 {
		e.pageSize = DefaultPageSize
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	e.cursor.MoveTo(0, 0)
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Queries
// ═══════════════════════════════════════════════════════════════════════════

// Store returns the underlying store.
func (e *Engine) Store() *Store { return e.store }

// Active returns the active coordinate.
func (e *Engine) Active() Coord { return e.cursor.Coord() }

// RowCount returns the current number of rows.
func (e *Engine) RowCount() int { return e.store.RowCount() }

// ColumnCount returns the number of columns.
func (e *Engine) ColumnCount() int { return e.store.ColumnCount() }

// PageSize returns the configured paging step.
func (e *Engine) PageSize() int { return e.pageSize }

// CellValue returns the stored text at (row, col).
func (e *Engine) CellValue(row, col int) string { return e.store.Value(row, col) }

// ReadOnly reports whether the engine refuses to mutate (row, col).
func (e *Engine) ReadOnly(row, col int) bool {
	cell := e.store.Cell(row, col)
	if cell.Flags&(FlagReadOnly|FlagComputed) != 0 {
		return true
	}
	return e.readOnly != nil && e.readOnly(row, col)
}

// Editing reports whether an edit surface is attached.
func (e *Engine) Editing() bool { return e.edit != nil }

// EditValue returns the current content of the edit surface.
func (e *Engine) EditValue() string {
	if e.edit == nil {
		return ""
	}
	return e.edit.buffer
}

// CanUndo reports whether Undo would do anything.
func (e *Engine) CanUndo() bool { return len(e.hist.undo) > 0 }

// CanRedo reports whether Redo would do anything.
func (e *Engine) CanRedo() bool { return len(e.hist.redo) > 0 }

// UndoDepth returns the number of entries on the undo stack.
func (e *Engine) UndoDepth() int { return len(e.hist.undo) }

// RedoDepth returns the number of entries on the redo stack.
func (e *Engine) RedoDepth() int { return len(e.hist.redo) }

// Dirty reports whether the store changed since the last ResetDirty.
func (e *Engine) Dirty() bool { return e.store.Dirty() }

// ResetDirty clears the store's dirty flag.
func (e *Engine) ResetDirty() { e.store.ResetDirty() }

// ═══════════════════════════════════════════════════════════════════════════
// Navigation
// ═══════════════════════════════════════════════════════════════════════════

// Navigate moves the active cell to (row, col), clamped to the grid. An open
// edit is committed first.
func (e *Engine) Navigate(row, col int) {
	e.EditStop()
	e.execute(&navigateCommand{base: base{state: e.capture(e.cursor.Coord())}, to: Coord{row, col}}, true)
}

// ═══════════════════════════════════════════════════════════════════════════
// Values
// ═══════════════════════════════════════════════════════════════════════════

// SetCellValue writes value to (row, col) through the change pipeline as an
// undoable operation. It returns false for read-only or missing cells.
func (e *Engine) SetCellValue(row, col int, value string) bool {
	if !e.store.InBounds(row, col) {
		return false
	}
	e.EditStop()
	target := Coord{row, col}
	return e.execute(&updateCommand{base: base{state: e.capture(target)}, target: target, value: value}, true)
}

// Erase clears the active cell.
func (e *Engine) Erase() bool {
	a := e.cursor.Coord()
	return e.SetCellValue(a.Row, a.Col, "")
}

// Copy puts the active cell's text on the clipboard. It is not a mutation and
// never enters history.
func (e *Engine) Copy() {
	e.copyCell(e.cursor.Coord())
}

// Cut copies the active cell, then erases it, as one undoable step.
func (e *Engine) Cut() bool {
	e.EditStop()
	target := e.cursor.Coord()
	return e.execute(&cutCommand{base: base{state: e.capture(target)}, target: target}, true)
}

// Paste replaces the active cell with the clipboard text.
func (e *Engine) Paste() bool {
	text, err := e.clip.ReadAll()
	if err != nil {
		e.log.Warn("clipboard read failed", "error", err)
		return false
	}
	a := e.cursor.Coord()
	return e.SetCellValue(a.Row, a.Col, text)
}

// DuplicateAbove copies the value of the cell above into the active cell.
func (e *Engine) DuplicateAbove() bool {
	a := e.cursor.Coord()
	if a.Row == 0 {
		return false
	}
	return e.SetCellValue(a.Row, a.Col, e.store.Value(a.Row-1, a.Col))
}

// ═══════════════════════════════════════════════════════════════════════════
// Edit sessions
// ═══════════════════════════════════════════════════════════════════════════

// EditStart attaches the edit surface to the active cell, pre-filled with the
// cell's text. It returns false on read-only cells.
func (e *Engine) EditStart() bool {
	return e.editStart("", false)
}

// EditStartSeeded attaches the edit surface with seed as its content instead
// of the cell's text ("type to overwrite").
func (e *Engine) EditStartSeeded(seed string) bool {
	return e.editStart(seed, true)
}

func (e *Engine) editStart(seed string, seeded bool) bool {
	e.EditStop()
	target := e.cursor.Coord()
	if e.ReadOnly(target.Row, target.Col) {
		return false
	}
	cmd := &editCommand{base: base{state: e.capture(target)}, target: target}
	cmd.attach(e, seed, seeded)
	e.edit = cmd
	return true
}

// SetEditValue replaces the edit surface's content. It is a no-op when no
// edit is open.
func (e *Engine) SetEditValue(value string) {
	if e.edit != nil {
		e.edit.buffer = value
	}
}

// EditStop commits the open edit. A changed value runs through the change
// pipeline and becomes one undo entry; an unchanged value leaves no trace.
// It returns false when no edit was open.
func (e *Engine) EditStop() bool {
	cmd := e.edit
	if cmd == nil {
		return false
	}
	e.edit = nil
	cmd.detach(e)
	if cmd.buffer == cmd.state.Value {
		return true
	}
	cmd.value = cmd.buffer
	e.execute(cmd, true)
	return true
}

// EditCancel closes the open edit and reverts to the captured pre-edit state.
func (e *Engine) EditCancel() bool {
	cmd := e.edit
	if cmd == nil {
		return false
	}
	e.edit = nil
	cmd.detach(e)
	cmd.Undo(e)
	return true
}

// ═══════════════════════════════════════════════════════════════════════════
// Structure
// ═══════════════════════════════════════════════════════════════════════════

// InsertRow inserts a structural copy of the active row directly below it.
func (e *Engine) InsertRow() bool {
	e.EditStop()
	return e.execute(&insertRowCommand{base: base{state: e.capture(e.cursor.Coord())}}, true)
}

// AppendRow appends a structural copy of the last row.
func (e *Engine) AppendRow() bool {
	e.EditStop()
	return e.execute(&insertRowCommand{base: base{state: e.capture(e.cursor.Coord())}, appendRow: true}, true)
}

// DeleteRow removes the active row. The last remaining row cannot be deleted.
func (e *Engine) DeleteRow() bool {
	e.EditStop()
	return e.execute(&deleteRowCommand{base: base{state: e.capture(e.cursor.Coord())}}, true)
}

// ═══════════════════════════════════════════════════════════════════════════
// History
// ═══════════════════════════════════════════════════════════════════════════

// Undo reverts the most recent recorded command. While editing, it cancels
// the edit instead.
func (e *Engine) Undo() bool {
	if e.EditCancel() {
		return true
	}
	r, ok := e.hist.popUndo()
	if !ok {
		return false
	}
	r.cmd.Undo(e)
	e.hist.pushRedo(r)
	e.log.Debug("undo", "kind", r.cmd.Kind(), "row", r.fp.Result.Target.Row, "col", r.fp.Result.Target.Col)
	return true
}

// Redo re-executes the most recently undone command.
func (e *Engine) Redo() bool {
	e.EditStop()
	r, ok := e.hist.popRedo()
	if !ok {
		return false
	}
	e.log.Debug("redo", "kind", r.cmd.Kind())
	return e.execute(r.cmd, false)
}

// ClearHistory drops both stacks, e.g. after loading a different sheet.
func (e *Engine) ClearHistory() {
	e.hist.clear()
}

// ═══════════════════════════════════════════════════════════════════════════
// Cells (hook-facing)
// ═══════════════════════════════════════════════════════════════════════════

// Write stores a value without hooks, history or read-only checks.
func (e *Engine) Write(row, col int, value string) {
	e.store.Set(row, col, value)
}

// Apply runs the change pipeline without recording history.
func (e *Engine) Apply(row, col int, value string) {
	if !e.store.InBounds(row, col) {
		return
	}
	e.change(Coord{row, col}, value)
}

// ═══════════════════════════════════════════════════════════════════════════
// Internals
// ═══════════════════════════════════════════════════════════════════════════

// execute runs cmd and records it. fresh is false only for redo, which must
// not wipe the rest of the redo stack.
func (e *Engine) execute(cmd Command, fresh bool) bool {
	if !cmd.Execute(e) {
		return false
	}
	fp := fingerprint{Result: e.capture(cmd.Touched(e))}
	if id, ok := cmd.(identified); ok {
		fp.ID = id.ID()
	}
	if e.hist.push(record{cmd: cmd, fp: fp}, fresh) {
		e.log.Debug("command recorded",
			"kind", cmd.Kind(),
			"row", fp.Result.Target.Row,
			"col", fp.Result.Target.Col,
			"undo_depth", len(e.hist.undo),
		)
	}
	return true
}

// capture snapshots the cursor and the value of target.
func (e *Engine) capture(target Coord) State {
	return State{
		Active: e.cursor.Coord(),
		Target: target,
		Value:  e.store.Value(target.Row, target.Col),
	}
}

// change is the value pipeline: BeforeChange, store write, AfterChange.
func (e *Engine) change(target Coord, value string) {
	final := e.hooks.BeforeChange(e, value, target.Row, target.Col)
	e.store.Set(target.Row, target.Col, final)
	e.hooks.AfterChange(e, target.Row, target.Col)
}

// restore is the default undo: put the captured cell text back and return
// the cursor to the captured coordinate. AfterChange is replayed when the
// value actually changes so derived cells are regenerated.
func (e *Engine) restore(s State) {
	e.cursor.Deactivate()
	t := s.Target
	if e.store.InBounds(t.Row, t.Col) && !e.ReadOnly(t.Row, t.Col) {
		if e.store.Set(t.Row, t.Col, s.Value) {
			e.hooks.AfterChange(e, t.Row, t.Col)
		}
	}
	e.cursor.SetRow(s.Active.Row)
	e.cursor.SetCol(s.Active.Col)
	e.cursor.Activate()
}

func (e *Engine) copyCell(c Coord) {
	if err := e.clip.WriteAll(e.store.Value(c.Row, c.Col)); err != nil {
		e.log.Warn("clipboard write failed", "error", err)
	}
}
