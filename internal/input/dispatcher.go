package input

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/imgajeed76/ivy/internal/grid"
)

// DefaultDoubleClick is the longest gap between two presses on the same cell
// that still counts as a double click.
const DefaultDoubleClick = 400 * time.Millisecond

// Mode selects which binding table is active.
type Mode int

const (
	ModeNavigate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "navigate"
}

// Target is the set of grid operations the dispatcher drives. *grid.Engine
// satisfies it.
type Target interface {
	Active() grid.Coord
	RowCount() int
	ColumnCount() int
	CellValue(row, col int) string
	PageSize() int
	Editing() bool

	Navigate(row, col int)
	EditStart() bool
	EditStartSeeded(seed string) bool
	EditStop() bool
	EditCancel() bool
	Cut() bool
	Copy()
	Paste() bool
	Erase() bool
	DuplicateAbove() bool
	InsertRow() bool
	AppendRow() bool
	DeleteRow() bool
	Undo() bool
	Redo() bool
}

// Result describes what a single event did.
type Result struct {
	// Op is the resolved operation, OpNone for unbound keys.
	Op Op
	// Handled is false when the event belongs to the edit surface.
	Handled bool
	// OK is false when the target refused the operation.
	OK bool
}

// Host reports whether Op is left for the embedding program to carry out.
func (r Result) Host() bool {
	return r.Op == OpSave || r.Op == OpQuit
}

type click struct {
	at    grid.Coord
	when  time.Time
	valid bool
}

// Dispatcher routes input for one grid. Two dispatchers never share state.
type Dispatcher struct {
	target      Target
	keymaps     Keymaps
	mode        Mode
	table       *Keymap
	doubleClick time.Duration
	last        click
}

// New creates a dispatcher in Navigate mode.
func New(target Target, keymaps Keymaps) *Dispatcher {
	d := &Dispatcher{
		target:      target,
		keymaps:     keymaps,
		doubleClick: DefaultDoubleClick,
	}
	d.sync()
	return d
}

// SetDoubleClick changes the double click window. Non-positive values restore
// the default.
func (d *Dispatcher) SetDoubleClick(window time.Duration) {
	if window <= 0 {
		window = DefaultDoubleClick
	}
	d.doubleClick = window
}

// Mode returns the current mode.
func (d *Dispatcher) Mode() Mode { return d.mode }

// Keymap returns the binding table of the current mode.
func (d *Dispatcher) Keymap() Keymap { return *d.table }

// HandleKey resolves msg against the active table and runs the bound op. In
// Navigate mode an unbound printable key starts an edit seeded with it.
func (d *Dispatcher) HandleKey(msg tea.KeyMsg) Result {
	defer d.sync()

	op, ok := d.table.Lookup(msg)
	if !ok {
		if d.mode == ModeNavigate {
			if seed, printable := printable(msg); printable {
				return Result{Op: OpEditStart, Handled: true, OK: d.target.EditStartSeeded(seed)}
			}
		}
		return Result{Op: OpNone, Handled: d.mode == ModeNavigate}
	}
	return d.Run(op)
}

// Run carries out op directly, as if its key had been pressed.
func (d *Dispatcher) Run(op Op) Result {
	defer d.sync()

	h, ok := handlers[op]
	if !ok {
		return Result{Op: op, Handled: true, OK: true}
	}
	return Result{Op: op, Handled: true, OK: h(d)}
}

// HandlePointer processes a press on (row, col) at time at. A press on the
// already active cell is ignored unless it completes a double click, which
// starts an edit. Neither navigates to the cell that is already active.
func (d *Dispatcher) HandlePointer(row, col int, at time.Time) Result {
	defer d.sync()

	here := grid.Coord{Row: row, Col: col}
	double := d.last.valid && d.last.at == here && at.Sub(d.last.when) <= d.doubleClick
	if double {
		d.last = click{}
	} else {
		d.last = click{at: here, when: at, valid: true}
	}

	active := d.target.Active()
	if double {
		if active == here {
			if d.target.Editing() {
				return Result{Op: OpEditStart, Handled: true}
			}
		} else {
			d.target.Navigate(row, col)
		}
		return Result{Op: OpEditStart, Handled: true, OK: d.target.EditStart()}
	}
	if active == here {
		return Result{Op: OpNone, Handled: true}
	}
	d.target.Navigate(row, col)
	return Result{Op: OpNone, Handled: true, OK: true}
}

// sync picks the binding table that matches the target's editing state. The
// target can leave Edit mode on its own (focus loss, undo), so this runs
// after every event.
func (d *Dispatcher) sync() {
	if d.target.Editing() {
		d.mode = ModeEdit
		d.table = &d.keymaps.Edit
	} else {
		d.mode = ModeNavigate
		d.table = &d.keymaps.Navigate
	}
}

func printable(msg tea.KeyMsg) (string, bool) {
	if msg.Alt {
		return "", false
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return "", false
		}
		return string(msg.Runes), true
	case tea.KeySpace:
		return " ", true
	}
	return "", false
}

// ═══════════════════════════════════════════════════════════════════════════
// Handlers
// ═══════════════════════════════════════════════════════════════════════════

var handlers = map[Op]func(d *Dispatcher) bool{
	OpNavigateUp:    func(d *Dispatcher) bool { return d.step(-1, 0) },
	OpNavigateDown:  func(d *Dispatcher) bool { return d.step(1, 0) },
	OpNavigateLeft:  func(d *Dispatcher) bool { return d.step(0, -1) },
	OpNavigateRight: func(d *Dispatcher) bool { return d.step(0, 1) },
	OpSkipUp:        func(d *Dispatcher) bool { return d.skip(-1, 0) },
	OpSkipDown:      func(d *Dispatcher) bool { return d.skip(1, 0) },
	OpSkipLeft:      func(d *Dispatcher) bool { return d.skip(0, -1) },
	OpSkipRight:     func(d *Dispatcher) bool { return d.skip(0, 1) },
	OpPageUp:        func(d *Dispatcher) bool { return d.step(-d.target.PageSize(), 0) },
	OpPageDown:      func(d *Dispatcher) bool { return d.step(d.target.PageSize(), 0) },
	OpRowStart: func(d *Dispatcher) bool {
		d.target.Navigate(d.target.Active().Row, 0)
		return true
	},
	OpRowEnd: func(d *Dispatcher) bool {
		d.target.Navigate(d.target.Active().Row, d.target.ColumnCount()-1)
		return true
	},
	OpGridStart: func(d *Dispatcher) bool {
		d.target.Navigate(0, 0)
		return true
	},
	OpGridEnd: func(d *Dispatcher) bool {
		d.target.Navigate(d.target.RowCount()-1, d.target.ColumnCount()-1)
		return true
	},
	OpNextCell: func(d *Dispatcher) bool { return d.wrap(1) },
	OpPrevCell: func(d *Dispatcher) bool { return d.wrap(-1) },

	OpCut: func(d *Dispatcher) bool { return d.target.Cut() },
	OpCopy: func(d *Dispatcher) bool {
		d.target.Copy()
		return true
	},
	OpPaste:          func(d *Dispatcher) bool { return d.target.Paste() },
	OpErase:          func(d *Dispatcher) bool { return d.target.Erase() },
	OpDuplicateAbove: func(d *Dispatcher) bool { return d.target.DuplicateAbove() },

	OpEditStart:  func(d *Dispatcher) bool { return d.target.EditStart() },
	OpEditStop:   func(d *Dispatcher) bool { return d.target.EditStop() },
	OpEditCancel: func(d *Dispatcher) bool { return d.target.EditCancel() },

	OpInsertRow: func(d *Dispatcher) bool { return d.target.InsertRow() },
	OpAppendRow: func(d *Dispatcher) bool { return d.target.AppendRow() },
	OpDeleteRow: func(d *Dispatcher) bool { return d.target.DeleteRow() },

	OpUndo: func(d *Dispatcher) bool { return d.target.Undo() },
	OpRedo: func(d *Dispatcher) bool { return d.target.Redo() },

	// Save commits an open edit so the host saves what the operator sees.
	OpSave: func(d *Dispatcher) bool {
		d.target.EditStop()
		return true
	},
}

// step moves by (dr, dc). Navigation at an edge is a no-op, not a refusal.
func (d *Dispatcher) step(dr, dc int) bool {
	a := d.target.Active()
	d.target.Navigate(a.Row+dr, a.Col+dc)
	return true
}

// wrap moves to the next (dir=1) or previous (dir=-1) cell in reading order,
// crossing row boundaries.
func (d *Dispatcher) wrap(dir int) bool {
	a := d.target.Active()
	cols := d.target.ColumnCount()
	idx := a.Row*cols + a.Col + dir
	last := d.target.RowCount()*cols - 1
	if idx < 0 {
		idx = 0
	}
	if idx > last {
		idx = last
	}
	d.target.Navigate(idx/cols, idx%cols)
	return true
}

// skip moves in direction (dr, dc) to the nearest non-empty cell. Without
// one, it stops at the edge.
func (d *Dispatcher) skip(dr, dc int) bool {
	a := d.target.Active()
	rows, cols := d.target.RowCount(), d.target.ColumnCount()
	r, c := a.Row+dr, a.Col+dc
	for r >= 0 && r < rows && c >= 0 && c < cols {
		if d.target.CellValue(r, c) != "" {
			d.target.Navigate(r, c)
			return true
		}
		r, c = r+dr, c+dc
	}
	d.target.Navigate(r-dr, c-dc)
	return true
}
