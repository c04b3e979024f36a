package grid

// Cells is the view of the grid handed to hooks. It lets host logic read
// values and write derived ones without depending on the Engine type.
type Cells interface {
	RowCount() int
	ColumnCount() int
	CellValue(row, col int) string
	ReadOnly(row, col int) bool

	// Write stores a value directly: no hooks, no history, no read-only check.
	Write(row, col int, value string)

	// Apply runs the full change pipeline (BeforeChange, store, AfterChange)
	// without recording history. Used to seed defaults into new rows.
	Apply(row, col int, value string)
}

// Hooks are called synchronously by the Engine. Writes made from a hook are
// part of the operation that triggered it and are never undone on their own.
type Hooks interface {
	// BeforeChange may normalise or replace a value before it is stored.
	BeforeChange(c Cells, value string, row, col int) string
	// AfterChange fires once the store holds the final value. It is also
	// replayed when undo restores a value, so derived cells catch up.
	AfterChange(c Cells, row, col int)
	// AfterInsertRow fires after a row was inserted at index row.
	AfterInsertRow(c Cells, row int)
	// AfterAppendRow fires after a row was appended at index row.
	AfterAppendRow(c Cells, row int)
	// AfterDeleteRow fires after the row at index row was removed.
	AfterDeleteRow(c Cells, row int)
}

// NopHooks does nothing and passes values through unchanged.
type NopHooks struct{}

func (NopHooks) BeforeChange(_ Cells, value string, _, _ int) string { return value }
func (NopHooks) AfterChange(Cells, int, int)                         {}
func (NopHooks) AfterInsertRow(Cells, int)                           {}
func (NopHooks) AfterAppendRow(Cells, int)                           {}
func (NopHooks) AfterDeleteRow(Cells, int)                           {}

// HookFuncs adapts plain functions to Hooks. Nil fields are skipped.
type HookFuncs struct {
	Before func(c Cells, value string, row, col int) string
	After  func(c Cells, row, col int)
	Insert func(c Cells, row int)
	Append func(c Cells, row int)
	Delete func(c Cells, row int)
}

func (h HookFuncs) BeforeChange(c Cells, value string, row, col int) string {
	if h.Before == nil {
		return value
	}
	return h.Before(c, value, row, col)
}

func (h HookFuncs) AfterChange(c Cells, row, col int) {
	if h.After != nil {
		h.After(c, row, col)
	}
}

func (h HookFuncs) AfterInsertRow(c Cells, row int) {
	if h.Insert != nil {
		h.Insert(c, row)
	}
}

func (h HookFuncs) AfterAppendRow(c Cells, row int) {
	if h.Append != nil {
		h.Append(c, row)
	}
}

func (h HookFuncs) AfterDeleteRow(c Cells, row int) {
	if h.Delete != nil {
		h.Delete(c, row)
	}
}

// Clipboard is where cut and copy put text and paste takes it from.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// MemoryClipboard keeps the clipboard in process. It is the default when no
// system clipboard is wired in.
type MemoryClipboard struct {
	text string
}

func (m *MemoryClipboard) ReadAll() (string, error) { return m.text, nil }

func (m *MemoryClipboard) WriteAll(text string) error {
	m.text = text
	return nil
}
