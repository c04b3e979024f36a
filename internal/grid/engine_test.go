package grid

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a Hooks implementation that logs every callback.
type recorder struct {
	calls  []string
	before func(c Cells, value string, row, col int) string
	append func(c Cells, row int)
}

func (r *recorder) BeforeChange(c Cells, value string, row, col int) string {
	r.calls = append(r.calls, fmt.Sprintf("before(%d,%d,%q)", row, col, value))
	if r.before != nil {
		return r.before(c, value, row, col)
	}
	return value
}

func (r *recorder) AfterChange(c Cells, row, col int) {
	r.calls = append(r.calls, fmt.Sprintf("after(%d,%d)", row, col))
}

func (r *recorder) AfterInsertRow(c Cells, row int) {
	r.calls = append(r.calls, fmt.Sprintf("insert(%d)", row))
}

func (r *recorder) AfterAppendRow(c Cells, row int) {
	r.calls = append(r.calls, fmt.Sprintf("append(%d)", row))
	if r.append != nil {
		r.append(c, row)
	}
}

func (r *recorder) AfterDeleteRow(c Cells, row int) {
	r.calls = append(r.calls, fmt.Sprintf("delete(%d)", row))
}

func (r *recorder) reset() { r.calls = nil }

func newTestEngine(t *testing.T, rows, cols int, opts Options) *Engine {
	t.Helper()
	values := make([][]string, rows)
	for r := range values {
		values[r] = make([]string, cols)
	}
	return New(NewStore(cols, values), opts)
}

func activeCount(e *Engine) int {
	n := 0
	for r := 0; r < e.RowCount(); r++ {
		for c := 0; c < e.ColumnCount(); c++ {
			if e.Store().Cell(r, c).Has(FlagActive) {
				n++
			}
		}
	}
	return n
}

func assertRectangular(t *testing.T, e *Engine) {
	t.Helper()
	for r := 0; r < e.RowCount(); r++ {
		require.Len(t, e.Store().RowValues(r), e.ColumnCount(), "row %d", r)
	}
}

func TestNew_ActivatesOrigin(t *testing.T) {
	e := newTestEngine(t, 3, 3, Options{})

	assert.Equal(t, Coord{0, 0}, e.Active())
	assert.True(t, e.Store().Cell(0, 0).Has(FlagActive))
	assert.Equal(t, 1, activeCount(e))
	assert.Equal(t, DefaultPageSize, e.PageSize())
	assert.False(t, e.CanUndo())
}

func TestNavigate_Clamps(t *testing.T) {
	e := newTestEngine(t, 10, 3, Options{})

	e.Navigate(-5, 0)
	assert.Equal(t, Coord{0, 0}, e.Active())

	e.Navigate(999, 0)
	assert.Equal(t, Coord{9, 0}, e.Active())

	e.Navigate(4, 42)
	assert.Equal(t, Coord{4, 2}, e.Active())
	assert.Equal(t, 1, activeCount(e))
}

func TestNavigate_DuplicateIsRecordedOnce(t *testing.T) {
	e := newTestEngine(t, 5, 5, Options{})

	e.Navigate(2, 3)
	e.Navigate(2, 3)
	assert.Equal(t, 1, e.UndoDepth())

	// clamped duplicates collapse too
	e.Navigate(99, 99)
	e.Navigate(100, 100)
	assert.Equal(t, 2, e.UndoDepth())
}

func TestNavigate_UndoRestoresCoordinate(t *testing.T) {
	e := newTestEngine(t, 5, 5, Options{})
	e.Navigate(1, 1)
	e.Navigate(3, 4)

	require.True(t, e.Undo())
	assert.Equal(t, Coord{1, 1}, e.Active())
	assert.Equal(t, 1, activeCount(e))

	require.True(t, e.Redo())
	assert.Equal(t, Coord{3, 4}, e.Active())
}

func TestSetCellValue_RoundTrip(t *testing.T) {
	e := newTestEngine(t, 3, 3, Options{})
	require.True(t, e.SetCellValue(1, 2, "first"))
	e.Navigate(2, 0)

	require.True(t, e.SetCellValue(1, 2, "second"))
	assert.Equal(t, "second", e.CellValue(1, 2))

	require.True(t, e.Undo())
	assert.Equal(t, "first", e.CellValue(1, 2))
	assert.Equal(t, Coord{2, 0}, e.Active())
}

func TestSetCellValue_ReadOnly(t *testing.T) {
	readOnly := func(_, col int) bool { return col == 0 }
	e := newTestEngine(t, 2, 3, Options{ReadOnly: readOnly})
	e.Store().Set(0, 0, "locked")

	assert.False(t, e.SetCellValue(0, 0, "changed"))
	assert.Equal(t, "locked", e.CellValue(0, 0))
	assert.Zero(t, e.UndoDepth())

	e.Store().SetFlag(1, 1, FlagComputed, true)
	assert.False(t, e.SetCellValue(1, 1, "x"))
	assert.Zero(t, e.UndoDepth())

	// hook-facing writes bypass the check
	e.Write(0, 0, "derived")
	assert.Equal(t, "derived", e.CellValue(0, 0))
}

func TestSetCellValue_OutOfRange(t *testing.T) {
	e := newTestEngine(t, 2, 2, Options{})
	assert.False(t, e.SetCellValue(5, 0, "x"))
	assert.Zero(t, e.UndoDepth())
}

func TestChangePipeline_Order(t *testing.T) {
	rec := &recorder{before: func(_ Cells, v string, _, _ int) string { return v + "!" }}
	e := newTestEngine(t, 2, 2, Options{Hooks: rec})

	require.True(t, e.SetCellValue(1, 1, "hi"))
	assert.Equal(t, "hi!", e.CellValue(1, 1))
	assert.Equal(t, []string{`before(1,1,"hi")`, "after(1,1)"}, rec.calls)
}

func TestUndo_ReplaysAfterChange(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, 2, 2, Options{Hooks: rec})
	e.SetCellValue(0, 1, "v")
	rec.reset()

	e.Undo()
	assert.Equal(t, []string{"after(0,1)"}, rec.calls)
	assert.Empty(t, e.CellValue(0, 1))
}

func TestUndo_Depth(t *testing.T) {
	e := newTestEngine(t, 4, 4, Options{})
	initial := e.Store().Values()

	const n = 6
	for i := 0; i < n; i++ {
		require.True(t, e.SetCellValue(i%4, i%3, fmt.Sprintf("v%d", i)))
	}
	require.Equal(t, n, e.UndoDepth())

	for i := 0; i < n; i++ {
		require.True(t, e.Undo(), "undo %d", i)
	}
	assert.Equal(t, initial, e.Store().Values())
	assert.Equal(t, Coord{0, 0}, e.Active())
	assert.False(t, e.Undo())
}

func TestRedo_InvalidatedByFreshCommand(t *testing.T) {
	e := newTestEngine(t, 3, 3, Options{})

	e.SetCellValue(0, 0, "A")
	e.Undo()
	e.SetCellValue(1, 1, "B")

	assert.False(t, e.CanRedo())
	assert.False(t, e.Redo())
	assert.Empty(t, e.CellValue(0, 0))
	assert.Equal(t, "B", e.CellValue(1, 1))

	e.Undo()
	require.True(t, e.Redo())
	assert.Equal(t, "B", e.CellValue(1, 1))
	assert.Empty(t, e.CellValue(0, 0))
}

func TestRedo_InvalidatedByDuplicateNavigate(t *testing.T) {
	e := newTestEngine(t, 3, 3, Options{})
	e.Navigate(1, 1)
	e.Navigate(2, 2)
	require.True(t, e.Undo())

	// lands on the state already on top of the undo stack
	e.Navigate(1, 1)
	assert.Equal(t, 1, e.UndoDepth())
	assert.False(t, e.CanRedo())
	assert.False(t, e.Redo())
	assert.Equal(t, Coord{1, 1}, e.Active())
}

func TestNavigate_NoOpAfterEditIsNotRecorded(t *testing.T) {
	e := newTestEngine(t, 3, 3, Options{})
	require.True(t, e.EditStartSeeded("x"))
	require.True(t, e.EditStop())
	require.Equal(t, 1, e.UndoDepth())

	e.Navigate(0, 0)
	assert.Equal(t, 1, e.UndoDepth())

	require.True(t, e.Undo())
	assert.Empty(t, e.CellValue(0, 0))
}

func TestRedo_KeepsRemainingRedoStack(t *testing.T) {
	e := newTestEngine(t, 3, 3, Options{})
	e.SetCellValue(0, 0, "a")
	e.SetCellValue(0, 1, "b")
	e.Undo()
	e.Undo()

	require.True(t, e.Redo())
	assert.Equal(t, 1, e.RedoDepth())
	require.True(t, e.Redo())
	assert.Equal(t, "a", e.CellValue(0, 0))
	assert.Equal(t, "b", e.CellValue(0, 1))
}

func TestHistory_Bounded(t *testing.T) {
	e := newTestEngine(t, 1, 1, Options{UndoLevels: 3})
	for i := 0; i < 10; i++ {
		e.SetCellValue(0, 0, fmt.Sprint(i))
	}
	assert.Equal(t, 3, e.UndoDepth())

	for e.Undo() {
	}
	// the oldest surviving entry captured "6"
	assert.Equal(t, "6", e.CellValue(0, 0))
}

func TestEmptyStacks_NoOp(t *testing.T) {
	e := newTestEngine(t, 2, 2, Options{})
	assert.False(t, e.Undo())
	assert.False(t, e.Redo())
	assert.Equal(t, Coord{0, 0}, e.Active())
}

func TestCutCopyPaste(t *testing.T) {
	clip := &MemoryClipboard{}
	e := newTestEngine(t, 2, 2, Options{Clipboard: clip})
	e.SetCellValue(0, 0, "text")

	e.Copy()
	got, _ := clip.ReadAll()
	assert.Equal(t, "text", got)
	depth := e.UndoDepth()

	require.True(t, e.Cut())
	assert.Empty(t, e.CellValue(0, 0))
	assert.Equal(t, depth+1, e.UndoDepth())

	e.Navigate(1, 1)
	require.True(t, e.Paste())
	assert.Equal(t, "text", e.CellValue(1, 1))

	e.Undo()
	e.Undo()
	e.Undo()
	assert.Equal(t, "text", e.CellValue(0, 0))
}

func TestErase(t *testing.T) {
	e := newTestEngine(t, 2, 2, Options{})
	e.SetCellValue(0, 0, "x")
	require.True(t, e.Erase())
	assert.Empty(t, e.CellValue(0, 0))
	e.Undo()
	assert.Equal(t, "x", e.CellValue(0, 0))
}

func TestDuplicateAbove(t *testing.T) {
	e := newTestEngine(t, 3, 2, Options{})
	e.SetCellValue(0, 1, "above")

	e.Navigate(0, 1)
	assert.False(t, e.DuplicateAbove())

	e.Navigate(1, 1)
	require.True(t, e.DuplicateAbove())
	assert.Equal(t, "above", e.CellValue(1, 1))
}

func TestEdit_SeededCommit(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, 2, 3, Options{Hooks: rec})
	e.Navigate(1, 2)

	require.True(t, e.EditStartSeeded("5"))
	assert.True(t, e.Editing())
	assert.Equal(t, "5", e.EditValue())
	assert.True(t, e.Store().Cell(1, 2).Has(FlagEditing))
	assert.Empty(t, rec.calls)

	require.True(t, e.EditStop())
	assert.False(t, e.Editing())
	assert.False(t, e.Store().Cell(1, 2).Has(FlagEditing))
	assert.Equal(t, "5", e.CellValue(1, 2))
	assert.Contains(t, rec.calls, "after(1,2)")
}

func TestEdit_PrefilledWithCellText(t *testing.T) {
	e := newTestEngine(t, 1, 1, Options{})
	e.SetCellValue(0, 0, "old")

	require.True(t, e.EditStart())
	assert.Equal(t, "old", e.EditValue())
}

func TestEdit_UnchangedCommitLeavesNoTrace(t *testing.T) {
	e := newTestEngine(t, 1, 2, Options{})
	e.SetCellValue(0, 1, "same")
	e.Navigate(0, 1)
	depth := e.UndoDepth()
	e.EditStart()
	e.EditStop()
	assert.Equal(t, depth, e.UndoDepth())
}

func TestEdit_Cancel(t *testing.T) {
	e := newTestEngine(t, 1, 1, Options{})
	e.SetCellValue(0, 0, "keep")
	depth := e.UndoDepth()

	e.EditStart()
	e.SetEditValue("discard")
	require.True(t, e.EditCancel())

	assert.False(t, e.Editing())
	assert.Equal(t, "keep", e.CellValue(0, 0))
	assert.Equal(t, depth, e.UndoDepth())
	assert.False(t, e.EditCancel())
}

func TestEdit_UndoWhileEditingCancels(t *testing.T) {
	e := newTestEngine(t, 1, 1, Options{})
	e.SetCellValue(0, 0, "v")
	e.EditStart()
	e.SetEditValue("w")

	require.True(t, e.Undo())
	assert.False(t, e.Editing())
	assert.Equal(t, "v", e.CellValue(0, 0))
	assert.Equal(t, 1, e.UndoDepth())
}

func TestEdit_OneUndoPerSession(t *testing.T) {
	e := newTestEngine(t, 1, 1, Options{})
	e.EditStart()
	e.SetEditValue("a")
	e.SetEditValue("ab")
	e.SetEditValue("abc")
	e.EditStop()

	require.Equal(t, 1, e.UndoDepth())
	e.Undo()
	assert.Empty(t, e.CellValue(0, 0))

	e.Redo()
	assert.Equal(t, "abc", e.CellValue(0, 0))
}

func TestEdit_RefusedOnReadOnly(t *testing.T) {
	e := newTestEngine(t, 1, 2, Options{ReadOnly: func(_, col int) bool { return col == 0 }})
	assert.False(t, e.EditStart())
	assert.False(t, e.EditStartSeeded("x"))
	assert.False(t, e.Editing())
	assert.Zero(t, e.UndoDepth())
}

func TestEdit_NewEditCommitsPrevious(t *testing.T) {
	e := newTestEngine(t, 1, 2, Options{})
	e.EditStartSeeded("first")
	e.Navigate(0, 1)
	assert.Equal(t, "first", e.CellValue(0, 0))
	assert.False(t, e.Editing())

	e.EditStartSeeded("second")
	e.EditStart()
	assert.Equal(t, "second", e.CellValue(0, 1))
	assert.True(t, e.Editing())
}

func TestInsertRow(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, 2, 3, Options{Hooks: rec})
	e.Store().MarkColumn(0, FlagReadOnly)
	e.SetCellValue(0, 1, "a")
	e.SetCellValue(1, 1, "b")
	rec.reset()

	require.True(t, e.InsertRow())
	require.Equal(t, 3, e.RowCount())
	assert.Equal(t, []string{"", "", ""}, e.Store().RowValues(1))
	assert.True(t, e.Store().Cell(1, 0).Has(FlagReadOnly))
	assert.False(t, e.Store().Cell(1, 0).Has(FlagActive))
	assert.Equal(t, "b", e.CellValue(2, 1))
	assert.Equal(t, Coord{0, 0}, e.Active())
	assert.Equal(t, []string{"insert(1)"}, rec.calls)
	assertRectangular(t, e)

	require.True(t, e.Undo())
	assert.Equal(t, 2, e.RowCount())
	assert.Equal(t, "b", e.CellValue(1, 1))
	assert.Equal(t, 1, activeCount(e))
}

func TestInsertRow_IdenticalInsertsStayDistinct(t *testing.T) {
	e := newTestEngine(t, 1, 2, Options{})
	e.InsertRow()
	e.InsertRow()
	assert.Equal(t, 3, e.RowCount())
	assert.Equal(t, 2, e.UndoDepth())

	e.Undo()
	e.Undo()
	assert.Equal(t, 1, e.RowCount())

	e.Redo()
	e.Redo()
	assert.Equal(t, 3, e.RowCount())
}

func TestAppendRow_ScenarioWithDelete(t *testing.T) {
	rec := &recorder{}
	rec.append = func(c Cells, row int) { c.Apply(row, 1, "seed") }
	readOnly := func(_, col int) bool { return col == 0 || col == 3 || col == 4 }
	e := newTestEngine(t, 1, 5, Options{Hooks: rec, ReadOnly: readOnly})

	require.True(t, e.AppendRow())
	assert.Equal(t, 2, e.RowCount())
	assert.Equal(t, "seed", e.CellValue(1, 1))
	assert.Equal(t, []string{"append(1)", `before(1,1,"seed")`, "after(1,1)"}, rec.calls)

	e.Navigate(0, 0)
	require.True(t, e.DeleteRow())
	assert.Equal(t, 1, e.RowCount())

	assert.False(t, e.DeleteRow())
	assert.Equal(t, 1, e.RowCount())
	assert.Equal(t, 1, activeCount(e))
	assertRectangular(t, e)
}

func TestAppendRow_UndoRemovesSeededRow(t *testing.T) {
	rec := &recorder{append: func(c Cells, row int) { c.Apply(row, 1, "seed") }}
	e := newTestEngine(t, 1, 3, Options{Hooks: rec})

	e.AppendRow()
	e.Undo()
	assert.Equal(t, 1, e.RowCount())
	assert.True(t, e.CanRedo())
	assert.Empty(t, e.CellValue(0, 1))
}

func TestDeleteRow_UndoReinsertsAtSavedIndex(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, 4, 2, Options{Hooks: rec})
	for r := 0; r < 4; r++ {
		e.Store().Set(r, 0, fmt.Sprintf("r%d", r))
	}
	e.Store().SetFlag(2, 1, FlagComputed, true)
	e.Navigate(2, 0)
	rec.reset()

	require.True(t, e.DeleteRow())
	assert.Equal(t, []string{"r0", "r1", "r3"}, []string{e.CellValue(0, 0), e.CellValue(1, 0), e.CellValue(2, 0)})
	assert.Equal(t, []string{"delete(2)"}, rec.calls)
	assert.Equal(t, Coord{2, 0}, e.Active())
	rec.reset()

	require.True(t, e.Undo())
	require.Equal(t, 4, e.RowCount())
	assert.Equal(t, "r2", e.CellValue(2, 0))
	assert.Equal(t, "r3", e.CellValue(3, 0))
	assert.True(t, e.Store().Cell(2, 1).Has(FlagComputed))
	assert.Equal(t, Coord{2, 0}, e.Active())
	assert.Equal(t, 1, activeCount(e))
	// column 1 is computed on that row, so only column 0 is replayed
	assert.Equal(t, []string{"after(2,0)"}, rec.calls)

	require.True(t, e.Redo())
	assert.Equal(t, 3, e.RowCount())
	assert.Equal(t, "r3", e.CellValue(2, 0))
}

func TestDeleteRow_LastRowClampsCursor(t *testing.T) {
	e := newTestEngine(t, 3, 2, Options{})
	e.Navigate(2, 1)
	require.True(t, e.DeleteRow())
	assert.Equal(t, Coord{1, 1}, e.Active())
	assert.Equal(t, 1, activeCount(e))
}

func TestStructure_StaysRectangular(t *testing.T) {
	e := newTestEngine(t, 2, 4, Options{})
	ops := []func() bool{e.InsertRow, e.AppendRow, e.DeleteRow, e.AppendRow, e.Undo, e.DeleteRow, e.Redo, e.Undo, e.Undo}
	for i, op := range ops {
		op()
		assertRectangular(t, e)
		require.Equal(t, 1, activeCount(e), "after op %d", i)
	}
}

func TestDirty(t *testing.T) {
	e := newTestEngine(t, 2, 2, Options{})
	assert.False(t, e.Dirty())

	e.Navigate(1, 1)
	assert.False(t, e.Dirty())

	e.SetCellValue(1, 1, "x")
	assert.True(t, e.Dirty())

	e.ResetDirty()
	assert.False(t, e.Dirty())
	e.AppendRow()
	assert.True(t, e.Dirty())
}

func TestEngines_DoNotShareState(t *testing.T) {
	a := newTestEngine(t, 2, 2, Options{})
	b := newTestEngine(t, 2, 2, Options{})

	a.Navigate(1, 1)
	a.SetCellValue(1, 1, "a")
	assert.Equal(t, Coord{0, 0}, b.Active())
	assert.Zero(t, b.UndoDepth())
}
