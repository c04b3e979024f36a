package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_PadsAndCuts(t *testing.T) {
	s := NewStore(3, [][]string{{"a"}, {"b", "c", "d", "e"}})

	require.Equal(t, 2, s.RowCount())
	assert.Equal(t, []string{"a", "", ""}, s.RowValues(0))
	assert.Equal(t, []string{"b", "c", "d"}, s.RowValues(1))
	assert.NotEqual(t, s.RowID(0), s.RowID(1))
}

func TestNewStore_NeverEmpty(t *testing.T) {
	s := NewStore(0, nil)
	assert.Equal(t, 1, s.RowCount())
	assert.Equal(t, 1, s.ColumnCount())
}

func TestStore_SetReportsChange(t *testing.T) {
	s := NewStore(2, nil)

	assert.True(t, s.Set(0, 1, "x"))
	assert.True(t, s.Dirty())
	s.ResetDirty()

	assert.False(t, s.Set(0, 1, "x"))
	assert.False(t, s.Dirty())
	assert.False(t, s.Set(4, 4, "x"))
	assert.Empty(t, s.Value(4, 4))
}

func TestStore_CloneRowDropsValuesAndState(t *testing.T) {
	s := NewStore(2, [][]string{{"v", "w"}})
	s.SetFlag(0, 0, FlagReadOnly|FlagActive, true)
	s.SetFlag(0, 1, FlagEditing, true)

	clone := s.CloneRow(0)
	require.Len(t, clone.Cells, 2)
	assert.Equal(t, FlagReadOnly, clone.Cells[0].Flags)
	assert.Zero(t, clone.Cells[1].Flags)
	assert.Empty(t, clone.Cells[0].Value)
	assert.NotEqual(t, s.RowID(0), clone.ID)
}

func TestStore_InsertAndRemove(t *testing.T) {
	s := NewStore(2, [][]string{{"a"}, {"b"}})

	at := s.InsertRow(99, &Row{ID: "x", Cells: []Cell{{Value: "z"}}})
	assert.Equal(t, 2, at)
	assert.Equal(t, []string{"z", ""}, s.RowValues(2))
	assert.Equal(t, 2, s.IndexOf("x"))

	s.SetFlag(0, 0, FlagActive, true)
	removed := s.RemoveRow(0)
	require.NotNil(t, removed)
	assert.False(t, removed.Cells[0].Has(FlagActive))
	assert.Equal(t, 1, s.IndexOf("x"))
	assert.Nil(t, s.RemoveRow(5))
	assert.Equal(t, -1, s.IndexOf(removed.ID))
}

func TestCursor_Clamp(t *testing.T) {
	s := NewStore(3, [][]string{{}, {}})
	c := newCursor(s)

	c.MoveTo(7, -2)
	assert.Equal(t, Coord{1, 0}, c.Coord())
	assert.True(t, s.Cell(1, 0).Has(FlagActive))

	c.MoveTo(0, 2)
	assert.False(t, s.Cell(1, 0).Has(FlagActive))
	assert.True(t, c.Is(0, 2))
}

func TestHistory_DedupAndBound(t *testing.T) {
	h := newHistory(2)
	fp := fingerprint{Result: State{Active: Coord{1, 1}, Target: Coord{1, 1}}}

	assert.True(t, h.push(record{fp: fp}, true))
	assert.False(t, h.push(record{fp: fp}, true))

	fp2 := fp
	fp2.ID = "other"
	assert.True(t, h.push(record{fp: fp2}, true))
	assert.True(t, h.push(record{fp: fingerprint{Result: State{Value: "x"}}}, true))
	assert.Len(t, h.undo, 2)
	assert.Equal(t, "other", h.undo[0].fp.ID)
}

func TestHistory_RedoClearedOnFreshPush(t *testing.T) {
	h := newHistory(10)
	h.pushRedo(record{fp: fingerprint{Result: State{Value: "a"}}})

	h.push(record{fp: fingerprint{Result: State{Value: "b"}}}, false)
	assert.Len(t, h.redo, 1)

	h.push(record{fp: fingerprint{Result: State{Value: "c"}}}, true)
	assert.Empty(t, h.redo)
}

func TestHistory_DiscardedFreshPushStillClearsRedo(t *testing.T) {
	h := newHistory(10)
	fp := fingerprint{Result: State{Value: "a"}}
	h.push(record{fp: fp}, true)
	h.pushRedo(record{fp: fingerprint{Result: State{Value: "b"}}})

	assert.False(t, h.push(record{fp: fp}, true))
	assert.Empty(t, h.redo)
	assert.Len(t, h.undo, 1)
}
