package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/imgajeed76/ivy/internal/grid"
	"github.com/imgajeed76/ivy/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Document {
	return NewDocument("week", []string{"Day", "Began", "Note"}, [][]string{
		{"01", "09:00 AM", "standup"},
		{"01", "01:00 PM", ""},
		{"02", "08:30 AM", "a, b and \"c\""},
	})
}

func TestReadCSV(t *testing.T) {
	doc, err := ReadCSV(strings.NewReader("a,b\n1,2\n3,\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, doc.Headers())
	assert.Equal(t, [][]string{{"1", "2"}, {"3", ""}}, doc.Rows)
}

func TestReadCSV_Ragged(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b\n1,2,3\n"))
	assert.ErrorIs(t, err, util.ErrNotRectangular)
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, util.ErrEmptySheet)
}

func TestReadCSV_Latin1(t *testing.T) {
	doc, err := ReadCSV(bytes.NewReader([]byte("name\nJos\xe9\n")))
	require.NoError(t, err)
	assert.Equal(t, "José", doc.Rows[0][0])
}

func TestValidate(t *testing.T) {
	assert.NoError(t, sample().Validate())

	d := sample()
	d.Rows[1] = d.Rows[1][:2]
	assert.ErrorIs(t, d.Validate(), util.ErrNotRectangular)

	assert.ErrorIs(t, (&Document{}).Validate(), util.ErrEmptySheet)
}

func TestHash(t *testing.T) {
	a, b := sample(), sample()
	assert.Equal(t, a.Hash(), b.Hash())

	b.Rows[0][2] = "retro"
	assert.NotEqual(t, a.Hash(), b.Hash())

	c := sample()
	c.Columns[0].Name = "Date"
	assert.NotEqual(t, a.Hash(), c.Hash(), "header participates in the hash")
}

func TestToGridCarriesFlags(t *testing.T) {
	d := sample()
	d.MarkReadOnly([]int{0, 7, -1})
	d.Columns[2].Computed = true

	s := ToGrid(d)
	require.Equal(t, 3, s.RowCount())
	require.Equal(t, 3, s.ColumnCount())
	for r := 0; r < s.RowCount(); r++ {
		assert.True(t, s.Cell(r, 0).Has(grid.FlagReadOnly))
		assert.False(t, s.Cell(r, 1).Has(grid.FlagReadOnly))
		assert.True(t, s.Cell(r, 2).Has(grid.FlagComputed))
	}

	s.Set(0, 1, "10:00 AM")
	back := FromGrid(d.Name, d.Columns, s)
	assert.Equal(t, "10:00 AM", back.Rows[0][1])
	assert.Equal(t, "09:00 AM", d.Rows[0][1], "source document is not aliased")
}

func TestFileBackend_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "march.csv")
	b := NewFileBackend(path)
	ctx := context.Background()

	require.NoError(t, b.Save(ctx, sample()))

	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "march", got.Name)
	assert.Equal(t, sample().Headers(), got.Headers())
	assert.Equal(t, sample().Rows, got.Rows)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is cleaned up")
}

func TestFileBackend_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "march.xlsx")
	b := NewFileBackend(path)
	ctx := context.Background()

	require.NoError(t, b.Save(ctx, sample()))

	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sample().Headers(), got.Headers())
	assert.Equal(t, sample().Rows, got.Rows, "trailing blank cells are restored")
}

func TestFileBackend_Missing(t *testing.T) {
	_, err := NewFileBackend(filepath.Join(t.TempDir(), "nope.csv")).Load(context.Background())
	assert.ErrorIs(t, err, util.ErrFileNotFound)
}

func TestFileBackend_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1\n"), 0o644))

	_, err := NewFileBackend(path).Load(context.Background())
	var ivyErr *util.IvyError
	require.ErrorAs(t, err, &ivyErr)
	assert.ErrorIs(t, err, util.ErrNotRectangular)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat(".xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("ods")
	assert.ErrorIs(t, err, util.ErrUnknownFormat)

	assert.Equal(t, FormatTSV, FormatFromPath("out.tsv"))
	assert.Equal(t, FormatCSV, FormatFromPath("out"))
}

func TestExport_JSONKeepsColumnOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sample(), FormatJSON))

	out := buf.String()
	assert.JSONEq(t, `[
		{"Day":"01","Began":"09:00 AM","Note":"standup"},
		{"Day":"01","Began":"01:00 PM","Note":""},
		{"Day":"02","Began":"08:30 AM","Note":"a, b and \"c\""}
	]`, out)
	assert.Less(t, strings.Index(out, `"Day"`), strings.Index(out, `"Began"`))
	assert.Less(t, strings.Index(out, `"Began"`), strings.Index(out, `"Note"`))
}

func TestExport_TSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, NewDocument("", []string{"a", "b"}, [][]string{{"1", "2"}}), FormatTSV))
	assert.Equal(t, "a\tb\n1\t2\n", buf.String())
}

func TestExport_Unknown(t *testing.T) {
	err := Export(&bytes.Buffer{}, sample(), Format("ods"))
	assert.ErrorIs(t, err, util.ErrUnknownFormat)
}

func numbered(n int) *Document {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{strings.Repeat("r", i+1)}
	}
	return NewDocument("", []string{"n"}, rows)
}

func TestDiff_Identical(t *testing.T) {
	assert.Empty(t, Diff(sample(), sample(), 3))
}

func TestDiff_SingleChange(t *testing.T) {
	oldDoc := numbered(10)
	newDoc := numbered(10)
	newDoc.Rows[0][0] = "x"

	hunks := Diff(oldDoc, newDoc, 1)
	require.Len(t, hunks, 1)
	h := hunks[0]
	assert.Equal(t, 1, h.OldStart)
	assert.Equal(t, 3, h.OldCount)
	assert.Equal(t, 1, h.NewStart)
	assert.Equal(t, 3, h.NewCount)

	var adds, dels int
	for _, l := range h.Lines {
		switch l.Type {
		case DiffLineAdd:
			adds++
			assert.Equal(t, "x", l.Content)
		case DiffLineDelete:
			dels++
			assert.Equal(t, "r", l.Content)
		}
	}
	assert.Equal(t, 1, adds)
	assert.Equal(t, 1, dels)
}

func TestDiff_SeparateHunks(t *testing.T) {
	oldDoc := numbered(20)
	newDoc := numbered(20)
	newDoc.Rows[1][0] = "x"
	newDoc.Rows[17][0] = "y"

	hunks := Diff(oldDoc, newDoc, 2)
	require.Len(t, hunks, 2)
	assert.Less(t, hunks[0].OldStart+hunks[0].OldCount, hunks[1].OldStart)
}

func TestDiff_ZeroContext(t *testing.T) {
	oldDoc := numbered(10)
	newDoc := numbered(10)
	newDoc.Rows[4][0] = "x"

	hunks := Diff(oldDoc, newDoc, 0)
	require.Len(t, hunks, 1)
	h := hunks[0]
	assert.Equal(t, 6, h.OldStart)
	assert.Equal(t, 1, h.OldCount)
	assert.Equal(t, 1, h.NewCount)
	for _, l := range h.Lines {
		assert.NotEqual(t, DiffLineContext, l.Type)
	}

	assert.Len(t, Diff(oldDoc, newDoc, -1)[0].Lines, 2+2*DefaultDiffContext)
}

func TestFormatDiff(t *testing.T) {
	oldDoc := NewDocument("", []string{"a", "b"}, [][]string{{"1", "2"}})
	newDoc := NewDocument("", []string{"a", "b"}, [][]string{{"1", "3"}})

	out := FormatDiff("old.csv", "new.csv", Diff(oldDoc, newDoc, 3), true)
	assert.Contains(t, out, "--- a/old.csv\n")
	assert.Contains(t, out, "+++ b/new.csv\n")
	assert.Contains(t, out, "@@ -1,2 +1,2 @@\n")
	assert.Contains(t, out, "-1 | 2\n")
	assert.Contains(t, out, "+1 | 3\n")
	assert.Contains(t, out, " a | b\n")
}
