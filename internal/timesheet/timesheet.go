// Package timesheet is the host logic for time-tracking sheets. It plugs into
// the grid engine as grid.Hooks: times typed into Began/Ended are
// canonicalised, each row's shift length is derived from them, and the daily
// total is kept on the first row of every run of rows sharing a day.
package timesheet

import (
	"strings"
	"time"

	"github.com/imgajeed76/ivy/internal/grid"
	"github.com/imgajeed76/ivy/internal/store"
)

// Column positions.
const (
	ColDay = iota
	ColBegan
	ColEnded
	ColShift
	ColTotal
	ColDescription

	columnCount
)

var headers = [columnCount]string{"Day", "Began", "Ended", "Shift", "Total", "Description"}

// Columns returns the timesheet column set with its flags.
func Columns() []store.Column {
	cols := make([]store.Column, columnCount)
	for i, name := range headers {
		cols[i] = store.Column{Name: name}
	}
	cols[ColDay].ReadOnly = true
	cols[ColShift].Computed = true
	cols[ColTotal].Computed = true
	return cols
}

// Matches reports whether doc has the timesheet header, compared without case.
func Matches(doc *store.Document) bool {
	if len(doc.Columns) != columnCount {
		return false
	}
	for i, c := range doc.Columns {
		if !strings.EqualFold(strings.TrimSpace(c.Name), headers[i]) {
			return false
		}
	}
	return true
}

// Annotate copies the timesheet column flags onto doc.
func Annotate(doc *store.Document) {
	cols := Columns()
	for i := range doc.Columns {
		if i < len(cols) {
			doc.Columns[i].ReadOnly = cols[i].ReadOnly
			doc.Columns[i].Computed = cols[i].Computed
		}
	}
}

// Template returns a new sheet with the header and a single row dated today.
func Template(now time.Time) *store.Document {
	row := make([]string, columnCount)
	row[ColDay] = dayOf(now)
	return &store.Document{
		Columns: Columns(),
		Rows:    [][]string{row},
	}
}

func dayOf(t time.Time) string {
	return t.Format("02")
}

// Hooks implements grid.Hooks for a timesheet.
type Hooks struct {
	now func() time.Time
}

var _ grid.Hooks = (*Hooks)(nil)

// New returns timesheet hooks using the wall clock.
func New() *Hooks {
	return &Hooks{now: time.Now}
}

// WithClock replaces the clock used to date appended rows.
func (h *Hooks) WithClock(now func() time.Time) *Hooks {
	h.now = now
	return h
}

// BeforeChange canonicalises times typed into Began or Ended. Blank stays blank.
func (h *Hooks) BeforeChange(_ grid.Cells, value string, _, col int) string {
	if !isTimeColumn(col) || strings.TrimSpace(value) == "" {
		return value
	}
	return ToTime(value)
}

// AfterChange recomputes the row's shift and the daily totals when a time
// changed. It also runs on undo, which keeps derived cells in step.
func (h *Hooks) AfterChange(c grid.Cells, row, col int) {
	if !isTimeColumn(col) {
		return
	}
	updateShift(c, row)
	updateTotals(c)
}

// AfterInsertRow dates the new row like the one above it and starts it where
// the previous shift ended.
func (h *Hooks) AfterInsertRow(c grid.Cells, row int) {
	c.Write(row, ColDay, c.CellValue(row-1, ColDay))
	seedBegan(c, row)
	Recalculate(c)
}

// AfterAppendRow dates the new row like the previous last row, or today when
// that one is undated, and starts it where the previous shift ended.
func (h *Hooks) AfterAppendRow(c grid.Cells, row int) {
	day := c.CellValue(row-1, ColDay)
	if day == "" {
		day = dayOf(h.now())
	}
	c.Write(row, ColDay, day)
	seedBegan(c, row)
	Recalculate(c)
}

// AfterDeleteRow recomputes totals; removing a row can split or merge days.
func (h *Hooks) AfterDeleteRow(c grid.Cells, _ int) {
	Recalculate(c)
}

// Recalculate rebuilds every shift and total from Began/Ended. Run it after
// loading a sheet whose derived columns may be stale.
func Recalculate(c grid.Cells) {
	if c.ColumnCount() < columnCount {
		return
	}
	for r := 0; r < c.RowCount(); r++ {
		updateShift(c, r)
	}
	updateTotals(c)
}

func isTimeColumn(col int) bool {
	return col == ColBegan || col == ColEnded
}

func seedBegan(c grid.Cells, row int) {
	if row <= 0 {
		return
	}
	if prev := c.CellValue(row-1, ColEnded); prev != "" {
		c.Apply(row, ColBegan, prev)
	}
}

func updateShift(c grid.Cells, row int) {
	hours, ok := ShiftHours(c.CellValue(row, ColBegan), c.CellValue(row, ColEnded))
	if !ok {
		c.Write(row, ColShift, "")
		return
	}
	c.Write(row, ColShift, formatHours(hours))
}

// updateTotals walks the sheet one day-run at a time. Every run is rewritten
// because a single edit, insert or delete can split or join runs.
func updateTotals(c grid.Cells) {
	for r := 0; r < c.RowCount(); {
		_, hi := dayBounds(c, r)
		writeTotal(c, r, hi)
		r = hi + 1
	}
}

// dayBounds returns the first and last index of the contiguous run of rows
// that share row's day.
func dayBounds(c grid.Cells, row int) (lo, hi int) {
	day := c.CellValue(row, ColDay)
	lo, hi = row, row
	for lo > 0 && c.CellValue(lo-1, ColDay) == day {
		lo--
	}
	for hi < c.RowCount()-1 && c.CellValue(hi+1, ColDay) == day {
		hi++
	}
	return lo, hi
}

// writeTotal puts the summed shifts of rows lo..hi on row lo and clears the
// total on the others.
func writeTotal(c grid.Cells, lo, hi int) {
	var sum float64
	found := false
	for r := lo; r <= hi; r++ {
		hours, ok := ShiftHours(c.CellValue(r, ColBegan), c.CellValue(r, ColEnded))
		if ok {
			sum += hours
			found = true
		}
	}
	total := ""
	if found {
		total = formatHours(sum)
	}
	c.Write(lo, ColTotal, total)
	for r := lo + 1; r <= hi; r++ {
		c.Write(r, ColTotal, "")
	}
}
