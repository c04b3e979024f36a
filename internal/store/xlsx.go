package store

import (
	"fmt"
	"io"

	"github.com/imgajeed76/ivy/internal/util"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// ReadXLSX loads the first worksheet of a workbook. Its first row is the
// header. Trailing blank cells, which the workbook format does not store,
// are restored so every row matches the header.
func ReadXLSX(r io.Reader) (*Document, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, util.ErrEmptySheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, util.ErrEmptySheet
	}

	width := len(rows[0])
	body := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) > width {
			return nil, fmt.Errorf("row has %d values, header has %d: %w", len(row), width, util.ErrNotRectangular)
		}
		padded := make([]string, width)
		copy(padded, row)
		body = append(body, padded)
	}
	return NewDocument(sheets[0], rows[0], body), nil
}

// WriteXLSX writes doc as a single-sheet workbook with a bold, frozen header.
func WriteXLSX(w io.Writer, doc *Document) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := defaultSheet
	if name := doc.Name; name != "" && len(name) <= 31 {
		if err := f.SetSheetName(defaultSheet, name); err == nil {
			sheet = name
		}
	}

	if err := writeRow(f, sheet, 1, doc.Headers()); err != nil {
		return err
	}
	for i, row := range doc.Rows {
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(max(len(doc.Columns), 1), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return err
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return f.SetSheetRow(sheet, cell, &vals)
}
