package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/imgajeed76/ivy/internal/util"
)

// FileBackend keeps a sheet in a local file. The format follows the
// extension: .xlsx is a workbook, anything else is CSV with a header row.
type FileBackend struct {
	Path string
}

// NewFileBackend returns a backend for path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{Path: path}
}

func (b *FileBackend) Describe() string {
	return b.Path
}

func (b *FileBackend) isXLSX() bool {
	return strings.EqualFold(filepath.Ext(b.Path), ".xlsx")
}

// Load reads and validates the file.
func (b *FileBackend) Load(_ context.Context) (*Document, error) {
	f, err := os.Open(b.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, util.SheetNotFoundError(b.Path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var doc *Document
	if b.isXLSX() {
		doc, err = ReadXLSX(f)
	} else {
		doc, err = ReadCSV(f)
	}
	if err != nil {
		return nil, util.MalformedSheetError(b.Path, err)
	}
	doc.Name = util.SheetName(b.Path)
	return doc, nil
}

// Save writes doc to a temporary file next to Path and renames it into place,
// so a crash mid-write never leaves a truncated sheet behind.
func (b *FileBackend) Save(_ context.Context, doc *Document) error {
	dir := filepath.Dir(b.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(b.Path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if b.isXLSX() {
		err = WriteXLSX(tmp, doc)
	} else {
		err = WriteCSV(tmp, doc)
	}
	if err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, b.Path)
}

// ReadCSV parses CSV with a header row. Bytes that are not valid UTF-8 are
// read as Latin-1.
func ReadCSV(r io.Reader) (*Document, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, util.ErrEmptySheet
	}

	for _, rec := range records {
		for i := range rec {
			rec[i] = util.ToValidUTF8(rec[i])
		}
	}

	doc := NewDocument("", records[0], records[1:])
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// WriteCSV writes the header and rows.
func WriteCSV(w io.Writer, doc *Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(doc.Headers()); err != nil {
		return err
	}
	if err := cw.WriteAll(doc.Rows); err != nil {
		return err
	}
	return cw.Error()
}
