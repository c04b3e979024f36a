package store

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/imgajeed76/ivy/internal/util"
)

// Format is an export format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// Formats lists every format Export understands.
var Formats = []Format{FormatCSV, FormatTSV, FormatJSON, FormatXLSX}

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(name, ".")))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%q: %w", name, util.ErrUnknownFormat)
}

// FormatFromPath picks a format from the file extension, defaulting to CSV.
func FormatFromPath(path string) Format {
	if f, err := ParseFormat(filepath.Ext(path)); err == nil {
		return f
	}
	return FormatCSV
}

// Export writes doc to w in the given format.
func Export(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, doc)
	case FormatTSV:
		cw := csv.NewWriter(w)
		cw.Comma = '\t'
		if err := cw.Write(doc.Headers()); err != nil {
			return err
		}
		if err := cw.WriteAll(doc.Rows); err != nil {
			return err
		}
		return cw.Error()
	case FormatJSON:
		return writeJSON(w, doc)
	case FormatXLSX:
		return WriteXLSX(w, doc)
	default:
		return fmt.Errorf("%q: %w", format, util.ErrUnknownFormat)
	}
}

// record marshals one row as a JSON object whose keys keep column order.
type record struct {
	keys   []string
	values []string
}

func (r record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSON(w io.Writer, doc *Document) error {
	headers := doc.Headers()
	out := make([]record, len(doc.Rows))
	for i, row := range doc.Rows {
		out[i] = record{keys: headers, values: row}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
