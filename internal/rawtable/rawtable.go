// Package rawtable holds the untyped tabular shape a platform export
// arrives in: a header list plus string-valued rows. Nothing here parses
// values; coercion happens downstream so that column resolution always sees
// the raw cell text.
package rawtable

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Table is one platform's export, consumed once per upload. Column order is
// preserved in Columns; Rows index cells by the current header names.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// Load reads CSV from r. Uploads arrive with assorted encoding quirks, so
// the reader tolerates UTF-8 and UTF-16 byte-order marks and ragged rows.
// An empty input yields an empty table, not an error.
func Load(r io.Reader) (*Table, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	cr := csv.NewReader(transform.NewReader(r, dec))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, err
	}
	cols := uniqueNames(header)

	t := &Table{Columns: cols}
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		row := make(map[string]string, len(cols))
		for i, c := range cols {
			if i < len(rec) {
				row[c] = strings.TrimSpace(rec[i])
			} else {
				row[c] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// LoadBytes parses an in-memory upload.
func LoadBytes(b []byte) (*Table, error) {
	return Load(bytes.NewReader(b))
}

// LoadFile parses an export on disk.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Len reports the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// HasColumn reports whether name is a current header.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns the cells of one column in row order. Unknown names yield
// a slice of empty strings so callers never branch on presence here.
func (t *Table) Column(name string) []string {
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[name]
	}
	return out
}

// Row returns the cells of row i in current column order.
func (t *Table) Row(i int) []string {
	out := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		out[j] = t.Rows[i][c]
	}
	return out
}

// AnyCellContains reports whether any current header or any cell of row 0
// contains one of the markers. Exports from one platform ship a descriptive
// prose line above the real header; this is the detection half of that fix.
func (t *Table) AnyCellContains(markers []string) bool {
	match := func(s string) bool {
		for _, m := range markers {
			if m != "" && strings.Contains(s, m) {
				return true
			}
		}
		return false
	}
	for _, c := range t.Columns {
		if match(c) {
			return true
		}
	}
	if len(t.Rows) > 0 {
		for _, v := range t.Row(0) {
			if match(v) {
				return true
			}
		}
	}
	return false
}

// uniqueNames trims header cells and disambiguates duplicates or blanks
// with a positional suffix. Rows are keyed by name, so every column needs a
// distinct one or its cells silently overwrite each other.
func uniqueNames(cells []string) []string {
	used := make(map[string]int, len(cells))
	out := make([]string, len(cells))
	for i, v := range cells {
		name := strings.TrimSpace(v)
		if name == "" {
			name = "column_" + strconv.Itoa(i)
		}
		if n, ok := used[name]; ok {
			used[name] = n + 1
			name = name + "_" + strconv.Itoa(n+1)
		} else {
			used[name] = 1
		}
		out[i] = name
	}
	return out
}

// PromoteHeader replaces the header with row 0 and drops that row from the
// data, re-keying every remaining row positionally. Duplicate or blank
// promoted names get a positional suffix so no column disappears.
func (t *Table) PromoteHeader() {
	if len(t.Rows) == 0 {
		return
	}
	newCols := uniqueNames(t.Row(0))

	newRows := make([]map[string]string, 0, len(t.Rows)-1)
	for ri := 1; ri < len(t.Rows); ri++ {
		old := t.Row(ri)
		row := make(map[string]string, len(newCols))
		for i, c := range newCols {
			if i < len(old) {
				row[c] = old[i]
			} else {
				row[c] = ""
			}
		}
		newRows = append(newRows, row)
	}
	t.Columns = newCols
	t.Rows = newRows
}
