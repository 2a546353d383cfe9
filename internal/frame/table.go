// Package frame holds a minimal in-memory CSV table: parse, project numeric
// feature columns, set result columns by row position, and write back.
package frame

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Table is a header plus string cells. Rows keep file order.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Read parses CSV with a header row. A leading byte order mark is dropped and
// every record must have as many fields as the header.
func Read(r io.Reader) (*Table, error) {
	dec := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	cr := csv.NewReader(dec)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, malformed("empty CSV: no header row")
	}
	if err != nil {
		return nil, malformed("invalid CSV header: %v", err)
	}
	seen := make(map[string]struct{}, len(header))
	for _, h := range header {
		if _, dup := seen[h]; dup {
			return nil, malformed("duplicate column %q", h)
		}
		seen[h] = struct{}{}
	}
	cr.FieldsPerRecord = len(header)
	t := &Table{Columns: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformed("invalid CSV: %v", err)
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// ReadFile parses the CSV file at path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of column name or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Require fails with every column of cols absent from the table, in the
// order given.
func (t *Table) Require(cols []string) error {
	var missing []string
	for _, c := range cols {
		if t.Index(c) < 0 {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return missingColumnsError{cols: missing}
	}
	return nil
}

// Project returns the named columns as a numeric matrix, one row per table
// row in table order. Columns not named are ignored.
func (t *Table) Project(cols []string) ([][]float64, error) {
	if err := t.Require(cols); err != nil {
		return nil, err
	}
	idx := make([]int, len(cols))
	for i, c := range cols {
		idx[i] = t.Index(c)
	}
	X := make([][]float64, len(t.Rows))
	for r, row := range t.Rows {
		x := make([]float64, len(cols))
		for j, ci := range idx {
			raw := strings.TrimSpace(row[ci])
			if raw == "" {
				return nil, malformed("row %d: column %q is empty", r+1, cols[j])
			}
			v, ok := parseFinite(raw)
			if !ok {
				return nil, malformed("row %d: column %q: %q is not a number", r+1, cols[j], row[ci])
			}
			x[j] = v
		}
		X[r] = x
	}
	return X, nil
}

// parseFinite parses a real number. NaN and infinities are rejected.
func parseFinite(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// SetColumn overwrites column name or appends it. values are aligned with
// Rows by position and must cover every row.
func (t *Table) SetColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return malformed("column %q has %d values for %d rows", name, len(values), len(t.Rows))
	}
	i := t.Index(name)
	if i < 0 {
		t.Columns = append(t.Columns, name)
		for r := range t.Rows {
			t.Rows[r] = append(t.Rows[r], values[r])
		}
		return nil
	}
	for r := range t.Rows {
		t.Rows[r][i] = values[r]
	}
	return nil
}

// Records returns up to n rows keyed by column. Finite numeric cells become
// float64, empty cells nil, anything else (NaN and Inf included) stays a string.
func (t *Table) Records(n int) []map[string]any {
	if n < 0 || n > len(t.Rows) {
		n = len(t.Rows)
	}
	out := make([]map[string]any, 0, n)
	for _, row := range t.Rows[:n] {
		rec := make(map[string]any, len(t.Columns))
		for i, c := range t.Columns {
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				rec[c] = nil
				continue
			}
			if v, ok := parseFinite(cell); ok {
				rec[c] = v
				continue
			}
			rec[c] = row[i]
		}
		out = append(out, rec)
	}
	return out
}

// Write emits the table as CSV with its header.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteFile replaces path with the table contents. The data is written to a
// sibling temp file first and renamed into place.
func (t *Table) WriteFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := t.Write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
