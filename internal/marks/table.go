// internal/marks/table.go
// Package marks holds the raw marks table, its loaders, and the subject
// column inference that turns raw cells into numeric marks.
package marks

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInputNotFound is returned when the source path does not resolve to a readable file.
	ErrInputNotFound = errors.New("input not found")
	// ErrMalformedTable is returned when the input cannot be read as a rectangular table.
	ErrMalformedTable = errors.New("malformed table")
	// ErrUnsupportedFormat is returned for spreadsheet formats excelize cannot open.
	ErrUnsupportedFormat = errors.New("unsupported input format")
)

// Table is a rectangular table of raw cells with named columns.
type Table struct {
	Columns []string
	Rows    [][]string

	index       map[string]int
	numeric     map[string][]Value
	unparseable map[string]int
}

// NewTable validates the header and pads short rows. Rows wider than the
// header, blank header names, and duplicate header names are malformed.
func NewTable(columns []string, rows [][]string) (*Table, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrMalformedTable)
	}

	t := &Table{
		Columns:     make([]string, len(columns)),
		Rows:        make([][]string, 0, len(rows)),
		index:       make(map[string]int, len(columns)),
		numeric:     make(map[string][]Value),
		unparseable: make(map[string]int),
	}

	for i, c := range columns {
		name := strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))
		if name == "" {
			return nil, fmt.Errorf("%w: column %d has no name", ErrMalformedTable, i+1)
		}
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrMalformedTable, name)
		}
		t.Columns[i] = name
		t.index[name] = i
	}

	for i, row := range rows {
		if blankRow(row) {
			continue
		}
		if len(row) > len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d cells, header has %d", ErrMalformedTable, i+2, len(row), len(columns))
		}
		padded := make([]string, len(columns))
		copy(padded, row)
		t.Rows = append(t.Rows, padded)
	}

	return t, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// HasColumn reports whether a column with exactly this name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Lookup resolves a configured column name against the table. An exact
// match wins; otherwise the first column equal under case folding is used.
func (t *Table) Lookup(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	if _, ok := t.index[name]; ok {
		return name, true
	}
	for _, c := range t.Columns {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}

// Cell returns the trimmed raw cell, or "" for an unknown column.
func (t *Table) Cell(row int, column string) string {
	i, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][i])
}

// Values returns the numeric form of a column. The column must have been
// coerced by InferSubjects or BuildRecords.
func (t *Table) Values(column string) ([]Value, bool) {
	v, ok := t.numeric[column]
	return v, ok
}

// Unparseable returns how many non-blank cells of a coerced column failed
// numeric parsing.
func (t *Table) Unparseable(column string) int {
	return t.unparseable[column]
}

// coerce converts a column to numeric form once. Later calls are no-ops.
func (t *Table) coerce(column string) {
	if _, done := t.numeric[column]; done {
		return
	}
	i, ok := t.index[column]
	if !ok {
		return
	}
	values := make([]Value, len(t.Rows))
	bad := 0
	for r, row := range t.Rows {
		v, ok := ParseValue(row[i])
		if !ok {
			bad++
		}
		values[r] = v
	}
	t.numeric[column] = values
	t.unparseable[column] = bad
}
