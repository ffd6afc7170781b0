// core/frame/frame.go

// Package frame provides a small named-column numeric table. It stands in
// for the feature and score matrices flowing between the extractors and
// the model scorer: a fixed column schema, float64 cells, and row-major
// storage so a whole table can be handed to a predictor at once.
package frame

import (
	"math"

	"github.com/pkg/errors"
)

// Table is a dense float64 matrix with named columns. The column set is
// fixed at construction; rows are appended. The zero value is not usable,
// call New.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]float64
}

// New returns an empty table with the given column schema.
func New(cols []string) *Table {
	t := &Table{
		cols:  append([]string(nil), cols...),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range t.cols {
		t.index[c] = i
	}
	return t
}

// Columns returns the schema in declaration order.
func (t *Table) Columns() []string { return append([]string(nil), t.cols...) }

// Len is the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Width is the number of columns.
func (t *Table) Width() int { return len(t.cols) }

// HasColumn reports whether name is part of the schema.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// AppendRow adds one row from a name→value mapping. Schema keys missing
// from values are zero-filled; keys outside the schema are ignored so
// callers can pass supersets.
func (t *Table) AppendRow(values map[string]float64) {
	row := make([]float64, len(t.cols))
	for name, v := range values {
		if i, ok := t.index[name]; ok {
			row[i] = v
		}
	}
	t.rows = append(t.rows, row)
}

// SetRow replaces row i, zero-filling as AppendRow does. The row must
// already exist (grow with Resize first).
func (t *Table) SetRow(i int, values map[string]float64) error {
	if i < 0 || i >= len(t.rows) {
		return errors.Errorf("frame: row %d out of range (0..%d)", i, len(t.rows)-1)
	}
	row := make([]float64, len(t.cols))
	for name, v := range values {
		if j, ok := t.index[name]; ok {
			row[j] = v
		}
	}
	t.rows[i] = row
	return nil
}

// Resize grows or truncates the table to n rows; new rows are zero-filled.
func (t *Table) Resize(n int) {
	for len(t.rows) < n {
		t.rows = append(t.rows, make([]float64, len(t.cols)))
	}
	t.rows = t.rows[:n]
}

// Row returns the underlying slice for row i. Callers must not mutate it.
func (t *Table) Row(i int) []float64 { return t.rows[i] }

// Cell returns the value at (row, column name); math.NaN if the column
// does not exist.
func (t *Table) Cell(i int, name string) float64 {
	j, ok := t.index[name]
	if !ok {
		return math.NaN()
	}
	return t.rows[i][j]
}

// Column returns a copy of the named column, or an error if absent.
func (t *Table) Column(name string) ([]float64, error) {
	j, ok := t.index[name]
	if !ok {
		return nil, errors.Errorf("frame: no column %q", name)
	}
	out := make([]float64, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[j]
	}
	return out, nil
}

// WithColumns returns a new table sharing t's row data but presenting the
// given column names. Used by the scorer's rename fallback: the data is
// untouched, only the labels change. len(cols) must equal t.Width().
func (t *Table) WithColumns(cols []string) (*Table, error) {
	if len(cols) != len(t.cols) {
		return nil, errors.Errorf("frame: rename wants %d names, table has %d columns", len(cols), len(t.cols))
	}
	nt := &Table{
		cols:  append([]string(nil), cols...),
		index: make(map[string]int, len(cols)),
		rows:  t.rows,
	}
	for i, c := range nt.cols {
		nt.index[c] = i
	}
	return nt, nil
}
