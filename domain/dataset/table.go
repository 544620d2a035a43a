package dataset

import (
	"fmt"
	"strings"

	"marketlens/domain/core"
)

// ColumnKind is the inferred storage kind of a whole column.
type ColumnKind string

const (
	KindBoolean ColumnKind = "boolean"
	KindInteger ColumnKind = "integer"
	KindFloat   ColumnKind = "float"
	KindString  ColumnKind = "string"
)

// IsFlag reports whether rows of this kind are counted as present/absent flags
// rather than as categories.
func (k ColumnKind) IsFlag() bool {
	return k == KindBoolean || k == KindInteger
}

// Column is a named, typed sequence of values.
type Column struct {
	Name   string     `json:"name"`
	Kind   ColumnKind `json:"kind"`
	Values []Value    `json:"values"`
}

// NonMissing returns the count of values that are present.
func (c *Column) NonMissing() int {
	n := 0
	for _, v := range c.Values {
		if !v.IsMissing {
			n++
		}
	}
	return n
}

// Table is an immutable rectangular dataset. Operations that change shape return
// a new Table.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// NewTable validates that all columns have the same length and unique names.
func NewTable(columns []*Column) (*Table, error) {
	t := &Table{
		columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if _, dup := t.index[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		t.index[col.Name] = i
		if i == 0 {
			t.rows = len(col.Values)
		} else if len(col.Values) != t.rows {
			return nil, fmt.Errorf("column %q has %d values, expected %d", col.Name, len(col.Values), t.rows)
		}
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.rows
}

// Columns returns column names in table order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// HasColumn reports whether name is a column of the table.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column looks up a column by exact name.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, core.NewColumnNotFoundError(name)
	}
	return t.columns[i], nil
}

// Row returns the values of row i in column order.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.columns))
	for c, col := range t.columns {
		row[c] = col.Values[i]
	}
	return row
}

// RowKey encodes row i so that equal rows produce equal keys.
func (t *Table) RowKey(i int) string {
	parts := make([]string, len(t.columns))
	for c, col := range t.columns {
		v := col.Values[i]
		if v.IsMissing {
			parts[c] = "\x00"
		} else {
			parts[c] = v.Raw
		}
	}
	return strings.Join(parts, "\x1f")
}

// SelectRows returns a table holding the given rows, in the given order.
func (t *Table) SelectRows(rows []int) *Table {
	cols := make([]*Column, len(t.columns))
	for c, col := range t.columns {
		values := make([]Value, len(rows))
		for i, r := range rows {
			values[i] = col.Values[r]
		}
		cols[c] = &Column{Name: col.Name, Kind: col.Kind, Values: values}
	}
	out, _ := NewTable(cols)
	if len(cols) == 0 {
		out.rows = len(rows)
	}
	return out
}

// SelectColumns returns a table holding only the named columns.
func (t *Table) SelectColumns(names []string) (*Table, error) {
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	out, err := NewTable(cols)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		out.rows = t.rows
	}
	return out, nil
}

// Fingerprint hashes the table content independent of row order.
func (t *Table) Fingerprint() core.DatasetHash {
	keys := make([]string, t.rows)
	for i := range keys {
		keys[i] = t.RowKey(i)
	}
	return core.ComputeDatasetHash(t.Columns(), keys)
}
