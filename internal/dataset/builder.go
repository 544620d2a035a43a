// Package dataset turns raw header+row grids into typed tables and applies the
// caller's cleaning policy before analysis.
package dataset

import (
	"fmt"
	"strings"

	"marketlens/domain/core"
	"marketlens/domain/dataset"
)

// NormalizeHeaders trims header names, names blank headers "Unnamed: i" and
// suffixes repeated names with ".1", ".2", ...
func NormalizeHeaders(header []string) []string {
	out := make([]string, len(header))
	taken := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if taken[name] {
			for n := 1; ; n++ {
				candidate := fmt.Sprintf("%s.%d", name, n)
				if !taken[candidate] {
					name = candidate
					break
				}
			}
		}
		taken[name] = true
		out[i] = name
	}
	return out
}

// NewTableFromRows builds a typed table from a header and raw data rows. Short
// rows are padded with missing cells and cells beyond the header are ignored.
func NewTableFromRows(header []string, rows [][]string, coercer *TypeCoercer) (*dataset.Table, error) {
	if len(header) == 0 || len(rows) == 0 {
		return nil, core.NewEmptyDatasetError("loading")
	}
	if coercer == nil {
		coercer = NewTypeCoercer(DefaultCoercionConfig())
	}

	names := NormalizeHeaders(header)
	columns := make([]*dataset.Column, len(names))
	for c, name := range names {
		cells := make([]string, len(rows))
		for r, row := range rows {
			if c < len(row) {
				cells[r] = row[c]
			}
		}
		columns[c] = coercer.CoerceColumn(name, cells)
	}
	return dataset.NewTable(columns)
}
