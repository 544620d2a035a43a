package dataset

import (
	"sort"

	"marketlens/domain/core"
	"marketlens/domain/dataset"
)

// MissingStrategy selects how rows or columns with missing values are handled.
type MissingStrategy string

const (
	DropRows    MissingStrategy = "drop_rows"
	DropColumns MissingStrategy = "drop_columns"
	Keep        MissingStrategy = "keep"
)

// ParseMissingStrategy validates a strategy name.
func ParseMissingStrategy(s string) (MissingStrategy, error) {
	switch MissingStrategy(s) {
	case DropRows, DropColumns, Keep:
		return MissingStrategy(s), nil
	}
	return "", core.NewUnknownStrategyError(s)
}

// CleanOptions configures ValidateAndClean.
type CleanOptions struct {
	RequiredColumns  []string        `json:"required_columns" yaml:"required_columns"`
	Strategy         MissingStrategy `json:"strategy" yaml:"strategy"`
	RemoveDuplicates bool            `json:"remove_duplicates" yaml:"remove_duplicates"`
}

// DefaultCleanOptions drops incomplete rows and duplicates.
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{Strategy: DropRows, RemoveDuplicates: true}
}

// MissingColumns lists required columns absent from the table, sorted.
func MissingColumns(table *dataset.Table, required []string) []string {
	var missing []string
	for _, name := range required {
		if !table.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// RemoveDuplicates keeps the first occurrence of every distinct row.
func RemoveDuplicates(table *dataset.Table) *dataset.Table {
	seen := make(map[string]struct{}, table.Len())
	keep := make([]int, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		key := table.RowKey(i)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}
	if len(keep) == table.Len() {
		return table
	}
	return table.SelectRows(keep)
}

// CleanMissing applies strategy to the table.
func CleanMissing(table *dataset.Table, strategy MissingStrategy) (*dataset.Table, error) {
	switch strategy {
	case Keep:
		return table, nil
	case DropRows:
		keep := make([]int, 0, table.Len())
		for i := 0; i < table.Len(); i++ {
			complete := true
			for _, v := range table.Row(i) {
				if v.IsMissing {
					complete = false
					break
				}
			}
			if complete {
				keep = append(keep, i)
			}
		}
		return table.SelectRows(keep), nil
	case DropColumns:
		var names []string
		for _, name := range table.Columns() {
			col, _ := table.Column(name)
			if col.NonMissing() == table.Len() {
				names = append(names, name)
			}
		}
		return table.SelectColumns(names)
	}
	return nil, core.NewUnknownStrategyError(string(strategy))
}

// ValidateAndClean checks required columns, removes duplicates, then handles
// missing values. A table left with no rows or no columns is an error.
func ValidateAndClean(table *dataset.Table, opts CleanOptions) (*dataset.Table, error) {
	if missing := MissingColumns(table, opts.RequiredColumns); len(missing) > 0 {
		return nil, core.NewMissingColumnsError(missing)
	}
	if opts.Strategy == "" {
		opts.Strategy = DropRows
	}

	if opts.RemoveDuplicates {
		table = RemoveDuplicates(table)
	}
	cleaned, err := CleanMissing(table, opts.Strategy)
	if err != nil {
		return nil, err
	}
	if cleaned.Len() == 0 || len(cleaned.Columns()) == 0 {
		return nil, core.NewEmptyDatasetError("cleaning")
	}
	return cleaned, nil
}

// Summary describes a table's shape.
type Summary struct {
	TotalRecords           int                           `json:"total_records"`
	TotalColumns           int                           `json:"total_columns"`
	ColumnNames            []string                      `json:"column_names"`
	MissingValuesPerColumn map[string]int                `json:"missing_values_per_column"`
	DataTypes              map[string]dataset.ColumnKind `json:"data_types"`
}

// Summarize reports row/column counts, missing cells and kinds per column.
func Summarize(table *dataset.Table) Summary {
	names := table.Columns()
	s := Summary{
		TotalRecords:           table.Len(),
		TotalColumns:           len(names),
		ColumnNames:            names,
		MissingValuesPerColumn: make(map[string]int, len(names)),
		DataTypes:              make(map[string]dataset.ColumnKind, len(names)),
	}
	for _, name := range names {
		col, _ := table.Column(name)
		s.MissingValuesPerColumn[name] = table.Len() - col.NonMissing()
		s.DataTypes[name] = col.Kind
	}
	return s
}

// CheckKinds reports, for each expected column, whether it exists with the
// expected kind.
func CheckKinds(table *dataset.Table, expected map[string]dataset.ColumnKind) map[string]bool {
	out := make(map[string]bool, len(expected))
	for name, kind := range expected {
		col, err := table.Column(name)
		out[name] = err == nil && col.Kind == kind
	}
	return out
}
