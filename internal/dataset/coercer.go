package dataset

import (
	"strconv"
	"strings"

	"marketlens/domain/dataset"
)

// DefaultNATokens are the cell texts read as missing, matching the usual
// spreadsheet/CSV conventions.
var DefaultNATokens = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// TypeCoercer infers a kind for each column and converts raw cells to values
type TypeCoercer struct {
	config CoercionConfig
	na     map[string]struct{}
}

// CoercionConfig defines the coercion rules
type CoercionConfig struct {
	NATokens  []string `json:"na_tokens" yaml:"na_tokens"`
	TrimCells bool     `json:"trim_cells" yaml:"trim_cells"`
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NATokens:  DefaultNATokens,
		TrimCells: true,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	na := make(map[string]struct{}, len(config.NATokens))
	for _, tok := range config.NATokens {
		na[tok] = struct{}{}
	}
	return &TypeCoercer{config: config, na: na}
}

// TypeAnalysis counts how many non-missing cells of a column parse as each kind.
type TypeAnalysis struct {
	TotalCount   int                `json:"total_count"`
	MissingCount int                `json:"missing_count"`
	BooleanCount int                `json:"boolean_count"`
	IntegerCount int                `json:"integer_count"`
	FloatCount   int                `json:"float_count"`
	Recommended  dataset.ColumnKind `json:"recommended_kind"`
}

// IsNA reports whether a cell reads as missing.
func (c *TypeCoercer) IsNA(cell string) bool {
	_, ok := c.na[c.clean(cell)]
	return ok
}

func (c *TypeCoercer) clean(cell string) string {
	if c.config.TrimCells {
		return strings.TrimSpace(cell)
	}
	return cell
}

// AnalyzeTypeDistribution tallies parseable kinds and recommends one.
func (c *TypeCoercer) AnalyzeTypeDistribution(cells []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(cells)}
	for _, raw := range cells {
		cell := c.clean(raw)
		if c.IsNA(cell) {
			analysis.MissingCount++
			continue
		}
		if _, ok := parseBool(cell); ok {
			analysis.BooleanCount++
		}
		if _, err := strconv.ParseInt(cell, 10, 64); err == nil {
			analysis.IntegerCount++
		}
		if _, err := strconv.ParseFloat(cell, 64); err == nil {
			analysis.FloatCount++
		}
	}
	analysis.Recommended = determineRecommendedKind(analysis)
	return analysis
}

// determineRecommendedKind applies the inference rules. Booleans and integers
// need every cell present; a single gap demotes an integer column to float and
// a boolean column to string.
func determineRecommendedKind(a TypeAnalysis) dataset.ColumnKind {
	valid := a.TotalCount - a.MissingCount
	switch {
	case valid == 0:
		return dataset.KindString
	case a.MissingCount == 0 && a.BooleanCount == valid:
		return dataset.KindBoolean
	case a.MissingCount == 0 && a.IntegerCount == valid:
		return dataset.KindInteger
	case a.FloatCount == valid:
		return dataset.KindFloat
	}
	return dataset.KindString
}

// CoerceColumn infers the column kind and converts every cell.
func (c *TypeCoercer) CoerceColumn(name string, cells []string) *dataset.Column {
	kind := c.AnalyzeTypeDistribution(cells).Recommended
	values := make([]dataset.Value, len(cells))
	for i, raw := range cells {
		values[i] = c.CoerceValue(kind, raw)
	}
	return &dataset.Column{Name: name, Kind: kind, Values: values}
}

// CoerceValue converts one cell under an already-inferred column kind.
func (c *TypeCoercer) CoerceValue(kind dataset.ColumnKind, raw string) dataset.Value {
	cell := c.clean(raw)
	if c.IsNA(cell) {
		return dataset.NewMissingValue()
	}
	switch kind {
	case dataset.KindBoolean:
		if b, ok := parseBool(cell); ok {
			return dataset.NewBooleanValue(b, cell)
		}
	case dataset.KindInteger, dataset.KindFloat:
		if f, err := strconv.ParseFloat(cell, 64); err == nil {
			return dataset.NewNumericValue(f, cell)
		}
	}
	return dataset.NewStringValue(cell)
}

func parseBool(s string) (bool, bool) {
	switch s {
	case "True", "TRUE", "true":
		return true, true
	case "False", "FALSE", "false":
		return false, true
	}
	return false, false
}
