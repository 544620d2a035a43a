package dataset

import (
	"strings"
	"testing"

	"marketlens/adapters/excel"
	"marketlens/domain/core"
	"marketlens/domain/dataset"
	"marketlens/internal"
	"marketlens/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTable(t *testing.T, header []string, rows ...[]string) *dataset.Table {
	t.Helper()
	table, err := NewTableFromRows(header, rows, nil)
	require.NoError(t, err)
	return table
}

func TestAnalyzeTypeDistribution(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	tests := []struct {
		name  string
		cells []string
		want  dataset.ColumnKind
	}{
		{"booleans", []string{"True", "false", "TRUE"}, dataset.KindBoolean},
		{"boolean with gap", []string{"True", "", "False"}, dataset.KindString},
		{"integers", []string{"1", "0", "-3"}, dataset.KindInteger},
		{"integer with gap", []string{"1", "NA", "3"}, dataset.KindFloat},
		{"floats", []string{"1.5", "2", "n/a"}, dataset.KindFloat},
		{"text", []string{"199", "call us"}, dataset.KindString},
		{"all missing", []string{"", "null"}, dataset.KindString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.AnalyzeTypeDistribution(tt.cells).Recommended)
		})
	}
}

func TestCoerceColumn_ValuesKeepRawText(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	col := c.CoerceColumn("price", []string{" 10.50 ", "NaN", "7"})
	assert.Equal(t, dataset.KindFloat, col.Kind)
	assert.Equal(t, "10.50", col.Values[0].Raw)
	f, ok := col.Values[0].Float()
	assert.True(t, ok)
	assert.Equal(t, 10.5, f)
	assert.True(t, col.Values[1].IsMissing)
	assert.Equal(t, 2, col.NonMissing())
}

func TestNormalizeHeaders(t *testing.T) {
	got := NormalizeHeaders([]string{" brand", "", "brand", "brand", "brand.1"})
	assert.Equal(t, []string{"brand", "Unnamed: 1", "brand.1", "brand.2", "brand.1.1"}, got)
}

func TestNewTableFromRows_PadsShortRows(t *testing.T) {
	table := newTable(t, []string{"brand", "price"}, []string{"A"}, []string{"B", "5", "extra"})

	assert.Equal(t, 2, table.Len())
	col, err := table.Column("price")
	require.NoError(t, err)
	assert.True(t, col.Values[0].IsMissing)
	assert.Equal(t, "5", col.Values[1].Raw)
}

func TestNewTableFromRows_Empty(t *testing.T) {
	_, err := NewTableFromRows([]string{"brand"}, nil, nil)
	assert.ErrorIs(t, err, core.ErrEmptyDataset)
}

func TestValidateAndClean_MissingColumns(t *testing.T) {
	table := newTable(t, []string{"brand"}, []string{"A"})

	_, err := ValidateAndClean(table, CleanOptions{RequiredColumns: []string{"price", "brand", "feature"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrMissingColumns)
	assert.Contains(t, err.Error(), "[feature, price]")
}

func TestValidateAndClean_Strategies(t *testing.T) {
	table := newTable(t, []string{"brand", "price", "feature"},
		[]string{"A", "10", "wifi"},
		[]string{"A", "10", "wifi"},
		[]string{"B", "", "gps"},
		[]string{"C", "30", "nfc"},
	)

	rows, err := ValidateAndClean(table, DefaultCleanOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, rows.Len())

	cols, err := ValidateAndClean(table, CleanOptions{Strategy: DropColumns, RemoveDuplicates: true})
	require.NoError(t, err)
	assert.Equal(t, 3, cols.Len())
	assert.Equal(t, []string{"brand", "feature"}, cols.Columns())

	kept, err := ValidateAndClean(table, CleanOptions{Strategy: Keep})
	require.NoError(t, err)
	assert.Equal(t, 4, kept.Len())

	_, err = ValidateAndClean(table, CleanOptions{Strategy: "fill"})
	assert.ErrorIs(t, err, core.ErrUnknownStrategy)
}

func TestValidateAndClean_EmptyAfterCleaning(t *testing.T) {
	table := newTable(t, []string{"brand", "price"}, []string{"A", ""}, []string{"", "3"})

	_, err := ValidateAndClean(table, DefaultCleanOptions())
	assert.ErrorIs(t, err, core.ErrEmptyDataset)

	_, err = ValidateAndClean(table, CleanOptions{Strategy: DropColumns})
	assert.ErrorIs(t, err, core.ErrEmptyDataset)
}

func TestParseMissingStrategy(t *testing.T) {
	s, err := ParseMissingStrategy("drop_columns")
	require.NoError(t, err)
	assert.Equal(t, DropColumns, s)

	_, err = ParseMissingStrategy("median")
	assert.ErrorIs(t, err, core.ErrUnknownStrategy)
}

func TestSummarize(t *testing.T) {
	table := newTable(t, []string{"brand", "price"}, []string{"A", "1"}, []string{"B", ""})

	s := Summarize(table)
	assert.Equal(t, 2, s.TotalRecords)
	assert.Equal(t, 2, s.TotalColumns)
	assert.Equal(t, map[string]int{"brand": 0, "price": 1}, s.MissingValuesPerColumn)
	assert.Equal(t, dataset.KindString, s.DataTypes["brand"])
	assert.Equal(t, dataset.KindFloat, s.DataTypes["price"])

	assert.Equal(t, map[string]bool{"brand": true, "price": false, "sku": false},
		CheckKinds(table, map[string]dataset.ColumnKind{
			"brand": dataset.KindString,
			"price": dataset.KindInteger,
			"sku":   dataset.KindString,
		}))
}

func TestLoader_ValidateUpload(t *testing.T) {
	l := NewLoader(excel.DefaultReaderConfig(), DefaultCoercionConfig(), UploadConfig{
		MaxFileSize:  100,
		AllowedTypes: []string{"text/csv"},
	}, internal.NewNopLogger())

	format, err := l.ValidateUpload("listings.csv", "text/csv; charset=utf-8", 10)
	require.NoError(t, err)
	assert.Equal(t, excel.FormatCSV, format)

	_, err = l.ValidateUpload("listings.csv", "text/csv", 101)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = l.ValidateUpload("listings.csv", "image/png", 10)
	assert.Equal(t, errors.CodeUnsupportedInput, errors.GetCode(err))

	_, err = l.ValidateUpload("listings.txt", "", 10)
	assert.Equal(t, errors.CodeUnsupportedInput, errors.GetCode(err))
}

func TestLoader_LoadUpload(t *testing.T) {
	l := NewLoader(excel.DefaultReaderConfig(), DefaultCoercionConfig(), DefaultUploadConfig(), internal.NewNopLogger())
	body := "brand,price,feature\nA,10,wifi\nB,20,gps\n"

	table, err := l.LoadUpload("listings.csv", "text/csv", int64(len(body)), strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	col, err := table.Column("price")
	require.NoError(t, err)
	assert.Equal(t, dataset.KindInteger, col.Kind)
}
