package excel

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"marketlens/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("listings.CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = FormatFromPath("/tmp/listings.xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = FormatFromPath("listings.pdf")
	assert.Error(t, err)
}

func TestReadFrom_CSV(t *testing.T) {
	src := "\ufeffbrand , price,feature\n Acme ,10.5,\"wifi, gps\"\n,,\nBeta,20\n"

	data, err := ReadFrom(strings.NewReader(src), FormatCSV, DefaultReaderConfig(), internal.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"brand", "price", "feature"}, data.Headers)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, []string{"Acme", "10.5", "wifi, gps"}, data.Rows[0])
	assert.Equal(t, []string{"Beta", "20", ""}, data.Rows[1])
}

func TestReadFrom_MaxRows(t *testing.T) {
	src := "brand\nA\nB\nC\n"

	data, err := ReadFrom(strings.NewReader(src), FormatCSV, ReaderConfig{MaxRows: 2}, internal.NewNopLogger())
	require.NoError(t, err)
	assert.Len(t, data.Rows, 2)
}

func TestReadFrom_HeaderOnly(t *testing.T) {
	_, err := ReadFrom(strings.NewReader("brand,price\n"), FormatCSV, DefaultReaderConfig(), internal.NewNopLogger())
	assert.ErrorContains(t, err, "at least a header row and one data row")
}

func TestDataReader_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.xlsx")
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"brand", "price", "feature"},
		{"Acme", 199.99, "oled|5g"},
		{"Beta", 99, "lcd"},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	data, err := NewDataReader(path, DefaultReaderConfig(), internal.NewNopLogger()).ReadData()
	require.NoError(t, err)

	assert.Equal(t, []string{"brand", "price", "feature"}, data.Headers)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "Acme", data.Rows[0][0])
	assert.Equal(t, "199.99", data.Rows[0][1])
	assert.Equal(t, "lcd", data.Rows[1][2])
}

func TestDataReader_MissingFile(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "nope.csv"), DefaultReaderConfig(), internal.NewNopLogger()).ReadData()
	assert.ErrorContains(t, err, "CSV file not found")
}

func TestDataReader_CSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.csv")
	require.NoError(t, os.WriteFile(path, []byte("brand,price\nA,1\nB,2\n"), 0o644))

	data, err := NewDataReader(path, DefaultReaderConfig(), internal.NewNopLogger()).ReadData()
	require.NoError(t, err)
	assert.Len(t, data.Rows, 2)
}
