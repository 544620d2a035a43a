package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"marketlens/internal"

	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	format   Format
	config   ReaderConfig
	logger   *internal.Logger
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported file type: %q", filepath.Ext(path))
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string, config ReaderConfig, logger *internal.Logger) *DataReader {
	format, _ := FormatFromPath(filePath)
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{filePath: filePath, format: format, config: config, logger: logger}
}

// ReadData reads the file into headers and raw rows
func (r *DataReader) ReadData() (*RawData, error) {
	if r.format == "" {
		return nil, fmt.Errorf("unsupported file type: %q", filepath.Ext(r.filePath))
	}
	r.logger.Debug("[DataReader] Starting to read %s file: %s", r.format, r.filePath)

	file, err := os.Open(r.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(string(r.format)), r.filePath)
		}
		return nil, fmt.Errorf("failed to open %s file: %w", r.format, err)
	}
	defer file.Close()

	return ReadFrom(file, r.format, r.config, r.logger)
}

// ReadFrom reads tabular data of the given format from any reader, such as an
// HTTP upload.
func ReadFrom(src io.Reader, format Format, config ReaderConfig, logger *internal.Logger) (*RawData, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	start := time.Now()

	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatCSV:
		rows, err = readCSVRows(src)
	case FormatXLSX:
		rows, err = readExcelRows(src, config.Sheet)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", format)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("[DataReader] %s read in %.2fms (%d rows)",
		strings.ToUpper(string(format)), float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("%s file must have at least a header row and one data row", strings.ToUpper(string(format)))
	}
	return processRows(rows, config.MaxRows), nil
}

// readCSVRows reads every record; rows may have differing lengths.
func readCSVRows(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], utf8BOM)
	}
	return rows, nil
}

// readExcelRows reads one worksheet, the first one when sheet is empty.
func readExcelRows(src io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("Excel file has no worksheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// processRows trims headers and cells and drops blank rows
func processRows(rows [][]string, maxRows int) *RawData {
	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if maxRows > 0 && len(data) >= maxRows {
			break
		}
		cells := make([]string, len(headers))
		blank := true
		for j, cell := range row {
			if j < len(headers) {
				cells[j] = strings.TrimSpace(cell)
				if cells[j] != "" {
					blank = false
				}
			}
		}
		if !blank {
			data = append(data, cells)
		}
	}
	return &RawData{Headers: headers, Rows: data}
}
