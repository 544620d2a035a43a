package excel

// Format identifies a supported tabular file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// RawData is a header row plus untyped data rows, as read from a file.
type RawData struct {
	Headers []string   // Column headers
	Rows    [][]string // Data rows, aligned to Headers by position
}
