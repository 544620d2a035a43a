package excel

// ReaderConfig holds configuration for reading tabular files
type ReaderConfig struct {
	// Sheet names the worksheet to read from workbooks; empty means the first sheet.
	Sheet string `json:"sheet" yaml:"sheet"`
	// MaxRows caps the number of data rows read; zero means no limit.
	MaxRows int `json:"max_rows" yaml:"max_rows"`
}

// DefaultReaderConfig returns sensible defaults
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{}
}
