package dataset

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"marketlens/adapters/excel"
	"marketlens/domain/dataset"
	"marketlens/internal"
	"marketlens/internal/errors"
)

// UploadConfig limits what the HTTP layer accepts as a dataset upload.
type UploadConfig struct {
	MaxFileSize  int64    `json:"max_file_size" yaml:"max_file_size"`
	AllowedTypes []string `json:"allowed_types" yaml:"allowed_types"`
}

// DefaultUploadConfig returns sensible defaults
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		MaxFileSize: 50 * 1024 * 1024, // 50MB
		AllowedTypes: []string{
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			"text/csv",
			"application/octet-stream",
		},
	}
}

// Loader reads files into typed tables.
type Loader struct {
	reader  excel.ReaderConfig
	coercer *TypeCoercer
	upload  UploadConfig
	logger  *internal.Logger
}

// NewLoader creates a loader
func NewLoader(reader excel.ReaderConfig, coercion CoercionConfig, upload UploadConfig, logger *internal.Logger) *Loader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Loader{
		reader:  reader,
		coercer: NewTypeCoercer(coercion),
		upload:  upload,
		logger:  logger,
	}
}

// LoadFile reads a CSV or XLSX file from disk.
func (l *Loader) LoadFile(path string) (*dataset.Table, error) {
	raw, err := excel.NewDataReader(path, l.reader, l.logger).ReadData()
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	return l.FromRaw(raw)
}

// LoadUpload validates upload metadata and reads the body.
func (l *Loader) LoadUpload(filename, mimeType string, size int64, body io.Reader) (*dataset.Table, error) {
	format, err := l.ValidateUpload(filename, mimeType, size)
	if err != nil {
		return nil, err
	}
	raw, err := excel.ReadFrom(io.LimitReader(body, l.upload.MaxFileSize+1), format, l.reader, l.logger)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	return l.FromRaw(raw)
}

// FromRaw types the raw grid.
func (l *Loader) FromRaw(raw *excel.RawData) (*dataset.Table, error) {
	table, err := NewTableFromRows(raw.Headers, raw.Rows, l.coercer)
	if err != nil {
		return nil, err
	}
	l.logger.Info("[Loader] loaded %d rows x %d columns", table.Len(), len(table.Columns()))
	return table, nil
}

// ValidateUpload checks size, MIME type and extension, returning the format.
func (l *Loader) ValidateUpload(filename, mimeType string, size int64) (excel.Format, error) {
	if filename == "" {
		return "", errors.InvalidInput("no filename provided")
	}
	if l.upload.MaxFileSize > 0 && size > l.upload.MaxFileSize {
		return "", errors.InvalidInput(fmt.Sprintf("file size %d bytes exceeds maximum allowed size %d bytes", size, l.upload.MaxFileSize))
	}
	if mimeType != "" && !l.isAllowedMimeType(mimeType) {
		return "", errors.UnsupportedInput(mimeType)
	}

	format, err := excel.FormatFromPath(filename)
	if err != nil {
		return "", errors.UnsupportedInput(strings.ToLower(filepath.Ext(filename)))
	}
	switch {
	case mimeType == "text/csv" && format != excel.FormatCSV,
		strings.Contains(mimeType, "spreadsheetml") && format != excel.FormatXLSX:
		return "", errors.InvalidInput(fmt.Sprintf("file extension %s does not match MIME type %s", filepath.Ext(filename), mimeType))
	}
	return format, nil
}

// isAllowedMimeType ignores parameters such as "; charset=utf-8".
func (l *Loader) isAllowedMimeType(mimeType string) bool {
	base := strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
	for _, allowed := range l.upload.AllowedTypes {
		if base == allowed {
			return true
		}
	}
	return false
}
