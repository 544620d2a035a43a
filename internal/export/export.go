// Package export renders an analysis bundle as JSON, CSV, XLSX, Markdown or
// HTML for download.
package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"marketlens/domain/market"
	"marketlens/internal/errors"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatXLSX     Format = "xlsx"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

// Formats lists every supported export format.
var Formats = []Format{FormatJSON, FormatCSV, FormatXLSX, FormatMarkdown, FormatHTML}

// ParseFormat accepts a format name case-insensitively; "markdown" is an
// alias for md.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "markdown" {
		name = string(FormatMarkdown)
	}
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", errors.UnsupportedInput(fmt.Sprintf("export format %q", s))
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "application/octet-stream"
}

// Filename is the suggested download name for an export.
func (f Format) Filename(bundle *market.AnalysisBundle) string {
	stamp := bundle.Timestamp.Time().Format("20060102_150405")
	return fmt.Sprintf("market_analysis_%s.%s", stamp, f)
}

// Write encodes bundle in the given format.
func Write(w io.Writer, bundle *market.AnalysisBundle, format Format) error {
	if bundle == nil {
		return errors.InvalidInput("no analysis results to export")
	}
	switch format {
	case FormatJSON:
		return WriteJSON(w, bundle, true)
	case FormatCSV:
		return WriteCSV(w, bundle)
	case FormatXLSX:
		return WriteXLSX(w, bundle)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(bundle))
		return err
	case FormatHTML:
		_, err := w.Write(HTML(bundle))
		return err
	}
	return errors.UnsupportedInput(fmt.Sprintf("export format %q", format))
}

// Bytes is Write into a buffer.
func Bytes(bundle *market.AnalysisBundle, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, bundle, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// payloads unpacks the typed results. Absent agents yield nil.
func payloads(bundle *market.AnalysisBundle) (*market.BrandResults, *market.PricingResults, *market.FeatureResults, *market.GapResults) {
	var (
		brands   *market.BrandResults
		pricing  *market.PricingResults
		features *market.FeatureResults
		gaps     *market.GapResults
	)
	for _, res := range bundle.Results() {
		switch p := res.Results.(type) {
		case *market.BrandResults:
			brands = p
		case *market.PricingResults:
			pricing = p
		case *market.FeatureResults:
			features = p
		case *market.GapResults:
			gaps = p
		}
	}
	return brands, pricing, features, gaps
}
