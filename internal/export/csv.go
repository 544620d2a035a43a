package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"marketlens/domain/market"
)

var csvHeader = []string{"Category", "Name", "Count", "Confidence", "Details"}

// WriteCSV flattens ranked brands, features and gaps into one table. Gap rows
// carry the gap score in the Confidence column and the expected count in Details.
func WriteCSV(w io.Writer, bundle *market.AnalysisBundle) error {
	brands, _, features, gaps := payloads(bundle)

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	if brands != nil {
		for _, b := range brands.TopBrands {
			if err := cw.Write([]string{"Brand", b.Brand, strconv.Itoa(b.Count), formatFloat(b.Confidence), ""}); err != nil {
				return err
			}
		}
	}
	if features != nil {
		for _, f := range features.TopFeatures {
			if err := cw.Write([]string{"Feature", f.Feature, strconv.Itoa(f.Count), formatFloat(f.Confidence), ""}); err != nil {
				return err
			}
		}
	}
	if gaps != nil {
		for _, g := range gaps.TopGaps {
			row := []string{
				"Gap",
				g.Brand + " - " + g.Feature,
				strconv.Itoa(g.ObservedCount),
				formatFloat(g.GapScore),
				fmt.Sprintf("Expected: %.1f", g.ExpectedCount),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
