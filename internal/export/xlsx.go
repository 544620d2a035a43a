package export

import (
	"fmt"
	"io"
	"strings"

	"marketlens/domain/market"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	SheetSummary  = "Summary"
	SheetBrands   = "Brands"
	SheetFeatures = "Features"
	SheetPricing  = "Pricing"
	SheetGaps     = "Market Gaps"
)

var titleCaser = cases.Title(language.English)

// MetricLabel turns a snake_case statistic name into a display label,
// e.g. "mean_price" becomes "Mean Price".
func MetricLabel(key string) string {
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

// WriteXLSX writes a workbook with Summary, Brands, Features and Pricing
// sheets, plus Market Gaps when any gap was identified. Table headers are
// bold on a grey fill.
func WriteXLSX(w io.Writer, bundle *market.AnalysisBundle) error {
	brands, pricing, features, gaps := payloads(bundle)

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"CCCCCC"}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	// NewFile starts with a default "Sheet1".
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}
	summary := [][]interface{}{
		{"Market Analytics Report"},
		{"Generated", bundle.Timestamp.String()},
		{"Total Records", bundle.TotalRecords},
		{"Analysis ID", bundle.AnalysisID.String()},
	}
	if bundle.LLMSummary.OK() {
		summary = append(summary, []interface{}{"LLM Summary", bundle.LLMSummary.Summary})
	}
	if err := writeRows(f, SheetSummary, summary, -1); err != nil {
		return err
	}

	var brandRows [][]interface{}
	brandRows = append(brandRows, []interface{}{"brand", "count", "confidence"})
	if brands != nil {
		for _, b := range brands.TopBrands {
			brandRows = append(brandRows, []interface{}{b.Brand, b.Count, b.Confidence})
		}
	}
	if err := addSheet(f, SheetBrands, brandRows, header); err != nil {
		return err
	}

	var featureRows [][]interface{}
	featureRows = append(featureRows, []interface{}{"feature", "count", "confidence"})
	if features != nil {
		for _, ft := range features.TopFeatures {
			featureRows = append(featureRows, []interface{}{ft.Feature, ft.Count, ft.Confidence})
		}
	}
	if err := addSheet(f, SheetFeatures, featureRows, header); err != nil {
		return err
	}

	pricingRows := [][]interface{}{{"Metric", "Value"}}
	if pricing != nil {
		s := pricing.PriceStatistics
		for _, m := range []struct {
			key   string
			value float64
		}{
			{"min_price", s.MinPrice},
			{"max_price", s.MaxPrice},
			{"mean_price", s.MeanPrice},
			{"median_price", s.MedianPrice},
			{"std_price", s.StdPrice},
		} {
			pricingRows = append(pricingRows, []interface{}{MetricLabel(m.key), m.value})
		}
	}
	if err := addSheet(f, SheetPricing, pricingRows, header); err != nil {
		return err
	}

	if gaps != nil && len(gaps.TopGaps) > 0 {
		gapRows := [][]interface{}{{"brand", "feature", "observed_count", "expected_count", "gap_score"}}
		for _, g := range gaps.TopGaps {
			gapRows = append(gapRows, []interface{}{g.Brand, g.Feature, g.ObservedCount, g.ExpectedCount, g.GapScore})
		}
		if err := addSheet(f, SheetGaps, gapRows, header); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	_, err = f.WriteTo(w)
	return err
}

func addSheet(f *excelize.File, name string, rows [][]interface{}, headerStyle int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	return writeRows(f, name, rows, headerStyle)
}

// writeRows writes rows from A1 down and styles the first row when
// headerStyle is not negative.
func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	if headerStyle < 0 || len(rows) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, headerStyle)
}
