package export

import (
	"fmt"
	"strings"

	"marketlens/domain/market"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Markdown renders the bundle as a human-readable report. An attached summary
// is embedded verbatim since the model answers in markdown.
func Markdown(bundle *market.AnalysisBundle) string {
	brands, pricing, features, gaps := payloads(bundle)

	var b strings.Builder
	b.WriteString("# Market Analytics Report\n\n")
	fmt.Fprintf(&b, "- **Generated:** %s\n", bundle.Timestamp)
	fmt.Fprintf(&b, "- **Total records:** %d\n", bundle.TotalRecords)
	fmt.Fprintf(&b, "- **Analysis ID:** %s\n\n", bundle.AnalysisID)

	if s := bundle.LLMSummary; s != nil {
		b.WriteString("## Executive Summary\n\n")
		if s.OK() {
			b.WriteString(strings.TrimSpace(s.Summary))
			b.WriteString("\n\n")
		} else {
			fmt.Fprintf(&b, "_Summary unavailable: %s_\n\n", s.Error)
		}
	}

	if brands != nil {
		fmt.Fprintf(&b, "## Brands\n\n%d unique brands.\n\n", brands.TotalUniqueBrands)
		b.WriteString("| Rank | Brand | Count | Share |\n|---:|---|---:|---:|\n")
		for i, br := range brands.TopBrands {
			fmt.Fprintf(&b, "| %d | %s | %d | %.2f%% |\n", i+1, escapeCell(br.Brand), br.Count, br.Confidence*100)
		}
		b.WriteString("\n")
	}

	if pricing != nil {
		s, r := pricing.PriceStatistics, pricing.OptimalPriceRange
		fmt.Fprintf(&b, "## Pricing\n\n%d of %d records carry a valid price.\n\n",
			pricing.ValidPriceRecords, pricing.TotalRecords)
		b.WriteString("| Metric | Value |\n|---|---:|\n")
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
			fmt.Fprintf(&b, "| %s | %.2f |\n", MetricLabel(m.key), m.value)
		}
		fmt.Fprintf(&b, "\nOptimal price range: **%.2f to %.2f** (span %.2f).\n\n",
			r.OptimalRangeMin, r.OptimalRangeMax, r.OptimalRangeSpan)
	}

	if features != nil {
		fmt.Fprintf(&b, "## Features\n\n%d mentions of %d unique features.\n\n",
			features.TotalFeatures, features.TotalUniqueFeatures)
		b.WriteString("| Rank | Feature | Count | Share |\n|---:|---|---:|---:|\n")
		for i, f := range features.TopFeatures {
			fmt.Fprintf(&b, "| %d | %s | %d | %.2f%% |\n", i+1, escapeCell(f.Feature), f.Count, f.Confidence*100)
		}
		b.WriteString("\n")
	}

	if gaps != nil {
		fmt.Fprintf(&b, "## Market Gaps\n\n%d of %d brand-feature combinations score at or below %.2f.\n\n",
			gaps.IdentifiedGapsCount, gaps.TotalCombinations, gaps.GapThreshold)
		if len(gaps.TopGaps) > 0 {
			b.WriteString("| Brand | Feature | Observed | Expected | Gap Score |\n|---|---|---:|---:|---:|\n")
			for _, g := range gaps.TopGaps {
				fmt.Fprintf(&b, "| %s | %s | %d | %.2f | %.4f |\n",
					escapeCell(g.Brand), escapeCell(g.Feature), g.ObservedCount, g.ExpectedCount, g.GapScore)
			}
			b.WriteString("\n")
		}
		if t := gaps.Independence; t != nil {
			fmt.Fprintf(&b, "Chi-square %.4f with %d degrees of freedom (p = %.6f).\n",
				t.ChiSquare, t.DegreesOfFreedom, t.PValue)
		}
	}
	return b.String()
}

// HTML renders the markdown report as a standalone page.
func HTML(bundle *market.AnalysisBundle) []byte {
	return RenderHTML(Markdown(bundle), "Market Analytics Report")
}

// RenderHTML converts markdown to a complete HTML page.
func RenderHTML(md, title string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: title,
	})
	return markdown.ToHTML([]byte(md), p, renderer)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
