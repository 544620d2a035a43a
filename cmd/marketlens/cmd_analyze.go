package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"marketlens/app"
	"marketlens/internal/config"
	"marketlens/internal/container"
	"marketlens/internal/export"

	"github.com/spf13/cobra"
)

var analyzeFlags struct {
	options          string
	brandColumn      string
	priceColumn      string
	featureColumn    string
	featureColumns   []string
	topBrands        int
	topFeatures      int
	topGaps          int
	gapThreshold     float64
	minObservations  int
	requiredColumns  []string
	cleaningStrategy string
	removeDuplicates bool
	sheet            string
	summarize        bool
	exportFormat     string
	out              string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a CSV or XLSX listings table",
	Long: `Analyze a listings table and print the analysis bundle.

Defaults come from the environment (and .env), then an optional --options
YAML file, then any flags given explicitly.

Examples:
  marketlens analyze listings.csv
  marketlens analyze listings.xlsx --sheet=Products --top-brands=5
  marketlens analyze listings.csv --options=analysis.yaml --export=xlsx --out=report.xlsx
  marketlens analyze listings.csv --summarize --export=md`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	d := config.DefaultAnalysisConfig()
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFlags.options, "options", "", "YAML file with analysis options")
	f.StringVar(&analyzeFlags.brandColumn, "brand-column", d.BrandColumn, "Brand column name")
	f.StringVar(&analyzeFlags.priceColumn, "price-column", d.PriceColumn, "Price column name")
	f.StringVar(&analyzeFlags.featureColumn, "feature-column", d.FeatureColumn, "Delimited feature column name")
	f.StringSliceVar(&analyzeFlags.featureColumns, "feature-columns", nil, "Feature flag columns (replaces --feature-column for feature counts)")
	f.IntVar(&analyzeFlags.topBrands, "top-brands", d.TopBrands, "Number of brands to report")
	f.IntVar(&analyzeFlags.topFeatures, "top-features", d.TopFeatures, "Number of features to report")
	f.IntVar(&analyzeFlags.topGaps, "top-gaps", d.TopGaps, "Number of market gaps to report")
	f.Float64Var(&analyzeFlags.gapThreshold, "gap-threshold", d.GapThreshold, "Gap score at or below which a combination is a gap")
	f.IntVar(&analyzeFlags.minObservations, "min-observations", d.MinObservations, "Minimum observed count for a gap")
	f.StringSliceVar(&analyzeFlags.requiredColumns, "required-columns", nil, "Columns that must be present")
	f.StringVar(&analyzeFlags.cleaningStrategy, "cleaning-strategy", d.CleaningStrategy, "Missing value handling: drop_rows, drop_columns or keep")
	f.BoolVar(&analyzeFlags.removeDuplicates, "remove-duplicates", d.RemoveDuplicates, "Drop exact duplicate rows")
	f.StringVar(&analyzeFlags.sheet, "sheet", "", "Worksheet to read from XLSX files (default: first sheet)")
	f.BoolVar(&analyzeFlags.summarize, "summarize", false, "Request an LLM executive summary")
	f.StringVar(&analyzeFlags.exportFormat, "export", "json", "Output format: json, csv, xlsx, md or html")
	f.StringVarP(&analyzeFlags.out, "out", "o", "", "Output path (default: stdout)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if analyzeFlags.options != "" {
		if err := config.LoadOptionsFile(analyzeFlags.options, &cfg.Analysis); err != nil {
			return err
		}
	}
	applyAnalyzeFlags(cmd, &cfg.Analysis)
	if err := cfg.Analysis.Validate(); err != nil {
		return err
	}

	format, err := export.ParseFormat(analyzeFlags.exportFormat)
	if err != nil {
		return err
	}
	if format == export.FormatXLSX && analyzeFlags.out == "" {
		return fmt.Errorf("--export=xlsx requires --out")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	table, err := c.Loader.LoadFile(args[0])
	if err != nil {
		return err
	}
	bundle, err := c.Analysis.Analyze(ctx, app.AnalysisRequest{
		Table:     table,
		Clean:     app.CleanOptionsFromConfig(cfg.Analysis),
		Options:   app.OptionsFromConfig(cfg.Analysis),
		Summarize: analyzeFlags.summarize,
	})
	if err != nil {
		return err
	}
	if s := bundle.LLMSummary; s != nil && !s.OK() {
		logger.Warn("summary unavailable: %s", s.Error)
	}

	var w io.Writer = cmd.OutOrStdout()
	if analyzeFlags.out != "" {
		file, err := os.Create(analyzeFlags.out)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}
	if err := export.Write(w, bundle, format); err != nil {
		return err
	}
	if analyzeFlags.out != "" {
		logger.Info("wrote %s report to %s", strings.ToUpper(string(format)), analyzeFlags.out)
	}
	return nil
}

// applyAnalyzeFlags copies explicitly set flags over the loaded configuration.
func applyAnalyzeFlags(cmd *cobra.Command, a *config.AnalysisConfig) {
	f := cmd.Flags()
	if f.Changed("brand-column") {
		a.BrandColumn = analyzeFlags.brandColumn
	}
	if f.Changed("price-column") {
		a.PriceColumn = analyzeFlags.priceColumn
	}
	if f.Changed("feature-column") {
		a.FeatureColumn = analyzeFlags.featureColumn
	}
	if f.Changed("feature-columns") {
		a.FeatureColumns = analyzeFlags.featureColumns
	}
	if f.Changed("top-brands") {
		a.TopBrands = analyzeFlags.topBrands
	}
	if f.Changed("top-features") {
		a.TopFeatures = analyzeFlags.topFeatures
	}
	if f.Changed("top-gaps") {
		a.TopGaps = analyzeFlags.topGaps
	}
	if f.Changed("gap-threshold") {
		a.GapThreshold = analyzeFlags.gapThreshold
	}
	if f.Changed("min-observations") {
		a.MinObservations = analyzeFlags.minObservations
	}
	if f.Changed("required-columns") {
		a.RequiredColumns = analyzeFlags.requiredColumns
	}
	if f.Changed("cleaning-strategy") {
		a.CleaningStrategy = analyzeFlags.cleaningStrategy
	}
	if f.Changed("remove-duplicates") {
		a.RemoveDuplicates = analyzeFlags.removeDuplicates
	}
	if f.Changed("sheet") {
		a.Sheet = analyzeFlags.sheet
	}
}
