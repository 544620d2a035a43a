package app

import (
	"marketlens/domain/core"
	"marketlens/internal/aggregate"
	"marketlens/internal/config"
	idataset "marketlens/internal/dataset"
)

// AnalysisOptions carries per-aggregator column overrides and sizes.
type AnalysisOptions struct {
	Brand   aggregate.BrandOptions   `json:"brand" yaml:"brand"`
	Pricing aggregate.PricingOptions `json:"pricing" yaml:"pricing"`
	Feature aggregate.FeatureOptions `json:"feature" yaml:"feature"`
	Gap     aggregate.GapOptions     `json:"gap" yaml:"gap"`
}

// DefaultAnalysisOptions mirrors the defaults of a plain analysis run.
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		Brand:   aggregate.DefaultBrandOptions(),
		Pricing: aggregate.DefaultPricingOptions(),
		Feature: aggregate.DefaultFeatureOptions(),
		Gap:     aggregate.DefaultGapOptions(),
	}
}

// OptionsFromConfig maps flat analysis settings onto per-aggregator options.
// The gap detector pairs the brand column with the single feature column.
func OptionsFromConfig(a config.AnalysisConfig) AnalysisOptions {
	featureColumn := a.FeatureColumn
	if len(a.FeatureColumns) > 0 {
		featureColumn = ""
	}
	return AnalysisOptions{
		Brand:   aggregate.BrandOptions{Column: a.BrandColumn, TopN: a.TopBrands},
		Pricing: aggregate.PricingOptions{Column: a.PriceColumn},
		Feature: aggregate.FeatureOptions{
			Column:  featureColumn,
			Columns: a.FeatureColumns,
			TopN:    a.TopFeatures,
		},
		Gap: aggregate.GapOptions{
			BrandColumn:     a.BrandColumn,
			FeatureColumn:   a.FeatureColumn,
			Threshold:       a.GapThreshold,
			MinObservations: a.MinObservations,
			TopN:            a.TopGaps,
		},
	}
}

// CleanOptionsFromConfig maps the cleaning policy.
func CleanOptionsFromConfig(a config.AnalysisConfig) idataset.CleanOptions {
	return idataset.CleanOptions{
		RequiredColumns:  a.RequiredColumns,
		Strategy:         idataset.MissingStrategy(a.CleaningStrategy),
		RemoveDuplicates: a.RemoveDuplicates,
	}
}

// Validate rejects sizes and counts no aggregator can honor.
func (o AnalysisOptions) Validate() error {
	switch {
	case o.Brand.TopN < 0:
		return core.NewInvalidOptionsError("brand.top_n", "must not be negative")
	case o.Feature.TopN < 0:
		return core.NewInvalidOptionsError("feature.top_n", "must not be negative")
	case o.Gap.TopN < 0:
		return core.NewInvalidOptionsError("gap.top_n", "must not be negative")
	case o.Gap.MinObservations < 0:
		return core.NewInvalidOptionsError("gap.min_observations", "must not be negative")
	case o.Brand.Column == "":
		return core.NewInvalidOptionsError("brand.column", "is required")
	case o.Pricing.Column == "":
		return core.NewInvalidOptionsError("pricing.column", "is required")
	case o.Gap.BrandColumn == "":
		return core.NewInvalidOptionsError("gap.brand_column", "is required")
	}
	return nil
}
