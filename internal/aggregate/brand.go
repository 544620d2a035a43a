package aggregate

import (
	"context"
	"math"

	"marketlens/domain/core"
	"marketlens/domain/dataset"
	"marketlens/domain/market"
)

const DefaultTopBrands = 10

// BrandOptions configures the brand aggregator.
type BrandOptions struct {
	Column string `json:"column" yaml:"column"`
	TopN   int    `json:"top_n" yaml:"top_n"`
}

// DefaultBrandOptions returns the defaults used when a caller supplies nothing.
func DefaultBrandOptions() BrandOptions {
	return BrandOptions{Column: "brand", TopN: DefaultTopBrands}
}

// BrandAggregator ranks a categorical column by frequency.
type BrandAggregator struct {
	opts  BrandOptions
	clock Clock
}

// NewBrandAggregator creates a brand aggregator
func NewBrandAggregator(opts BrandOptions, clock Clock) *BrandAggregator {
	if clock == nil {
		clock = core.Now
	}
	return &BrandAggregator{opts: opts, clock: clock}
}

// Name returns the agent name
func (a *BrandAggregator) Name() market.AgentKind {
	return market.AgentBrand
}

// Aggregate counts brands in the configured column.
func (a *BrandAggregator) Aggregate(ctx context.Context, table *dataset.Table) (*market.AgentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return AnalyzeBrands(table, a.opts, a.clock())
}

// CountBrands counts every non-missing value of column.
func CountBrands(table *dataset.Table, column string) (CategoryCount, error) {
	col, err := table.Column(column)
	if err != nil {
		return nil, err
	}
	counts := make(CategoryCount)
	for _, v := range col.Values {
		if v.IsMissing {
			continue
		}
		counts.Add(v.Raw, 1)
	}
	return counts, nil
}

// AnalyzeBrands produces the brand envelope. Overall confidence is the sum of
// the top entries' confidences, capped at 1.
func AnalyzeBrands(table *dataset.Table, opts BrandOptions, at core.Timestamp) (*market.AgentResult, error) {
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopBrands
	}
	totalRecords := table.Len()

	counts, err := CountBrands(table, opts.Column)
	if err != nil {
		return nil, err
	}

	top := counts.Top(opts.TopN)
	brands := make([]market.BrandCount, 0, len(top))
	overall := 0.0
	for _, entry := range top {
		c := confidence(entry.Count, totalRecords)
		overall += c
		brands = append(brands, market.BrandCount{
			Brand:      entry.Label,
			Count:      entry.Count,
			Confidence: round(c, 4),
		})
	}

	results := &market.BrandResults{
		TotalUniqueBrands: len(counts),
		TopBrands:         brands,
		TotalRecords:      totalRecords,
	}
	return market.NewAgentResult(results, round(math.Min(overall, 1.0), 4), at), nil
}
