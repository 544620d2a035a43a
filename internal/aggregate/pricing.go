package aggregate

import (
	"context"
	"math"
	"sort"

	"marketlens/domain/core"
	"marketlens/domain/dataset"
	"marketlens/domain/market"

	"github.com/montanaflynn/stats"
)

// PricingOptions configures the pricing aggregator.
type PricingOptions struct {
	Column string `json:"column" yaml:"column"`
}

// DefaultPricingOptions returns the defaults used when a caller supplies nothing.
func DefaultPricingOptions() PricingOptions {
	return PricingOptions{Column: "price"}
}

// PricingAggregator summarizes the price distribution.
type PricingAggregator struct {
	opts  PricingOptions
	clock Clock
}

// NewPricingAggregator creates a pricing aggregator
func NewPricingAggregator(opts PricingOptions, clock Clock) *PricingAggregator {
	if clock == nil {
		clock = core.Now
	}
	return &PricingAggregator{opts: opts, clock: clock}
}

// Name returns the agent name
func (a *PricingAggregator) Name() market.AgentKind {
	return market.AgentPricing
}

// Aggregate computes price statistics for the configured column.
func (a *PricingAggregator) Aggregate(ctx context.Context, table *dataset.Table) (*market.AgentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return AnalyzePricing(table, a.opts, a.clock())
}

// ExtractPrices coerces column to numbers, drops what does not parse, and returns
// the valid prices sorted ascending.
func ExtractPrices(table *dataset.Table, column string) ([]float64, error) {
	col, err := table.Column(column)
	if err != nil {
		return nil, err
	}
	prices := make([]float64, 0, len(col.Values))
	for _, v := range col.Values {
		f, ok := v.Float()
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		prices = append(prices, f)
	}
	if len(prices) == 0 {
		return nil, core.NewNoValidPricesError(column)
	}
	sort.Float64s(prices)
	return prices, nil
}

// Percentile interpolates linearly between the closest ranks of sorted data:
// rank = p/100 * (n-1).
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		lo = 0
	}
	if hi >= n {
		hi = n - 1
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// PriceStatistics computes min, max, mean, median and sample standard deviation.
// With fewer than two prices the deviation is reported as 0.
func PriceStatistics(sorted []float64) (market.PriceStatistics, error) {
	data := stats.Float64Data(sorted)

	min, err := stats.Min(data)
	if err != nil {
		return market.PriceStatistics{}, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return market.PriceStatistics{}, err
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return market.PriceStatistics{}, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return market.PriceStatistics{}, err
	}

	std := 0.0
	if len(sorted) > 1 {
		std, err = stats.StandardDeviationSample(data)
		if err != nil {
			return market.PriceStatistics{}, err
		}
	}

	return market.PriceStatistics{
		MinPrice:    min,
		MaxPrice:    max,
		MeanPrice:   mean,
		MedianPrice: median,
		StdPrice:    std,
	}, nil
}

// OptimalRange is the interquartile range of sorted prices.
func OptimalRange(sorted []float64) market.OptimalPriceRange {
	q1 := Percentile(sorted, 25)
	q2 := Percentile(sorted, 50)
	q3 := Percentile(sorted, 75)
	return market.OptimalPriceRange{
		Q1Price:          q1,
		MedianPrice:      q2,
		Q3Price:          q3,
		OptimalRangeMin:  q1,
		OptimalRangeMax:  q3,
		OptimalRangeSpan: q3 - q1,
	}
}

// AnalyzePricing produces the pricing envelope.
func AnalyzePricing(table *dataset.Table, opts PricingOptions, at core.Timestamp) (*market.AgentResult, error) {
	totalRecords := table.Len()

	prices, err := ExtractPrices(table, opts.Column)
	if err != nil {
		return nil, err
	}
	priceStats, err := PriceStatistics(prices)
	if err != nil {
		return nil, err
	}

	results := &market.PricingResults{
		TotalRecords:      totalRecords,
		ValidPriceRecords: len(prices),
		PriceStatistics:   priceStats,
		OptimalPriceRange: OptimalRange(prices),
	}
	return market.NewAgentResult(results, round(confidence(len(prices), totalRecords), 4), at), nil
}
