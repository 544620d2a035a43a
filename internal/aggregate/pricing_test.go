package aggregate

import (
	"math"
	"testing"

	"marketlens/domain/core"
	"marketlens/domain/market"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzePricing_Quartiles(t *testing.T) {
	table := mustTable(t, numberColumn("price", 100, 200, 300, 400))

	res, err := AnalyzePricing(table, DefaultPricingOptions(), fixedAt)
	require.NoError(t, err)

	pricing := res.Results.(*market.PricingResults)
	s := pricing.PriceStatistics
	assert.Equal(t, 100.0, s.MinPrice)
	assert.Equal(t, 400.0, s.MaxPrice)
	assert.Equal(t, 250.0, s.MeanPrice)
	assert.Equal(t, 250.0, s.MedianPrice)
	assert.InDelta(t, math.Sqrt(50000.0/3.0), s.StdPrice, 1e-9)

	r := pricing.OptimalPriceRange
	assert.Equal(t, 175.0, r.Q1Price)
	assert.Equal(t, 250.0, r.MedianPrice)
	assert.Equal(t, 325.0, r.Q3Price)
	assert.Equal(t, 175.0, r.OptimalRangeMin)
	assert.Equal(t, 325.0, r.OptimalRangeMax)
	assert.Equal(t, 150.0, r.OptimalRangeSpan)

	assert.Equal(t, 4, pricing.ValidPriceRecords)
	assert.Equal(t, 1.0, res.Confidence)
}

func TestAnalyzePricing_CoercesText(t *testing.T) {
	table := mustTable(t, textColumn("price", "$10", " 20 ", "abc", "", "30.5"))

	res, err := AnalyzePricing(table, DefaultPricingOptions(), fixedAt)
	require.NoError(t, err)

	pricing := res.Results.(*market.PricingResults)
	assert.Equal(t, 5, pricing.TotalRecords)
	assert.Equal(t, 2, pricing.ValidPriceRecords)
	assert.Equal(t, 20.0, pricing.PriceStatistics.MinPrice)
	assert.Equal(t, 30.5, pricing.PriceStatistics.MaxPrice)
	assert.Equal(t, 0.4, res.Confidence)
}

func TestAnalyzePricing_SinglePriceHasZeroDeviation(t *testing.T) {
	table := mustTable(t, numberColumn("price", 42))

	res, err := AnalyzePricing(table, DefaultPricingOptions(), fixedAt)
	require.NoError(t, err)

	pricing := res.Results.(*market.PricingResults)
	assert.Equal(t, 0.0, pricing.PriceStatistics.StdPrice)
	assert.Equal(t, 42.0, pricing.OptimalPriceRange.Q1Price)
	assert.Equal(t, 0.0, pricing.OptimalPriceRange.OptimalRangeSpan)
}

func TestAnalyzePricing_NoValidPrices(t *testing.T) {
	table := mustTable(t, textColumn("cost", "n/a", "call us", ""))

	_, err := AnalyzePricing(table, PricingOptions{Column: "cost"}, fixedAt)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNoValidPrices)
	assert.Contains(t, err.Error(), "'cost'")
}

func TestAnalyzePricing_UnknownColumn(t *testing.T) {
	table := mustTable(t, numberColumn("price", 1))

	_, err := AnalyzePricing(table, PricingOptions{Column: "msrp"}, fixedAt)
	assert.True(t, core.IsColumnNotFound(err))
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 1.0, Percentile(sorted, 0))
	assert.Equal(t, 2.0, Percentile(sorted, 25))
	assert.Equal(t, 3.0, Percentile(sorted, 50))
	assert.Equal(t, 5.0, Percentile(sorted, 100))
	assert.InDelta(t, 1.4, Percentile(sorted, 10), 1e-12)
	assert.True(t, math.IsNaN(Percentile(nil, 50)))
}

func TestAnalyzePricing_PermutationInvariant(t *testing.T) {
	table := mustTable(t, numberColumn("price", 19.99, 5.25, 1200, 0.1, 74.5, 74.5, 310.3, 8, 45.45, 999.99))

	want, err := AnalyzePricing(table, DefaultPricingOptions(), fixedAt)
	require.NoError(t, err)
	for seed := int64(1); seed <= 5; seed++ {
		got, err := AnalyzePricing(shuffled(table, seed), DefaultPricingOptions(), fixedAt)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("seed %d: result changed under row permutation (-want +got):\n%s", seed, diff)
		}
	}
}
