package aggregate

import (
	"context"
	"testing"

	"marketlens/domain/core"
	"marketlens/domain/market"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeBrands_TopBrand(t *testing.T) {
	table := mustTable(t, textColumn("brand", "A", "A", "B", "C"))

	res, err := AnalyzeBrands(table, DefaultBrandOptions(), fixedAt)
	require.NoError(t, err)

	assert.Equal(t, market.AgentBrand, res.AgentName)
	brands := res.Results.(*market.BrandResults)
	assert.Equal(t, 3, brands.TotalUniqueBrands)
	assert.Equal(t, 4, brands.TotalRecords)
	require.Len(t, brands.TopBrands, 3)
	assert.Equal(t, market.BrandCount{Brand: "A", Count: 2, Confidence: 0.5}, brands.TopBrands[0])
	assert.Equal(t, "B", brands.TopBrands[1].Brand)
	assert.Equal(t, "C", brands.TopBrands[2].Brand)
	assert.Equal(t, 1.0, res.Confidence)
	assert.True(t, res.Timestamp.Equal(fixedAt))
}

func TestAnalyzeBrands_TopNLimitsList(t *testing.T) {
	table := mustTable(t, textColumn("brand", "A", "A", "A", "B", "B", "C", "D", "E"))

	res, err := AnalyzeBrands(table, BrandOptions{Column: "brand", TopN: 2}, fixedAt)
	require.NoError(t, err)

	brands := res.Results.(*market.BrandResults)
	assert.Equal(t, 5, brands.TotalUniqueBrands)
	require.Len(t, brands.TopBrands, 2)
	assert.Equal(t, 0.375, brands.TopBrands[0].Confidence)
	assert.Equal(t, 0.25, brands.TopBrands[1].Confidence)
	assert.Equal(t, 0.625, res.Confidence)
}

func TestAnalyzeBrands_MissingValuesExcluded(t *testing.T) {
	table := mustTable(t, textColumn("brand", "A", "", "B", ""))

	counts, err := CountBrands(table, "brand")
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Total())

	res, err := AnalyzeBrands(table, DefaultBrandOptions(), fixedAt)
	require.NoError(t, err)
	assert.Equal(t, 0.5, res.Confidence)
}

func TestAnalyzeBrands_EmptyTable(t *testing.T) {
	table := mustTable(t, textColumn("brand"))

	res, err := AnalyzeBrands(table, DefaultBrandOptions(), fixedAt)
	require.NoError(t, err)

	brands := res.Results.(*market.BrandResults)
	assert.Equal(t, 0, brands.TotalUniqueBrands)
	assert.Empty(t, brands.TopBrands)
	assert.Equal(t, 0.0, res.Confidence)
}

func TestAnalyzeBrands_UnknownColumn(t *testing.T) {
	table := mustTable(t, textColumn("brand", "A"))

	_, err := AnalyzeBrands(table, BrandOptions{Column: "nonexistent"}, fixedAt)
	require.Error(t, err)
	assert.True(t, core.IsColumnNotFound(err))
	assert.Contains(t, err.Error(), "column 'nonexistent' not found")
}

func TestAnalyzeBrands_TiesAreLexical(t *testing.T) {
	table := mustTable(t, textColumn("brand", "zeta", "alpha", "mid", "alpha", "zeta", "mid"))

	res, err := AnalyzeBrands(table, DefaultBrandOptions(), fixedAt)
	require.NoError(t, err)

	var order []string
	for _, b := range res.Results.(*market.BrandResults).TopBrands {
		order = append(order, b.Brand)
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, order)
}

func TestAnalyzeBrands_PermutationInvariant(t *testing.T) {
	table := mustTable(t, textColumn("brand", "A", "B", "A", "C", "B", "D", "A", "E", "C", "F", "G", "H"))

	want, err := AnalyzeBrands(table, BrandOptions{Column: "brand", TopN: 4}, fixedAt)
	require.NoError(t, err)
	for seed := int64(1); seed <= 5; seed++ {
		got, err := AnalyzeBrands(shuffled(table, seed), BrandOptions{Column: "brand", TopN: 4}, fixedAt)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("seed %d: result changed under row permutation (-want +got):\n%s", seed, diff)
		}
	}
}

func TestBrandAggregator_CancelledContext(t *testing.T) {
	table := mustTable(t, textColumn("brand", "A"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBrandAggregator(DefaultBrandOptions(), nil).Aggregate(ctx, table)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetectColumn(t *testing.T) {
	name, ok := DetectColumn([]string{"brand", "Key_Features", "feature"}, "feature")
	assert.True(t, ok)
	assert.Equal(t, "Key_Features", name)

	_, ok = DetectColumn([]string{"brand", "price"}, "feature")
	assert.False(t, ok)

	_, ok = DetectColumn(nil, "feature")
	assert.False(t, ok)
}
