package aggregate

import (
	"context"
	"math"
	"sort"

	"marketlens/domain/core"
	"marketlens/domain/dataset"
	"marketlens/domain/market"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	DefaultTopGaps         = 10
	DefaultGapThreshold    = -0.5
	DefaultMinObservations = 1
)

// GapOptions configures the gap detector. Threshold and MinObservations are
// policy knobs: a combination is flagged when its gap score is at or below
// Threshold and it was observed at least MinObservations times.
type GapOptions struct {
	BrandColumn     string  `json:"brand_column" yaml:"brand_column"`
	FeatureColumn   string  `json:"feature_column" yaml:"feature_column"`
	Threshold       float64 `json:"threshold" yaml:"threshold"`
	MinObservations int     `json:"min_observations" yaml:"min_observations"`
	TopN            int     `json:"top_n" yaml:"top_n"`
}

// DefaultGapOptions returns the defaults used when a caller supplies nothing.
func DefaultGapOptions() GapOptions {
	return GapOptions{
		BrandColumn:     "brand",
		FeatureColumn:   "feature",
		Threshold:       DefaultGapThreshold,
		MinObservations: DefaultMinObservations,
		TopN:            DefaultTopGaps,
	}
}

// GapDetector flags brand/feature pairs that occur less often than independence
// predicts.
type GapDetector struct {
	opts  GapOptions
	clock Clock
}

// NewGapDetector creates a gap detector
func NewGapDetector(opts GapOptions, clock Clock) *GapDetector {
	if clock == nil {
		clock = core.Now
	}
	return &GapDetector{opts: opts, clock: clock}
}

// Name returns the agent name
func (d *GapDetector) Name() market.AgentKind {
	return market.AgentGap
}

// Aggregate runs gap detection over the configured column pair.
func (d *GapDetector) Aggregate(ctx context.Context, table *dataset.Table) (*market.AgentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return AnalyzeGaps(table, d.opts, d.clock())
}

type pair struct {
	brand   string
	feature string
}

// Contingency is the table of observed (brand, feature) counts. Only pairs that
// actually co-occur are present; unobserved pairs are never synthesized.
type Contingency struct {
	Observed      map[pair]int
	BrandTotals   CategoryCount
	FeatureTotals CategoryCount
	ValidRecords  int
}

// BuildContingency counts (brand, feature) pairs over rows where both values are
// present.
func BuildContingency(table *dataset.Table, brandColumn, featureColumn string) (*Contingency, error) {
	brands, err := table.Column(brandColumn)
	if err != nil {
		return nil, err
	}
	features, err := table.Column(featureColumn)
	if err != nil {
		return nil, err
	}

	ct := &Contingency{
		Observed:      make(map[pair]int),
		BrandTotals:   make(CategoryCount),
		FeatureTotals: make(CategoryCount),
	}
	for i := 0; i < table.Len(); i++ {
		b, f := brands.Values[i], features.Values[i]
		if b.IsMissing || f.IsMissing {
			continue
		}
		ct.Observed[pair{brand: b.Raw, feature: f.Raw}]++
		ct.BrandTotals.Add(b.Raw, 1)
		ct.FeatureTotals.Add(f.Raw, 1)
		ct.ValidRecords++
	}
	return ct, nil
}

// ExpectedCount is the count predicted for a cell if brand and feature were
// independent: brandTotal * featureTotal / totalRecords.
func ExpectedCount(brandTotal, featureTotal, totalRecords int) float64 {
	if totalRecords <= 0 {
		return 0
	}
	return float64(brandTotal) * float64(featureTotal) / float64(totalRecords)
}

// GapScore is the relative residual (observed - expected) / expected, defined as
// 0 when nothing is expected.
func GapScore(observed int, expected float64) float64 {
	if expected <= 0 {
		return 0.0
	}
	return (float64(observed) - expected) / expected
}

// Score computes expected counts and gap scores for every observed pair, sorted
// by brand then feature. totalRecords is the length of the full input table.
func (ct *Contingency) Score(totalRecords int) []market.Combination {
	combos := make([]market.Combination, 0, len(ct.Observed))
	for p, observed := range ct.Observed {
		expected := ExpectedCount(ct.BrandTotals[p.brand], ct.FeatureTotals[p.feature], totalRecords)
		combos = append(combos, market.Combination{
			Brand:         p.brand,
			Feature:       p.feature,
			ObservedCount: observed,
			ExpectedCount: expected,
			GapScore:      GapScore(observed, expected),
		})
	}
	sort.Slice(combos, func(i, j int) bool {
		if combos[i].Brand != combos[j].Brand {
			return combos[i].Brand < combos[j].Brand
		}
		return combos[i].Feature < combos[j].Feature
	})
	return combos
}

// IdentifyGaps keeps combinations with GapScore <= threshold (inclusive) and
// ObservedCount >= minObservations, most under-represented first. Ties are
// broken by brand, then feature.
func IdentifyGaps(combos []market.Combination, threshold float64, minObservations int) []market.Combination {
	gaps := make([]market.Combination, 0)
	for _, c := range combos {
		if c.GapScore <= threshold && c.ObservedCount >= minObservations {
			gaps = append(gaps, c)
		}
	}
	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].GapScore != gaps[j].GapScore {
			return gaps[i].GapScore < gaps[j].GapScore
		}
		if gaps[i].Brand != gaps[j].Brand {
			return gaps[i].Brand < gaps[j].Brand
		}
		return gaps[i].Feature < gaps[j].Feature
	})
	return gaps
}

// IndependenceTest computes a chi-square statistic over the observed cells only,
// with (brands-1)(features-1) degrees of freedom.
func IndependenceTest(combos []market.Combination, brands, features int) *market.IndependenceTest {
	chi := 0.0
	for _, c := range combos {
		if c.ExpectedCount > 0 {
			d := float64(c.ObservedCount) - c.ExpectedCount
			chi += d * d / c.ExpectedCount
		}
	}
	df := (brands - 1) * (features - 1)
	p := 1.0
	if df > 0 {
		p = distuv.ChiSquared{K: float64(df)}.Survival(chi)
	}
	return &market.IndependenceTest{
		ChiSquare:        round(chi, 4),
		DegreesOfFreedom: df,
		PValue:           round(p, 6),
	}
}

// AnalyzeGaps produces the gap envelope. Confidence is the fraction of all
// records that contributed a valid brand+feature pair.
func AnalyzeGaps(table *dataset.Table, opts GapOptions, at core.Timestamp) (*market.AgentResult, error) {
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopGaps
	}
	totalRecords := table.Len()

	ct, err := BuildContingency(table, opts.BrandColumn, opts.FeatureColumn)
	if err != nil {
		return nil, err
	}

	results := &market.GapResults{
		TotalCombinations: len(ct.Observed),
		TopGaps:           []market.Combination{},
		TotalRecords:      totalRecords,
		GapThreshold:      opts.Threshold,
		MinObservations:   opts.MinObservations,
	}
	if len(ct.Observed) == 0 {
		return market.NewAgentResult(results, 0.0, at), nil
	}

	combos := ct.Score(totalRecords)
	gaps := IdentifyGaps(combos, opts.Threshold, opts.MinObservations)
	results.IdentifiedGapsCount = len(gaps)
	results.Independence = IndependenceTest(combos, len(ct.BrandTotals), len(ct.FeatureTotals))

	if len(gaps) > opts.TopN {
		gaps = gaps[:opts.TopN]
	}
	for _, g := range gaps {
		g.ExpectedCount = round(g.ExpectedCount, 2)
		g.GapScore = round(g.GapScore, 4)
		results.TopGaps = append(results.TopGaps, g)
	}

	conf := round(math.Min(confidence(ct.ValidRecords, totalRecords), 1.0), 4)
	return market.NewAgentResult(results, conf, at), nil
}
