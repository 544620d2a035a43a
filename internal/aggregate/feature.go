package aggregate

import (
	"context"
	"fmt"
	"math"
	"strings"

	"marketlens/domain/core"
	"marketlens/domain/dataset"
	"marketlens/domain/market"
)

const DefaultTopFeatures = 15

// featureKeywords are matched against column names when no feature source is given.
var featureKeywords = []string{"feature"}

// FeatureOptions configures the feature aggregator. Column selects delimited
// mode; Columns selects multi-column mode; with neither set a column is detected.
type FeatureOptions struct {
	Column  string   `json:"column" yaml:"column"`
	Columns []string `json:"columns" yaml:"columns"`
	TopN    int      `json:"top_n" yaml:"top_n"`
}

// DefaultFeatureOptions returns the defaults used when a caller supplies nothing.
func DefaultFeatureOptions() FeatureOptions {
	return FeatureOptions{Column: "feature", TopN: DefaultTopFeatures}
}

// FeatureAggregator counts feature tags.
type FeatureAggregator struct {
	opts  FeatureOptions
	clock Clock
}

// NewFeatureAggregator creates a feature aggregator
func NewFeatureAggregator(opts FeatureOptions, clock Clock) *FeatureAggregator {
	if clock == nil {
		clock = core.Now
	}
	return &FeatureAggregator{opts: opts, clock: clock}
}

// Name returns the agent name
func (a *FeatureAggregator) Name() market.AgentKind {
	return market.AgentFeature
}

// Aggregate extracts and ranks features.
func (a *FeatureAggregator) Aggregate(ctx context.Context, table *dataset.Table) (*market.AgentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return AnalyzeFeatures(table, a.opts, a.clock())
}

// SplitFeatures tokenizes one delimited feature string. ';' and '|' are treated
// as ','; tokens are trimmed and lower-cased and empty tokens dropped.
func SplitFeatures(s string) []string {
	normalized := strings.NewReplacer(";", ",", "|", ",").Replace(s)
	parts := strings.Split(normalized, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// ExtractDelimited counts tokens across every non-missing value of col. Text
// values are split; non-text values count as a single token.
func ExtractDelimited(col *dataset.Column) CategoryCount {
	counts := make(CategoryCount)
	for _, v := range col.Values {
		if v.IsMissing {
			continue
		}
		if col.Kind == dataset.KindString {
			for _, token := range SplitFeatures(v.Raw) {
				counts.Add(token, 1)
			}
			continue
		}
		if token := strings.ToLower(strings.TrimSpace(v.Raw)); token != "" {
			counts.Add(token, 1)
		}
	}
	return counts
}

// ExtractColumns counts features spread across several columns. Flag columns
// (boolean or integer) contribute one feature named after the column, counted
// over rows where the value is set. Other columns contribute one feature per
// distinct value, labelled "column: value". Columns absent from the table are
// skipped and not reported in the returned list.
func ExtractColumns(table *dataset.Table, columns []string) (CategoryCount, []string) {
	counts := make(CategoryCount)
	used := make([]string, 0, len(columns))
	for _, name := range columns {
		col, err := table.Column(name)
		if err != nil {
			continue
		}
		used = append(used, name)

		if col.Kind.IsFlag() {
			n := 0
			for _, v := range col.Values {
				if v.Truthy() {
					n++
				}
			}
			if n > 0 {
				counts.Add(name, n)
			}
			continue
		}

		for _, v := range col.Values {
			if v.IsMissing || v.Raw == "" || v.Raw == "0" {
				continue
			}
			counts.Add(fmt.Sprintf("%s: %s", name, v.Raw), 1)
		}
	}
	return counts, used
}

// AnalyzeFeatures produces the feature envelope. When nothing is extracted it
// returns a zero-result envelope rather than an error.
func AnalyzeFeatures(table *dataset.Table, opts FeatureOptions, at core.Timestamp) (*market.AgentResult, error) {
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopFeatures
	}
	totalRecords := table.Len()

	var (
		counts  CategoryCount
		mode    market.FeatureMode
		sources []string
	)
	switch {
	case opts.Column != "":
		col, err := table.Column(opts.Column)
		if err != nil {
			return nil, err
		}
		counts, mode, sources = ExtractDelimited(col), market.FeatureModeDelimited, []string{opts.Column}
	case len(opts.Columns) > 0:
		counts, sources = ExtractColumns(table, opts.Columns)
		mode = market.FeatureModeColumns
	default:
		name, ok := DetectColumn(table.Columns(), featureKeywords...)
		if !ok {
			return nil, core.ErrNoFeatureSource
		}
		col, err := table.Column(name)
		if err != nil {
			return nil, err
		}
		counts, mode, sources = ExtractDelimited(col), market.FeatureModeDelimited, []string{name}
	}

	results := &market.FeatureResults{
		TotalUniqueFeatures: len(counts),
		TotalFeatures:       counts.Total(),
		TopFeatures:         []market.FeatureCount{},
		TotalRecords:        totalRecords,
		Mode:                mode,
		SourceColumns:       sources,
	}
	if len(counts) == 0 {
		return market.NewAgentResult(results, 0.0, at), nil
	}

	overall := 0.0
	for _, entry := range counts.Top(opts.TopN) {
		c := confidence(entry.Count, totalRecords)
		overall += c
		results.TopFeatures = append(results.TopFeatures, market.FeatureCount{
			Feature:    entry.Label,
			Count:      entry.Count,
			Confidence: round(c, 4),
		})
	}
	return market.NewAgentResult(results, round(math.Min(overall, 1.0), 4), at), nil
}
