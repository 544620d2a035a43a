// Package aggregate holds the four deterministic market aggregators: brand
// frequency, feature frequency, price distribution and brand/feature gap
// detection. Every aggregator is a pure function of its input table.
package aggregate

import (
	"math"
	"sort"
	"strings"

	"marketlens/domain/core"
)

// CategoryCount maps a category label to its number of occurrences. A fresh
// CategoryCount is built for every call; callers never share one.
type CategoryCount map[string]int

// LabelCount is one entry of a ranked CategoryCount.
type LabelCount struct {
	Label string
	Count int
}

// Add increments label by n.
func (c CategoryCount) Add(label string, n int) {
	c[label] += n
}

// Total sums all counts.
func (c CategoryCount) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Ranked orders entries by count descending, breaking ties by label ascending so
// the ranking never depends on row order.
func (c CategoryCount) Ranked() []LabelCount {
	out := make([]LabelCount, 0, len(c))
	for label, n := range c {
		out = append(out, LabelCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// Top returns at most n ranked entries.
func (c CategoryCount) Top(n int) []LabelCount {
	ranked := c.Ranked()
	if n >= 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// Clock supplies result timestamps; the orchestrator pins it so that every
// result of one analysis shares a timestamp.
type Clock func() core.Timestamp

// confidence is count/total clamped to [0,1]; zero when total is zero.
func confidence(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Min(float64(count)/float64(total), 1.0)
}

func round(x float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(x*p) / p
}

// DetectColumn returns the first candidate whose name contains any keyword,
// case-insensitively.
func DetectColumn(candidates []string, keywords ...string) (string, bool) {
	for _, name := range candidates {
		lower := strings.ToLower(name)
		for _, kw := range keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				return name, true
			}
		}
	}
	return "", false
}
