package market

import (
	"encoding/json"
	"testing"
	"time"

	"marketlens/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgentResult_JSONRoundTrip(t *testing.T) {
	at := core.NewTimestamp(time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.UTC))

	tests := []struct {
		name   string
		result *AgentResult
	}{
		{
			name: "brand",
			result: NewAgentResult(&BrandResults{
				TotalUniqueBrands: 3,
				TopBrands:         []BrandCount{{Brand: "A", Count: 2, Confidence: 0.5}},
				TotalRecords:      4,
			}, 0.5, at),
		},
		{
			name: "pricing",
			result: NewAgentResult(&PricingResults{
				TotalRecords:      4,
				ValidPriceRecords: 4,
				PriceStatistics:   PriceStatistics{MinPrice: 100, MaxPrice: 400, MeanPrice: 250, MedianPrice: 250, StdPrice: 129.0994},
				OptimalPriceRange: OptimalPriceRange{Q1Price: 175, MedianPrice: 250, Q3Price: 325, OptimalRangeMin: 175, OptimalRangeMax: 325, OptimalRangeSpan: 150},
			}, 1, at),
		},
		{
			name: "feature",
			result: NewAgentResult(&FeatureResults{
				TotalUniqueFeatures: 1,
				TotalFeatures:       2,
				TopFeatures:         []FeatureCount{{Feature: "5g", Count: 2, Confidence: 1}},
				TotalRecords:        2,
				Mode:                FeatureModeDelimited,
				SourceColumns:       []string{"feature"},
			}, 1, at),
		},
		{
			name: "gap",
			result: NewAgentResult(&GapResults{
				TotalCombinations:   1,
				IdentifiedGapsCount: 1,
				TopGaps:             []Combination{{Brand: "X", Feature: "Y", ObservedCount: 1, ExpectedCount: 2, GapScore: -0.5}},
				TotalRecords:        100,
				GapThreshold:        -0.5,
				MinObservations:     1,
				Independence:        &IndependenceTest{ChiSquare: 0.5, DegreesOfFreedom: 0, PValue: 1},
			}, 0.01, at),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.result)
			require.NoError(t, err)

			var decoded AgentResult
			require.NoError(t, json.Unmarshal(data, &decoded))

			assert.Equal(t, tt.result.AgentName, decoded.AgentName)
			assert.Equal(t, tt.result.Results, decoded.Results)
			assert.Equal(t, tt.result.Confidence, decoded.Confidence)
			assert.True(t, tt.result.Timestamp.Equal(decoded.Timestamp))

			again, err := json.Marshal(&decoded)
			require.NoError(t, err)
			assert.JSONEq(t, string(data), string(again))
		})
	}
}

func TestAgentResult_EnvelopeFieldNames(t *testing.T) {
	r := NewAgentResult(&BrandResults{TopBrands: []BrandCount{}}, 0, core.Now())
	data, err := json.Marshal(r)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, key := range []string{"agent_name", "results", "confidence", "timestamp"} {
		assert.Contains(t, fields, key)
	}
	assert.Len(t, fields, 4)
}

func TestAgentResult_UnknownAgent(t *testing.T) {
	var r AgentResult
	err := json.Unmarshal([]byte(`{"agent_name":"mystery_agent","results":{},"confidence":0,"timestamp":"2025-01-01T00:00:00Z"}`), &r)
	assert.Error(t, err)
}

func TestAnalysisBundle_ResultsOrder(t *testing.T) {
	at := core.Now()
	b := &AnalysisBundle{
		Agents: AgentSet{
			Gap:     NewAgentResult(&GapResults{}, 0, at),
			Brand:   NewAgentResult(&BrandResults{}, 0, at),
			Feature: NewAgentResult(&FeatureResults{}, 0, at),
		},
	}

	var kinds []AgentKind
	for _, r := range b.Results() {
		kinds = append(kinds, r.AgentName)
	}
	assert.Equal(t, []AgentKind{AgentBrand, AgentFeature, AgentGap}, kinds)
}
