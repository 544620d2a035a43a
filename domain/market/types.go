package market

import (
	"encoding/json"
	"fmt"

	"marketlens/domain/core"
)

// AgentKind tags which aggregator produced an AgentResult.
type AgentKind string

const (
	AgentBrand   AgentKind = "brand_agent"
	AgentPricing AgentKind = "pricing_agent"
	AgentFeature AgentKind = "feature_agent"
	AgentGap     AgentKind = "gap_agent"
)

// Payload is the aggregator-specific body of an AgentResult.
type Payload interface {
	Kind() AgentKind
}

// AgentResult is the uniform envelope every aggregator returns. The JSON field
// names are consumed by export and summarization and must stay stable.
type AgentResult struct {
	AgentName  AgentKind      `json:"agent_name"`
	Results    Payload        `json:"results"`
	Confidence float64        `json:"confidence"`
	Timestamp  core.Timestamp `json:"timestamp"`
}

// NewAgentResult stamps a payload with its kind and the given time.
func NewAgentResult(payload Payload, confidence float64, at core.Timestamp) *AgentResult {
	return &AgentResult{
		AgentName:  payload.Kind(),
		Results:    payload,
		Confidence: confidence,
		Timestamp:  at,
	}
}

// UnmarshalJSON decodes results into the concrete payload named by agent_name.
func (r *AgentResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		AgentName  AgentKind       `json:"agent_name"`
		Results    json.RawMessage `json:"results"`
		Confidence float64         `json:"confidence"`
		Timestamp  core.Timestamp  `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var payload Payload
	switch raw.AgentName {
	case AgentBrand:
		payload = &BrandResults{}
	case AgentPricing:
		payload = &PricingResults{}
	case AgentFeature:
		payload = &FeatureResults{}
	case AgentGap:
		payload = &GapResults{}
	default:
		return fmt.Errorf("unknown agent_name %q", raw.AgentName)
	}
	if len(raw.Results) > 0 && string(raw.Results) != "null" {
		if err := json.Unmarshal(raw.Results, payload); err != nil {
			return fmt.Errorf("decode %s results: %w", raw.AgentName, err)
		}
	}

	r.AgentName = raw.AgentName
	r.Results = payload
	r.Confidence = raw.Confidence
	r.Timestamp = raw.Timestamp
	return nil
}

// BrandCount is one ranked entry of the brand aggregator.
type BrandCount struct {
	Brand      string  `json:"brand"`
	Count      int     `json:"count"`
	Confidence float64 `json:"confidence"`
}

// BrandResults is the brand aggregator payload.
type BrandResults struct {
	TotalUniqueBrands int          `json:"total_unique_brands"`
	TopBrands         []BrandCount `json:"top_brands"`
	TotalRecords      int          `json:"total_records"`
}

func (*BrandResults) Kind() AgentKind { return AgentBrand }

// FeatureCount is one ranked entry of the feature aggregator.
type FeatureCount struct {
	Feature    string  `json:"feature"`
	Count      int     `json:"count"`
	Confidence float64 `json:"confidence"`
}

// FeatureMode records how features were extracted.
type FeatureMode string

const (
	FeatureModeDelimited FeatureMode = "delimited_column"
	FeatureModeColumns   FeatureMode = "multiple_columns"
)

// FeatureResults is the feature aggregator payload. TotalFeatures counts every
// extracted mention; TotalUniqueFeatures counts distinct labels.
type FeatureResults struct {
	TotalUniqueFeatures int            `json:"total_unique_features"`
	TotalFeatures       int            `json:"total_features"`
	TopFeatures         []FeatureCount `json:"top_features"`
	TotalRecords        int            `json:"total_records"`
	Mode                FeatureMode    `json:"extraction_mode"`
	SourceColumns       []string       `json:"source_columns"`
}

func (*FeatureResults) Kind() AgentKind { return AgentFeature }

// PriceStatistics holds distribution statistics over valid prices.
type PriceStatistics struct {
	MinPrice    float64 `json:"min_price"`
	MaxPrice    float64 `json:"max_price"`
	MeanPrice   float64 `json:"mean_price"`
	MedianPrice float64 `json:"median_price"`
	StdPrice    float64 `json:"std_price"`
}

// OptimalPriceRange is the interquartile band of observed prices.
type OptimalPriceRange struct {
	Q1Price          float64 `json:"q1_price"`
	MedianPrice      float64 `json:"median_price"`
	Q3Price          float64 `json:"q3_price"`
	OptimalRangeMin  float64 `json:"optimal_range_min"`
	OptimalRangeMax  float64 `json:"optimal_range_max"`
	OptimalRangeSpan float64 `json:"optimal_range_span"`
}

// PricingResults is the pricing aggregator payload.
type PricingResults struct {
	TotalRecords      int               `json:"total_records"`
	ValidPriceRecords int               `json:"valid_price_records"`
	PriceStatistics   PriceStatistics   `json:"price_statistics"`
	OptimalPriceRange OptimalPriceRange `json:"optimal_price_range"`
}

func (*PricingResults) Kind() AgentKind { return AgentPricing }

// Combination is one observed (brand, feature) cell of the contingency table.
type Combination struct {
	Brand         string  `json:"brand"`
	Feature       string  `json:"feature"`
	ObservedCount int     `json:"observed_count"`
	ExpectedCount float64 `json:"expected_count"`
	GapScore      float64 `json:"gap_score"`
}

// IndependenceTest summarizes the chi-square statistic over observed cells only.
type IndependenceTest struct {
	ChiSquare        float64 `json:"chi_square"`
	DegreesOfFreedom int     `json:"degrees_of_freedom"`
	PValue           float64 `json:"p_value"`
}

// GapResults is the gap detector payload.
type GapResults struct {
	TotalCombinations   int               `json:"total_combinations"`
	IdentifiedGapsCount int               `json:"identified_gaps_count"`
	TopGaps             []Combination     `json:"top_gaps"`
	TotalRecords        int               `json:"total_records"`
	GapThreshold        float64           `json:"gap_threshold"`
	MinObservations     int               `json:"min_observations"`
	Independence        *IndependenceTest `json:"independence_test,omitempty"`
}

func (*GapResults) Kind() AgentKind { return AgentGap }
