package export

import (
	"encoding/json"
	"io"

	"marketlens/domain/core"
	"marketlens/domain/market"
)

// Report is the downloadable JSON document. AgentOutputs are ordered brand,
// pricing, feature, gap.
type Report struct {
	Timestamp    core.Timestamp        `json:"timestamp"`
	TotalRecords int                   `json:"total_records"`
	AgentOutputs []*market.AgentResult `json:"agent_outputs"`
	LLMSummary   *market.SummaryResult `json:"llm_summary"`
}

// NewReport builds the export document; includeLLM controls whether an
// attached summary is carried over.
func NewReport(bundle *market.AnalysisBundle, includeLLM bool) *Report {
	r := &Report{
		Timestamp:    bundle.Timestamp,
		TotalRecords: bundle.TotalRecords,
		AgentOutputs: bundle.Results(),
	}
	if includeLLM {
		r.LLMSummary = bundle.LLMSummary
	}
	return r
}

// WriteJSON writes the report indented by two spaces without HTML escaping.
func WriteJSON(w io.Writer, bundle *market.AnalysisBundle, includeLLM bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(NewReport(bundle, includeLLM))
}
