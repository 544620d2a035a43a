package market

import (
	"marketlens/domain/core"
)

// AgentSet holds one result per aggregator.
type AgentSet struct {
	Brand   *AgentResult `json:"brand"`
	Pricing *AgentResult `json:"pricing"`
	Feature *AgentResult `json:"feature"`
	Gap     *AgentResult `json:"gap"`
}

// AnalysisBundle is the orchestrator output for one analysis invocation.
type AnalysisBundle struct {
	AnalysisID   core.AnalysisID  `json:"analysis_id"`
	Timestamp    core.Timestamp   `json:"timestamp"`
	TotalRecords int              `json:"total_records"`
	DatasetHash  core.DatasetHash `json:"dataset_hash"`
	Agents       AgentSet         `json:"agents"`
	LLMSummary   *SummaryResult   `json:"llm_summary,omitempty"`
}

// Results lists the agent results in the fixed order brand, pricing, feature, gap,
// skipping any that are absent.
func (b *AnalysisBundle) Results() []*AgentResult {
	out := make([]*AgentResult, 0, 4)
	for _, r := range []*AgentResult{b.Agents.Brand, b.Agents.Pricing, b.Agents.Feature, b.Agents.Gap} {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// SummaryStatus is the outcome of the summarization boundary call.
type SummaryStatus string

const (
	SummarySuccess SummaryStatus = "success"
	SummaryError   SummaryStatus = "error"
)

// SummaryResult is the envelope returned by the summarizer. Exactly one of
// Summary or Error is set, according to Status.
type SummaryResult struct {
	Summary             string        `json:"summary,omitempty"`
	Error               string        `json:"error,omitempty"`
	Model               string        `json:"model"`
	Temperature         float64       `json:"temperature"`
	NumAgentsSummarized int           `json:"num_agents_summarized"`
	Status              SummaryStatus `json:"status"`
}

// OK reports whether the summary was produced.
func (s *SummaryResult) OK() bool {
	return s != nil && s.Status == SummarySuccess
}
