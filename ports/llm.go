package ports

import (
	"context"

	"marketlens/domain/market"
)

// GenerationParams bounds one text-generation call.
type GenerationParams struct {
	Model           string
	Temperature     float64
	TopP            float64
	TopK            int
	MaxOutputTokens int
}

// TextGenerator is the boundary to an external prose-generation service. One call
// is one network round-trip; implementations never retry.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
	Provider() string
}

// Summarizer turns a list of agent results into a summary envelope. It never
// fails: generation problems are reported inside the envelope.
type Summarizer interface {
	Summarize(ctx context.Context, results []*market.AgentResult) *market.SummaryResult
}
