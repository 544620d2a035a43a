package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"marketlens/domain/market"
	"marketlens/internal"
	"marketlens/internal/config"
	"marketlens/ports"
)

// Summarizer turns agent results into prose with one generation call.
type Summarizer struct {
	generator   ports.TextGenerator
	unavailable error
	prompts     *PromptManager
	params      ports.GenerationParams
	logger      *internal.Logger
}

// NewSummarizer wraps an existing generator. params.Temperature is clamped.
func NewSummarizer(generator ports.TextGenerator, prompts *PromptManager, params ports.GenerationParams, logger *internal.Logger) *Summarizer {
	if prompts == nil {
		prompts = NewPromptManager("")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	params.Temperature = config.ClampTemperature(params.Temperature)
	s := &Summarizer{generator: generator, prompts: prompts, params: params, logger: logger}
	if generator == nil {
		s.unavailable = fmt.Errorf("no text generator configured")
	}
	return s
}

// NewSummarizerFromConfig builds the generator named by cfg.Provider. A
// generator that cannot be built (for example a missing API key) does not fail
// construction; every Summarize call then returns an error envelope.
func NewSummarizerFromConfig(ctx context.Context, cfg config.LLMConfig, logger *internal.Logger) *Summarizer {
	params := ports.GenerationParams{
		Model:           cfg.Model,
		Temperature:     cfg.Temperature,
		TopP:            cfg.TopP,
		TopK:            cfg.TopK,
		MaxOutputTokens: cfg.MaxOutputTokens,
	}
	prompts := NewPromptManager(cfg.PromptsDir)

	generator, err := NewGenerator(ctx, cfg)
	s := NewSummarizer(generator, prompts, params, logger)
	if err != nil {
		s.unavailable = err
	}
	return s
}

// NewGenerator picks the generator for cfg.Provider.
func NewGenerator(ctx context.Context, cfg config.LLMConfig) (ports.TextGenerator, error) {
	switch cfg.Provider {
	case "openai":
		g, err := NewOpenAIGenerator(cfg.APIKey, cfg.BaseURL, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "gemini", "":
		g, err := NewGeminiGenerator(ctx, cfg.APIKey, cfg.BaseURL, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "none":
		return nil, fmt.Errorf("summarization disabled (LLM_PROVIDER=none)")
	}
	return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
}

// FormatAgentResults renders each result as a bracketed upper-case name, its
// confidence to four places and its results as indented JSON.
func FormatAgentResults(results []*market.AgentResult) (string, error) {
	var lines []string
	for _, r := range results {
		body, err := json.MarshalIndent(r.Results, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode %s results: %w", r.AgentName, err)
		}
		lines = append(lines,
			"\n["+strings.ToUpper(string(r.AgentName))+"]",
			fmt.Sprintf("Confidence: %.4f", r.Confidence),
			"Results: "+string(body),
		)
	}
	return strings.Join(lines, "\n"), nil
}

// Params returns the clamped generation parameters.
func (s *Summarizer) Params() ports.GenerationParams {
	return s.params
}

// Summarize renders the prompt and makes exactly one generation call. Failures
// are reported in the envelope, never as an error.
func (s *Summarizer) Summarize(ctx context.Context, results []*market.AgentResult) *market.SummaryResult {
	out := &market.SummaryResult{
		Model:               s.params.Model,
		Temperature:         s.params.Temperature,
		NumAgentsSummarized: len(results),
	}
	fail := func(err error) *market.SummaryResult {
		s.logger.Warn("[Summarizer] summary failed: %v", err)
		out.Status = market.SummaryError
		out.Error = err.Error()
		return out
	}

	if s.unavailable != nil {
		return fail(s.unavailable)
	}
	formatted, err := FormatAgentResults(results)
	if err != nil {
		return fail(err)
	}
	prompt, err := s.prompts.RenderPrompt(MarketSummaryPrompt, map[string]string{"AGENT_RESULTS": formatted})
	if err != nil {
		return fail(err)
	}

	s.logger.Info("[Summarizer] requesting summary from %s model=%s temperature=%.2f",
		s.generator.Provider(), s.params.Model, s.params.Temperature)
	text, err := s.generator.Generate(ctx, prompt, s.params)
	if err != nil {
		return fail(err)
	}

	out.Status = market.SummarySuccess
	out.Summary = strings.TrimSpace(text)
	return out
}
