package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"marketlens/ports"

	"google.golang.org/genai"
)

// GeminiGenerator generates text with the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
}

// NewGeminiGenerator creates a Gemini client for apiKey. baseURL is only set
// when pointing at a proxy or test server.
func NewGeminiGenerator(ctx context.Context, apiKey, baseURL string, timeout time.Duration) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key required: set GEMINI_API_KEY")
	}
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiGenerator{client: client}, nil
}

// Provider names the backend
func (g *GeminiGenerator) Provider() string { return "gemini" }

// Generate makes a single GenerateContent call.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, params ports.GenerationParams) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(params.Temperature)),
		MaxOutputTokens: int32(params.MaxOutputTokens),
	}
	if params.TopP > 0 {
		config.TopP = genai.Ptr(float32(params.TopP))
	}
	if params.TopK > 0 {
		config.TopK = genai.Ptr(float32(params.TopK))
	}

	resp, err := g.client.Models.GenerateContent(ctx, params.Model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned no text")
	}
	return text, nil
}
