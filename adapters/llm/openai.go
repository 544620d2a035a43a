package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"marketlens/ports"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIGenerator calls an OpenAI-compatible /chat/completions endpoint.
type OpenAIGenerator struct {
	APIKey  string
	BaseURL string
	client  *http.Client
}

// NewOpenAIGenerator creates a generator; an empty baseURL targets api.openai.com.
func NewOpenAIGenerator(apiKey, baseURL string, timeout time.Duration) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing OpenAI API key")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return &OpenAIGenerator{
		APIKey:  apiKey,
		BaseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// Provider names the backend
func (g *OpenAIGenerator) Provider() string { return "openai" }

// Generate sends one user message and returns the first choice.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string, params ports.GenerationParams) (string, error) {
	if strings.TrimSpace(params.Model) == "" {
		return "", fmt.Errorf("missing model")
	}

	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type reqBody struct {
		Model       string  `json:"model"`
		Messages    []msg   `json:"messages"`
		Temperature float64 `json:"temperature"`
		TopP        float64 `json:"top_p,omitempty"`
		MaxTokens   int     `json:"max_tokens,omitempty"`
	}
	body := reqBody{
		Model:       params.Model,
		Messages:    []msg{{Role: "user", Content: prompt}},
		Temperature: params.Temperature,
		TopP:        params.TopP,
		MaxTokens:   params.MaxOutputTokens,
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(g.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai http %d: %s", resp.StatusCode, string(respRaw))
	}

	var decoded struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respRaw, &decoded); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}
	return decoded.Choices[0].Message.Content, nil
}
