package llm

import (
	"context"

	"marketlens/ports"
)

// MockTextGenerator is a canned generator for demos and tests
type MockTextGenerator struct {
	Response string // Set this for testing
	Error    error  // Set this to simulate errors

	Calls      int
	LastPrompt string
	LastParams ports.GenerationParams
}

// Provider names the backend
func (m *MockTextGenerator) Provider() string { return "mock" }

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string, params ports.GenerationParams) (string, error) {
	m.Calls++
	m.LastPrompt = prompt
	m.LastParams = params
	if m.Error != nil {
		return "", m.Error
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return "## Market Overview\nNo live model configured; this is a placeholder summary.", nil
}
