package llm

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed prompts/*.txt
var embeddedPrompts embed.FS

// MarketSummaryPrompt is the template used for bundle summaries.
const MarketSummaryPrompt = "market_summary"

// PromptManager loads prompt templates from a directory, falling back to the
// built-in templates.
type PromptManager struct {
	PromptsDir string
}

// NewPromptManager creates a prompt manager; an empty dir uses only built-ins.
func NewPromptManager(promptsDir string) *PromptManager {
	return &PromptManager{PromptsDir: promptsDir}
}

// LoadPrompt loads a prompt template by name
func (pm *PromptManager) LoadPrompt(name string) (string, error) {
	if pm.PromptsDir != "" {
		content, err := os.ReadFile(filepath.Join(pm.PromptsDir, name+".txt"))
		if err == nil {
			return string(content), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to load prompt %s: %w", name, err)
		}
	}

	content, err := embeddedPrompts.ReadFile("prompts/" + name + ".txt")
	if err != nil {
		return "", fmt.Errorf("prompt template not found: %s", name)
	}
	return string(content), nil
}

// RenderPrompt replaces {PLACEHOLDER} with values
func (pm *PromptManager) RenderPrompt(name string, replacements map[string]string) (string, error) {
	template, err := pm.LoadPrompt(name)
	if err != nil {
		return "", err
	}

	result := template
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, "{"+placeholder+"}", value)
	}
	return result, nil
}
