package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"marketlens/internal/errors"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// MaxTemperature is the sampling temperature ceiling for summarization.
const MaxTemperature = 0.3

// DotEnvFiles are tried in order; the first one present is loaded.
var DotEnvFiles = []string{"!.env", ".env"}

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis"`
	LLM      LLMConfig      `yaml:"llm"`
	Server   ServerConfig   `yaml:"server"`
	LogLevel string         `yaml:"log_level"`
}

// AnalysisConfig holds column names, aggregator sizes and cleaning policy
type AnalysisConfig struct {
	BrandColumn      string   `yaml:"brand_column"`
	PriceColumn      string   `yaml:"price_column"`
	FeatureColumn    string   `yaml:"feature_column"`
	FeatureColumns   []string `yaml:"feature_columns"`
	TopBrands        int      `yaml:"top_n_brands"`
	TopFeatures      int      `yaml:"top_n_features"`
	TopGaps          int      `yaml:"top_n_gaps"`
	GapThreshold     float64  `yaml:"gap_threshold"`
	MinObservations  int      `yaml:"min_observations"`
	RequiredColumns  []string `yaml:"required_columns"`
	CleaningStrategy string   `yaml:"cleaning_strategy"`
	RemoveDuplicates bool     `yaml:"remove_duplicates"`
	Sheet            string   `yaml:"sheet"`
}

// LLMConfig holds summarizer settings
type LLMConfig struct {
	Provider        string        `yaml:"provider"` // gemini, openai or none
	APIKey          string        `yaml:"-"`
	Model           string        `yaml:"model"`
	BaseURL         string        `yaml:"base_url"`
	Temperature     float64       `yaml:"temperature"`
	TopP            float64       `yaml:"top_p"`
	TopK            int           `yaml:"top_k"`
	MaxOutputTokens int           `yaml:"max_output_tokens"`
	Timeout         time.Duration `yaml:"timeout"`
	PromptsDir      string        `yaml:"prompts_dir"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port           string `yaml:"port"`
	GinMode        string `yaml:"gin_mode"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

// LoadDotEnv loads the first dotenv file that exists. It reports which file
// was loaded, or "" when none was found.
func LoadDotEnv() (string, error) {
	for _, name := range DotEnvFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return "", errors.Wrapf(err, "failed to load %s", name)
		}
		return name, nil
	}
	return "", nil
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Analysis: loadAnalysisConfig(),
		LLM:      loadLLMConfig(),
		Server:   loadServerConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// DefaultAnalysisConfig returns the defaults used when nothing is configured.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		BrandColumn:      "brand",
		PriceColumn:      "price",
		FeatureColumn:    "feature",
		TopBrands:        10,
		TopFeatures:      15,
		TopGaps:          10,
		GapThreshold:     -0.5,
		MinObservations:  1,
		CleaningStrategy: "drop_rows",
		RemoveDuplicates: true,
	}
}

func loadAnalysisConfig() AnalysisConfig {
	d := DefaultAnalysisConfig()
	return AnalysisConfig{
		BrandColumn:      getEnvOrDefault("BRAND_COLUMN", d.BrandColumn),
		PriceColumn:      getEnvOrDefault("PRICE_COLUMN", d.PriceColumn),
		FeatureColumn:    getEnvOrDefault("FEATURE_COLUMN", d.FeatureColumn),
		FeatureColumns:   getEnvListOrDefault("FEATURE_COLUMNS", nil),
		TopBrands:        getEnvIntOrDefault("TOP_N_BRANDS", d.TopBrands),
		TopFeatures:      getEnvIntOrDefault("TOP_N_FEATURES", d.TopFeatures),
		TopGaps:          getEnvIntOrDefault("TOP_N_GAPS", d.TopGaps),
		GapThreshold:     getEnvFloatOrDefault("GAP_THRESHOLD", d.GapThreshold),
		MinObservations:  getEnvIntOrDefault("MIN_OBSERVATIONS", d.MinObservations),
		RequiredColumns:  getEnvListOrDefault("REQUIRED_COLUMNS", nil),
		CleaningStrategy: getEnvOrDefault("CLEANING_STRATEGY", d.CleaningStrategy),
		RemoveDuplicates: getEnvBoolOrDefault("REMOVE_DUPLICATES", d.RemoveDuplicates),
		Sheet:            getEnvOrDefault("EXCEL_SHEET", ""),
	}
}

func loadLLMConfig() LLMConfig {
	provider := strings.ToLower(getEnvOrDefault("LLM_PROVIDER", "gemini"))

	var apiKey, model string
	switch provider {
	case "openai":
		apiKey = os.Getenv("OPENAI_API_KEY")
		model = getEnvOrDefault("LLM_MODEL", "gpt-4o-mini")
	default:
		apiKey = getEnvOrDefault("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY"))
		model = getEnvOrDefault("LLM_MODEL", "gemini-2.5-flash")
	}

	return LLMConfig{
		Provider:        provider,
		APIKey:          apiKey,
		Model:           model,
		BaseURL:         getEnvOrDefault("LLM_BASE_URL", ""),
		Temperature:     ClampTemperature(getEnvFloatOrDefault("TEMPERATURE", MaxTemperature)),
		TopP:            getEnvFloatOrDefault("TOP_P", 0.95),
		TopK:            getEnvIntOrDefault("TOP_K", 40),
		MaxOutputTokens: getEnvIntOrDefault("MAX_OUTPUT_TOKENS", 1024),
		Timeout:         getEnvDurationOrDefault("LLM_TIMEOUT", 60*time.Second),
		PromptsDir:      getEnvOrDefault("PROMPTS_DIR", ""),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:           getEnvOrDefault("PORT", "8080"),
		GinMode:        getEnvOrDefault("GIN_MODE", "release"),
		MaxUploadBytes: int64(getEnvIntOrDefault("MAX_UPLOAD_BYTES", 50*1024*1024)),
	}
}

// ClampTemperature caps t at MaxTemperature and floors it at zero.
func ClampTemperature(t float64) float64 {
	if t > MaxTemperature {
		return MaxTemperature
	}
	if t < 0 {
		return 0
	}
	return t
}

// Validate rejects settings no analysis could run with.
func (c *Config) Validate() error {
	if err := c.Analysis.Validate(); err != nil {
		return err
	}
	switch c.LLM.Provider {
	case "gemini", "openai", "none":
	default:
		return errors.ConfigInvalid("unknown LLM provider: " + c.LLM.Provider)
	}
	if c.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	return nil
}

// Validate checks sizes, thresholds and the cleaning strategy.
func (a *AnalysisConfig) Validate() error {
	if a.TopBrands < 1 || a.TopFeatures < 1 || a.TopGaps < 1 {
		return errors.ConfigInvalid("top-N sizes must be at least 1")
	}
	if a.MinObservations < 0 {
		return errors.ConfigInvalid("min_observations must not be negative")
	}
	switch a.CleaningStrategy {
	case "drop_rows", "drop_columns", "keep":
	default:
		return errors.ConfigInvalid("unknown cleaning strategy: " + a.CleaningStrategy)
	}
	if a.BrandColumn == "" || a.PriceColumn == "" {
		return errors.ConfigInvalid("brand and price columns are required")
	}
	return nil
}

// LoadOptionsFile overlays a YAML analysis options file onto a. Keys absent
// from the file leave the existing values untouched.
func LoadOptionsFile(path string, a *AnalysisConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read options file %s", path)
	}
	if err := yaml.Unmarshal(data, a); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, errors.Wrapf(err, "failed to parse options file %s", path))
	}
	return a.Validate()
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma-separated value, dropping blanks.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
