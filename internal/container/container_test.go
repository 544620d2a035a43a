package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketlens/domain/market"
	"marketlens/internal"
	"marketlens/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Analysis: config.DefaultAnalysisConfig(),
		LLM:      config.LLMConfig{Provider: "gemini", Model: "gemini-2.5-flash", Temperature: 0.3},
		Server:   config.ServerConfig{Port: "8080", GinMode: gin.TestMode, MaxUploadBytes: 1 << 20},
		LogLevel: "ERROR",
	}
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestNew_WiresServices(t *testing.T) {
	c, err := New(context.Background(), testConfig(), internal.NewNopLogger())
	require.NoError(t, err)

	assert.NotNil(t, c.Loader)
	assert.NotNil(t, c.Summarizer)
	assert.NotNil(t, c.Analysis)

	rec := httptest.NewRecorder()
	c.Server().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNew_MissingKeyYieldsErrorEnvelope(t *testing.T) {
	c, err := New(context.Background(), testConfig(), internal.NewNopLogger())
	require.NoError(t, err)

	res := c.Summarizer.Summarize(context.Background(), []*market.AgentResult{})
	assert.Equal(t, market.SummaryError, res.Status)
	assert.Contains(t, res.Error, "GEMINI_API_KEY")
}
