package container

import (
	"context"
	"fmt"

	"marketlens/adapters/excel"
	"marketlens/adapters/llm"
	"marketlens/app"
	"marketlens/internal"
	"marketlens/internal/config"
	idataset "marketlens/internal/dataset"
	"marketlens/ui"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Ingestion
	Loader *idataset.Loader

	// Summarization boundary; always non-nil, reports failures in its envelope
	Summarizer *llm.Summarizer

	// Orchestration
	Analysis *app.AnalysisService
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	c := &Container{Config: cfg, Logger: logger}
	c.initIngestion()
	c.initSummarizer(ctx)
	c.initAnalysis()

	logger.Debug("[Container] initialized: provider=%s model=%s", cfg.LLM.Provider, cfg.LLM.Model)
	return c, nil
}

func (c *Container) initIngestion() {
	upload := idataset.DefaultUploadConfig()
	if c.Config.Server.MaxUploadBytes > 0 {
		upload.MaxFileSize = c.Config.Server.MaxUploadBytes
	}
	c.Loader = idataset.NewLoader(
		excel.ReaderConfig{Sheet: c.Config.Analysis.Sheet},
		idataset.DefaultCoercionConfig(),
		upload,
		c.Logger,
	)
}

func (c *Container) initSummarizer(ctx context.Context) {
	c.Summarizer = llm.NewSummarizerFromConfig(ctx, c.Config.LLM, c.Logger)
}

func (c *Container) initAnalysis() {
	c.Analysis = app.NewAnalysisService(c.Summarizer, c.Logger)
}

// Server builds the HTTP server over the container's services.
func (c *Container) Server() *ui.Server {
	return ui.NewServer(c.Loader, c.Analysis, c.Config.Analysis, c.Config.Server, c.Logger)
}
