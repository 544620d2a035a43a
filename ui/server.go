package ui

import (
	"context"
	"errors"
	"net/http"
	"time"

	"marketlens/app"
	"marketlens/internal"
	"marketlens/internal/config"
	idataset "marketlens/internal/dataset"

	"github.com/gin-gonic/gin"
)

// Server exposes analysis, export and summarization over HTTP.
type Server struct {
	router   *gin.Engine
	loader   *idataset.Loader
	analysis *app.AnalysisService
	defaults config.AnalysisConfig
	maxBody  int64
	logger   *internal.Logger
}

// NewServer wires handlers onto a fresh gin engine. defaults seed every
// analysis request before query overrides apply.
func NewServer(loader *idataset.Loader, analysis *app.AnalysisService, defaults config.AnalysisConfig, srv config.ServerConfig, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if srv.GinMode != "" {
		gin.SetMode(srv.GinMode)
	}
	s := &Server{
		router:   gin.New(),
		loader:   loader,
		analysis: analysis,
		defaults: defaults,
		maxBody:  srv.MaxUploadBytes,
		logger:   logger,
	}
	if s.maxBody > 0 {
		s.router.MaxMultipartMemory = s.maxBody
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.POST("/analyze", s.handleAnalyze)
	api.POST("/export/:format", s.handleExport)
	api.POST("/summarize", s.handleSummarize)
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting MarketLens API on http://%s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down MarketLens API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
