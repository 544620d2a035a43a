package ui

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"marketlens/app"
	"marketlens/domain/market"
	"marketlens/internal/config"
	"marketlens/internal/errors"
	"marketlens/internal/export"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleAnalyze accepts a multipart "file" upload, applies query overrides to
// the configured defaults and returns the analysis bundle.
func (s *Server) handleAnalyze(c *gin.Context) {
	if s.maxBody > 0 {
		// Multipart framing adds a little on top of the file itself.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBody+1<<20)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		s.writeError(c, errors.InvalidInput("multipart field \"file\" is required"))
		return
	}
	cfg, err := analysisOverrides(c, s.defaults)
	if err != nil {
		s.writeError(c, err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		s.writeError(c, errors.Wrap(err, "failed to open upload"))
		return
	}
	defer f.Close()

	table, err := s.loader.LoadUpload(fh.Filename, fh.Header.Get("Content-Type"), fh.Size, f)
	if err != nil {
		s.writeError(c, err)
		return
	}

	summarize, _ := strconv.ParseBool(c.DefaultQuery("summarize", "false"))
	bundle, err := s.analysis.Analyze(c.Request.Context(), app.AnalysisRequest{
		Table:     table,
		Clean:     app.CleanOptionsFromConfig(cfg),
		Options:   app.OptionsFromConfig(cfg),
		Summarize: summarize,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

// handleExport converts a posted bundle into the format named in the path.
func (s *Server) handleExport(c *gin.Context) {
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	bundle, ok := s.bindBundle(c)
	if !ok {
		return
	}
	if include, _ := strconv.ParseBool(c.DefaultQuery("include_llm", "true")); !include {
		bundle.LLMSummary = nil
	}

	data, err := export.Bytes(bundle, format)
	if err != nil {
		s.writeError(c, errors.Wrap(err, "export failed"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename(bundle)))
	c.Data(http.StatusOK, format.ContentType(), data)
}

// handleSummarize runs the summarizer over a posted bundle. The envelope is
// returned as-is; a failed generation is reported in its status field.
func (s *Server) handleSummarize(c *gin.Context) {
	bundle, ok := s.bindBundle(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.analysis.Summarize(c.Request.Context(), bundle))
}

func (s *Server) bindBundle(c *gin.Context) (*market.AnalysisBundle, bool) {
	var bundle market.AnalysisBundle
	if err := c.ShouldBindJSON(&bundle); err != nil {
		s.writeError(c, errors.WithCode(errors.CodeInvalidInput, errors.Wrap(err, "invalid analysis bundle")))
		return nil, false
	}
	if len(bundle.Results()) == 0 {
		s.writeError(c, errors.InvalidInput("analysis bundle has no agent results"))
		return nil, false
	}
	return &bundle, true
}

func (s *Server) writeError(c *gin.Context, err error) {
	appErr := errors.FromDomain(err)
	status := errors.HTTPStatus(appErr.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("[HTTP] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error": err.Error(),
		"code":  appErr.Code,
	})
}

// analysisOverrides applies query parameters on top of base.
func analysisOverrides(c *gin.Context, base config.AnalysisConfig) (config.AnalysisConfig, error) {
	cfg := base
	strs := map[string]*string{
		"brand_column":      &cfg.BrandColumn,
		"price_column":      &cfg.PriceColumn,
		"feature_column":    &cfg.FeatureColumn,
		"cleaning_strategy": &cfg.CleaningStrategy,
	}
	for key, dst := range strs {
		if v, ok := c.GetQuery(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	ints := map[string]*int{
		"top_n_brands":     &cfg.TopBrands,
		"top_n_features":   &cfg.TopFeatures,
		"top_n_gaps":       &cfg.TopGaps,
		"min_observations": &cfg.MinObservations,
	}
	for key, dst := range ints {
		if v, ok := c.GetQuery(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return cfg, errors.InvalidInput(fmt.Sprintf("%s must be an integer, got %q", key, v))
			}
			*dst = n
		}
	}

	if v, ok := c.GetQuery("gap_threshold"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, errors.InvalidInput(fmt.Sprintf("gap_threshold must be a number, got %q", v))
		}
		cfg.GapThreshold = f
	}
	if v, ok := c.GetQuery("remove_duplicates"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, errors.InvalidInput(fmt.Sprintf("remove_duplicates must be a boolean, got %q", v))
		}
		cfg.RemoveDuplicates = b
	}
	if v, ok := c.GetQuery("feature_columns"); ok {
		cfg.FeatureColumns = splitList(v)
	}
	if v, ok := c.GetQuery("required_columns"); ok {
		cfg.RequiredColumns = splitList(v)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, errors.WithCode(errors.CodeInvalidInput, err)
	}
	return cfg, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
