package app

import (
	"context"
	"time"

	"marketlens/domain/core"
	"marketlens/domain/dataset"
	"marketlens/domain/market"
	"marketlens/internal"
	"marketlens/internal/aggregate"
	idataset "marketlens/internal/dataset"
	"marketlens/internal/errors"
	"marketlens/ports"

	"golang.org/x/sync/errgroup"
)

// AnalysisService runs the four aggregators over one table and assembles the
// bundle. A failing aggregator aborts the whole analysis.
type AnalysisService struct {
	summarizer ports.Summarizer
	clock      aggregate.Clock
	logger     *internal.Logger
}

// NewAnalysisService creates an analysis service; summarizer may be nil when
// summaries are never requested.
func NewAnalysisService(summarizer ports.Summarizer, logger *internal.Logger) *AnalysisService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AnalysisService{summarizer: summarizer, clock: core.Now, logger: logger}
}

// WithClock replaces the time source; used to pin timestamps in tests.
func (s *AnalysisService) WithClock(clock aggregate.Clock) *AnalysisService {
	s.clock = clock
	return s
}

// AnalysisRequest is a full pipeline invocation over an uncleaned table.
type AnalysisRequest struct {
	Table     *dataset.Table
	Clean     idataset.CleanOptions
	Options   AnalysisOptions
	Summarize bool
}

// Analyze cleans the table, runs the aggregators and optionally summarizes.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalysisRequest) (*market.AnalysisBundle, error) {
	cleaned, err := idataset.ValidateAndClean(req.Table, req.Clean)
	if err != nil {
		return nil, errors.Wrap(err, "dataset validation failed")
	}
	s.logger.Debug("[AnalysisService] cleaned table: %d of %d rows kept", cleaned.Len(), req.Table.Len())

	bundle, err := s.Run(ctx, cleaned, req.Options)
	if err != nil {
		return nil, err
	}
	if req.Summarize {
		s.Summarize(ctx, bundle)
	}
	return bundle, nil
}

// resolveFeatureColumns fills in feature columns the caller left empty by
// scanning column names.
func resolveFeatureColumns(table *dataset.Table, opts AnalysisOptions) AnalysisOptions {
	if opts.Gap.FeatureColumn == "" {
		if opts.Feature.Column != "" {
			opts.Gap.FeatureColumn = opts.Feature.Column
		} else if name, ok := aggregate.DetectColumn(table.Columns(), "feature"); ok {
			opts.Gap.FeatureColumn = name
		}
	}
	return opts
}

// Run executes the aggregators concurrently over an already-validated table.
// Every result and the bundle share one timestamp.
func (s *AnalysisService) Run(ctx context.Context, table *dataset.Table, opts AnalysisOptions) (*market.AnalysisBundle, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid analysis options")
	}
	opts = resolveFeatureColumns(table, opts)
	if opts.Gap.FeatureColumn == "" {
		return nil, errors.Wrap(core.ErrNoFeatureSource, "gap_agent failed")
	}

	start := time.Now()
	at := s.clock()
	pinned := func() core.Timestamp { return at }

	aggregators := []ports.Aggregator{
		aggregate.NewBrandAggregator(opts.Brand, pinned),
		aggregate.NewPricingAggregator(opts.Pricing, pinned),
		aggregate.NewFeatureAggregator(opts.Feature, pinned),
		aggregate.NewGapDetector(opts.Gap, pinned),
	}
	results := make([]*market.AgentResult, len(aggregators))

	g, gctx := errgroup.WithContext(ctx)
	for i, agg := range aggregators {
		g.Go(func() error {
			res, err := agg.Aggregate(gctx, table)
			if err != nil {
				return errors.Wrapf(err, "%s failed", agg.Name())
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn("[AnalysisService] analysis aborted: %v", err)
		return nil, err
	}

	bundle := &market.AnalysisBundle{
		AnalysisID:   core.NewAnalysisID(),
		Timestamp:    at,
		TotalRecords: table.Len(),
		DatasetHash:  table.Fingerprint(),
		Agents: market.AgentSet{
			Brand:   results[0],
			Pricing: results[1],
			Feature: results[2],
			Gap:     results[3],
		},
	}
	s.logger.Info("[AnalysisService] analysis %s completed over %d records in %s",
		bundle.AnalysisID, bundle.TotalRecords, time.Since(start))
	return bundle, nil
}

// Summarize attaches an LLM summary to the bundle. Without a summarizer the
// bundle gets an error envelope.
func (s *AnalysisService) Summarize(ctx context.Context, bundle *market.AnalysisBundle) *market.SummaryResult {
	results := bundle.Results()
	if s.summarizer == nil {
		bundle.LLMSummary = &market.SummaryResult{
			Status:              market.SummaryError,
			Error:               "summarization is not configured",
			NumAgentsSummarized: len(results),
		}
		return bundle.LLMSummary
	}
	bundle.LLMSummary = s.summarizer.Summarize(ctx, results)
	return bundle.LLMSummary
}
