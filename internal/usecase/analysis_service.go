package usecase

import (
	"log"

	"github.com/marketlens/backend/internal/domain"
)

// AnalysisServiceConfig holds configuration for the analysis pipeline.
type AnalysisServiceConfig struct {
	EnableDebugLogging bool
}

// AnalysisService runs the full pipeline over one raw batch: normalize, categorize,
// review analysis, insight and conclusion generation. Each run is independent and
// deterministic; the service keeps no state between runs, so running it twice on the
// same batch produces identical reports.
type AnalysisService struct {
	normalizer  *Normalizer
	reviews     *ReviewAnalyzer
	insights    *InsightService
	conclusions *ConclusionService
	debug       bool
}

// NewAnalysisService creates the pipeline with its component services.
func NewAnalysisService(config AnalysisServiceConfig) *AnalysisService {
	return &AnalysisService{
		normalizer:  NewNormalizer(config.EnableDebugLogging),
		reviews:     NewReviewAnalyzer(config.EnableDebugLogging),
		insights:    NewInsightService(),
		conclusions: NewConclusionService(),
		debug:       config.EnableDebugLogging,
	}
}

// Analyze produces the full report for one batch. An empty batch yields an empty
// table, no review aggregate, and empty insight/conclusion content rather than an
// error; nothing in the pipeline fails on data shape.
func (s *AnalysisService) Analyze(batch []domain.RawRecord) *domain.Report {
	table := s.normalizer.Normalize(batch)
	s.normalizer.Categorize(table)

	report := &domain.Report{
		Overview:    buildOverview(table),
		Table:       table,
		Reviews:     s.reviews.Analyze(batch),
		Insights:    s.insights.Insights(table),
		Conclusions: s.conclusions.Conclusions(table),
	}

	if s.debug {
		log.Printf("[PIPELINE] analyzed %d records: %d insights, %d conclusions, reviews=%v",
			len(batch), len(report.Insights), len(report.Conclusions), report.Reviews != nil)
	}

	return report
}

// Normalizer exposes the table builder for callers that need the table alone,
// such as the CSV export handler.
func (s *AnalysisService) Normalizer() *Normalizer {
	return s.normalizer
}

// buildOverview computes the headline metrics, each gated on column availability.
func buildOverview(table *domain.Table) domain.Overview {
	overview := domain.Overview{TotalProducts: table.Len()}

	if table.Columns.RealPrice {
		if prices := collectPrices(table); len(prices) > 0 {
			avg := mean(prices)
			overview.AveragePrice = &avg
		}
	}
	if table.Columns.Rating {
		if ratings := collectRatings(table); len(ratings) > 0 {
			avg := mean(ratings)
			overview.AverageRating = &avg
		}
	}
	if table.Columns.SoldCount {
		if sold := collectSold(table); len(sold) > 0 {
			total := sum(sold)
			overview.TotalSold = &total
		}
	}

	return overview
}
