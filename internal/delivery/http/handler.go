package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/marketlens/backend/internal/domain"
	"github.com/marketlens/backend/internal/infrastructure/cache"
	"github.com/marketlens/backend/internal/infrastructure/export"
	"github.com/marketlens/backend/internal/infrastructure/snapshot"
	"github.com/marketlens/backend/internal/infrastructure/tokopedia"
	"github.com/marketlens/backend/internal/usecase"
)

// Fetcher is the upstream search/detail/review collaborator.
type Fetcher interface {
	Search(ctx context.Context, keyword string, filters *tokopedia.SearchFilters, opts tokopedia.FetchOptions) ([]domain.RawRecord, error)
}

// SnapshotStore persists and reloads the most recent raw batch.
type SnapshotStore interface {
	Save(batch []domain.RawRecord) error
	Load() ([]domain.RawRecord, error)
}

// ScrapeDefaults are the fetch settings applied when a scrape request leaves them unset.
type ScrapeDefaults struct {
	MaxResults     int
	MaxReviews     int
	IncludeDetails bool
	IncludeReviews bool
	CacheTTL       time.Duration
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	analysis  *usecase.AnalysisService
	fetcher   Fetcher
	snapshots SnapshotStore
	batches   *cache.BatchCache
	keywords  *usecase.KeywordPreprocessor
	defaults  ScrapeDefaults
}

// NewHandler creates a new HTTP handler
func NewHandler(analysis *usecase.AnalysisService, fetcher Fetcher, snapshots SnapshotStore, batches *cache.BatchCache, defaults ScrapeDefaults) *Handler {
	return &Handler{
		analysis:  analysis,
		fetcher:   fetcher,
		snapshots: snapshots,
		batches:   batches,
		keywords:  usecase.NewKeywordPreprocessor(false),
		defaults:  defaults,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "marketlens-backend",
		"version": "1.0.0",
	})
}

// Analyze runs the full pipeline over a raw batch supplied in the request body.
func (h *Handler) Analyze(c *gin.Context) {
	batch, ok := h.readBatch(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.analysis.Analyze(batch))
}

// ScrapeRequest carries the search parameters for a scrape-and-analyze run.
type ScrapeRequest struct {
	Keyword        string   `json:"keyword" binding:"required"`
	MaxResults     int      `json:"max_results"`
	MinPrice       float64  `json:"min_price"`
	MaxPrice       float64  `json:"max_price"`
	MinRating      float64  `json:"min_rating"`
	IncludeDetails *bool    `json:"include_details"`
	IncludeReviews *bool    `json:"include_reviews"`
	MaxReviews     int      `json:"max_reviews"`
	SaveSnapshot   bool     `json:"save_snapshot"`
}

// Scrape fetches a fresh batch from the upstream marketplace and analyzes it. Recently
// fetched batches are served from the scrape cache.
func (h *Handler) Scrape(c *gin.Context) {
	var req ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keyword is required"})
		return
	}

	req.Keyword = h.keywords.Preprocess(req.Keyword)
	if req.Keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keyword is required"})
		return
	}

	opts := tokopedia.FetchOptions{
		MaxResults:        req.MaxResults,
		IncludeDetails:    h.defaults.IncludeDetails,
		IncludeReviews:    h.defaults.IncludeReviews,
		MaxReviewsPerItem: req.MaxReviews,
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = h.defaults.MaxResults
	}
	if opts.MaxReviewsPerItem <= 0 {
		opts.MaxReviewsPerItem = h.defaults.MaxReviews
	}
	if req.IncludeDetails != nil {
		opts.IncludeDetails = *req.IncludeDetails
	}
	if req.IncludeReviews != nil {
		opts.IncludeReviews = *req.IncludeReviews
	}

	var filters *tokopedia.SearchFilters
	if req.MinPrice > 0 || req.MaxPrice > 0 || req.MinRating > 0 {
		filters = &tokopedia.SearchFilters{
			MinPrice:  req.MinPrice,
			MaxPrice:  req.MaxPrice,
			MinRating: req.MinRating,
		}
	}

	cacheKey := scrapeCacheKey(req, opts)
	batch, err := h.batches.Get(cacheKey)
	if err != nil {
		batch, err = h.fetcher.Search(c.Request.Context(), req.Keyword, filters, opts)
		if err != nil {
			status := http.StatusBadGateway
			if errors.Is(err, domain.ErrNoResults) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		h.batches.Set(cacheKey, batch, h.defaults.CacheTTL)
	}

	if req.SaveSnapshot {
		if err := h.snapshots.Save(batch); err != nil {
			// Snapshot persistence is best effort; the analysis still proceeds.
			log.Printf("[HTTP] snapshot save failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, h.analysis.Analyze(batch))
}

// Sample analyzes the persisted batch from a prior run.
func (h *Handler) Sample(c *gin.Context) {
	batch, err := h.snapshots.Load()
	if err != nil {
		if errors.Is(err, domain.ErrNoSnapshot) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no saved batch available; run a scrape first"})
			return
		}
		if errors.Is(err, domain.ErrMalformedBatch) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.analysis.Analyze(batch))
}

// ExportCSV returns the normalized table of the posted batch as a CSV download.
func (h *Handler) ExportCSV(c *gin.Context) {
	batch, ok := h.readBatch(c)
	if !ok {
		return
	}

	table := h.analysis.Normalizer().Normalize(batch)
	h.analysis.Normalizer().Categorize(table)

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, table); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("tokopedia_data_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ExportJSON echoes the posted raw batch as an indented JSON download, unchanged
// from input.
func (h *Handler) ExportJSON(c *gin.Context) {
	batch, ok := h.readBatch(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteJSON(&buf, batch); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("tokopedia_raw_%s.json", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json", buf.Bytes())
}

// readBatch decodes the request body as a raw record batch. A body that is not a JSON
// array of objects is the single fatal input condition and becomes a 400.
func (h *Handler) readBatch(c *gin.Context) ([]domain.RawRecord, bool) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return nil, false
	}

	batch, err := snapshot.DecodeBatch(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return batch, true
}

// scrapeCacheKey derives the cache key from every parameter that changes the fetched
// batch.
func scrapeCacheKey(req ScrapeRequest, opts tokopedia.FetchOptions) string {
	return fmt.Sprintf("scrape:%s:%d:%g:%g:%g:%v:%v:%d",
		req.Keyword, opts.MaxResults,
		req.MinPrice, req.MaxPrice, req.MinRating,
		opts.IncludeDetails, opts.IncludeReviews, opts.MaxReviewsPerItem)
}
