package main

import (
	"fmt"
	"log"
	"os"

	"github.com/marketlens/backend/config"
	httpDelivery "github.com/marketlens/backend/internal/delivery/http"
	"github.com/marketlens/backend/internal/infrastructure/cache"
	"github.com/marketlens/backend/internal/infrastructure/snapshot"
	"github.com/marketlens/backend/internal/infrastructure/tokopedia"
	"github.com/marketlens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting MarketLens Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Upstream API: %s", cfg.Tokopedia.BaseURL)

	// Initialize infrastructure dependencies
	batchCache := cache.NewBatchCache()
	snapshots := snapshot.NewStore(cfg.Snapshot.Path)
	fetcher := tokopedia.NewClient(cfg.Tokopedia.BaseURL)

	debug := cfg.Server.Environment == "development"
	if debug {
		fetcher.SetDebug(true)
		log.Printf("Fetch client debug mode enabled")
	}

	// Initialize usecase layer
	analysis := usecase.NewAnalysisService(usecase.AnalysisServiceConfig{
		EnableDebugLogging: debug,
	})

	log.Printf("Scrape defaults: results=%d, reviews=%d, details=%v, cache TTL=%s",
		cfg.Scrape.MaxResults, cfg.Scrape.MaxReviews,
		cfg.Scrape.IncludeDetails, cfg.Scrape.CacheTTL)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(analysis, fetcher, snapshots, batchCache, httpDelivery.ScrapeDefaults{
		MaxResults:     cfg.Scrape.MaxResults,
		MaxReviews:     cfg.Scrape.MaxReviews,
		IncludeDetails: cfg.Scrape.IncludeDetails,
		IncludeReviews: cfg.Scrape.IncludeReviews,
		CacheTTL:       cfg.Scrape.CacheTTL,
	})

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
