package main

import (
	"fmt"
	"os"
	"time"

	"electronics-arbitrage/config"
	"electronics-arbitrage/feed"
	"electronics-arbitrage/services"
	"electronics-arbitrage/storage"
	"electronics-arbitrage/utils"
)

func main() {
	cfg := config.Load()

	logger, err := utils.NewRunLogger(cfg.LogDir)
	if err != nil {
		logger = utils.NewLogger()
		logger.Warn("Run log file unavailable, logging to console only: %v", err)
	}
	defer logger.Close()

	logger.Info("=== Electronics Arbitrage Scanner starting ===")
	logger.Info("Config — reference: %s | threshold: %.2f | min margin: %.1f%% | concurrency: %d",
		cfg.ReferenceCurrency, cfg.SimilarityThreshold, cfg.MinProfitMargin, cfg.MaxConcurrency)

	runStamp := time.Now().Format("20060102_150405")

	source := feed.NewJSONFeed(cfg.FeedPath, logger)
	rawListings, err := source.Listings()
	if err != nil {
		logger.Error("Failed to load listing feed: %v", err)
		os.Exit(1)
	}

	converter := services.NewConverter(
		logger,
		services.NewRateCache(cfg.RateCachePath),
		cfg.ReferenceCurrency,
		cfg.ExchangeRateAPIKey,
		time.Duration(cfg.RateTimeoutSec)*time.Second,
		cfg.MaxRetries,
	)

	cleaner := services.NewCleaner(logger, converter, cfg.ReferenceCurrency, cfg.MaxConcurrency, cfg.RateLimitMs)
	listings := cleaner.Clean(rawListings)

	store := storage.NewStore(logger, cfg.ResultsDir, runStamp)
	defer store.Close()

	for _, l := range listings {
		store.Add(l)
	}

	if err := store.Flush(); err != nil {
		logger.Error("Snapshot flush failed: %v", err)
	}

	if store.Len() == 0 {
		logger.Warn("No listings to process — exiting without a report")
		return
	}

	if cfg.PostgresEnabled {
		var sink storage.ListingWriter
		sink, err = storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			logger.Error("PostgreSQL unavailable, skipping durable sink: %v", err)
		} else {
			if err := sink.Write(listings); err != nil {
				logger.Error("PostgreSQL write failed: %v", err)
			} else {
				logger.Info("Listings stored in PostgreSQL (table: listings)")
			}
			defer sink.Close()
		}
	}

	matcher := services.NewMatcher(logger, cfg.SimilarityThreshold, cfg.ExactMatchFirst)
	groups := matcher.Group(store.Snapshot())

	detector := services.NewOpportunityDetector(logger, cfg.MinProfitMargin)
	opportunities := detector.Detect(groups)

	reports := services.NewReportService(logger, cfg.ResultsDir, runStamp)
	if _, err := reports.WriteJSON(opportunities); err != nil {
		logger.Error("Opportunities document failed: %v", err)
	}
	if _, err := reports.WriteHTML(opportunities); err != nil {
		logger.Error("HTML report failed: %v", err)
	}
	reports.PrintSummary(opportunities)

	fmt.Printf("\n  Done. %d listings → %d groups → %d opportunities | results in %s\n\n",
		store.Len(), len(groups), len(opportunities), cfg.ResultsDir)
}
