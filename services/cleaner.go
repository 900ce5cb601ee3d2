package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"electronics-arbitrage/models"
	"electronics-arbitrage/utils"
)

// priceRegexp captures the first numeric price value in a raw price string.
var priceRegexp = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)

// Cleaner enriches RawListings into immutable, comparable Listings:
// price parsing, name normalization, spec extraction, and currency
// conversion. Enrichment is per-item independent and runs through a
// bounded worker pool; input order is preserved in the output.
type Cleaner struct {
	logger    *utils.Logger
	converter *Converter
	base      string
	pool      *utils.WorkerPool
}

// NewCleaner creates a Cleaner converting into the given reference currency.
func NewCleaner(logger *utils.Logger, converter *Converter, base string, maxConcurrency, rateLimitMs int) *Cleaner {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Cleaner{
		logger:    logger,
		converter: converter,
		base:      strings.ToUpper(base),
		pool:      utils.NewWorkerPool(maxConcurrency, rateLimitMs),
	}
}

// Clean processes raw listings and returns enriched records in arrival order.
// Listings with an empty URL are dropped; duplicate URLs are skipped.
func (c *Cleaner) Clean(raw []*models.RawListing) []*models.Listing {
	seen := utils.NewKeySet()
	kept := make([]*models.RawListing, 0, len(raw))

	for _, r := range raw {
		url := strings.TrimSpace(r.URL)
		if url == "" {
			c.logger.Warn("[cleaner] Dropping listing with empty URL: %s", r.Name)
			continue
		}
		if !seen.Add(url) {
			c.logger.Debug("[cleaner] Duplicate URL skipped: %s", url)
			continue
		}
		kept = append(kept, r)
	}

	result := make([]*models.Listing, len(kept))
	for i, r := range kept {
		i, r := i, r
		c.pool.Submit(func() {
			result[i] = c.enrich(r)
		})
	}
	c.pool.Wait()

	c.logger.Info("[cleaner] Enriched %d → %d listings (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// enrich derives every computed Listing field exactly once. The record is
// never mutated afterward.
func (c *Cleaner) enrich(r *models.RawListing) *models.Listing {
	currency := strings.ToUpper(strings.TrimSpace(r.Currency))
	if currency == "" {
		currency = c.base
	}

	observedAt := r.ScrapedAt
	if observedAt.IsZero() {
		observedAt = time.Now()
	}

	price := c.parsePrice(r.RawPrice)

	return &models.Listing{
		RawName:        strings.TrimSpace(r.Name),
		NormalizedName: NormalizeProductName(r.Name),
		Price:          price,
		Currency:       currency,
		PriceZAR:       c.converter.ToReference(price, currency),
		Specs:          ExtractSpecs(r.SpecsText),
		URL:            strings.TrimSpace(r.URL),
		Retailer:       strings.TrimSpace(r.Retailer),
		Category:       strings.TrimSpace(r.Category),
		ImageURL:       strings.TrimSpace(r.ImageURL),
		ObservedAt:     observedAt,
	}
}

// parsePrice extracts a positive price from a raw string such as
// "R 12,999.00" or "ZAR 15000". Unparsable or zero prices yield nil so the
// listing continues through the pipeline with degraded data.
func (c *Cleaner) parsePrice(raw string) *float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	match := priceRegexp.FindString(cleaned)
	if match == "" {
		return nil
	}

	val, err := strconv.ParseFloat(match, 64)
	if err != nil || val == 0 {
		return nil
	}
	return &val
}
