package feed

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"electronics-arbitrage/models"
	"electronics-arbitrage/utils"
)

// Source yields the raw listing records collected by the crawling layer.
// The crawlers themselves (scheduling, politeness, rendering) live outside
// this system; everything downstream only sees this interface.
type Source interface {
	Listings() ([]*models.RawListing, error)
}

// JSONFeed reads a crawler export file: a JSON array of raw listing records.
// Field shapes are as loose as crawlers produce them — price may be a number
// or a string, the retailer may appear under "website" or "retailer", and
// the timestamp is optional.
type JSONFeed struct {
	path   string
	logger *utils.Logger
}

// NewJSONFeed creates a JSONFeed reading from the given path.
func NewJSONFeed(path string, logger *utils.Logger) *JSONFeed {
	return &JSONFeed{path: path, logger: logger}
}

// feedRecord is the tolerant wire shape of one crawler record.
type feedRecord struct {
	Name      string          `json:"name"`
	Price     json.RawMessage `json:"price"`
	Currency  string          `json:"currency"`
	Specs     string          `json:"specs"`
	URL       string          `json:"url"`
	Website   string          `json:"website"`
	Retailer  string          `json:"retailer"`
	Category  string          `json:"category"`
	ImageURL  string          `json:"image_url"`
	Timestamp string          `json:"timestamp"`
}

// Listings decodes the export file into raw listing records.
func (f *JSONFeed) Listings() ([]*models.RawListing, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("feed: read %q: %w", f.path, err)
	}

	var records []feedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("feed: decode %q: %w", f.path, err)
	}

	listings := make([]*models.RawListing, 0, len(records))
	for _, rec := range records {
		retailer := rec.Website
		if retailer == "" {
			retailer = rec.Retailer
		}

		listings = append(listings, &models.RawListing{
			Name:      rec.Name,
			RawPrice:  priceString(rec.Price),
			Currency:  rec.Currency,
			SpecsText: rec.Specs,
			URL:       rec.URL,
			Retailer:  retailer,
			Category:  rec.Category,
			ImageURL:  rec.ImageURL,
			ScrapedAt: parseTimestamp(rec.Timestamp),
		})
	}

	f.logger.Info("[feed] Loaded %d raw listings from %s", len(listings), f.path)
	return listings, nil
}

// priceString renders a JSON price value (string, number, or absent) as the
// raw string the cleaner parses.
func priceString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}

	return strings.Trim(string(raw), `"`)
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
