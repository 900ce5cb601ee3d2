package services

import (
	"testing"
	"time"

	"electronics-arbitrage/models"
)

func newTestCleaner(t *testing.T) *Cleaner {
	t.Helper()
	return NewCleaner(newTestLogger(), newTestConverter(t, ""), "ZAR", 2, 0)
}

func TestCleanerParsePrice(t *testing.T) {
	c := newTestCleaner(t)

	tests := []struct {
		raw  string
		want *float64
	}{
		{"R 12,999.00", ptr(12999.00)},
		{"15000", ptr(15000)},
		{"ZAR 1,299", ptr(1299)},
		{"$499.99", ptr(499.99)},
		{"", nil},
		{"contact us", nil},
		{"0", nil},
	}

	for _, tt := range tests {
		got := c.parsePrice(tt.raw)
		if (got == nil) != (tt.want == nil) {
			t.Errorf("parsePrice(%q) = %v; want %v", tt.raw, got, tt.want)
			continue
		}
		if got != nil && *got != *tt.want {
			t.Errorf("parsePrice(%q) = %.2f; want %.2f", tt.raw, *got, *tt.want)
		}
	}
}

func TestCleanerEnrichment(t *testing.T) {
	c := newTestCleaner(t)

	raw := []*models.RawListing{
		{Name: "Used iPhone 13 Pro 128GB", RawPrice: "R 18,000", URL: "https://b.example/1", Retailer: "RetailerB", SpecsText: `128GB, 6.1" display`},
		{Name: "iPhone 13 Pro 128GB", RawPrice: "100", Currency: "USD", URL: "https://a.example/1", Retailer: "RetailerA"},
		{Name: "Broken thing", RawPrice: "call for price", URL: "https://c.example/1", Retailer: "RetailerC"},
	}

	listings := c.Clean(raw)
	if len(listings) != 3 {
		t.Fatalf("expected 3 listings, got %d", len(listings))
	}

	// Input order preserved despite parallel enrichment.
	if listings[0].Retailer != "RetailerB" || listings[1].Retailer != "RetailerA" {
		t.Errorf("arrival order not preserved: %q, %q", listings[0].Retailer, listings[1].Retailer)
	}

	if listings[0].NormalizedName != "iphone 13 pro 128gb" {
		t.Errorf("NormalizedName = %q; want %q", listings[0].NormalizedName, "iphone 13 pro 128gb")
	}
	if listings[0].Currency != "ZAR" {
		t.Errorf("default currency = %q; want ZAR", listings[0].Currency)
	}
	if listings[0].Specs["storage"] != "128GB" {
		t.Errorf("specs storage = %q; want 128GB", listings[0].Specs["storage"])
	}

	// USD converted via the built-in table.
	if listings[1].PriceZAR == nil || *listings[1].PriceZAR != 1850.00 {
		t.Errorf("PriceZAR = %v; want 1850.00", listings[1].PriceZAR)
	}

	// Reference price present iff price present.
	for _, l := range listings {
		if (l.Price == nil) != (l.PriceZAR == nil) {
			t.Errorf("listing %q: Price=%v PriceZAR=%v; must be present or absent together",
				l.RawName, l.Price, l.PriceZAR)
		}
	}
	if listings[2].Price != nil {
		t.Errorf("unparsable price should be nil, got %v", *listings[2].Price)
	}
}

func TestCleanerDropsEmptyURL(t *testing.T) {
	c := newTestCleaner(t)
	raw := []*models.RawListing{
		{Name: "No URL", RawPrice: "100", URL: "", Retailer: "RetailerA", ScrapedAt: time.Now()},
		{Name: "Has URL", RawPrice: "200", URL: "https://a.example/1", Retailer: "RetailerA", ScrapedAt: time.Now()},
	}

	cleaned := c.Clean(raw)
	if len(cleaned) != 1 {
		t.Errorf("expected 1 listing after dropping empty URL, got %d", len(cleaned))
	}
}

func TestCleanerDeduplicatesURL(t *testing.T) {
	c := newTestCleaner(t)
	raw := []*models.RawListing{
		{Name: "A", URL: "https://a.example/1", Retailer: "RetailerA", ScrapedAt: time.Now()},
		{Name: "B", URL: "https://a.example/1", Retailer: "RetailerA", ScrapedAt: time.Now()},
	}

	cleaned := c.Clean(raw)
	if len(cleaned) != 1 {
		t.Errorf("expected 1 listing after deduplication, got %d", len(cleaned))
	}
}
