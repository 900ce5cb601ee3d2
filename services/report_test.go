package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"electronics-arbitrage/models"
)

func sampleOpportunities() []models.Opportunity {
	buy := listing("iPhone 13 Pro 128GB", "RetailerA", 15000)
	compare := listing("Used iPhone 13 Pro 128GB", "RetailerB", 18000)
	return []models.Opportunity{
		{
			Buy:                 buy,
			Compare:             compare,
			PriceDifference:     3000,
			ProfitMarginPercent: 20,
			Group:               []*models.Listing{buy, compare},
		},
		{
			Buy:                 listing("Galaxy S22", "RetailerC", 8000),
			Compare:             listing("Galaxy S22", "RetailerD", 9600),
			PriceDifference:     1600,
			ProfitMarginPercent: 20,
			Group: []*models.Listing{
				listing("Galaxy S22", "RetailerC", 8000),
				listing("Galaxy S22", "RetailerD", 9600),
			},
		},
	}
}

func TestReportJSONFieldNames(t *testing.T) {
	dir := t.TempDir()
	svc := NewReportService(newTestLogger(), dir, "test")

	path, err := svc.WriteJSON(sampleOpportunities())
	if err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var doc []map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("opportunities document is not a JSON array: %v", err)
	}
	if len(doc) != 2 {
		t.Fatalf("document entries = %d; want 2", len(doc))
	}

	first := doc[0]
	for _, key := range []string{"buy_item", "sell_comparison", "price_difference", "profit_margin_percent", "group"} {
		if _, ok := first[key]; !ok {
			t.Errorf("missing field %q in opportunity document", key)
		}
	}

	buy, ok := first["buy_item"].(map[string]any)
	if !ok {
		t.Fatal("buy_item is not an object")
	}
	for _, key := range []string{"name", "price_zar", "website", "url"} {
		if _, ok := buy[key]; !ok {
			t.Errorf("missing field %q in buy_item", key)
		}
	}

	// Input order must be preserved in the document.
	if buy["website"] != "RetailerA" {
		t.Errorf("first entry buy website = %v; want RetailerA", buy["website"])
	}
}

func TestReportEmptyInputWritesEmptyArray(t *testing.T) {
	dir := t.TempDir()
	svc := NewReportService(newTestLogger(), dir, "test")

	path, err := svc.WriteJSON(nil)
	if err != nil {
		t.Fatalf("WriteJSON(nil): %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc []any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("empty document must still be a JSON array: %v", err)
	}
	if len(doc) != 0 {
		t.Errorf("expected empty array, got %d entries", len(doc))
	}
}

func TestReportHTMLContainsAllOpportunities(t *testing.T) {
	dir := t.TempDir()
	svc := NewReportService(newTestLogger(), dir, "test")

	path, err := svc.WriteHTML(sampleOpportunities())
	if err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)

	for _, want := range []string{
		"Opportunity #1", "Opportunity #2",
		"BUY FROM: RetailerA", "COMPARE WITH: RetailerB",
		"R15000.00", "R18000.00",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML report missing %q", want)
		}
	}

	if !strings.Contains(path, filepath.Join(dir, "opportunities_report_test.html")) {
		t.Errorf("unexpected report path %q", path)
	}
}

func TestTruncateKeepsValidUTF8(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short passes through", "iPhone 13 Pro", 40, "iPhone 13 Pro"},
		{"ascii cut", "iPhone 13 Pro Max 256GB Sierra Blue Dual SIM", 20, "iPhone 13 Pro Max..."},
		{"multi-byte cut lands between runes", "Téléphone Galaxy S22 Ultra édition spéciale", 20, "Téléphone Galaxy ..."},
		{"exact length untouched", "Galaxy S22", 10, "Galaxy S22"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.max)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q; want %q", tt.in, tt.max, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate produced invalid UTF-8: %q", got)
			}
		})
	}
}
