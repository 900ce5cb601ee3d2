package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"electronics-arbitrage/models"
	"electronics-arbitrage/utils"
)

func testListing(name, retailer string, priceZAR float64) *models.Listing {
	l := &models.Listing{
		RawName:        name,
		NormalizedName: strings.ToLower(name),
		Retailer:       retailer,
		Currency:       "ZAR",
		URL:            "https://" + retailer + ".example/" + strings.ReplaceAll(name, " ", "-"),
		ObservedAt:     time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	if priceZAR > 0 {
		l.Price = &priceZAR
		l.PriceZAR = &priceZAR
	}
	return l
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return len(strings.Split(strings.TrimSpace(string(data)), "\n"))
}

func TestStoreFlushWritesSnapshots(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(utils.NewLogger(), dir, "test")
	defer s.Close()

	s.Add(testListing("iPhone 13 Pro", "RetailerA", 15000))
	s.Add(testListing("iPhone 13 Pro", "RetailerB", 18000))

	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	csvPath := filepath.Join(dir, "raw_data_test.csv")
	if got := countLines(t, csvPath); got != 3 { // header + 2 rows
		t.Errorf("csv lines = %d; want 3", got)
	}

	jsonPath := filepath.Join(dir, "raw_data_test.json")
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read json snapshot: %v", err)
	}
	var items []models.Listing
	if err := json.Unmarshal(data, &items); err != nil {
		t.Fatalf("decode json snapshot: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("json items = %d; want 2", len(items))
	}
	if items[0].Retailer != "RetailerA" || items[1].Retailer != "RetailerB" {
		t.Errorf("arrival order not preserved: %q, %q", items[0].Retailer, items[1].Retailer)
	}
}

func TestStoreFlushIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(utils.NewLogger(), dir, "test")
	defer s.Close()

	s.Add(testListing("iPhone 13 Pro", "RetailerA", 15000))
	if err := s.Flush(); err != nil {
		t.Fatalf("first flush: %v", err)
	}

	// Re-flushing with zero new items must not grow or corrupt the snapshot.
	if err := s.Flush(); err != nil {
		t.Fatalf("second flush: %v", err)
	}

	csvPath := filepath.Join(dir, "raw_data_test.csv")
	if got := countLines(t, csvPath); got != 2 {
		t.Errorf("csv lines after idempotent flush = %d; want 2", got)
	}
}

func TestStoreIncrementalFlushAccumulates(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(utils.NewLogger(), dir, "test")
	defer s.Close()

	s.Add(testListing("iPhone 13 Pro", "RetailerA", 15000))
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}

	s.Add(testListing("Galaxy S22", "RetailerB", 12000))
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}

	if got := countLines(t, filepath.Join(dir, "raw_data_test.csv")); got != 3 {
		t.Errorf("csv lines = %d; want 3", got)
	}

	snapshot := s.Snapshot()
	if len(snapshot) != 2 {
		t.Errorf("snapshot size = %d; want 2", len(snapshot))
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d; want 2", s.Len())
	}
}

func TestStoreEmptyRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(utils.NewLogger(), dir, "test")
	defer s.Close()

	if err := s.Flush(); err != nil {
		t.Fatalf("empty flush should not fail: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("empty run must perform no write, found %d files", len(entries))
	}
}

func TestStoreUnpricedListingHasEmptyPriceCells(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(utils.NewLogger(), dir, "test")
	defer s.Close()

	s.Add(testListing("Mystery item", "RetailerA", 0))
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "raw_data_test.json"))
	if err != nil {
		t.Fatal(err)
	}
	var items []map[string]any
	if err := json.Unmarshal(data, &items); err != nil {
		t.Fatal(err)
	}
	if items[0]["price"] != nil || items[0]["price_zar"] != nil {
		t.Errorf("unpriced listing must serialize null prices, got %v / %v",
			items[0]["price"], items[0]["price_zar"])
	}
}
