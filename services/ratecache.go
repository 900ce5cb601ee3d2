package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"electronics-arbitrage/models"
)

// rateCacheTTL is how long a persisted rate snapshot stays valid.
const rateCacheTTL = 24 * time.Hour

// RateCache persists exchange-rate snapshots to a local JSON file so repeated
// runs within the validity window skip the external lookup. The file is an
// opaque cache: unreadable or malformed content is treated as a miss.
type RateCache struct {
	path string
}

// NewRateCache creates a RateCache backed by the given file path.
func NewRateCache(path string) *RateCache {
	return &RateCache{path: path}
}

// Get returns the cached snapshot if it exists and is still valid at now.
// A missing, corrupt, or expired cache yields (nil, nil) — never an error
// the caller must act on beyond refreshing.
func (rc *RateCache) Get(now time.Time) (*models.RateSnapshot, error) {
	data, err := os.ReadFile(rc.path)
	if err != nil {
		return nil, nil
	}

	var snap models.RateSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("rate cache: malformed snapshot: %w", err)
	}
	if snap.FetchedAt.IsZero() || len(snap.Rates) == 0 {
		return nil, fmt.Errorf("rate cache: incomplete snapshot")
	}

	if now.Sub(snap.FetchedAt) >= rateCacheTTL {
		return nil, nil
	}
	return &snap, nil
}

// Put writes the snapshot, creating intermediate directories as needed.
func (rc *RateCache) Put(snap *models.RateSnapshot) error {
	if err := os.MkdirAll(filepath.Dir(rc.path), 0755); err != nil {
		return fmt.Errorf("rate cache: create dir: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("rate cache: marshal snapshot: %w", err)
	}
	if err := os.WriteFile(rc.path, data, 0644); err != nil {
		return fmt.Errorf("rate cache: write %q: %w", rc.path, err)
	}
	return nil
}
