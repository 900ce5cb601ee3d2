package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"electronics-arbitrage/models"
)

// JSONWriter rewrites the structured snapshot file with the full listing set
// on every write, mirroring the CSV rows in document form.
type JSONWriter struct {
	path string
}

// NewJSONWriter creates a JSONWriter targeting the given path.
func NewJSONWriter(path string) *JSONWriter {
	return &JSONWriter{path: path}
}

// Write serializes the full listing set, replacing any previous content.
func (w *JSONWriter) Write(listings []*models.Listing) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("json: create output dir: %w", err)
	}

	if listings == nil {
		listings = []*models.Listing{}
	}
	data, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return fmt.Errorf("json: marshal listings: %w", err)
	}

	if err := os.WriteFile(w.path, data, 0644); err != nil {
		return fmt.Errorf("json: write %q: %w", w.path, err)
	}
	return nil
}
