package storage

import (
	"fmt"
	"path/filepath"
	"sync"

	"electronics-arbitrage/models"
	"electronics-arbitrage/utils"
)

// Store accumulates enriched listings for the current run and snapshots them
// durably on flush: a row-oriented CSV (raw_data_<stamp>.csv) and a
// structured JSON document (raw_data_<stamp>.json). Listings are retained in
// arrival order. An empty run performs no write at all.
type Store struct {
	mu      sync.Mutex
	logger  *utils.Logger
	dir     string
	stamp   string
	pending []*models.Listing
	flushed []*models.Listing
	csv     *CSVWriter
}

// NewStore creates a Store writing timestamp-named snapshot files under dir.
func NewStore(logger *utils.Logger, dir, stamp string) *Store {
	return &Store{logger: logger, dir: dir, stamp: stamp}
}

// Add appends one listing to the run's buffer. Order of arrival is preserved.
func (s *Store) Add(l *models.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, l)
}

// Len returns the total number of listings accumulated this run.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.flushed) + len(s.pending)
}

// Snapshot returns the full accumulated set in arrival order, flushed and
// pending alike. The whole-batch stages (grouping, detection) read from here.
func (s *Store) Snapshot() []*models.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]*models.Listing, 0, len(s.flushed)+len(s.pending))
	all = append(all, s.flushed...)
	all = append(all, s.pending...)
	return all
}

// Flush persists the buffered listings: new rows are appended to the CSV,
// the JSON document is rewritten with the full cumulative set, and the
// buffer is cleared. Flushing with nothing new is a no-op that leaves prior
// snapshots intact; flushing a store that never received a listing performs
// no write and just logs that there is nothing to process.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		if len(s.flushed) == 0 {
			s.logger.Info("[store] Nothing to process, no snapshot written")
		}
		return nil
	}

	if s.csv == nil {
		csv, err := NewCSVWriter(filepath.Join(s.dir, fmt.Sprintf("raw_data_%s.csv", s.stamp)))
		if err != nil {
			return fmt.Errorf("store: open csv snapshot: %w", err)
		}
		s.csv = csv
	}

	if err := s.csv.Write(s.pending); err != nil {
		return fmt.Errorf("store: append csv rows: %w", err)
	}

	full := make([]*models.Listing, 0, len(s.flushed)+len(s.pending))
	full = append(full, s.flushed...)
	full = append(full, s.pending...)

	jw := NewJSONWriter(filepath.Join(s.dir, fmt.Sprintf("raw_data_%s.json", s.stamp)))
	if err := jw.Write(full); err != nil {
		return fmt.Errorf("store: write json snapshot: %w", err)
	}

	s.logger.Info("[store] Snapshot flushed: %d new, %d total listings", len(s.pending), len(full))
	s.flushed = full
	s.pending = nil
	return nil
}

// Close releases the CSV snapshot file, if one was opened.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.csv == nil {
		return nil
	}
	return s.csv.Close()
}
