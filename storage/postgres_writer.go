package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"electronics-arbitrage/models"
)

// PostgresWriter persists enriched listings to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id              SERIAL PRIMARY KEY,
			retailer        VARCHAR(100) NOT NULL,
			name            TEXT         NOT NULL,
			normalized_name TEXT         NOT NULL DEFAULT '',
			price           NUMERIC(12,2),
			currency        VARCHAR(8)   NOT NULL DEFAULT 'ZAR',
			price_zar       NUMERIC(12,2),
			specs           JSONB,
			url             TEXT         UNIQUE NOT NULL,
			category        TEXT         NOT NULL DEFAULT '',
			image_url       TEXT         NOT NULL DEFAULT '',
			observed_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_price_zar       ON listings(price_zar);
		CREATE INDEX IF NOT EXISTS idx_listings_retailer        ON listings(retailer);
		CREATE INDEX IF NOT EXISTS idx_listings_normalized_name ON listings(normalized_name);
	`)
	return err
}

// Clear deletes all existing listings from the table.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM listings")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts ALL listings for the run, clearing old data first.
func (pw *PostgresWriter) Write(listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := pw.insertBatch(listings[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []*models.Listing) error {
	const cols = 10
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, l := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for p := 0; p < cols; p++ {
			placeholders[p] = fmt.Sprintf("$%d", base+p+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			l.Retailer, l.RawName, l.NormalizedName,
			nullablePrice(l.Price), l.Currency, nullablePrice(l.PriceZAR),
			nullableSpecs(l.Specs), l.URL, l.Category, l.ObservedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (retailer, name, normalized_name, price, currency, price_zar, specs, url, category, observed_at)
		VALUES %s
		ON CONFLICT (url) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

func nullablePrice(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func nullableSpecs(specs map[string]string) interface{} {
	s := formatSpecs(specs)
	if s == "" {
		return nil
	}
	return s
}
