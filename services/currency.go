package services

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"electronics-arbitrage/models"
	"electronics-arbitrage/utils"
)

// defaultRates is the built-in fallback table, quoted as
// "1 unit of foreign currency = N units of reference currency".
var defaultRates = map[string]float64{
	"USD": 18.5,
	"EUR": 20.2,
	"GBP": 23.4,
	"ZAR": 1.0,
}

// Converter converts listing prices into the reference currency. Rate
// resolution degrades silently: valid cached snapshot → external refresh →
// built-in table. Conversion never returns an error to the caller.
type Converter struct {
	logger  *utils.Logger
	cache   *RateCache
	client  *http.Client
	retry   *utils.RetryConfig
	apiKey  string
	apiBase string
	base    string

	mu       sync.Mutex
	snapshot *models.RateSnapshot
	now      func() time.Time
}

// NewConverter creates a Converter for the given reference currency.
// The timeout bounds the external refresh call; apiKey may be empty, in
// which case the built-in rate table is used directly.
func NewConverter(logger *utils.Logger, cache *RateCache, base, apiKey string, timeout time.Duration, maxRetries int) *Converter {
	return &Converter{
		logger:  logger,
		cache:   cache,
		client:  &http.Client{Timeout: timeout},
		retry:   &utils.RetryConfig{MaxAttempts: maxRetries, BaseDelay: time.Second, Logger: logger},
		apiKey:  apiKey,
		apiBase: "https://v6.exchangerate-api.com/v6",
		base:    strings.ToUpper(base),
		now:     time.Now,
	}
}

// ToReference converts a price in the given currency into the reference
// currency, rounded to 2 decimal places. A nil or zero price yields nil.
// Unknown currency codes are treated as already in the reference currency.
func (c *Converter) ToReference(price *float64, currency string) *float64 {
	if price == nil || *price == 0 {
		return nil
	}

	rates := c.rates()
	rate, ok := rates[strings.ToUpper(currency)]
	if !ok {
		rate = 1.0
	}

	converted := round2(*price * rate)
	return &converted
}

// rates resolves the current snapshot: in-memory → file cache → external
// refresh → built-in table. The mutex ensures concurrent conversions during
// a cache miss trigger at most one refresh; the first caller refreshes,
// the rest wait and read.
func (c *Converter) rates() map[string]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.snapshot != nil && now.Sub(c.snapshot.FetchedAt) < rateCacheTTL {
		return c.snapshot.Rates
	}

	if snap, err := c.cache.Get(now); err != nil {
		c.logger.Warn("[currency] Unreadable rate cache, refreshing: %v", err)
	} else if snap != nil {
		c.logger.Info("[currency] Using cached exchange rates from %s", snap.FetchedAt.Format(time.RFC3339))
		c.snapshot = snap
		return snap.Rates
	}

	snap, err := c.refresh()
	if err != nil {
		// Not an error condition for the pipeline: log loudly and keep
		// converting with the static table until the next validity window.
		c.logger.Warn("[currency] Exchange rate refresh failed, using default rates: %v", err)
		c.snapshot = &models.RateSnapshot{FetchedAt: now, Rates: defaultRates}
		return defaultRates
	}

	c.snapshot = snap
	if err := c.cache.Put(snap); err != nil {
		c.logger.Warn("[currency] Could not persist rate snapshot: %v", err)
	}
	c.logger.Info("[currency] Updated exchange rates from API (%d currencies)", len(snap.Rates))
	return snap.Rates
}

// refresh fetches fresh rates from the external service and inverts them so
// they read as "1 unit of foreign currency = N units of reference currency".
func (c *Converter) refresh() (*models.RateSnapshot, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("no exchange rate API key configured")
	}

	url := fmt.Sprintf("%s/%s/latest/%s", c.apiBase, c.apiKey, c.base)

	var payload struct {
		Result          string             `json:"result"`
		ConversionRates map[string]float64 `json:"conversion_rates"`
	}

	err := c.retry.Do("exchange rate fetch", func() error {
		resp, err := c.client.Get(url)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(&payload)
	})
	if err != nil {
		return nil, err
	}

	if payload.Result != "success" || len(payload.ConversionRates) == 0 {
		return nil, fmt.Errorf("malformed rate response (result=%q)", payload.Result)
	}

	// The API quotes rates for converting FROM the reference currency;
	// invert so a lookup multiplies a foreign price into reference units.
	rates := make(map[string]float64, len(payload.ConversionRates)+1)
	for code, quoted := range payload.ConversionRates {
		if quoted > 0 {
			rates[strings.ToUpper(code)] = 1.0 / quoted
		}
	}
	rates[c.base] = 1.0

	return &models.RateSnapshot{FetchedAt: c.now(), Rates: rates}, nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
