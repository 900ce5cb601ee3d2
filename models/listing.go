package models

import "time"

// RawListing holds one unprocessed product offer as handed over by the
// crawling layer. It is written to the raw snapshot exactly as received,
// before any enrichment.
type RawListing struct {
	Name      string    `json:"name"`
	RawPrice  string    `json:"price"`
	Currency  string    `json:"currency,omitempty"`
	SpecsText string    `json:"specs,omitempty"`
	URL       string    `json:"url"`
	Retailer  string    `json:"website"`
	Category  string    `json:"category,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	ScrapedAt time.Time `json:"timestamp"`
}

// Listing is the enriched, immutable record flowing through the pipeline.
// Price and PriceZAR are nil when the raw price could not be parsed; the two
// are always present or absent together.
type Listing struct {
	RawName        string            `json:"name"`
	NormalizedName string            `json:"normalized_name"`
	Price          *float64          `json:"price"`
	Currency       string            `json:"currency"`
	PriceZAR       *float64          `json:"price_zar"`
	Specs          map[string]string `json:"specs,omitempty"`
	URL            string            `json:"url"`
	Retailer       string            `json:"website"`
	Category       string            `json:"category,omitempty"`
	ImageURL       string            `json:"image_url,omitempty"`
	ObservedAt     time.Time         `json:"timestamp"`
}

// Priced reports whether the listing carries a reference-currency price.
func (l *Listing) Priced() bool {
	return l.PriceZAR != nil
}

// RateSnapshot is an immutable set of exchange rates quoted as
// "1 unit of foreign currency = N units of the reference currency".
// A snapshot is replaced wholesale on refresh, never patched.
type RateSnapshot struct {
	FetchedAt time.Time          `json:"timestamp"`
	Rates     map[string]float64 `json:"rates"`
}

// ProductGroup is a set of at least two listings believed to reference the
// same physical product. Members[0] is the seed the group was grown from;
// member order follows discovery order within the batch.
type ProductGroup struct {
	Members []*Listing `json:"members"`
}

// Seed returns the listing the group was seeded with.
func (g ProductGroup) Seed() *Listing {
	return g.Members[0]
}

// Opportunity is a ranked buy/compare pair inside one product group.
// ProfitMarginPercent is (max-min)/min*100 over the reference prices.
type Opportunity struct {
	Buy                 *Listing   `json:"buy_item"`
	Compare             *Listing   `json:"sell_comparison"`
	PriceDifference     float64    `json:"price_difference"`
	ProfitMarginPercent float64    `json:"profit_margin_percent"`
	Group               []*Listing `json:"group"`
}
