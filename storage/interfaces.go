package storage

import "electronics-arbitrage/models"

// ListingWriter is the interface any durable listing sink must satisfy.
type ListingWriter interface {
	Write(listings []*models.Listing) error
	Close() error
}
