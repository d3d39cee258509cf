package entity

import "time"

// PriceCacheEntry is a USD spot price keyed by price-feed id.
type PriceCacheEntry struct {
	PriceFeedID string    `json:"token_id"`
	PriceUSD    float64   `json:"price_usd"`
	Timestamp   time.Time `json:"timestamp"`
}

// FreshAt reports whether the entry is younger than ttl at now.
func (e PriceCacheEntry) FreshAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.Timestamp) < ttl
}
