package port

import (
	"context"

	"defi_copilot/internal/domain/entity"
)

// PortfolioCacheStore is the durable tier of the portfolio cache, keyed by checksummed vault address.
// Get returns found=false with a nil error on a miss.
type PortfolioCacheStore interface {
	GetPortfolio(ctx context.Context, vaultAddress string) (entity.CachedPortfolio, bool, error)
	UpsertPortfolio(ctx context.Context, vaultAddress string, entry entity.CachedPortfolio) error
}

// PriceCacheStore is the durable tier of the price cache, keyed by price-feed id.
// GetPrices returns only the ids it holds, regardless of age.
type PriceCacheStore interface {
	GetPrices(ctx context.Context, priceFeedIDs []string) (map[string]entity.PriceCacheEntry, error)
	UpsertPrices(ctx context.Context, entries []entity.PriceCacheEntry) error
}
