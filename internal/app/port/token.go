package port

import (
	"context"

	"defi_copilot/internal/domain/entity"
)

// TokenProvider supplies the token catalog the readers iterate over.
type TokenProvider interface {
	Tokens() []entity.TokenConfig
}

// ChainProvider supplies the configured chains.
type ChainProvider interface {
	Chains() []entity.ChainConfig
}

// PriceOracle resolves USD prices for price-feed ids.
// Ids that cannot be priced resolve to 0; the call itself never fails.
type PriceOracle interface {
	GetPrices(ctx context.Context, priceFeedIDs []string) map[string]float64
}
