package httpclient

import "context"

// CoinGeckoClient defines the interface for interacting with the CoinGecko price API.
type CoinGeckoClient interface {
	// GetSimplePrices returns the spot price of each id in the configured vs currency.
	// Ids the API does not return are absent from the map.
	GetSimplePrices(ctx context.Context, priceFeedIDs []string) (map[string]float64, error)
}
