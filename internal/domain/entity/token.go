package entity

// TokenConfig holds the details of an ERC-20 token tracked across chains.
// A token may be absent on some chains; PriceFeedID may be empty, in which case
// the balance is visible but never valued.
type TokenConfig struct {
	Symbol      string           `json:"symbol" yaml:"symbol"`
	Name        string           `json:"name" yaml:"name"`
	Decimals    int32            `json:"decimals" yaml:"decimals"`
	PriceFeedID string           `json:"coingeckoId,omitempty" yaml:"priceFeedId,omitempty"`
	Addresses   map[int64]string `json:"addresses" yaml:"addresses"`
}

// AddressOn returns the token contract on chainID.
func (t TokenConfig) AddressOn(chainID int64) (string, bool) {
	addr, ok := t.Addresses[chainID]
	if !ok || addr == "" {
		return "", false
	}
	return addr, true
}
