package entity

import "github.com/shopspring/decimal"

// HoldingKind distinguishes plain balances from protocol positions.
type HoldingKind string

const (
	HoldingKindToken    HoldingKind = "token"
	HoldingKindStrategy HoldingKind = "strategy"
)

// StrategyType tags what a strategy does with the deposited asset.
type StrategyType string

const (
	StrategyTypeLending StrategyType = "lending"
	StrategyTypeStaking StrategyType = "staking"
	StrategyTypeLP      StrategyType = "lp"
)

// Holding is one balance line of a vault: either a token (ERC-20 or native) or a
// strategy receipt token priced as its underlying.
type Holding struct {
	Symbol      string          `json:"symbol"`
	Name        string          `json:"name"`
	ChainID     int64           `json:"chain_id"`
	Balance     decimal.Decimal `json:"balance"`
	PriceFeedID string          `json:"price_feed_id,omitempty"`
	PriceUSD    float64         `json:"price_usd"`
	ValueUSD    float64         `json:"value_usd"`
	Kind        HoldingKind     `json:"type"`

	Strategy        string       `json:"strategy,omitempty"`
	Protocol        string       `json:"protocol,omitempty"`
	StrategyType    StrategyType `json:"strategy_type,omitempty"`
	ReceiptToken    string       `json:"atoken_address,omitempty"`
	UnderlyingToken string       `json:"underlying_token,omitempty"`
}

// Priceable reports whether the holding takes part in valuation.
func (h Holding) Priceable() bool {
	return h.Balance.IsPositive() && h.PriceFeedID != ""
}
