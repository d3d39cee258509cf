package entity

import "time"

// PortfolioSummary is the valued view of a vault and the unit stored in the portfolio caches.
type PortfolioSummary struct {
	VaultAddress     string    `json:"vault_address"`
	TotalValueUSD    float64   `json:"total_value_usd"`
	Holdings         []Holding `json:"holdings"`
	ChainsCount      int       `json:"chains_count"`
	TokensCount      int       `json:"tokens_count"`
	StrategyCount    int       `json:"strategy_count"`
	ActiveStrategies []string  `json:"active_strategies"`
	Error            string    `json:"error,omitempty"`
}

// EmptySummary returns a zero-valued summary carrying errMsg.
func EmptySummary(vaultAddress, errMsg string) PortfolioSummary {
	return PortfolioSummary{
		VaultAddress:     vaultAddress,
		Holdings:         []Holding{},
		ActiveStrategies: []string{},
		Error:            errMsg,
	}
}

// CachedPortfolio is a summary stamped with the time it was computed.
type CachedPortfolio struct {
	Summary   PortfolioSummary `json:"summary"`
	Timestamp time.Time        `json:"timestamp"`
}

// FreshAt reports whether the entry is younger than ttl at now.
func (c CachedPortfolio) FreshAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(c.Timestamp) < ttl
}
