package entity

// LLMPortfolio is the nested chain -> strategy -> token view of a summary used in prompts.
type LLMPortfolio struct {
	VaultAddress  string                 `json:"vault_address"`
	TotalValueUSD float64                `json:"total_value_usd"`
	Chains        map[string]LLMChain    `json:"chains"`
	Strategies    map[string]LLMStrategy `json:"strategies"`
	Summary       LLMSummary             `json:"summary"`
	Error         string                 `json:"error,omitempty"`
}

// LLMChain groups the holdings of one chain.
type LLMChain struct {
	ChainID       int64                  `json:"chain_id"`
	TotalValueUSD float64                `json:"total_value_usd"`
	Tokens        map[string]LLMPosition `json:"tokens"`
	Strategies    map[string]LLMStrategy `json:"strategies"`
}

// LLMStrategy groups the positions held in one protocol strategy.
type LLMStrategy struct {
	Protocol      string                 `json:"protocol"`
	StrategyType  StrategyType           `json:"strategy_type"`
	TotalValueUSD float64                `json:"total_value_usd"`
	Tokens        map[string]LLMPosition `json:"tokens"`
}

// LLMPosition is a single balance with its USD value.
type LLMPosition struct {
	Balance  float64 `json:"balance"`
	ValueUSD float64 `json:"value_usd"`
}

// LLMSummary is the rollup shown at the top of a prompt.
type LLMSummary struct {
	ActiveChains     []string `json:"active_chains"`
	ActiveStrategies []string `json:"active_strategies"`
	TotalTokens      int      `json:"total_tokens"`
}
