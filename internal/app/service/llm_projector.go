package service

import (
	"sort"
	"strings"

	"defi_copilot/internal/domain/entity"
)

// LLMProjector reshapes a PortfolioSummary into the nested view fed to the chat model.
// It keeps no state beyond the chain names.
type LLMProjector struct {
	chains []entity.ChainConfig
}

func NewLLMProjector(chains []entity.ChainConfig) *LLMProjector {
	return &LLMProjector{chains: chains}
}

// StrategyGroupKey names a strategy bucket, e.g. "aave_v3_lending".
func StrategyGroupKey(h entity.Holding) string {
	return h.Strategy + "_" + string(h.StrategyType)
}

// StrategyDisplayName renders "Aave V3 Lending" style labels.
func StrategyDisplayName(h entity.Holding) string {
	t := string(h.StrategyType)
	if t != "" {
		t = strings.ToUpper(t[:1]) + t[1:]
	}
	return strings.TrimSpace(h.Protocol + " " + t)
}

// Project groups holdings by chain display name, then into plain tokens and strategy buckets.
func (p *LLMProjector) Project(summary entity.PortfolioSummary) entity.LLMPortfolio {
	out := entity.LLMPortfolio{
		VaultAddress:  summary.VaultAddress,
		TotalValueUSD: summary.TotalValueUSD,
		Chains:        make(map[string]entity.LLMChain),
		Strategies:    make(map[string]entity.LLMStrategy),
		Summary: entity.LLMSummary{
			ActiveChains:     []string{},
			ActiveStrategies: []string{},
		},
		Error: summary.Error,
	}

	symbols := make(map[string]struct{})
	display := make(map[string]struct{})
	for _, h := range summary.Holdings {
		name := entity.ChainName(p.chains, h.ChainID)
		chain, ok := out.Chains[name]
		if !ok {
			chain = entity.LLMChain{
				ChainID:    h.ChainID,
				Tokens:     make(map[string]entity.LLMPosition),
				Strategies: make(map[string]entity.LLMStrategy),
			}
		}
		chain.TotalValueUSD += h.ValueUSD

		if h.Kind == entity.HoldingKindStrategy {
			key := StrategyGroupKey(h)
			chain.Strategies[key] = addToStrategy(chain.Strategies[key], h)
			out.Strategies[key] = addToStrategy(out.Strategies[key], h)
			display[StrategyDisplayName(h)] = struct{}{}
		} else {
			chain.Tokens[h.Symbol] = addPosition(chain.Tokens[h.Symbol], h)
		}
		symbols[h.Symbol] = struct{}{}
		out.Chains[name] = chain
	}

	for name := range out.Chains {
		out.Summary.ActiveChains = append(out.Summary.ActiveChains, name)
	}
	for name := range display {
		out.Summary.ActiveStrategies = append(out.Summary.ActiveStrategies, name)
	}
	sort.Strings(out.Summary.ActiveChains)
	sort.Strings(out.Summary.ActiveStrategies)
	out.Summary.TotalTokens = len(symbols)
	return out
}

func addToStrategy(st entity.LLMStrategy, h entity.Holding) entity.LLMStrategy {
	if st.Tokens == nil {
		st.Protocol = h.Protocol
		st.StrategyType = h.StrategyType
		st.Tokens = make(map[string]entity.LLMPosition)
	}
	st.TotalValueUSD += h.ValueUSD
	st.Tokens[h.Symbol] = addPosition(st.Tokens[h.Symbol], h)
	return st
}

func addPosition(pos entity.LLMPosition, h entity.Holding) entity.LLMPosition {
	pos.Balance += h.Balance.InexactFloat64()
	pos.ValueUSD += h.ValueUSD
	return pos
}
