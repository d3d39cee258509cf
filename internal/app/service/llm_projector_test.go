package service

import (
	"reflect"
	"testing"

	"defi_copilot/internal/domain/entity"

	"github.com/shopspring/decimal"
)

func TestProjectGroupsByChainName(t *testing.T) {
	summary := entity.EmptySummary(testVault, "")
	summary.TotalValueUSD = 150
	summary.Holdings = []entity.Holding{
		{Symbol: "USDC", ChainID: 42161, Balance: decimal.RequireFromString("100"), PriceUSD: 1, ValueUSD: 100, Kind: entity.HoldingKindToken},
		{
			Symbol: "USDC", ChainID: 42161, Balance: decimal.RequireFromString("50"), PriceUSD: 1, ValueUSD: 50,
			Kind: entity.HoldingKindStrategy, Strategy: "aave_v3", Protocol: "Aave V3", StrategyType: entity.StrategyTypeLending,
		},
	}

	got := NewLLMProjector([]entity.ChainConfig{chainA, chainB}).Project(summary)

	chain, ok := got.Chains["Arbitrum One"]
	if !ok {
		t.Fatalf("expected chain keyed by display name, got %+v", got.Chains)
	}
	if chain.TotalValueUSD != 150 || chain.ChainID != 42161 {
		t.Errorf("chain total should sum both holdings: %+v", chain)
	}
	if chain.Tokens["USDC"] != (entity.LLMPosition{Balance: 100, ValueUSD: 100}) {
		t.Errorf("unexpected token position: %+v", chain.Tokens)
	}
	st, ok := chain.Strategies["aave_v3_lending"]
	if !ok || st.TotalValueUSD != 50 || st.Tokens["USDC"].Balance != 50 {
		t.Errorf("unexpected chain strategy: %+v", chain.Strategies)
	}
	if global := got.Strategies["aave_v3_lending"]; global.Protocol != "Aave V3" || global.TotalValueUSD != 50 {
		t.Errorf("unexpected global strategy: %+v", global)
	}
	want := entity.LLMSummary{ActiveChains: []string{"Arbitrum One"}, ActiveStrategies: []string{"Aave V3 Lending"}, TotalTokens: 1}
	if !reflect.DeepEqual(got.Summary, want) {
		t.Errorf("summary: want %+v, got %+v", want, got.Summary)
	}
}

func TestProjectUnknownChainAndError(t *testing.T) {
	summary := entity.EmptySummary(testVault, "boom")
	summary.Holdings = []entity.Holding{{Symbol: "OP", ChainID: 10, Balance: decimal.NewFromInt(3), ValueUSD: 6, Kind: entity.HoldingKindToken}}

	got := NewLLMProjector(nil).Project(summary)

	if _, ok := got.Chains["chain-10"]; !ok {
		t.Errorf("unknown chain should get a generic name: %+v", got.Chains)
	}
	if got.Error != "boom" {
		t.Errorf("error not carried: %q", got.Error)
	}
}

func TestProjectEmpty(t *testing.T) {
	got := NewLLMProjector(nil).Project(entity.EmptySummary(testVault, ""))
	if got.Chains == nil || got.Strategies == nil || got.Summary.ActiveChains == nil || got.Summary.TotalTokens != 0 {
		t.Errorf("empty projection should have empty, non-nil collections: %+v", got)
	}
}
