package strategy

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"defi_copilot/internal/app/port"
	"defi_copilot/internal/config"
	"defi_copilot/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	usdcArb  = "0xaf88d065e77c8cC2239327C5EDb3A432268e5831"
	aUSDCArb = "0x724dc807b04555b71ed48a6896b6F41593b8C637"
	aDAIArb  = "0x82E64f49Ed5EC1bC6e43DAD4FC8Af9bb3A2312EE"
)

type fakeClient struct {
	chainID  int64
	balances map[common.Address]*big.Int
	failing  map[common.Address]bool
}

func (f *fakeClient) NativeBalance(context.Context, common.Address) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (f *fakeClient) TokenBalance(_ context.Context, token common.Address, _ common.Address) (*big.Int, error) {
	if f.failing[token] {
		return nil, errors.New("execution reverted")
	}
	if b, ok := f.balances[token]; ok {
		return b, nil
	}
	return big.NewInt(0), nil
}

func (f *fakeClient) Chain() entity.ChainConfig { return entity.ChainConfig{ChainID: f.chainID} }
func (f *fakeClient) Close()                    {}

type fakePool map[int64]port.BlockchainClient

func (p fakePool) Client(id int64) (port.BlockchainClient, bool) {
	c, ok := p[id]
	return c, ok
}

func (p fakePool) ChainIDs() []int64 {
	ids := make([]int64, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	return ids
}

func testTokens() []entity.TokenConfig {
	return []entity.TokenConfig{
		{Symbol: "USDC", Name: "USD Coin", Decimals: 6, PriceFeedID: "usd-coin", Addresses: map[int64]string{1: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", 42161: usdcArb}},
		{Symbol: "DAI", Name: "Dai", Decimals: 18, PriceFeedID: "dai", Addresses: map[int64]string{42161: "0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1"}},
		{Symbol: "WBTC", Name: "Wrapped Bitcoin", Decimals: 8, PriceFeedID: "wrapped-bitcoin", Addresses: map[int64]string{42161: "0x2f2a2543B76A4166549F7aaB2e75Bef0aefC5B0f"}},
	}
}

func TestAaveV3ReaderReportsPositivePositions(t *testing.T) {
	arb := &fakeClient{chainID: 42161, balances: map[common.Address]*big.Int{
		common.HexToAddress(aUSDCArb): big.NewInt(50_000_000),
		common.HexToAddress(aDAIArb):  big.NewInt(0),
	}}
	pool := fakePool{42161: arb}
	r := NewAaveV3Reader(map[int64]map[string]string{42161: {"USDC": aUSDCArb, "DAI": aDAIArb}}, zap.NewNop())

	got := r.Balances(context.Background(), pool, common.Address{}, testTokens())
	if len(got) != 1 {
		t.Fatalf("expected one position, got %+v", got)
	}
	h := got[0]
	if h.Kind != entity.HoldingKindStrategy || h.Strategy != AaveV3Key || h.Protocol != AaveV3Protocol || h.StrategyType != entity.StrategyTypeLending {
		t.Fatalf("unexpected metadata %+v", h)
	}
	if h.PriceFeedID != "usd-coin" {
		t.Fatalf("aToken must be priced as the underlying, got %q", h.PriceFeedID)
	}
	if !h.Balance.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("balance = %s, want 50", h.Balance)
	}
	if h.UnderlyingToken != usdcArb || h.ReceiptToken != common.HexToAddress(aUSDCArb).Hex() {
		t.Fatalf("unexpected token addresses %+v", h)
	}
}

func TestAaveV3ReaderSkipsGapsAndFailures(t *testing.T) {
	arb := &fakeClient{chainID: 42161, failing: map[common.Address]bool{common.HexToAddress(aUSDCArb): true}}
	r := NewAaveV3Reader(map[int64]map[string]string{
		42161: {"USDC": aUSDCArb},
		10:    {"USDC": aUSDCArb},
	}, zap.NewNop())

	got := r.Balances(context.Background(), fakePool{42161: arb}, common.Address{}, testTokens())
	if len(got) != 0 {
		t.Fatalf("expected no positions, got %+v", got)
	}

	if got := r.Balances(context.Background(), fakePool{}, common.Address{}, testTokens()); len(got) != 0 {
		t.Fatalf("expected no positions without chains, got %+v", got)
	}
}

func TestAaveV3ReaderWarnsOnlyForMissingChains(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	arb := &fakeClient{chainID: 42161}
	r := NewAaveV3Reader(map[int64]map[string]string{42161: {"USDC": aUSDCArb}}, zap.New(core))

	r.Balances(context.Background(), fakePool{42161: arb}, common.Address{}, testTokens())

	warns := logs.FilterLevelExact(zapcore.WarnLevel).All()
	if len(warns) != 1 || warns[0].Message != "Skipping Aave position" {
		t.Fatalf("expected one warning for the chain missing from the pool, got %+v", warns)
	}
	if n := logs.FilterMessage("No Aave market for token").Len(); n != 2 {
		t.Errorf("expected DAI and WBTC to be logged at debug, got %d entries", n)
	}
}

func TestRegistry(t *testing.T) {
	readers := Registry(config.StrategiesConfig{}, zap.NewNop())
	if len(readers) != 1 || readers[0].Key() != AaveV3Key {
		t.Fatalf("unexpected registry %v", readers)
	}
	if got := Registry(config.StrategiesConfig{AaveV3: config.AaveV3Config{Disabled: true}}, zap.NewNop()); len(got) != 0 {
		t.Fatalf("disabled strategy still registered")
	}
}
