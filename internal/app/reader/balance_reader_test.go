package reader

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"defi_copilot/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

type stubClient struct {
	chain  entity.ChainConfig
	native *big.Int
	token  *big.Int
	err    error
}

func (s stubClient) NativeBalance(context.Context, common.Address) (*big.Int, error) {
	return s.native, s.err
}

func (s stubClient) TokenBalance(context.Context, common.Address, common.Address) (*big.Int, error) {
	return s.token, s.err
}

func (s stubClient) Chain() entity.ChainConfig { return s.chain }
func (s stubClient) Close()                    {}

func TestReadTokenBalance(t *testing.T) {
	c := stubClient{chain: entity.ChainConfig{ChainID: 1}, token: big.NewInt(123_450_000)}
	res := ReadTokenBalance(context.Background(), c, common.Address{}, common.Address{}, 6, "USDC")
	if !res.IsOk() || !res.Value.Equal(decimal.RequireFromString("123.45")) {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestReadTokenBalanceFailureIsNotZero(t *testing.T) {
	c := stubClient{chain: entity.ChainConfig{ChainID: 42161}, err: errors.New("dial tcp: refused")}
	res := ReadTokenBalance(context.Background(), c, common.Address{}, common.Address{}, 6, "USDC")
	if res.IsOk() {
		t.Fatalf("expected failure")
	}
	var re *entity.ReadError
	if !errors.As(res.Err, &re) || re.Kind != entity.ReadErrorConnectivity || re.ChainID != 42161 {
		t.Fatalf("unexpected error %v", res.Err)
	}
}

func TestReadNativeBalanceDefaultsTo18Decimals(t *testing.T) {
	two := new(big.Int).Mul(big.NewInt(2), big.NewInt(1e18))
	c := stubClient{chain: entity.ChainConfig{ChainID: 1}, native: two}
	res := ReadNativeBalance(context.Background(), c, common.Address{})
	if !res.IsOk() || !res.Value.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("unexpected result %+v", res)
	}
}
