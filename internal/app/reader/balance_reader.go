package reader

import (
	"context"

	"defi_copilot/internal/app/port"
	"defi_copilot/internal/domain/entity"
	"defi_copilot/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// ReadTokenBalance calls balanceOf(vault) on token and rescales by decimals.
// Failures come back as a connectivity ReadError, never as a zero balance.
func ReadTokenBalance(ctx context.Context, c port.BlockchainClient, vault, token common.Address, decimals int32, symbol string) entity.Result[decimal.Decimal] {
	raw, err := c.TokenBalance(ctx, token, vault)
	if err != nil {
		return entity.Fail[decimal.Decimal](entity.NewReadError(entity.ReadErrorConnectivity, "token balance", c.Chain().ChainID, symbol, err))
	}
	return entity.Ok(utils.ToDecimal(raw, decimals))
}

// ReadNativeBalance fetches the chain's native balance of vault, rescaled by the
// native precision (18 when unset).
func ReadNativeBalance(ctx context.Context, c port.BlockchainClient, vault common.Address) entity.Result[decimal.Decimal] {
	chain := c.Chain()
	raw, err := c.NativeBalance(ctx, vault)
	if err != nil {
		return entity.Fail[decimal.Decimal](entity.NewReadError(entity.ReadErrorConnectivity, "native balance", chain.ChainID, chain.Native.Symbol, err))
	}
	decimals := chain.Native.Decimals
	if decimals == 0 {
		decimals = 18
	}
	return entity.Ok(utils.ToDecimal(raw, decimals))
}
