package port

import (
	"context"

	"defi_copilot/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

// StrategyReader scans a vault's positions in one protocol strategy.
// Implementations skip unsupported pairs and swallow per-read failures; the
// returned holdings all have Kind == entity.HoldingKindStrategy and a positive balance.
type StrategyReader interface {
	Key() string
	Protocol() string
	Type() entity.StrategyType
	Balances(ctx context.Context, pool ConnectionPool, vault common.Address, tokens []entity.TokenConfig) []entity.Holding
}
