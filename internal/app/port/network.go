package port

import (
	"context"
	"math/big"

	"defi_copilot/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

// BlockchainClient defines the read-only calls the portfolio core makes against one EVM chain.
// Implementations must be safe for concurrent use.
type BlockchainClient interface {
	// NativeBalance fetches the native currency balance (e.g. ETH) of account in base units.
	NativeBalance(ctx context.Context, account common.Address) (*big.Int, error)

	// TokenBalance calls balanceOf(account) on the ERC-20 contract at token.
	TokenBalance(ctx context.Context, token common.Address, account common.Address) (*big.Int, error)

	// Chain returns the chain configuration this client was built for.
	Chain() entity.ChainConfig

	Close()
}

// ConnectionPool holds one client per reachable chain.
// A chain missing from the pool is unavailable and its reads are skipped.
type ConnectionPool interface {
	Client(chainID int64) (BlockchainClient, bool)
	ChainIDs() []int64
}
