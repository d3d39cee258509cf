package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"defi_copilot/internal/domain/entity"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/time/rate"
)

// EVMClient implements port.BlockchainClient for one EVM-compatible chain.
// Every call is rate limited and bounded by rpcCallTimeout.
type EVMClient struct {
	ethClient      *ethclient.Client
	chain          entity.ChainConfig
	rpcCallTimeout time.Duration
	limiter        *rate.Limiter
}

// ERC20 ABI minimal part for balanceOf
const erc20ABI = `[{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`

var (
	parsedERC20ABI  abi.ABI
	parsedERC20Once sync.Once
)

func initParsedERC20ABI() {
	parsedERC20Once.Do(func() {
		var err error
		parsedERC20ABI, err = abi.JSON(strings.NewReader(erc20ABI))
		if err != nil {
			panic(fmt.Sprintf("failed to parse ERC20 ABI: %v", err))
		}
	})
}

var errEmptyCallResult = errors.New("empty balanceOf result (no contract at address?)")

// NewEVMClient dials the chain's RPC endpoint. Dialing an HTTP endpoint does not
// touch the network; use Ping to check liveness.
func NewEVMClient(ctx context.Context, chain entity.ChainConfig, dialTimeout time.Duration, limiter *rate.Limiter) (*EVMClient, error) {
	initParsedERC20ABI()
	if chain.RPCURL == "" {
		return nil, fmt.Errorf("chain %d has no RPC endpoint", chain.ChainID)
	}

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	ec, err := ethclient.DialContext(dialCtx, chain.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC %s: %w", chain.RPCURL, err)
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	timeout := chain.RPCTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &EVMClient{ethClient: ec, chain: chain, rpcCallTimeout: timeout, limiter: limiter}, nil
}

// Ping fetches the latest block number.
func (c *EVMClient) Ping(ctx context.Context) (uint64, error) {
	ctx, cancel, err := c.callContext(ctx)
	if err != nil {
		return 0, err
	}
	defer cancel()
	return c.ethClient.BlockNumber(ctx)
}

// NativeBalance implements port.BlockchainClient.
func (c *EVMClient) NativeBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	ctx, cancel, err := c.callContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	bal, err := c.ethClient.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("eth_getBalance %s: %w", account.Hex(), err)
	}
	return bal, nil
}

// TokenBalance implements port.BlockchainClient.
func (c *EVMClient) TokenBalance(ctx context.Context, token common.Address, account common.Address) (*big.Int, error) {
	data, err := parsedERC20ABI.Pack("balanceOf", account)
	if err != nil {
		return nil, fmt.Errorf("pack balanceOf: %w", err)
	}

	ctx, cancel, err := c.callContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	out, err := c.ethClient.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("balanceOf on %s: %w", token.Hex(), err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("balanceOf on %s: %w", token.Hex(), errEmptyCallResult)
	}

	unpacked, err := parsedERC20ABI.Unpack("balanceOf", out)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack balanceOf result for %s: %w", token.Hex(), err)
	}
	if len(unpacked) == 0 {
		return nil, fmt.Errorf("balanceOf unpack returned no data for %s", token.Hex())
	}
	bal, ok := unpacked[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected balanceOf result type %T for %s", unpacked[0], token.Hex())
	}
	return bal, nil
}

// Chain implements port.BlockchainClient.
func (c *EVMClient) Chain() entity.ChainConfig {
	return c.chain
}

// Close implements port.BlockchainClient.
func (c *EVMClient) Close() {
	c.ethClient.Close()
}

func (c *EVMClient) callContext(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("rate limiter: %w", err)
	}
	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	return callCtx, cancel, nil
}
