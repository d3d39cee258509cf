package strategy

import (
	"context"
	"sort"
	"sync"

	"defi_copilot/internal/app/port"
	"defi_copilot/internal/app/reader"
	"defi_copilot/internal/domain/entity"
	"defi_copilot/internal/pkg/metrics"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	AaveV3Key      = "aave_v3"
	AaveV3Protocol = "Aave V3"
)

// AaveV3Reader reports aToken balances as lending positions.
// aTokens accrue 1:1 against the underlying, so positions are priced with the
// underlying token's price feed. That does not hold for share-based vaults.
type AaveV3Reader struct {
	aTokens map[int64]map[string]common.Address
	logger  *zap.Logger
}

// NewAaveV3Reader builds the reader from a chain id -> underlying symbol -> aToken map.
func NewAaveV3Reader(aTokens map[int64]map[string]string, logger *zap.Logger) *AaveV3Reader {
	m := make(map[int64]map[string]common.Address, len(aTokens))
	for chainID, bySymbol := range aTokens {
		inner := make(map[string]common.Address, len(bySymbol))
		for sym, addr := range bySymbol {
			if !common.IsHexAddress(addr) {
				logger.Warn("Ignoring invalid aToken address", zap.Int64("chainId", chainID), zap.String("symbol", sym), zap.String("address", addr))
				continue
			}
			inner[sym] = common.HexToAddress(addr)
		}
		m[chainID] = inner
	}
	return &AaveV3Reader{aTokens: m, logger: logger.Named("AaveV3Reader")}
}

func (r *AaveV3Reader) Key() string               { return AaveV3Key }
func (r *AaveV3Reader) Protocol() string          { return AaveV3Protocol }
func (r *AaveV3Reader) Type() entity.StrategyType { return entity.StrategyTypeLending }

type aaveRead struct {
	client     port.BlockchainClient
	token      entity.TokenConfig
	chainID    int64
	aToken     common.Address
	underlying string
}

// Balances implements port.StrategyReader.
func (r *AaveV3Reader) Balances(ctx context.Context, pool port.ConnectionPool, vault common.Address, tokens []entity.TokenConfig) []entity.Holding {
	var reads []aaveRead
	for _, token := range tokens {
		for _, chainID := range sortedChainIDs(token.Addresses) {
			client, ok := pool.Client(chainID)
			if !ok {
				r.skip(chainID, token.Symbol, entity.ErrChainUnavailable)
				continue
			}
			aToken, ok := r.aTokens[chainID][token.Symbol]
			if !ok {
				// Expected for most of the catalog.
				r.logger.Debug("No Aave market for token",
					zap.Int64("chainId", chainID),
					zap.String("symbol", token.Symbol),
					zap.Error(entity.ErrStrategyUnmapped))
				continue
			}
			reads = append(reads, aaveRead{
				client:     client,
				token:      token,
				chainID:    chainID,
				aToken:     aToken,
				underlying: token.Addresses[chainID],
			})
		}
	}

	var (
		mu       sync.Mutex
		holdings []entity.Holding
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, rd := range reads {
		g.Go(func() error {
			res := reader.ReadTokenBalance(gctx, rd.client, vault, rd.aToken, rd.token.Decimals, rd.token.Symbol)
			if !res.IsOk() {
				metrics.BalanceReadFailures.WithLabelValues(string(entity.ReadErrorConnectivity)).Inc()
				r.logger.Error("Failed to read aToken balance",
					zap.Int64("chainId", rd.chainID),
					zap.String("symbol", rd.token.Symbol),
					zap.String("aToken", rd.aToken.Hex()),
					zap.Error(res.Err))
				return nil
			}
			if !res.Value.IsPositive() {
				return nil
			}
			r.logger.Info("Found Aave balance",
				zap.Int64("chainId", rd.chainID),
				zap.String("symbol", rd.token.Symbol),
				zap.String("balance", res.Value.String()))
			mu.Lock()
			holdings = append(holdings, entity.Holding{
				Symbol:          rd.token.Symbol,
				Name:            rd.token.Name,
				ChainID:         rd.chainID,
				Balance:         res.Value,
				PriceFeedID:     rd.token.PriceFeedID,
				Kind:            entity.HoldingKindStrategy,
				Strategy:        AaveV3Key,
				Protocol:        AaveV3Protocol,
				StrategyType:    entity.StrategyTypeLending,
				ReceiptToken:    rd.aToken.Hex(),
				UnderlyingToken: rd.underlying,
			})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	// Goroutines finish in any order; keep the output stable.
	sort.SliceStable(holdings, func(i, j int) bool {
		if holdings[i].ChainID != holdings[j].ChainID {
			return holdings[i].ChainID < holdings[j].ChainID
		}
		return holdings[i].Symbol < holdings[j].Symbol
	})
	return holdings
}

func (r *AaveV3Reader) skip(chainID int64, symbol string, cause error) {
	err := entity.NewReadError(entity.ReadErrorConfigGap, "aave scan", chainID, symbol, cause)
	metrics.BalanceReadFailures.WithLabelValues(string(entity.ReadErrorConfigGap)).Inc()
	r.logger.Warn("Skipping Aave position", zap.Error(err))
}

func sortedChainIDs(addrs map[int64]string) []int64 {
	ids := make([]int64, 0, len(addrs))
	for id := range addrs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
