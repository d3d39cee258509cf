package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"defi_copilot/internal/app/port"
	"defi_copilot/internal/app/reader"
	"defi_copilot/internal/config"
	"defi_copilot/internal/domain/entity"
	"defi_copilot/internal/pkg/metrics"
	"defi_copilot/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// PortfolioDeps is everything the aggregator reads from. Chains, Tokens and
// Strategies are treated as immutable after construction.
type PortfolioDeps struct {
	Pool       port.ConnectionPool
	Chains     []entity.ChainConfig
	Tokens     []entity.TokenConfig
	Strategies []port.StrategyReader
	Prices     port.PriceOracle
	Store      port.PortfolioCacheStore // optional durable tier
	Config     config.PortfolioConfig
}

// PortfolioServiceImpl implements port.PortfolioService.
type PortfolioServiceImpl struct {
	deps      PortfolioDeps
	memory    *cache.Cache
	ttl       time.Duration
	limit     int
	flight    *singleflight.Group
	projector *LLMProjector
	now       func() time.Time
	logger    *zap.Logger
}

// NewPortfolioService creates the aggregator.
func NewPortfolioService(deps PortfolioDeps, logger *zap.Logger) *PortfolioServiceImpl {
	ttl := deps.Config.CacheTTL()
	if ttl <= 0 {
		ttl = config.DefaultPortfolioCacheTTLSeconds * time.Second
	}
	limit := deps.Config.MaxConcurrentReads
	if limit <= 0 {
		limit = config.DefaultMaxConcurrentReads
	}
	s := &PortfolioServiceImpl{
		deps:      deps,
		memory:    cache.New(ttl, 5*time.Minute),
		ttl:       ttl,
		limit:     limit,
		projector: NewLLMProjector(deps.Chains),
		now:       time.Now,
		logger:    logger.Named("PortfolioService"),
	}
	if deps.Config.SingleFlight {
		s.flight = &singleflight.Group{}
	}
	return s
}

// GetPortfolioSummary returns the valued holdings of vaultAddress, served from
// cache while fresh. It never panics and never returns an error: failures come
// back as an empty summary with Error set.
func (s *PortfolioServiceImpl) GetPortfolioSummary(ctx context.Context, vaultAddress string) (summary entity.PortfolioSummary) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Portfolio request panicked", zap.String("vault", vaultAddress), zap.Any("panic", r))
			metrics.PortfolioRequests.WithLabelValues("error").Inc()
			summary = entity.EmptySummary(vaultAddress, "portfolio computation failed")
		}
	}()

	if !common.IsHexAddress(vaultAddress) {
		metrics.PortfolioRequests.WithLabelValues("error").Inc()
		return entity.EmptySummary(vaultAddress, fmt.Sprintf("%v: %q", entity.ErrInvalidAddress, vaultAddress))
	}
	vault := common.HexToAddress(vaultAddress)
	key := vault.Hex()

	cached, ok, err := s.lookup(ctx, key)
	if err != nil {
		s.logger.Error("Portfolio cache read failed", zap.String("vault", key), zap.Error(err))
		metrics.PortfolioRequests.WithLabelValues("error").Inc()
		return entity.EmptySummary(key, fmt.Sprintf("portfolio cache read failed: %v", err))
	}
	if ok {
		metrics.PortfolioRequests.WithLabelValues("cache_hit").Inc()
		return cloneSummary(cached.Summary)
	}

	if s.flight == nil {
		summary = s.safeCompute(ctx, vault)
	} else {
		// The computation is shared by every waiter, so no single caller may cancel it.
		v, _, _ := s.flight.Do(key, func() (interface{}, error) {
			return s.safeCompute(context.WithoutCancel(ctx), vault), nil
		})
		summary = v.(entity.PortfolioSummary)
	}
	if summary.Error != "" {
		metrics.PortfolioRequests.WithLabelValues("error").Inc()
	} else {
		metrics.PortfolioRequests.WithLabelValues("computed").Inc()
	}
	return cloneSummary(summary)
}

// safeCompute turns a panic during computation into an error summary, so it never
// crosses the singleflight boundary.
func (s *PortfolioServiceImpl) safeCompute(ctx context.Context, vault common.Address) (summary entity.PortfolioSummary) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Portfolio computation panicked", zap.String("vault", vault.Hex()), zap.Any("panic", r))
			summary = entity.EmptySummary(vault.Hex(), fmt.Sprintf("portfolio computation failed: %v", r))
		}
	}()
	return s.compute(ctx, vault)
}

// GetPortfolioForLLM projects the (possibly cached) summary into the nested chain view.
func (s *PortfolioServiceImpl) GetPortfolioForLLM(ctx context.Context, vaultAddress string) entity.LLMPortfolio {
	return s.projector.Project(s.GetPortfolioSummary(ctx, vaultAddress))
}

// lookup checks memory then the durable store. A fresh durable hit is copied into memory
// with its original timestamp so it does not outlive the TTL.
func (s *PortfolioServiceImpl) lookup(ctx context.Context, key string) (entity.CachedPortfolio, bool, error) {
	now := s.now()
	if v, found := s.memory.Get(key); found {
		if entry := v.(entity.CachedPortfolio); entry.FreshAt(now, s.ttl) {
			metrics.PortfolioCacheHits.WithLabelValues(metrics.TierMemory).Inc()
			s.logger.Debug("Portfolio served from memory", zap.String("vault", key))
			return entry, true, nil
		}
	}
	if s.deps.Store == nil {
		return entity.CachedPortfolio{}, false, nil
	}

	entry, found, err := s.deps.Store.GetPortfolio(ctx, key)
	if err != nil {
		return entity.CachedPortfolio{}, false, err
	}
	if !found || !entry.FreshAt(now, s.ttl) {
		return entity.CachedPortfolio{}, false, nil
	}
	s.memory.Set(key, entry, cache.DefaultExpiration)
	metrics.PortfolioCacheHits.WithLabelValues(metrics.TierDurable).Inc()
	s.logger.Debug("Portfolio served from durable cache", zap.String("vault", key))
	return entry, true, nil
}

type balanceRead struct {
	client      port.BlockchainClient
	chainID     int64
	native      bool
	token       common.Address
	symbol      string
	name        string
	decimals    int32
	priceFeedID string
}

func (s *PortfolioServiceImpl) compute(ctx context.Context, vault common.Address) entity.PortfolioSummary {
	start := time.Now()
	defer func() { metrics.PortfolioBuildDuration.Observe(time.Since(start).Seconds()) }()

	key := vault.Hex()
	reads := s.planReads()
	s.logger.Debug("Computing portfolio",
		zap.String("vault", key),
		zap.Int("balanceReads", len(reads)),
		zap.Int("strategies", len(s.deps.Strategies)))

	results := make([]entity.Result[decimal.Decimal], len(reads))
	strategyHoldings := make([][]entity.Holding, len(s.deps.Strategies))

	var g errgroup.Group
	g.SetLimit(s.limit)
	for i, sr := range s.deps.Strategies {
		g.Go(func() error {
			strategyHoldings[i] = s.scanStrategy(ctx, sr, vault)
			return nil
		})
	}
	for i, rd := range reads {
		g.Go(func() error {
			if rd.native {
				results[i] = reader.ReadNativeBalance(ctx, rd.client, vault)
			} else {
				results[i] = reader.ReadTokenBalance(ctx, rd.client, vault, rd.token, rd.decimals, rd.symbol)
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return s.abandoned(key, err)
	}

	var holdings []entity.Holding
	for i, res := range results {
		if !res.IsOk() {
			kind := entity.ReadErrorKindOf(res.Err)
			metrics.BalanceReadFailures.WithLabelValues(string(kind)).Inc()
			s.logger.Error("Balance read failed, excluding from portfolio",
				zap.String("vault", key),
				zap.Int64("chainId", reads[i].chainID),
				zap.String("symbol", reads[i].symbol),
				zap.Error(res.Err))
			continue
		}
		holdings = append(holdings, entity.Holding{
			Symbol:      reads[i].symbol,
			Name:        reads[i].name,
			ChainID:     reads[i].chainID,
			Balance:     res.Value,
			PriceFeedID: reads[i].priceFeedID,
			Kind:        entity.HoldingKindToken,
		})
	}
	for _, sh := range strategyHoldings {
		holdings = append(holdings, sh...)
	}

	summary := s.value(ctx, key, holdings)
	if err := ctx.Err(); err != nil {
		return s.abandoned(key, err)
	}
	s.store(ctx, key, summary)
	s.logger.Info("Portfolio computed",
		zap.String("vault", key),
		zap.Float64("totalValueUsd", summary.TotalValueUSD),
		zap.Int("holdings", len(summary.Holdings)),
		zap.Duration("took", time.Since(start)))
	return summary
}

// abandoned reports a computation whose caller went away. Its partial result is never cached.
func (s *PortfolioServiceImpl) abandoned(key string, err error) entity.PortfolioSummary {
	s.logger.Warn("Portfolio computation abandoned", zap.String("vault", key), zap.Error(err))
	return entity.EmptySummary(key, fmt.Sprintf("portfolio computation cancelled: %v", err))
}

// planReads lists one native read per chain plus one read per token deployed there.
// Chains without a live client are configuration gaps and are skipped.
func (s *PortfolioServiceImpl) planReads() []balanceRead {
	var reads []balanceRead
	for _, chain := range s.deps.Chains {
		client, ok := s.deps.Pool.Client(chain.ChainID)
		if !ok {
			s.skipRead(chain.ChainID, chain.Native.Symbol, entity.ErrChainUnavailable)
			continue
		}
		for _, token := range s.deps.Tokens {
			addr, ok := token.AddressOn(chain.ChainID)
			if !ok {
				continue
			}
			if !common.IsHexAddress(addr) {
				s.skipRead(chain.ChainID, token.Symbol, fmt.Errorf("%w: %q", entity.ErrInvalidTokenAddress, addr))
				continue
			}
			reads = append(reads, balanceRead{
				client:      client,
				chainID:     chain.ChainID,
				token:       common.HexToAddress(addr),
				symbol:      token.Symbol,
				name:        token.Name,
				decimals:    token.Decimals,
				priceFeedID: token.PriceFeedID,
			})
		}
		reads = append(reads, balanceRead{
			client:      client,
			chainID:     chain.ChainID,
			native:      true,
			symbol:      chain.Native.Symbol,
			name:        chain.Native.Name,
			decimals:    chain.Native.Decimals,
			priceFeedID: chain.Native.PriceFeedID,
		})
	}
	return reads
}

// skipRead records a read that was never attempted because of a configuration gap.
func (s *PortfolioServiceImpl) skipRead(chainID int64, symbol string, cause error) {
	err := entity.NewReadError(entity.ReadErrorConfigGap, "plan reads", chainID, symbol, cause)
	metrics.BalanceReadFailures.WithLabelValues(string(entity.ReadErrorConfigGap)).Inc()
	s.logger.Warn("Skipping balance read", zap.Error(err))
}

// scanStrategy runs one strategy reader and contains any panic inside it.
func (s *PortfolioServiceImpl) scanStrategy(ctx context.Context, sr port.StrategyReader, vault common.Address) (holdings []entity.Holding) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Strategy scan panicked", zap.String("strategy", sr.Key()), zap.Any("panic", r))
			holdings = nil
		}
	}()
	return sr.Balances(ctx, s.deps.Pool, vault, s.deps.Tokens)
}

// value filters, prices, ranks and counts the raw holdings.
func (s *PortfolioServiceImpl) value(ctx context.Context, key string, raw []entity.Holding) entity.PortfolioSummary {
	holdings := make([]entity.Holding, 0, len(raw))
	ids := make([]string, 0, len(raw))
	for _, h := range raw {
		if !h.Priceable() {
			continue
		}
		holdings = append(holdings, h)
		ids = append(ids, h.PriceFeedID)
	}

	var prices map[string]float64
	if len(ids) > 0 {
		prices = s.deps.Prices.GetPrices(ctx, utils.UniqueStrings(ids))
	}

	total := decimal.Zero
	for i := range holdings {
		price := prices[holdings[i].PriceFeedID]
		value := holdings[i].Balance.Mul(decimal.NewFromFloat(price))
		holdings[i].PriceUSD = price
		holdings[i].ValueUSD = value.InexactFloat64()
		total = total.Add(value)
	}
	sort.SliceStable(holdings, func(i, j int) bool {
		return holdings[i].ValueUSD > holdings[j].ValueUSD
	})

	summary := entity.EmptySummary(key, "")
	summary.Holdings = holdings
	summary.TotalValueUSD = total.InexactFloat64()

	chains := make(map[int64]struct{})
	seenStrategy := make(map[string]struct{})
	for _, h := range holdings {
		chains[h.ChainID] = struct{}{}
		if h.Kind != entity.HoldingKindStrategy {
			summary.TokensCount++
			continue
		}
		summary.StrategyCount++
		if _, ok := seenStrategy[h.Strategy]; !ok {
			seenStrategy[h.Strategy] = struct{}{}
			summary.ActiveStrategies = append(summary.ActiveStrategies, h.Strategy)
		}
	}
	summary.ChainsCount = len(chains)
	return summary
}

// store writes memory first so a durable outage still leaves the result servable.
func (s *PortfolioServiceImpl) store(ctx context.Context, key string, summary entity.PortfolioSummary) {
	entry := entity.CachedPortfolio{Summary: summary, Timestamp: s.now()}
	s.memory.Set(key, entry, cache.DefaultExpiration)
	if s.deps.Store == nil {
		return
	}
	if err := s.deps.Store.UpsertPortfolio(ctx, key, entry); err != nil {
		s.logger.Warn("Failed to write portfolio to durable cache", zap.String("vault", key), zap.Error(err))
	}
}

func cloneSummary(in entity.PortfolioSummary) entity.PortfolioSummary {
	out := in
	out.Holdings = append(make([]entity.Holding, 0, len(in.Holdings)), in.Holdings...)
	out.ActiveStrategies = append(make([]string, 0, len(in.ActiveStrategies)), in.ActiveStrategies...)
	return out
}
