package service

import (
	"context"
	"time"

	"defi_copilot/internal/app/port"
	"defi_copilot/internal/config"
	"defi_copilot/internal/domain/entity"
	"defi_copilot/internal/infrastructure/httpclient"
	"defi_copilot/internal/pkg/metrics"
	"defi_copilot/internal/pkg/utils"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// TokenPriceService implements port.PriceOracle as a read-through cache over CoinGecko:
// in-process first, then the durable store, then one batched API request.
// Prices the API cannot supply resolve to 0 and are cached like any other price,
// so an outage keeps serving zeros until the entries age out.
type TokenPriceService struct {
	api              httpclient.CoinGeckoClient
	store            port.PriceCacheStore
	memory           *cache.Cache
	ttl              time.Duration
	timeout          time.Duration
	maxIDsPerRequest int
	now              func() time.Time
	logger           *zap.Logger
}

// NewTokenPriceService creates the price oracle. store may be nil.
func NewTokenPriceService(api httpclient.CoinGeckoClient, store port.PriceCacheStore, cfg config.PriceOracleConfig, logger *zap.Logger) *TokenPriceService {
	ttl := cfg.CacheTTL()
	return &TokenPriceService{
		api:              api,
		store:            store,
		memory:           cache.New(ttl, 10*time.Minute),
		ttl:              ttl,
		timeout:          cfg.Timeout(),
		maxIDsPerRequest: cfg.MaxIDsPerRequest,
		now:              time.Now,
		logger:           logger.Named("TokenPriceService"),
	}
}

// GetPrices implements port.PriceOracle.
func (s *TokenPriceService) GetPrices(ctx context.Context, priceFeedIDs []string) map[string]float64 {
	ids := utils.UniqueStrings(priceFeedIDs)
	prices := make(map[string]float64, len(ids))
	if len(ids) == 0 {
		return prices
	}
	now := s.now()

	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if v, ok := s.memory.Get(id); ok {
			if e := v.(entity.PriceCacheEntry); e.FreshAt(now, s.ttl) {
				prices[id] = e.PriceUSD
				metrics.PriceCacheHits.WithLabelValues(metrics.TierMemory).Inc()
				continue
			}
		}
		missing = append(missing, id)
	}

	missing = s.fromStore(ctx, now, missing, prices)
	if len(missing) == 0 {
		return prices
	}

	fetched := s.fetch(ctx, missing)
	if ctx.Err() != nil {
		// Zeros caused by the caller leaving are not a price outage; keep them out of both tiers.
		for _, id := range missing {
			prices[id] = fetched[id]
		}
		return prices
	}
	entries := make([]entity.PriceCacheEntry, 0, len(fetched))
	for _, id := range missing {
		e := entity.PriceCacheEntry{PriceFeedID: id, PriceUSD: fetched[id], Timestamp: now}
		prices[id] = e.PriceUSD
		s.memory.Set(id, e, cache.DefaultExpiration)
		entries = append(entries, e)
	}
	if s.store != nil {
		if err := s.store.UpsertPrices(ctx, entries); err != nil {
			s.logger.Warn("Failed to write prices to durable cache", zap.Int("count", len(entries)), zap.Error(err))
		}
	}
	return prices
}

// fromStore resolves what it can from the durable tier into prices and returns the ids still missing.
// A store failure is treated as a miss.
func (s *TokenPriceService) fromStore(ctx context.Context, now time.Time, ids []string, prices map[string]float64) []string {
	if s.store == nil || len(ids) == 0 {
		return ids
	}
	stored, err := s.store.GetPrices(ctx, ids)
	if err != nil {
		s.logger.Warn("Durable price cache read failed, fetching from API", zap.Error(err))
		return ids
	}
	remaining := make([]string, 0, len(ids))
	for _, id := range ids {
		e, ok := stored[id]
		if !ok || !e.FreshAt(now, s.ttl) {
			remaining = append(remaining, id)
			continue
		}
		prices[id] = e.PriceUSD
		s.memory.Set(id, e, cache.DefaultExpiration)
		metrics.PriceCacheHits.WithLabelValues(metrics.TierDurable).Inc()
	}
	return remaining
}

// fetch asks the API for ids and zero-fills anything it does not return.
func (s *TokenPriceService) fetch(ctx context.Context, ids []string) map[string]float64 {
	out := make(map[string]float64, len(ids))
	for _, batch := range utils.BatchStrings(ids, s.maxIDsPerRequest) {
		reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
		start := time.Now()
		got, err := s.api.GetSimplePrices(reqCtx, batch)
		metrics.PriceFetchDuration.Observe(time.Since(start).Seconds())
		cancel()

		if err != nil {
			s.logger.Error("Price request failed, using 0 for the whole batch",
				zap.Strings("ids", batch), zap.Error(err))
			for _, id := range batch {
				out[id] = 0
			}
			continue
		}
		for _, id := range batch {
			price, ok := got[id]
			if !ok {
				s.logger.Warn("No price returned for id, using 0", zap.String("id", id))
			}
			out[id] = price
		}
	}
	return out
}
