package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"defi_copilot/internal/config"
	"defi_copilot/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store implements port.PortfolioCacheStore and port.PriceCacheStore on Redis.
// Keys expire after their freshness window; readers still check the stored timestamp.
type Store struct {
	rdb          *redis.Client
	keyPrefix    string
	portfolioTTL time.Duration
	priceTTL     time.Duration
	logger       *zap.Logger
}

// New connects to Redis and pings it.
func New(ctx context.Context, cfg config.RedisConfig, portfolioTTL, priceTTL time.Duration, logger *zap.Logger) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Address, err)
	}
	s := &Store{
		rdb:          rdb,
		keyPrefix:    cfg.KeyPrefix,
		portfolioTTL: portfolioTTL,
		priceTTL:     priceTTL,
		logger:       logger.Named("RedisStore"),
	}
	s.logger.Info("Redis cache store ready", zap.String("address", cfg.Address), zap.String("prefix", cfg.KeyPrefix))
	return s, nil
}

func (s *Store) portfolioKey(vaultAddress string) string {
	return s.keyPrefix + "portfolio_cache:" + vaultAddress
}

func (s *Store) priceKey(id string) string {
	return s.keyPrefix + "price_cache:" + id
}

// GetPortfolio implements port.PortfolioCacheStore.
func (s *Store) GetPortfolio(ctx context.Context, vaultAddress string) (entity.CachedPortfolio, bool, error) {
	raw, err := s.rdb.Get(ctx, s.portfolioKey(vaultAddress)).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.CachedPortfolio{}, false, nil
	}
	if err != nil {
		return entity.CachedPortfolio{}, false, fmt.Errorf("get portfolio %s: %w", vaultAddress, err)
	}
	var entry entity.CachedPortfolio
	if err := json.Unmarshal(raw, &entry); err != nil {
		return entity.CachedPortfolio{}, false, fmt.Errorf("decode portfolio %s: %w", vaultAddress, err)
	}
	return entry, true, nil
}

// UpsertPortfolio implements port.PortfolioCacheStore.
func (s *Store) UpsertPortfolio(ctx context.Context, vaultAddress string, entry entity.CachedPortfolio) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode portfolio %s: %w", vaultAddress, err)
	}
	if err := s.rdb.Set(ctx, s.portfolioKey(vaultAddress), raw, s.portfolioTTL).Err(); err != nil {
		return fmt.Errorf("set portfolio %s: %w", vaultAddress, err)
	}
	return nil
}

// GetPrices implements port.PriceCacheStore.
func (s *Store) GetPrices(ctx context.Context, priceFeedIDs []string) (map[string]entity.PriceCacheEntry, error) {
	out := make(map[string]entity.PriceCacheEntry, len(priceFeedIDs))
	if len(priceFeedIDs) == 0 {
		return out, nil
	}
	keys := make([]string, len(priceFeedIDs))
	for i, id := range priceFeedIDs {
		keys[i] = s.priceKey(id)
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget prices: %w", err)
	}
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var entry entity.PriceCacheEntry
		if err := json.Unmarshal([]byte(str), &entry); err != nil {
			s.logger.Warn("Skipping undecodable price entry", zap.String("id", priceFeedIDs[i]), zap.Error(err))
			continue
		}
		out[priceFeedIDs[i]] = entry
	}
	return out, nil
}

// UpsertPrices implements port.PriceCacheStore.
func (s *Store) UpsertPrices(ctx context.Context, entries []entity.PriceCacheEntry) error {
	if len(entries) == 0 {
		return nil
	}
	pipe := s.rdb.Pipeline()
	for _, e := range entries {
		raw, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode price %s: %w", e.PriceFeedID, err)
		}
		pipe.Set(ctx, s.priceKey(e.PriceFeedID), raw, s.priceTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set prices: %w", err)
	}
	return nil
}

// Close closes the client.
func (s *Store) Close(context.Context) error {
	return s.rdb.Close()
}
