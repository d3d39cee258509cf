package container

import (
	"context"
	"fmt"
	"time"

	"defi_copilot/internal/app/port"
	"defi_copilot/internal/app/provider"
	"defi_copilot/internal/app/service"
	"defi_copilot/internal/app/strategy"
	"defi_copilot/internal/client"
	"defi_copilot/internal/config"
	netclient "defi_copilot/internal/infrastructure/network/client"
	"defi_copilot/internal/infrastructure/store/mongostore"
	"defi_copilot/internal/infrastructure/store/redisstore"

	"go.uber.org/zap"
)

// cacheStore is a durable backend serving both cache tiers.
type cacheStore interface {
	port.PortfolioCacheStore
	port.PriceCacheStore
	Close(ctx context.Context) error
}

// Container holds the wired portfolio core. Build it once per process.
type Container struct {
	Config    *config.Config
	Pool      *netclient.Pool
	Prices    *service.TokenPriceService
	Portfolio *service.PortfolioServiceImpl

	store  cacheStore
	logger *zap.Logger
}

// New dials the chains, opens the durable store and builds the services.
// An unreachable store degrades to in-process caching only.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	log := logger.Named("Container")

	tokens, err := provider.NewTokenProvider(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("token catalog: %w", err)
	}
	chains := provider.NewChainProvider(cfg)

	pool := netclient.Connect(ctx, chains.Chains(), netclient.PoolOptions{
		DialTimeout: time.Duration(cfg.RpcClient.DialTimeoutMs) * time.Millisecond,
		RateLimit:   cfg.RpcClient.RateLimit,
		BurstLimit:  cfg.RpcClient.BurstLimit,
	}, logger)

	store := openStore(ctx, cfg, logger)

	api := client.NewCoinGeckoClient(cfg.PriceOracle.BaseURL, cfg.PriceOracle.ApiKey, cfg.PriceOracle.VsCurrency, cfg.PriceOracle.Timeout(), logger)
	c := &Container{Config: cfg, Pool: pool, store: store, logger: log}
	c.Prices = service.NewTokenPriceService(api, store, cfg.PriceOracle, logger)

	deps := service.PortfolioDeps{
		Pool:       pool,
		Chains:     chains.Chains(),
		Tokens:     tokens.Tokens(),
		Strategies: strategy.Registry(cfg.Strategies, logger),
		Prices:     c.Prices,
		Store:      store,
		Config:     cfg.Portfolio,
	}
	c.Portfolio = service.NewPortfolioService(deps, logger)

	log.Info("Portfolio core ready",
		zap.Int("chains", len(pool.ChainIDs())),
		zap.Int("tokens", len(deps.Tokens)),
		zap.Int("strategies", len(deps.Strategies)),
		zap.String("store", cfg.Store.Driver))
	return c, nil
}

// openStore returns nil when no durable store is configured or it cannot be reached.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) cacheStore {
	var (
		store cacheStore
		err   error
	)
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		store, err = mongostore.New(ctx, cfg.Store.Mongo, logger)
	case config.StoreDriverRedis:
		store, err = redisstore.New(ctx, cfg.Store.Redis, cfg.Portfolio.CacheTTL(), cfg.PriceOracle.CacheTTL(), logger)
	default:
		logger.Info("No durable cache configured, caching in process only")
		return nil
	}
	if err != nil {
		logger.Warn("Durable cache unavailable, caching in process only",
			zap.String("driver", cfg.Store.Driver), zap.Error(err))
		return nil
	}
	return store
}

// Close releases chain connections and the durable store.
func (c *Container) Close(ctx context.Context) {
	c.Pool.Close()
	if c.store == nil {
		return
	}
	if err := c.store.Close(ctx); err != nil {
		c.logger.Warn("Failed to close durable cache", zap.Error(err))
	}
}
