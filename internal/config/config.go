package config

import (
	"time"

	"defi_copilot/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

const (
	DefaultPortfolioCacheTTLSeconds = 60
	DefaultPriceCacheTTLMinutes     = 15
	DefaultPriceTimeoutSeconds      = 10
	DefaultPriceBaseURL             = "https://api.coingecko.com/api/v3"
	DefaultRPCTimeoutMs             = 10000
	DefaultDialTimeoutMs            = 10000
	DefaultMaxConcurrentReads       = 16
)

// Config holds the overall configuration for the application.
type Config struct {
	Server      ServerConfig         `yaml:"server"`
	Logging     LoggingConfig        `yaml:"logging"`
	Chains      []ChainNode          `yaml:"chains"`
	Tokens      []entity.TokenConfig `yaml:"tokens"`
	TokensFile  string               `yaml:"tokensFile"`
	Strategies  StrategiesConfig     `yaml:"strategies"`
	Portfolio   PortfolioConfig      `yaml:"portfolio"`
	PriceOracle PriceOracleConfig    `yaml:"priceOracle"`
	RpcClient   RpcClientConfig      `yaml:"rpcClient"`
	Store       StoreConfig          `yaml:"store"`
}

// ServerConfig holds the server-specific configuration.
type ServerConfig struct {
	Port           string   `yaml:"port"`
	ReadTimeout    int      `yaml:"readTimeout"`
	WriteTimeout   int      `yaml:"writeTimeout"`
	IdleTimeout    int      `yaml:"idleTimeout"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level       string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
	Development bool   `yaml:"development"`
	File        string `yaml:"file"`
}

// ChainNode holds the configuration for a specific chain and its RPC node.
type ChainNode struct {
	ChainID      int64                 `yaml:"chainId"`
	Name         string                `yaml:"name"`
	RPCURL       string                `yaml:"rpcUrl"`
	RPCEnv       string                `yaml:"rpcEnv"`
	RPCTimeoutMs int64                 `yaml:"rpcTimeoutMs"`
	ExplorerURL  string                `yaml:"explorerUrl"`
	Native       entity.NativeCurrency `yaml:"native"`
}

// ChainConfig converts the node into the immutable domain form.
func (n ChainNode) ChainConfig() entity.ChainConfig {
	return entity.ChainConfig{
		ChainID:     n.ChainID,
		Name:        n.Name,
		RPCURL:      n.RPCURL,
		RPCEnv:      n.RPCEnv,
		RPCTimeout:  time.Duration(n.RPCTimeoutMs) * time.Millisecond,
		Native:      n.Native,
		ExplorerURL: n.ExplorerURL,
	}
}

// StrategiesConfig lists the strategy readers and their protocol mappings.
type StrategiesConfig struct {
	AaveV3 AaveV3Config `yaml:"aaveV3"`
}

// AaveV3Config maps chain id -> underlying symbol -> aToken address.
type AaveV3Config struct {
	Disabled bool                        `yaml:"disabled"`
	ATokens  map[int64]map[string]string `yaml:"aTokens"`
}

// PortfolioConfig holds configuration for the portfolio aggregator.
type PortfolioConfig struct {
	CacheTTLSeconds    int  `yaml:"cacheTtlSeconds"`
	MaxConcurrentReads int  `yaml:"maxConcurrentReads"`
	SingleFlight       bool `yaml:"singleFlight"`
}

// CacheTTL returns the portfolio freshness window.
func (c PortfolioConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// PriceOracleConfig holds the configuration for the CoinGecko price client and cache.
type PriceOracleConfig struct {
	BaseURL          string `yaml:"baseUrl"`
	ApiKey           string `yaml:"apiKey"`
	VsCurrency       string `yaml:"vsCurrency"`
	TimeoutSeconds   int    `yaml:"timeoutSeconds"`
	CacheTTLMinutes  int    `yaml:"cacheTtlMinutes"`
	MaxIDsPerRequest int    `yaml:"maxIdsPerRequest"` // 0 sends every id in one request
}

// Timeout returns the HTTP timeout for one price request.
func (c PriceOracleConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheTTL returns the price freshness window.
func (c PriceOracleConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// RpcClientConfig holds configuration for RPC clients.
type RpcClientConfig struct {
	DefaultTimeoutMs int64   `yaml:"defaultTimeoutMs"`
	DialTimeoutMs    int64   `yaml:"dialTimeoutMs"`
	RateLimit        float64 `yaml:"rateLimit"` // requests per second per chain, 0 means unlimited
	BurstLimit       int     `yaml:"burstLimit"`
}

// StoreConfig selects the durable cache backend.
type StoreConfig struct {
	Driver string      `yaml:"driver"` // mongo, redis or none
	Mongo  MongoConfig `yaml:"mongo"`
	Redis  RedisConfig `yaml:"redis"`
}

// MongoConfig holds the connection settings of the mongo cache store.
type MongoConfig struct {
	URI       string `yaml:"uri"`
	Database  string `yaml:"database"`
	TimeoutMs int64  `yaml:"timeoutMs"`
}

// RedisConfig holds the connection settings of the redis cache store.
type RedisConfig struct {
	Address   string `yaml:"address"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"keyPrefix"`
}

const (
	StoreDriverMongo = "mongo"
	StoreDriverRedis = "redis"
	StoreDriverNone  = "none"
)

// ApplyDefaults fills every unset value and logs what was defaulted.
func (cfg *Config) ApplyDefaults() {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8000"
		logrus.Infof("Server.Port not set, defaulting to %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 120
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Portfolio.CacheTTLSeconds == 0 {
		cfg.Portfolio.CacheTTLSeconds = DefaultPortfolioCacheTTLSeconds
		logrus.Infof("Portfolio.CacheTTLSeconds not set, defaulting to %d", cfg.Portfolio.CacheTTLSeconds)
	}
	if cfg.Portfolio.MaxConcurrentReads <= 0 {
		cfg.Portfolio.MaxConcurrentReads = DefaultMaxConcurrentReads
		logrus.Infof("Portfolio.MaxConcurrentReads not set, defaulting to %d", cfg.Portfolio.MaxConcurrentReads)
	}

	if cfg.PriceOracle.BaseURL == "" {
		cfg.PriceOracle.BaseURL = DefaultPriceBaseURL
		logrus.Infof("PriceOracle.BaseURL not set, defaulting to %s", cfg.PriceOracle.BaseURL)
	}
	if cfg.PriceOracle.VsCurrency == "" {
		cfg.PriceOracle.VsCurrency = "usd"
	}
	if cfg.PriceOracle.TimeoutSeconds == 0 {
		cfg.PriceOracle.TimeoutSeconds = DefaultPriceTimeoutSeconds
		logrus.Infof("PriceOracle.TimeoutSeconds not set, defaulting to %d", cfg.PriceOracle.TimeoutSeconds)
	}
	if cfg.PriceOracle.CacheTTLMinutes == 0 {
		cfg.PriceOracle.CacheTTLMinutes = DefaultPriceCacheTTLMinutes
		logrus.Infof("PriceOracle.CacheTTLMinutes not set, defaulting to %d minutes", cfg.PriceOracle.CacheTTLMinutes)
	}

	if cfg.RpcClient.DefaultTimeoutMs == 0 {
		cfg.RpcClient.DefaultTimeoutMs = DefaultRPCTimeoutMs
		logrus.Infof("RpcClient.DefaultTimeoutMs not set, defaulting to %d ms", cfg.RpcClient.DefaultTimeoutMs)
	}
	if cfg.RpcClient.DialTimeoutMs == 0 {
		cfg.RpcClient.DialTimeoutMs = DefaultDialTimeoutMs
	}
	if cfg.RpcClient.RateLimit > 0 && cfg.RpcClient.BurstLimit <= 0 {
		cfg.RpcClient.BurstLimit = 1
		logrus.Infof("RpcClient.BurstLimit not set, defaulting to %d", cfg.RpcClient.BurstLimit)
	}
	for i := range cfg.Chains {
		if cfg.Chains[i].RPCTimeoutMs == 0 {
			cfg.Chains[i].RPCTimeoutMs = cfg.RpcClient.DefaultTimeoutMs
		}
		if cfg.Chains[i].Native.Decimals == 0 {
			cfg.Chains[i].Native.Decimals = 18
		}
	}

	if cfg.Store.Driver == "" {
		cfg.Store.Driver = StoreDriverNone
		logrus.Infof("Store.Driver not set, defaulting to %s", cfg.Store.Driver)
	}
	if cfg.Store.Mongo.Database == "" {
		cfg.Store.Mongo.Database = "demai"
	}
	if cfg.Store.Mongo.TimeoutMs == 0 {
		cfg.Store.Mongo.TimeoutMs = 3000
	}
	if cfg.Store.Redis.KeyPrefix == "" {
		cfg.Store.Redis.KeyPrefix = "copilot:"
	}
}

// ChainConfigs returns the domain form of every configured chain.
func (cfg *Config) ChainConfigs() []entity.ChainConfig {
	out := make([]entity.ChainConfig, 0, len(cfg.Chains))
	for _, n := range cfg.Chains {
		out = append(out, n.ChainConfig())
	}
	return out
}
