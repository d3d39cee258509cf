package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"defi_copilot/internal/config"
	networkdefinition "defi_copilot/internal/infrastructure/network/definition"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Load reads the optional .env file and the YAML configuration at path, applies
// environment overrides and defaults, and validates the result.
func Load(path string) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.Warnf("Failed to load .env file: %v", err)
	}

	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	logrus.Info("Configuration loaded successfully.")
	return cfg, nil
}

// Parse builds a Config from raw YAML. An empty document yields the built-in defaults.
func Parse(data []byte) (*config.Config, error) {
	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}

	if len(cfg.Chains) == 0 {
		for _, def := range networkdefinition.DefaultChains() {
			cfg.Chains = append(cfg.Chains, config.ChainNode{
				ChainID:     def.ChainID,
				Name:        def.Name,
				RPCURL:      def.RPCURL,
				RPCEnv:      def.RPCEnv,
				ExplorerURL: def.ExplorerURL,
				Native:      def.Native,
			})
		}
		logrus.Infof("Chains not set, defaulting to %d built-in chains", len(cfg.Chains))
	}
	if cfg.Strategies.AaveV3.ATokens == nil {
		cfg.Strategies.AaveV3.ATokens = networkdefinition.DefaultAaveV3ATokens()
	}

	applyEnvOverrides(&cfg)
	cfg.ApplyDefaults()

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *config.Config) {
	for i, chain := range cfg.Chains {
		if chain.RPCEnv == "" {
			continue
		}
		if url := os.Getenv(chain.RPCEnv); url != "" {
			cfg.Chains[i].RPCURL = url
			logrus.Infof("Chain %d RPC endpoint overridden by %s", chain.ChainID, chain.RPCEnv)
		}
	}
	if key := os.Getenv("COINGECKO_API_KEY"); key != "" && cfg.PriceOracle.ApiKey == "" {
		cfg.PriceOracle.ApiKey = key
	}
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		cfg.Store.Mongo.URI = uri
	}
	if addr := os.Getenv("REDIS_ADDRESS"); addr != "" {
		cfg.Store.Redis.Address = addr
	}
}

func validate(cfg *config.Config) error {
	seen := make(map[int64]struct{}, len(cfg.Chains))
	for _, chain := range cfg.Chains {
		if chain.ChainID == 0 {
			return fmt.Errorf("chain %q is missing chainId", chain.Name)
		}
		if _, dup := seen[chain.ChainID]; dup {
			return fmt.Errorf("chain %d is configured twice", chain.ChainID)
		}
		seen[chain.ChainID] = struct{}{}
		if chain.RPCURL == "" {
			logrus.Warnf("Chain '%s' (ChainID: %d) has no RPC endpoint and will be unavailable.", chain.Name, chain.ChainID)
		}
	}
	for _, token := range cfg.Tokens {
		if token.Symbol == "" {
			return errors.New("token entry is missing symbol")
		}
		if token.Decimals < 0 || token.Decimals > 36 {
			return fmt.Errorf("token %s has invalid decimals %d", token.Symbol, token.Decimals)
		}
	}
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		if cfg.Store.Mongo.URI == "" {
			return errors.New("store.mongo.uri is required for the mongo driver")
		}
	case config.StoreDriverRedis:
		if cfg.Store.Redis.Address == "" {
			return errors.New("store.redis.address is required for the redis driver")
		}
	case config.StoreDriverNone:
	default:
		return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	return nil
}
