package networkdefinition

import (
	"sort"

	"defi_copilot/internal/domain/entity"
)

const (
	EthereumChainID int64 = 1
	ArbitrumChainID int64 = 42161
)

// Predefined chain definitions. RPC URLs are public defaults; deployments override them
// through config or the RPCEnv variable.
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.ChainConfig{
		ChainID:     EthereumChainID,
		Name:        "Ethereum",
		RPCURL:      "https://eth.llamarpc.com",
		RPCEnv:      "ETHEREUM_RPC_URL",
		ExplorerURL: "https://etherscan.io",
		Native:      ether,
	}
	Arbitrum = entity.ChainConfig{
		ChainID:     ArbitrumChainID,
		Name:        "Arbitrum One",
		RPCURL:      "https://arbitrum.llamarpc.com",
		RPCEnv:      "ARBITRUM_RPC_URL",
		ExplorerURL: "https://arbiscan.io",
		Native:      ether,
	}

	ether = entity.NativeCurrency{Symbol: "ETH", Name: "Ethereum", Decimals: 18, PriceFeedID: "ethereum"}
)

// allKnownDefinitions is a helper to quickly access all hardcoded definitions.
var allKnownDefinitions = map[int64]entity.ChainConfig{
	Ethereum.ChainID: Ethereum,
	Arbitrum.ChainID: Arbitrum,
}

// supportedTokens is the built-in token catalog. USDC.e and ARB only exist on Arbitrum.
var supportedTokens = []entity.TokenConfig{
	{
		Symbol: "WBTC", Name: "Wrapped Bitcoin", Decimals: 8, PriceFeedID: "wrapped-bitcoin",
		Addresses: map[int64]string{
			EthereumChainID: "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599",
			ArbitrumChainID: "0x2f2a2543B76A4166549F7aaB2e75Bef0aefC5B0f",
		},
	},
	{
		Symbol: "USDC", Name: "USD Coin", Decimals: 6, PriceFeedID: "usd-coin",
		Addresses: map[int64]string{
			EthereumChainID: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
			ArbitrumChainID: "0xaf88d065e77c8cC2239327C5EDb3A432268e5831",
		},
	},
	{
		Symbol: "USDC.e", Name: "Bridged USDC", Decimals: 6, PriceFeedID: "usd-coin",
		Addresses: map[int64]string{
			ArbitrumChainID: "0xFF970A61A04b1cA14834A43f5dE4533eBDDB5CC8",
		},
	},
	{
		Symbol: "WETH", Name: "Wrapped Ether", Decimals: 18, PriceFeedID: "weth",
		Addresses: map[int64]string{
			EthereumChainID: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
			ArbitrumChainID: "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1",
		},
	},
	{
		Symbol: "DAI", Name: "Dai Stablecoin", Decimals: 18, PriceFeedID: "dai",
		Addresses: map[int64]string{
			EthereumChainID: "0x6B175474E89094C44Da98b954EedeAC495271d0F",
			ArbitrumChainID: "0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1",
		},
	},
	{
		Symbol: "USDT", Name: "Tether USD", Decimals: 6, PriceFeedID: "tether",
		Addresses: map[int64]string{
			EthereumChainID: "0xdAC17F958D2ee523a2206206994597C13D831ec7",
			ArbitrumChainID: "0xFd086bC7CD5C481DCC9C85ebE478A1C0b69FCbb9",
		},
	},
	{
		Symbol: "LINK", Name: "Chainlink", Decimals: 18, PriceFeedID: "chainlink",
		Addresses: map[int64]string{
			EthereumChainID: "0x514910771AF9Ca656af840dff83E8264EcF986CA",
			ArbitrumChainID: "0xf97f4df75117a78c1A5a0DBb814Af92458539FB4",
		},
	},
	{
		Symbol: "UNI", Name: "Uniswap", Decimals: 18, PriceFeedID: "uniswap",
		Addresses: map[int64]string{
			EthereumChainID: "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984",
			ArbitrumChainID: "0xFa7F8980b0f1E64A2062791cc3b0871572f1F7f0",
		},
	},
	{
		Symbol: "AAVE", Name: "Aave", Decimals: 18, PriceFeedID: "aave",
		Addresses: map[int64]string{
			EthereumChainID: "0x7Fc66500c84A76Ad7e9c93437bFc5Ac33E2DDaE9",
			ArbitrumChainID: "0xba5DdD1f9d7F570dc94a51479a000E3BCE967196",
		},
	},
	{
		Symbol: "ARB", Name: "Arbitrum", Decimals: 18, PriceFeedID: "arbitrum",
		Addresses: map[int64]string{
			ArbitrumChainID: "0x912CE59144191C1204E64559FE8253a0e49E6548",
		},
	},
}

// aaveV3ATokens maps chain -> underlying symbol -> aToken for the Aave V3 markets the vault uses.
var aaveV3ATokens = map[int64]map[string]string{
	ArbitrumChainID: {
		"USDC": "0x724dc807b04555b71ed48a6896b6F41593b8C637",
	},
}

// DefaultChains returns the built-in chains ordered by chain id.
func DefaultChains() []entity.ChainConfig {
	chains := make([]entity.ChainConfig, 0, len(allKnownDefinitions))
	for _, def := range allKnownDefinitions {
		chains = append(chains, def)
	}
	sort.Slice(chains, func(i, j int) bool { return chains[i].ChainID < chains[j].ChainID })
	return chains
}

// ChainByID returns the built-in definition for chainID.
func ChainByID(chainID int64) (entity.ChainConfig, bool) {
	def, ok := allKnownDefinitions[chainID]
	return def, ok
}

// DefaultTokens returns a copy of the built-in token catalog.
func DefaultTokens() []entity.TokenConfig {
	tokens := make([]entity.TokenConfig, len(supportedTokens))
	for i, t := range supportedTokens {
		addrs := make(map[int64]string, len(t.Addresses))
		for k, v := range t.Addresses {
			addrs[k] = v
		}
		t.Addresses = addrs
		tokens[i] = t
	}
	return tokens
}

// DefaultAaveV3ATokens returns a copy of the built-in Aave V3 receipt token map.
func DefaultAaveV3ATokens() map[int64]map[string]string {
	out := make(map[int64]map[string]string, len(aaveV3ATokens))
	for chainID, bySymbol := range aaveV3ATokens {
		m := make(map[string]string, len(bySymbol))
		for sym, addr := range bySymbol {
			m[sym] = addr
		}
		out[chainID] = m
	}
	return out
}
