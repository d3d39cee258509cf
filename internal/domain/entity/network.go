package entity

import (
	"fmt"
	"time"
)

// NativeCurrency describes the gas asset of a chain.
type NativeCurrency struct {
	Symbol      string `json:"symbol" yaml:"symbol"`
	Name        string `json:"name" yaml:"name"`
	Decimals    int32  `json:"decimals" yaml:"decimals"`
	PriceFeedID string `json:"priceFeedId" yaml:"priceFeedId"`
}

// ChainConfig holds the static description of an EVM chain the vault may hold assets on.
// It is built once at startup and only read afterwards.
type ChainConfig struct {
	ChainID     int64          `json:"chainId" yaml:"chainId"`
	Name        string         `json:"name" yaml:"name"`
	RPCURL      string         `json:"rpcUrl" yaml:"rpcUrl"`
	RPCEnv      string         `json:"rpcEnv,omitempty" yaml:"rpcEnv,omitempty"` // env var overriding RPCURL
	RPCTimeout  time.Duration  `json:"-" yaml:"-"`
	Native      NativeCurrency `json:"native" yaml:"native"`
	ExplorerURL string         `json:"explorerUrl,omitempty" yaml:"explorerUrl,omitempty"`
}

// ChainName returns the display name of chainID from chains, or a generic label when unknown.
func ChainName(chains []ChainConfig, chainID int64) string {
	for _, c := range chains {
		if c.ChainID == chainID {
			return c.Name
		}
	}
	return UnknownChainName(chainID)
}

// UnknownChainName labels a chain that has no configured display name.
func UnknownChainName(chainID int64) string {
	return fmt.Sprintf("chain-%d", chainID)
}
