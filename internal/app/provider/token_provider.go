package provider

import (
	"defi_copilot/internal/app/port"
	"defi_copilot/internal/config"
	"defi_copilot/internal/domain/entity"
	networkdefinition "defi_copilot/internal/infrastructure/network/definition"
	"defi_copilot/internal/infrastructure/tokenloader"

	"go.uber.org/zap"
)

type tokenProviderImpl struct {
	tokens []entity.TokenConfig
}

// NewTokenProvider resolves the token catalog once: inline config tokens win,
// then the tokens file, then the built-in catalog.
func NewTokenProvider(cfg *config.Config, logger *zap.Logger) (port.TokenProvider, error) {
	log := logger.Named("TokenProvider")
	switch {
	case len(cfg.Tokens) > 0:
		log.Info("Using tokens from config", zap.Int("count", len(cfg.Tokens)))
		return &tokenProviderImpl{tokens: cfg.Tokens}, nil
	case cfg.TokensFile != "":
		tokens, err := tokenloader.LoadTokens(cfg.TokensFile, log)
		if err != nil {
			return nil, err
		}
		return &tokenProviderImpl{tokens: tokens}, nil
	default:
		tokens := networkdefinition.DefaultTokens()
		log.Info("Using built-in token catalog", zap.Int("count", len(tokens)))
		return &tokenProviderImpl{tokens: tokens}, nil
	}
}

// Tokens implements port.TokenProvider.
func (p *tokenProviderImpl) Tokens() []entity.TokenConfig {
	return p.tokens
}

type chainProviderImpl struct {
	chains []entity.ChainConfig
}

// NewChainProvider exposes the configured chains.
func NewChainProvider(cfg *config.Config) port.ChainProvider {
	return &chainProviderImpl{chains: cfg.ChainConfigs()}
}

// Chains implements port.ChainProvider.
func (p *chainProviderImpl) Chains() []entity.ChainConfig {
	return p.chains
}
