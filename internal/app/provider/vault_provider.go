package provider

import (
	"defi_copilot/internal/app/port"
	"defi_copilot/internal/infrastructure/vaultloader"

	"go.uber.org/zap"
)

type vaultProviderImpl struct {
	explicit []string
	filePath string
	logger   *zap.Logger
}

// NewVaultProvider returns the vaults given on the command line plus those listed in filePath.
func NewVaultProvider(explicit []string, filePath string, logger *zap.Logger) port.VaultProvider {
	return &vaultProviderImpl{explicit: explicit, filePath: filePath, logger: logger.Named("VaultProvider")}
}

// GetVaults implements port.VaultProvider. Explicit vaults come first and are passed through
// unvalidated; the aggregator reports bad ones.
func (p *vaultProviderImpl) GetVaults() ([]string, error) {
	vaults := append([]string(nil), p.explicit...)
	if p.filePath == "" {
		return vaults, nil
	}
	p.logger.Debug("Loading vaults from file", zap.String("path", p.filePath))
	fromFile, err := vaultloader.LoadVaults(p.filePath, p.logger)
	if err != nil {
		p.logger.Error("Failed to load vaults", zap.String("path", p.filePath), zap.Error(err))
		return nil, err
	}
	return append(vaults, fromFile...), nil
}
