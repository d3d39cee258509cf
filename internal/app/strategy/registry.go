package strategy

import (
	"defi_copilot/internal/app/port"
	"defi_copilot/internal/config"

	"go.uber.org/zap"
)

// Registry returns the strategy readers enabled by cfg. Adding a protocol means
// adding one entry here.
func Registry(cfg config.StrategiesConfig, logger *zap.Logger) []port.StrategyReader {
	var readers []port.StrategyReader
	if !cfg.AaveV3.Disabled {
		readers = append(readers, NewAaveV3Reader(cfg.AaveV3.ATokens, logger))
	}
	return readers
}
