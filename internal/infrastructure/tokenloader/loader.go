package tokenloader

import (
	"fmt"
	"strings"

	"defi_copilot/internal/domain/entity"
	"defi_copilot/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// LoadTokens reads a JSON token catalog (an array of entity.TokenConfig) from path.
// Entries with no symbol, out-of-range decimals or no valid address are skipped;
// invalid addresses inside an otherwise good entry are dropped individually.
func LoadTokens(path string, logger *zap.Logger) ([]entity.TokenConfig, error) {
	var raw []entity.TokenConfig
	if err := utils.LoadJSONFile(path, &raw); err != nil {
		return nil, fmt.Errorf("failed to load token catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(raw))
	tokens := make([]entity.TokenConfig, 0, len(raw))
	for i, t := range raw {
		t.Symbol = strings.TrimSpace(t.Symbol)
		if t.Symbol == "" || t.Decimals < 0 || t.Decimals > 36 {
			logger.Warn("Skipping malformed token entry", zap.String("file", path), zap.Int("index", i), zap.String("symbol", t.Symbol))
			continue
		}
		if _, dup := seen[t.Symbol]; dup {
			logger.Warn("Skipping duplicate token symbol", zap.String("file", path), zap.String("symbol", t.Symbol))
			continue
		}

		addrs := make(map[int64]string, len(t.Addresses))
		for chainID, addr := range t.Addresses {
			if !common.IsHexAddress(addr) {
				logger.Warn("Dropping invalid token address",
					zap.String("symbol", t.Symbol), zap.Int64("chainId", chainID), zap.String("address", addr))
				continue
			}
			addrs[chainID] = addr
		}
		if len(addrs) == 0 {
			logger.Warn("Token has no usable addresses, skipping", zap.String("symbol", t.Symbol))
			continue
		}
		t.Addresses = addrs
		seen[t.Symbol] = struct{}{}
		tokens = append(tokens, t)
	}

	logger.Info("Token catalog loaded", zap.String("file", path), zap.Int("count", len(tokens)))
	return tokens, nil
}
