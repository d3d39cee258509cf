package vaultloader

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LoadVaults reads vault addresses from a file holding either a JSON array of strings
// or one address per line. In the line form blank lines and lines starting with # are
// ignored. Malformed addresses are skipped in both forms.
// Addresses are returned checksummed and deduplicated in file order.
func LoadVaults(path string, logger *zap.Logger) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault file %s: %w", path, err)
	}

	var vaults []string
	seen := make(map[string]struct{})
	add := func(entry string, where zap.Field) {
		entry = strings.TrimSpace(entry)
		if !common.IsHexAddress(entry) {
			logger.Warn("Skipping invalid vault address", zap.String("file", path), where, zap.String("address", entry))
			return
		}
		addr := common.HexToAddress(entry).Hex()
		if _, dup := seen[addr]; dup {
			return
		}
		seen[addr] = struct{}{}
		vaults = append(vaults, addr)
	}

	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []string
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("failed to decode vault file %s: %w", path, err)
		}
		for i, entry := range entries {
			add(entry, zap.Int("index", i))
		}
	} else {
		scanner := bufio.NewScanner(bytes.NewReader(data))
		lineNum := 0
		for scanner.Scan() {
			lineNum++
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			add(line, zap.Int("line", lineNum))
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("error scanning vault file %s: %w", path, err)
		}
	}

	logger.Info("Vaults loaded from file", zap.Int("count", len(vaults)), zap.String("path", path))
	return vaults, nil
}
