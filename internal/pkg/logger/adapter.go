package logger

import (
	"log/slog"

	gethlog "github.com/ethereum/go-ethereum/log"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

// BridgeLibraries routes the standard slog default and go-ethereum's root logger
// into z, so RPC client logs end up in the same sink as the service logs.
func BridgeLibraries(z *zap.Logger) {
	handler := zapslog.NewHandler(z.Core())
	slog.SetDefault(slog.New(handler))
	gethlog.SetDefault(gethlog.NewLogger(handler))
}
