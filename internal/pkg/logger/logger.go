package logger

import (
	"fmt"
	"strings"

	"defi_copilot/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a config level string onto a zap level, defaulting to info.
func ParseLevel(levelStr string) (zapcore.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return zapcore.DebugLevel, true
	case "info", "":
		return zapcore.InfoLevel, true
	case "warn", "warning":
		return zapcore.WarnLevel, true
	case "error":
		return zapcore.ErrorLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

// New builds the service logger: JSON production output with ISO8601 timestamps,
// or a console encoder in development mode.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, ok := ParseLevel(cfg.Level)

	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.File != "" {
		zcfg.OutputPaths = append(zcfg.OutputPaths, cfg.File)
	}

	l, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	if !ok {
		l.Warn("Invalid log level in config, defaulting to info", zap.String("input", cfg.Level))
	}
	return l, nil
}
