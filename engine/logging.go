package engine

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newEngineLogger builds the production zap.Logger a MatchingEngine
// logs through when cfg.EnableLogging is set, matching the encoder
// setup the rest of the pack uses (ISO8601 timestamps, JSON output).
// When logging is disabled it returns zap.NewNop(), so call sites
// never need a nil check.
func newEngineLogger(enabled bool) *zap.Logger {
	if !enabled {
		return zap.NewNop()
	}
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
