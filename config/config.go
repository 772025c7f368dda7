// Package config loads a MatchingEngine's EngineConfig from a YAML
// file, expanding ${VAR}-style environment references the way the
// rest of the pack's services do.
package config

import (
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goovo/matching-engine/engine"
)

func msToDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// fileConfig mirrors engine.EngineConfig's yaml tags, except that the
// order timeout is read as whole milliseconds from order_timeout_ms,
// and keeps the file format decoupled from the in-process type, so the
// two can evolve independently.
type fileConfig struct {
	MaxOrderPrice      engine.Price    `yaml:"max_order_price"`
	MaxOrderQuantity   engine.Quantity `yaml:"max_order_quantity"`
	MaxOrdersPerSymbol int             `yaml:"max_orders_per_symbol"`
	MaxSymbols         int             `yaml:"max_symbols"`
	StrictValidation   bool            `yaml:"strict_validation"`
	EnableThreading    bool            `yaml:"enable_threading"`
	EnableLogging      bool            `yaml:"enable_logging"`
	OrderTimeoutMillis int64           `yaml:"order_timeout_ms"`
}

// Load reads filePath, expands environment variables of the form
// ${VAR} in its contents, and unmarshals it into an EngineConfig. If
// filePath is empty, it falls back to the ENGINE_CONFIG_FILE
// environment variable. Fields absent from the file keep
// DefaultEngineConfig's values.
func Load(filePath string) (engine.EngineConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("ENGINE_CONFIG_FILE")
	}

	sugar := zap.S().With("func", "config.Load", "filePath", filePath)
	sugar.Debug("loading engine config")

	cfg := defaultsAsFileConfig()

	if len(filePath) == 0 {
		return cfg.toEngineConfig(), nil
	}

	raw, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("failed to read config file", zap.Error(err))
		return engine.EngineConfig{}, err
	}
	raw = []byte(os.ExpandEnv(string(raw)))

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		sugar.Error("failed to parse config file", zap.Error(err))
		return engine.EngineConfig{}, err
	}

	result := cfg.toEngineConfig()
	if err := result.Validate(); err != nil {
		return engine.EngineConfig{}, err
	}
	sugar.Debugf("engine config: %+v", result)
	return result, nil
}

func defaultsAsFileConfig() fileConfig {
	d := engine.DefaultEngineConfig()
	return fileConfig{
		MaxOrderPrice:      d.MaxOrderPrice,
		MaxOrderQuantity:   d.MaxOrderQuantity,
		MaxOrdersPerSymbol: d.MaxOrdersPerSymbol,
		MaxSymbols:         d.MaxSymbols,
		StrictValidation:   d.StrictValidation,
		EnableThreading:    d.EnableThreading,
		EnableLogging:      d.EnableLogging,
		OrderTimeoutMillis: d.OrderTimeout.Milliseconds(),
	}
}

func (c fileConfig) toEngineConfig() engine.EngineConfig {
	cfg := engine.DefaultEngineConfig()
	cfg.MaxOrderPrice = c.MaxOrderPrice
	cfg.MaxOrderQuantity = c.MaxOrderQuantity
	cfg.MaxOrdersPerSymbol = c.MaxOrdersPerSymbol
	cfg.MaxSymbols = c.MaxSymbols
	cfg.StrictValidation = c.StrictValidation
	cfg.EnableThreading = c.EnableThreading
	cfg.EnableLogging = c.EnableLogging
	cfg.OrderTimeout = msToDuration(c.OrderTimeoutMillis)
	return cfg
}
