package engine

import "time"

// EngineConfig holds the tunable limits and feature toggles for a
// MatchingEngine. Values are validated by NewMatchingEngine; a caller
// providing an invalid EngineConfig gets an error at construction
// time rather than a panic partway through order processing.
type EngineConfig struct {
	MaxOrderPrice      Price         `yaml:"max_order_price"`
	MaxOrderQuantity   Quantity      `yaml:"max_order_quantity"`
	MaxOrdersPerSymbol int           `yaml:"max_orders_per_symbol"`
	MaxSymbols         int           `yaml:"max_symbols"`
	StrictValidation   bool          `yaml:"strict_validation"`
	EnableThreading    bool          `yaml:"enable_threading"`
	EnableLogging      bool          `yaml:"enable_logging"`
	OrderTimeout       time.Duration `yaml:"order_timeout"`
}

// DefaultEngineConfig returns the configuration the original
// implementation ships with out of the box.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MaxOrderPrice:      1_000_000,
		MaxOrderQuantity:   1_000_000,
		MaxOrdersPerSymbol: 10_000,
		MaxSymbols:         1_000,
		StrictValidation:   true,
		EnableThreading:    true,
		EnableLogging:      true,
		OrderTimeout:       30 * time.Second,
	}
}

// Validate checks the configuration for internal consistency.
func (c EngineConfig) Validate() error {
	if c.MaxOrderPrice <= 0 {
		return &InvalidArgumentError{Reason: "max_order_price must be positive"}
	}
	if c.MaxOrderQuantity == 0 {
		return &InvalidArgumentError{Reason: "max_order_quantity must be positive"}
	}
	if c.MaxOrdersPerSymbol <= 0 {
		return &InvalidArgumentError{Reason: "max_orders_per_symbol must be positive"}
	}
	if c.MaxSymbols <= 0 {
		return &InvalidArgumentError{Reason: "max_symbols must be positive"}
	}
	return nil
}
