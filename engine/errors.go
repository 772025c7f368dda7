package engine

import (
	"errors"
	"fmt"
)

// InvalidArgumentError reports a validation failure at Order
// construction or at engine-level submission (price/quantity bounds,
// symbol format, a Market order carrying a non-zero price, a fill
// quantity exceeding what remains).
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: %s", e.Reason)
}

// SymbolNotFoundError reports submission or query against a symbol
// that has not been registered with the engine via AddSymbol.
type SymbolNotFoundError struct {
	Symbol Symbol
}

func (e *SymbolNotFoundError) Error() string {
	return fmt.Sprintf("symbol not found: %s", e.Symbol)
}

// ErrEngineNotRunning is returned by SubmitOrder and ModifyOrder when
// the engine has not been started, or has been stopped.
var ErrEngineNotRunning = errors.New("matching engine: not running")
