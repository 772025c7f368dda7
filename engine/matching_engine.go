package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// engineState is the MatchingEngine's coarse lifecycle state.
type engineState int32

const (
	stateStopped engineState = iota
	stateRunning
)

// MarketDepth is a market-data snapshot for one symbol at a given
// instant, returned by GetMarketDepth.
type MarketDepth struct {
	Symbol      Symbol
	Bids        []PriceLevelSnapshot
	Asks        []PriceLevelSnapshot
	BestBid     Price
	HasBestBid  bool
	BestAsk     Price
	HasBestAsk  bool
	Spread      Price
	HasSpread   bool
	TotalOrders int
	Timestamp   Timestamp
}

// EngineStatistics is a point-in-time read of the engine's counters.
type EngineStatistics struct {
	OrdersProcessed  uint64
	TradesExecuted   uint64
	Uptime           time.Duration
	OrdersPerSecond  float64
	TradesPerSecond  float64
	ActiveSymbols    int
	RegisteredTrades int
	RegisteredOrders int
}

// EngineStatus bundles the running state with the statistics into the
// shape a status endpoint or health check would report.
type EngineStatus struct {
	Running bool
	Stats   EngineStatistics
}

// MatchingEngine is the multi-symbol coordinator: it owns one
// OrderBook per registered symbol, validates and routes submissions,
// serialises writes behind a single reader-writer lock, and fans out
// trade/order notifications to registered sinks.
type MatchingEngine struct {
	mu sync.RWMutex

	state  atomic.Int32
	config EngineConfig
	logger *zap.Logger

	books map[Symbol]*OrderBook

	tradeSinks []TradeSink
	orderSinks []OrderUpdateSink

	ordersProcessed atomic.Uint64
	tradesExecuted  atomic.Uint64

	startTime time.Time
}

// NewMatchingEngine constructs a stopped engine with the given
// configuration. Call Start before submitting orders.
func NewMatchingEngine(cfg EngineConfig) (*MatchingEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &MatchingEngine{
		config: cfg,
		logger: newEngineLogger(cfg.EnableLogging),
		books:  make(map[Symbol]*OrderBook),
	}, nil
}

// Start transitions the engine to Running. Calling Start on an
// already-running engine is a no-op.
func (e *MatchingEngine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if engineState(e.state.Load()) == stateRunning {
		return
	}
	e.startTime = time.Now()
	e.state.Store(int32(stateRunning))
	e.logger.Info("matching engine started")
}

// Stop transitions the engine to Stopped. Resting orders and books
// are left untouched; Stop only gates SubmitOrder and ModifyOrder.
func (e *MatchingEngine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Store(int32(stateStopped))
	e.logger.Info("matching engine stopped")
}

// IsRunning reports the current lifecycle state without blocking on
// the coordination lock.
func (e *MatchingEngine) IsRunning() bool {
	return engineState(e.state.Load()) == stateRunning
}

// AddSymbol registers an empty book for symbol if one does not
// already exist. Idempotent.
func (e *MatchingEngine) AddSymbol(symbol Symbol) error {
	if err := validateSymbolFormat(symbol); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.books[symbol]; ok {
		return nil
	}
	if len(e.books) >= e.config.MaxSymbols {
		e.logger.Warn("add symbol rejected: max symbol count reached", zap.String("symbol", string(symbol)))
		return &InvalidArgumentError{Reason: "max symbol count reached"}
	}
	e.books[symbol] = NewOrderBook(symbol)
	e.logger.Debug("symbol registered", zap.String("symbol", string(symbol)))
	return nil
}

// RemoveSymbol deletes the book for symbol, returning false if the
// symbol is unknown or its book still holds resting orders.
func (e *MatchingEngine) RemoveSymbol(symbol Symbol) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	book, ok := e.books[symbol]
	if !ok || !book.IsEmpty() {
		return false
	}
	delete(e.books, symbol)
	e.logger.Debug("symbol deregistered", zap.String("symbol", string(symbol)))
	return true
}

// GetActiveSymbols returns every currently registered symbol, in no
// particular order.
func (e *MatchingEngine) GetActiveSymbols() []Symbol {
	e.mu.RLock()
	defer e.mu.RUnlock()
	symbols := make([]Symbol, 0, len(e.books))
	for s := range e.books {
		symbols = append(symbols, s)
	}
	return symbols
}

func (e *MatchingEngine) validateSubmission(order Order) error {
	if err := validateSymbolFormat(order.symbol); err != nil {
		return err
	}
	if order.orderType == Limit && order.price > e.config.MaxOrderPrice {
		return &InvalidArgumentError{Reason: "order price exceeds max_order_price"}
	}
	if order.originalQuantity > e.config.MaxOrderQuantity {
		return &InvalidArgumentError{Reason: "order quantity exceeds max_order_quantity"}
	}
	return nil
}

func (e *MatchingEngine) checkRiskLimits(book *OrderBook) error {
	if !e.config.StrictValidation {
		return nil
	}
	if book.OrderCount() >= e.config.MaxOrdersPerSymbol {
		return &InvalidArgumentError{Reason: "symbol has reached max_orders_per_symbol"}
	}
	if len(e.books) > e.config.MaxSymbols {
		return &InvalidArgumentError{Reason: "engine has reached max_symbols"}
	}
	return nil
}

// SubmitOrder validates and routes order to its symbol's book,
// publishes the resulting trades and the order's final state to every
// registered sink, and returns the trades produced. It fails with
// ErrEngineNotRunning while the engine is stopped, with
// *SymbolNotFoundError when the symbol has not been registered via
// AddSymbol, and with *InvalidArgumentError on any validation or risk
// failure. No state is mutated on failure.
func (e *MatchingEngine) SubmitOrder(order Order) ([]Trade, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if engineState(e.state.Load()) != stateRunning {
		e.logger.Warn("submit rejected: engine not running", zap.Uint64("order_id", uint64(order.id)))
		return nil, ErrEngineNotRunning
	}
	if err := e.validateSubmission(order); err != nil {
		e.logger.Warn("submit rejected: validation failed", zap.Uint64("order_id", uint64(order.id)), zap.Error(err))
		return nil, err
	}

	book, ok := e.books[order.symbol]
	if !ok {
		e.logger.Warn("submit rejected: unknown symbol", zap.String("symbol", string(order.symbol)))
		return nil, &SymbolNotFoundError{Symbol: order.symbol}
	}
	if err := e.checkRiskLimits(book); err != nil {
		e.logger.Warn("submit rejected: risk limit exceeded", zap.Uint64("order_id", uint64(order.id)), zap.Error(err))
		return nil, err
	}

	trades := book.Submit(order)

	e.ordersProcessed.Add(1)
	e.tradesExecuted.Add(uint64(len(trades)))

	for _, t := range trades {
		e.dispatchTrade(t)
	}
	e.dispatchOrderUpdate(order, trades)

	return trades, nil
}

func (e *MatchingEngine) dispatchTrade(t Trade) {
	for _, sink := range e.tradeSinks {
		sink.OnTrade(t)
	}
}

func (e *MatchingEngine) dispatchOrderUpdate(order Order, trades []Trade) {
	// order is the caller's pre-submit copy (the book filled its own
	// copy), so apply the executed quantity to report the final state.
	var filled Quantity
	for _, t := range trades {
		filled += t.Quantity
	}
	if filled > 0 {
		order.Fill(filled)
	}
	kind := OrderAccepted
	switch {
	case order.IsFullyFilled():
		kind = OrderFullyFilled
	case order.IsPartiallyFilled():
		kind = OrderPartiallyFilled
	case len(trades) == 0 && order.orderType == Market:
		kind = OrderRejected
	}
	update := OrderUpdate{
		OrderID:           order.id,
		Symbol:            order.symbol,
		Kind:              kind,
		RemainingQuantity: order.remainingQuantity,
	}
	for _, sink := range e.orderSinks {
		sink.OnOrderUpdate(update)
	}
}

// CancelOrder cancels a resting order, returning false if the symbol
// is unknown or the order is not currently resting. A successful
// cancel publishes an OrderCancelled update.
func (e *MatchingEngine) CancelOrder(orderID OrderId, symbol Symbol) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	book, ok := e.books[symbol]
	if !ok {
		e.logger.Debug("cancel missed: unknown symbol", zap.String("symbol", string(symbol)), zap.Uint64("order_id", uint64(orderID)))
		return false
	}
	if !book.Cancel(orderID) {
		e.logger.Debug("cancel missed: order not resting", zap.String("symbol", string(symbol)), zap.Uint64("order_id", uint64(orderID)))
		return false
	}
	for _, sink := range e.orderSinks {
		sink.OnOrderUpdate(OrderUpdate{OrderID: orderID, Symbol: symbol, Kind: OrderCancelled})
	}
	return true
}

// ModifyOrder cancels orderID and resubmits it with newPrice and
// newQuantity, preserving its original side and type. The
// replacement receives a fresh timestamp and therefore loses
// price-time priority against orders that were resting ahead of it —
// this is the documented "cancel and replace" semantics, not a bug.
// Returns false if the order was not resting, or if the replacement
// fails validation (in which case the original is still cancelled:
// callers that need atomicity should validate before calling).
func (e *MatchingEngine) ModifyOrder(orderID OrderId, symbol Symbol, newPrice Price, newQuantity Quantity) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if engineState(e.state.Load()) != stateRunning {
		e.logger.Warn("modify rejected: engine not running", zap.Uint64("order_id", uint64(orderID)))
		return false, ErrEngineNotRunning
	}
	book, ok := e.books[symbol]
	if !ok {
		e.logger.Warn("modify rejected: unknown symbol", zap.String("symbol", string(symbol)))
		return false, &SymbolNotFoundError{Symbol: symbol}
	}

	original, ok := book.remove(orderID)
	if !ok {
		e.logger.Debug("modify missed: order not resting", zap.String("symbol", string(symbol)), zap.Uint64("order_id", uint64(orderID)))
		return false, nil
	}

	replacement, err := NewOrder(orderID, symbol, original.side, original.orderType, newPrice, newQuantity)
	if err != nil {
		e.logger.Warn("modify rejected: replacement failed validation", zap.Uint64("order_id", uint64(orderID)), zap.Error(err))
		return false, err
	}
	if err := e.validateSubmission(replacement); err != nil {
		e.logger.Warn("modify rejected: replacement failed validation", zap.Uint64("order_id", uint64(orderID)), zap.Error(err))
		return false, err
	}

	trades := book.Submit(replacement)
	e.ordersProcessed.Add(1)
	e.tradesExecuted.Add(uint64(len(trades)))
	for _, t := range trades {
		e.dispatchTrade(t)
	}
	e.dispatchOrderUpdate(replacement, trades)
	return true, nil
}

// GetBestBid returns the best bid price for symbol.
func (e *MatchingEngine) GetBestBid(symbol Symbol) (Price, bool, error) {
	book, err := e.bookFor(symbol)
	if err != nil {
		return 0, false, err
	}
	price, ok := book.BestBid()
	return price, ok, nil
}

// GetBestAsk returns the best ask price for symbol.
func (e *MatchingEngine) GetBestAsk(symbol Symbol) (Price, bool, error) {
	book, err := e.bookFor(symbol)
	if err != nil {
		return 0, false, err
	}
	price, ok := book.BestAsk()
	return price, ok, nil
}

// GetSpread returns the current bid-ask spread for symbol.
func (e *MatchingEngine) GetSpread(symbol Symbol) (Price, bool, error) {
	book, err := e.bookFor(symbol)
	if err != nil {
		return 0, false, err
	}
	spread, ok := book.Spread()
	return spread, ok, nil
}

// GetMarketDepth returns a MarketDepth snapshot with up to levels
// price levels per side. levels <= 0 means every level.
func (e *MatchingEngine) GetMarketDepth(symbol Symbol, levels int) (MarketDepth, error) {
	book, err := e.bookFor(symbol)
	if err != nil {
		return MarketDepth{}, err
	}
	bid, hasBid := book.BestBid()
	ask, hasAsk := book.BestAsk()
	spread, hasSpread := book.Spread()
	return MarketDepth{
		Symbol:      symbol,
		Bids:        book.BidLevels(levels),
		Asks:        book.AskLevels(levels),
		BestBid:     bid,
		HasBestBid:  hasBid,
		BestAsk:     ask,
		HasBestAsk:  hasAsk,
		Spread:      spread,
		HasSpread:   hasSpread,
		TotalOrders: book.OrderCount(),
		Timestamp:   nextTimestamp(),
	}, nil
}

// GetOrderBookState returns a full debug rendering of symbol's book.
func (e *MatchingEngine) GetOrderBookState(symbol Symbol, maxLevels int) (string, error) {
	book, err := e.bookFor(symbol)
	if err != nil {
		return "", err
	}
	return book.Render(maxLevels), nil
}

func (e *MatchingEngine) bookFor(symbol Symbol) (*OrderBook, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	book, ok := e.books[symbol]
	if !ok {
		return nil, &SymbolNotFoundError{Symbol: symbol}
	}
	return book, nil
}

// GetStatistics reads the engine's counters and derives per-second
// rates against uptime, returning 0 for both rates at zero uptime.
func (e *MatchingEngine) GetStatistics() EngineStatistics {
	e.mu.RLock()
	symbolCount := len(e.books)
	tradeSinkCount := len(e.tradeSinks)
	orderSinkCount := len(e.orderSinks)
	started := e.startTime
	e.mu.RUnlock()

	orders := e.ordersProcessed.Load()
	trades := e.tradesExecuted.Load()

	var uptime time.Duration
	if !started.IsZero() {
		uptime = time.Since(started)
	}

	var ordersPerSec, tradesPerSec float64
	if uptime > 0 {
		seconds := uptime.Seconds()
		ordersPerSec = float64(orders) / seconds
		tradesPerSec = float64(trades) / seconds
	}

	return EngineStatistics{
		OrdersProcessed:  orders,
		TradesExecuted:   trades,
		Uptime:           uptime,
		OrdersPerSecond:  ordersPerSec,
		TradesPerSecond:  tradesPerSec,
		ActiveSymbols:    symbolCount,
		RegisteredTrades: tradeSinkCount,
		RegisteredOrders: orderSinkCount,
	}
}

// GetEngineStatus bundles IsRunning with GetStatistics.
func (e *MatchingEngine) GetEngineStatus() EngineStatus {
	return EngineStatus{Running: e.IsRunning(), Stats: e.GetStatistics()}
}

// ResetStatistics zeroes the orders/trades counters and restarts the
// uptime clock, without touching any book.
func (e *MatchingEngine) ResetStatistics() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ordersProcessed.Store(0)
	e.tradesExecuted.Store(0)
	e.startTime = time.Now()
}

// ClearAllOrderBooks empties every registered book without
// unregistering its symbol or its sinks.
func (e *MatchingEngine) ClearAllOrderBooks() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, book := range e.books {
		book.Clear()
	}
}

// RegisterTradeCallback appends sink to the trade notification list.
func (e *MatchingEngine) RegisterTradeCallback(sink TradeSink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tradeSinks = append(e.tradeSinks, sink)
}

// RegisterOrderCallback appends sink to the order-update notification list.
func (e *MatchingEngine) RegisterOrderCallback(sink OrderUpdateSink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.orderSinks = append(e.orderSinks, sink)
}

// UnregisterAllCallbacks clears both notification lists.
func (e *MatchingEngine) UnregisterAllCallbacks() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tradeSinks = nil
	e.orderSinks = nil
}

// GetConfig returns the engine's current configuration.
func (e *MatchingEngine) GetConfig() EngineConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config
}

// UpdateConfig replaces the engine's configuration wholesale after
// validating it.
func (e *MatchingEngine) UpdateConfig(cfg EngineConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.config = cfg
	return nil
}
