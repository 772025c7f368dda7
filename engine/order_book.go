package engine

import (
	"fmt"
	"strings"
	"sync"
)

// location is the per-order entry in the book's cancel index, carrying
// an intrusive arena index and level pointer rather than just
// (price, side) — the extra precision is what makes Cancel O(1)
// instead of O(level depth).
type location struct {
	level *priceLevel
	index arenaIndex
}

// PriceLevelSnapshot is one (price, aggregate remaining quantity)
// entry returned by BidLevels/AskLevels.
type PriceLevelSnapshot struct {
	Price    Price
	Quantity Quantity
}

// OrderBook is the matching engine for a single instrument: a
// two-sided price ladder, a match loop, and a location index for O(1)
// cancel. It is safe for concurrent use; every exported method
// acquires the book's own mutex.
type OrderBook struct {
	symbol Symbol

	bids *ladder
	asks *ladder

	locations map[OrderId]location
	arena     *arena

	nextTradeID uint64

	mu sync.Mutex
}

// NewOrderBook returns an empty order book for symbol.
func NewOrderBook(symbol Symbol) *OrderBook {
	return &OrderBook{
		symbol:    symbol,
		bids:      newLadder(Buy),
		asks:      newLadder(Sell),
		locations: make(map[OrderId]location),
		arena:     newArena(),
	}
}

// Symbol returns the instrument this book matches.
func (ob *OrderBook) Symbol() Symbol { return ob.symbol }

func (ob *OrderBook) ladderFor(side OrderSide) *ladder {
	if side == Buy {
		return ob.bids
	}
	return ob.asks
}

func (ob *OrderBook) oppositeLadder(side OrderSide) *ladder {
	return ob.ladderFor(side.Opposite())
}

// Submit is the single mutating entry point: it runs the match loop
// (gated by price for a Limit order, ungated for a Market order) and,
// for a Limit order with quantity left over, rests it at the tail of
// its own-side level. A Market order's unfilled remainder is
// discarded, never rested.
func (ob *OrderBook) Submit(order Order) []Trade {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	trades := ob.match(&order)
	if order.orderType == Limit && order.remainingQuantity > 0 {
		ob.rest(order)
	}
	return trades
}

func (ob *OrderBook) rest(order Order) {
	level := ob.ladderFor(order.side).getOrCreate(order.price)
	idx := ob.arena.alloc()
	ro := ob.arena.get(idx)
	ro.order = order
	level.pushBack(ob.arena, idx)
	ob.locations[order.id] = location{level: level, index: idx}
}

// Cancel removes the resting order with the given id, returning false
// if it is not currently resting (already filled, cancelled, or
// never submitted).
func (ob *OrderBook) Cancel(orderID OrderId) bool {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	_, ok := ob.removeLocked(orderID)
	return ok
}

// remove is like Cancel but also returns the removed order, so
// MatchingEngine.ModifyOrder can recover the original side/type
// before replacing it. It is unexported: only code within this
// package (the engine that owns the book) may bypass the boolean-only
// public contract.
func (ob *OrderBook) remove(orderID OrderId) (Order, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.removeLocked(orderID)
}

func (ob *OrderBook) removeLocked(orderID OrderId) (Order, bool) {
	loc, ok := ob.locations[orderID]
	if !ok {
		return Order{}, false
	}
	ro := ob.arena.get(loc.index)
	removed := ro.order

	loc.level.totalQuantity -= removed.remainingQuantity
	loc.level.unlink(ob.arena, loc.index)
	ob.arena.free(loc.index)
	delete(ob.locations, orderID)

	if loc.level.count == 0 {
		ob.ladderFor(removed.side).remove(loc.level.price)
	}
	return removed, true
}

// BestBid returns the highest resting buy price, if any.
func (ob *OrderBook) BestBid() (Price, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	if level := ob.bids.top(); level != nil {
		return level.price, true
	}
	return 0, false
}

// BestAsk returns the lowest resting sell price, if any.
func (ob *OrderBook) BestAsk() (Price, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	if level := ob.asks.top(); level != nil {
		return level.price, true
	}
	return 0, false
}

// Spread returns best ask minus best bid, if both sides are populated.
func (ob *OrderBook) Spread() (Price, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	bid := ob.bids.top()
	ask := ob.asks.top()
	if bid == nil || ask == nil {
		return 0, false
	}
	return ask.price - bid.price, true
}

// BestBidQuantity returns the aggregate remaining quantity at the top
// bid level, or 0 if the bid side is empty.
func (ob *OrderBook) BestBidQuantity() Quantity {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	if level := ob.bids.top(); level != nil {
		return level.totalQuantity
	}
	return 0
}

// BestAskQuantity returns the aggregate remaining quantity at the top
// ask level, or 0 if the ask side is empty.
func (ob *OrderBook) BestAskQuantity() Quantity {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	if level := ob.asks.top(); level != nil {
		return level.totalQuantity
	}
	return 0
}

// OrderCount returns the total number of resting orders across both sides.
func (ob *OrderBook) OrderCount() int {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return len(ob.locations)
}

// BidLevelCount returns the number of distinct bid price levels.
func (ob *OrderBook) BidLevelCount() int {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.bids.levelCount()
}

// AskLevelCount returns the number of distinct ask price levels.
func (ob *OrderBook) AskLevelCount() int {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.asks.levelCount()
}

// IsEmpty reports whether the book has no resting orders on either side.
func (ob *OrderBook) IsEmpty() bool {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.bids.levelCount() == 0 && ob.asks.levelCount() == 0
}

// BidLevels returns up to n (price, aggregate quantity) pairs,
// highest price first. n = 0 returns every level.
func (ob *OrderBook) BidLevels(n int) []PriceLevelSnapshot {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return snapshotLevels(ob.bids, n)
}

// AskLevels returns up to n (price, aggregate quantity) pairs, lowest
// price first. n = 0 returns every level.
func (ob *OrderBook) AskLevels(n int) []PriceLevelSnapshot {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return snapshotLevels(ob.asks, n)
}

func snapshotLevels(l *ladder, n int) []PriceLevelSnapshot {
	snapshots := make([]PriceLevelSnapshot, 0, l.levelCount())
	l.forEach(n, func(level *priceLevel) {
		snapshots = append(snapshots, PriceLevelSnapshot{Price: level.price, Quantity: level.totalQuantity})
	})
	return snapshots
}

// Clear drops every resting order and resets the trade counter to 0.
func (ob *OrderBook) Clear() {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	ob.bids = newLadder(Buy)
	ob.asks = newLadder(Sell)
	ob.locations = make(map[OrderId]location)
	ob.arena.reset()
	ob.nextTradeID = 0
}

// String renders the top 5 levels of each side, asks above bids, for debugging.
func (ob *OrderBook) String() string {
	return ob.Render(5)
}

// Render renders up to maxLevels of each side, asks above bids
// (asks highest-first from the top down to the best ask, then bids
// highest-first from the best bid down), for debugging.
func (ob *OrderBook) Render(maxLevels int) string {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "OrderBook[%s]\n", ob.symbol)

	asks := snapshotLevels(ob.asks, maxLevels)
	for i := len(asks) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "  ASK  %10.4f  %d\n", float64(asks[i].Price), asks[i].Quantity)
	}
	fmt.Fprintln(&b, "  ------------------------------")
	for _, bid := range snapshotLevels(ob.bids, maxLevels) {
		fmt.Fprintf(&b, "  BID  %10.4f  %d\n", float64(bid.Price), bid.Quantity)
	}
	return b.String()
}
