package engine

import "testing"

func mustOrder(t *testing.T, id OrderId, symbol Symbol, side OrderSide, price Price, qty Quantity) Order {
	t.Helper()
	o, err := NewOrder(id, symbol, side, Limit, price, qty)
	if err != nil {
		t.Fatalf("NewOrder(%d) unexpected error: %v", id, err)
	}
	return o
}

func mustMarketOrder(t *testing.T, id OrderId, symbol Symbol, side OrderSide, qty Quantity) Order {
	t.Helper()
	o, err := NewMarketOrder(id, symbol, side, qty)
	if err != nil {
		t.Fatalf("NewMarketOrder(%d) unexpected error: %v", id, err)
	}
	return o
}

// S1 — crossing limit executes at the passive order's price.
func TestOrderBookCrossingLimitUsesPassivePrice(t *testing.T) {
	ob := NewOrderBook("A")

	ob.Submit(mustOrder(t, 1, "A", Buy, 150.00, 100))
	trades := ob.Submit(mustOrder(t, 2, "A", Sell, 149.00, 60))

	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	tr := trades[0]
	if tr.ExecutionPrice != 150.00 || tr.Quantity != 60 || tr.BuyOrderID != 1 || tr.SellOrderID != 2 {
		t.Fatalf("unexpected trade: %+v", tr)
	}

	bid, ok := ob.BestBid()
	if !ok || bid != 150.00 {
		t.Fatalf("expected best bid 150.00, got %v (ok=%v)", bid, ok)
	}
	if ob.BestBidQuantity() != 40 {
		t.Fatalf("expected remaining bid quantity 40, got %d", ob.BestBidQuantity())
	}
	if _, ok := ob.BestAsk(); ok {
		t.Fatal("expected no resting asks")
	}
}

// S2 — a market order sweeps two price levels in price order.
func TestOrderBookMarketOrderSweepsLevels(t *testing.T) {
	ob := NewOrderBook("A")
	ob.Submit(mustOrder(t, 4, "A", Sell, 100.10, 100))
	ob.Submit(mustOrder(t, 5, "A", Sell, 100.15, 200))

	trades := ob.Submit(mustMarketOrder(t, 6, "A", Buy, 150))

	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	if trades[0].ExecutionPrice != 100.10 || trades[0].Quantity != 100 {
		t.Fatalf("unexpected first trade: %+v", trades[0])
	}
	if trades[1].ExecutionPrice != 100.15 || trades[1].Quantity != 50 {
		t.Fatalf("unexpected second trade: %+v", trades[1])
	}

	ask, ok := ob.BestAsk()
	if !ok || ask != 100.15 {
		t.Fatalf("expected best ask 100.15, got %v (ok=%v)", ask, ok)
	}
	if ob.BestAskQuantity() != 150 {
		t.Fatalf("expected remaining ask quantity 150, got %d", ob.BestAskQuantity())
	}
}

// S3 — orders at the same level fill in arrival order.
func TestOrderBookFIFOWithinLevel(t *testing.T) {
	ob := NewOrderBook("A")
	ob.Submit(mustOrder(t, 1, "A", Buy, 100, 50)) // O1
	ob.Submit(mustOrder(t, 2, "A", Buy, 100, 50)) // O2

	trades := ob.Submit(mustOrder(t, 3, "A", Sell, 100, 60))

	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	if trades[0].BuyOrderID != 1 || trades[0].Quantity != 50 {
		t.Fatalf("expected O1 to fill first for 50, got %+v", trades[0])
	}
	if trades[1].BuyOrderID != 2 || trades[1].Quantity != 10 {
		t.Fatalf("expected O2 to fill second for 10, got %+v", trades[1])
	}
	if ob.BestBidQuantity() != 40 {
		t.Fatalf("expected O2 remaining 40, got %d", ob.BestBidQuantity())
	}
}

// S4 — cancel removes a resting order and the level once it empties.
func TestOrderBookCancel(t *testing.T) {
	ob := NewOrderBook("A")
	ob.Submit(mustOrder(t, 7, "A", Buy, 99, 10))

	if !ob.Cancel(7) {
		t.Fatal("expected first cancel to succeed")
	}
	if _, ok := ob.BestBid(); ok {
		t.Fatal("expected level 99 to be removed once its queue emptied")
	}
	if ob.Cancel(7) {
		t.Fatal("expected second cancel to fail")
	}
}

// A market order against an empty book trades nothing and leaves the
// book empty. Symbol isolation (S5) is exercised at the MatchingEngine
// layer by TestMatchingEngineSymbolIsolation.
func TestOrderBookMarketOrderNoLiquidityIsNoop(t *testing.T) {
	ob := NewOrderBook("B")
	trades := ob.Submit(mustMarketOrder(t, 1, "B", Buy, 10))
	if len(trades) != 0 {
		t.Fatalf("expected no trades against an empty book, got %d", len(trades))
	}
	if !ob.IsEmpty() {
		t.Fatal("expected book to remain empty after a no-liquidity market order")
	}
}

func TestOrderBookNeverCrossedAtRest(t *testing.T) {
	ob := NewOrderBook("A")
	ob.Submit(mustOrder(t, 1, "A", Buy, 99, 10))
	ob.Submit(mustOrder(t, 2, "A", Sell, 101, 10))

	bid, hasBid := ob.BestBid()
	ask, hasAsk := ob.BestAsk()
	if !hasBid || !hasAsk {
		t.Fatal("expected both sides populated")
	}
	if bid >= ask {
		t.Fatalf("book crossed at rest: bid=%v ask=%v", bid, ask)
	}
}

func TestOrderBookSpread(t *testing.T) {
	ob := NewOrderBook("A")
	if _, ok := ob.Spread(); ok {
		t.Fatal("expected no spread on an empty book")
	}
	ob.Submit(mustOrder(t, 1, "A", Buy, 99, 10))
	ob.Submit(mustOrder(t, 2, "A", Sell, 101, 10))

	spread, ok := ob.Spread()
	if !ok || spread != 2 {
		t.Fatalf("expected spread 2, got %v (ok=%v)", spread, ok)
	}
}

func TestOrderBookLevelsSnapshot(t *testing.T) {
	ob := NewOrderBook("A")
	ob.Submit(mustOrder(t, 1, "A", Buy, 100, 10))
	ob.Submit(mustOrder(t, 2, "A", Buy, 99, 5))
	ob.Submit(mustOrder(t, 3, "A", Buy, 101, 3))

	levels := ob.BidLevels(0)
	if len(levels) != 3 {
		t.Fatalf("expected 3 levels, got %d", len(levels))
	}
	if levels[0].Price != 101 || levels[1].Price != 100 || levels[2].Price != 99 {
		t.Fatalf("expected descending price order, got %+v", levels)
	}
}

func TestOrderBookClear(t *testing.T) {
	ob := NewOrderBook("A")
	ob.Submit(mustOrder(t, 1, "A", Buy, 100, 10))
	ob.Submit(mustOrder(t, 2, "A", Sell, 101, 10))

	ob.Clear()

	if !ob.IsEmpty() {
		t.Fatal("expected book empty after Clear")
	}
	if ob.OrderCount() != 0 {
		t.Fatalf("expected 0 resting orders after Clear, got %d", ob.OrderCount())
	}
}
