package engine

import "testing"

func TestNewOrderValidation(t *testing.T) {
	var tests = []struct {
		name      string
		id        OrderId
		symbol    Symbol
		side      OrderSide
		orderType OrderType
		price     Price
		quantity  Quantity
		wantErr   bool
	}{
		{"valid limit", 1, "AAPL", Buy, Limit, 100.0, 10, false},
		{"zero id", 0, "AAPL", Buy, Limit, 100.0, 10, true},
		{"empty symbol", 1, "", Buy, Limit, 100.0, 10, true},
		{"symbol too long", 1, "TOOLONGSYM", Buy, Limit, 100.0, 10, true},
		{"non-alphanumeric symbol", 1, "AA-PL", Buy, Limit, 100.0, 10, true},
		{"zero quantity", 1, "AAPL", Buy, Limit, 100.0, 0, true},
		{"limit price below min", 1, "AAPL", Buy, Limit, 0, 10, true},
		{"limit price above max", 1, "AAPL", Buy, Limit, MaxPrice + 1, 10, true},
		{"limit price at min accepted", 1, "AAPL", Buy, Limit, MinPrice, 10, false},
		{"limit price at max accepted", 1, "AAPL", Buy, Limit, MaxPrice, 10, false},
		{"market order with nonzero price", 1, "AAPL", Buy, Market, 1, 10, true},
		{"market order valid", 1, "AAPL", Buy, Market, MarketPrice, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrder(tt.id, tt.symbol, tt.side, tt.orderType, tt.price, tt.quantity)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewOrder() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOrderFill(t *testing.T) {
	o, err := NewOrder(1, "AAPL", Buy, Limit, 100.0, 10)
	if err != nil {
		t.Fatalf("NewOrder() unexpected error: %v", err)
	}

	filled, err := o.Fill(4)
	if err != nil {
		t.Fatalf("Fill() unexpected error: %v", err)
	}
	if filled != 4 {
		t.Fatalf("Fill() = %d, want 4", filled)
	}
	if o.RemainingQuantity() != 6 {
		t.Fatalf("RemainingQuantity() = %d, want 6", o.RemainingQuantity())
	}
	if !o.IsPartiallyFilled() {
		t.Fatal("expected order to be partially filled")
	}

	if _, err := o.Fill(0); err == nil {
		t.Fatal("Fill(0) expected error, got nil")
	}
	if _, err := o.Fill(100); err == nil {
		t.Fatal("Fill(100) expected error exceeding remaining, got nil")
	}

	if _, err := o.Fill(6); err != nil {
		t.Fatalf("Fill(6) unexpected error: %v", err)
	}
	if !o.IsFullyFilled() {
		t.Fatal("expected order to be fully filled")
	}
}

func TestOrderCanMatchWith(t *testing.T) {
	buy, _ := NewOrder(1, "AAPL", Buy, Limit, 100.0, 10)
	sellHigher, _ := NewOrder(2, "AAPL", Sell, Limit, 101.0, 10)
	sellLower, _ := NewOrder(3, "AAPL", Sell, Limit, 99.0, 10)
	sellOtherSymbol, _ := NewOrder(4, "MSFT", Sell, Limit, 99.0, 10)
	market, _ := NewMarketOrder(5, "AAPL", Sell, 10)

	if buy.CanMatchWith(sellHigher) {
		t.Fatal("buy@100 should not match sell@101")
	}
	if !buy.CanMatchWith(sellLower) {
		t.Fatal("buy@100 should match sell@99")
	}
	if buy.CanMatchWith(sellOtherSymbol) {
		t.Fatal("orders on different symbols must never match")
	}
	if !buy.CanMatchWith(market) {
		t.Fatal("a limit buy should always match against a market sell")
	}
}

func TestOrderHasHigherPriorityThan(t *testing.T) {
	earlier, _ := NewOrder(1, "AAPL", Buy, Limit, 100.0, 10)
	later, _ := NewOrder(2, "AAPL", Buy, Limit, 100.0, 10)
	betterPrice, _ := NewOrder(3, "AAPL", Buy, Limit, 101.0, 10)

	if !earlier.HasHigherPriorityThan(later) {
		t.Fatal("earlier order at the same price should have priority")
	}
	if later.HasHigherPriorityThan(earlier) {
		t.Fatal("later order should not have priority over earlier one")
	}
	if !betterPrice.HasHigherPriorityThan(earlier) {
		t.Fatal("higher buy price should have priority regardless of time")
	}

	sellBetter, _ := NewOrder(4, "AAPL", Sell, Limit, 99.0, 10)
	sellWorse, _ := NewOrder(5, "AAPL", Sell, Limit, 100.0, 10)
	if !sellBetter.HasHigherPriorityThan(sellWorse) {
		t.Fatal("lower sell price should have priority")
	}

	differentSide, _ := NewOrder(6, "AAPL", Sell, Limit, 100.0, 10)
	if earlier.HasHigherPriorityThan(differentSide) {
		t.Fatal("priority must be false across sides")
	}
}
