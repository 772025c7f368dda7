// Command demo drives a small scripted order flow through a
// MatchingEngine and prints every trade and order-lifecycle event as
// it happens.
package main

import (
	"fmt"

	"github.com/goovo/matching-engine/config"
	"github.com/goovo/matching-engine/engine"
)

// demoListener prints every trade and order update it receives.
type demoListener struct {
	tradeCount int
}

func (l *demoListener) OnTrade(t engine.Trade) {
	fmt.Printf("  -> [Output] Trade #%d: buy=%d sell=%d price=%.2f qty=%d\n",
		t.TradeID, t.BuyOrderID, t.SellOrderID, float64(t.ExecutionPrice), t.Quantity)
	l.tradeCount++
}

func (l *demoListener) OnOrderUpdate(u engine.OrderUpdate) {
	fmt.Printf("  -> [Output] Order %d (%s): %s remaining=%d\n", u.OrderID, u.Symbol, u.Kind, u.RemainingQuantity)
}

func main() {
	fmt.Println("=== Starting Matching Engine Simulation ===")

	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	eng, err := engine.NewMatchingEngine(cfg)
	if err != nil {
		panic(err)
	}
	eng.Start()
	defer eng.Stop()

	if err := eng.AddSymbol("AAPL"); err != nil {
		panic(err)
	}

	listener := &demoListener{}
	eng.RegisterTradeCallback(listener)
	eng.RegisterOrderCallback(listener)

	orders := []struct {
		ID       engine.OrderId
		Side     engine.OrderSide
		Price    engine.Price
		Quantity engine.Quantity
	}{
		{1, engine.Buy, 100.0, 1},
		{2, engine.Sell, 101.0, 1},
		{3, engine.Buy, 101.0, 1}, // crosses maker 2 fully
		{4, engine.Sell, 99.0, 2}, // crosses maker 1 fully, rests 1
	}

	for _, o := range orders {
		fmt.Printf("\n[Input] Submitting order %d (%s @ %.2f qty %d)...\n", o.ID, o.Side, float64(o.Price), o.Quantity)
		order, err := engine.NewOrder(o.ID, "AAPL", o.Side, engine.Limit, o.Price, o.Quantity)
		if err != nil {
			fmt.Println("  -> rejected:", err)
			continue
		}
		if _, err := eng.SubmitOrder(order); err != nil {
			fmt.Println("  -> rejected:", err)
		}
	}

	fmt.Printf("\n=== Simulation Complete. Total Trades: %d ===\n", listener.tradeCount)
	fmt.Println(eng.GetStatistics())
}
