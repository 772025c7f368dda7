package engine

import (
	"os"
	"testing"
)

// redirectStdout swallows stdout for the duration of a benchmark so
// that logging (or any other rogue fmt printing) inside the timed loop
// can't skew results.
func redirectStdout(b *testing.B) func() {
	b.Helper()
	devnull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		return func() {}
	}
	orig := os.Stdout
	os.Stdout = devnull
	return func() {
		os.Stdout = orig
		_ = devnull.Close()
	}
}

// BenchmarkLimitMatchSimple measures limit-order matching throughput:
// b.N resting sell orders are pre-loaded at a single price level, then
// b.N crossing buy orders are matched against them one at a time.
func BenchmarkLimitMatchSimple(b *testing.B) {
	restore := redirectStdout(b)
	defer restore()

	ob := NewOrderBook("BENCH")
	for i := 0; i < b.N; i++ {
		sell, _ := NewOrder(OrderId(2*i+1), "BENCH", Sell, Limit, 100.0, 1)
		ob.Submit(sell)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		buy, _ := NewOrder(OrderId(2*i+2), "BENCH", Buy, Limit, 100.0, 1)
		ob.Submit(buy)
	}
}

// BenchmarkMarketMatchSimple measures market-order sweep throughput
// against a book pre-loaded with b.N resting sell orders at one price.
func BenchmarkMarketMatchSimple(b *testing.B) {
	restore := redirectStdout(b)
	defer restore()

	ob := NewOrderBook("BENCH")
	for i := 0; i < b.N; i++ {
		sell, _ := NewOrder(OrderId(2*i+1), "BENCH", Sell, Limit, 100.0, 1)
		ob.Submit(sell)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		buy, _ := NewMarketOrder(OrderId(2*i+2), "BENCH", Buy, 1)
		ob.Submit(buy)
	}
}

// BenchmarkCancelOrder measures cancel latency against a single price
// level holding b.N resting orders, exercising the arena+intrusive
// list's O(1) removal regardless of queue depth.
func BenchmarkCancelOrder(b *testing.B) {
	restore := redirectStdout(b)
	defer restore()

	ob := NewOrderBook("BENCH")
	ids := make([]OrderId, 0, b.N)
	for i := 0; i < b.N; i++ {
		id := OrderId(i + 1)
		order, _ := NewOrder(id, "BENCH", Buy, Limit, 100.0, 1)
		ob.Submit(order)
		ids = append(ids, id)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for _, id := range ids {
		ob.Cancel(id)
	}
}
