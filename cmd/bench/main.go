// Command bench measures OrderBook.Submit throughput and latency
// under single- and multi-threaded limit-order load, and under
// market-order sweeps against a pre-filled book.
package main

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goovo/matching-engine/engine"
)

type stats struct {
	requests  int64
	success   int64
	failed    int64
	latencyNs int64
}

const duration = 5 * time.Second

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	fmt.Println("=========================================================")
	fmt.Println("   Matching Engine Core Performance Benchmark")
	fmt.Println("=========================================================")
	fmt.Printf("CPU Cores: %d\n", runtime.NumCPU())
	fmt.Println("---------------------------------------------------------")

	runBenchmark("Limit Order (Single Thread)", 1, false)
	runBenchmark("Limit Order (Concurrency 10)", 10, false)
	runBenchmark("Market Order (Single Thread)", 1, true)
}

func runBenchmark(name string, workers int, isMarket bool) {
	fmt.Printf("\nRunning: %s ...\n", name)

	ob := engine.NewOrderBook("BENCH")
	var idSeq atomic.Uint64

	if isMarket {
		fmt.Println("  -> Pre-filling orderbook with 100k limit orders...")
		preFillOrderBook(ob, &idSeq)
	}

	var s stats
	var wg sync.WaitGroup
	wg.Add(workers)

	stop := make(chan struct{})

	for i := 0; i < workers; i++ {
		go worker(i, ob, &idSeq, stop, &s, &wg, isMarket)
	}

	time.Sleep(duration)
	close(stop)
	wg.Wait()

	printResults(name, &s)
}

func preFillOrderBook(ob *engine.OrderBook, idSeq *atomic.Uint64) {
	for i := 0; i < 50000; i++ {
		pSell := engine.Price(100.0 + float64(i%1000)/10.0)
		sellOrder, err := engine.NewOrder(engine.OrderId(idSeq.Add(1)), "BENCH", engine.Sell, engine.Limit, pSell, 1)
		if err == nil {
			ob.Submit(sellOrder)
		}

		pBuy := engine.Price(99.0 - float64(i%1000)/10.0)
		buyOrder, err := engine.NewOrder(engine.OrderId(idSeq.Add(1)), "BENCH", engine.Buy, engine.Limit, pBuy, 1)
		if err == nil {
			ob.Submit(buyOrder)
		}
	}
}

func worker(id int, ob *engine.OrderBook, idSeq *atomic.Uint64, stop <-chan struct{}, s *stats, wg *sync.WaitGroup, isMarket bool) {
	defer wg.Done()

	r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)))

	for {
		select {
		case <-stop:
			return
		default:
			side := engine.Buy
			if r.Intn(2) == 1 {
				side = engine.Sell
			}
			qty := engine.Quantity(1 + r.Intn(5))
			orderID := engine.OrderId(idSeq.Add(1))

			var order engine.Order
			var err error
			if isMarket {
				order, err = engine.NewMarketOrder(orderID, "BENCH", side, qty)
			} else {
				price := engine.Price(95.0 + r.Float64()*10.0)
				order, err = engine.NewOrder(orderID, "BENCH", side, engine.Limit, price, qty)
			}
			if err != nil {
				atomic.AddInt64(&s.failed, 1)
				continue
			}

			start := time.Now()
			ob.Submit(order)
			atomic.AddInt64(&s.latencyNs, time.Since(start).Nanoseconds())

			atomic.AddInt64(&s.requests, 1)
			atomic.AddInt64(&s.success, 1)
		}
	}
}

func printResults(name string, s *stats) {
	dur := duration.Seconds()
	reqs := atomic.LoadInt64(&s.requests)
	totalLat := atomic.LoadInt64(&s.latencyNs)

	avgLat := float64(0)
	if reqs > 0 {
		avgLat = float64(totalLat) / float64(reqs) / 1e6 // ms
	}

	tps := float64(reqs) / dur

	fmt.Printf("  -> Total Reqs:  %d\n", reqs)
	fmt.Printf("  -> TPS:         %.2f /s\n", tps)
	fmt.Printf("  -> Avg Latency: %.3f ms\n", avgLat)
}
