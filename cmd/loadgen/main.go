// Command loadgen drives an *engine.Engine directly, bypassing the wire
// protocol, as a throughput/latency benchmark. Grounded on the teacher's
// cmd/loadgen/main.go for the flag surface and pprof wiring, regeneralized
// from a single *engine.OrderBook to the multi-symbol Engine.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime/pprof"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"limitless/engine"
)

func main() {
	totalOrders := flag.Int("orders", 500000, "number of orders to submit")
	priceLevels := flag.Int64("price-levels", 200, "unique price levels around the mid")
	tick := flag.Int64("tick", 1, "tick size for limit prices, in Price units (1/10000 of a unit)")
	basePrice := flag.Int64("base-price", 1500000, "mid price used for randomization, in Price units")
	symbol := flag.String("symbol", "SIM", "symbol to trade")
	cancelEvery := flag.Int("cancel-every", 0, "cancel a random previously submitted order every N submissions")
	seed := flag.Int64("seed", time.Now().UnixNano(), "seed for deterministic random streams")
	cpuProfile := flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile := flag.String("memprofile", "", "write heap profile to file")
	marketRatio := flag.Int("market-ratio", 5, "1 in N orders will be market instead of limit")
	logJSON := flag.Bool("log-json", true, "emit the run summary as structured JSON instead of text")
	flag.Parse()

	log := logrus.New()
	if *logJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	rng := rand.New(rand.NewSource(*seed))

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.WithError(err).Fatal("create cpu profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.WithError(err).Fatal("start cpu profile")
		}
		defer pprof.StopCPUProfile()
	}

	eng := engine.NewEngine()

	var trades int64
	eng.OnTrade(func(engine.Trade) { atomic.AddInt64(&trades, 1) })

	submitted := make([]engine.OrderId, 0, *totalOrders)

	start := time.Now()
	for i := 0; i < *totalOrders; i++ {
		side, typ, price, qty := nextRandomOrder(rng, *basePrice, *priceLevels, *tick, *marketRatio)
		id := eng.SubmitOrder(*symbol, side, typ, price, qty, "", 0)
		submitted = append(submitted, id)

		if *cancelEvery > 0 && i > 0 && i%*cancelEvery == 0 {
			target := submitted[rng.Intn(len(submitted))]
			eng.CancelOrder(target)
		}
	}
	elapsed := time.Since(start)

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err == nil {
			defer f.Close()
			_ = pprof.WriteHeapProfile(f)
		}
	}

	stats := eng.Stats()
	ordersPerSec := float64(*totalOrders) / elapsed.Seconds()
	tradesPerSec := float64(trades) / elapsed.Seconds()

	log.WithFields(logrus.Fields{
		"symbol":           *symbol,
		"orders_submitted": *totalOrders,
		"trades_matched":   trades,
		"elapsed":          elapsed.Truncate(time.Millisecond).String(),
		"orders_per_sec":   fmt.Sprintf("%.0f", ordersPerSec),
		"trades_per_sec":   fmt.Sprintf("%.0f", tradesPerSec),
		"market_ratio":     fmt.Sprintf("1/%d", *marketRatio),
		"total_orders":     stats.TotalOrders,
		"total_trades":     stats.TotalTrades,
		"book_count":       stats.BookCount,
	}).Info("loadgen run complete")
}

func nextRandomOrder(rng *rand.Rand, mid, width, tick int64, marketRatio int) (engine.Side, engine.OrderType, engine.Price, engine.Quantity) {
	side := engine.Side(rng.Intn(2))

	var offset int64
	if width > 0 {
		offset = rng.Int63n(width) * tick
	}

	var price int64
	if side == engine.Buy {
		price = mid + offset
	} else {
		price = mid - offset
		if price <= 0 {
			price = tick
		}
	}

	typ := engine.Limit
	if marketRatio > 0 && rng.Intn(marketRatio) == 0 {
		typ = engine.Market
	}

	qty := rng.Int63n(5) + 1

	return side, typ, engine.Price(price), engine.Quantity(qty)
}
