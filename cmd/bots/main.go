// Command bots drives a swarm of synthetic participants against a live
// *engine.Engine, for demos and soak-testing the matching path end to end.
// Flag and logging conventions grounded on cmd/loadgen/main.go.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"limitless/bots"
	"limitless/engine"
)

func main() {
	symbolList := flag.String("symbols", "AAPL,MSFT", "comma-separated symbols to quote")
	tick := flag.Int64("tick", 1, "tick size for bot limit prices, in Price units")
	orderInterval := flag.Duration("order-interval", 50*time.Millisecond, "minimum spacing between a client's order submissions")
	duration := flag.Duration("duration", 0, "stop after this long; 0 runs until interrupted")
	logJSON := flag.Bool("log-json", true, "emit run logs as structured JSON instead of text")
	flag.Parse()

	log := logrus.New()
	if *logJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	symbols := strings.Split(*symbolList, ",")
	eng := engine.NewEngine()
	sup := bots.NewMultiSymbolSupervisor(eng, symbols, engine.Price(*tick), *orderInterval)

	ctx, cancel := context.WithCancel(context.Background())
	if *duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, *duration)
	}
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.WithField("signal", sig).Info("bots received signal, stopping")
		cancel()
	}()

	log.WithFields(logrus.Fields{"symbols": symbols, "tick": *tick}).Info("bots starting")
	sup.Start(ctx)

	stats := eng.Stats()
	log.WithFields(logrus.Fields{
		"total_orders": stats.TotalOrders,
		"total_trades": stats.TotalTrades,
		"book_count":   stats.BookCount,
	}).Info("bots run complete")
}
