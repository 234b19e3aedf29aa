package bots

import (
	"context"
	"testing"
	"time"

	"limitless/engine"
)

func TestSupervisorDrivesOrdersIntoEngine(t *testing.T) {
	eng := engine.NewEngine()
	sup := NewSupervisor(eng, "AAPL", 1, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	sup.Start(ctx)

	stats := eng.Stats()
	if stats.TotalOrders == 0 {
		t.Fatalf("expected the bot swarm to have submitted at least one order")
	}
}

func TestMultiSymbolSupervisorDrivesEverySymbol(t *testing.T) {
	eng := engine.NewEngine()
	sup := NewMultiSymbolSupervisor(eng, []string{"AAPL", "MSFT"}, 1, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	sup.Start(ctx)

	for _, symbol := range []string{"AAPL", "MSFT"} {
		if eng.Book(symbol) == nil {
			t.Fatalf("expected a book to exist for %s after the supervisor ran", symbol)
		}
	}
}

func TestPnlTrackerRecordsOwnedSides(t *testing.T) {
	eng := engine.NewEngine()
	client := NewThrottledClient(eng, "AAPL", 1, nil)
	tracker := &pnlTracker{}

	buyID, err := client.SubmitOrder(context.Background(), engine.Buy, engine.Limit, 100, 5)
	if err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	_ = buyID

	trade := engine.Trade{BuyOrderId: buyID, SellOrderId: 999, Symbol: "AAPL", Price: 100, Quantity: 5}
	tracker.Record(trade, client)

	pos, cash := tracker.Snapshot()
	if pos != 5 {
		t.Fatalf("expected position 5 after a 5-lot buy fill, got %v", pos)
	}
	if cash != -500 {
		t.Fatalf("expected cash -500 after buying 5 @ 100, got %v", cash)
	}
}
