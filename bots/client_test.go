package bots

import (
	"context"
	"testing"

	"limitless/engine"
)

func TestThrottledClientSubmitAndCancelOrder(t *testing.T) {
	eng := engine.NewEngine()
	client := NewThrottledClient(eng, "AAPL", 1, nil)

	id, err := client.SubmitOrder(context.Background(), engine.Buy, engine.Limit, 100, 5)
	if err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	if !client.OwnsOrder(id) {
		t.Fatalf("client should own the order it just submitted")
	}
	if eng.GetOrder(id) == nil {
		t.Fatalf("order should be resting in the engine")
	}

	if err := client.CancelOrder(context.Background(), id); err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}
	if eng.GetOrder(id) != nil {
		t.Fatalf("order should no longer be resting after cancel")
	}
}

func TestThrottledClientRoundsPriceDownToTick(t *testing.T) {
	eng := engine.NewEngine()
	client := NewThrottledClient(eng, "AAPL", 10, nil)

	id, err := client.SubmitOrder(context.Background(), engine.Buy, engine.Limit, 107, 1)
	if err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	o := eng.GetOrder(id)
	if o == nil {
		t.Fatalf("order should be resting")
	}
	if o.Price != 100 {
		t.Fatalf("expected price rounded down to tick 100, got %v", o.Price)
	}
}

func TestThrottledClientSnapshotReflectsBook(t *testing.T) {
	eng := engine.NewEngine()
	client := NewThrottledClient(eng, "AAPL", 1, nil)

	eng.SubmitOrder("AAPL", engine.Buy, engine.Limit, 100, 5, "other", 0)
	eng.SubmitOrder("AAPL", engine.Sell, engine.Limit, 105, 3, "other", 0)

	view, err := client.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if view.BestBid != 100 || view.BestBidQty != 5 {
		t.Fatalf("unexpected bid side: %+v", view)
	}
	if view.BestAsk != 105 || view.BestAskQty != 3 {
		t.Fatalf("unexpected ask side: %+v", view)
	}
}

func TestThrottledClientTradesChannelFiltersBySymbol(t *testing.T) {
	eng := engine.NewEngine()
	client := NewThrottledClient(eng, "AAPL", 1, nil)

	eng.SubmitOrder("MSFT", engine.Sell, engine.Limit, 200, 5, "other", 0)
	eng.SubmitOrder("MSFT", engine.Buy, engine.Limit, 200, 5, "other", 0)

	select {
	case tr := <-client.Trades():
		t.Fatalf("client scoped to AAPL should not observe an MSFT trade: %+v", tr)
	default:
	}

	eng.SubmitOrder("AAPL", engine.Sell, engine.Limit, 100, 5, "other", 0)
	eng.SubmitOrder("AAPL", engine.Buy, engine.Limit, 100, 5, "other", 0)

	select {
	case tr := <-client.Trades():
		if tr.Symbol != "AAPL" {
			t.Fatalf("expected an AAPL trade, got %+v", tr)
		}
	default:
		t.Fatalf("expected the AAPL trade to be delivered")
	}
}
