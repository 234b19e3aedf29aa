package engine

import (
	"testing"
	"time"
)

// S1: a crossing limit order trades immediately against the resting best.
func TestSimpleCross(t *testing.T) {
	ob := NewOrderBook("BTCUSD")
	ob.now = func() time.Time { return time.Unix(0, 0) }

	ask := NewOrder(1, "BTCUSD", Sell, Limit, 101, 5, 0)
	ob.MatchOrder(ask)

	bid := NewOrder(2, "BTCUSD", Buy, Limit, 102, 3, 0)
	trades := ob.MatchOrder(bid)

	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	if trades[0].Quantity != 3 || trades[0].Price != 101 {
		t.Fatalf("unexpected trade: %+v", trades[0])
	}
	if bid.RemainingQuantity != 0 || bid.Status != Filled {
		t.Fatalf("aggressor should be fully filled: %+v", bid)
	}
	if ask.RemainingQuantity != 2 || ask.Status != PartialFill {
		t.Fatalf("resting order should be partially filled: %+v", ask)
	}
}

// S2: a trade always executes at the resting (passive) order's price, never
// the aggressor's, even when the aggressor bid through a worse price.
func TestPriceImprovementGoesToAggressor(t *testing.T) {
	ob := NewOrderBook("BTCUSD")

	ask := NewOrder(1, "BTCUSD", Sell, Limit, 100, 10, 0)
	ob.MatchOrder(ask)

	bid := NewOrder(2, "BTCUSD", Buy, Limit, 105, 4, 0)
	trades := ob.MatchOrder(bid)

	if len(trades) != 1 || trades[0].Price != 100 {
		t.Fatalf("expected trade at resting price 100, got %+v", trades)
	}
}

// S3: resting orders at the same price level fill strictly in arrival order.
func TestFIFOWithinLevel(t *testing.T) {
	ob := NewOrderBook("BTCUSD")

	first := NewOrder(1, "BTCUSD", Sell, Limit, 100, 3, 0)
	second := NewOrder(2, "BTCUSD", Sell, Limit, 100, 3, 0)
	ob.MatchOrder(first)
	ob.MatchOrder(second)

	bid := NewOrder(3, "BTCUSD", Buy, Limit, 100, 4, 0)
	trades := ob.MatchOrder(bid)

	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	if trades[0].SellOrderId != 1 || trades[0].Quantity != 3 {
		t.Fatalf("first trade should fully consume the earlier order: %+v", trades[0])
	}
	if trades[1].SellOrderId != 2 || trades[1].Quantity != 1 {
		t.Fatalf("second trade should partially consume the later order: %+v", trades[1])
	}
}

// S4: an FOK order that can fill entirely executes in one sweep with no
// resting remainder.
func TestFOKSuccess(t *testing.T) {
	ob := NewOrderBook("BTCUSD")

	ob.MatchOrder(NewOrder(1, "BTCUSD", Sell, Limit, 100, 5, 0))
	ob.MatchOrder(NewOrder(2, "BTCUSD", Sell, Limit, 101, 5, 0))

	fok := NewOrder(3, "BTCUSD", Buy, FOK, 101, 8, 0)
	trades := ob.MatchOrder(fok)

	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	if fok.Status != Filled || fok.RemainingQuantity != 0 {
		t.Fatalf("FOK order should be fully filled: %+v", fok)
	}
}

// S5: an FOK order that cannot fill entirely produces no trades and leaves
// the book untouched.
func TestFOKRejection(t *testing.T) {
	ob := NewOrderBook("BTCUSD")

	ob.MatchOrder(NewOrder(1, "BTCUSD", Sell, Limit, 100, 5, 0))

	fok := NewOrder(2, "BTCUSD", Buy, FOK, 100, 10, 0)
	trades := ob.MatchOrder(fok)

	if len(trades) != 0 {
		t.Fatalf("expected no trades, got %d", len(trades))
	}
	if fok.Status != Cancelled {
		t.Fatalf("unfillable FOK order should be cancelled: %+v", fok)
	}
	if ob.GetOrder(1).RemainingQuantity != 5 {
		t.Fatalf("resting order should be untouched by a rejected FOK")
	}
}

// S6: a large market order sweeps multiple price levels best-price-first.
func TestMultiLevelSweep(t *testing.T) {
	ob := NewOrderBook("BTCUSD")

	ob.MatchOrder(NewOrder(1, "BTCUSD", Sell, Limit, 100, 2, 0))
	ob.MatchOrder(NewOrder(2, "BTCUSD", Sell, Limit, 101, 3, 0))
	ob.MatchOrder(NewOrder(3, "BTCUSD", Sell, Limit, 102, 10, 0))

	mkt := NewOrder(4, "BTCUSD", Buy, Market, 0, 6, 0)
	trades := ob.MatchOrder(mkt)

	if len(trades) != 3 {
		t.Fatalf("expected 3 trades across 3 levels, got %d", len(trades))
	}
	wantPrices := []Price{100, 101, 102}
	wantQty := []Quantity{2, 3, 1}
	for i, tr := range trades {
		if tr.Price != wantPrices[i] || tr.Quantity != wantQty[i] {
			t.Fatalf("trade %d: want price=%v qty=%v, got %+v", i, wantPrices[i], wantQty[i], tr)
		}
	}
	if mkt.RemainingQuantity != 0 {
		t.Fatalf("market order should be fully filled by the sweep: %+v", mkt)
	}
}

// S7: ModifyOrder re-posts the order at the back of its new price level,
// losing time priority even when the price is unchanged.
func TestModifyLosesTimePriority(t *testing.T) {
	ob := NewOrderBook("BTCUSD")

	ob.MatchOrder(NewOrder(1, "BTCUSD", Sell, Limit, 100, 5, 0))
	ob.MatchOrder(NewOrder(2, "BTCUSD", Sell, Limit, 100, 5, 0))

	if ok := ob.ModifyOrder(1, 100, 5); !ok {
		t.Fatalf("modify should succeed for a resting order")
	}

	bid := NewOrder(3, "BTCUSD", Buy, Limit, 100, 5, 0)
	trades := ob.MatchOrder(bid)

	if len(trades) != 1 || trades[0].SellOrderId != 2 {
		t.Fatalf("order 2 should now be ahead of the re-posted order 1: %+v", trades)
	}
}

func TestCancelOrderRemovesFromBook(t *testing.T) {
	ob := NewOrderBook("BTCUSD")
	ob.MatchOrder(NewOrder(1, "BTCUSD", Buy, Limit, 100, 5, 0))

	cancelled, ok := ob.CancelOrder(1)
	if !ok || cancelled.OrderId != 1 || cancelled.Status != Cancelled {
		t.Fatalf("cancel should succeed and return the cancelled order, got %+v ok=%v", cancelled, ok)
	}
	if _, ok := ob.CancelOrder(1); ok {
		t.Fatalf("cancel should be idempotent and fail the second time")
	}
	if ob.GetOrder(1) != nil {
		t.Fatalf("cancelled order should no longer be resolvable")
	}
}

// Invariant: an empty price level is removed from the book rather than left
// around as a zero-quantity entry.
func TestNoEmptyLevelsLinger(t *testing.T) {
	ob := NewOrderBook("BTCUSD")
	ob.MatchOrder(NewOrder(1, "BTCUSD", Sell, Limit, 100, 5, 0))
	ob.MatchOrder(NewOrder(2, "BTCUSD", Buy, Limit, 100, 5, 0))

	if got := ob.GetBestAsk(); got != 0 {
		t.Fatalf("ask side should be empty after a full fill, got best ask %v", got)
	}
	if depth := ob.GetAskDepth(10); len(depth) != 0 {
		t.Fatalf("expected no ask depth entries, got %+v", depth)
	}
}

// Invariant: the book is never left crossed after matching completes.
func TestBookNeverLeftCrossed(t *testing.T) {
	ob := NewOrderBook("BTCUSD")
	ob.MatchOrder(NewOrder(1, "BTCUSD", Sell, Limit, 105, 5, 0))
	ob.MatchOrder(NewOrder(2, "BTCUSD", Buy, Limit, 110, 3, 0))

	bestBid, bestAsk := ob.GetBestBid(), ob.GetBestAsk()
	if bestBid != 0 && bestAsk != 0 && bestBid >= bestAsk {
		t.Fatalf("book left crossed: bid=%v ask=%v", bestBid, bestAsk)
	}
}

// Invariant: aggregate level quantity always matches the sum of its resting
// orders' remaining quantity.
func TestLevelAggregateMatchesOrders(t *testing.T) {
	ob := NewOrderBook("BTCUSD")
	ob.MatchOrder(NewOrder(1, "BTCUSD", Buy, Limit, 100, 3, 0))
	ob.MatchOrder(NewOrder(2, "BTCUSD", Buy, Limit, 100, 7, 0))

	depth := ob.GetBidDepth(1)
	if len(depth) != 1 || depth[0].Quantity != 10 {
		t.Fatalf("expected aggregate quantity 10 at price 100, got %+v", depth)
	}
}
