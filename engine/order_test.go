package engine

import "testing"

func TestOrderFillClampsAndTransitions(t *testing.T) {
	o := NewOrder(1, "AAPL", Buy, Limit, 1500000, 100, 0)
	if o.Status != Pending {
		t.Fatalf("expected PENDING, got %s", o.Status)
	}

	o.Fill(40)
	if o.RemainingQuantity != 60 || o.Status != PartialFill {
		t.Fatalf("expected remaining=60 PARTIAL_FILL, got remaining=%d status=%s", o.RemainingQuantity, o.Status)
	}
	if o.Filled() != 40 {
		t.Fatalf("expected filled=40, got %d", o.Filled())
	}

	o.Fill(1000) // over-fill clamps to remaining
	if o.RemainingQuantity != 0 || o.Status != Filled {
		t.Fatalf("expected remaining=0 FILLED, got remaining=%d status=%s", o.RemainingQuantity, o.Status)
	}
	if o.Active() {
		t.Fatalf("filled order should not be active")
	}
}

func TestOrderShouldTrigger(t *testing.T) {
	buyStop := NewOrder(1, "AAPL", Buy, StopLoss, 0, 10, 1500000)
	if buyStop.ShouldTrigger(1499999) {
		t.Fatalf("buy stop should not trigger below stop price")
	}
	if !buyStop.ShouldTrigger(1500000) {
		t.Fatalf("buy stop should trigger at stop price")
	}

	sellStop := NewOrder(2, "AAPL", Sell, StopLimit, 0, 10, 1500000)
	if sellStop.ShouldTrigger(1500001) {
		t.Fatalf("sell stop should not trigger above stop price")
	}
	if !sellStop.ShouldTrigger(1500000) {
		t.Fatalf("sell stop should trigger at stop price")
	}

	limit := NewOrder(3, "AAPL", Buy, Limit, 1500000, 10, 1500000)
	if limit.ShouldTrigger(2000000) {
		t.Fatalf("non-stop orders never trigger")
	}
}

func TestOrderSetQuantityResetsRemaining(t *testing.T) {
	o := NewOrder(1, "AAPL", Buy, Limit, 1500000, 100, 0)
	o.Fill(30)
	o.SetQuantity(50)
	if o.Quantity != 50 || o.RemainingQuantity != 50 {
		t.Fatalf("expected quantity=remaining=50, got quantity=%d remaining=%d", o.Quantity, o.RemainingQuantity)
	}
}
