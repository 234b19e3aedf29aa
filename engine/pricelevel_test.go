package engine

import "testing"

func TestPriceLevelAddRemoveAggregate(t *testing.T) {
	lvl := NewPriceLevel(1500000)
	a := NewOrder(1, "AAPL", Sell, Limit, 1500000, 100, 0)
	b := NewOrder(2, "AAPL", Sell, Limit, 1500000, 50, 0)

	lvl.AddOrder(a)
	lvl.AddOrder(b)

	if lvl.TotalQuantity() != 150 {
		t.Fatalf("expected total 150, got %d", lvl.TotalQuantity())
	}
	if lvl.Front().OrderId != 1 {
		t.Fatalf("expected FIFO front to be order 1, got %d", lvl.Front().OrderId)
	}

	lvl.RemoveOrder(1)
	if lvl.TotalQuantity() != 50 {
		t.Fatalf("expected total 50 after removing order 1, got %d", lvl.TotalQuantity())
	}
	if lvl.GetOrder(1) != nil {
		t.Fatalf("order 1 should no longer be indexed")
	}
	if lvl.Front().OrderId != 2 {
		t.Fatalf("expected front to now be order 2, got %d", lvl.Front().OrderId)
	}

	lvl.RemoveOrder(1) // idempotent on absence
	if lvl.TotalQuantity() != 50 {
		t.Fatalf("removing an absent id must not change the aggregate")
	}
}

func TestPriceLevelEmptyAfterRemovingAll(t *testing.T) {
	lvl := NewPriceLevel(1500000)
	a := NewOrder(1, "AAPL", Buy, Limit, 1500000, 10, 0)
	lvl.AddOrder(a)
	if lvl.IsEmpty() {
		t.Fatalf("level should not be empty after add")
	}
	lvl.RemoveOrder(1)
	if !lvl.IsEmpty() {
		t.Fatalf("level should be empty after removing its only order")
	}
}
