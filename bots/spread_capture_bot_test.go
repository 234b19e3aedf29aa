package bots

import "testing"

func TestSpreadCaptureBotQuoteQuantityCapsToThinnerSide(t *testing.T) {
	b := NewSpreadCaptureBot()
	b.Quantity = 10

	view := BookView{BestBid: 100, BestBidQty: 3, BestAsk: 105, BestAskQty: 8}
	if got := b.quoteQuantity(view); got != 3 {
		t.Fatalf("expected quote size capped to the thinner bid side (3), got %v", got)
	}
}

func TestSpreadCaptureBotQuoteQuantityFallsBackWhenBookEmpty(t *testing.T) {
	b := NewSpreadCaptureBot()
	b.Quantity = 10

	view := BookView{}
	if got := b.quoteQuantity(view); got != 10 {
		t.Fatalf("expected fallback to configured Quantity (10) on an empty book, got %v", got)
	}
}

func TestSpreadCaptureBotQuoteQuantityNeverExceedsConfigured(t *testing.T) {
	b := NewSpreadCaptureBot()
	b.Quantity = 2

	view := BookView{BestBid: 100, BestBidQty: 50, BestAsk: 105, BestAskQty: 50}
	if got := b.quoteQuantity(view); got != 2 {
		t.Fatalf("expected quote size capped at configured Quantity (2) when the book is deep, got %v", got)
	}
}
