package monitor

import (
	"testing"
	"time"

	"limitless/engine"
)

// Property 10 (SPEC_FULL.md §8): monitoring is observational only and must
// never block or slow down Engine.SubmitOrder, even when a subscriber's
// channel is full.
func TestHubBroadcastDropsRatherThanBlocks(t *testing.T) {
	h := newHub[int]("test")
	sub := h.Subscribe(1)
	defer h.Unsubscribe(sub)

	h.Broadcast(1) // fills the one-slot buffer

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			h.Broadcast(i) // every one of these would block on an unbuffered send
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked on a full subscriber channel instead of dropping")
	}
}

func TestMonitorDoesNotBlockEngineSubmitOrder(t *testing.T) {
	eng := engine.NewEngine()
	s := New(eng)

	// Subscribe to both streams but never drain them, forcing every
	// broadcast past the first to hit the full-channel drop path.
	tradeSub := s.tradeHub.Subscribe(1)
	bookSub := s.bookHub.Subscribe(1)
	defer s.tradeHub.Unsubscribe(tradeSub)
	defer s.bookHub.Unsubscribe(bookSub)

	eng.SubmitOrder("AAPL", engine.Sell, engine.Limit, 1000, 10, "alice", 0)

	start := time.Now()
	for i := 0; i < 500; i++ {
		eng.SubmitOrder("AAPL", engine.Buy, engine.Limit, 1000, 1, "bob", 0)
	}
	elapsed := time.Since(start)

	if elapsed > 500*time.Millisecond {
		t.Fatalf("SubmitOrder slowed to %s with unread monitoring subscribers; monitoring must be observational only", elapsed)
	}
}
