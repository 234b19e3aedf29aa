package bots

import (
	"context"
	"testing"
	"time"

	"limitless/engine"
)

// Exercises the placeBid (RandomQuoteBot on the buy side)-then-cancel path
// against a real *engine.Engine: the bot should rest an order after
// placeQuote and the order should be gone once its Lifetime elapses.
func TestRandomQuoteBotPlacesAndCancelsOrder(t *testing.T) {
	eng := engine.NewEngine()
	client := NewThrottledClient(eng, "AAPL", 1, nil)

	eng.SubmitOrder("AAPL", engine.Buy, engine.Limit, 100, 5, "seed", 0)
	eng.SubmitOrder("AAPL", engine.Sell, engine.Limit, 110, 5, "seed", 0)

	bot := NewRandomBidBot()
	bot.Lifetime = 20 * time.Millisecond
	bot.RangeTicks = 0 // deterministic: always quotes exactly at mid

	var placed engine.OrderId
	eng.OnOrder(func(o *engine.Order) {
		if o.ClientId == "bot" && o.Status == engine.Pending && placed == 0 {
			placed = o.OrderId
		}
	})

	bot.placeQuote(context.Background(), client)
	if placed == 0 {
		t.Fatalf("bot should have submitted an order")
	}
	if eng.GetOrder(placed) == nil {
		t.Fatalf("bot's order should be resting right after placeQuote")
	}

	time.Sleep(100 * time.Millisecond)
	if eng.GetOrder(placed) != nil {
		t.Fatalf("bot's order should have been cancelled once its lifetime elapsed")
	}
}

func TestRandomQuoteBotSidesQuoteOppositeDirections(t *testing.T) {
	bid := NewRandomBidBot()
	ask := NewRandomAskBot()

	if bid.Side != engine.Buy {
		t.Fatalf("NewRandomBidBot should quote the buy side, got %v", bid.Side)
	}
	if ask.Side != engine.Sell {
		t.Fatalf("NewRandomAskBot should quote the sell side, got %v", ask.Side)
	}
}
