package bots

import (
	"context"
	"sync"
	"time"

	"limitless/engine"
)

// ThrottledClient wraps an *engine.Engine, scoped to one symbol, with basic
// rate limiting and ownership bookkeeping. It plays the same role the
// teacher's ThrottledClient played around a single *engine.OrderBook, but
// order ids are now minted by the Engine itself (OrderId is a monotonic
// uint64, not a client-chosen string) rather than by the client.
type ThrottledClient struct {
	eng      *engine.Engine
	symbol   string
	tickSize engine.Price
	throttle <-chan time.Time
	trades   chan engine.Trade

	mu    sync.Mutex
	owned map[engine.OrderId]struct{}
}

// NewThrottledClient wraps eng for symbol with throttle gating submission
// rate and tickSize rounding limit prices down to the nearest tradable tick.
func NewThrottledClient(eng *engine.Engine, symbol string, tickSize engine.Price, throttle <-chan time.Time) *ThrottledClient {
	c := &ThrottledClient{
		eng:      eng,
		symbol:   symbol,
		tickSize: tickSize,
		throttle: throttle,
		trades:   make(chan engine.Trade, 256),
		owned:    make(map[engine.OrderId]struct{}),
	}
	eng.OnTrade(c.onTrade)
	return c
}

// onTrade is registered with the Engine and filters the global trade stream
// down to this client's symbol, matching the teacher's per-book Trades()
// channel without reintroducing a per-symbol callback slot on the Engine.
func (c *ThrottledClient) onTrade(t engine.Trade) {
	if t.Symbol != c.symbol {
		return
	}
	select {
	case c.trades <- t:
	default:
	}
}

func (c *ThrottledClient) waitThrottle(ctx context.Context) error {
	if c.throttle == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.throttle:
		return nil
	}
}

// SubmitOrder throttles, rounds price to the nearest tick at or below it,
// and submits to the Engine, recording the assigned OrderId as owned.
func (c *ThrottledClient) SubmitOrder(ctx context.Context, side engine.Side, typ engine.OrderType, price engine.Price, qty engine.Quantity) (engine.OrderId, error) {
	if err := c.waitThrottle(ctx); err != nil {
		return 0, err
	}
	if price > 0 && c.tickSize > 0 && price%c.tickSize != 0 {
		price = (price / c.tickSize) * c.tickSize
	}
	id := c.eng.SubmitOrder(c.symbol, side, typ, price, qty, "bot", 0)
	c.mu.Lock()
	c.owned[id] = struct{}{}
	c.mu.Unlock()
	return id, nil
}

func (c *ThrottledClient) CancelOrder(ctx context.Context, id engine.OrderId) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	c.eng.CancelOrder(id)
	return nil
}

// Snapshot returns the current top of book for this client's symbol.
func (c *ThrottledClient) Snapshot(ctx context.Context) (BookView, error) {
	select {
	case <-ctx.Done():
		return BookView{}, ctx.Err()
	default:
	}

	var view BookView
	if depth := c.eng.GetBidDepth(c.symbol, 1); len(depth) > 0 {
		view.BestBid, view.BestBidQty = depth[0].Price, depth[0].Quantity
	}
	if depth := c.eng.GetAskDepth(c.symbol, 1); len(depth) > 0 {
		view.BestAsk, view.BestAskQty = depth[0].Price, depth[0].Quantity
	}
	return view, nil
}

func (c *ThrottledClient) Trades() <-chan engine.Trade { return c.trades }

func (c *ThrottledClient) Symbol() string { return c.symbol }

func (c *ThrottledClient) TickSize() engine.Price { return c.tickSize }

func (c *ThrottledClient) OwnsOrder(id engine.OrderId) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.owned[id]
	return ok
}
