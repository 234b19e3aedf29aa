// Package bots contains synthetic market participants that drive an
// *engine.Engine for demos and soak tests, adapted from the teacher's
// single-book bots package to the multi-symbol Engine.
package bots

import (
	"context"

	"limitless/engine"
)

// Bot represents a trading agent that can be run under a Supervisor.
type Bot interface {
	Start(ctx context.Context, client EngineClient)
}

// EngineClient abstracts the minimal surface bots need from the matching
// engine: throttled submission scoped to one symbol, cancellation, a
// top-of-book snapshot, and a private trade feed.
type EngineClient interface {
	SubmitOrder(ctx context.Context, side engine.Side, typ engine.OrderType, price engine.Price, qty engine.Quantity) (engine.OrderId, error)
	CancelOrder(ctx context.Context, id engine.OrderId) error
	Snapshot(ctx context.Context) (BookView, error)
	Trades() <-chan engine.Trade
	Symbol() string
	TickSize() engine.Price
	OwnsOrder(id engine.OrderId) bool
}
