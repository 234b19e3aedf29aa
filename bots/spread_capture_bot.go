package bots

import (
	"context"
	"time"

	"limitless/engine"
)

// SpreadCaptureBot maintains paired bids/asks and re-prices when the spread moves.
type SpreadCaptureBot struct {
	Interval       time.Duration
	Lifetime       time.Duration
	ThresholdTicks int64
	Quantity       engine.Quantity
}

type pairedOrders struct {
	buyID     engine.OrderId
	sellID    engine.OrderId
	anchorMid engine.Price
	placedAt  time.Time
}

func NewSpreadCaptureBot() *SpreadCaptureBot {
	return &SpreadCaptureBot{
		Interval:       300 * time.Millisecond,
		Lifetime:       3 * time.Second,
		ThresholdTicks: 3,
		Quantity:       1,
	}
}

func (b *SpreadCaptureBot) Start(ctx context.Context, client EngineClient) {
	ticker := time.NewTicker(b.Interval)
	defer ticker.Stop()

	var pair *pairedOrders
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			view, err := client.Snapshot(ctx)
			if err != nil {
				continue
			}
			pair = b.refreshPair(ctx, client, view, pair)
		}
	}
}

func (b *SpreadCaptureBot) refreshPair(ctx context.Context, client EngineClient, view BookView, pair *pairedOrders) *pairedOrders {
	bid := view.BestBid
	ask := view.BestAsk
	if bid == 0 || ask == 0 {
		return b.cancelPair(ctx, client, pair)
	}
	mid := (bid + ask) / 2
	threshold := engine.Price(b.ThresholdTicks) * client.TickSize()

	if pair != nil {
		if time.Since(pair.placedAt) > b.Lifetime {
			return b.cancelPair(ctx, client, pair)
		}
		if absPrice(mid-pair.anchorMid) >= threshold {
			pair = b.cancelPair(ctx, client, pair)
		}
	}

	if pair != nil {
		return pair
	}

	buyPrice := bid
	if mid-client.TickSize() > 0 {
		buyPrice = mid - client.TickSize()
	}
	sellPrice := ask
	if sellPrice <= buyPrice {
		sellPrice = buyPrice + client.TickSize()
	}

	qty := b.quoteQuantity(view)

	buyID, err := client.SubmitOrder(ctx, engine.Buy, engine.Limit, buyPrice, qty)
	if err != nil {
		return pair
	}
	sellID, err := client.SubmitOrder(ctx, engine.Sell, engine.Limit, sellPrice, qty)
	if err != nil {
		_ = client.CancelOrder(ctx, buyID)
		return pair
	}

	return &pairedOrders{buyID: buyID, sellID: sellID, anchorMid: mid, placedAt: time.Now()}
}

// quoteQuantity caps the pair's size at the thinner side of the resting
// book, so the bot never quotes more size than the book shows liquidity
// for; the teacher's bot always posted a fixed Quantity regardless of what
// was resting. Falls back to Quantity when either side is empty.
func (b *SpreadCaptureBot) quoteQuantity(view BookView) engine.Quantity {
	thin := view.BestBidQty
	if view.BestAskQty < thin {
		thin = view.BestAskQty
	}
	if thin == 0 || thin > b.Quantity {
		return b.Quantity
	}
	return thin
}

func (b *SpreadCaptureBot) cancelPair(ctx context.Context, client EngineClient, pair *pairedOrders) *pairedOrders {
	if pair == nil {
		return nil
	}
	_ = client.CancelOrder(ctx, pair.buyID)
	_ = client.CancelOrder(ctx, pair.sellID)
	return nil
}
