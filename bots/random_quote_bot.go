package bots

import (
	"context"
	"math/rand"
	"time"

	"limitless/engine"
)

// emptyBookReferencePrice is the price RandomQuoteBot quotes around while its
// symbol's book has no resting orders (100.0000 in fixed-point units).
const emptyBookReferencePrice engine.Price = 100 * 10000

// RandomQuoteBot places short-lived limit orders on one side around the mid
// price, or around emptyBookReferencePrice while the book is empty. The teacher's single-book bots package carried this as two
// separate types, RandomBidBot and RandomAskBot, identical apart from the
// hard-coded side; nothing else about the strategy depends on which side it
// quotes, so here it is one type parameterized by Side.
type RandomQuoteBot struct {
	Side       engine.Side
	Interval   time.Duration
	Lifetime   time.Duration
	Quantity   engine.Quantity
	RangeTicks int64
	rand       *rand.Rand
}

func newRandomQuoteBot(side engine.Side) *RandomQuoteBot {
	return &RandomQuoteBot{
		Side:       side,
		Interval:   200 * time.Millisecond,
		Lifetime:   2 * time.Second,
		Quantity:   1,
		RangeTicks: 5,
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewRandomBidBot builds a RandomQuoteBot that quotes the buy side.
func NewRandomBidBot() *RandomQuoteBot { return newRandomQuoteBot(engine.Buy) }

// NewRandomAskBot builds a RandomQuoteBot that quotes the sell side.
func NewRandomAskBot() *RandomQuoteBot { return newRandomQuoteBot(engine.Sell) }

func (b *RandomQuoteBot) Start(ctx context.Context, client EngineClient) {
	ticker := time.NewTicker(b.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.placeQuote(ctx, client)
		}
	}
}

func (b *RandomQuoteBot) placeQuote(ctx context.Context, client EngineClient) {
	view, err := client.Snapshot(ctx)
	if err != nil {
		return
	}
	mid := midPrice(view)
	if mid <= 0 {
		mid = emptyBookReferencePrice
	}

	delta := engine.Price(b.rand.Int63n(b.RangeTicks+1)) * client.TickSize()

	var price engine.Price
	if b.Side == engine.Buy {
		price = mid - delta
		if price <= 0 {
			price = client.TickSize()
		}
	} else {
		price = mid + delta
	}

	id, err := client.SubmitOrder(ctx, b.Side, engine.Limit, price, b.Quantity)
	if err != nil {
		return
	}

	go b.cancelAfter(ctx, client, id)
}

func (b *RandomQuoteBot) cancelAfter(ctx context.Context, client EngineClient, id engine.OrderId) {
	timer := time.NewTimer(b.Lifetime)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
		_ = client.CancelOrder(context.Background(), id)
	}
}
