package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrOrderNotFound names the condition of an order id that is not currently
// resting in the book. The book's own operations do not return it: they
// report that condition as a false (or nil) result.
var ErrOrderNotFound = errors.New("order not found")

// PriceQty is one entry of book depth: a price level and its aggregate
// resting quantity.
type PriceQty struct {
	Price    Price
	Quantity Quantity
}

// OrderBook holds bids and asks for a single symbol and implements the
// matching algorithm for every order type. All of AddOrder, CancelOrder,
// ModifyOrder, MatchOrder and the market-data reads acquire the book's
// mutex; matching is therefore serialized per symbol (see SPEC_FULL.md §5).
type OrderBook struct {
	mu sync.Mutex

	symbol string

	bidLevels map[Price]*PriceLevel
	askLevels map[Price]*PriceLevel
	bidPrices sortedPrices // ascending; best bid is the last element
	askPrices sortedPrices // ascending; best ask is the first element

	orderIndex map[OrderId]*Order

	now func() time.Time
}

// NewOrderBook creates an empty order book for symbol.
func NewOrderBook(symbol string) *OrderBook {
	return &OrderBook{
		symbol:     symbol,
		bidLevels:  make(map[Price]*PriceLevel),
		askLevels:  make(map[Price]*PriceLevel),
		orderIndex: make(map[OrderId]*Order),
		now:        time.Now,
	}
}

// Symbol returns the symbol this book matches.
func (b *OrderBook) Symbol() string { return b.symbol }

// AddOrder unconditionally inserts o onto its side at o.Price and records it
// in orderIndex. It does not attempt to match; callers that want crossing
// behavior use MatchOrder, which calls this internally to rest any residual
// quantity.
func (b *OrderBook) AddOrder(o *Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.addOrderLocked(o)
}

func (b *OrderBook) addOrderLocked(o *Order) {
	level, prices := b.levelsAndPricesLocked(o.Side)
	lvl, ok := level[o.Price]
	if !ok {
		lvl = NewPriceLevel(o.Price)
		level[o.Price] = lvl
		*prices = prices.insert(o.Price)
	}
	lvl.AddOrder(o)
	b.orderIndex[o.OrderId] = o
}

// levelsAndPricesLocked returns the level map and a pointer to the sorted
// price index for side. Must be called with mu held.
func (b *OrderBook) levelsAndPricesLocked(side Side) (map[Price]*PriceLevel, *sortedPrices) {
	if side == Buy {
		return b.bidLevels, &b.bidPrices
	}
	return b.askLevels, &b.askPrices
}

// CancelOrder removes id from the book if present, marking it CANCELLED.
// Returns the cancelled order (a snapshot taken before it is erased from
// orderIndex, since GetOrder(id) would return nil afterwards) and false if
// id is not resting in this book. Idempotent.
func (b *OrderBook) CancelOrder(id OrderId) (*Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.orderIndex[id]
	if !ok {
		return nil, false
	}
	o.Status = Cancelled
	b.removeFromLevelLocked(o)
	delete(b.orderIndex, id)
	return o.Clone(), true
}

// removeFromLevelLocked erases o from its price level, removing the level
// itself if it becomes empty. Must be called with mu held.
func (b *OrderBook) removeFromLevelLocked(o *Order) {
	level, prices := b.levelsAndPricesLocked(o.Side)
	lvl, ok := level[o.Price]
	if !ok {
		return
	}
	lvl.RemoveOrder(o.OrderId)
	if lvl.IsEmpty() {
		delete(level, o.Price)
		*prices = prices.remove(o.Price)
	}
}

// ModifyOrder removes id from its current level, mutates its price and
// quantity (which resets RemainingQuantity), returns its status to PENDING,
// and re-inserts it at the new price on the same side. This loses time
// priority by design (SPEC_FULL.md §9): ModifyOrder never attempts to
// match, even if the new price would now cross the opposing best.
func (b *OrderBook) ModifyOrder(id OrderId, newPrice Price, newQuantity Quantity) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.orderIndex[id]
	if !ok {
		return false
	}

	b.removeFromLevelLocked(o)
	delete(b.orderIndex, id)

	o.SetPrice(newPrice)
	o.SetQuantity(newQuantity)
	o.Status = Pending

	b.addOrderLocked(o)
	return true
}

// GetOrder returns the resting order by id, or nil if absent.
func (b *OrderBook) GetOrder(id OrderId) *Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.orderIndex[id]
}

// MatchOrder is the heart of the engine: it dispatches on o.Type and returns
// the trades produced. See SPEC_FULL.md §4.3 for the per-type semantics.
func (b *OrderBook) MatchOrder(o *Order) []Trade {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch o.Type {
	case Market:
		return b.matchMarketLocked(o)
	case IOC:
		return b.matchIOCLocked(o)
	case FOK:
		return b.matchFOKLocked(o)
	default:
		// LIMIT, STOP_LOSS, STOP_LIMIT: all matched as LIMIT. See
		// SPEC_FULL.md §9 for why stop variants are not special-cased.
		return b.matchLimitLocked(o)
	}
}

func (b *OrderBook) matchLimitLocked(o *Order) []Trade {
	trades := b.sweepLocked(o, true)
	if o.RemainingQuantity > 0 && o.Active() {
		b.addOrderLocked(o)
	}
	return trades
}

func (b *OrderBook) matchMarketLocked(o *Order) []Trade {
	trades := b.sweepLocked(o, false)
	if o.RemainingQuantity > 0 {
		o.Status = Cancelled
	}
	return trades
}

func (b *OrderBook) matchIOCLocked(o *Order) []Trade {
	trades := b.sweepLocked(o, true)
	if o.RemainingQuantity > 0 {
		o.Status = Cancelled
	}
	return trades
}

func (b *OrderBook) matchFOKLocked(o *Order) []Trade {
	if !b.canFillEntirelyLocked(o) {
		o.Status = Cancelled
		return nil
	}
	// The availability check above guarantees the sweep below fully fills o.
	return b.sweepLocked(o, true)
}

// canFillEntirelyLocked walks the opposite side best-price-first, applying
// the LIMIT price predicate, accumulating level.TotalQuantity until it is at
// least o.RemainingQuantity or the opposite side (within the price limit) is
// exhausted.
func (b *OrderBook) canFillEntirelyLocked(o *Order) bool {
	levels, prices := b.oppositeLevelsAndPricesLocked(o.Side)
	var available Quantity
	for _, p := range prices {
		if !priceSatisfies(o, p) {
			break
		}
		available += levels[p].TotalQuantity()
		if available >= o.RemainingQuantity {
			return true
		}
	}
	return available >= o.RemainingQuantity
}

// priceSatisfies implements the LIMIT-style price predicate: BUY crosses
// asks at or below its price; SELL crosses bids at or above its price.
func priceSatisfies(taker *Order, oppositePrice Price) bool {
	if taker.Side == Buy {
		return oppositePrice <= taker.Price
	}
	return oppositePrice >= taker.Price
}

// oppositeLevelsAndPricesLocked returns the opposing side's level map and
// its price keys in best-first order for taker's side. Must be called with
// mu held.
func (b *OrderBook) oppositeLevelsAndPricesLocked(side Side) (map[Price]*PriceLevel, []Price) {
	if side == Buy {
		return b.askLevels, b.askPrices.ascending()
	}
	return b.bidLevels, b.bidPrices.descending()
}

// sweepLocked executes crossing fills for o against the opposite side,
// best-price-first, FIFO within each level. If applyPriceLimit is true the
// LIMIT-style price predicate stops the sweep once the opposite best no
// longer crosses o's limit price; if false (MARKET) the sweep consumes any
// available liquidity regardless of price. Must be called with mu held.
func (b *OrderBook) sweepLocked(o *Order, applyPriceLimit bool) []Trade {
	var trades []Trade
	levelMap, priceIdx := b.levelsAndPricesLocked(oppositeSide(o.Side))
	_, prices := b.oppositeLevelsAndPricesLocked(o.Side)
	// Walk a copy: emptied levels are removed from *priceIdx inside the loop,
	// which would otherwise shift the slice being ranged over.
	prices = append([]Price(nil), prices...)

	for _, price := range prices {
		if o.RemainingQuantity == 0 {
			break
		}
		if applyPriceLimit && !priceSatisfies(o, price) {
			break
		}

		lvl := levelMap[price]

		for o.RemainingQuantity > 0 {
			resting := lvl.Front()
			if resting == nil {
				break
			}
			fillQty := o.RemainingQuantity
			if resting.RemainingQuantity < fillQty {
				fillQty = resting.RemainingQuantity
			}

			trade := Trade{
				BuyOrderId:  buyOrderId(o, resting),
				SellOrderId: sellOrderId(o, resting),
				Symbol:      b.symbol,
				Price:       resting.Price, // price improvement goes to the aggressor
				Quantity:    fillQty,
				Timestamp:   b.now(),
			}
			trades = append(trades, trade)

			o.Fill(fillQty)
			resting.Fill(fillQty)
			lvl.ReduceTotal(fillQty)

			if resting.RemainingQuantity == 0 {
				lvl.RemoveFront()
				delete(b.orderIndex, resting.OrderId)
			}
		}

		if lvl.IsEmpty() {
			delete(levelMap, price)
			*priceIdx = priceIdx.remove(price)
		}
	}

	return trades
}

func oppositeSide(s Side) Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

func buyOrderId(taker, resting *Order) OrderId {
	if taker.Side == Buy {
		return taker.OrderId
	}
	return resting.OrderId
}

func sellOrderId(taker, resting *Order) OrderId {
	if taker.Side == Sell {
		return taker.OrderId
	}
	return resting.OrderId
}

// GetBestBid returns the highest resting bid price, or 0 if the bid side is
// empty.
func (b *OrderBook) GetBestBid() Price {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bestBidLocked()
}

func (b *OrderBook) bestBidLocked() Price {
	if len(b.bidPrices) == 0 {
		return 0
	}
	return b.bidPrices[len(b.bidPrices)-1]
}

// GetBestAsk returns the lowest resting ask price, or 0 if the ask side is
// empty.
func (b *OrderBook) GetBestAsk() Price {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bestAskLocked()
}

func (b *OrderBook) bestAskLocked() Price {
	if len(b.askPrices) == 0 {
		return 0
	}
	return b.askPrices[0]
}

// GetBidDepth returns up to levels price/quantity pairs, best bid first.
func (b *OrderBook) GetBidDepth(levels int) []PriceQty {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]PriceQty, 0, levels)
	for _, p := range b.bidPrices.descending() {
		if len(out) >= levels {
			break
		}
		out = append(out, PriceQty{Price: p, Quantity: b.bidLevels[p].TotalQuantity()})
	}
	return out
}

// GetAskDepth returns up to levels price/quantity pairs, best ask first.
func (b *OrderBook) GetAskDepth(levels int) []PriceQty {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]PriceQty, 0, levels)
	for _, p := range b.askPrices.ascending() {
		if len(out) >= levels {
			break
		}
		out = append(out, PriceQty{Price: p, Quantity: b.askLevels[p].TotalQuantity()})
	}
	return out
}

// String renders a short human summary of the top of book, matching the
// original implementation's debug printBook helper.
func (b *OrderBook) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return fmt.Sprintf("OrderBook[%s bid=%s ask=%s]", b.symbol, b.bestBidLocked(), b.bestAskLocked())
}
