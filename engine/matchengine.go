package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// OrderCallback is invoked whenever an order's observable state changes:
// once when it is first accepted (PENDING, pre-match) and again after
// matching completes. TradeCallback is invoked once per emitted Trade.
// MatchDurationCallback is invoked once per SubmitOrder call with the
// wall-clock time spent inside OrderBook.MatchOrder, for latency monitoring.
// All three are invoked with no book lock held (see SPEC_FULL.md §5).
type OrderCallback func(*Order)
type TradeCallback func(Trade)
type MatchDurationCallback func(time.Duration)

// Stats is a point-in-time snapshot of engine-wide counters, used by the
// monitoring surface.
type Stats struct {
	TotalOrders        uint64
	TotalTrades        uint64
	BookCount          int
	OrderToSymbolCount int
}

// Engine is the multi-symbol registry: it assigns order ids, routes
// operations to the correct OrderBook, and fans out order/trade
// notifications to every registered callback. See SPEC_FULL.md §4.4 and §5
// for the concurrency discipline.
type Engine struct {
	nextOrderId atomic.Uint64
	totalOrders atomic.Uint64
	totalTrades atomic.Uint64

	mu            sync.RWMutex
	books         map[string]*OrderBook
	orderToSymbol map[OrderId]string

	cbMu                   sync.Mutex
	orderCallbacks         []OrderCallback
	tradeCallbacks         []TradeCallback
	matchDurationCallbacks []MatchDurationCallback
}

// NewEngine creates an empty multi-symbol engine. Order ids start from 1.
func NewEngine() *Engine {
	return &Engine{
		books:         make(map[string]*OrderBook),
		orderToSymbol: make(map[OrderId]string),
	}
}

// OnOrder registers a callback invoked for every order state change across
// every symbol. This generalizes the original single-slot orderCallback
// field into a subscriber list (see SPEC_FULL.md's Redesign Flags) so the
// wire server and the monitoring hub can both observe activity.
func (e *Engine) OnOrder(cb OrderCallback) {
	e.cbMu.Lock()
	defer e.cbMu.Unlock()
	e.orderCallbacks = append(e.orderCallbacks, cb)
}

// OnTrade registers a callback invoked for every trade across every symbol.
func (e *Engine) OnTrade(cb TradeCallback) {
	e.cbMu.Lock()
	defer e.cbMu.Unlock()
	e.tradeCallbacks = append(e.tradeCallbacks, cb)
}

// OnMatchDuration registers a callback invoked once per SubmitOrder call
// with the time spent inside OrderBook.MatchOrder.
func (e *Engine) OnMatchDuration(cb MatchDurationCallback) {
	e.cbMu.Lock()
	defer e.cbMu.Unlock()
	e.matchDurationCallbacks = append(e.matchDurationCallbacks, cb)
}

func (e *Engine) notifyOrder(o *Order) {
	e.cbMu.Lock()
	cbs := append([]OrderCallback(nil), e.orderCallbacks...)
	e.cbMu.Unlock()
	snapshot := o.Clone()
	for _, cb := range cbs {
		cb(snapshot)
	}
}

func (e *Engine) notifyTrade(t Trade) {
	e.cbMu.Lock()
	cbs := append([]TradeCallback(nil), e.tradeCallbacks...)
	e.cbMu.Unlock()
	for _, cb := range cbs {
		cb(t)
	}
}

func (e *Engine) notifyMatchDuration(d time.Duration) {
	e.cbMu.Lock()
	cbs := append([]MatchDurationCallback(nil), e.matchDurationCallbacks...)
	e.cbMu.Unlock()
	for _, cb := range cbs {
		cb(d)
	}
}

// getOrCreateBook resolves the book for symbol, creating it under the
// engine write lock if it does not exist yet. Lock order is always Engine
// mutex before OrderBook mutex, never the reverse (SPEC_FULL.md §5).
func (e *Engine) getOrCreateBook(symbol string) *OrderBook {
	e.mu.RLock()
	book, ok := e.books[symbol]
	e.mu.RUnlock()
	if ok {
		return book
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if book, ok = e.books[symbol]; ok {
		return book
	}
	book = NewOrderBook(symbol)
	e.books[symbol] = book
	return book
}

// SubmitOrder mints a new order id, constructs the order, routes it to the
// symbol's book for matching, and fires order/trade callbacks. Returns the
// newly assigned OrderId.
func (e *Engine) SubmitOrder(symbol string, side Side, typ OrderType, price Price, quantity Quantity, clientId string, stopPrice Price) OrderId {
	id := OrderId(e.nextOrderId.Add(1))
	e.totalOrders.Add(1)

	o := NewOrder(id, symbol, side, typ, price, quantity, stopPrice)
	o.ClientId = clientId

	book := e.getOrCreateBook(symbol)

	e.mu.Lock()
	e.orderToSymbol[id] = symbol
	e.mu.Unlock()

	e.notifyOrder(o)

	matchStart := time.Now()
	trades := book.MatchOrder(o)
	e.notifyMatchDuration(time.Since(matchStart))

	for _, t := range trades {
		e.totalTrades.Add(1)
		e.notifyTrade(t)
	}

	e.notifyOrder(o)

	return id
}

// CancelOrder resolves id's symbol and dispatches the cancel to the owning
// book. On success the orderToSymbol entry is erased.
func (e *Engine) CancelOrder(id OrderId) bool {
	e.mu.RLock()
	symbol, ok := e.orderToSymbol[id]
	e.mu.RUnlock()
	if !ok {
		return false
	}

	e.mu.RLock()
	book, ok := e.books[symbol]
	e.mu.RUnlock()
	if !ok {
		return false
	}

	cancelled, ok := book.CancelOrder(id)
	if !ok {
		return false
	}

	e.mu.Lock()
	delete(e.orderToSymbol, id)
	e.mu.Unlock()

	e.notifyOrder(cancelled)
	return true
}

// ModifyOrder resolves id's symbol and dispatches the modify to the owning
// book. orderToSymbol is retained (see SPEC_FULL.md §9's documented leak).
func (e *Engine) ModifyOrder(id OrderId, newPrice Price, newQuantity Quantity) bool {
	e.mu.RLock()
	symbol, ok := e.orderToSymbol[id]
	e.mu.RUnlock()
	if !ok {
		return false
	}

	e.mu.RLock()
	book, ok := e.books[symbol]
	e.mu.RUnlock()
	if !ok {
		return false
	}

	ok = book.ModifyOrder(id, newPrice, newQuantity)
	if ok {
		if o := book.GetOrder(id); o != nil {
			e.notifyOrder(o)
		}
	}
	return ok
}

// GetOrder resolves id's symbol and returns the order from the owning book,
// or nil if unknown.
func (e *Engine) GetOrder(id OrderId) *Order {
	e.mu.RLock()
	symbol, ok := e.orderToSymbol[id]
	e.mu.RUnlock()
	if !ok {
		return nil
	}

	e.mu.RLock()
	book, ok := e.books[symbol]
	e.mu.RUnlock()
	if !ok {
		return nil
	}
	return book.GetOrder(id)
}

// Book returns the OrderBook for symbol if it has been created, or nil.
func (e *Engine) Book(symbol string) *OrderBook {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.books[symbol]
}

// GetBestBid forwards to the named book's GetBestBid, returning 0 if the
// book does not exist.
func (e *Engine) GetBestBid(symbol string) Price {
	if book := e.Book(symbol); book != nil {
		return book.GetBestBid()
	}
	return 0
}

// GetBestAsk forwards to the named book's GetBestAsk, returning 0 if the
// book does not exist.
func (e *Engine) GetBestAsk(symbol string) Price {
	if book := e.Book(symbol); book != nil {
		return book.GetBestAsk()
	}
	return 0
}

// GetBidDepth forwards to the named book's GetBidDepth, returning nil if
// the book does not exist.
func (e *Engine) GetBidDepth(symbol string, levels int) []PriceQty {
	if book := e.Book(symbol); book != nil {
		return book.GetBidDepth(levels)
	}
	return nil
}

// GetAskDepth forwards to the named book's GetAskDepth, returning nil if
// the book does not exist.
func (e *Engine) GetAskDepth(symbol string, levels int) []PriceQty {
	if book := e.Book(symbol); book != nil {
		return book.GetAskDepth(levels)
	}
	return nil
}

// Stats returns a snapshot of engine-wide counters.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Stats{
		TotalOrders:        e.totalOrders.Load(),
		TotalTrades:        e.totalTrades.Load(),
		BookCount:          len(e.books),
		OrderToSymbolCount: len(e.orderToSymbol),
	}
}

// Symbols returns every symbol that has a book, in no particular order.
func (e *Engine) Symbols() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.books))
	for s := range e.books {
		out = append(out, s)
	}
	return out
}
