package engine

import "time"

// Order is an immutable-identity order record: OrderId, Symbol, Side, Type
// and StopPrice never change after construction, while Price, Quantity,
// RemainingQuantity and Status mutate as the order is matched, modified or
// cancelled.
type Order struct {
	OrderId           OrderId
	Symbol            string
	Side              Side
	Type              OrderType
	Price             Price
	Quantity          Quantity
	RemainingQuantity Quantity
	StopPrice         Price
	Status            OrderStatus
	Timestamp         time.Time
	ClientId          string
}

// NewOrder constructs an order in the PENDING state with its full quantity
// unfilled and its timestamp anchored for time priority.
func NewOrder(id OrderId, symbol string, side Side, typ OrderType, price Price, quantity Quantity, stopPrice Price) *Order {
	return &Order{
		OrderId:           id,
		Symbol:            symbol,
		Side:              side,
		Type:              typ,
		Price:             price,
		Quantity:          quantity,
		RemainingQuantity: quantity,
		StopPrice:         stopPrice,
		Status:            Pending,
		Timestamp:         time.Now(),
	}
}

// Filled returns the cumulative quantity executed so far.
func (o *Order) Filled() Quantity {
	return o.Quantity - o.RemainingQuantity
}

// Active reports whether the order can still participate in matching or
// rest on the book.
func (o *Order) Active() bool {
	return o.Status == Pending || o.Status == PartialFill
}

// Fill executes up to qty against the order, clamped to what remains.
// RemainingQuantity decreases and Status transitions to FILLED once it
// reaches zero, or to PARTIAL_FILL if some but not all of the order has
// been filled.
func (o *Order) Fill(qty Quantity) {
	if qty > o.RemainingQuantity {
		qty = o.RemainingQuantity
	}
	o.RemainingQuantity -= qty
	if o.RemainingQuantity == 0 {
		o.Status = Filled
	} else if o.RemainingQuantity < o.Quantity {
		o.Status = PartialFill
	}
}

// ShouldTrigger reports whether a stop order would trigger at refPrice. Non-
// stop order types always return false. See SPEC_FULL.md §9: the core
// exposes this predicate but nothing in the matching path currently calls
// it on a last-trade update, matching the documented gap.
func (o *Order) ShouldTrigger(refPrice Price) bool {
	if o.Type != StopLoss && o.Type != StopLimit {
		return false
	}
	if o.Side == Buy {
		return refPrice >= o.StopPrice
	}
	return refPrice <= o.StopPrice
}

// SetPrice mutates the resting price of the order. Used by modify.
func (o *Order) SetPrice(price Price) {
	o.Price = price
}

// SetQuantity mutates the order's quantity and resets RemainingQuantity to
// match it. Modify is semantically a re-post, not a partial amendment.
func (o *Order) SetQuantity(qty Quantity) {
	o.Quantity = qty
	o.RemainingQuantity = qty
}

// Clone returns a value copy, used when handing a resting order's state out
// to a caller (e.g. market-data snapshots) without exposing the book's own
// pointer.
func (o *Order) Clone() *Order {
	c := *o
	return &c
}
