package engine

import "container/list"

// PriceLevel is a FIFO queue of resting orders at one price, with O(1)
// lookup by OrderId and a maintained aggregate quantity. The queue is a
// doubly linked list (container/list, the direct analogue of the original
// implementation's std::list) so that idIndex can hold a stable *list.Element
// handle into the middle of the queue, giving O(1) removal without a linear
// scan.
//
// Invariant: totalQuantity == sum of RemainingQuantity over every order
// currently in the queue.
type PriceLevel struct {
	price         Price
	totalQuantity Quantity
	orders        *list.List
	idIndex       map[OrderId]*list.Element
}

// NewPriceLevel creates an empty level at price.
func NewPriceLevel(price Price) *PriceLevel {
	return &PriceLevel{
		price:   price,
		orders:  list.New(),
		idIndex: make(map[OrderId]*list.Element),
	}
}

// Price returns the level's price.
func (l *PriceLevel) Price() Price { return l.price }

// TotalQuantity returns the aggregate remaining quantity resting at this level.
func (l *PriceLevel) TotalQuantity() Quantity { return l.totalQuantity }

// Len returns the number of resting orders at this level.
func (l *PriceLevel) Len() int { return l.orders.Len() }

// IsEmpty reports whether the level has no resting orders.
func (l *PriceLevel) IsEmpty() bool { return l.orders.Len() == 0 }

// Front returns the oldest resting order at this level, or nil.
func (l *PriceLevel) Front() *Order {
	e := l.orders.Front()
	if e == nil {
		return nil
	}
	return e.Value.(*Order)
}

// AddOrder appends o to the back of the FIFO queue, records its position in
// idIndex, and adds its remaining quantity to the aggregate.
func (l *PriceLevel) AddOrder(o *Order) {
	elem := l.orders.PushBack(o)
	l.idIndex[o.OrderId] = elem
	l.totalQuantity += o.RemainingQuantity
}

// RemoveOrder erases the order by id, subtracting its current remaining
// quantity from the aggregate. Idempotent: removing an absent id is a no-op.
func (l *PriceLevel) RemoveOrder(id OrderId) {
	elem, ok := l.idIndex[id]
	if !ok {
		return
	}
	o := elem.Value.(*Order)
	l.totalQuantity -= o.RemainingQuantity
	l.orders.Remove(elem)
	delete(l.idIndex, id)
}

// GetOrder returns the resting order by id, or nil if absent.
func (l *PriceLevel) GetOrder(id OrderId) *Order {
	elem, ok := l.idIndex[id]
	if !ok {
		return nil
	}
	return elem.Value.(*Order)
}

// RemoveFront erases and returns the oldest resting order, or nil if the
// level is empty. Used by the sweep once the front order is fully filled.
func (l *PriceLevel) RemoveFront() *Order {
	e := l.orders.Front()
	if e == nil {
		return nil
	}
	o := e.Value.(*Order)
	l.orders.Remove(e)
	delete(l.idIndex, o.OrderId)
	return o
}

// ReduceTotal subtracts qty from the maintained aggregate. Called by the
// sweep alongside Order.Fill so the aggregate stays consistent without a
// full recomputation on every partial fill.
func (l *PriceLevel) ReduceTotal(qty Quantity) {
	l.totalQuantity -= qty
}
