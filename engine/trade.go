package engine

import "time"

// Trade is an immutable value record produced by each execution. It is
// constructed by value at match time and owned by the caller of MatchOrder;
// the book never mutates a Trade after emitting it.
type Trade struct {
	BuyOrderId  OrderId
	SellOrderId OrderId
	Symbol      string
	Price       Price
	Quantity    Quantity
	Timestamp   time.Time
}
