// Package wire defines the length-prefixed binary frames the engine's TCP
// server and interactive client exchange, ported field-for-field from
// original_source/include/Message.h's C structs.
package wire

import (
	"bytes"
	"fmt"

	"limitless/engine"
)

// MessageType identifies the frame kind carried in every Header. Values
// match original_source/include/Common.h's MessageType enum exactly, since
// both ends of the wire must agree on the same integer encoding.
type MessageType uint32

const (
	NewOrder MessageType = iota
	CancelOrder
	ModifyOrder
	OrderAck
	OrderReject
	ExecutionReport
	MarketData
	Heartbeat
)

func (t MessageType) String() string {
	switch t {
	case NewOrder:
		return "NEW_ORDER"
	case CancelOrder:
		return "CANCEL_ORDER"
	case ModifyOrder:
		return "MODIFY_ORDER"
	case OrderAck:
		return "ORDER_ACK"
	case OrderReject:
		return "ORDER_REJECT"
	case ExecutionReport:
		return "EXECUTION_REPORT"
	case MarketData:
		return "MARKET_DATA"
	case Heartbeat:
		return "HEARTBEAT"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint32(t))
	}
}

// HeaderSize is the fixed, always-present prefix of every frame on the wire.
const HeaderSize = 16

// Header is the 16-byte prefix shared by every frame: type, total frame
// length in bytes (including the header itself), and an opaque timestamp
// the core does not interpret.
type Header struct {
	Type      MessageType
	Length    uint32
	Timestamp uint64
}

// wireOrderType mirrors original_source/include/Common.h's OrderType enum
// order, which does NOT match engine.OrderType's Go iota order (the core's
// ordering was chosen for Go readability, not wire compatibility), so this
// package carries its own numeric encoding and translates at the boundary.
type wireOrderType uint32

const (
	wireMarket wireOrderType = iota
	wireLimit
	wireStopLoss
	wireStopLimit
	wireIOC
	wireFOK
)

// encodeOrderType converts an engine.OrderType to its wire representation.
func encodeOrderType(t engine.OrderType) uint32 {
	switch t {
	case engine.Market:
		return uint32(wireMarket)
	case engine.Limit:
		return uint32(wireLimit)
	case engine.IOC:
		return uint32(wireIOC)
	case engine.FOK:
		return uint32(wireFOK)
	case engine.StopLoss:
		return uint32(wireStopLoss)
	case engine.StopLimit:
		return uint32(wireStopLimit)
	default:
		return uint32(wireLimit)
	}
}

// decodeOrderType converts a wire order type back to engine.OrderType.
func decodeOrderType(v uint32) (engine.OrderType, error) {
	switch wireOrderType(v) {
	case wireMarket:
		return engine.Market, nil
	case wireLimit:
		return engine.Limit, nil
	case wireStopLoss:
		return engine.StopLoss, nil
	case wireStopLimit:
		return engine.StopLimit, nil
	case wireIOC:
		return engine.IOC, nil
	case wireFOK:
		return engine.FOK, nil
	default:
		return 0, fmt.Errorf("wire: unknown order type %d", v)
	}
}

// encodeSide and decodeSide exist for symmetry with encodeOrderType/
// decodeOrderType even though engine.Side's Go ordering (BUY=0, SELL=1)
// happens to already match Common.h's Side enum.
func encodeSide(s engine.Side) uint32 { return uint32(s) }

func decodeSide(v uint32) (engine.Side, error) {
	switch v {
	case uint32(engine.Buy):
		return engine.Buy, nil
	case uint32(engine.Sell):
		return engine.Sell, nil
	default:
		return 0, fmt.Errorf("wire: unknown side %d", v)
	}
}

// encodeStatus and decodeStatus exist for the same symmetry reason:
// engine.OrderStatus's ordering also happens to already match Common.h's
// OrderStatus enum, but the conversion is named and tested like the others
// so a future reordering of either enum cannot silently desync the wire.
func encodeStatus(s engine.OrderStatus) uint32 { return uint32(s) }

func decodeStatus(v uint32) (engine.OrderStatus, error) {
	if v > uint32(engine.Rejected) {
		return 0, fmt.Errorf("wire: unknown order status %d", v)
	}
	return engine.OrderStatus(v), nil
}

// putString copies s into dst, null-padding or truncating to fit, matching
// the original's std::strncpy(..., sizeof(buf) - 1) convention.
func putString(dst []byte, s string) {
	for i := range dst {
		dst[i] = 0
	}
	n := len(s)
	if n > len(dst)-1 {
		n = len(dst) - 1
	}
	copy(dst, s[:n])
}

// getString reads a null-padded fixed-width field back out as a string.
func getString(src []byte) string {
	if i := bytes.IndexByte(src, 0); i >= 0 {
		return string(src[:i])
	}
	return string(src)
}

// NewOrderFrame requests a new order. Symbol and ClientId are fixed-width,
// null-padded ASCII fields.
type NewOrderFrame struct {
	Header        Header
	ClientOrderId uint64
	Symbol        [16]byte
	Side          uint32
	OrderType     uint32
	Price         int64
	Quantity      uint64
	StopPrice     int64
	ClientId      [32]byte
}

const newOrderBodySize = 8 + 16 + 4 + 4 + 8 + 8 + 8 + 32

// NewNewOrderFrame builds a NEW_ORDER frame from engine-native types.
func NewNewOrderFrame(clientOrderId uint64, symbol string, side engine.Side, typ engine.OrderType, price engine.Price, qty engine.Quantity, stopPrice engine.Price, clientId string) *NewOrderFrame {
	f := &NewOrderFrame{
		Header:        Header{Type: NewOrder, Length: HeaderSize + newOrderBodySize},
		ClientOrderId: clientOrderId,
		Side:          encodeSide(side),
		OrderType:     encodeOrderType(typ),
		Price:         int64(price),
		Quantity:      uint64(qty),
		StopPrice:     int64(stopPrice),
	}
	putString(f.Symbol[:], symbol)
	putString(f.ClientId[:], clientId)
	return f
}

// GetSymbol returns the null-terminated symbol field as a string.
func (f *NewOrderFrame) GetSymbol() string { return getString(f.Symbol[:]) }

// GetClientId returns the null-terminated client id field as a string.
func (f *NewOrderFrame) GetClientId() string { return getString(f.ClientId[:]) }

// DecodeSide returns the frame's side as an engine.Side.
func (f *NewOrderFrame) DecodeSide() (engine.Side, error) { return decodeSide(f.Side) }

// DecodeOrderType returns the frame's order type as an engine.OrderType.
func (f *NewOrderFrame) DecodeOrderType() (engine.OrderType, error) { return decodeOrderType(f.OrderType) }

// CancelOrderFrame requests cancellation of a previously submitted order.
type CancelOrderFrame struct {
	Header   Header
	OrderId  uint64
	ClientId [32]byte
}

const cancelOrderBodySize = 8 + 32

// NewCancelOrderFrame builds a CANCEL_ORDER frame.
func NewCancelOrderFrame(orderId uint64, clientId string) *CancelOrderFrame {
	f := &CancelOrderFrame{
		Header:  Header{Type: CancelOrder, Length: HeaderSize + cancelOrderBodySize},
		OrderId: orderId,
	}
	putString(f.ClientId[:], clientId)
	return f
}

// GetClientId returns the null-terminated client id field as a string.
func (f *CancelOrderFrame) GetClientId() string { return getString(f.ClientId[:]) }

// ModifyOrderFrame requests a price/quantity amendment to a resting order.
type ModifyOrderFrame struct {
	Header      Header
	OrderId     uint64
	NewPrice    int64
	NewQuantity uint64
	ClientId    [32]byte
}

const modifyOrderBodySize = 8 + 8 + 8 + 32

// NewModifyOrderFrame builds a MODIFY_ORDER frame.
func NewModifyOrderFrame(orderId uint64, newPrice engine.Price, newQuantity engine.Quantity, clientId string) *ModifyOrderFrame {
	f := &ModifyOrderFrame{
		Header:      Header{Type: ModifyOrder, Length: HeaderSize + modifyOrderBodySize},
		OrderId:     orderId,
		NewPrice:    int64(newPrice),
		NewQuantity: uint64(newQuantity),
	}
	putString(f.ClientId[:], clientId)
	return f
}

// GetClientId returns the null-terminated client id field as a string.
func (f *ModifyOrderFrame) GetClientId() string { return getString(f.ClientId[:]) }

// OrderAckFrame acknowledges a NEW_ORDER (or CANCEL_ORDER/MODIFY_ORDER)
// request, carrying the server-assigned OrderId and a short human message.
type OrderAckFrame struct {
	Header        Header
	ClientOrderId uint64
	OrderId       uint64
	Status        uint32
	Message       [128]byte
}

const orderAckBodySize = 8 + 8 + 4 + 128

// NewOrderAckFrame builds an ORDER_ACK frame.
func NewOrderAckFrame(clientOrderId, orderId uint64, status engine.OrderStatus, message string) *OrderAckFrame {
	f := &OrderAckFrame{
		Header:        Header{Type: OrderAck, Length: HeaderSize + orderAckBodySize},
		ClientOrderId: clientOrderId,
		OrderId:       orderId,
		Status:        encodeStatus(status),
	}
	putString(f.Message[:], message)
	return f
}

// GetMessage returns the null-terminated message field as a string.
func (f *OrderAckFrame) GetMessage() string { return getString(f.Message[:]) }

// DecodeStatus returns the frame's status as an engine.OrderStatus.
func (f *OrderAckFrame) DecodeStatus() (engine.OrderStatus, error) { return decodeStatus(f.Status) }

// OrderRejectFrame rejects a request the server could not act on (malformed
// fields, unknown order id, ...).
type OrderRejectFrame struct {
	Header        Header
	ClientOrderId uint64
	Reason        [256]byte
}

const orderRejectBodySize = 8 + 256

// NewOrderRejectFrame builds an ORDER_REJECT frame.
func NewOrderRejectFrame(clientOrderId uint64, reason string) *OrderRejectFrame {
	f := &OrderRejectFrame{
		Header:        Header{Type: OrderReject, Length: HeaderSize + orderRejectBodySize},
		ClientOrderId: clientOrderId,
	}
	putString(f.Reason[:], reason)
	return f
}

// GetReason returns the null-terminated reason field as a string.
func (f *OrderRejectFrame) GetReason() string { return getString(f.Reason[:]) }

// ExecutionReportFrame notifies a client that one of its orders traded (or
// changed status as a result of a trade).
type ExecutionReportFrame struct {
	Header            Header
	OrderId           uint64
	Symbol            [16]byte
	Side              uint32
	ExecutionPrice    int64
	ExecutionQuantity uint64
	RemainingQuantity uint64
	Status            uint32
	TradeId           uint64
}

const executionReportBodySize = 8 + 16 + 4 + 8 + 8 + 8 + 4 + 8

// NewExecutionReportFrame builds an EXECUTION_REPORT frame.
func NewExecutionReportFrame(orderId uint64, symbol string, side engine.Side, execPrice engine.Price, execQty, remainingQty engine.Quantity, status engine.OrderStatus, tradeId uint64) *ExecutionReportFrame {
	f := &ExecutionReportFrame{
		Header:            Header{Type: ExecutionReport, Length: HeaderSize + executionReportBodySize},
		OrderId:           orderId,
		Side:              encodeSide(side),
		ExecutionPrice:    int64(execPrice),
		ExecutionQuantity: uint64(execQty),
		RemainingQuantity: uint64(remainingQty),
		Status:            encodeStatus(status),
		TradeId:           tradeId,
	}
	putString(f.Symbol[:], symbol)
	return f
}

// GetSymbol returns the null-terminated symbol field as a string.
func (f *ExecutionReportFrame) GetSymbol() string { return getString(f.Symbol[:]) }

// DecodeSide returns the frame's side as an engine.Side.
func (f *ExecutionReportFrame) DecodeSide() (engine.Side, error) { return decodeSide(f.Side) }

// DecodeStatus returns the frame's status as an engine.OrderStatus.
func (f *ExecutionReportFrame) DecodeStatus() (engine.OrderStatus, error) {
	return decodeStatus(f.Status)
}

// MarketDataFrame carries a top-of-book snapshot for one symbol.
type MarketDataFrame struct {
	Header      Header
	Symbol      [16]byte
	BestBid     int64
	BestAsk     int64
	BidQuantity uint64
	AskQuantity uint64
}

const marketDataBodySize = 16 + 8 + 8 + 8 + 8

// NewMarketDataFrame builds a MARKET_DATA frame.
func NewMarketDataFrame(symbol string, bestBid, bestAsk engine.Price, bidQty, askQty engine.Quantity) *MarketDataFrame {
	f := &MarketDataFrame{
		Header:      Header{Type: MarketData, Length: HeaderSize + marketDataBodySize},
		BestBid:     int64(bestBid),
		BestAsk:     int64(bestAsk),
		BidQuantity: uint64(bidQty),
		AskQuantity: uint64(askQty),
	}
	putString(f.Symbol[:], symbol)
	return f
}

// GetSymbol returns the null-terminated symbol field as a string.
func (f *MarketDataFrame) GetSymbol() string { return getString(f.Symbol[:]) }

// HeartbeatFrame is echoed unchanged by the server.
type HeartbeatFrame struct {
	Header         Header
	SequenceNumber uint64
}

const heartbeatBodySize = 8

// NewHeartbeatFrame builds a HEARTBEAT frame.
func NewHeartbeatFrame(seq uint64) *HeartbeatFrame {
	return &HeartbeatFrame{
		Header:         Header{Type: Heartbeat, Length: HeaderSize + heartbeatBodySize},
		SequenceNumber: seq,
	}
}
