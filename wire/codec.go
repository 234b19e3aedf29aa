package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// byteOrder is pinned to little-endian for every frame on the wire. The
// original C++ implementation serialized structs with whatever byte order
// the host CPU used, a documented portability gap (spec.md §6); this
// implementation closes it by fixing one order explicitly instead of
// carrying the ambiguity forward (see SPEC_FULL.md's Redesign Flags).
var byteOrder = binary.LittleEndian

// Encode writes frame to w using the fixed little-endian wire layout. frame
// must be one of the *Frame types declared in protocol.go.
func Encode(w io.Writer, frame interface{}) error {
	switch f := frame.(type) {
	case *NewOrderFrame, *CancelOrderFrame, *ModifyOrderFrame, *OrderAckFrame,
		*OrderRejectFrame, *ExecutionReportFrame, *MarketDataFrame, *HeartbeatFrame:
		return binary.Write(w, byteOrder, f)
	default:
		return fmt.Errorf("wire: unknown frame type %T", f)
	}
}

// newOrderBody, cancelOrderBody, ... mirror each *Frame type's fields minus
// Header: Header is decoded separately by ReadFrame (to learn the type
// before the rest of the body can be dispatched), so the remaining bytes are
// read into one of these bodies and then copied across.
type newOrderBody struct {
	ClientOrderId uint64
	Symbol        [16]byte
	Side          uint32
	OrderType     uint32
	Price         int64
	Quantity      uint64
	StopPrice     int64
	ClientId      [32]byte
}

type cancelOrderBody struct {
	OrderId  uint64
	ClientId [32]byte
}

type modifyOrderBody struct {
	OrderId     uint64
	NewPrice    int64
	NewQuantity uint64
	ClientId    [32]byte
}

type orderAckBody struct {
	ClientOrderId uint64
	OrderId       uint64
	Status        uint32
	Message       [128]byte
}

type orderRejectBody struct {
	ClientOrderId uint64
	Reason        [256]byte
}

type executionReportBody struct {
	OrderId           uint64
	Symbol            [16]byte
	Side              uint32
	ExecutionPrice    int64
	ExecutionQuantity uint64
	RemainingQuantity uint64
	Status            uint32
	TradeId           uint64
}

type marketDataBody struct {
	Symbol      [16]byte
	BestBid     int64
	BestAsk     int64
	BidQuantity uint64
	AskQuantity uint64
}

type heartbeatBody struct {
	SequenceNumber uint64
}

// ReadFrame reads one frame from r: first the 16-byte Header to learn the
// type, then the remaining declared bytes for that type, then returns the
// fully decoded frame as one of the *Frame types. A short read or an
// unrecognized MessageType is returned as an error; callers treat this as
// WireMalformed and close the connection (spec.md §7).
func ReadFrame(r io.Reader) (interface{}, error) {
	var hdr Header
	if err := binary.Read(r, byteOrder, &hdr); err != nil {
		return nil, fmt.Errorf("wire: read header: %w", err)
	}

	switch hdr.Type {
	case NewOrder:
		var b newOrderBody
		if err := binary.Read(r, byteOrder, &b); err != nil {
			return nil, fmt.Errorf("wire: read NEW_ORDER body: %w", err)
		}
		return &NewOrderFrame{hdr, b.ClientOrderId, b.Symbol, b.Side, b.OrderType, b.Price, b.Quantity, b.StopPrice, b.ClientId}, nil
	case CancelOrder:
		var b cancelOrderBody
		if err := binary.Read(r, byteOrder, &b); err != nil {
			return nil, fmt.Errorf("wire: read CANCEL_ORDER body: %w", err)
		}
		return &CancelOrderFrame{hdr, b.OrderId, b.ClientId}, nil
	case ModifyOrder:
		var b modifyOrderBody
		if err := binary.Read(r, byteOrder, &b); err != nil {
			return nil, fmt.Errorf("wire: read MODIFY_ORDER body: %w", err)
		}
		return &ModifyOrderFrame{hdr, b.OrderId, b.NewPrice, b.NewQuantity, b.ClientId}, nil
	case OrderAck:
		var b orderAckBody
		if err := binary.Read(r, byteOrder, &b); err != nil {
			return nil, fmt.Errorf("wire: read ORDER_ACK body: %w", err)
		}
		return &OrderAckFrame{hdr, b.ClientOrderId, b.OrderId, b.Status, b.Message}, nil
	case OrderReject:
		var b orderRejectBody
		if err := binary.Read(r, byteOrder, &b); err != nil {
			return nil, fmt.Errorf("wire: read ORDER_REJECT body: %w", err)
		}
		return &OrderRejectFrame{hdr, b.ClientOrderId, b.Reason}, nil
	case ExecutionReport:
		var b executionReportBody
		if err := binary.Read(r, byteOrder, &b); err != nil {
			return nil, fmt.Errorf("wire: read EXECUTION_REPORT body: %w", err)
		}
		return &ExecutionReportFrame{hdr, b.OrderId, b.Symbol, b.Side, b.ExecutionPrice, b.ExecutionQuantity, b.RemainingQuantity, b.Status, b.TradeId}, nil
	case MarketData:
		var b marketDataBody
		if err := binary.Read(r, byteOrder, &b); err != nil {
			return nil, fmt.Errorf("wire: read MARKET_DATA body: %w", err)
		}
		return &MarketDataFrame{hdr, b.Symbol, b.BestBid, b.BestAsk, b.BidQuantity, b.AskQuantity}, nil
	case Heartbeat:
		var b heartbeatBody
		if err := binary.Read(r, byteOrder, &b); err != nil {
			return nil, fmt.Errorf("wire: read HEARTBEAT body: %w", err)
		}
		return &HeartbeatFrame{hdr, b.SequenceNumber}, nil
	default:
		return nil, fmt.Errorf("wire: unknown message type %d", uint32(hdr.Type))
	}
}
