// Package client is a Go client for the wire protocol defined in package
// wire, grounded on original_source/include/Client.h and
// original_source/src/Client.cpp: a single TCP connection with a writer
// path driven by the caller and a reader goroutine that dispatches incoming
// frames to registered callbacks asynchronously.
package client

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"limitless/engine"
	"limitless/wire"
)

// OrderAckHandler, OrderRejectHandler, ExecutionReportHandler and
// MarketDataHandler mirror the callback setters on the original C++ Client:
// the receive goroutine invokes whichever handler is registered for the
// frame type it just decoded.
type OrderAckHandler func(*wire.OrderAckFrame)
type OrderRejectHandler func(*wire.OrderRejectFrame)
type ExecutionReportHandler func(*wire.ExecutionReportFrame)
type MarketDataHandler func(*wire.MarketDataFrame)

// Client owns one TCP connection to a matching-engine server and mints its
// own clientOrderId namespace, distinct from the server-assigned OrderId
// (spec.md §3).
type Client struct {
	conn     net.Conn
	clientId string

	nextClientOrderId atomic.Uint64

	writeMu sync.Mutex

	OnOrderAck        OrderAckHandler
	OnOrderReject     OrderRejectHandler
	OnExecutionReport ExecutionReportHandler
	OnMarketData      MarketDataHandler

	done chan struct{}
}

// Dial connects to addr and starts the receive loop. clientId is carried on
// every outgoing frame's ClientId field; pass "" to omit it.
func Dial(addr, clientId string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", addr, err)
	}
	c := &Client{
		conn:     conn,
		clientId: clientId,
		done:     make(chan struct{}),
	}
	go c.receiveLoop()
	return c, nil
}

// Close shuts down the connection and stops the receive loop.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Done returns a channel that closes when the receive loop exits, signaling
// a SocketIO error or a server-initiated disconnect (spec.md §7).
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) send(frame interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return wire.Encode(c.conn, frame)
}

// SubmitOrder frames and sends a NEW_ORDER request, returning the
// client-chosen clientOrderId the server will echo back on its ORDER_ACK.
func (c *Client) SubmitOrder(symbol string, side engine.Side, typ engine.OrderType, price engine.Price, qty engine.Quantity, stopPrice engine.Price) (uint64, error) {
	clientOrderId := c.nextClientOrderId.Add(1)
	f := wire.NewNewOrderFrame(clientOrderId, symbol, side, typ, price, qty, stopPrice, c.clientId)
	if err := c.send(f); err != nil {
		return 0, fmt.Errorf("client: submit order: %w", err)
	}
	return clientOrderId, nil
}

// CancelOrder frames and sends a CANCEL_ORDER request for a server-assigned
// OrderId (not the clientOrderId SubmitOrder returned).
func (c *Client) CancelOrder(orderId uint64) error {
	f := wire.NewCancelOrderFrame(orderId, c.clientId)
	if err := c.send(f); err != nil {
		return fmt.Errorf("client: cancel order: %w", err)
	}
	return nil
}

// ModifyOrder frames and sends a MODIFY_ORDER request.
func (c *Client) ModifyOrder(orderId uint64, newPrice engine.Price, newQuantity engine.Quantity) error {
	f := wire.NewModifyOrderFrame(orderId, newPrice, newQuantity, c.clientId)
	if err := c.send(f); err != nil {
		return fmt.Errorf("client: modify order: %w", err)
	}
	return nil
}

// Heartbeat sends a HEARTBEAT frame carrying seq; the server echoes it
// unchanged (spec.md §6).
func (c *Client) Heartbeat(seq uint64) error {
	return c.send(wire.NewHeartbeatFrame(seq))
}

// receiveLoop reads frames until a WireMalformed decode error or the
// connection closes, dispatching each to its registered handler. Handlers
// run synchronously on this goroutine, matching the original C++ client's
// single receive thread.
func (c *Client) receiveLoop() {
	defer close(c.done)
	for {
		frame, err := wire.ReadFrame(c.conn)
		if err != nil {
			return
		}
		switch f := frame.(type) {
		case *wire.OrderAckFrame:
			if c.OnOrderAck != nil {
				c.OnOrderAck(f)
			}
		case *wire.OrderRejectFrame:
			if c.OnOrderReject != nil {
				c.OnOrderReject(f)
			}
		case *wire.ExecutionReportFrame:
			if c.OnExecutionReport != nil {
				c.OnExecutionReport(f)
			}
		case *wire.MarketDataFrame:
			if c.OnMarketData != nil {
				c.OnMarketData(f)
			}
		case *wire.HeartbeatFrame:
			// Echoed heartbeats carry no handler; the caller observes
			// liveness simply by the receive loop still running.
		default:
			// Unexpected frame type for a client to receive; treat like any
			// other WireMalformed condition and close the connection.
			return
		}
	}
}
