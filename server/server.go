// Package server hosts an Engine over the length-prefixed binary wire
// protocol defined in package wire: a TCP accept loop handing each
// connection to its own goroutine, matching the accept-loop-plus-
// per-connection-goroutine idiom the rest of the corpus uses one layer up
// (net/http's own loop). Grounded on original_source/src/Server.cpp for the
// per-message handling shape.
package server

import (
	"log"
	"net"
	"sync"
	"sync/atomic"

	"limitless/engine"
	"limitless/wire"
)

// Server accepts TCP connections and dispatches wire frames against eng.
type Server struct {
	eng *engine.Engine

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}

	activeConnections atomic.Int64

	Logger *log.Logger
}

// New creates a Server hosting eng. If logger is nil, log.Default() is used.
func New(eng *engine.Engine, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		eng:    eng,
		conns:  make(map[net.Conn]struct{}),
		Logger: logger,
	}
}

// ListenAndServe binds addr and runs the accept loop until Close is called,
// at which point the pending Accept returns an error and ListenAndServe
// returns nil.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.Logger.Printf("server listening on %s", addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			closing := s.listener == nil
			s.mu.Unlock()
			if closing {
				return nil
			}
			return err
		}

		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()
		s.activeConnections.Add(1)
		s.Logger.Printf("client connected, active connections: %d", s.activeConnections.Load())

		go s.handleConn(conn)
	}
}

// Close stops the accept loop and closes every live connection at once; it
// does not wait for requests already in flight to finish. Safe to call once;
// cmd/server/main.go calls it on SIGINT/SIGTERM.
func (s *Server) Close() error {
	s.mu.Lock()
	ln := s.listener
	s.listener = nil
	conns := make([]net.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	var err error
	if ln != nil {
		err = ln.Close()
	}
	for _, c := range conns {
		_ = c.Close()
	}
	return err
}

// ActiveConnections returns the current number of open client connections.
func (s *Server) ActiveConnections() int64 { return s.activeConnections.Load() }

func (s *Server) removeConn(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	s.activeConnections.Add(-1)
	_ = conn.Close()
	s.Logger.Printf("client disconnected, active connections: %d", s.activeConnections.Load())
}

// handleConn reads frames from conn until a WireMalformed decode error or a
// SocketIO write error terminates the loop (spec.md §7), dispatching each
// recognized frame type to its handler.
func (s *Server) handleConn(conn net.Conn) {
	defer s.removeConn(conn)

	for {
		frame, err := wire.ReadFrame(conn)
		if err != nil {
			// Short read or unknown MessageType: WireMalformed, close the
			// connection per spec.md §7.
			return
		}

		switch f := frame.(type) {
		case *wire.NewOrderFrame:
			if !s.handleNewOrder(conn, f) {
				return
			}
		case *wire.CancelOrderFrame:
			if !s.handleCancelOrder(conn, f) {
				return
			}
		case *wire.ModifyOrderFrame:
			if !s.handleModifyOrder(conn, f) {
				return
			}
		case *wire.HeartbeatFrame:
			if !s.send(conn, f) {
				return
			}
		default:
			return
		}
	}
}

// send writes frame to conn, returning false on a SocketIO error (spec.md
// §7) so the caller can terminate the connection's receive loop.
func (s *Server) send(conn net.Conn, frame interface{}) bool {
	if err := wire.Encode(conn, frame); err != nil {
		return false
	}
	return true
}

func (s *Server) handleNewOrder(conn net.Conn, msg *wire.NewOrderFrame) bool {
	symbol := msg.GetSymbol()
	clientId := msg.GetClientId()

	side, err := msg.DecodeSide()
	if err != nil {
		return s.send(conn, wire.NewOrderRejectFrame(msg.ClientOrderId, err.Error()))
	}
	typ, err := msg.DecodeOrderType()
	if err != nil {
		return s.send(conn, wire.NewOrderRejectFrame(msg.ClientOrderId, err.Error()))
	}

	orderId := s.eng.SubmitOrder(symbol, side, typ, engine.Price(msg.Price), engine.Quantity(msg.Quantity), clientId, engine.Price(msg.StopPrice))

	ack := wire.NewOrderAckFrame(msg.ClientOrderId, uint64(orderId), engine.Pending, "order accepted")
	if !s.send(conn, ack) {
		return false
	}

	// Mirrors original_source/src/Server.cpp's handleNewOrder: only the
	// submitting connection is told about the outcome, and only if the
	// order is still resolvable via Engine.GetOrder, which returns nil
	// once an order fully fills and leaves its book (the documented
	// orderIndex-lifetime gap carried from the distilled spec).
	if o := s.eng.GetOrder(orderId); o != nil && o.Status != engine.Pending {
		exec := wire.NewExecutionReportFrame(uint64(orderId), o.Symbol, o.Side, engine.Price(o.Price), o.Filled(), o.RemainingQuantity, o.Status, 0)
		if !s.send(conn, exec) {
			return false
		}
	}
	return true
}

func (s *Server) handleCancelOrder(conn net.Conn, msg *wire.CancelOrderFrame) bool {
	ok := s.eng.CancelOrder(engine.OrderId(msg.OrderId))

	var ack *wire.OrderAckFrame
	if ok {
		ack = wire.NewOrderAckFrame(0, msg.OrderId, engine.Cancelled, "order cancelled")
	} else {
		ack = wire.NewOrderAckFrame(0, msg.OrderId, engine.Rejected, "order not found")
	}
	return s.send(conn, ack)
}

func (s *Server) handleModifyOrder(conn net.Conn, msg *wire.ModifyOrderFrame) bool {
	ok := s.eng.ModifyOrder(engine.OrderId(msg.OrderId), engine.Price(msg.NewPrice), engine.Quantity(msg.NewQuantity))

	var ack *wire.OrderAckFrame
	if ok {
		ack = wire.NewOrderAckFrame(0, msg.OrderId, engine.Pending, "order modified")
	} else {
		ack = wire.NewOrderAckFrame(0, msg.OrderId, engine.Rejected, "failed to modify order")
	}
	return s.send(conn, ack)
}
