// Package monitor is the full system's observability layer: an HTTP +
// WebSocket surface that carries data the core already computes out to
// dashboards. It participates in none of the invariants in spec.md §8 and
// never feeds back into Engine.SubmitOrder's return value or timing (see
// SPEC_FULL.md property 10).
package monitor

import (
	"log"
	"net/http"
	"time"

	"limitless/engine"
)

// bookView is the JSON shape streamed to dashboards and returned by
// GET /book/{symbol}.
type bookView struct {
	Symbol    string         `json:"symbol"`
	BestBid   int64          `json:"bestBid"`
	BestAsk   int64          `json:"bestAsk"`
	BidDepth  []priceQtyJSON `json:"bidDepth"`
	AskDepth  []priceQtyJSON `json:"askDepth"`
	Timestamp time.Time      `json:"timestamp"`
}

type priceQtyJSON struct {
	Price    int64  `json:"price"`
	Quantity uint64 `json:"quantity"`
}

type tradeView struct {
	BuyOrderId  uint64    `json:"buyOrderId"`
	SellOrderId uint64    `json:"sellOrderId"`
	Symbol      string    `json:"symbol"`
	Price       int64     `json:"price"`
	Quantity    uint64    `json:"quantity"`
	Timestamp   time.Time `json:"timestamp"`
}

const depthLevels = 10

// Server exposes an *engine.Engine over HTTP and WebSocket for dashboards.
type Server struct {
	eng *engine.Engine

	tradeHub *hub[tradeView]
	bookHub  *hub[bookView]

	httpServer *http.Server
}

// New wires a monitoring Server to eng: it subscribes to every order/trade
// event so the HTTP routes and WebSocket streams have something to serve,
// and updates Prometheus collectors as a side effect of each event.
func New(eng *engine.Engine) *Server {
	s := &Server{
		eng:      eng,
		tradeHub: newHub[tradeView]("trades"),
		bookHub:  newHub[bookView]("book"),
	}

	eng.OnOrder(s.onOrder)
	eng.OnTrade(s.onTrade)
	eng.OnMatchDuration(s.onMatchDuration)

	return s
}

func (s *Server) onMatchDuration(d time.Duration) {
	matchLatencySeconds.Observe(d.Seconds())
}

func (s *Server) onOrder(o *engine.Order) {
	ordersSubmittedTotal.WithLabelValues(o.Symbol, o.Side.String(), o.Type.String()).Inc()
	s.publishBookView(o.Symbol)
}

func (s *Server) onTrade(t engine.Trade) {
	tradesTotal.WithLabelValues(t.Symbol).Inc()
	s.tradeHub.Broadcast(tradeView{
		BuyOrderId:  uint64(t.BuyOrderId),
		SellOrderId: uint64(t.SellOrderId),
		Symbol:      t.Symbol,
		Price:       int64(t.Price),
		Quantity:    uint64(t.Quantity),
		Timestamp:   t.Timestamp,
	})
	s.publishBookView(t.Symbol)
}

func (s *Server) publishBookView(symbol string) {
	view := s.snapshot(symbol)

	if len(view.BidDepth) > 0 {
		orderBookDepth.WithLabelValues(symbol, "buy").Set(float64(view.BidDepth[0].Quantity))
	} else {
		orderBookDepth.WithLabelValues(symbol, "buy").Set(0)
	}
	if len(view.AskDepth) > 0 {
		orderBookDepth.WithLabelValues(symbol, "sell").Set(float64(view.AskDepth[0].Quantity))
	} else {
		orderBookDepth.WithLabelValues(symbol, "sell").Set(0)
	}

	s.bookHub.Broadcast(view)
}

func (s *Server) snapshot(symbol string) bookView {
	bidDepth := s.eng.GetBidDepth(symbol, depthLevels)
	askDepth := s.eng.GetAskDepth(symbol, depthLevels)

	view := bookView{
		Symbol:    symbol,
		BestBid:   int64(s.eng.GetBestBid(symbol)),
		BestAsk:   int64(s.eng.GetBestAsk(symbol)),
		BidDepth:  make([]priceQtyJSON, len(bidDepth)),
		AskDepth:  make([]priceQtyJSON, len(askDepth)),
		Timestamp: time.Now(),
	}
	for i, pq := range bidDepth {
		view.BidDepth[i] = priceQtyJSON{Price: int64(pq.Price), Quantity: uint64(pq.Quantity)}
	}
	for i, pq := range askDepth {
		view.AskDepth[i] = priceQtyJSON{Price: int64(pq.Price), Quantity: uint64(pq.Quantity)}
	}
	return view
}

// ListenAndServe binds addr and serves the monitoring HTTP/WebSocket routes
// until Close is called.
func (s *Server) ListenAndServe(addr string) error {
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.routes(),
	}
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Close shuts the HTTP server down, closing idle and active connections.
func (s *Server) Close() error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Close()
}

func logf(format string, args ...interface{}) {
	log.Printf("[monitor] "+format, args...)
}
