package bots

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"limitless/engine"
)

// Supervisor orchestrates multiple bots with a shared client and PnL tracking.
type Supervisor struct {
	bots     []Bot
	client   *ThrottledClient
	pnl      *pnlTracker
	throttle *time.Ticker
}

// NewSupervisor builds a default swarm of bots quoting symbol on eng, and a
// throttled client shared by all of them.
func NewSupervisor(eng *engine.Engine, symbol string, tickSize engine.Price, orderInterval time.Duration) *Supervisor {
	throttle := time.NewTicker(orderInterval)
	client := NewThrottledClient(eng, symbol, tickSize, throttle.C)
	bots := []Bot{
		NewRandomBidBot(),
		NewRandomAskBot(),
		NewRandomBidBot(),
		NewRandomAskBot(),
		NewSpreadCaptureBot(),
	}
	return &Supervisor{
		bots:     bots,
		client:   client,
		pnl:      &pnlTracker{},
		throttle: throttle,
	}
}

// Start launches all bots and PnL monitoring until the context is canceled.
func (s *Supervisor) Start(ctx context.Context) {
	logTicker := time.NewTicker(2 * time.Second)
	defer logTicker.Stop()
	defer s.throttle.Stop()

	for _, bot := range s.bots {
		b := bot
		go b.Start(ctx, s.client)
	}

	go s.consumeTrades(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-logTicker.C:
			pos, cash := s.pnl.Snapshot()
			log.Printf("PNL position=%d cash=%d", pos, cash)
		}
	}
}

func (s *Supervisor) consumeTrades(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case trade, ok := <-s.client.Trades():
			if !ok {
				return
			}
			s.pnl.Record(trade, s.client)
		}
	}
}

type pnlTracker struct {
	mu       sync.Mutex
	position int64
	cash     int64
}

func (p *pnlTracker) Record(trade engine.Trade, client EngineClient) {
	p.mu.Lock()
	defer p.mu.Unlock()
	qty := int64(trade.Quantity)
	price := int64(trade.Price)
	if client.OwnsOrder(trade.BuyOrderId) {
		p.position += qty
		p.cash -= price * qty
	}
	if client.OwnsOrder(trade.SellOrderId) {
		p.position -= qty
		p.cash += price * qty
	}
}

func (p *pnlTracker) Snapshot() (int64, int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position, p.cash
}

// MultiSymbolSupervisor runs one Supervisor, with its own ThrottledClient and
// bot swarm, per symbol. The teacher's Supervisor only ever drove a single
// hard-coded book; this generalizes it to the multi-symbol Engine.
type MultiSymbolSupervisor struct {
	supervisors []*Supervisor
}

// NewMultiSymbolSupervisor builds a Supervisor for each of symbols, all
// sharing eng but each with an independent throttle and bot swarm.
func NewMultiSymbolSupervisor(eng *engine.Engine, symbols []string, tickSize engine.Price, orderInterval time.Duration) *MultiSymbolSupervisor {
	m := &MultiSymbolSupervisor{supervisors: make([]*Supervisor, 0, len(symbols))}
	for _, symbol := range symbols {
		m.supervisors = append(m.supervisors, NewSupervisor(eng, symbol, tickSize, orderInterval))
	}
	return m
}

// Start launches every symbol's Supervisor and blocks until ctx is canceled
// and all of them have stopped.
func (m *MultiSymbolSupervisor) Start(ctx context.Context) {
	var wg sync.WaitGroup
	for _, s := range m.supervisors {
		wg.Add(1)
		go func(s *Supervisor) {
			defer wg.Done()
			s.Start(ctx)
		}(s)
	}
	wg.Wait()
}

// RunExampleSupervisor demonstrates spinning up a multi-symbol supervisor
// against a fresh engine.
func RunExampleSupervisor() {
	eng := engine.NewEngine()
	sup := NewMultiSymbolSupervisor(eng, []string{"SIM"}, 1, 50*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	sup.Start(ctx)
	stats := eng.Stats()
	fmt.Printf("final stats total_orders=%d total_trades=%d\n", stats.TotalOrders, stats.TotalTrades)
}
