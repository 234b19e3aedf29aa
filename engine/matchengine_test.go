package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEngineSubmitOrderAssignsMonotonicIds(t *testing.T) {
	eng := NewEngine()

	id1 := eng.SubmitOrder("AAPL", Buy, Limit, 1000, 10, "alice", 0)
	id2 := eng.SubmitOrder("AAPL", Sell, Limit, 1010, 10, "bob", 0)

	require.NotEqual(t, id1, id2)
	require.Greater(t, uint64(id2), uint64(id1))
}

func TestEngineRoutesOrdersBySymbolIndependently(t *testing.T) {
	eng := NewEngine()

	eng.SubmitOrder("AAPL", Sell, Limit, 1000, 5, "alice", 0)
	eng.SubmitOrder("MSFT", Sell, Limit, 2000, 5, "bob", 0)

	require.Equal(t, Price(1000), eng.GetBestAsk("AAPL"))
	require.Equal(t, Price(2000), eng.GetBestAsk("MSFT"))
	require.Len(t, eng.Symbols(), 2)
}

func TestEngineSubmitOrderFiresTradeCallback(t *testing.T) {
	eng := NewEngine()

	var trades []Trade
	eng.OnTrade(func(tr Trade) { trades = append(trades, tr) })

	eng.SubmitOrder("AAPL", Sell, Limit, 1000, 10, "alice", 0)
	eng.SubmitOrder("AAPL", Buy, Limit, 1000, 4, "bob", 0)

	require.Len(t, trades, 1)
	require.Equal(t, Quantity(4), trades[0].Quantity)
	require.Equal(t, Price(1000), trades[0].Price)
}

func TestEngineSubmitOrderFiresOrderCallbackTwiceOnMatch(t *testing.T) {
	eng := NewEngine()

	var statuses []OrderStatus
	eng.OnOrder(func(o *Order) { statuses = append(statuses, o.Status) })

	eng.SubmitOrder("AAPL", Sell, Limit, 1000, 10, "alice", 0)
	statuses = nil
	eng.SubmitOrder("AAPL", Buy, Limit, 1000, 10, "bob", 0)

	require.Len(t, statuses, 2, "expected a pre-match PENDING notification and a post-match notification")
	require.Equal(t, Pending, statuses[0])
	require.Equal(t, Filled, statuses[1])
}

func TestEngineCancelOrderDispatchesToOwningBook(t *testing.T) {
	eng := NewEngine()

	id := eng.SubmitOrder("AAPL", Buy, Limit, 1000, 10, "alice", 0)
	require.True(t, eng.CancelOrder(id))
	require.Nil(t, eng.GetOrder(id))
	require.False(t, eng.CancelOrder(id), "cancel should not succeed twice")
}

func TestEngineCancelOrderFiresOrderCallback(t *testing.T) {
	eng := NewEngine()

	id := eng.SubmitOrder("AAPL", Buy, Limit, 1000, 10, "alice", 0)

	var notified *Order
	eng.OnOrder(func(o *Order) { notified = o })

	require.True(t, eng.CancelOrder(id))
	require.NotNil(t, notified, "cancelling a resting order must fire the order callback")
	require.Equal(t, id, notified.OrderId)
	require.Equal(t, Cancelled, notified.Status)
}

func TestEngineModifyOrderDispatchesToOwningBook(t *testing.T) {
	eng := NewEngine()

	id := eng.SubmitOrder("AAPL", Buy, Limit, 1000, 10, "alice", 0)
	require.True(t, eng.ModifyOrder(id, 1005, 20))

	o := eng.GetOrder(id)
	require.NotNil(t, o)
	require.Equal(t, Price(1005), o.Price)
	require.Equal(t, Quantity(20), o.Quantity)
}

func TestEngineModifyOrderUnknownIdFails(t *testing.T) {
	eng := NewEngine()
	require.False(t, eng.ModifyOrder(999, 1000, 10))
}

func TestEngineStatsReflectsActivity(t *testing.T) {
	eng := NewEngine()

	eng.SubmitOrder("AAPL", Sell, Limit, 1000, 10, "alice", 0)
	eng.SubmitOrder("AAPL", Buy, Limit, 1000, 4, "bob", 0)
	eng.SubmitOrder("MSFT", Buy, Limit, 2000, 1, "carol", 0)

	stats := eng.Stats()
	require.Equal(t, uint64(3), stats.TotalOrders)
	require.Equal(t, uint64(1), stats.TotalTrades)
	require.Equal(t, 2, stats.BookCount)
}

func TestEngineGetBidAskDepthForUnknownSymbolIsEmpty(t *testing.T) {
	eng := NewEngine()
	require.Nil(t, eng.GetBidDepth("GOOG", 5))
	require.Nil(t, eng.GetAskDepth("GOOG", 5))
	require.Equal(t, Price(0), eng.GetBestBid("GOOG"))
}
