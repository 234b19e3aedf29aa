package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors mirror the corpus's leaderboard chapter
// (tedmax100-system_design_interview_lab/ch8_leader_board's
// internal/middleware/metrics.go): promauto-registered vectors keyed by the
// dimensions an operator would actually slice dashboards on.
var (
	ordersSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_submitted_total",
			Help: "Total number of orders submitted to the engine.",
		},
		[]string{"symbol", "side", "type"},
	)

	tradesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trades_total",
			Help: "Total number of trades executed.",
		},
		[]string{"symbol"},
	)

	orderBookDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "order_book_depth",
			Help: "Aggregate resting quantity at the best price level.",
		},
		[]string{"symbol", "side"},
	)

	matchLatencySeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_latency_seconds",
			Help:    "Wall-clock time spent inside OrderBook.MatchOrder per SubmitOrder call.",
			Buckets: prometheus.DefBuckets,
		},
	)

	subscribersActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "monitor_subscribers_active",
			Help: "Number of currently connected websocket subscribers per stream.",
		},
		[]string{"stream"},
	)

	broadcastsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_broadcasts_dropped_total",
			Help: "Broadcasts dropped because a subscriber's buffered channel was full.",
		},
		[]string{"stream"},
	)
)
