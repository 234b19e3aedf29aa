package bots

import "limitless/engine"

// BookView is a minimal top-of-book snapshot, scoped to one symbol, used by
// bots to decide where to quote. This stands in for the teacher's
// engine.BookView, which summarized a single hard-coded book's best orders;
// bots now read aggregate depth off the multi-symbol Engine instead.
type BookView struct {
	BestBid    engine.Price
	BestBidQty engine.Quantity
	BestAsk    engine.Price
	BestAskQty engine.Quantity
}

func midPrice(view BookView) engine.Price {
	switch {
	case view.BestBid > 0 && view.BestAsk > 0:
		return (view.BestBid + view.BestAsk) / 2
	case view.BestBid > 0:
		return view.BestBid
	case view.BestAsk > 0:
		return view.BestAsk
	default:
		return 0
	}
}

func absPrice(p engine.Price) engine.Price {
	if p < 0 {
		return -p
	}
	return p
}
