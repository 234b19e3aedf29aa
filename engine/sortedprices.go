package engine

import "sort"

// sortedPrices maintains a set of distinct Price keys in ascending order via
// binary-search insert/remove. Pairing this with a map[Price]*PriceLevel is
// this codebase's stand-in for the original C++ implementation's
// std::map<Price, PriceLevel, Compare>: it finds the insert/delete position
// in O(log n) (the element shift that follows is O(n) in the number of
// levels) and, unlike a heap, gives a non-destructive full ordered walk (needed by
// GetBidDepth/GetAskDepth). See DESIGN.md for why this stays on the standard
// library rather than reaching for a third-party ordered-map package.
type sortedPrices []Price

func (s sortedPrices) search(p Price) int {
	return sort.Search(len(s), func(i int) bool { return s[i] >= p })
}

// insert adds p if it is not already present, keeping ascending order.
func (s sortedPrices) insert(p Price) sortedPrices {
	i := s.search(p)
	if i < len(s) && s[i] == p {
		return s
	}
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = p
	return s
}

// remove deletes p if present, keeping ascending order.
func (s sortedPrices) remove(p Price) sortedPrices {
	i := s.search(p)
	if i >= len(s) || s[i] != p {
		return s
	}
	return append(s[:i], s[i+1:]...)
}

// ascending returns the keys lowest-first (natural order for asks).
func (s sortedPrices) ascending() []Price {
	return s
}

// descending returns the keys highest-first (natural order for bids),
// reading the underlying ascending slice back to front.
func (s sortedPrices) descending() []Price {
	out := make([]Price, len(s))
	for i, p := range s {
		out[len(s)-1-i] = p
	}
	return out
}
