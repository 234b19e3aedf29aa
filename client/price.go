package client

import (
	"fmt"
	"strconv"

	"limitless/engine"
)

// ParsePrice converts a human decimal price string (e.g. "150.25") into the
// fixed-point engine.Price representation (human price * 10000), the Go
// equivalent of original_source/include/Common.h's doubleToPrice.
func ParsePrice(s string) (engine.Price, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("client: invalid price %q: %w", s, err)
	}
	return engine.Price(f * 10000), nil
}
