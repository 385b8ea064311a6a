package idgen

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// MarketEntryIDContext generates "<seed>:<n>" identifiers where seed is
// the Unix-seconds timestamp at context construction (or at the last
// reroll) and n increments from 1, wrapping and re-rolling the seed on
// overflow (spec section 4.4).
type MarketEntryIDContext struct {
	mu      sync.Mutex
	clock   func() time.Time
	seed    int64
	counter uint64
}

// NewMarketEntryIDContext returns a context seeded from clock() at
// construction time.
func NewMarketEntryIDContext(clock func() time.Time) *MarketEntryIDContext {
	if clock == nil {
		clock = time.Now
	}
	return &MarketEntryIDContext{clock: clock, seed: clock().Unix()}
}

// Next returns the next market entry id.
func (c *MarketEntryIDContext) Next() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.counter == math.MaxUint64 {
		c.seed = c.clock().Unix()
		c.counter = 0
	}
	c.counter++
	return fmt.Sprintf("%d:%d", c.seed, c.counter)
}
