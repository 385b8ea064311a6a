package idgen

import (
	"fmt"
	"sync"
	"time"

	"github.com/abdoElHodaky/tradSys/internal/core/types"
)

// OrderIDContext generates VenueOrderId values of the form
// "YYMMDDhhmmssCCCCCC": a wall-clock timestamp component derived at
// generation time, followed by a per-second counter in [0, 999999]
// (spec section 4.4). It guarantees uniqueness for up to 1,000,000
// orders generated within the same calendar second.
type OrderIDContext struct {
	mu       sync.Mutex
	clock    func() time.Time
	lastTick string // cached "YYMMDDhhmmss" component
	counter  uint64
}

// NewOrderIDContext returns a context driven by clock, which should
// normally be time.Now but is injectable for deterministic tests (spec
// section 4.1 also requires a "timezone-aware clock" for expiry checks;
// callers are expected to pass the same venue-local clock here).
func NewOrderIDContext(clock func() time.Time) *OrderIDContext {
	if clock == nil {
		clock = time.Now
	}
	return &OrderIDContext{clock: clock}
}

// Next composes and returns the next VenueOrderId. If the wall clock has
// advanced to a new second since the previous call, the counter resets
// to 0; otherwise it increments, wrapping back to 0 if it would exceed
// 999999 within the same second (spec section 4.4: "counter ... wraps
// per second").
func (c *OrderIDContext) Next() types.VenueOrderID {
	c.mu.Lock()
	defer c.mu.Unlock()

	tick := formatTimestampComponent(c.clock())
	if tick != c.lastTick {
		c.lastTick = tick
		c.counter = 0
	} else {
		c.counter++
		if c.counter > 999999 {
			c.counter = 0
		}
	}

	return types.VenueOrderID(fmt.Sprintf("%s%06d", c.lastTick, c.counter))
}

// formatTimestampComponent renders t as the "YYMMDDhhmmss" component,
// per spec section 4.4 ("time component derived from the wall clock at
// generation").
func formatTimestampComponent(t time.Time) string {
	return t.Format("060102150405")
}
