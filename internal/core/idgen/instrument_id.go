package idgen

import (
	"math"
	"sync"

	"github.com/abdoElHodaky/tradSys/internal/core/types"
)

// InstrumentIDContext generates a strictly increasing InstrumentId
// sequence starting from 1 (spec section 4.4).
type InstrumentIDContext struct {
	mu      sync.Mutex
	counter uint64
}

// NewInstrumentIDContext returns a context with its counter at zero, so
// the first Next() call yields InstrumentID(1).
func NewInstrumentIDContext() *InstrumentIDContext {
	return &InstrumentIDContext{}
}

// Next returns the next InstrumentId. Once the counter reaches
// math.MaxUint64 it cannot advance further and every subsequent call
// returns ErrCollisionDetected (spec section 4.4).
func (c *InstrumentIDContext) Next() (types.InstrumentID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.counter == math.MaxUint64 {
		return 0, ErrCollisionDetected
	}
	c.counter++
	return types.InstrumentID(c.counter), nil
}

// Reset returns the context to its initial state, so the next Next()
// call again yields InstrumentID(1) (spec section 4.4: "reset() returns
// to 1").
func (c *InstrumentIDContext) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counter = 0
}

// Current returns the most recently issued id, or 0 if none has been
// issued yet.
func (c *InstrumentIDContext) Current() types.InstrumentID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return types.InstrumentID(c.counter)
}
