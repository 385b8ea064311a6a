package idgen

import (
	"fmt"
	"math"
	"sync"

	"github.com/abdoElHodaky/tradSys/internal/core/types"
)

// ExecutionIDContext is bound to a single parent VenueOrderId at
// construction and generates "<parent>-<n>" identifiers with n in
// [1, 2^64-1] (spec section 4.4). Once n is exhausted the context
// becomes permanently unusable.
type ExecutionIDContext struct {
	mu        sync.Mutex
	parent    types.VenueOrderID
	counter   uint64
	exhausted bool
}

// NewExecutionIDContext binds a new context to parent.
func NewExecutionIDContext(parent types.VenueOrderID) *ExecutionIDContext {
	return &ExecutionIDContext{parent: parent}
}

// Next returns the next execution id string for this context's parent
// order, or ErrCollisionDetected once the counter space is exhausted;
// after that error is first returned the context stays unusable (spec
// section 4.4: "overflow -> CollisionDetected").
func (c *ExecutionIDContext) Next() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.exhausted {
		return "", ErrCollisionDetected
	}
	if c.counter == math.MaxUint64 {
		c.exhausted = true
		return "", ErrCollisionDetected
	}
	c.counter++
	return fmt.Sprintf("%s-%d", c.parent, c.counter), nil
}
