package engine

import (
	"time"

	"github.com/abdoElHodaky/tradSys/internal/core/orderbook"
	"github.com/abdoElHodaky/tradSys/internal/core/protocol"
	"github.com/abdoElHodaky/tradSys/internal/core/types"
)

// match crosses aggressor against the opposite book side in priority
// order until either aggressor is fully filled or the opposite top is no
// longer aggressable (spec section 4.2.1 step 4). It mutates the book
// directly: fully-filled resting orders are evicted, partial fills are
// re-heapified in place. The caller is responsible for TIF resolution
// of whatever quantity remains on aggressor afterward.
func (e *Engine) match(aggressor *types.LimitOrder) []protocol.Reply {
	start := time.Now()
	defer func() {
		e.metrics.ObserveMatchLatency(e.instrument.Symbol, time.Since(start))
	}()

	opposite := e.book.OppositeSideFor(aggressor.Side)
	var replies []protocol.Reply

	for aggressor.RemainingQuantity() > 0 {
		top := opposite.Top()
		if top == nil {
			break
		}
		if !opposite.Aggressable(aggressor.Side, effectivePrice(aggressor, top.Price)) {
			break
		}

		qty := min(aggressor.RemainingQuantity(), top.RemainingQuantity())
		result := e.applyFill(aggressor, top, top.Price, qty)
		replies = append(replies, result.aggressorExe, result.restingExe)

		if result.restingFully {
			opposite.Remove(top.VenueOrderID)
			e.deindex(top)
		} else {
			opposite.Fix(top.VenueOrderID)
		}
	}
	return replies
}

// effectivePrice returns the price aggressor crosses at: its own limit
// price, or (for Market orders) whatever the opposite top happens to be
// at each step (spec section 4.2.1 step 3: "Market orders are
// represented as Limit with an implicit price equal to best opposite
// top").
func effectivePrice(aggressor *types.LimitOrder, oppositeTop float64) float64 {
	if aggressor.Type == types.OrderTypeMarket {
		return oppositeTop
	}
	return aggressor.Price
}

// availableOppositeLiquidity sums the resting quantity on opposite that
// aggressor could actually cross at its limit price, for the FOK
// pre-check (spec section 4.2.1 step 5: "pre-check aggregate opposite
// depth before committing fills"). Market orders are aggressable against
// the entire opposite side by definition.
func availableOppositeLiquidity(aggressor *types.LimitOrder, opposite *orderbook.Side) float64 {
	var total float64
	for _, resting := range opposite.Snapshot() {
		if aggressor.Type == types.OrderTypeMarket {
			total += resting.RemainingQuantity()
			continue
		}
		if aggressor.IsBuySide() {
			if resting.Price <= aggressor.Price {
				total += resting.RemainingQuantity()
			}
		} else if resting.Price >= aggressor.Price {
			total += resting.RemainingQuantity()
		}
	}
	return total
}
