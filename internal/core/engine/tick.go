package engine

import (
	"time"

	"github.com/abdoElHodaky/tradSys/internal/core/protocol"
	"github.com/abdoElHodaky/tradSys/internal/core/types"
)

// Tick implements spec section 4.2.4: walk every resting, time-sensitive
// order and cancel whichever has expired as of now.
func (e *Engine) Tick(now time.Time) []protocol.Reply {
	var replies []protocol.Reply
	for _, order := range e.expiredOrders(now) {
		e.removeFromBook(order)
		order.Status = types.OrderStatusCancelled
		replies = append(replies, protocol.OrderCancellationConfirmation{
			Session:       order.Session,
			Instrument:    order.Instrument,
			ClientOrderID: order.ClientOrderID,
			VenueOrderID:  order.VenueOrderID,
			ExecutionID:   e.nextExecID(order.VenueOrderID),
			ExecType:      types.ExecTypeCancelled,
			OrderStatus:   types.OrderStatusCancelled,
			RejectText:    "Expired",
		})
	}
	if len(replies) > 0 {
		e.publishTopOfBook()
	}
	return replies
}

func (e *Engine) expiredOrders(now time.Time) []*types.LimitOrder {
	var expired []*types.LimitOrder
	for _, order := range e.book.Bid.Snapshot() {
		if hasExpired(order, now) {
			expired = append(expired, order)
		}
	}
	for _, order := range e.book.Offer.Snapshot() {
		if hasExpired(order, now) {
			expired = append(expired, order)
		}
	}
	return expired
}

func hasExpired(order *types.LimitOrder, now time.Time) bool {
	switch order.TimeInForce {
	case types.TimeInForceGTD:
		return order.ExpireTime != nil && !order.ExpireTime.After(now)
	case types.TimeInForceDay:
		return now.After(endOfDay(order.CreatedDate))
	default:
		return false
	}
}

// endOfDay returns the last instant of created's calendar date, in
// created's own location, so a Day order expires once the venue's local
// date has advanced past its creation date (spec section 4.2.4).
func endOfDay(created time.Time) time.Time {
	y, m, d := created.Date()
	return time.Date(y, m, d, 23, 59, 59, 999999999, created.Location())
}
