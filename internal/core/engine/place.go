package engine

import (
	"github.com/abdoElHodaky/tradSys/internal/core/protocol"
	"github.com/abdoElHodaky/tradSys/internal/core/types"
	"github.com/abdoElHodaky/tradSys/internal/core/validation"
)

// Place implements spec section 4.2.1.
func (e *Engine) Place(req *protocol.OrderPlacementRequest) []protocol.Reply {
	venueID := e.orderIDs.Next()

	if !e.acceptingPlacement() {
		return []protocol.Reply{e.rejectPlacement(req, venueID, validation.TradingNotAccepting)}
	}

	if err, fails := validation.ValidatePlacement(req, e.instrument, e.clock()); fails {
		return []protocol.Reply{e.rejectPlacement(req, venueID, err)}
	}

	tif := types.TimeInForceDay
	if req.TimeInForce != nil {
		tif = *req.TimeInForce
	}

	if e.phase.IsAuction() && (req.OrderType == types.OrderTypeMarket || tif == types.TimeInForceIOC || tif == types.TimeInForceFOK) {
		// Auction collection only accepts resting Limit orders; a venue
		// with no liquidity to imply a Market price, or an
		// immediate-or-cancel intent, makes no sense against a book
		// that will not match until the uncrossing (spec section 4.2.5).
		return []protocol.Reply{e.rejectPlacement(req, venueID, validation.TradingNotAccepting)}
	}

	if req.OrderType == types.OrderTypeMarket && e.book.OppositeSideFor(req.Side).Len() == 0 {
		// Open question resolution (spec section 4.2.1 step 3's "implicit
		// price equal to best opposite top, or if no liquidity exists"):
		// IOC/FOK never rested in the first place, so they cancel
		// immediately; Day/GTD/GTC cannot imply a price at all, so they
		// are rejected outright rather than resting at an undefined price.
		if tif == types.TimeInForceIOC || tif == types.TimeInForceFOK {
			return []protocol.Reply{e.cancelNeverRested(req, venueID)}
		}
		return []protocol.Reply{e.rejectPlacement(req, venueID, validation.MarketOrderNoLiquidity)}
	}

	order := e.buildOrder(req, venueID, tif)

	if e.phase.IsAuction() {
		order.ArrivalSeq = e.book.NextSequence()
		e.book.SideFor(order.Side).Insert(order)
		e.index(order)
		replies := []protocol.Reply{e.confirmPlacement(order)}
		e.publishTopOfBook()
		return replies
	}

	if tif == types.TimeInForceFOK {
		opposite := e.book.OppositeSideFor(order.Side)
		if availableOppositeLiquidity(order, opposite) < order.RemainingQuantity() {
			return []protocol.Reply{e.rejectPlacementFOK(req, venueID)}
		}
	}

	// The confirmation precedes any trade executions from the same
	// request (spec section 4.2.1 step 6).
	replies := []protocol.Reply{e.confirmPlacement(order)}
	replies = append(replies, e.match(order)...)

	switch remainder := order.RemainingQuantity(); {
	case remainder <= 0:
		// Fully filled; never indexed, nothing further to do.

	case tif == types.TimeInForceIOC:
		order.Status = types.OrderStatusCancelled
		replies = append(replies, e.cancelConfirmation(order, "IOC remainder cancelled"))

	case tif == types.TimeInForceFOK:
		// Unreachable in practice: the pre-check above guarantees enough
		// opposite depth to fully fill. Guarded defensively rather than
		// assumed, since the pre-check and the match loop are two
		// independent passes over the book.
		order.Status = types.OrderStatusCancelled
		replies = append(replies, e.cancelConfirmation(order, "fill-or-kill could not be completed"))

	case order.Type == types.OrderTypeMarket:
		order.Status = types.OrderStatusCancelled
		replies = append(replies, e.cancelConfirmation(order, "market order remainder cancelled"))

	default:
		order.ArrivalSeq = e.book.NextSequence()
		e.book.SideFor(order.Side).Insert(order)
		e.index(order)
	}

	e.publishTopOfBook()
	return replies
}

func (e *Engine) buildOrder(req *protocol.OrderPlacementRequest, venueID types.VenueOrderID, tif types.TimeInForce) *types.LimitOrder {
	var price float64
	var hasPrice bool
	if req.OrderType == types.OrderTypeLimit {
		price = *req.Price
		hasPrice = true
	}
	return &types.LimitOrder{
		VenueOrderID:     venueID,
		ClientOrderID:    req.ClientOrderID,
		Instrument:       req.Instrument,
		Session:          req.Session,
		Side:             req.Side,
		Type:             req.OrderType,
		Price:            price,
		HasPrice:         hasPrice,
		OriginalQuantity: *req.Quantity,
		TimeInForce:      tif,
		ExpireTime:       req.ExpireTime,
		ExpireDate:       req.ExpireDate,
		Parties:          req.Parties,
		Status:           types.OrderStatusNew,
		CreatedDate:      e.clock(),
	}
}

func (e *Engine) confirmPlacement(order *types.LimitOrder) protocol.Reply {
	var price *float64
	if order.HasPrice {
		p := order.Price
		price = &p
	}
	return protocol.OrderPlacementConfirmation{
		Session:       order.Session,
		Instrument:    order.Instrument,
		ClientOrderID: order.ClientOrderID,
		VenueOrderID:  order.VenueOrderID,
		ExecutionID:   e.nextExecID(order.VenueOrderID),
		ExecType:      types.ExecTypeOrderPlaced,
		OrderStatus:   types.OrderStatusNew,
		Side:          order.Side,
		OrderType:     order.Type,
		Price:         price,
		Quantity:      order.OriginalQuantity,
		CumQuantity:   order.CumExecutedQty,
		TimeInForce:   order.TimeInForce,
		Parties:       order.Parties,
	}
}

func (e *Engine) rejectPlacement(req *protocol.OrderPlacementRequest, venueID types.VenueOrderID, reason validation.Error) protocol.Reply {
	e.metrics.RecordReject("OrderPlacementRequest", reason.Error())
	return protocol.OrderPlacementReject{
		Session:       req.Session,
		Instrument:    req.Instrument,
		ClientOrderID: req.ClientOrderID,
		VenueOrderID:  venueID,
		ExecutionID:   e.nextExecID(venueID),
		Side:          req.Side,
		Price:         req.Price,
		Quantity:      req.Quantity,
		ExpireTime:    req.ExpireTime,
		ExpireDate:    req.ExpireDate,
		Parties:       req.Parties,
		RejectText:    reason.Error(),
	}
}

func (e *Engine) rejectPlacementFOK(req *protocol.OrderPlacementRequest, venueID types.VenueOrderID) protocol.Reply {
	e.metrics.RecordReject("OrderPlacementRequest", "fill-or-kill")
	return protocol.OrderPlacementReject{
		Session:       req.Session,
		Instrument:    req.Instrument,
		ClientOrderID: req.ClientOrderID,
		VenueOrderID:  venueID,
		ExecutionID:   e.nextExecID(venueID),
		Side:          req.Side,
		Price:         req.Price,
		Quantity:      req.Quantity,
		Parties:       req.Parties,
		RejectText:    "fill-or-kill: insufficient opposite liquidity",
	}
}

// cancelNeverRested handles the Market-with-empty-book IOC/FOK case: the
// order never occupied the book even momentarily, so spec section
// 4.2.1's "(or OrderPlacementConfirmation with Cancelled if never placed
// in book)" alternative applies instead of a separate cancellation
// message.
func (e *Engine) cancelNeverRested(req *protocol.OrderPlacementRequest, venueID types.VenueOrderID) protocol.Reply {
	tif := types.TimeInForceDay
	if req.TimeInForce != nil {
		tif = *req.TimeInForce
	}
	return protocol.OrderPlacementConfirmation{
		Session:       req.Session,
		Instrument:    req.Instrument,
		ClientOrderID: req.ClientOrderID,
		VenueOrderID:  venueID,
		ExecutionID:   e.nextExecID(venueID),
		ExecType:      types.ExecTypeCancelled,
		OrderStatus:   types.OrderStatusCancelled,
		Side:          req.Side,
		OrderType:     req.OrderType,
		Quantity:      *req.Quantity,
		TimeInForce:   tif,
		Parties:       req.Parties,
	}
}

func (e *Engine) cancelConfirmation(order *types.LimitOrder, reason string) protocol.Reply {
	return protocol.OrderCancellationConfirmation{
		Session:       order.Session,
		Instrument:    order.Instrument,
		ClientOrderID: order.ClientOrderID,
		VenueOrderID:  order.VenueOrderID,
		ExecutionID:   e.nextExecID(order.VenueOrderID),
		ExecType:      types.ExecTypeCancelled,
		OrderStatus:   types.OrderStatusCancelled,
		RejectText:    reason,
	}
}
