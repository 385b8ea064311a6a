package engine

import (
	"github.com/abdoElHodaky/tradSys/internal/core/protocol"
	"github.com/abdoElHodaky/tradSys/internal/core/types"
	"github.com/abdoElHodaky/tradSys/internal/core/validation"
)

// Modify implements spec section 4.2.2.
func (e *Engine) Modify(req *protocol.OrderModificationRequest) []protocol.Reply {
	order, ok := e.locate(req.Session, req.OrigClientOrderID, req.VenueOrderID)
	if !ok {
		return []protocol.Reply{e.modifyRejectNotFound(req)}
	}
	if !e.acceptingModify() {
		return []protocol.Reply{e.modifyRejectPolicy(req, order)}
	}
	if err, fails := validation.ValidateModification(req, e.instrument, e.clock()); fails {
		return []protocol.Reply{e.modifyRejectValidation(req, order, err)}
	}

	if changesPriority(req, order) {
		return e.modifyChangingPriority(req, order)
	}
	return []protocol.Reply{e.modifyPreservingPriority(req, order)}
}

// changesPriority reports whether req would move order's position in its
// side's priority ordering: a price change, a quantity increase, or a
// side change (spec section 4.2.2).
func changesPriority(req *protocol.OrderModificationRequest, order *types.LimitOrder) bool {
	if req.Price != nil && *req.Price != order.Price {
		return true
	}
	if req.Quantity != nil && *req.Quantity > order.OriginalQuantity {
		return true
	}
	if req.Side != nil && *req.Side != order.Side {
		return true
	}
	return false
}

// modifyPreservingPriority applies a quantity-decrease-only or
// attribute-only change in place (spec section 4.2.2).
func (e *Engine) modifyPreservingPriority(req *protocol.OrderModificationRequest, order *types.LimitOrder) protocol.Reply {
	origClientOrderID := order.ClientOrderID

	e.deindex(order)
	if req.Quantity != nil {
		order.OriginalQuantity = *req.Quantity
	}
	if req.TimeInForce != nil {
		order.TimeInForce = *req.TimeInForce
	}
	if req.ExpireTime != nil {
		order.ExpireTime = req.ExpireTime
	}
	if req.ExpireDate != nil {
		order.ExpireDate = req.ExpireDate
	}
	if req.Parties != nil {
		order.Parties = req.Parties
	}
	order.ClientOrderID = req.ClientOrderID
	order.OrigClientOrderID = origClientOrderID
	order.Status = types.OrderStatusModified
	e.index(order)

	return protocol.OrderModificationConfirmation{
		Session:           order.Session,
		Instrument:        order.Instrument,
		ClientOrderID:      order.ClientOrderID,
		OrigClientOrderID: origClientOrderID,
		VenueOrderID:      order.VenueOrderID,
		ExecutionID:       e.nextExecID(order.VenueOrderID),
		ExecType:          types.ExecTypeReplaced,
		OrderStatus:       order.Status,
		Quantity:          order.OriginalQuantity,
		CumQuantity:       order.CumExecutedQty,
		Price:             priceOrNil(order),
	}
}

// modifyChangingPriority removes order from the book and re-runs the
// Place flow with the modified attributes, assigning a fresh
// VenueOrderId (spec section 4.2.2: "remove ... assign a new
// VenueOrderId, re-run the Place flow including rematching").
func (e *Engine) modifyChangingPriority(req *protocol.OrderModificationRequest, order *types.LimitOrder) []protocol.Reply {
	e.removeFromBook(order)

	side := order.Side
	if req.Side != nil {
		side = *req.Side
	}
	price := order.Price
	if req.Price != nil {
		price = *req.Price
	}
	quantity := order.RemainingQuantity()
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	tif := order.TimeInForce
	if req.TimeInForce != nil {
		tif = *req.TimeInForce
	}
	expireTime := order.ExpireTime
	if req.ExpireTime != nil {
		expireTime = req.ExpireTime
	}
	expireDate := order.ExpireDate
	if req.ExpireDate != nil {
		expireDate = req.ExpireDate
	}
	parties := order.Parties
	if req.Parties != nil {
		parties = req.Parties
	}

	placement := &protocol.OrderPlacementRequest{
		Session:       req.Session,
		Instrument:    order.Instrument,
		ClientOrderID: req.ClientOrderID,
		Side:          side,
		OrderType:     order.Type,
		Quantity:      &quantity,
		TimeInForce:   &tif,
		ExpireTime:    expireTime,
		ExpireDate:    expireDate,
		Parties:       parties,
	}
	if order.Type == types.OrderTypeLimit {
		placement.Price = &price
	}
	return e.Place(placement)
}

func (e *Engine) modifyRejectNotFound(req *protocol.OrderModificationRequest) protocol.Reply {
	e.metrics.RecordReject("OrderModificationRequest", "unknown order")
	return protocol.OrderModificationReject{
		Session:           req.Session,
		ClientOrderID:     req.ClientOrderID,
		OrigClientOrderID: req.OrigClientOrderID,
		VenueOrderID:      derefVenueID(req.VenueOrderID),
		OrderStatus:       types.OrderStatusRejected,
		RejectText:        "unknown order",
		RejResponseTo:     "CancelReplace",
	}
}

func (e *Engine) modifyRejectPolicy(req *protocol.OrderModificationRequest, order *types.LimitOrder) protocol.Reply {
	e.metrics.RecordReject("OrderModificationRequest", "phase-not-accepting")
	return protocol.OrderModificationReject{
		Session:           req.Session,
		ClientOrderID:     req.ClientOrderID,
		OrigClientOrderID: order.ClientOrderID,
		VenueOrderID:      order.VenueOrderID,
		OrderStatus:       order.Status,
		RejectText:        "venue is not accepting modifications in the current trading phase",
		RejResponseTo:     "CancelReplace",
	}
}

func (e *Engine) modifyRejectValidation(req *protocol.OrderModificationRequest, order *types.LimitOrder, reason validation.Error) protocol.Reply {
	e.metrics.RecordReject("OrderModificationRequest", reason.Error())
	return protocol.OrderModificationReject{
		Session:           req.Session,
		ClientOrderID:     req.ClientOrderID,
		OrigClientOrderID: order.ClientOrderID,
		VenueOrderID:      order.VenueOrderID,
		OrderStatus:       order.Status,
		RejectText:        reason.Error(),
		RejResponseTo:     "CancelReplace",
	}
}

func priceOrNil(order *types.LimitOrder) *float64 {
	if !order.HasPrice {
		return nil
	}
	p := order.Price
	return &p
}
