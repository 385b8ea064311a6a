package engine

import (
	"github.com/abdoElHodaky/tradSys/internal/core/protocol"
	"github.com/abdoElHodaky/tradSys/internal/core/types"
)

// Cancel implements spec section 4.2.3.
func (e *Engine) Cancel(req *protocol.OrderCancellationRequest) protocol.Reply {
	order, ok := e.locate(req.Session, req.OrigClientOrderID, req.VenueOrderID)
	if !ok {
		return e.cancelRejectNotFound(req)
	}
	if !e.acceptingCancel() {
		return e.cancelRejectPolicy(req, order)
	}

	e.removeFromBook(order)
	order.Status = types.OrderStatusCancelled

	reply := protocol.OrderCancellationConfirmation{
		Session:           order.Session,
		Instrument:        order.Instrument,
		ClientOrderID:     req.ClientOrderID,
		OrigClientOrderID: order.ClientOrderID,
		VenueOrderID:      order.VenueOrderID,
		ExecutionID:       e.nextExecID(order.VenueOrderID),
		ExecType:          types.ExecTypeCancelled,
		OrderStatus:       types.OrderStatusCancelled,
	}
	e.publishTopOfBook()
	return reply
}

func (e *Engine) cancelRejectNotFound(req *protocol.OrderCancellationRequest) protocol.Reply {
	e.metrics.RecordReject("OrderCancellationRequest", "unknown order")
	return protocol.OrderCancellationReject{
		Session:           req.Session,
		ClientOrderID:     req.ClientOrderID,
		OrigClientOrderID: req.OrigClientOrderID,
		VenueOrderID:      derefVenueID(req.VenueOrderID),
		OrderStatus:       types.OrderStatusRejected,
		RejectText:        "unknown order",
		RejResponseTo:     "Cancel",
	}
}

func (e *Engine) cancelRejectPolicy(req *protocol.OrderCancellationRequest, order *types.LimitOrder) protocol.Reply {
	e.metrics.RecordReject("OrderCancellationRequest", "phase-not-accepting")
	return protocol.OrderCancellationReject{
		Session:           req.Session,
		ClientOrderID:     req.ClientOrderID,
		OrigClientOrderID: order.ClientOrderID,
		VenueOrderID:      order.VenueOrderID,
		OrderStatus:       order.Status,
		RejectText:        "venue is not accepting cancels in the current trading phase",
		RejResponseTo:     "Cancel",
	}
}

func derefVenueID(id *types.VenueOrderID) types.VenueOrderID {
	if id == nil {
		return ""
	}
	return *id
}
