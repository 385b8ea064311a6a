// Package reject builds outbound reply messages for requests the router
// turns away before they ever reach a per-instrument engine: an unknown
// instrument, a market-data request naming zero or more than one
// symbol, or a security status lookup against a security the catalogue
// does not know about (spec section 4.5).
//
// Grounded on
// _examples/original_source/project/trading_system/src/execution/reject_notifier.cpp's
// RejectNotifier: one method per inbound request type, each building the
// matching reject message and - where the request never reached an
// engine and so was never assigned identifiers - minting a fresh
// VenueOrderId/ExecutionId pair through its own generator, exactly as
// the C++ OrderIdentifiersGenerator does.
package reject

import (
	"sync"
	"time"

	"github.com/abdoElHodaky/tradSys/internal/core/idgen"
	"github.com/abdoElHodaky/tradSys/internal/core/protocol"
	"github.com/abdoElHodaky/tradSys/internal/core/types"
	"github.com/abdoElHodaky/tradSys/internal/metrics"
)

// identifierGenerator mints a fresh VenueOrderId/ExecutionId pair for
// reject messages that never reached a per-instrument engine, so they
// still carry valid identifiers on the wire.
type identifierGenerator struct {
	mu       sync.Mutex
	orderIDs *idgen.OrderIDContext
	metrics  *metrics.Collector
}

func newIdentifierGenerator(clock func() time.Time, m *metrics.Collector) *identifierGenerator {
	return &identifierGenerator{orderIDs: idgen.NewOrderIDContext(clock), metrics: m}
}

func (g *identifierGenerator) next() (types.VenueOrderID, string) {
	g.mu.Lock()
	venueID := g.orderIDs.Next()
	g.mu.Unlock()

	execIDs := idgen.NewExecutionIDContext(venueID)
	execID, err := execIDs.Next()
	if err != nil {
		g.metrics.RecordGeneratorExhaustion("execution_id")
		// A brand new ExecutionIdContext cannot collide on its first
		// call; this would only fire under a programming error.
		panic("reject: " + err.Error())
	}
	return venueID, execID
}

// Notifier builds reply messages for requests the router rejects ahead
// of any per-instrument engine. It holds no reference to a specific
// instrument or session and is safe for concurrent use.
type Notifier struct {
	ids     *identifierGenerator
	metrics *metrics.Collector
}

// New returns a Notifier whose identifier generator is seeded from
// clock. Pass time.Now in production; tests inject a fixed clock.
// m is optional; a nil Collector makes every Record call a no-op.
func New(clock func() time.Time, m *metrics.Collector) *Notifier {
	return &Notifier{ids: newIdentifierGenerator(clock, m), metrics: m}
}

// RejectPlacement builds an OrderPlacementReject for a new-order request
// that never reached an engine, minting fresh identifiers for it.
func (n *Notifier) RejectPlacement(req *protocol.OrderPlacementRequest, reason string) protocol.OrderPlacementReject {
	n.metrics.RecordReject("OrderPlacementRequest", reason)
	venueID, execID := n.ids.next()
	return protocol.OrderPlacementReject{
		Session:       req.Session,
		Instrument:    req.Instrument,
		ClientOrderID: req.ClientOrderID,
		VenueOrderID:  venueID,
		ExecutionID:   execID,
		Side:          req.Side,
		Price:         req.Price,
		Quantity:      req.Quantity,
		ExpireTime:    req.ExpireTime,
		ExpireDate:    req.ExpireDate,
		Parties:       req.Parties,
		RejectText:    reason,
	}
}

// RejectModification builds an OrderModificationReject for a
// cancel-replace request the router could not route to an engine (e.g.
// unknown instrument). Unlike RejectPlacement, no identifiers are
// minted: the request names an existing VenueOrderId, which is echoed
// back unchanged.
func (n *Notifier) RejectModification(req *protocol.OrderModificationRequest, reason string) protocol.OrderModificationReject {
	n.metrics.RecordReject("OrderModificationRequest", reason)
	return protocol.OrderModificationReject{
		Session:           req.Session,
		ClientOrderID:     req.ClientOrderID,
		OrigClientOrderID: req.OrigClientOrderID,
		VenueOrderID:      derefVenueID(req.VenueOrderID),
		OrderStatus:       types.OrderStatusRejected,
		RejectText:        reason,
		RejResponseTo:     "CancelReplace",
	}
}

// RejectCancellation builds an OrderCancellationReject for a cancel
// request the router could not route to an engine.
func (n *Notifier) RejectCancellation(req *protocol.OrderCancellationRequest, reason string) protocol.OrderCancellationReject {
	n.metrics.RecordReject("OrderCancellationRequest", reason)
	return protocol.OrderCancellationReject{
		Session:           req.Session,
		ClientOrderID:     req.ClientOrderID,
		OrigClientOrderID: req.OrigClientOrderID,
		VenueOrderID:      derefVenueID(req.VenueOrderID),
		OrderStatus:       types.OrderStatusRejected,
		RejectText:        reason,
		RejResponseTo:     "Cancel",
	}
}

// RejectMarketData builds a MarketDataReject for an unknown-symbol
// request. Requests naming zero or several instruments are handled by
// marketdata.Hub directly, since those reasons are specific to the
// subscription registry the Hub owns; this method exists for the
// router-level unknown-instrument case, which never reaches a Hub.
func (n *Notifier) RejectMarketData(req *protocol.MarketDataRequest, reason types.MdRejectReason, text string) protocol.MarketDataReject {
	n.metrics.RecordReject("MarketDataRequest", text)
	return protocol.MarketDataReject{
		Session:      req.Session,
		RequestID:    req.RequestID,
		RejectReason: reason,
		RejectText:   text,
	}
}

// RejectSecurityStatus builds a BusinessMessageReject for a
// SecurityStatusRequest naming an instrument the router's catalogue
// does not recognize.
func (n *Notifier) RejectSecurityStatus(req *protocol.SecurityStatusRequest, text string) protocol.BusinessMessageReject {
	n.metrics.RecordReject("SecurityStatusRequest", text)
	return protocol.BusinessMessageReject{
		Session:    req.Session,
		RefMsgType: "SecurityStatusRequest",
		Reason:     types.BusinessRejectReasonUnknownSecurity,
		Text:       text,
	}
}

func derefVenueID(id *types.VenueOrderID) types.VenueOrderID {
	if id == nil {
		return ""
	}
	return *id
}
