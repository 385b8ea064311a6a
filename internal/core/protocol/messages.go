// Package protocol holds the CORE's external interface (spec section 6):
// the inbound request and outbound reply message structs exchanged with
// the FIX codec, plus the enumerated-attribute <-> FIX string mappings
// the codec relies on. The wire codec itself - turning these structs
// into actual FIX tags - is an external collaborator and stays out of
// scope (spec section 1); this package only fixes the shape and
// semantics the codec must be able to surface.
package protocol

import (
	"time"

	"github.com/abdoElHodaky/tradSys/internal/core/types"
)

// OrderPlacementRequest is an inbound new-order-single (spec section 6).
type OrderPlacementRequest struct {
	Session       types.SessionHandle
	Instrument    types.InstrumentID
	ClientOrderID types.ClientOrderID
	Side          types.Side
	OrderType     types.OrderType
	Price         *float64
	Quantity      *float64
	TimeInForce   *types.TimeInForce
	ExpireTime    *time.Time
	ExpireDate    *time.Time
	ShortSaleExemptReason *string
	Parties       []types.Party
}

// OrderModificationRequest is an inbound cancel-replace (spec section 6).
type OrderModificationRequest struct {
	Session           types.SessionHandle
	Instrument        types.InstrumentID
	ClientOrderID     types.ClientOrderID
	OrigClientOrderID types.ClientOrderID
	VenueOrderID      *types.VenueOrderID
	Side              *types.Side
	Price             *float64
	Quantity          *float64
	TimeInForce       *types.TimeInForce
	ExpireTime        *time.Time
	ExpireDate        *time.Time
	Parties           []types.Party
}

// OrderCancellationRequest is an inbound order cancel request.
type OrderCancellationRequest struct {
	Session           types.SessionHandle
	Instrument        types.InstrumentID
	ClientOrderID     types.ClientOrderID
	OrigClientOrderID types.ClientOrderID
	VenueOrderID      *types.VenueOrderID
}

// MarketDataRequest is an inbound subscribe/unsubscribe/snapshot request.
type MarketDataRequest struct {
	Session          types.SessionHandle
	RequestID        string
	RequestType      types.SubscriptionRequestType
	Instruments      []types.InstrumentID
	EntryTypes       []types.MdEntryType
	MarketDepth      int
	UpdateType       types.MdUpdateType
}

// SecurityStatusRequest queries an instrument's current trading status.
type SecurityStatusRequest struct {
	Session    types.SessionHandle
	RequestID  string
	Instrument types.InstrumentID
}

// OrderPlacementConfirmation acknowledges a placed/executed order (spec
// section 4.2.1: exec type OrderPlaced, status New).
type OrderPlacementConfirmation struct {
	Session       types.SessionHandle
	Instrument    types.InstrumentID
	ClientOrderID types.ClientOrderID
	VenueOrderID  types.VenueOrderID
	ExecutionID   string
	ExecType      types.ExecType
	OrderStatus   types.OrderStatus
	Side          types.Side
	OrderType     types.OrderType
	Price         *float64
	Quantity      float64
	CumQuantity   float64
	TimeInForce   types.TimeInForce
	Parties       []types.Party
}

// OrderPlacementReject rejects a new-order request (spec section 4.2.1).
type OrderPlacementReject struct {
	Session       types.SessionHandle
	Instrument    types.InstrumentID
	ClientOrderID types.ClientOrderID
	VenueOrderID  types.VenueOrderID
	ExecutionID   string
	Side          types.Side
	Price         *float64
	Quantity      *float64
	ExpireTime    *time.Time
	ExpireDate    *time.Time
	Parties       []types.Party
	RejectText    string
}

// OrderModificationConfirmation acknowledges a cancel-replace (spec 4.2.2).
type OrderModificationConfirmation struct {
	Session           types.SessionHandle
	Instrument        types.InstrumentID
	ClientOrderID     types.ClientOrderID
	OrigClientOrderID types.ClientOrderID
	VenueOrderID      types.VenueOrderID
	ExecutionID       string
	ExecType          types.ExecType
	OrderStatus       types.OrderStatus
	Quantity          float64
	CumQuantity       float64
	Price             *float64
}

// OrderModificationReject rejects a cancel-replace request.
type OrderModificationReject struct {
	Session           types.SessionHandle
	ClientOrderID     types.ClientOrderID
	OrigClientOrderID types.ClientOrderID
	VenueOrderID      types.VenueOrderID
	OrderStatus       types.OrderStatus
	RejectText        string
	RejResponseTo     string // "CancelReplace"
}

// OrderCancellationConfirmation acknowledges a cancellation (spec 4.2.3).
type OrderCancellationConfirmation struct {
	Session           types.SessionHandle
	Instrument        types.InstrumentID
	ClientOrderID     types.ClientOrderID
	OrigClientOrderID types.ClientOrderID
	VenueOrderID      types.VenueOrderID
	ExecutionID       string
	ExecType          types.ExecType
	OrderStatus       types.OrderStatus
	RejectText        string // reason text, e.g. "Expired", populated for tick-driven cancellations
}

// OrderCancellationReject rejects a cancellation request (spec 4.2.3).
type OrderCancellationReject struct {
	Session           types.SessionHandle
	ClientOrderID     types.ClientOrderID
	OrigClientOrderID types.ClientOrderID
	VenueOrderID      types.VenueOrderID
	OrderStatus       types.OrderStatus
	RejectText        string
	RejResponseTo     string // "Cancel" or "CancelReplace"
}

// ExecutionReport reports a trade fill against a single order side (spec
// section 4.2.1: "one ExecutionReport per fill to both sides").
type ExecutionReport struct {
	Session        types.SessionHandle
	Instrument     types.InstrumentID
	ClientOrderID  types.ClientOrderID
	VenueOrderID   types.VenueOrderID
	ExecutionID    string
	ExecType       types.ExecType
	OrderStatus    types.OrderStatus
	Side           types.Side
	LastPrice      float64
	LastQuantity   float64
	CumQuantity    float64
	LeavesQuantity float64
	TradeID        string
	CounterpartyID types.VenueOrderID
	Parties        []types.Party
}

// MarketDataSnapshot is a one-shot full view of an instrument's market
// data (spec section 4.3: "all entries, action omitted").
type MarketDataSnapshot struct {
	Session    types.SessionHandle
	RequestID  string
	Instrument types.InstrumentID
	Entries    []types.MarketDataEntry
}

// MarketDataUpdate carries only the deltas since the last message sent
// to this subscription (spec section 4.3).
type MarketDataUpdate struct {
	Session    types.SessionHandle
	RequestID  string
	Instrument types.InstrumentID
	Entries    []types.MarketDataEntry
}

// MarketDataReject rejects a MarketDataRequest (spec section 4.3).
type MarketDataReject struct {
	Session      types.SessionHandle
	RequestID    string
	RejectReason types.MdRejectReason
	RejectText   string
}

// SecurityStatus reports an instrument's current trading phase/status.
type SecurityStatus struct {
	Session    types.SessionHandle
	RequestID  string
	Instrument types.InstrumentID
	Phase      types.TradingPhase
	Status     types.SecurityTradingStatus
}

// BusinessMessageReject rejects a request the engine could not route,
// e.g. to an unknown instrument (spec section 6, section 7).
type BusinessMessageReject struct {
	Session    types.SessionHandle
	RefMsgType string
	Reason     types.BusinessRejectReason
	Text       string
}

// Reply is implemented by every outbound message type so dispatchers can
// handle them uniformly without a type switch at every call site.
type Reply interface {
	replyMarker()
}

func (OrderPlacementConfirmation) replyMarker()     {}
func (OrderPlacementReject) replyMarker()            {}
func (OrderModificationConfirmation) replyMarker()   {}
func (OrderModificationReject) replyMarker()         {}
func (OrderCancellationConfirmation) replyMarker()   {}
func (OrderCancellationReject) replyMarker()         {}
func (ExecutionReport) replyMarker()                 {}
func (MarketDataSnapshot) replyMarker()              {}
func (MarketDataUpdate) replyMarker()                {}
func (MarketDataReject) replyMarker()                {}
func (SecurityStatus) replyMarker()                  {}
func (BusinessMessageReject) replyMarker()           {}
