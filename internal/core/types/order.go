package types

import "time"

// VenueOrderID is assigned by the venue's OrderId generator (spec 4.4).
type VenueOrderID string

// ClientOrderID is assigned by the client and unique per session.
type ClientOrderID string

// SessionHandle is an opaque identifier for the owning client session;
// the core never inspects it beyond equality/ownership checks (spec 3:
// "session handle, opaque to the core" per section 6).
type SessionHandle string

// LimitOrder is a resting or terminal order tracked by an OrderBookSide.
// See spec section 3 for the field contract and invariants.
type LimitOrder struct {
	VenueOrderID    VenueOrderID
	ClientOrderID   ClientOrderID
	OrigClientOrderID ClientOrderID

	Instrument InstrumentID
	Session    SessionHandle

	Side     Side
	Type     OrderType
	Price    float64 // ignored when Type == OrderTypeMarket
	HasPrice bool

	OriginalQuantity float64
	CumExecutedQty   float64

	TimeInForce TimeInForce
	ExpireTime  *time.Time // microsecond-precision UTC, set iff TIF needs it and expressed as a time
	ExpireDate  *time.Time // local calendar date, set iff TIF needs it and expressed as a date

	Parties []Party

	Status OrderStatus

	// ArrivalSeq is the book-wide monotonically increasing sequence number
	// assigned on entry into the book; it is the tie-break half of the
	// (price, sequence) priority key (spec section 3).
	ArrivalSeq uint64

	CreatedDate time.Time // venue-local calendar date of creation, for Day-order expiry (4.2.4)
}

// RemainingQuantity returns the order's unexecuted quantity.
func (o *LimitOrder) RemainingQuantity() float64 {
	return o.OriginalQuantity - o.CumExecutedQty
}

// IsBuySide reports whether the order removes liquidity on the offer
// side when aggressing, i.e. whether it is priced/ranked as a buy.
func (o *LimitOrder) IsBuySide() bool {
	return o.Side == SideBuy
}

// IsSellSide reports the converse of IsBuySide; SellShort and
// SellShortExempt both rank and match as ordinary sell orders (spec
// section 3 names them as distinct Side values purely for downstream
// reporting/compliance, not for book priority).
func (o *LimitOrder) IsSellSide() bool {
	switch o.Side {
	case SideSell, SideSellShort, SideSellShortExempt:
		return true
	default:
		return false
	}
}
