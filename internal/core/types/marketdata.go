package types

import "time"

// MarketDataEntry is a single row in a MarketDataSnapshot/MarketDataUpdate
// message (spec section 3).
type MarketDataEntry struct {
	EntryID       string
	Type          MdEntryType
	Price         float64
	HasPrice      bool
	Quantity      float64
	HasQuantity   bool
	BuyerID       VenueOrderID
	SellerID      VenueOrderID
	HasAggressor  bool
	AggressorSide Side
	Time          time.Time
	Phase         TradingPhase
	HasPhase      bool
	Action        MdUpdateAction
}

// Subscription is a registered (session, request_id) pair controlling
// what an aggregator sends a subscriber (spec section 3).
type Subscription struct {
	Session       SessionHandle
	RequestID     string
	Instrument    InstrumentID
	EntryTypeMask map[MdEntryType]bool
	MarketDepth   int
	UpdateType    MdUpdateType
}

// Accepts reports whether entryType passes this subscription's mask. An
// empty mask accepts every entry type (spec section 4.3: "respecting
// entry_type_mask").
func (s *Subscription) Accepts(entryType MdEntryType) bool {
	if len(s.EntryTypeMask) == 0 {
		return true
	}
	return s.EntryTypeMask[entryType]
}
