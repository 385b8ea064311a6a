package protocol

import "github.com/abdoElHodaky/tradSys/internal/core/types"

// This file is the Go rendering of spec section 9's note: "Polymorphism
// over FIX field conversion is best expressed as a closed set of
// conversion functions keyed by the internal attribute type ... no
// runtime dispatch is required." Each enumerated attribute in spec
// section 6's wire-compatibility list gets one ToFIX/FromFIX pair, round
// tripping by construction (tested in enums_test.go) - the Go analogue
// of _examples/original_source/project/fix/common/include/common/mapping/to_fix_mapping.hpp
// and from_fix_mapping.hpp, minus the actual wire parsing those headers
// also do (out of scope per spec section 1).

// SideToFIX / SideFromFIX map types.Side <-> FIX tag 54 values.
func SideToFIX(s types.Side) string {
	switch s {
	case types.SideBuy:
		return "1"
	case types.SideSell:
		return "2"
	case types.SideSellShort:
		return "5"
	case types.SideSellShortExempt:
		return "6"
	default:
		return ""
	}
}

func SideFromFIX(v string) (types.Side, bool) {
	switch v {
	case "1":
		return types.SideBuy, true
	case "2":
		return types.SideSell, true
	case "5":
		return types.SideSellShort, true
	case "6":
		return types.SideSellShortExempt, true
	default:
		return types.SideUnspecified, false
	}
}

// OrderTypeToFIX / OrderTypeFromFIX map types.OrderType <-> FIX tag 40.
func OrderTypeToFIX(t types.OrderType) string {
	switch t {
	case types.OrderTypeLimit:
		return "2"
	case types.OrderTypeMarket:
		return "1"
	default:
		return ""
	}
}

func OrderTypeFromFIX(v string) (types.OrderType, bool) {
	switch v {
	case "2":
		return types.OrderTypeLimit, true
	case "1":
		return types.OrderTypeMarket, true
	default:
		return types.OrderTypeUnspecified, false
	}
}

// TimeInForceToFIX / TimeInForceFromFIX map types.TimeInForce <-> tag 59.
func TimeInForceToFIX(t types.TimeInForce) string {
	switch t {
	case types.TimeInForceDay:
		return "0"
	case types.TimeInForceGTC:
		return "1"
	case types.TimeInForceIOC:
		return "3"
	case types.TimeInForceFOK:
		return "4"
	case types.TimeInForceGTD:
		return "6"
	default:
		return ""
	}
}

func TimeInForceFromFIX(v string) (types.TimeInForce, bool) {
	switch v {
	case "0":
		return types.TimeInForceDay, true
	case "1":
		return types.TimeInForceGTC, true
	case "3":
		return types.TimeInForceIOC, true
	case "4":
		return types.TimeInForceFOK, true
	case "6":
		return types.TimeInForceGTD, true
	default:
		return types.TimeInForceUnspecified, false
	}
}

// OrderStatusToFIX / OrderStatusFromFIX map types.OrderStatus <-> tag 39.
func OrderStatusToFIX(s types.OrderStatus) string {
	switch s {
	case types.OrderStatusNew:
		return "0"
	case types.OrderStatusPartiallyFilled:
		return "1"
	case types.OrderStatusFilled:
		return "2"
	case types.OrderStatusCancelled:
		return "4"
	case types.OrderStatusModified:
		return "5"
	case types.OrderStatusRejected:
		return "8"
	default:
		return ""
	}
}

func OrderStatusFromFIX(v string) (types.OrderStatus, bool) {
	switch v {
	case "0":
		return types.OrderStatusNew, true
	case "1":
		return types.OrderStatusPartiallyFilled, true
	case "2":
		return types.OrderStatusFilled, true
	case "4":
		return types.OrderStatusCancelled, true
	case "5":
		return types.OrderStatusModified, true
	case "8":
		return types.OrderStatusRejected, true
	default:
		return types.OrderStatusUnspecified, false
	}
}

// ExecTypeToFIX / ExecTypeFromFIX map types.ExecType <-> tag 150.
func ExecTypeToFIX(t types.ExecType) string {
	switch t {
	case types.ExecTypeOrderPlaced:
		return "0"
	case types.ExecTypeCancelled:
		return "4"
	case types.ExecTypeReplaced:
		return "5"
	case types.ExecTypeRejected:
		return "8"
	case types.ExecTypeOrderTraded:
		return "F"
	default:
		return ""
	}
}

func ExecTypeFromFIX(v string) (types.ExecType, bool) {
	switch v {
	case "0":
		return types.ExecTypeOrderPlaced, true
	case "4":
		return types.ExecTypeCancelled, true
	case "5":
		return types.ExecTypeReplaced, true
	case "8":
		return types.ExecTypeRejected, true
	case "F":
		return types.ExecTypeOrderTraded, true
	default:
		return types.ExecTypeUnspecified, false
	}
}

// SecurityTypeToFIX / SecurityTypeFromFIX map types.SecurityType <-> 167.
func SecurityTypeToFIX(t types.SecurityType) string {
	switch t {
	case types.SecurityTypeCS:
		return "CS"
	case types.SecurityTypeFUT:
		return "FUT"
	case types.SecurityTypeOPT:
		return "OPT"
	case types.SecurityTypeFX:
		return "FXSPOT"
	default:
		return ""
	}
}

func SecurityTypeFromFIX(v string) (types.SecurityType, bool) {
	switch v {
	case "CS":
		return types.SecurityTypeCS, true
	case "FUT":
		return types.SecurityTypeFUT, true
	case "OPT":
		return types.SecurityTypeOPT, true
	case "FXSPOT":
		return types.SecurityTypeFX, true
	default:
		return types.SecurityTypeUnspecified, false
	}
}

// SecurityIDSourceToFIX / SecurityIDSourceFromFIX map <-> tag 22.
func SecurityIDSourceToFIX(s types.SecurityIDSource) string {
	switch s {
	case types.SecurityIDSourceISIN:
		return "4"
	case types.SecurityIDSourceRIC:
		return "5"
	case types.SecurityIDSourceExchangeSymbol:
		return "8"
	default:
		return ""
	}
}

func SecurityIDSourceFromFIX(v string) (types.SecurityIDSource, bool) {
	switch v {
	case "4":
		return types.SecurityIDSourceISIN, true
	case "5":
		return types.SecurityIDSourceRIC, true
	case "8":
		return types.SecurityIDSourceExchangeSymbol, true
	default:
		return types.SecurityIDSourceUnspecified, false
	}
}

// PartyIDSourceToFIX / PartyIDSourceFromFIX map <-> tag 447.
func PartyIDSourceToFIX(s types.PartyIDSource) string {
	switch s {
	case types.PartyIDSourceProprietary:
		return "D"
	case types.PartyIDSourceBIC:
		return "B"
	default:
		return ""
	}
}

func PartyIDSourceFromFIX(v string) (types.PartyIDSource, bool) {
	switch v {
	case "D":
		return types.PartyIDSourceProprietary, true
	case "B":
		return types.PartyIDSourceBIC, true
	default:
		return types.PartyIDSourceUnspecified, false
	}
}

// PartyRoleToFIX / PartyRoleFromFIX map <-> tag 452.
func PartyRoleToFIX(r types.PartyRole) string {
	switch r {
	case types.PartyRoleExecutingFirm:
		return "1"
	case types.PartyRoleClientID:
		return "3"
	case types.PartyRoleEnteringFirm:
		return "7"
	case types.PartyRoleInstrumentListing:
		return "122"
	default:
		return ""
	}
}

func PartyRoleFromFIX(v string) (types.PartyRole, bool) {
	switch v {
	case "1":
		return types.PartyRoleExecutingFirm, true
	case "3":
		return types.PartyRoleClientID, true
	case "7":
		return types.PartyRoleEnteringFirm, true
	case "122":
		return types.PartyRoleInstrumentListing, true
	default:
		return types.PartyRoleUnspecified, false
	}
}

// MdEntryTypeToFIX / MdEntryTypeFromFIX map <-> tag 269.
func MdEntryTypeToFIX(t types.MdEntryType) string {
	switch t {
	case types.MdEntryTypeBid:
		return "0"
	case types.MdEntryTypeOffer:
		return "1"
	case types.MdEntryTypeTrade:
		return "2"
	case types.MdEntryTypeLow:
		return "7"
	case types.MdEntryTypeHigh:
		return "8"
	case types.MdEntryTypeMid:
		return "B"
	default:
		return ""
	}
}

func MdEntryTypeFromFIX(v string) (types.MdEntryType, bool) {
	switch v {
	case "0":
		return types.MdEntryTypeBid, true
	case "1":
		return types.MdEntryTypeOffer, true
	case "2":
		return types.MdEntryTypeTrade, true
	case "7":
		return types.MdEntryTypeLow, true
	case "8":
		return types.MdEntryTypeHigh, true
	case "B":
		return types.MdEntryTypeMid, true
	default:
		return types.MdEntryTypeUnspecified, false
	}
}

// MdUpdateActionToFIX / MdUpdateActionFromFIX map <-> tag 279.
func MdUpdateActionToFIX(a types.MdUpdateAction) string {
	switch a {
	case types.MdUpdateActionNew:
		return "0"
	case types.MdUpdateActionChange:
		return "1"
	case types.MdUpdateActionDelete:
		return "2"
	default:
		return ""
	}
}

func MdUpdateActionFromFIX(v string) (types.MdUpdateAction, bool) {
	switch v {
	case "0":
		return types.MdUpdateActionNew, true
	case "1":
		return types.MdUpdateActionChange, true
	case "2":
		return types.MdUpdateActionDelete, true
	default:
		return types.MdUpdateActionUnspecified, false
	}
}

// MdUpdateTypeToFIX / MdUpdateTypeFromFIX map <-> tag 265.
func MdUpdateTypeToFIX(t types.MdUpdateType) string {
	switch t {
	case types.MdUpdateTypeSnapshot:
		return "0"
	case types.MdUpdateTypeIncremental:
		return "1"
	default:
		return ""
	}
}

func MdUpdateTypeFromFIX(v string) (types.MdUpdateType, bool) {
	switch v {
	case "0":
		return types.MdUpdateTypeSnapshot, true
	case "1":
		return types.MdUpdateTypeIncremental, true
	default:
		return types.MdUpdateTypeSnapshot, false
	}
}

// SubscriptionRequestTypeToFIX / FromFIX map <-> tag 263.
func SubscriptionRequestTypeToFIX(t types.SubscriptionRequestType) string {
	switch t {
	case types.SubscriptionRequestSnapshot:
		return "0"
	case types.SubscriptionRequestSubscribe:
		return "1"
	case types.SubscriptionRequestUnsubscribe:
		return "2"
	default:
		return ""
	}
}

func SubscriptionRequestTypeFromFIX(v string) (types.SubscriptionRequestType, bool) {
	switch v {
	case "0":
		return types.SubscriptionRequestSnapshot, true
	case "1":
		return types.SubscriptionRequestSubscribe, true
	case "2":
		return types.SubscriptionRequestUnsubscribe, true
	default:
		return types.SubscriptionRequestSnapshot, false
	}
}

// MdRejectReasonToFIX / MdRejectReasonFromFIX map <-> tag 281.
func MdRejectReasonToFIX(r types.MdRejectReason) string {
	switch r {
	case types.MdRejectReasonDuplicateMdReqID:
		return "1"
	case types.MdRejectReasonUnknownSymbol:
		return "5"
	case types.MdRejectReasonUnsupportedRequest:
		return "0"
	default:
		return "99"
	}
}

func MdRejectReasonFromFIX(v string) (types.MdRejectReason, bool) {
	switch v {
	case "1":
		return types.MdRejectReasonDuplicateMdReqID, true
	case "5":
		return types.MdRejectReasonUnknownSymbol, true
	case "0":
		return types.MdRejectReasonUnsupportedRequest, true
	default:
		return types.MdRejectReasonUnspecified, false
	}
}

// TradingSessionSubIDToFIX / FromFIX map types.TradingPhase <-> tag 625.
func TradingSessionSubIDToFIX(p types.TradingPhase) string {
	switch p {
	case types.TradingPhaseOpen:
		return "2"
	case types.TradingPhaseClosed:
		return "5"
	case types.TradingPhasePostTrading:
		return "6"
	case types.TradingPhaseOpeningAuction:
		return "1"
	case types.TradingPhaseIntradayAuction:
		return "7"
	case types.TradingPhaseClosingAuction:
		return "4"
	default:
		return ""
	}
}

func TradingSessionSubIDFromFIX(v string) (types.TradingPhase, bool) {
	switch v {
	case "2":
		return types.TradingPhaseOpen, true
	case "5":
		return types.TradingPhaseClosed, true
	case "6":
		return types.TradingPhasePostTrading, true
	case "1":
		return types.TradingPhaseOpeningAuction, true
	case "7":
		return types.TradingPhaseIntradayAuction, true
	case "4":
		return types.TradingPhaseClosingAuction, true
	default:
		return types.TradingPhaseUnspecified, false
	}
}

// SecurityTradingStatusToFIX / FromFIX map <-> tag 326.
func SecurityTradingStatusToFIX(s types.SecurityTradingStatus) string {
	switch s {
	case types.SecurityTradingStatusTradingHalt:
		return "2"
	case types.SecurityTradingStatusReady:
		return "17"
	case types.SecurityTradingStatusNotAvailableForTrading:
		return "19"
	default:
		return ""
	}
}

func SecurityTradingStatusFromFIX(v string) (types.SecurityTradingStatus, bool) {
	switch v {
	case "2":
		return types.SecurityTradingStatusTradingHalt, true
	case "17":
		return types.SecurityTradingStatusReady, true
	case "19":
		return types.SecurityTradingStatusNotAvailableForTrading, true
	default:
		return types.SecurityTradingStatusUnspecified, false
	}
}

// BusinessRejectReasonToFIX / FromFIX map <-> tag 380.
func BusinessRejectReasonToFIX(r types.BusinessRejectReason) string {
	switch r {
	case types.BusinessRejectReasonUnknownSecurity:
		return "5"
	case types.BusinessRejectReasonUnknownID:
		return "4"
	case types.BusinessRejectReasonOther:
		return "0"
	default:
		return "0"
	}
}

func BusinessRejectReasonFromFIX(v string) (types.BusinessRejectReason, bool) {
	switch v {
	case "5":
		return types.BusinessRejectReasonUnknownSecurity, true
	case "4":
		return types.BusinessRejectReasonUnknownID, true
	case "0":
		return types.BusinessRejectReasonOther, true
	default:
		return types.BusinessRejectReasonOther, false
	}
}
