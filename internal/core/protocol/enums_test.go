package protocol

import (
	"testing"

	"github.com/abdoElHodaky/tradSys/internal/core/types"
	"github.com/stretchr/testify/assert"
)

// TestEnumFIXRoundTrip verifies spec section 8's round-trip law: for
// every supported enum value v, from_fix(to_fix(v)) == v.
func TestEnumFIXRoundTrip(t *testing.T) {
	t.Run("Side", func(t *testing.T) {
		for _, v := range []types.Side{types.SideBuy, types.SideSell, types.SideSellShort, types.SideSellShortExempt} {
			got, ok := SideFromFIX(SideToFIX(v))
			assert.True(t, ok)
			assert.Equal(t, v, got)
		}
	})

	t.Run("OrderType", func(t *testing.T) {
		for _, v := range []types.OrderType{types.OrderTypeLimit, types.OrderTypeMarket} {
			got, ok := OrderTypeFromFIX(OrderTypeToFIX(v))
			assert.True(t, ok)
			assert.Equal(t, v, got)
		}
	})

	t.Run("TimeInForce", func(t *testing.T) {
		for _, v := range []types.TimeInForce{
			types.TimeInForceDay, types.TimeInForceGTC, types.TimeInForceIOC,
			types.TimeInForceFOK, types.TimeInForceGTD,
		} {
			got, ok := TimeInForceFromFIX(TimeInForceToFIX(v))
			assert.True(t, ok)
			assert.Equal(t, v, got)
		}
	})

	t.Run("OrderStatus", func(t *testing.T) {
		for _, v := range []types.OrderStatus{
			types.OrderStatusNew, types.OrderStatusPartiallyFilled, types.OrderStatusFilled,
			types.OrderStatusModified, types.OrderStatusCancelled, types.OrderStatusRejected,
		} {
			got, ok := OrderStatusFromFIX(OrderStatusToFIX(v))
			assert.True(t, ok)
			assert.Equal(t, v, got)
		}
	})

	t.Run("ExecType", func(t *testing.T) {
		for _, v := range []types.ExecType{
			types.ExecTypeOrderPlaced, types.ExecTypeOrderTraded, types.ExecTypeReplaced,
			types.ExecTypeCancelled, types.ExecTypeRejected,
		} {
			got, ok := ExecTypeFromFIX(ExecTypeToFIX(v))
			assert.True(t, ok)
			assert.Equal(t, v, got)
		}
	})

	t.Run("SecurityType", func(t *testing.T) {
		for _, v := range []types.SecurityType{types.SecurityTypeCS, types.SecurityTypeFUT, types.SecurityTypeOPT, types.SecurityTypeFX} {
			got, ok := SecurityTypeFromFIX(SecurityTypeToFIX(v))
			assert.True(t, ok)
			assert.Equal(t, v, got)
		}
	})

	t.Run("MdEntryType", func(t *testing.T) {
		for _, v := range []types.MdEntryType{
			types.MdEntryTypeBid, types.MdEntryTypeOffer, types.MdEntryTypeTrade,
			types.MdEntryTypeLow, types.MdEntryTypeMid, types.MdEntryTypeHigh,
		} {
			got, ok := MdEntryTypeFromFIX(MdEntryTypeToFIX(v))
			assert.True(t, ok)
			assert.Equal(t, v, got)
		}
	})

	t.Run("MdUpdateAction", func(t *testing.T) {
		for _, v := range []types.MdUpdateAction{types.MdUpdateActionNew, types.MdUpdateActionChange, types.MdUpdateActionDelete} {
			got, ok := MdUpdateActionFromFIX(MdUpdateActionToFIX(v))
			assert.True(t, ok)
			assert.Equal(t, v, got)
		}
	})

	t.Run("TradingSessionSubID", func(t *testing.T) {
		for _, v := range []types.TradingPhase{
			types.TradingPhaseOpen, types.TradingPhaseClosed, types.TradingPhasePostTrading,
			types.TradingPhaseOpeningAuction, types.TradingPhaseIntradayAuction, types.TradingPhaseClosingAuction,
		} {
			got, ok := TradingSessionSubIDFromFIX(TradingSessionSubIDToFIX(v))
			assert.True(t, ok)
			assert.Equal(t, v, got)
		}
	})

	t.Run("SecurityTradingStatus", func(t *testing.T) {
		for _, v := range []types.SecurityTradingStatus{
			types.SecurityTradingStatusTradingHalt, types.SecurityTradingStatusReady, types.SecurityTradingStatusNotAvailableForTrading,
		} {
			got, ok := SecurityTradingStatusFromFIX(SecurityTradingStatusToFIX(v))
			assert.True(t, ok)
			assert.Equal(t, v, got)
		}
	})
}
