package reject

import (
	"testing"
	"time"

	"github.com/abdoElHodaky/tradSys/internal/core/protocol"
	"github.com/abdoElHodaky/tradSys/internal/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC)
}

func TestRejectPlacement_MintsFreshIdentifiers(t *testing.T) {
	n := New(fixedClock, nil)
	req := &protocol.OrderPlacementRequest{
		Session:       "s1",
		Instrument:    1,
		ClientOrderID: "c1",
		Side:          types.SideBuy,
	}

	reject := n.RejectPlacement(req, "unknown instrument")

	assert.Equal(t, "unknown instrument", reject.RejectText)
	assert.NotEmpty(t, reject.VenueOrderID)
	assert.NotEmpty(t, reject.ExecutionID)
	assert.Equal(t, req.ClientOrderID, reject.ClientOrderID)
}

func TestRejectPlacement_SuccessiveCallsGetDistinctVenueOrderIDs(t *testing.T) {
	n := New(fixedClock, nil)
	req := &protocol.OrderPlacementRequest{Session: "s1", ClientOrderID: "c1"}

	first := n.RejectPlacement(req, "r")
	second := n.RejectPlacement(req, "r")

	assert.NotEqual(t, first.VenueOrderID, second.VenueOrderID)
}

func TestRejectModification_EchoesExistingVenueOrderID(t *testing.T) {
	n := New(fixedClock, nil)
	venueID := types.VenueOrderID("250730090000000001")
	req := &protocol.OrderModificationRequest{
		Session:           "s1",
		ClientOrderID:     "c2",
		OrigClientOrderID: "c1",
		VenueOrderID:      &venueID,
	}

	reject := n.RejectModification(req, "unknown instrument")

	require.Equal(t, venueID, reject.VenueOrderID)
	assert.Equal(t, types.OrderStatusRejected, reject.OrderStatus)
	assert.Equal(t, "CancelReplace", reject.RejResponseTo)
}

func TestRejectCancellation_NilVenueOrderIDBecomesEmpty(t *testing.T) {
	n := New(fixedClock, nil)
	req := &protocol.OrderCancellationRequest{
		Session:           "s1",
		OrigClientOrderID: "c1",
	}

	reject := n.RejectCancellation(req, "unknown instrument")

	assert.Equal(t, types.VenueOrderID(""), reject.VenueOrderID)
	assert.Equal(t, "Cancel", reject.RejResponseTo)
}

func TestRejectMarketData_CarriesReasonAndRequestID(t *testing.T) {
	n := New(fixedClock, nil)
	req := &protocol.MarketDataRequest{Session: "s1", RequestID: "r1"}

	reject := n.RejectMarketData(req, types.MdRejectReasonUnknownSymbol, "unknown instrument")

	assert.Equal(t, "r1", reject.RequestID)
	assert.Equal(t, types.MdRejectReasonUnknownSymbol, reject.RejectReason)
}

func TestRejectSecurityStatus_UnknownSecurity(t *testing.T) {
	n := New(fixedClock, nil)
	req := &protocol.SecurityStatusRequest{Session: "s1", RequestID: "r1", Instrument: 99}

	reject := n.RejectSecurityStatus(req, "unknown instrument")

	assert.Equal(t, types.BusinessRejectReasonUnknownSecurity, reject.Reason)
	assert.Equal(t, "SecurityStatusRequest", reject.RefMsgType)
}
