package engine

import (
	"testing"
	"time"

	"github.com/abdoElHodaky/tradSys/internal/core/idgen"
	"github.com/abdoElHodaky/tradSys/internal/core/marketdata"
	"github.com/abdoElHodaky/tradSys/internal/core/protocol"
	"github.com/abdoElHodaky/tradSys/internal/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInstrument() *types.Instrument {
	return &types.Instrument{
		ID:             1,
		Symbol:         "AAPL",
		PriceTick:      0.01,
		QuantityTick:   1,
		SupportedTIFs:  []types.TimeInForce{types.TimeInForceDay, types.TimeInForceIOC, types.TimeInForceFOK, types.TimeInForceGTD, types.TimeInForceGTC},
		SupportedSides: []types.Side{types.SideBuy, types.SideSell},
	}
}

func testEngine() *Engine {
	fixedNow := time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC)
	eng := New(Config{
		Instrument: testInstrument(),
		Aggregator: marketdata.NewAggregator(1, idgen.NewMarketEntryIDContext(func() time.Time { return fixedNow })),
		Clock:      func() time.Time { return fixedNow },
	})
	eng.TransitionPhase(types.TradingPhaseOpen)
	eng.SetStatus(types.TradingStatusResume)
	return eng
}

func qty(v float64) *float64   { return &v }
func price(v float64) *float64 { return &v }
func tif(t types.TimeInForce) *types.TimeInForce { return &t }

func limitOrder(session types.SessionHandle, clientID types.ClientOrderID, side types.Side, p, q float64, t types.TimeInForce) *protocol.OrderPlacementRequest {
	return &protocol.OrderPlacementRequest{
		Session:       session,
		Instrument:    1,
		ClientOrderID: clientID,
		Side:          side,
		OrderType:     types.OrderTypeLimit,
		Price:         price(p),
		Quantity:      qty(q),
		TimeInForce:   tif(t),
	}
}

func TestPlace_RestingOrderGetsConfirmation(t *testing.T) {
	eng := testEngine()
	replies := eng.Place(limitOrder("s1", "c1", types.SideBuy, 10.00, 100, types.TimeInForceDay))

	require.Len(t, replies, 1)
	conf, ok := replies[0].(protocol.OrderPlacementConfirmation)
	require.True(t, ok)
	assert.Equal(t, types.OrderStatusNew, conf.OrderStatus)
	assert.Equal(t, types.ExecTypeOrderPlaced, conf.ExecType)
	assert.Equal(t, 1, eng.Book().Bid.Len())
}

func TestPlace_CrossingLimitOrderTrades(t *testing.T) {
	eng := testEngine()
	eng.Place(limitOrder("s1", "resting", types.SideSell, 10.00, 50, types.TimeInForceDay))

	replies := eng.Place(limitOrder("s2", "aggr", types.SideBuy, 10.00, 50, types.TimeInForceDay))

	require.Len(t, replies, 3) // confirmation + two execution reports
	_, ok := replies[0].(protocol.OrderPlacementConfirmation)
	require.True(t, ok, "confirmation must precede trade executions")

	var trades int
	for _, r := range replies[1:] {
		exe, ok := r.(protocol.ExecutionReport)
		require.True(t, ok)
		assert.Equal(t, types.ExecTypeOrderTraded, exe.ExecType)
		assert.Equal(t, 10.00, exe.LastPrice)
		trades++
	}
	assert.Equal(t, 2, trades)
	assert.Equal(t, 0, eng.Book().Offer.Len())
	assert.Equal(t, 0, eng.Book().Bid.Len())
}

func TestPlace_IOCPartialFillCancelsRemainder(t *testing.T) {
	eng := testEngine()
	eng.Place(limitOrder("s1", "resting", types.SideSell, 10.00, 20, types.TimeInForceDay))

	replies := eng.Place(limitOrder("s2", "aggr", types.SideBuy, 10.00, 50, types.TimeInForceIOC))

	var sawCancel bool
	for _, r := range replies {
		if cancel, ok := r.(protocol.OrderCancellationConfirmation); ok {
			sawCancel = true
			assert.Equal(t, types.OrderStatusCancelled, cancel.OrderStatus)
		}
	}
	assert.True(t, sawCancel, "IOC remainder must be cancelled")
	assert.Equal(t, 0, eng.Book().Bid.Len(), "IOC aggressor never rests")
}

func TestPlace_FOKFailsWithoutTouchingBook(t *testing.T) {
	eng := testEngine()
	eng.Place(limitOrder("s1", "resting", types.SideSell, 10.00, 20, types.TimeInForceDay))

	replies := eng.Place(limitOrder("s2", "aggr", types.SideBuy, 10.00, 50, types.TimeInForceFOK))

	require.Len(t, replies, 1)
	reject, ok := replies[0].(protocol.OrderPlacementReject)
	require.True(t, ok)
	assert.NotEmpty(t, reject.RejectText)

	assert.Equal(t, 1, eng.Book().Offer.Len(), "resting order must be untouched by a failed FOK")
}

func TestPlace_MarketOrderEmptyBookDayRejected(t *testing.T) {
	eng := testEngine()
	req := &protocol.OrderPlacementRequest{
		Session:       "s1",
		Instrument:    1,
		ClientOrderID: "c1",
		Side:          types.SideBuy,
		OrderType:     types.OrderTypeMarket,
		Quantity:      qty(10),
	}
	replies := eng.Place(req)
	require.Len(t, replies, 1)
	reject, ok := replies[0].(protocol.OrderPlacementReject)
	require.True(t, ok)
	assert.Contains(t, reject.RejectText, "MarketOrderNoLiquidity")
}

func TestPlace_MarketOrderEmptyBookIOCCancelledNotRejected(t *testing.T) {
	eng := testEngine()
	req := &protocol.OrderPlacementRequest{
		Session:       "s1",
		Instrument:    1,
		ClientOrderID: "c1",
		Side:          types.SideBuy,
		OrderType:     types.OrderTypeMarket,
		Quantity:      qty(10),
		TimeInForce:   tif(types.TimeInForceIOC),
	}
	replies := eng.Place(req)
	require.Len(t, replies, 1)
	conf, ok := replies[0].(protocol.OrderPlacementConfirmation)
	require.True(t, ok)
	assert.Equal(t, types.OrderStatusCancelled, conf.OrderStatus)
}

func TestCancel_RemovesRestingOrder(t *testing.T) {
	eng := testEngine()
	eng.Place(limitOrder("s1", "c1", types.SideBuy, 10.00, 100, types.TimeInForceDay))

	reply := eng.Cancel(&protocol.OrderCancellationRequest{
		Session:           "s1",
		Instrument:        1,
		ClientOrderID:     "cancel-1",
		OrigClientOrderID: "c1",
	})

	conf, ok := reply.(protocol.OrderCancellationConfirmation)
	require.True(t, ok)
	assert.Equal(t, types.OrderStatusCancelled, conf.OrderStatus)
	assert.Equal(t, 0, eng.Book().Bid.Len())
}

func TestCancel_UnknownOrderRejected(t *testing.T) {
	eng := testEngine()
	reply := eng.Cancel(&protocol.OrderCancellationRequest{
		Session:           "s1",
		OrigClientOrderID: "missing",
	})
	reject, ok := reply.(protocol.OrderCancellationReject)
	require.True(t, ok)
	assert.Equal(t, "Cancel", reject.RejResponseTo)
}

func TestCancel_CrossSessionRejected(t *testing.T) {
	eng := testEngine()
	eng.Place(limitOrder("owner", "c1", types.SideBuy, 10.00, 100, types.TimeInForceDay))

	reply := eng.Cancel(&protocol.OrderCancellationRequest{
		Session:           "attacker",
		OrigClientOrderID: "c1",
	})
	_, ok := reply.(protocol.OrderCancellationReject)
	require.True(t, ok)
	assert.Equal(t, 1, eng.Book().Bid.Len(), "order must remain resting")
}

func TestModify_QuantityDecreasePreservesPriority(t *testing.T) {
	eng := testEngine()
	eng.Place(limitOrder("s1", "c1", types.SideBuy, 10.00, 100, types.TimeInForceDay))
	originalVenueID := eng.Book().Bid.Top().VenueOrderID

	replies := eng.Modify(&protocol.OrderModificationRequest{
		Session:           "s1",
		Instrument:        1,
		ClientOrderID:     "c1-v2",
		OrigClientOrderID: "c1",
		Quantity:          qty(40),
	})

	require.Len(t, replies, 1)
	conf, ok := replies[0].(protocol.OrderModificationConfirmation)
	require.True(t, ok)
	assert.Equal(t, 40.0, conf.Quantity)
	assert.Equal(t, originalVenueID, eng.Book().Bid.Top().VenueOrderID, "venue id must not change")
}

func TestModify_PriceChangeAssignsNewVenueOrderID(t *testing.T) {
	eng := testEngine()
	eng.Place(limitOrder("s1", "c1", types.SideBuy, 10.00, 100, types.TimeInForceDay))
	originalVenueID := eng.Book().Bid.Top().VenueOrderID

	replies := eng.Modify(&protocol.OrderModificationRequest{
		Session:           "s1",
		Instrument:        1,
		ClientOrderID:     "c1-v2",
		OrigClientOrderID: "c1",
		Price:             price(10.05),
	})

	require.NotEmpty(t, replies)
	_, ok := replies[0].(protocol.OrderPlacementConfirmation)
	require.True(t, ok, "priority-changing modify re-runs the Place flow")
	assert.NotEqual(t, originalVenueID, eng.Book().Bid.Top().VenueOrderID)
	assert.Equal(t, 10.05, eng.Book().Bid.Top().Price)
}

func TestModify_UnknownOrderRejected(t *testing.T) {
	eng := testEngine()
	replies := eng.Modify(&protocol.OrderModificationRequest{
		Session:           "s1",
		OrigClientOrderID: "missing",
	})
	require.Len(t, replies, 1)
	reject, ok := replies[0].(protocol.OrderModificationReject)
	require.True(t, ok)
	assert.Equal(t, "CancelReplace", reject.RejResponseTo)
}

func TestTick_ExpiredGTDOrderCancelled(t *testing.T) {
	eng := testEngine()
	expireAt := time.Date(2026, 7, 30, 9, 30, 0, 0, time.UTC)
	eng.Place(&protocol.OrderPlacementRequest{
		Session:       "s1",
		Instrument:    1,
		ClientOrderID: "c1",
		Side:          types.SideBuy,
		OrderType:     types.OrderTypeLimit,
		Price:         price(10.00),
		Quantity:      qty(10),
		TimeInForce:   tif(types.TimeInForceGTD),
		ExpireTime:    &expireAt,
	})
	require.Equal(t, 1, eng.Book().Bid.Len())

	replies := eng.Tick(time.Date(2026, 7, 30, 9, 31, 0, 0, time.UTC))
	require.Len(t, replies, 1)
	conf, ok := replies[0].(protocol.OrderCancellationConfirmation)
	require.True(t, ok)
	assert.Equal(t, "Expired", conf.RejectText)
	assert.Equal(t, 0, eng.Book().Bid.Len())
}

func TestTick_NotYetExpiredLeftResting(t *testing.T) {
	eng := testEngine()
	expireAt := time.Date(2026, 7, 30, 9, 30, 0, 0, time.UTC)
	eng.Place(&protocol.OrderPlacementRequest{
		Session:       "s1",
		Instrument:    1,
		ClientOrderID: "c1",
		Side:          types.SideBuy,
		OrderType:     types.OrderTypeLimit,
		Price:         price(10.00),
		Quantity:      qty(10),
		TimeInForce:   tif(types.TimeInForceGTD),
		ExpireTime:    &expireAt,
	})

	replies := eng.Tick(time.Date(2026, 7, 30, 9, 0, 1, 0, time.UTC))
	assert.Empty(t, replies)
	assert.Equal(t, 1, eng.Book().Bid.Len())
}

func TestTransitionPhase_ClosedRejectsPlacement(t *testing.T) {
	eng := testEngine()
	eng.TransitionPhase(types.TradingPhaseClosed)

	replies := eng.Place(limitOrder("s1", "c1", types.SideBuy, 10.00, 100, types.TimeInForceDay))
	require.Len(t, replies, 1)
	reject, ok := replies[0].(protocol.OrderPlacementReject)
	require.True(t, ok)
	assert.Contains(t, reject.RejectText, "TradingNotAccepting")
}

func TestAuction_UncrossesAtPhaseEnd(t *testing.T) {
	eng := testEngine()
	eng.TransitionPhase(types.TradingPhaseOpeningAuction)

	eng.Place(limitOrder("s1", "buy1", types.SideBuy, 10.05, 100, types.TimeInForceDay))
	eng.Place(limitOrder("s2", "buy2", types.SideBuy, 10.00, 50, types.TimeInForceDay))
	eng.Place(limitOrder("s3", "sell1", types.SideSell, 9.95, 80, types.TimeInForceDay))
	eng.Place(limitOrder("s4", "sell2", types.SideSell, 10.02, 70, types.TimeInForceDay))

	require.Equal(t, 2, eng.Book().Bid.Len(), "auction collection never matches immediately")
	require.Equal(t, 2, eng.Book().Offer.Len())

	replies := eng.TransitionPhase(types.TradingPhaseOpen)
	require.NotEmpty(t, replies, "uncrossing must produce execution reports")

	for _, r := range replies {
		exe, ok := r.(protocol.ExecutionReport)
		require.True(t, ok)
		assert.Equal(t, types.ExecTypeOrderTraded, exe.ExecType)
	}
}

func TestAuction_RejectsIOCAndMarketDuringCollection(t *testing.T) {
	eng := testEngine()
	eng.TransitionPhase(types.TradingPhaseOpeningAuction)

	replies := eng.Place(limitOrder("s1", "c1", types.SideBuy, 10.00, 100, types.TimeInForceIOC))
	require.Len(t, replies, 1)
	_, ok := replies[0].(protocol.OrderPlacementReject)
	assert.True(t, ok)
}
