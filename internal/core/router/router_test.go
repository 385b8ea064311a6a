package router

import (
	"testing"
	"time"

	"github.com/abdoElHodaky/tradSys/internal/core/engine"
	"github.com/abdoElHodaky/tradSys/internal/core/protocol"
	"github.com/abdoElHodaky/tradSys/internal/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC)
}

func testInstrument(id types.InstrumentID, symbol string) *types.Instrument {
	return &types.Instrument{
		ID:             id,
		Symbol:         symbol,
		PriceTick:      0.01,
		QuantityTick:   1,
		SupportedTIFs:  []types.TimeInForce{types.TimeInForceDay, types.TimeInForceIOC, types.TimeInForceFOK, types.TimeInForceGTD, types.TimeInForceGTC},
		SupportedSides: []types.Side{types.SideBuy, types.SideSell},
	}
}

func newTestRouter(t *testing.T, instruments ...*types.Instrument) *Router {
	t.Helper()
	r := New(Config{Clock: fixedClock})
	for _, inst := range instruments {
		require.NoError(t, r.Register(inst, nil))
		r.SetStatus(inst.ID, types.TradingStatusResume)
		r.TransitionPhase(inst.ID, types.TradingPhaseOpen)
	}
	return r
}

func placementReq(session types.SessionHandle, instrument types.InstrumentID, side types.Side, price, qty float64) *protocol.OrderPlacementRequest {
	p, q := price, qty
	tif := types.TimeInForceDay
	return &protocol.OrderPlacementRequest{
		Session:       session,
		Instrument:    instrument,
		ClientOrderID: types.ClientOrderID("c-" + string(session)),
		Side:          side,
		OrderType:     types.OrderTypeLimit,
		Price:         &p,
		Quantity:      &q,
		TimeInForce:   &tif,
	}
}

func TestRouter_PlaceUnknownInstrumentRejected(t *testing.T) {
	r := newTestRouter(t)
	replies := r.Place(placementReq("s1", 99, types.SideBuy, 10.0, 10))

	require.Len(t, replies, 1)
	reject, ok := replies[0].(protocol.OrderPlacementReject)
	require.True(t, ok)
	assert.Equal(t, "unknown instrument", reject.RejectText)
	assert.NotEmpty(t, reject.VenueOrderID)
}

func TestRouter_PlaceRoutesToCorrectInstrument(t *testing.T) {
	r := newTestRouter(t, testInstrument(1, "AAPL"), testInstrument(2, "MSFT"))

	replies := r.Place(placementReq("s1", 2, types.SideBuy, 10.0, 10))
	require.Len(t, replies, 1)
	conf, ok := replies[0].(protocol.OrderPlacementConfirmation)
	require.True(t, ok)
	assert.Equal(t, types.InstrumentID(2), conf.Instrument)
}

func TestRouter_CancelUnknownInstrumentRejected(t *testing.T) {
	r := newTestRouter(t)
	reply := r.Cancel(&protocol.OrderCancellationRequest{Session: "s1", Instrument: 7, OrigClientOrderID: "c1"})
	reject, ok := reply.(protocol.OrderCancellationReject)
	require.True(t, ok)
	assert.Equal(t, "unknown instrument", reject.RejectText)
}

func TestRouter_SecurityStatusReportsPhaseAndStatus(t *testing.T) {
	r := newTestRouter(t, testInstrument(1, "AAPL"))

	reply := r.SecurityStatus(&protocol.SecurityStatusRequest{Session: "s1", RequestID: "r1", Instrument: 1})
	status, ok := reply.(protocol.SecurityStatus)
	require.True(t, ok)
	assert.Equal(t, types.TradingPhaseOpen, status.Phase)
	assert.Equal(t, types.SecurityTradingStatusReady, status.Status)
}

func TestRouter_SecurityStatusUnknownInstrumentRejected(t *testing.T) {
	r := newTestRouter(t)
	reply := r.SecurityStatus(&protocol.SecurityStatusRequest{Session: "s1", RequestID: "r1", Instrument: 42})
	_, ok := reply.(protocol.BusinessMessageReject)
	assert.True(t, ok)
}

func TestRouter_MarketDataDelegatesToHub(t *testing.T) {
	r := newTestRouter(t, testInstrument(1, "AAPL"))

	reply := r.MarketData(protocol.MarketDataRequest{
		Session:     "s1",
		RequestID:   "md1",
		RequestType: types.SubscriptionRequestSnapshot,
		Instruments: []types.InstrumentID{1},
	})
	snap, ok := reply.(protocol.MarketDataSnapshot)
	require.True(t, ok)
	assert.Equal(t, types.InstrumentID(1), snap.Instrument)
}

func TestRouter_TickDrivesEveryInstrumentIndependently(t *testing.T) {
	r := newTestRouter(t, testInstrument(1, "AAPL"), testInstrument(2, "MSFT"))

	expireAt := fixedClock().Add(30 * time.Minute)
	tif := types.TimeInForceGTD
	price, qty := 10.0, 5.0
	r.Place(&protocol.OrderPlacementRequest{
		Session: "s1", Instrument: 1, ClientOrderID: "c1", Side: types.SideBuy,
		OrderType: types.OrderTypeLimit, Price: &price, Quantity: &qty,
		TimeInForce: &tif, ExpireTime: &expireAt,
	})

	results := r.Tick(expireAt.Add(time.Minute))
	require.Contains(t, results, types.InstrumentID(1))
	assert.NotContains(t, results, types.InstrumentID(2))
}

func TestRouter_RegisterReplacesExistingWorker(t *testing.T) {
	r := New(Config{Clock: fixedClock})
	inst := testInstrument(1, "AAPL")
	require.NoError(t, r.Register(inst, nil))
	require.NoError(t, r.Register(inst, engine.DefaultPhasePolicy()))

	r.SetStatus(1, types.TradingStatusResume)
	r.TransitionPhase(1, types.TradingPhaseOpen)

	replies := r.Place(placementReq("s1", 1, types.SideBuy, 10.0, 10))
	require.Len(t, replies, 1)
	_, ok := replies[0].(protocol.OrderPlacementConfirmation)
	assert.True(t, ok)
}

func TestInstrumentWorker_PanicIsRecoveredAndPoolStaysUsable(t *testing.T) {
	r := newTestRouter(t, testInstrument(1, "AAPL"))
	w, ok := r.lookup(1)
	require.True(t, ok)

	func() {
		defer func() { recover() }()
		_ = w.run(func() { panic("boom") })
	}()

	var ran bool
	err := w.run(func() { ran = true })
	assert.NoError(t, err)
	assert.True(t, ran, "pool must still accept work after a recovered panic")
}
