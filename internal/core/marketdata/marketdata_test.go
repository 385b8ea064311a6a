package marketdata

import (
	"testing"

	"github.com/abdoElHodaky/tradSys/internal/core/protocol"
	"github.com/abdoElHodaky/tradSys/internal/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sequentialIDs struct{ n int }

func (s *sequentialIDs) Next() string {
	s.n++
	return string(rune('A' - 1 + s.n))
}

func newTestHub(instrument types.InstrumentID) (*Hub, *Aggregator) {
	hub := NewHub()
	agg := NewAggregator(instrument, &sequentialIDs{})
	hub.Register(instrument, agg)
	return hub, agg
}

func TestHub_SnapshotVsIncremental(t *testing.T) {
	instrument := types.InstrumentID(1)
	hub, agg := newTestHub(instrument)

	agg.UpdateTopOfBook(true, 9.99, 100, true, 10.01, 100)
	agg.Flush() // drain the pre-subscription deltas, nothing to dispatch yet

	session := types.SessionHandle("sess-1")
	reply := hub.HandleRequest(protocol.MarketDataRequest{
		Session:     session,
		RequestID:   "req-1",
		RequestType: types.SubscriptionRequestSubscribe,
		Instruments: []types.InstrumentID{instrument},
		EntryTypes:  []types.MdEntryType{types.MdEntryTypeBid, types.MdEntryTypeOffer},
		UpdateType:  types.MdUpdateTypeIncremental,
	})

	snap, ok := reply.(protocol.MarketDataSnapshot)
	require.True(t, ok, "expected initial MarketDataSnapshot, got %T", reply)
	require.Len(t, snap.Entries, 2)
	for _, e := range snap.Entries {
		assert.Equal(t, types.MdUpdateActionUnspecified, e.Action)
	}

	agg.UpdateTopOfBook(true, 10.00, 50, true, 10.01, 100)
	result := agg.Flush()
	require.Len(t, result.Updates, 1)
	update := result.Updates[0]
	require.Len(t, update.Entries, 1)
	assert.Equal(t, types.MdEntryTypeBid, update.Entries[0].Type)
	assert.Equal(t, types.MdUpdateActionChange, update.Entries[0].Action)
	assert.Equal(t, 10.00, update.Entries[0].Price)
}

func TestHub_DuplicateRequestIDRejected(t *testing.T) {
	instrument := types.InstrumentID(1)
	hub, _ := newTestHub(instrument)
	session := types.SessionHandle("sess-1")

	req := protocol.MarketDataRequest{
		Session:     session,
		RequestID:   "dup",
		RequestType: types.SubscriptionRequestSubscribe,
		Instruments: []types.InstrumentID{instrument},
	}
	hub.HandleRequest(req)
	reply := hub.HandleRequest(req)

	reject, ok := reply.(protocol.MarketDataReject)
	require.True(t, ok)
	assert.Equal(t, types.MdRejectReasonDuplicateMdReqID, reject.RejectReason)
}

func TestHub_UnknownSymbolRejected(t *testing.T) {
	hub := NewHub()
	reply := hub.HandleRequest(protocol.MarketDataRequest{
		Session:     "sess-1",
		RequestID:   "req-1",
		RequestType: types.SubscriptionRequestSnapshot,
		Instruments: []types.InstrumentID{999},
	})
	reject, ok := reply.(protocol.MarketDataReject)
	require.True(t, ok)
	assert.Equal(t, types.MdRejectReasonUnknownSymbol, reject.RejectReason)
}

func TestHub_MultipleInstrumentsRejected(t *testing.T) {
	instrument := types.InstrumentID(1)
	hub, _ := newTestHub(instrument)
	reply := hub.HandleRequest(protocol.MarketDataRequest{
		Session:     "sess-1",
		RequestID:   "req-1",
		RequestType: types.SubscriptionRequestSnapshot,
		Instruments: []types.InstrumentID{instrument, 2},
	})
	reject, ok := reply.(protocol.MarketDataReject)
	require.True(t, ok)
	assert.Equal(t, types.MdRejectReasonUnsupportedRequest, reject.RejectReason)
}

func TestHub_UnsubscribeSendsNoReply(t *testing.T) {
	instrument := types.InstrumentID(1)
	hub, agg := newTestHub(instrument)
	session := types.SessionHandle("sess-1")

	hub.HandleRequest(protocol.MarketDataRequest{
		Session:     session,
		RequestID:   "req-1",
		RequestType: types.SubscriptionRequestSubscribe,
		Instruments: []types.InstrumentID{instrument},
	})
	require.Len(t, agg.Registry().Active(), 1)

	reply := hub.HandleRequest(protocol.MarketDataRequest{
		Session:     session,
		RequestID:   "req-1",
		RequestType: types.SubscriptionRequestUnsubscribe,
		Instruments: []types.InstrumentID{instrument},
	})
	assert.Nil(t, reply)
	assert.Len(t, agg.Registry().Active(), 0)
}

func TestAggregator_EntryIDStableAcrossChangeThenDelete(t *testing.T) {
	agg := NewAggregator(types.InstrumentID(1), &sequentialIDs{})

	agg.UpdateTopOfBook(true, 10.00, 100, false, 0, 0)
	first := agg.Flush()
	require.Len(t, first.Updates, 0) // no subscribers yet, batch still clears

	sub := &types.Subscription{Session: "s", RequestID: "r", Instrument: types.InstrumentID(1), UpdateType: types.MdUpdateTypeIncremental}
	require.NoError(t, agg.Registry().Subscribe(sub))

	agg.UpdateTopOfBook(true, 10.01, 100, false, 0, 0)
	result := agg.Flush()
	require.Len(t, result.Updates, 1)
	newEntry := result.Updates[0].Entries[0]
	assert.Equal(t, types.MdUpdateActionNew, newEntry.Action)
	id := newEntry.EntryID
	require.NotEmpty(t, id)

	agg.UpdateTopOfBook(true, 10.02, 100, false, 0, 0)
	result = agg.Flush()
	changeEntry := result.Updates[0].Entries[0]
	assert.Equal(t, types.MdUpdateActionChange, changeEntry.Action)
	assert.Equal(t, id, changeEntry.EntryID)

	agg.UpdateTopOfBook(false, 0, 0, false, 0, 0)
	result = agg.Flush()
	deleteEntry := result.Updates[0].Entries[0]
	assert.Equal(t, types.MdUpdateActionDelete, deleteEntry.Action)
	assert.Equal(t, id, deleteEntry.EntryID)
}

func TestAggregator_TradeAlwaysGetsFreshID(t *testing.T) {
	agg := NewAggregator(types.InstrumentID(1), &sequentialIDs{})
	sub := &types.Subscription{Session: "s", RequestID: "r", Instrument: types.InstrumentID(1), UpdateType: types.MdUpdateTypeIncremental}
	require.NoError(t, agg.Registry().Subscribe(sub))

	agg.RecordTrade(10.00, 50)
	agg.RecordTrade(10.00, 50)
	result := agg.Flush()
	require.Len(t, result.Updates, 1)
	entries := result.Updates[0].Entries
	var trades int
	for _, e := range entries {
		if e.Type == types.MdEntryTypeTrade {
			trades++
			assert.Equal(t, types.MdUpdateActionNew, e.Action)
		}
	}
	assert.Equal(t, 2, trades)
}

func TestAggregator_SnapshotTypeSubscriberGetsFullRefresh(t *testing.T) {
	agg := NewAggregator(types.InstrumentID(1), &sequentialIDs{})
	sub := &types.Subscription{Session: "s", RequestID: "r", Instrument: types.InstrumentID(1), UpdateType: types.MdUpdateTypeSnapshot}
	require.NoError(t, agg.Registry().Subscribe(sub))

	agg.UpdateTopOfBook(true, 10.00, 100, true, 10.05, 100)
	result := agg.Flush()
	require.Len(t, result.Snapshots, 1)
	require.Len(t, result.Updates, 0)
	assert.Len(t, result.Snapshots[0].Entries, 3) // Bid, Offer, Mid
}
