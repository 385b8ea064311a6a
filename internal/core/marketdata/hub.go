package marketdata

import (
	"sync"

	"github.com/abdoElHodaky/tradSys/internal/core/protocol"
	"github.com/abdoElHodaky/tradSys/internal/core/types"
)

// Hub owns every instrument's Aggregator and turns inbound
// MarketDataRequests into the Snapshot/Subscribe/Unsubscribe/Reject
// handling spec section 4.3 describes.
type Hub struct {
	mu          sync.RWMutex
	aggregators map[types.InstrumentID]*Aggregator
}

// NewHub constructs an empty Hub.
func NewHub() *Hub {
	return &Hub{aggregators: make(map[types.InstrumentID]*Aggregator)}
}

// Register adds (or replaces) the Aggregator for instrument, typically
// called once at instrument load time alongside its orderbook.Book.
func (h *Hub) Register(instrument types.InstrumentID, agg *Aggregator) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.aggregators[instrument] = agg
}

// Lookup returns the Aggregator for instrument, if known.
func (h *Hub) Lookup(instrument types.InstrumentID) (*Aggregator, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	agg, ok := h.aggregators[instrument]
	return agg, ok
}

// FlushAll drains every registered instrument's Aggregator, for a
// periodic dissemination loop to publish onto an external transport.
// Instruments with nothing queued since the last flush are omitted.
func (h *Hub) FlushAll() map[types.InstrumentID]FlushResult {
	h.mu.RLock()
	aggs := make(map[types.InstrumentID]*Aggregator, len(h.aggregators))
	for id, agg := range h.aggregators {
		aggs[id] = agg
	}
	h.mu.RUnlock()

	results := make(map[types.InstrumentID]FlushResult, len(aggs))
	for id, agg := range aggs {
		result := agg.Flush()
		if !result.Empty() {
			results[id] = result
		}
	}
	return results
}

// HandleRequest implements the spec section 4.3 subscription lifecycle
// for one inbound MarketDataRequest, returning exactly one Reply.
func (h *Hub) HandleRequest(req protocol.MarketDataRequest) protocol.Reply {
	if len(req.Instruments) != 1 {
		return protocol.MarketDataReject{
			Session:      req.Session,
			RequestID:    req.RequestID,
			RejectReason: types.MdRejectReasonUnsupportedRequest,
			RejectText:   "exactly one instrument per MarketDataRequest is supported",
		}
	}
	instrument := req.Instruments[0]
	agg, ok := h.Lookup(instrument)
	if !ok {
		return protocol.MarketDataReject{
			Session:      req.Session,
			RequestID:    req.RequestID,
			RejectReason: types.MdRejectReasonUnknownSymbol,
		}
	}

	mask := make(map[types.MdEntryType]bool, len(req.EntryTypes))
	for _, t := range req.EntryTypes {
		mask[t] = true
	}
	sub := &types.Subscription{
		Session:       req.Session,
		RequestID:     req.RequestID,
		Instrument:    instrument,
		EntryTypeMask: mask,
		MarketDepth:   req.MarketDepth,
		UpdateType:    req.UpdateType,
	}

	switch req.RequestType {
	case types.SubscriptionRequestSnapshot:
		return agg.Snapshot(sub)

	case types.SubscriptionRequestSubscribe:
		if err := agg.Registry().Subscribe(sub); err != nil {
			return protocol.MarketDataReject{
				Session:      req.Session,
				RequestID:    req.RequestID,
				RejectReason: types.MdRejectReasonDuplicateMdReqID,
			}
		}
		return agg.Snapshot(sub)

	case types.SubscriptionRequestUnsubscribe:
		agg.Registry().Unsubscribe(req.Session, req.RequestID)
		return nil

	default:
		return protocol.MarketDataReject{
			Session:      req.Session,
			RequestID:    req.RequestID,
			RejectReason: types.MdRejectReasonUnsupportedRequest,
		}
	}
}

// RemoveSession drops every subscription owned by session across all
// instruments (spec section 5: session disconnect).
func (h *Hub) RemoveSession(session types.SessionHandle) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, agg := range h.aggregators {
		agg.Registry().RemoveSession(session)
	}
}
