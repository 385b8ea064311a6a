package router

import (
	"sync"
	"time"

	"github.com/abdoElHodaky/tradSys/internal/core/protocol"
	"github.com/abdoElHodaky/tradSys/internal/core/types"
)

// Place routes a new-order request to its instrument's worker. An
// unknown instrument is rejected by the Notifier before any worker is
// touched, since no engine exists to build the reject itself.
func (r *Router) Place(req *protocol.OrderPlacementRequest) []protocol.Reply {
	w, ok := r.lookup(req.Instrument)
	if !ok {
		return []protocol.Reply{r.notifier.RejectPlacement(req, "unknown instrument")}
	}

	var replies []protocol.Reply
	_ = w.run(func() { replies = w.engine.Place(req) })
	return replies
}

// Modify routes a cancel-replace request to its instrument's worker.
func (r *Router) Modify(req *protocol.OrderModificationRequest) []protocol.Reply {
	w, ok := r.lookup(req.Instrument)
	if !ok {
		return []protocol.Reply{r.notifier.RejectModification(req, "unknown instrument")}
	}

	var replies []protocol.Reply
	_ = w.run(func() { replies = w.engine.Modify(req) })
	return replies
}

// Cancel routes a cancellation request to its instrument's worker.
func (r *Router) Cancel(req *protocol.OrderCancellationRequest) protocol.Reply {
	w, ok := r.lookup(req.Instrument)
	if !ok {
		return r.notifier.RejectCancellation(req, "unknown instrument")
	}

	var reply protocol.Reply
	_ = w.run(func() { reply = w.engine.Cancel(req) })
	return reply
}

// MarketData hands an inbound MarketDataRequest straight to the shared
// Hub: subscription bookkeeping does not touch an instrument's engine or
// its serialized worker, so no Dispatch indirection is needed here.
func (r *Router) MarketData(req protocol.MarketDataRequest) protocol.Reply {
	return r.hub.HandleRequest(req)
}

// SecurityStatus answers a SecurityStatusRequest from an instrument's
// live phase/status, named in spec section 6 but detailed only by this
// package (spec section 4's "Security status" addition).
func (r *Router) SecurityStatus(req *protocol.SecurityStatusRequest) protocol.Reply {
	w, ok := r.lookup(req.Instrument)
	if !ok {
		return r.notifier.RejectSecurityStatus(req, "unknown instrument")
	}

	var reply protocol.SecurityStatus
	_ = w.run(func() {
		reply = protocol.SecurityStatus{
			Session:    req.Session,
			RequestID:  req.RequestID,
			Instrument: req.Instrument,
			Phase:      w.engine.Phase(),
			Status:     securityTradingStatus(w.engine.Phase(), w.engine.Status()),
		}
	})
	return reply
}

// TransitionPhase drives one instrument through a venue phase change,
// e.g. leaving an auction phase to trigger its uncrossing.
func (r *Router) TransitionPhase(instrument types.InstrumentID, phase types.TradingPhase) []protocol.Reply {
	w, ok := r.lookup(instrument)
	if !ok {
		return nil
	}
	var replies []protocol.Reply
	_ = w.run(func() { replies = w.engine.TransitionPhase(phase) })
	return replies
}

// SetStatus drives one instrument's halt/resume control.
func (r *Router) SetStatus(instrument types.InstrumentID, status types.TradingStatus) {
	w, ok := r.lookup(instrument)
	if !ok {
		return
	}
	_ = w.run(func() { w.engine.SetStatus(status) })
}

// Tick drives every registered instrument's GTD/Day expiry sweep once.
// Each instrument ticks through its own worker, so a slow expiry sweep
// on one instrument never blocks another's.
func (r *Router) Tick(now time.Time) map[types.InstrumentID][]protocol.Reply {
	r.mu.RLock()
	workers := make([]*instrumentWorker, 0, len(r.workers))
	for _, w := range r.workers {
		workers = append(workers, w)
	}
	r.mu.RUnlock()

	results := make(map[types.InstrumentID][]protocol.Reply, len(workers))
	var mu sync.Mutex
	done := make(chan struct{}, len(workers))
	for _, w := range workers {
		w := w
		go func() {
			var replies []protocol.Reply
			_ = w.run(func() { replies = w.engine.Tick(now) })
			if len(replies) > 0 {
				mu.Lock()
				results[w.instrument] = replies
				mu.Unlock()
			}
			done <- struct{}{}
		}()
	}
	for range workers {
		<-done
	}
	return results
}

func securityTradingStatus(phase types.TradingPhase, status types.TradingStatus) types.SecurityTradingStatus {
	if status == types.TradingStatusHalt {
		return types.SecurityTradingStatusTradingHalt
	}
	switch phase {
	case types.TradingPhaseClosed, types.TradingPhasePostTrading:
		return types.SecurityTradingStatusNotAvailableForTrading
	default:
		return types.SecurityTradingStatusReady
	}
}
