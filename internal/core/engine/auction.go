package engine

import (
	"sort"

	"github.com/abdoElHodaky/tradSys/internal/core/protocol"
	"github.com/abdoElHodaky/tradSys/internal/core/types"
)

// TransitionPhase implements spec section 4.2.5: the engine consumes a
// TradingPhase stream and uncrosses the book whenever an auction phase
// ends.
func (e *Engine) TransitionPhase(newPhase types.TradingPhase) []protocol.Reply {
	var replies []protocol.Reply
	if e.phase.IsAuction() && !newPhase.IsAuction() {
		replies = e.uncrossAuction()
	}
	e.phase = newPhase
	e.publishTopOfBook()
	return replies
}

// SetStatus implements the Halt/Resume half of spec section 4.2.5.
func (e *Engine) SetStatus(status types.TradingStatus) {
	e.status = status
}

// uncrossAuction drains the book at a single uncrossing price chosen to
// maximize executed volume, with price-time priority as tie-break (spec
// section 4.2.5). Orders that cannot be matched at the chosen price
// carry over into continuous trading unchanged.
func (e *Engine) uncrossAuction() []protocol.Reply {
	bids := e.book.Bid.Snapshot()
	offers := e.book.Offer.Snapshot()

	price, ok := uncrossingPrice(bids, offers)
	if !ok {
		return nil
	}

	var replies []protocol.Reply
	bi, oi := 0, 0
	for bi < len(bids) && oi < len(offers) {
		buy, sell := bids[bi], offers[oi]
		if buy.Price < price || sell.Price > price {
			break
		}
		qty := min(buy.RemainingQuantity(), sell.RemainingQuantity())
		if qty <= 0 {
			break
		}
		result := e.applyFill(buy, sell, price, qty)
		// applyFill assumes the first argument is the aggressor for
		// trade-id generation purposes only; in an auction uncrossing
		// neither side is the aggressor, so this is an arbitrary but
		// stable choice.
		replies = append(replies, result.aggressorExe, result.restingExe)

		if buy.RemainingQuantity() <= 0 {
			e.book.Bid.Remove(buy.VenueOrderID)
			e.deindex(buy)
			bi++
		}
		if sell.RemainingQuantity() <= 0 {
			e.book.Offer.Remove(sell.VenueOrderID)
			e.deindex(sell)
			oi++
		}
	}
	return replies
}

// uncrossingPrice returns the price maximizing tradable volume between
// bids and offers. Ties are broken by the smallest bid/offer volume
// imbalance at that price, then by the lowest price (spec section 4.2.5:
// "chosen to maximize executed volume, with price-time priority as
// tie-break" - price-time priority governs which individual orders
// execute once the price is fixed; the price-selection tie-break itself
// is this engine's own deterministic choice, recorded here since the
// spec does not name one).
func uncrossingPrice(bids, offers []*types.LimitOrder) (float64, bool) {
	if len(bids) == 0 || len(offers) == 0 {
		return 0, false
	}

	candidates := make(map[float64]struct{}, len(bids)+len(offers))
	for _, o := range bids {
		candidates[o.Price] = struct{}{}
	}
	for _, o := range offers {
		candidates[o.Price] = struct{}{}
	}
	sorted := make([]float64, 0, len(candidates))
	for p := range candidates {
		sorted = append(sorted, p)
	}
	sort.Float64s(sorted)

	bestPrice := 0.0
	bestVolume := -1.0
	bestImbalance := 0.0
	found := false

	for _, p := range sorted {
		var bidVol, offerVol float64
		for _, o := range bids {
			if o.Price >= p {
				bidVol += o.RemainingQuantity()
			}
		}
		for _, o := range offers {
			if o.Price <= p {
				offerVol += o.RemainingQuantity()
			}
		}
		volume := min(bidVol, offerVol)
		if volume <= 0 {
			continue
		}
		imbalance := bidVol - offerVol
		if imbalance < 0 {
			imbalance = -imbalance
		}
		if !found || volume > bestVolume || (volume == bestVolume && imbalance < bestImbalance) {
			bestPrice, bestVolume, bestImbalance, found = p, volume, imbalance, true
		}
	}
	return bestPrice, found
}
