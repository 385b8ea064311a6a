package marketdata

import (
	"sync"

	"github.com/abdoElHodaky/tradSys/internal/core/protocol"
	"github.com/abdoElHodaky/tradSys/internal/core/types"
)

// Aggregator owns one instrument's published market-data state: the
// top-of-book Bid/Offer cells, the Low/Mid/High statistic cells, a
// rolling trade tape, and the subscription registry that decides who
// receives what (spec section 4.3). One Aggregator exists per
// instrument, alongside that instrument's orderbook.Book.
type Aggregator struct {
	mu         sync.Mutex
	instrument types.InstrumentID
	registry   *Registry

	bid   *PriceCell
	offer *PriceCell
	low   *PriceCell
	mid   *PriceCell
	high  *PriceCell

	lastTrades []types.MarketDataEntry // trade entries pending in the current batch
	batch      []types.MarketDataEntry // accumulated deltas for the in-flight request
}

// NewAggregator constructs an Aggregator for instrument, issuing
// MarketEntryIds through ids.
func NewAggregator(instrument types.InstrumentID, ids idIssuer) *Aggregator {
	return &Aggregator{
		instrument: instrument,
		registry:   NewRegistry(),
		bid:        NewPriceCell(types.MdEntryTypeBid, ids),
		offer:      NewPriceCell(types.MdEntryTypeOffer, ids),
		low:        NewPriceCell(types.MdEntryTypeLow, ids),
		mid:        NewPriceCell(types.MdEntryTypeMid, ids),
		high:       NewPriceCell(types.MdEntryTypeHigh, ids),
	}
}

// Registry exposes the instrument's subscription registry, e.g. for
// session-disconnect cleanup.
func (a *Aggregator) Registry() *Registry { return a.registry }

// UpdateTopOfBook records the book's current best bid/offer. hasBid and
// hasOffer being false models an empty side and deletes the
// corresponding cell (spec section 4.3: "An empty side publishes a
// Delete for its top-of-book entry"). Deltas queue into the current
// batch; call Flush to dispatch them.
func (a *Aggregator) UpdateTopOfBook(hasBid bool, bidPrice, bidQty float64, hasOffer bool, offerPrice, offerQty float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if hasBid {
		if a.bid.Update(bidPrice, bidQty) {
			a.queue(a.bid)
		}
	} else if a.bid.MarkDeleted() {
		a.queue(a.bid)
	}

	if hasOffer {
		if a.offer.Update(offerPrice, offerQty) {
			a.queue(a.offer)
		}
	} else if a.offer.MarkDeleted() {
		a.queue(a.offer)
	}

	a.recomputeMid()
}

// RecordTrade appends a trade print to the current batch and updates
// the session low/high statistics (spec section 4.3: "a trade updates
// low/high before mid"). Trade entries are never coalesced with one
// another; every trade gets its own row, in the order recorded.
func (a *Aggregator) RecordTrade(price, quantity float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.lastTrades = append(a.lastTrades, types.MarketDataEntry{
		Type:        types.MdEntryTypeTrade,
		Price:       price,
		HasPrice:    true,
		Quantity:    quantity,
		HasQuantity: true,
	})

	if a.low.Update(lowerOf(a.low, price), 0) {
		a.queue(a.low)
	}
	if a.high.Update(higherOf(a.high, price), 0) {
		a.queue(a.high)
	}
}

func lowerOf(cell *PriceCell, price float64) float64 {
	if !cell.hasPrice || price < cell.price {
		return price
	}
	return cell.price
}

func higherOf(cell *PriceCell, price float64) float64 {
	if !cell.hasPrice || price > cell.price {
		return price
	}
	return cell.price
}

func (a *Aggregator) recomputeMid() {
	if !a.bid.hasPrice || !a.offer.hasPrice {
		if a.mid.MarkDeleted() {
			a.queue(a.mid)
		}
		return
	}
	midPrice := (a.bid.price + a.offer.price) / 2
	if a.mid.Update(midPrice, 0) {
		a.queue(a.mid)
	}
}

func (a *Aggregator) queue(c *PriceCell) {
	e, ok := c.Entry()
	if !ok {
		return
	}
	a.batch = append(a.batch, e)
}

// FlushResult batches everything one Flush produced: Incremental
// subscribers get a MarketDataUpdate of deltas, Snapshot-type
// subscribers get a fresh full MarketDataSnapshot instead (spec section
// 3: update_type Snapshot|Incremental).
type FlushResult struct {
	Updates   []protocol.MarketDataUpdate
	Snapshots []protocol.MarketDataSnapshot
}

// Empty reports whether nothing was produced.
func (r FlushResult) Empty() bool { return len(r.Updates) == 0 && len(r.Snapshots) == 0 }

// Flush drains the trade tape and any queued top-of-book/statistic
// deltas and dispatches them to every active subscriber that accepts at
// least one of the queued entry types, in the spec section 4.3 ordering:
// trades first, then top-of-book changes, then aggregated statistics.
// Subscribers with update_type Incremental receive only the deltas;
// subscribers with update_type Snapshot receive a fresh full refresh
// instead (trades are transient and never appear in a Snapshot). It
// returns a zero FlushResult when nothing changed, so a router can skip
// a no-op dispatch cheaply.
func (a *Aggregator) Flush() FlushResult {
	a.mu.Lock()
	trades := a.lastTrades
	deltas := a.batch
	a.lastTrades = nil
	a.batch = nil
	a.mu.Unlock()

	if len(trades) == 0 && len(deltas) == 0 {
		return FlushResult{}
	}
	combined := make([]types.MarketDataEntry, 0, len(trades)+len(deltas))
	combined = append(combined, trades...)
	combined = append(combined, deltas...)

	var result FlushResult
	for _, sub := range a.registry.Active() {
		if sub.UpdateType == types.MdUpdateTypeSnapshot {
			result.Snapshots = append(result.Snapshots, a.Snapshot(sub))
			continue
		}
		filtered := filterByDepthAndMask(combined, sub)
		if len(filtered) == 0 {
			continue
		}
		result.Updates = append(result.Updates, protocol.MarketDataUpdate{
			Session:    sub.Session,
			RequestID:  sub.RequestID,
			Instrument: a.instrument,
			Entries:    filtered,
		})
	}
	return result
}

// filterByDepthAndMask keeps only the entries sub's entry_type_mask
// accepts. MarketDepth bounds the number of Bid/Offer levels a
// subscriber receives, but this aggregator only ever tracks one level
// per side (spec section 3 names a single top-of-book cell per side),
// so depth beyond 1 is a no-op filter here.
func filterByDepthAndMask(entries []types.MarketDataEntry, sub *types.Subscription) []types.MarketDataEntry {
	out := make([]types.MarketDataEntry, 0, len(entries))
	for _, e := range entries {
		if sub.Accepts(e.Type) {
			out = append(out, e)
		}
	}
	return out
}

// Snapshot renders a full, action-omitted view of every published cell,
// for an initial Snapshot or SnapshotPlusUpdates response (spec section
// 4.3). Entries are filtered by sub's entry_type_mask.
func (a *Aggregator) Snapshot(sub *types.Subscription) protocol.MarketDataSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	var entries []types.MarketDataEntry
	for _, c := range []*PriceCell{a.bid, a.offer, a.low, a.mid, a.high} {
		if e, ok := c.SnapshotEntry(); ok && sub.Accepts(e.Type) {
			entries = append(entries, e)
		}
	}
	return protocol.MarketDataSnapshot{
		Session:    sub.Session,
		RequestID:  sub.RequestID,
		Instrument: a.instrument,
		Entries:    entries,
	}
}
