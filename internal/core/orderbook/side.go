// Package orderbook implements the per-instrument OrderBookSide and
// OrderBook of spec section 3: a strict price-time-priority ordered
// container of resting limit orders, keyed by the tie-break
// (price, sequence).
//
// Grounded on internal/core/matching/order_book.go's OrderHeap (a
// container/heap-backed priority structure with a side-aware Less), but
// reworked to track each order's heap index so Remove (used by Cancel,
// Modify and fill-to-zero eviction) is O(log n) instead of the teacher's
// O(n) linear scan - the O(log n)/O(1) removal spec section 9 calls for
// with "intrusive structures".
package orderbook

import (
	"container/heap"
	"sort"

	"github.com/abdoElHodaky/tradSys/internal/core/types"
)

// entry wraps a resting LimitOrder with its position in the side's heap.
type entry struct {
	order *types.LimitOrder
	index int
}

// sideHeap implements heap.Interface with price-time priority (spec
// section 3: "better price first ... equal price ordered by arrival
// sequence number, ascending").
type sideHeap struct {
	entries []*entry
	isBid   bool
}

func (h *sideHeap) Len() int { return len(h.entries) }

func (h *sideHeap) Less(i, j int) bool {
	a, b := h.entries[i].order, h.entries[j].order
	if a.Price != b.Price {
		if h.isBid {
			return a.Price > b.Price
		}
		return a.Price < b.Price
	}
	return a.ArrivalSeq < b.ArrivalSeq
}

func (h *sideHeap) Swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
	h.entries[i].index = i
	h.entries[j].index = j
}

func (h *sideHeap) Push(x interface{}) {
	e := x.(*entry)
	e.index = len(h.entries)
	h.entries = append(h.entries, e)
}

func (h *sideHeap) Pop() interface{} {
	old := h.entries
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	h.entries = old[:n-1]
	return e
}

// Side is a price-time-priority ordered set of resting orders on one
// side of an OrderBook (spec section 3: "OrderBookSide").
type Side struct {
	h    *sideHeap
	byID map[types.VenueOrderID]*entry
}

// NewSide constructs an empty Side. isBid selects buy-side ordering
// (higher price has priority); false selects sell-side ordering (lower
// price has priority).
func NewSide(isBid bool) *Side {
	h := &sideHeap{isBid: isBid}
	heap.Init(h)
	return &Side{h: h, byID: make(map[types.VenueOrderID]*entry)}
}

// Len returns the number of resting orders on this side.
func (s *Side) Len() int { return s.h.Len() }

// Insert adds order to the side. The caller must have already assigned
// order.ArrivalSeq (the tie-break half of the priority key).
func (s *Side) Insert(order *types.LimitOrder) {
	e := &entry{order: order}
	s.byID[order.VenueOrderID] = e
	heap.Push(s.h, e)
}

// Remove evicts and returns the order identified by id, or nil if absent.
func (s *Side) Remove(id types.VenueOrderID) *types.LimitOrder {
	e, ok := s.byID[id]
	if !ok {
		return nil
	}
	heap.Remove(s.h, e.index)
	delete(s.byID, id)
	return e.order
}

// Get returns the resting order identified by id without removing it.
func (s *Side) Get(id types.VenueOrderID) (*types.LimitOrder, bool) {
	e, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return e.order, true
}

// Top returns the best-priority resting order without removing it, or
// nil if the side is empty (spec glossary: "Top of book").
func (s *Side) Top() *types.LimitOrder {
	if s.h.Len() == 0 {
		return nil
	}
	return s.h.entries[0].order
}

// Fix re-establishes heap order for id after an in-place mutation that
// does not change priority (e.g. a quantity decrease - spec section
// 4.2.2). It is a no-op if id is absent.
func (s *Side) Fix(id types.VenueOrderID) {
	if e, ok := s.byID[id]; ok {
		heap.Fix(s.h, e.index)
	}
}

// Snapshot returns every resting order in strict priority order (best
// first), for market-data and persistence use (spec section 6:
// "book sides with every resting order in priority order").
func (s *Side) Snapshot() []*types.LimitOrder {
	ordered := make([]*entry, len(s.h.entries))
	copy(ordered, s.h.entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].order, ordered[j].order
		if a.Price != b.Price {
			if s.h.isBid {
				return a.Price > b.Price
			}
			return a.Price < b.Price
		}
		return a.ArrivalSeq < b.ArrivalSeq
	})
	result := make([]*types.LimitOrder, 0, len(ordered))
	for _, e := range ordered {
		result = append(result, e.order)
	}
	return result
}

// Aggressable reports whether an incoming order on side, priced at
// price, would cross (trade against) this side's current top - spec
// section 4.2.1: "buy >= opposite ask, sell <= opposite bid". side is
// the side of the aggressing order; this Side is the opposite book side
// being checked.
func (s *Side) Aggressable(side types.Side, price float64) bool {
	top := s.Top()
	if top == nil {
		return false
	}
	if side == types.SideBuy {
		return price >= top.Price
	}
	return price <= top.Price
}
