package orderbook

import (
	"sync/atomic"

	"github.com/abdoElHodaky/tradSys/internal/core/types"
)

// Book is the pair {bid_side, offer_side} of spec section 3. The
// per-instrument aggregated-statistics cell spec section 3 also
// describes lives in internal/core/marketdata instead, since it is
// driven by - and only meaningful in terms of - the aggregator's
// entry-id-stable New/Change/Delete lifecycle (spec section 4.3).
type Book struct {
	Bid    *Side
	Offer  *Side
	nextSeq uint64
}

// NewBook constructs an empty order book.
func NewBook() *Book {
	return &Book{Bid: NewSide(true), Offer: NewSide(false)}
}

// NextSequence returns the next book-wide arrival sequence number,
// spec section 3's "arrival order-book sequence number".
func (b *Book) NextSequence() uint64 {
	return atomic.AddUint64(&b.nextSeq, 1)
}

// SideFor returns the Side a resting order of the given order side
// belongs on (Buy -> Bid, everything else -> Offer; spec section 3
// treats Sell/SellShort/SellShortExempt identically for book placement).
func (b *Book) SideFor(side types.Side) *Side {
	if side == types.SideBuy {
		return b.Bid
	}
	return b.Offer
}

// OppositeSideFor returns the Side an order of the given side aggresses
// against.
func (b *Book) OppositeSideFor(side types.Side) *Side {
	if side == types.SideBuy {
		return b.Offer
	}
	return b.Bid
}
