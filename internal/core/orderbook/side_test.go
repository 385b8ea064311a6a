package orderbook

import (
	"testing"

	"github.com/abdoElHodaky/tradSys/internal/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func order(id string, price float64, seq uint64) *types.LimitOrder {
	return &types.LimitOrder{
		VenueOrderID: types.VenueOrderID(id),
		Price:        price,
		ArrivalSeq:   seq,
		Status:       types.OrderStatusNew,
	}
}

func TestSide_BidOrdersBetterPriceFirst(t *testing.T) {
	s := NewSide(true)
	s.Insert(order("a", 9.99, 1))
	s.Insert(order("b", 10.01, 2))
	s.Insert(order("c", 10.00, 3))

	require.Equal(t, 3, s.Len())
	assert.Equal(t, types.VenueOrderID("b"), s.Top().VenueOrderID)
}

func TestSide_OfferOrdersLowerPriceFirst(t *testing.T) {
	s := NewSide(false)
	s.Insert(order("a", 9.99, 1))
	s.Insert(order("b", 10.01, 2))
	s.Insert(order("c", 10.00, 3))

	assert.Equal(t, types.VenueOrderID("a"), s.Top().VenueOrderID)
}

func TestSide_EqualPriceOrderedByArrival(t *testing.T) {
	s := NewSide(true)
	s.Insert(order("later", 10.00, 5))
	s.Insert(order("earlier", 10.00, 2))

	assert.Equal(t, types.VenueOrderID("earlier"), s.Top().VenueOrderID)
}

func TestSide_SnapshotIsFullPriorityOrder(t *testing.T) {
	s := NewSide(true)
	s.Insert(order("a", 9.99, 1))
	s.Insert(order("b", 10.01, 2))
	s.Insert(order("c", 10.00, 3))

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, types.VenueOrderID("b"), snap[0].VenueOrderID)
	assert.Equal(t, types.VenueOrderID("c"), snap[1].VenueOrderID)
	assert.Equal(t, types.VenueOrderID("a"), snap[2].VenueOrderID)
}

func TestSide_RemoveEvictsAndReturnsOrder(t *testing.T) {
	s := NewSide(true)
	s.Insert(order("a", 10.00, 1))
	s.Insert(order("b", 10.00, 2))

	removed := s.Remove("a")
	require.NotNil(t, removed)
	assert.Equal(t, types.VenueOrderID("a"), removed.VenueOrderID)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, types.VenueOrderID("b"), s.Top().VenueOrderID)
}

func TestSide_RemoveUnknownReturnsNil(t *testing.T) {
	s := NewSide(true)
	assert.Nil(t, s.Remove("missing"))
}

func TestSide_Aggressable(t *testing.T) {
	offer := NewSide(false)
	offer.Insert(order("ask", 10.00, 1))

	assert.True(t, offer.Aggressable(types.SideBuy, 10.00))
	assert.True(t, offer.Aggressable(types.SideBuy, 10.01))
	assert.False(t, offer.Aggressable(types.SideBuy, 9.99))

	bid := NewSide(true)
	bid.Insert(order("bid", 10.00, 1))
	assert.True(t, bid.Aggressable(types.SideSell, 10.00))
	assert.False(t, bid.Aggressable(types.SideSell, 10.01))
}
