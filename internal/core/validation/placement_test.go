package validation

import (
	"testing"
	"time"

	"github.com/abdoElHodaky/tradSys/internal/core/protocol"
	"github.com/abdoElHodaky/tradSys/internal/core/types"
	"github.com/stretchr/testify/assert"
)

func testInstrument() *types.Instrument {
	min := 1.0
	max := 10000.0
	return &types.Instrument{
		ID:             1,
		Symbol:         "AAPL",
		PriceTick:      0.01,
		QuantityTick:   1,
		MinQuantity:    &min,
		MaxQuantity:    &max,
		SupportedSides: []types.Side{types.SideBuy, types.SideSell, types.SideSellShort, types.SideSellShortExempt},
		SupportedTIFs:  []types.TimeInForce{types.TimeInForceDay, types.TimeInForceIOC, types.TimeInForceFOK, types.TimeInForceGTD, types.TimeInForceGTC},
	}
}

func qty(v float64) *float64 { return &v }
func px(v float64) *float64  { return &v }
func tif(t types.TimeInForce) *types.TimeInForce { return &t }

func TestValidatePlacement_Valid(t *testing.T) {
	req := &protocol.OrderPlacementRequest{
		Side:      types.SideBuy,
		OrderType: types.OrderTypeLimit,
		Quantity:  qty(100),
		Price:     px(10.00),
	}
	_, fails := ValidatePlacement(req, testInstrument(), time.Now())
	assert.False(t, fails)
}

func TestValidatePlacement_SideMissing(t *testing.T) {
	req := &protocol.OrderPlacementRequest{
		OrderType: types.OrderTypeLimit,
		Quantity:  qty(100),
		Price:     px(10.00),
	}
	err, fails := ValidatePlacement(req, testInstrument(), time.Now())
	assert.True(t, fails)
	assert.Equal(t, SideMissing, err)
}

func TestValidatePlacement_FirstFailureWins(t *testing.T) {
	// Both side is missing AND quantity is missing; side must be reported
	// first per the documented ordering in spec section 4.1.
	req := &protocol.OrderPlacementRequest{
		OrderType: types.OrderTypeLimit,
		Price:     px(10.00),
	}
	err, fails := ValidatePlacement(req, testInstrument(), time.Now())
	assert.True(t, fails)
	assert.Equal(t, SideMissing, err)
}

func TestValidatePlacement_PriceTickViolation(t *testing.T) {
	req := &protocol.OrderPlacementRequest{
		Side:      types.SideBuy,
		OrderType: types.OrderTypeLimit,
		Quantity:  qty(100),
		Price:     px(10.001),
	}
	err, fails := ValidatePlacement(req, testInstrument(), time.Now())
	assert.True(t, fails)
	assert.Equal(t, OrderPriceTickViolated, err)
}

func TestValidatePlacement_MarketOrderMustNotHavePrice(t *testing.T) {
	req := &protocol.OrderPlacementRequest{
		Side:      types.SideBuy,
		OrderType: types.OrderTypeMarket,
		Quantity:  qty(100),
		Price:     px(10.00),
	}
	err, fails := ValidatePlacement(req, testInstrument(), time.Now())
	assert.True(t, fails)
	assert.Equal(t, OrderPriceNotAllowed, err)
}

func TestValidatePlacement_GTDRequiresExactlyOneExpireField(t *testing.T) {
	req := &protocol.OrderPlacementRequest{
		Side:        types.SideBuy,
		OrderType:   types.OrderTypeLimit,
		Quantity:    qty(100),
		Price:       px(10.00),
		TimeInForce: tif(types.TimeInForceGTD),
	}
	err, fails := ValidatePlacement(req, testInstrument(), time.Now())
	assert.True(t, fails)
	assert.Equal(t, OrderExpireInfoViolated, err)
}

func TestValidatePlacement_GTDExpiredInPast(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	req := &protocol.OrderPlacementRequest{
		Side:        types.SideBuy,
		OrderType:   types.OrderTypeLimit,
		Quantity:    qty(100),
		Price:       px(10.00),
		TimeInForce: tif(types.TimeInForceGTD),
		ExpireTime:  &past,
	}
	err, fails := ValidatePlacement(req, testInstrument(), time.Now())
	assert.True(t, fails)
	assert.Equal(t, OrderExpired, err)
}

func TestValidatePlacement_SellShortExemptRequiresReason(t *testing.T) {
	req := &protocol.OrderPlacementRequest{
		Side:      types.SideSellShortExempt,
		OrderType: types.OrderTypeLimit,
		Quantity:  qty(100),
		Price:     px(10.00),
	}
	err, fails := ValidatePlacement(req, testInstrument(), time.Now())
	assert.True(t, fails)
	assert.Equal(t, ShortSaleExemptReasonMissing, err)
}

func TestValidatePlacement_QuantityBelowMinimum(t *testing.T) {
	req := &protocol.OrderPlacementRequest{
		Side:      types.SideBuy,
		OrderType: types.OrderTypeLimit,
		Quantity:  qty(0.5),
		Price:     px(10.00),
	}
	err, fails := ValidatePlacement(req, testInstrument(), time.Now())
	assert.True(t, fails)
	assert.Equal(t, OrderQuantityMinViolated, err)
}
