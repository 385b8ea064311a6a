package validation

import (
	"time"

	"github.com/abdoElHodaky/tradSys/internal/core/types"
)

// ValidateRestingOrder runs the resting-order (snapshot-restore) checker
// chain of spec section 4.1 against a reconstructed LimitOrder and the
// book side it is being placed on. today is the venue-local calendar
// date used for the day-order check.
func ValidateRestingOrder(order *types.LimitOrder, side types.Side, instrument *types.Instrument, today time.Time) (Error, bool) {
	if err, fails := checkRestingStatus(order.Status, side); fails {
		return err, true
	}
	if err, fails := checkTotalQuantity(order.OriginalQuantity, instrument); fails {
		return err, true
	}
	if err, fails := checkCumExecutedQuantity(order.CumExecutedQty, order.OriginalQuantity, instrument); fails {
		return err, true
	}
	if order.TimeInForce == types.TimeInForceDay {
		if err, fails := checkDayOrderNotExpired(order.CreatedDate, today); fails {
			return err, true
		}
	}
	return 0, false
}

func checkRestingStatus(status types.OrderStatus, side types.Side) (Error, bool) {
	if !status.IsResting() {
		return OrderStatusUnsupported, true
	}
	_ = side // side is taken for symmetry with the C++ OrderSideSupported checker; every resting status is valid on either side in this model.
	return 0, false
}

func checkTotalQuantity(total float64, instrument *types.Instrument) (Error, bool) {
	if instrument.MinQuantity != nil && total < *instrument.MinQuantity {
		return TotalQuantityMinViolated, true
	}
	if instrument.MaxQuantity != nil && total > *instrument.MaxQuantity {
		return TotalQuantityMaxViolated, true
	}
	if !types.IsMultipleOfTick(total, instrument.QuantityTick) {
		return TotalQuantityTickViolated, true
	}
	return 0, false
}

func checkCumExecutedQuantity(cum, total float64, instrument *types.Instrument) (Error, bool) {
	if cum < 0 {
		return CumExecutedQuantityNegative, true
	}
	if !types.IsMultipleOfTick(cum, instrument.QuantityTick) {
		return CumExecutedQuantityTickViolated, true
	}
	if cum >= total {
		return CumExecutedQuantityExceedsTotal, true
	}
	return 0, false
}

func checkDayOrderNotExpired(createdDate, today time.Time) (Error, bool) {
	if !sameCalendarDate(createdDate, today) {
		return DayOrderExpired, true
	}
	return 0, false
}

func sameCalendarDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
