package validation

import (
	"time"

	"github.com/abdoElHodaky/tradSys/internal/core/protocol"
	"github.com/abdoElHodaky/tradSys/internal/core/types"
)

// ValidatePlacement runs the ordered placement-request checker chain of
// spec section 4.1 and returns the first failing Error, or ok=false if
// every check passed. now is the engine's timezone-aware clock (spec
// section 4.1: "not already in the past relative to the engine's
// timezone-aware clock").
func ValidatePlacement(req *protocol.OrderPlacementRequest, instrument *types.Instrument, now time.Time) (Error, bool) {
	if err, fails := checkSide(req.Side, instrument); fails {
		return err, true
	}
	if err, fails := checkOrderType(req.OrderType); fails {
		return err, true
	}
	if err, fails := checkQuantity(req.Quantity, instrument); fails {
		return err, true
	}
	if err, fails := checkPrice(req.OrderType, req.Price, instrument); fails {
		return err, true
	}
	if err, fails := checkTIF(req.TimeInForce, instrument); fails {
		return err, true
	}
	if err, fails := checkExpireInfoPresence(req.TimeInForce, req.ExpireTime, req.ExpireDate); fails {
		return err, true
	}
	if err, fails := checkNotExpired(req.ExpireTime, req.ExpireDate, now); fails {
		return err, true
	}
	if err, fails := checkShortSaleExemptReason(req.Side, req.ShortSaleExemptReason); fails {
		return err, true
	}
	return 0, false
}

// ValidateModification runs the subset of the placement chain that
// applies to a cancel-replace request: side (if changing), quantity,
// price, TIF and expire-info checks. Spec section 4.2.2 only requires
// these fields be re-validated when present on the modification.
func ValidateModification(req *protocol.OrderModificationRequest, instrument *types.Instrument, now time.Time) (Error, bool) {
	if req.Side != nil {
		if err, fails := checkSide(*req.Side, instrument); fails {
			return err, true
		}
	}
	if err, fails := checkQuantity(req.Quantity, instrument); fails {
		return err, true
	}
	if req.Price != nil {
		if err, fails := checkPrice(types.OrderTypeLimit, req.Price, instrument); fails {
			return err, true
		}
	}
	if err, fails := checkTIF(req.TimeInForce, instrument); fails {
		return err, true
	}
	if err, fails := checkExpireInfoPresence(req.TimeInForce, req.ExpireTime, req.ExpireDate); fails {
		return err, true
	}
	if err, fails := checkNotExpired(req.ExpireTime, req.ExpireDate, now); fails {
		return err, true
	}
	return 0, false
}

func checkSide(side types.Side, instrument *types.Instrument) (Error, bool) {
	if side == types.SideUnspecified {
		return SideMissing, true
	}
	if !instrument.SupportsSide(side) {
		return SideUnsupported, true
	}
	return 0, false
}

func checkOrderType(orderType types.OrderType) (Error, bool) {
	if orderType == types.OrderTypeUnspecified {
		return OrderTypeMissing, true
	}
	if orderType != types.OrderTypeLimit && orderType != types.OrderTypeMarket {
		return OrderTypeUnsupported, true
	}
	return 0, false
}

func checkQuantity(quantity *float64, instrument *types.Instrument) (Error, bool) {
	if quantity == nil {
		return OrderQuantityMissing, true
	}
	q := *quantity
	if instrument.MinQuantity != nil && q < *instrument.MinQuantity {
		return OrderQuantityMinViolated, true
	}
	if instrument.MaxQuantity != nil && q > *instrument.MaxQuantity {
		return OrderQuantityMaxViolated, true
	}
	if !types.IsMultipleOfTick(q, instrument.QuantityTick) {
		return OrderQuantityTickViolated, true
	}
	return 0, false
}

func checkPrice(orderType types.OrderType, price *float64, instrument *types.Instrument) (Error, bool) {
	if orderType == types.OrderTypeLimit {
		if price == nil {
			return OrderPriceMissing, true
		}
		if !types.IsMultipleOfTick(*price, instrument.PriceTick) {
			return OrderPriceTickViolated, true
		}
		return 0, false
	}
	// Market
	if price != nil {
		return OrderPriceNotAllowed, true
	}
	return 0, false
}

func checkTIF(tif *types.TimeInForce, instrument *types.Instrument) (Error, bool) {
	if tif == nil {
		return 0, false
	}
	if !instrument.SupportsTIF(*tif) {
		return TimeInForceUnsupported, true
	}
	return 0, false
}

func checkExpireInfoPresence(tif *types.TimeInForce, expireTime, expireDate *time.Time) (Error, bool) {
	requiresExpireInfo := tif != nil && tif.RequiresExpireInfo()
	exactlyOne := (expireTime != nil) != (expireDate != nil)
	neither := expireTime == nil && expireDate == nil

	if requiresExpireInfo && !exactlyOne {
		return OrderExpireInfoViolated, true
	}
	if !requiresExpireInfo && !neither {
		return OrderExpireInfoViolated, true
	}
	return 0, false
}

func checkNotExpired(expireTime, expireDate *time.Time, now time.Time) (Error, bool) {
	if expireTime != nil && expireTime.Before(now) {
		return OrderExpired, true
	}
	if expireDate != nil && expireDate.Before(now) {
		return OrderExpired, true
	}
	return 0, false
}

func checkShortSaleExemptReason(side types.Side, reason *string) (Error, bool) {
	if side == types.SideSellShortExempt && (reason == nil || *reason == "") {
		return ShortSaleExemptReasonMissing, true
	}
	return 0, false
}
