// Package validation implements the two validator families of spec
// section 4.1: placement/modification validators (operating on inbound
// request attributes plus instrument configuration) and resting-order
// validators (operating on reconstructed state, e.g. snapshot restore).
//
// Each checker is grounded on
// _examples/original_source/project/trading_system/components/matching_engine/ih/orders/validation/checkers.hpp,
// one Go function per C++ checker struct, composed in the fixed order
// spec section 4.1 documents so the engine always reports the first
// failure.
package validation

// Error is the stable, documented validation-error taxonomy of spec
// section 4.1 and section 7 ("Validation errors ... per-field,
// enumerated"). The zero value Error(0) is not a valid error and is
// never returned.
type Error uint8

const (
	_ Error = iota
	SideMissing
	SideUnsupported
	OrderTypeMissing
	OrderTypeUnsupported
	OrderQuantityMissing
	OrderQuantityMinViolated
	OrderQuantityMaxViolated
	OrderQuantityTickViolated
	OrderPriceMissing
	OrderPriceNotAllowed
	OrderPriceTickViolated
	TimeInForceUnsupported
	OrderExpireInfoViolated
	OrderExpired
	ShortSaleExemptReasonMissing
	MarketOrderNoLiquidity
	TradingNotAccepting

	// Resting-order (snapshot-restore) taxonomy, spec section 4.1.
	OrderStatusUnsupported
	TotalQuantityMinViolated
	TotalQuantityMaxViolated
	TotalQuantityTickViolated
	CumExecutedQuantityNegative
	CumExecutedQuantityTickViolated
	CumExecutedQuantityExceedsTotal
	DayOrderExpired
)

var names = map[Error]string{
	SideMissing:                     "SideMissing",
	SideUnsupported:                 "SideUnsupported",
	OrderTypeMissing:                "OrderTypeMissing",
	OrderTypeUnsupported:            "OrderTypeUnsupported",
	OrderQuantityMissing:            "OrderQuantityMissing",
	OrderQuantityMinViolated:        "OrderQuantityMinViolated",
	OrderQuantityMaxViolated:        "OrderQuantityMaxViolated",
	OrderQuantityTickViolated:       "OrderQuantityTickViolated",
	OrderPriceMissing:               "OrderPriceMissing",
	OrderPriceNotAllowed:            "OrderPriceNotAllowed",
	OrderPriceTickViolated:          "OrderPriceTickViolated",
	TimeInForceUnsupported:          "TimeInForceUnsupported",
	OrderExpireInfoViolated:         "OrderExpireInfoViolated",
	OrderExpired:                    "OrderExpired",
	ShortSaleExemptReasonMissing:    "ShortSaleExemptReasonMissing",
	MarketOrderNoLiquidity:          "MarketOrderNoLiquidity",
	TradingNotAccepting:             "TradingNotAccepting",
	OrderStatusUnsupported:          "OrderStatusUnsupported",
	TotalQuantityMinViolated:        "TotalQuantityMinViolated",
	TotalQuantityMaxViolated:        "TotalQuantityMaxViolated",
	TotalQuantityTickViolated:       "TotalQuantityTickViolated",
	CumExecutedQuantityNegative:     "CumExecutedQuantityNegative",
	CumExecutedQuantityTickViolated: "CumExecutedQuantityTickViolated",
	CumExecutedQuantityExceedsTotal: "CumExecutedQuantityExceedsTotal",
	DayOrderExpired:                 "DayOrderExpired",
}

func (e Error) String() string {
	if name, ok := names[e]; ok {
		return name
	}
	return "Unknown"
}

func (e Error) Error() string {
	return "validation: " + e.String()
}
