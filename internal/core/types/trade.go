package types

import "time"

// Trade records one fill between a buy and a sell order (spec section 3).
type Trade struct {
	TradeID         string
	BuyerOrderID    VenueOrderID
	SellerOrderID   VenueOrderID
	TradePrice      float64
	TradedQuantity  float64
	AggressorSide   Side
	Timestamp       time.Time
	BuyerParties    []Party
	SellerParties   []Party
}
