package engine

import (
	"github.com/abdoElHodaky/tradSys/internal/core/protocol"
	"github.com/abdoElHodaky/tradSys/internal/core/types"
)

// fillResult is one match between an aggressing and a resting order.
type fillResult struct {
	trade        types.Trade
	aggressorExe protocol.ExecutionReport
	restingExe   protocol.ExecutionReport
	restingOrder *types.LimitOrder
	restingFully bool
}

// applyFill executes qty at price between aggressor and resting,
// mutating both orders' cumulative quantity and status in place (spec
// section 4.2.1 step 4: "Update cum_executed on both orders"). It does
// not touch the book; the caller removes resting if restingFully is set.
func (e *Engine) applyFill(aggressor, resting *types.LimitOrder, price, qty float64) fillResult {
	aggressor.CumExecutedQty += qty
	resting.CumExecutedQty += qty

	aggressor.Status = statusAfterFill(aggressor)
	resting.Status = statusAfterFill(resting)

	var buyOrder, sellOrder *types.LimitOrder
	if aggressor.IsBuySide() {
		buyOrder, sellOrder = aggressor, resting
	} else {
		buyOrder, sellOrder = resting, aggressor
	}

	trade := types.Trade{
		TradeID:        e.nextExecID(aggressor.VenueOrderID),
		BuyerOrderID:   buyOrder.VenueOrderID,
		SellerOrderID:  sellOrder.VenueOrderID,
		TradePrice:     price,
		TradedQuantity: qty,
		AggressorSide:  aggressor.Side,
		Timestamp:      e.clock(),
		BuyerParties:   buyOrder.Parties,
		SellerParties:  sellOrder.Parties,
	}

	aggressorExe := protocol.ExecutionReport{
		Session:        aggressor.Session,
		Instrument:     aggressor.Instrument,
		ClientOrderID:  aggressor.ClientOrderID,
		VenueOrderID:   aggressor.VenueOrderID,
		ExecutionID:    e.nextExecID(aggressor.VenueOrderID),
		ExecType:       types.ExecTypeOrderTraded,
		OrderStatus:    aggressor.Status,
		Side:           aggressor.Side,
		LastPrice:      price,
		LastQuantity:   qty,
		CumQuantity:    aggressor.CumExecutedQty,
		LeavesQuantity: aggressor.RemainingQuantity(),
		TradeID:        trade.TradeID,
		CounterpartyID: resting.VenueOrderID,
		Parties:        aggressor.Parties,
	}
	restingExe := protocol.ExecutionReport{
		Session:        resting.Session,
		Instrument:     resting.Instrument,
		ClientOrderID:  resting.ClientOrderID,
		VenueOrderID:   resting.VenueOrderID,
		ExecutionID:    e.nextExecID(resting.VenueOrderID),
		ExecType:       types.ExecTypeOrderTraded,
		OrderStatus:    resting.Status,
		Side:           resting.Side,
		LastPrice:      price,
		LastQuantity:   qty,
		CumQuantity:    resting.CumExecutedQty,
		LeavesQuantity: resting.RemainingQuantity(),
		TradeID:        trade.TradeID,
		CounterpartyID: aggressor.VenueOrderID,
		Parties:        resting.Parties,
	}

	e.agg.RecordTrade(price, qty)
	e.metrics.RecordTrade(e.instrument.Symbol)

	return fillResult{
		trade:        trade,
		aggressorExe: aggressorExe,
		restingExe:   restingExe,
		restingOrder: resting,
		restingFully: resting.RemainingQuantity() <= 0,
	}
}

func statusAfterFill(o *types.LimitOrder) types.OrderStatus {
	if o.RemainingQuantity() <= 0 {
		return types.OrderStatusFilled
	}
	return types.OrderStatusPartiallyFilled
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
