package risk

import (
	"context"

	"github.com/abdoElHodaky/tradSys/internal/db/repositories"
	"github.com/abdoElHodaky/tradSys/proto/risk"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// HandlerParams contains the parameters for creating a risk handler
type HandlerParams struct {
	fx.In

	Logger     *zap.Logger
	Repository *repositories.RiskRepository `optional:"true"`
}

// Handler implements the RiskService handler
type Handler struct {
	risk.UnimplementedRiskServiceServer
	logger     *zap.Logger
	repository *repositories.RiskRepository
}

// NewHandler creates a new risk handler with fx dependency injection
func NewHandler(p HandlerParams) *Handler {
	return &Handler{
		logger:     p.Logger,
		repository: p.Repository,
	}
}

// GetAccountRisk implements the RiskService.GetAccountRisk method
func (h *Handler) GetAccountRisk(ctx context.Context, req *risk.AccountRiskRequest, rsp *risk.AccountRiskResponse) error {
	h.logger.Info("GetAccountRisk called",
		zap.String("account_id", req.AccountId))

	// Implementation would go here
	// For now, just return a placeholder response
	rsp.AccountId = req.AccountId
	rsp.TotalValue = 100000.0
	rsp.AvailableMargin = 50000.0
	rsp.UsedMargin = 50000.0
	rsp.MarginLevel = 2.0
	rsp.MarginCallLevel = 1.5
	rsp.LiquidationLevel = 1.1
	rsp.DailyPnl = 1000.0
	rsp.TotalPnl = 5000.0
	rsp.RiskLevel = risk.RiskLevel_LOW

	// Add risk limits
	rsp.RiskLimits = &risk.RiskLimits{
		MaxPositionSize: 10.0,
		MaxOrderSize:    5.0,
		MaxLeverage:     10.0,
		MaxDailyLoss:    10000.0,
		MaxTotalLoss:    50000.0,
		MinMarginLevel:  1.2,
		MarginCallLevel: 1.5,
		LiquidationLevel: 1.1,
	}

	// Add positions
	rsp.Positions = []*risk.Position{
		{
			Symbol:          "BTC-USD",
			Size:            1.0,
			EntryPrice:      50000.0,
			CurrentPrice:    51000.0,
			LiquidationPrice: 45000.0,
			UnrealizedPnl:   1000.0,
			RealizedPnl:     500.0,
		},
		{
			Symbol:          "ETH-USD",
			Size:            10.0,
			EntryPrice:      3000.0,
			CurrentPrice:    3100.0,
			LiquidationPrice: 2700.0,
			UnrealizedPnl:   1000.0,
			RealizedPnl:     200.0,
		},
	}

	return nil
}

// GetPositionRisk implements the RiskService.GetPositionRisk method
func (h *Handler) GetPositionRisk(ctx context.Context, req *risk.PositionRiskRequest, rsp *risk.PositionRiskResponse) error {
	h.logger.Info("GetPositionRisk called",
		zap.String("account_id", req.AccountId),
		zap.String("symbol", req.Symbol))

	// Implementation would go here
	// For now, just return a placeholder response
	rsp.AccountId = req.AccountId
	rsp.Symbol = req.Symbol
	rsp.Size = 1.0
	rsp.EntryPrice = 50000.0
	rsp.CurrentPrice = 51000.0
	rsp.LiquidationPrice = 45000.0
	rsp.UnrealizedPnl = 1000.0
	rsp.RealizedPnl = 500.0
	rsp.InitialMargin = 5000.0
	rsp.MaintenanceMargin = 2500.0
	rsp.RiskLevel = risk.RiskLevel_LOW

	return nil
}

// GetOrderRisk implements the RiskService.GetOrderRisk method
func (h *Handler) GetOrderRisk(ctx context.Context, req *risk.OrderRiskRequest, rsp *risk.OrderRiskResponse) error {
	h.logger.Info("GetOrderRisk called",
		zap.String("account_id", req.AccountId),
		zap.String("symbol", req.Symbol))

	// Implementation would go here
	// For now, just return a placeholder response
	rsp.AccountId = req.AccountId
	rsp.Symbol = req.Symbol
	rsp.Side = req.Side
	rsp.Type = req.Type
	rsp.Quantity = req.Quantity
	rsp.Price = req.Price
	rsp.RequiredMargin = 5000.0
	rsp.AvailableMarginAfter = 45000.0
	rsp.MarginLevelAfter = 1.9
	rsp.RiskLevel = risk.RiskLevel_LOW
	rsp.IsAllowed = true

	return nil
}

// ValidateOrder implements the RiskService.ValidateOrder method
func (h *Handler) ValidateOrder(ctx context.Context, req *risk.ValidateOrderRequest, rsp *risk.ValidateOrderResponse) error {
	h.logger.Info("ValidateOrder called",
		zap.String("account_id", req.AccountId),
		zap.String("symbol", req.Symbol))

	// Implementation would go here
	// For now, just return a placeholder response
	rsp.IsValid = true

	// Add risk metrics
	rsp.RiskMetrics = &risk.OrderRiskResponse{
		AccountId:           req.AccountId,
		Symbol:              req.Symbol,
		Side:                req.Side,
		Type:                req.Type,
		Quantity:            req.Quantity,
		Price:               req.Price,
		RequiredMargin:      5000.0,
		AvailableMarginAfter: 45000.0,
		MarginLevelAfter:    1.9,
		RiskLevel:           risk.RiskLevel_LOW,
		IsAllowed:           true,
	}

	return nil
}

// UpdateRiskLimits implements the RiskService.UpdateRiskLimits method
func (h *Handler) UpdateRiskLimits(ctx context.Context, req *risk.UpdateRiskLimitsRequest, rsp *risk.UpdateRiskLimitsResponse) error {
	h.logger.Info("UpdateRiskLimits called",
		zap.String("account_id", req.AccountId))

	// Implementation would go here
	// For now, just return the same risk limits
	rsp.AccountId = req.AccountId
	rsp.RiskLimits = req.RiskLimits

	return nil
}

// Module provides the risk module for fx
var Module = fx.Options(
	fx.Provide(NewHandler),
)

