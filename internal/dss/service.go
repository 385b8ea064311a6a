package dss

import (
	"context"
)

// Service defines the interface for the Decision Support System service
type Service interface {
	// Analysis methods
	Analyze(ctx context.Context, user User, request AnalysisRequest) (*AnalysisResult, error)
	GetAnalysis(ctx context.Context, user User, analysisID string) (*AnalysisResult, error)
	ListIndicators(ctx context.Context) ([]Indicator, error)
	CustomAnalysis(ctx context.Context, user User, request CustomAnalysisRequest) (*AnalysisResult, error)
	
	// Recommendation methods
	Recommend(ctx context.Context, user User, request RecommendationRequest) (*Recommendation, error)
	GetRecommendation(ctx context.Context, user User, recommendationID string) (*Recommendation, error)
	GetRecommendationHistory(ctx context.Context, user User, symbol string, limit int) ([]Recommendation, error)
	ExecuteRecommendation(ctx context.Context, user User, request ExecuteRecommendationRequest) (*ExecutionResult, error)
	
	// Model methods
	ListModels(ctx context.Context, user User, limit int, cursor string) ([]Model, *PaginationResponse, error)
	CreateModel(ctx context.Context, user User, request ModelRequest) (*Model, error)
	GetModel(ctx context.Context, user User, modelID string) (*Model, error)
	UpdateModel(ctx context.Context, user User, modelID string, request ModelRequest) (*Model, error)
	DeleteModel(ctx context.Context, user User, modelID string) error
	BacktestModel(ctx context.Context, user User, modelID string, request BacktestRequest) (*BacktestResult, error)
	
	// Backtest methods
	Backtest(ctx context.Context, user User, request BacktestRequest) (*BacktestResult, error)
	GetBacktest(ctx context.Context, user User, backtestID string) (*BacktestResult, error)
	GetBacktestTrades(ctx context.Context, user User, backtestID string, limit int, cursor string) ([]BacktestTrade, *PaginationResponse, error)
	GetBacktestMetrics(ctx context.Context, user User, backtestID string) (map[string]interface{}, error)
	
	// Alert methods
	CreateAlert(ctx context.Context, user User, request AlertRequest) (*Alert, error)
	ListAlerts(ctx context.Context, user User, symbol string, limit int, cursor string) ([]Alert, *PaginationResponse, error)
	GetAlert(ctx context.Context, user User, alertID string) (*Alert, error)
	UpdateAlert(ctx context.Context, user User, alertID string, request AlertRequest) (*Alert, error)
	DeleteAlert(ctx context.Context, user User, alertID string) error
	GetAlertHistory(ctx context.Context, user User, alertID string, limit int, cursor string) ([]AlertEvent, *PaginationResponse, error)
	
	// Webhook methods
	RegisterWebhook(ctx context.Context, user User, request WebhookRequest) (*Webhook, error)
	ListWebhooks(ctx context.Context, user User, limit int, cursor string) ([]Webhook, *PaginationResponse, error)
	GetWebhook(ctx context.Context, user User, webhookID string) (*Webhook, error)
	UpdateWebhook(ctx context.Context, user User, webhookID string, request WebhookRequest) (*Webhook, error)
	DeleteWebhook(ctx context.Context, user User, webhookID string) error
	TestWebhook(ctx context.Context, user User, webhookID string) error
	
	// Market data methods
	GetMarketData(ctx context.Context, symbol string) (*MarketData, error)
	GetCandles(ctx context.Context, symbol string, timeframe string, limit int, startTime, endTime *string) ([]Candle, error)
	GetOrderBookDepth(ctx context.Context, symbol string, depth int) (*OrderBook, error)
	GetRecentTrades(ctx context.Context, symbol string, limit int) ([]Trade, error)
}

// AuthService defines the interface for authentication services
type AuthService interface {
	ValidateToken(ctx context.Context, token string) (User, error)
	ValidateAPIKey(ctx context.Context, apiKey string) (User, error)
}

// DefaultService is the default implementation of the DSS Service interface
type DefaultService struct {
	// Dependencies would be injected here
	// For example:
	// marketDataRepo MarketDataRepository
	// modelRepo ModelRepository
	// alertRepo AlertRepository
	// webhookRepo WebhookRepository
	// tradingService TradingService
	// analysisEngine AnalysisEngine
}

// NewService creates a new DSS service
func NewService() Service {
	return &DefaultServiceImpl{
		// Initialize dependencies
	}
}

// DefaultServiceImpl is the default implementation of the Service interface
type DefaultServiceImpl struct {
	DefaultService
}

// Analyze implements the Analyze method of the Service interface
func (s *DefaultServiceImpl) Analyze(ctx context.Context, user User, request AnalysisRequest) (*AnalysisResult, error) {
	// Implementation would go here
	return nil, nil
}

// GetAnalysis implements the GetAnalysis method of the Service interface
func (s *DefaultServiceImpl) GetAnalysis(ctx context.Context, user User, analysisID string) (*AnalysisResult, error) {
	// Implementation would go here
	return nil, nil
}

// ListIndicators implements the ListIndicators method of the Service interface
func (s *DefaultServiceImpl) ListIndicators(ctx context.Context) ([]Indicator, error) {
	// Implementation would go here
	return nil, nil
}

// CustomAnalysis implements the CustomAnalysis method of the Service interface
func (s *DefaultServiceImpl) CustomAnalysis(ctx context.Context, user User, request CustomAnalysisRequest) (*AnalysisResult, error) {
	// Implementation would go here
	return nil, nil
}

// Recommend implements the Recommend method of the Service interface
func (s *DefaultServiceImpl) Recommend(ctx context.Context, user User, request RecommendationRequest) (*Recommendation, error) {
	// Implementation would go here
	return nil, nil
}

// GetRecommendation implements the GetRecommendation method of the Service interface
func (s *DefaultServiceImpl) GetRecommendation(ctx context.Context, user User, recommendationID string) (*Recommendation, error) {
	// Implementation would go here
	return nil, nil
}

// GetRecommendationHistory implements the GetRecommendationHistory method of the Service interface
func (s *DefaultServiceImpl) GetRecommendationHistory(ctx context.Context, user User, symbol string, limit int) ([]Recommendation, error) {
	// Implementation would go here
	return nil, nil
}

// ExecuteRecommendation implements the ExecuteRecommendation method of the Service interface
func (s *DefaultServiceImpl) ExecuteRecommendation(ctx context.Context, user User, request ExecuteRecommendationRequest) (*ExecutionResult, error) {
	// Implementation would go here
	return nil, nil
}

// ListModels implements the ListModels method of the Service interface
func (s *DefaultServiceImpl) ListModels(ctx context.Context, user User, limit int, cursor string) ([]Model, *PaginationResponse, error) {
	// Implementation would go here
	return nil, nil, nil
}

// CreateModel implements the CreateModel method of the Service interface
func (s *DefaultServiceImpl) CreateModel(ctx context.Context, user User, request ModelRequest) (*Model, error) {
	// Implementation would go here
	return nil, nil
}

// GetModel implements the GetModel method of the Service interface
func (s *DefaultServiceImpl) GetModel(ctx context.Context, user User, modelID string) (*Model, error) {
	// Implementation would go here
	return nil, nil
}

// UpdateModel implements the UpdateModel method of the Service interface
func (s *DefaultServiceImpl) UpdateModel(ctx context.Context, user User, modelID string, request ModelRequest) (*Model, error) {
	// Implementation would go here
	return nil, nil
}

// DeleteModel implements the DeleteModel method of the Service interface
func (s *DefaultServiceImpl) DeleteModel(ctx context.Context, user User, modelID string) error {
	// Implementation would go here
	return nil
}

// BacktestModel implements the BacktestModel method of the Service interface
func (s *DefaultServiceImpl) BacktestModel(ctx context.Context, user User, modelID string, request BacktestRequest) (*BacktestResult, error) {
	// Implementation would go here
	return nil, nil
}

// Backtest implements the Backtest method of the Service interface
func (s *DefaultServiceImpl) Backtest(ctx context.Context, user User, request BacktestRequest) (*BacktestResult, error) {
	// Implementation would go here
	return nil, nil
}

// GetBacktest implements the GetBacktest method of the Service interface
func (s *DefaultServiceImpl) GetBacktest(ctx context.Context, user User, backtestID string) (*BacktestResult, error) {
	// Implementation would go here
	return nil, nil
}

// GetBacktestTrades implements the GetBacktestTrades method of the Service interface
func (s *DefaultServiceImpl) GetBacktestTrades(ctx context.Context, user User, backtestID string, limit int, cursor string) ([]BacktestTrade, *PaginationResponse, error) {
	// Implementation would go here
	return nil, nil, nil
}

// GetBacktestMetrics implements the GetBacktestMetrics method of the Service interface
func (s *DefaultServiceImpl) GetBacktestMetrics(ctx context.Context, user User, backtestID string) (map[string]interface{}, error) {
	// Implementation would go here
	return nil, nil
}

// CreateAlert implements the CreateAlert method of the Service interface
func (s *DefaultServiceImpl) CreateAlert(ctx context.Context, user User, request AlertRequest) (*Alert, error) {
	// Implementation would go here
	return nil, nil
}

// ListAlerts implements the ListAlerts method of the Service interface
func (s *DefaultServiceImpl) ListAlerts(ctx context.Context, user User, symbol string, limit int, cursor string) ([]Alert, *PaginationResponse, error) {
	// Implementation would go here
	return nil, nil, nil
}

// GetAlert implements the GetAlert method of the Service interface
func (s *DefaultServiceImpl) GetAlert(ctx context.Context, user User, alertID string) (*Alert, error) {
	// Implementation would go here
	return nil, nil
}

// UpdateAlert implements the UpdateAlert method of the Service interface
func (s *DefaultServiceImpl) UpdateAlert(ctx context.Context, user User, alertID string, request AlertRequest) (*Alert, error) {
	// Implementation would go here
	return nil, nil
}

// DeleteAlert implements the DeleteAlert method of the Service interface
func (s *DefaultServiceImpl) DeleteAlert(ctx context.Context, user User, alertID string) error {
	// Implementation would go here
	return nil
}

// GetAlertHistory implements the GetAlertHistory method of the Service interface
func (s *DefaultServiceImpl) GetAlertHistory(ctx context.Context, user User, alertID string, limit int, cursor string) ([]AlertEvent, *PaginationResponse, error) {
	// Implementation would go here
	return nil, nil, nil
}

// RegisterWebhook implements the RegisterWebhook method of the Service interface
func (s *DefaultServiceImpl) RegisterWebhook(ctx context.Context, user User, request WebhookRequest) (*Webhook, error) {
	// Implementation would go here
	return nil, nil
}

// ListWebhooks implements the ListWebhooks method of the Service interface
func (s *DefaultServiceImpl) ListWebhooks(ctx context.Context, user User, limit int, cursor string) ([]Webhook, *PaginationResponse, error) {
	// Implementation would go here
	return nil, nil, nil
}

// GetWebhook implements the GetWebhook method of the Service interface
func (s *DefaultServiceImpl) GetWebhook(ctx context.Context, user User, webhookID string) (*Webhook, error) {
	// Implementation would go here
	return nil, nil
}

// UpdateWebhook implements the UpdateWebhook method of the Service interface
func (s *DefaultServiceImpl) UpdateWebhook(ctx context.Context, user User, webhookID string, request WebhookRequest) (*Webhook, error) {
	// Implementation would go here
	return nil, nil
}

// DeleteWebhook implements the DeleteWebhook method of the Service interface
func (s *DefaultServiceImpl) DeleteWebhook(ctx context.Context, user User, webhookID string) error {
	// Implementation would go here
	return nil
}

// TestWebhook implements the TestWebhook method of the Service interface
func (s *DefaultServiceImpl) TestWebhook(ctx context.Context, user User, webhookID string) error {
	// Implementation would go here
	return nil
}

// GetMarketData implements the GetMarketData method of the Service interface
func (s *DefaultServiceImpl) GetMarketData(ctx context.Context, symbol string) (*MarketData, error) {
	// Implementation would go here
	return nil, nil
}

// GetCandles implements the GetCandles method of the Service interface
func (s *DefaultServiceImpl) GetCandles(ctx context.Context, symbol string, timeframe string, limit int, startTime, endTime *string) ([]Candle, error) {
	// Implementation would go here
	return nil, nil
}

// GetOrderBookDepth implements the GetOrderBookDepth method of the Service interface
func (s *DefaultServiceImpl) GetOrderBookDepth(ctx context.Context, symbol string, depth int) (*OrderBook, error) {
	// Implementation would go here
	return nil, nil
}

// GetRecentTrades implements the GetRecentTrades method of the Service interface
func (s *DefaultServiceImpl) GetRecentTrades(ctx context.Context, symbol string, limit int) ([]Trade, error) {
	// Implementation would go here
	return nil, nil
}

