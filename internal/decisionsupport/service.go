package decisionsupport

import (
	"context"
	"fmt"
	"time"

	"github.com/abdoElHodaky/tradSys/internal/marketdata"
	"github.com/abdoElHodaky/tradSys/internal/trading/mitigation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements the DecisionSupportService interface
type Service struct {
	logger        *zap.Logger
	marketData    marketdata.Service
	circuitBreaker *mitigation.CircuitBreaker
	recommendations map[string][]Recommendation
	alerts         map[string]Alert
	alertConfigs   map[string]AlertConfiguration
}

// NewService creates a new decision support service
func NewService(logger *zap.Logger, marketData marketdata.Service) *Service {
	cbConfig := mitigation.DefaultCircuitBreakerConfig()
	cbConfig.FailureThreshold = 3
	cbConfig.Timeout = 30 * time.Second
	
	return &Service{
		logger:        logger,
		marketData:    marketData,
		circuitBreaker: mitigation.NewCircuitBreaker("decision-support", cbConfig, logger),
		recommendations: make(map[string][]Recommendation),
		alerts:         make(map[string]Alert),
		alertConfigs:   make(map[string]AlertConfiguration),
	}
}

// Analyze analyzes market data and returns recommendations
func (s *Service) Analyze(ctx context.Context, request AnalysisRequest) ([]Recommendation, error) {
	var recommendations []Recommendation
	
	err := s.circuitBreaker.Execute(ctx, func(ctx context.Context) error {
		// Get historical market data
		candles, err := s.marketData.GetHistoricalCandles(ctx, request.Symbol, request.Timeframe, request.StartTime, request.EndTime)
		if err != nil {
			return fmt.Errorf("failed to get historical data: %w", err)
		}
		
		// Perform analysis
		s.logger.Info("Performing analysis",
			zap.String("symbol", request.Symbol),
			zap.String("timeframe", request.Timeframe),
			zap.Time("start_time", request.StartTime),
			zap.Time("end_time", request.EndTime))
		
		// Generate recommendations based on analysis
		// This is a placeholder for actual analysis logic
		recommendation := Recommendation{
			Symbol:     request.Symbol,
			Action:     "buy",
			Price:      100.0,
			Quantity:   10.0,
			Confidence: 75.0,
			Rationale:  "Strong bullish trend detected",
			Timestamp:  time.Now(),
			ExpiresAt:  time.Now().Add(24 * time.Hour),
			Indicators: map[string]float64{
				"rsi":   65.0,
				"macd":  0.5,
				"trend": 1.0,
			},
		}
		
		recommendations = append(recommendations, recommendation)
		
		// Store recommendations
		s.recommendations[request.Symbol] = append(s.recommendations[request.Symbol], recommendation)
		
		s.logger.Info("Analysis completed",
			zap.String("symbol", request.Symbol),
			zap.Int("recommendations", len(recommendations)))
		
		return nil
	})
	
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	
	return recommendations, nil
}

// GetRecommendations gets trading recommendations
func (s *Service) GetRecommendations(ctx context.Context, symbol string, limit int) ([]Recommendation, error) {
	if symbol == "" {
		// Return recommendations for all symbols
		var allRecommendations []Recommendation
		for _, recs := range s.recommendations {
			allRecommendations = append(allRecommendations, recs...)
		}
		
		// Sort by timestamp (newest first) and limit
		// This is a simplified implementation
		if limit > 0 && limit < len(allRecommendations) {
			return allRecommendations[:limit], nil
		}
		return allRecommendations, nil
	}
	
	// Return recommendations for a specific symbol
	recommendations := s.recommendations[symbol]
	
	// Limit the number of recommendations
	if limit > 0 && limit < len(recommendations) {
		return recommendations[:limit], nil
	}
	
	return recommendations, nil
}

// AnalyzeScenarios analyzes different market scenarios
func (s *Service) AnalyzeScenarios(ctx context.Context, request ScenarioRequest) (map[string]interface{}, error) {
	results := make(map[string]interface{})
	
	err := s.circuitBreaker.Execute(ctx, func(ctx context.Context) error {
		s.logger.Info("Analyzing scenarios",
			zap.String("base_symbol", request.BaseSymbol),
			zap.Int("scenarios", len(request.Scenarios)))
		
		// Analyze each scenario
		for _, scenario := range request.Scenarios {
			// This is a placeholder for actual scenario analysis logic
			scenarioResult := map[string]interface{}{
				"expected_return":     scenario.PriceChange * request.Portfolio.TotalValue,
				"risk":                scenario.VolatilityChange * 0.5,
				"probability":         scenario.Probability,
				"recommended_actions": []string{"reduce_exposure", "hedge_with_options"},
			}
			
			results[scenario.Name] = scenarioResult
		}
		
		// Add overall assessment
		results["overall_assessment"] = map[string]interface{}{
			"expected_return": 0.05 * request.Portfolio.TotalValue,
			"risk_level":      "moderate",
			"confidence":      0.8,
		}
		
		return nil
	})
	
	if err != nil {
		return nil, fmt.Errorf("scenario analysis failed: %w", err)
	}
	
	return results, nil
}

// Backtest runs a backtest of a trading strategy
func (s *Service) Backtest(ctx context.Context, request BacktestRequest) (*BacktestResult, error) {
	var result *BacktestResult
	
	err := s.circuitBreaker.Execute(ctx, func(ctx context.Context) error {
		s.logger.Info("Running backtest",
			zap.String("strategy", request.Strategy),
			zap.Strings("symbols", request.Symbols),
			zap.Time("start_time", request.StartTime),
			zap.Time("end_time", request.EndTime))
		
		// This is a placeholder for actual backtesting logic
		result = &BacktestResult{
			Strategy:         request.Strategy,
			StartTime:        request.StartTime,
			EndTime:          request.EndTime,
			InitialCapital:   request.InitialCapital,
			FinalCapital:     request.InitialCapital * 1.25,
			TotalReturn:      0.25,
			AnnualizedReturn: 0.15,
			SharpeRatio:      1.2,
			MaxDrawdown:      0.1,
			WinRate:          0.65,
			Trades:           []BacktestTrade{},
			EquityCurve:      make(map[string]float64),
		}
		
		// Generate sample trades
		for i := 0; i < 10; i++ {
			entryTime := request.StartTime.Add(time.Duration(i) * 24 * time.Hour)
			exitTime := entryTime.Add(48 * time.Hour)
			
			trade := BacktestTrade{
				Symbol:     request.Symbols[0],
				EntryTime:  entryTime,
				EntryPrice: 100.0 + float64(i),
				ExitTime:   exitTime,
				ExitPrice:  105.0 + float64(i),
				Quantity:   10.0,
				ProfitLoss: 50.0,
				Side:       "buy",
			}
			
			result.Trades = append(result.Trades, trade)
		}
		
		// Generate sample equity curve
		currentTime := request.StartTime
		equity := request.InitialCapital
		for currentTime.Before(request.EndTime) {
			dateStr := currentTime.Format("2006-01-02")
			result.EquityCurve[dateStr] = equity
			equity *= 1.005
			currentTime = currentTime.Add(24 * time.Hour)
		}
		
		return nil
	})
	
	if err != nil {
		return nil, fmt.Errorf("backtest failed: %w", err)
	}
	
	return result, nil
}

// GetInsights gets market insights for a symbol
func (s *Service) GetInsights(ctx context.Context, symbol string) (map[string]interface{}, error) {
	insights := make(map[string]interface{})
	
	err := s.circuitBreaker.Execute(ctx, func(ctx context.Context) error {
		s.logger.Info("Getting insights", zap.String("symbol", symbol))
		
		// This is a placeholder for actual insights generation logic
		insights = map[string]interface{}{
			"trend": map[string]interface{}{
				"short_term":  "bullish",
				"medium_term": "bullish",
				"long_term":   "neutral",
				"strength":    0.75,
			},
			"support_resistance": map[string]interface{}{
				"support_levels":    []float64{95.0, 92.5, 90.0},
				"resistance_levels": []float64{105.0, 107.5, 110.0},
			},
			"volatility": map[string]interface{}{
				"current":      0.15,
				"historical":   0.12,
				"forecast":     0.14,
				"percentile":   75,
				"trend":        "increasing",
			},
			"sentiment": map[string]interface{}{
				"overall":      "positive",
				"social_media": "very_positive",
				"news":         "neutral",
				"analyst":      "positive",
			},
			"correlations": map[string]interface{}{
				"sp500":  0.75,
				"sector": 0.85,
				"vix":    -0.6,
			},
			"events": []map[string]interface{}{
				{
					"type":        "earnings",
					"date":        time.Now().Add(15 * 24 * time.Hour).Format("2006-01-02"),
					"importance":  "high",
					"description": "Q2 Earnings Report",
				},
				{
					"type":        "dividend",
					"date":        time.Now().Add(30 * 24 * time.Hour).Format("2006-01-02"),
					"importance":  "medium",
					"description": "Quarterly Dividend Payment",
				},
			},
		}
		
		return nil
	})
	
	if err != nil {
		return nil, fmt.Errorf("failed to get insights: %w", err)
	}
	
	return insights, nil
}

// OptimizePortfolio optimizes a portfolio
func (s *Service) OptimizePortfolio(ctx context.Context, portfolio Portfolio, objective string) (*Portfolio, error) {
	var optimizedPortfolio *Portfolio
	
	err := s.circuitBreaker.Execute(ctx, func(ctx context.Context) error {
		s.logger.Info("Optimizing portfolio",
			zap.Int("positions", len(portfolio.Positions)),
			zap.String("objective", objective))
		
		// This is a placeholder for actual portfolio optimization logic
		optimizedPortfolio = &Portfolio{
			Positions:  []Position{},
			Cash:       portfolio.Cash * 0.9,
			TotalValue: portfolio.TotalValue * 1.05,
		}
		
		// Adjust positions based on optimization
		for _, pos := range portfolio.Positions {
			// Adjust position quantities based on optimization objective
			adjustmentFactor := 1.0
			switch objective {
			case "risk":
				// Reduce high-risk positions
				if pos.Symbol == "AAPL" || pos.Symbol == "MSFT" {
					adjustmentFactor = 1.2
				} else {
					adjustmentFactor = 0.8
				}
			case "return":
				// Increase positions with higher expected returns
				if pos.Symbol == "AMZN" || pos.Symbol == "GOOGL" {
					adjustmentFactor = 1.5
				} else {
					adjustmentFactor = 0.7
				}
			case "sharpe":
				// Balance risk and return
				adjustmentFactor = 1.1
			}
			
			optimizedPos := Position{
				Symbol:       pos.Symbol,
				Quantity:     pos.Quantity * adjustmentFactor,
				EntryPrice:   pos.EntryPrice,
				CurrentPrice: pos.CurrentPrice,
				UnrealizedPL: pos.UnrealizedPL * adjustmentFactor,
			}
			
			optimizedPortfolio.Positions = append(optimizedPortfolio.Positions, optimizedPos)
		}
		
		// Add a new position as part of the optimization
		newPosition := Position{
			Symbol:       "NVDA",
			Quantity:     10.0,
			EntryPrice:   200.0,
			CurrentPrice: 200.0,
			UnrealizedPL: 0.0,
		}
		
		optimizedPortfolio.Positions = append(optimizedPortfolio.Positions, newPosition)
		
		return nil
	})
	
	if err != nil {
		return nil, fmt.Errorf("portfolio optimization failed: %w", err)
	}
	
	return optimizedPortfolio, nil
}

// ConfigureAlert configures an alert
func (s *Service) ConfigureAlert(ctx context.Context, config AlertConfiguration) (string, error) {
	// Generate a unique ID for the alert configuration
	id := uuid.New().String()
	
	s.alertConfigs[id] = config
	
	s.logger.Info("Alert configured",
		zap.String("id", id),
		zap.String("name", config.Name),
		zap.String("symbol", config.Symbol),
		zap.String("condition", config.Condition))
	
	return id, nil
}

// GetAlerts gets current alerts
func (s *Service) GetAlerts(ctx context.Context, acknowledged bool) ([]Alert, error) {
	var alerts []Alert
	
	for _, alert := range s.alerts {
		if alert.Acknowledged == acknowledged {
			alerts = append(alerts, alert)
		}
	}
	
	return alerts, nil
}

// AcknowledgeAlert acknowledges an alert
func (s *Service) AcknowledgeAlert(ctx context.Context, alertID string) error {
	alert, exists := s.alerts[alertID]
	if !exists {
		return fmt.Errorf("alert not found: %s", alertID)
	}
	
	alert.Acknowledged = true
	s.alerts[alertID] = alert
	
	s.logger.Info("Alert acknowledged", zap.String("alert_id", alertID))
	
	return nil
}

