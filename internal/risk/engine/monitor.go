package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RiskMonitor handles real-time risk monitoring and alerting
type RiskMonitor struct {
	logger           *zap.Logger
	alertThresholds  map[string]float64
	mu               sync.RWMutex
	alertChan        chan RiskAlert
	ctx              context.Context
	cancel           context.CancelFunc
}

// RiskAlert represents a risk alert
type RiskAlert struct {
	UserID      string
	Symbol      string
	AlertType   string
	Severity    RiskLevel
	Message     string
	Timestamp   time.Time
	Data        map[string]interface{}
}

// NewRiskMonitor creates a new risk monitor
func NewRiskMonitor(logger *zap.Logger) *RiskMonitor {
	ctx, cancel := context.WithCancel(context.Background())
	
	return &RiskMonitor{
		logger:          logger,
		alertThresholds: make(map[string]float64),
		alertChan:       make(chan RiskAlert, 1000),
		ctx:             ctx,
		cancel:          cancel,
	}
}

// Start starts the risk monitor
func (rm *RiskMonitor) Start() {
	go rm.processAlerts()
	rm.logger.Info("Risk monitor started")
}

// Stop stops the risk monitor
func (rm *RiskMonitor) Stop() {
	rm.cancel()
	rm.logger.Info("Risk monitor stopped")
}

// SetAlertThreshold sets an alert threshold for a specific metric
func (rm *RiskMonitor) SetAlertThreshold(metric string, threshold float64) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.alertThresholds[metric] = threshold
}

// MonitorPosition monitors a position for risk violations
func (rm *RiskMonitor) MonitorPosition(userID, symbol string, quantity, price float64) {
	positionValue := quantity * price
	
	// Check position size threshold
	rm.mu.RLock()
	threshold, exists := rm.alertThresholds["position_size"]
	rm.mu.RUnlock()
	
	if exists && positionValue > threshold {
		alert := RiskAlert{
			UserID:    userID,
			Symbol:    symbol,
			AlertType: "position_size_exceeded",
			Severity:  RiskLevelHigh,
			Message:   "Position size exceeds threshold",
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"position_value": positionValue,
				"threshold":      threshold,
				"quantity":       quantity,
				"price":          price,
			},
		}
		
		select {
		case rm.alertChan <- alert:
		default:
			rm.logger.Warn("Alert channel full, dropping alert",
				zap.String("user_id", userID),
				zap.String("symbol", symbol))
		}
	}
}

// MonitorDrawdown monitors drawdown for a user
func (rm *RiskMonitor) MonitorDrawdown(userID string, currentValue, peakValue float64) {
	if peakValue <= 0 {
		return
	}
	
	drawdown := (peakValue - currentValue) / peakValue
	if drawdown < 0 {
		drawdown = 0
	}
	
	// Check drawdown threshold
	rm.mu.RLock()
	threshold, exists := rm.alertThresholds["max_drawdown"]
	rm.mu.RUnlock()
	
	if exists && drawdown > threshold {
		alert := RiskAlert{
			UserID:    userID,
			AlertType: "max_drawdown_exceeded",
			Severity:  RiskLevelHigh,
			Message:   "Maximum drawdown exceeded",
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"current_drawdown": drawdown,
				"threshold":        threshold,
				"current_value":    currentValue,
				"peak_value":       peakValue,
			},
		}
		
		select {
		case rm.alertChan <- alert:
		default:
			rm.logger.Warn("Alert channel full, dropping drawdown alert",
				zap.String("user_id", userID))
		}
	}
}

// MonitorConcentration monitors concentration risk
func (rm *RiskMonitor) MonitorConcentration(userID, symbol string, positionValue, totalPortfolioValue float64) {
	if totalPortfolioValue <= 0 {
		return
	}
	
	concentration := positionValue / totalPortfolioValue
	
	// Check concentration threshold
	rm.mu.RLock()
	threshold, exists := rm.alertThresholds["max_concentration"]
	rm.mu.RUnlock()
	
	if exists && concentration > threshold {
		alert := RiskAlert{
			UserID:    userID,
			Symbol:    symbol,
			AlertType: "concentration_exceeded",
			Severity:  RiskLevelMedium,
			Message:   "Position concentration exceeds threshold",
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"concentration":         concentration,
				"threshold":             threshold,
				"position_value":        positionValue,
				"total_portfolio_value": totalPortfolioValue,
			},
		}
		
		select {
		case rm.alertChan <- alert:
		default:
			rm.logger.Warn("Alert channel full, dropping concentration alert",
				zap.String("user_id", userID),
				zap.String("symbol", symbol))
		}
	}
}

// MonitorVaR monitors Value at Risk
func (rm *RiskMonitor) MonitorVaR(userID string, var_ float64) {
	// Check VaR threshold
	rm.mu.RLock()
	threshold, exists := rm.alertThresholds["max_var"]
	rm.mu.RUnlock()
	
	if exists && var_ > threshold {
		alert := RiskAlert{
			UserID:    userID,
			AlertType: "var_exceeded",
			Severity:  RiskLevelHigh,
			Message:   "Value at Risk exceeds threshold",
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"var":       var_,
				"threshold": threshold,
			},
		}
		
		select {
		case rm.alertChan <- alert:
		default:
			rm.logger.Warn("Alert channel full, dropping VaR alert",
				zap.String("user_id", userID))
		}
	}
}

// processAlerts processes risk alerts
func (rm *RiskMonitor) processAlerts() {
	for {
		select {
		case <-rm.ctx.Done():
			return
		case alert := <-rm.alertChan:
			rm.handleAlert(alert)
		}
	}
}

// handleAlert handles a risk alert
func (rm *RiskMonitor) handleAlert(alert RiskAlert) {
	rm.logger.Warn("Risk alert triggered",
		zap.String("user_id", alert.UserID),
		zap.String("symbol", alert.Symbol),
		zap.String("alert_type", alert.AlertType),
		zap.String("severity", string(alert.Severity)),
		zap.String("message", alert.Message),
		zap.Time("timestamp", alert.Timestamp),
		zap.Any("data", alert.Data))
	
	// In a real implementation, this would:
	// 1. Send notifications to risk managers
	// 2. Update risk dashboards
	// 3. Trigger automated risk responses
	// 4. Log to audit trail
	// 5. Update risk metrics
}

// GetAlertStats returns alert statistics
func (rm *RiskMonitor) GetAlertStats() map[string]int {
	// In a real implementation, this would return actual statistics
	// For now, return empty stats
	return map[string]int{
		"total_alerts":        0,
		"high_severity":       0,
		"medium_severity":     0,
		"low_severity":        0,
		"position_size_alerts": 0,
		"drawdown_alerts":     0,
		"concentration_alerts": 0,
		"var_alerts":          0,
	}
}
