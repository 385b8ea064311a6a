package engine

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RiskCalculator handles risk calculations and assessments
type RiskCalculator struct {
	logger *zap.Logger
}

// NewRiskCalculator creates a new risk calculator
func NewRiskCalculator(logger *zap.Logger) *RiskCalculator {
	return &RiskCalculator{
		logger: logger,
	}
}

// CalculatePositionRisk calculates the risk for a position
func (rc *RiskCalculator) CalculatePositionRisk(userID, symbol string, quantity, price float64) (*RiskCheckResult, error) {
	// Calculate position value
	positionValue := quantity * price
	
	// Determine risk level based on position size
	var riskLevel RiskLevel
	var violations []string
	var warnings []string
	
	// Example risk calculation logic
	if positionValue > 1000000 { // $1M threshold
		riskLevel = RiskLevelHigh
		violations = append(violations, "Position size exceeds maximum limit")
	} else if positionValue > 500000 { // $500K threshold
		riskLevel = RiskLevelMedium
		warnings = append(warnings, "Large position size detected")
	} else {
		riskLevel = RiskLevelLow
	}
	
	return &RiskCheckResult{
		Passed:     len(violations) == 0,
		RiskLevel:  riskLevel,
		Violations: violations,
		Warnings:   warnings,
		CheckedAt:  time.Now(),
	}, nil
}

// CalculatePortfolioRisk calculates overall portfolio risk
func (rc *RiskCalculator) CalculatePortfolioRisk(userID string, positions map[string]float64) (*RiskCheckResult, error) {
	totalValue := 0.0
	for _, value := range positions {
		totalValue += value
	}
	
	var riskLevel RiskLevel
	var violations []string
	var warnings []string
	
	// Portfolio risk assessment
	if totalValue > 5000000 { // $5M portfolio threshold
		riskLevel = RiskLevelHigh
		violations = append(violations, "Portfolio value exceeds maximum limit")
	} else if totalValue > 2000000 { // $2M portfolio threshold
		riskLevel = RiskLevelMedium
		warnings = append(warnings, "Large portfolio detected")
	} else {
		riskLevel = RiskLevelLow
	}
	
	return &RiskCheckResult{
		Passed:     len(violations) == 0,
		RiskLevel:  riskLevel,
		Violations: violations,
		Warnings:   warnings,
		CheckedAt:  time.Now(),
	}, nil
}

// CalculateVaR calculates Value at Risk for a position
func (rc *RiskCalculator) CalculateVaR(symbol string, quantity, price float64, confidenceLevel float64) (float64, error) {
	// Simplified VaR calculation
	// In a real implementation, this would use historical data and statistical models
	volatility := 0.02 // 2% daily volatility assumption
	positionValue := quantity * price
	
	// Calculate VaR using normal distribution approximation
	var zScore float64
	switch confidenceLevel {
	case 0.95:
		zScore = 1.645
	case 0.99:
		zScore = 2.326
	default:
		zScore = 1.645 // Default to 95%
	}
	
	var_ := positionValue * volatility * zScore
	return var_, nil
}

// CalculateDrawdown calculates the current drawdown for a user
func (rc *RiskCalculator) CalculateDrawdown(userID string, currentValue, peakValue float64) float64 {
	if peakValue <= 0 {
		return 0
	}
	
	drawdown := (peakValue - currentValue) / peakValue
	if drawdown < 0 {
		drawdown = 0 // No drawdown if current value exceeds peak
	}
	
	return drawdown
}

// CalculateMarginRequirement calculates margin requirement for a position
func (rc *RiskCalculator) CalculateMarginRequirement(symbol string, quantity, price float64) (float64, error) {
	// Simplified margin calculation
	// In practice, this would vary by instrument type and market conditions
	positionValue := quantity * price
	
	// Example margin rates by position size
	var marginRate float64
	if positionValue > 1000000 {
		marginRate = 0.20 // 20% for large positions
	} else if positionValue > 100000 {
		marginRate = 0.15 // 15% for medium positions
	} else {
		marginRate = 0.10 // 10% for small positions
	}
	
	marginRequired := positionValue * marginRate
	return marginRequired, nil
}

// CalculateConcentrationRisk calculates concentration risk for a symbol
func (rc *RiskCalculator) CalculateConcentrationRisk(userID, symbol string, positionValue, totalPortfolioValue float64) (*RiskCheckResult, error) {
	if totalPortfolioValue <= 0 {
		return &RiskCheckResult{
			Passed:     true,
			RiskLevel:  RiskLevelLow,
			Violations: []string{},
			Warnings:   []string{},
			CheckedAt:  time.Now(),
		}, nil
	}
	
	concentration := positionValue / totalPortfolioValue
	
	var riskLevel RiskLevel
	var violations []string
	var warnings []string
	
	// Concentration risk thresholds
	if concentration > 0.25 { // 25% concentration limit
		riskLevel = RiskLevelHigh
		violations = append(violations, "Position concentration exceeds 25% of portfolio")
	} else if concentration > 0.15 { // 15% warning threshold
		riskLevel = RiskLevelMedium
		warnings = append(warnings, "High concentration in single position")
	} else {
		riskLevel = RiskLevelLow
	}
	
	return &RiskCheckResult{
		Passed:     len(violations) == 0,
		RiskLevel:  riskLevel,
		Violations: violations,
		Warnings:   warnings,
		CheckedAt:  time.Now(),
	}, nil
}
