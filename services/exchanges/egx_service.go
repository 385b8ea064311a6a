// Package exchanges implements exchange-specific services for TradSys v3
// EGX Service provides Egyptian Exchange integration with multi-asset support
package exchanges

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// EGXService provides Egyptian Exchange integration
type EGXService struct {
	exchangeID         string
	region             string
	assetTypes         []AssetType
	tradingHours       *TradingSchedule
	compliance         *EgyptianCompliance
	islamicSupport     bool
	languageSupport    []string
	connector          *EGXConnector
	marketData         *EGXMarketData
	orderManager       *EGXOrderManager
	riskEngine         *EGXRiskEngine
	performanceMonitor *PerformanceMonitor
	mu                 sync.RWMutex
}

// AssetType defines supported asset types for EGX
type AssetType int

const (
	AssetTypeStock AssetType = iota
	AssetTypeGovernmentBond
	AssetTypeCorporateBond
	AssetTypeETF
	AssetTypeREIT
	AssetTypeIslamicInstrument
	AssetTypeMutualFund
	AssetTypeCommodity
)

// TradingSchedule defines EGX trading hours and sessions
type TradingSchedule struct {
	MarketOpen      time.Time
	MarketClose     time.Time
	PreMarketOpen   time.Time
	PostMarketClose time.Time
	TradingSessions []TradingSession
	Holidays        []time.Time
	Timezone        *time.Location
}

// TradingSession represents a trading session
type TradingSession struct {
	Name       string
	StartTime  time.Time
	EndTime    time.Time
	AssetTypes []AssetType
}

// EgyptianCompliance handles EFA regulatory compliance
type EgyptianCompliance struct {
	regulatoryRules map[string]ComplianceRule
	kycRequirements KYCRequirements
	reportingRules  ReportingRules
	mu              sync.RWMutex
}

// ComplianceRule represents an Egyptian regulatory rule
type ComplianceRule struct {
	RuleID      string
	Description string
	AssetTypes  []AssetType
	Validator   func(interface{}) bool
	Severity    ComplianceSeverity
}

// ComplianceSeverity defines rule severity levels
type ComplianceSeverity int

const (
	SeverityInfo ComplianceSeverity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

// KYCRequirements defines KYC requirements for EGX
type KYCRequirements struct {
	RequiredDocuments []string
	VerificationLevel int
	RenewalPeriod     time.Duration
}

// ReportingRules defines reporting requirements
type ReportingRules struct {
	DailyReports   []string
	MonthlyReports []string
	AnnualReports  []string
}

// EGXConnector handles connection to Egyptian Exchange
type EGXConnector struct {
	endpoint       string
	apiKey         string
	connectionPool *ConnectionPool
	rateLimiter    *RateLimiter
	retryPolicy    *RetryPolicy
	healthChecker  *HealthChecker
	mu             sync.RWMutex
}

// EGXMarketData handles market data from EGX
type EGXMarketData struct {
	realTimeFeeds   map[string]*DataFeed
	historicalData  *HistoricalDataStore
	priceEngine     *PriceEngine
	indexCalculator *IndexCalculator
	mu              sync.RWMutex
}

// EGXOrderManager handles order management for EGX
type EGXOrderManager struct {
	orderBook       *OrderBook
	executionEngine *ExecutionEngine
	settlementMgr   *SettlementManager
	auditTrail      *AuditTrail
	mu              sync.RWMutex
}

// EGXRiskEngine handles risk management for EGX trading
type EGXRiskEngine struct {
	riskRules       map[string]RiskRule
	positionLimits  map[AssetType]PositionLimit
	volatilityModel *VolatilityModel
	stressTest      *StressTestEngine
	mu              sync.RWMutex
}

// NewEGXService creates a new EGX service instance
func NewEGXService() *EGXService {
	// Initialize Cairo timezone
	cairoTZ, _ := time.LoadLocation("Africa/Cairo")

	service := &EGXService{
		exchangeID:         "EGX",
		region:             "Cairo",
		assetTypes:         getSupportedAssetTypes(),
		tradingHours:       createEGXTradingSchedule(cairoTZ),
		compliance:         NewEgyptianCompliance(),
		islamicSupport:     true,
		languageSupport:    []string{"ar", "en"},
		connector:          NewEGXConnector(),
		marketData:         NewEGXMarketData(),
		orderManager:       NewEGXOrderManager(),
		riskEngine:         NewEGXRiskEngine(),
		performanceMonitor: NewPerformanceMonitor(),
	}

	// Initialize service components
	service.initialize()

	return service
}

// initialize sets up the EGX service components
func (egx *EGXService) initialize() {
	log.Printf("Initializing EGX Service for Egyptian Exchange")

	// Initialize connector
	if err := egx.connector.Connect(); err != nil {
		log.Printf("Failed to connect to EGX: %v", err)
	}

	// Start market data feeds
	egx.marketData.StartRealTimeFeeds()

	// Initialize compliance engine
	egx.compliance.LoadRegulatoryRules()

	// Start performance monitoring
	go egx.performanceMonitor.Start()

	log.Printf("EGX Service initialized successfully")
}

// SubmitOrder submits an order to EGX
func (egx *EGXService) SubmitOrder(ctx context.Context, order *Order) (*OrderResponse, error) {
	startTime := time.Now()

	// Validate order
	if err := egx.validateOrder(order); err != nil {
		return nil, fmt.Errorf("order validation failed: %w", err)
	}

	// Check compliance
	if err := egx.compliance.ValidateOrder(order); err != nil {
		return nil, fmt.Errorf("compliance validation failed: %w", err)
	}

	// Risk assessment
	if err := egx.riskEngine.AssessOrder(order); err != nil {
		return nil, fmt.Errorf("risk assessment failed: %w", err)
	}

	// Submit to EGX
	response, err := egx.orderManager.SubmitOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("order submission failed: %w", err)
	}

	// Record performance metrics
	latency := time.Since(startTime)
	egx.performanceMonitor.RecordOrderLatency(latency)

	log.Printf("Order submitted to EGX: %s, Latency: %v", response.OrderID, latency)
	return response, nil
}

// GetMarketData retrieves market data for an asset
func (egx *EGXService) GetMarketData(ctx context.Context, symbol string, assetType AssetType) (*MarketData, error) {
	// Validate symbol format for EGX
	if !egx.isValidEGXSymbol(symbol) {
		return nil, fmt.Errorf("invalid EGX symbol format: %s", symbol)
	}

	// Get market data
	data, err := egx.marketData.GetRealTimeData(symbol, assetType)
	if err != nil {
		return nil, fmt.Errorf("failed to get market data: %w", err)
	}

	// Apply Islamic filtering if required
	if egx.islamicSupport && egx.isIslamicInstrument(assetType) {
		data = egx.applyIslamicFiltering(data)
	}

	return data, nil
}

// GetAssetInfo retrieves detailed information about an asset
func (egx *EGXService) GetAssetInfo(ctx context.Context, symbol string) (*AssetInfo, error) {
	// Retrieve asset information from EGX
	info, err := egx.connector.GetAssetInfo(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get asset info: %w", err)
	}

	// Enrich with Egyptian-specific data
	info.Exchange = "EGX"
	info.Region = "Egypt"
	info.Currency = "EGP"
	info.TradingHours = egx.tradingHours
	info.ComplianceInfo = egx.getComplianceInfo(symbol)

	// Add Islamic finance information if applicable
	if egx.islamicSupport {
		info.IslamicInfo = egx.getIslamicInfo(symbol)
	}

	return info, nil
}

// GetTradingStatus returns current trading status
func (egx *EGXService) GetTradingStatus() *TradingStatus {
	now := time.Now().In(egx.tradingHours.Timezone)

	status := &TradingStatus{
		Exchange:    "EGX",
		IsOpen:      egx.isMarketOpen(now),
		CurrentTime: now,
		NextOpen:    egx.getNextMarketOpen(now),
		NextClose:   egx.getNextMarketClose(now),
		Session:     egx.getCurrentSession(now),
	}

	return status
}

// SubscribeToMarketData subscribes to real-time market data
func (egx *EGXService) SubscribeToMarketData(ctx context.Context, symbols []string, callback func(*MarketDataUpdate)) error {
	// Validate symbols
	for _, symbol := range symbols {
		if !egx.isValidEGXSymbol(symbol) {
			return fmt.Errorf("invalid EGX symbol: %s", symbol)
		}
	}

	// Subscribe to market data feeds
	return egx.marketData.Subscribe(symbols, callback)
}

// GetPerformanceMetrics returns performance metrics for EGX service
func (egx *EGXService) GetPerformanceMetrics() *PerformanceMetrics {
	return egx.performanceMonitor.GetMetrics()
}

// validateOrder validates an order for EGX submission
func (egx *EGXService) validateOrder(order *Order) error {
	// Check if asset type is supported
	if !egx.isAssetTypeSupported(order.AssetType) {
		return fmt.Errorf("asset type not supported: %v", order.AssetType)
	}

	// Check trading hours
	if !egx.isMarketOpen(time.Now()) {
		return fmt.Errorf("market is closed")
	}

	// Validate order size
	if order.Quantity <= 0 {
		return fmt.Errorf("invalid order quantity: %f", order.Quantity)
	}

	// Validate price for limit orders
	if order.Type == OrderTypeLimit && order.Price <= 0 {
		return fmt.Errorf("invalid limit price: %f", order.Price)
	}

	return nil
}

// isValidEGXSymbol checks if a symbol is valid for EGX
func (egx *EGXService) isValidEGXSymbol(symbol string) bool {
	// EGX symbols are typically 4-6 characters
	if len(symbol) < 2 || len(symbol) > 10 {
		return false
	}

	// Additional EGX-specific validation can be added here
	return true
}

// isAssetTypeSupported checks if an asset type is supported
func (egx *EGXService) isAssetTypeSupported(assetType AssetType) bool {
	for _, supported := range egx.assetTypes {
		if supported == assetType {
			return true
		}
	}
	return false
}

// isMarketOpen checks if the EGX market is currently open
func (egx *EGXService) isMarketOpen(now time.Time) bool {
	// Convert to Cairo timezone
	cairoTime := now.In(egx.tradingHours.Timezone)

	// Check if it's a weekend (Friday-Saturday in Egypt)
	weekday := cairoTime.Weekday()
	if weekday == time.Friday || weekday == time.Saturday {
		return false
	}

	// Check if it's a holiday
	for _, holiday := range egx.tradingHours.Holidays {
		if cairoTime.Format("2006-01-02") == holiday.Format("2006-01-02") {
			return false
		}
	}

	// Check trading hours (typically 10:00 AM - 2:30 PM Cairo time)
	hour := cairoTime.Hour()
	minute := cairoTime.Minute()
	currentMinutes := hour*60 + minute

	openMinutes := 10 * 60     // 10:00 AM
	closeMinutes := 14*60 + 30 // 2:30 PM

	return currentMinutes >= openMinutes && currentMinutes < closeMinutes
}

// getCurrentSession returns the current trading session
func (egx *EGXService) getCurrentSession(now time.Time) *TradingSession {
	cairoTime := now.In(egx.tradingHours.Timezone)

	for _, session := range egx.tradingHours.TradingSessions {
		if cairoTime.After(session.StartTime) && cairoTime.Before(session.EndTime) {
			return &session
		}
	}

	return nil
}

// getNextMarketOpen returns the next market opening time
func (egx *EGXService) getNextMarketOpen(now time.Time) time.Time {
	cairoTime := now.In(egx.tradingHours.Timezone)

	// If market is currently open, return tomorrow's opening
	if egx.isMarketOpen(cairoTime) {
		return egx.getNextBusinessDay(cairoTime).Add(10 * time.Hour) // 10:00 AM
	}

	// If it's the same day but before opening, return today's opening
	if cairoTime.Hour() < 10 {
		return time.Date(cairoTime.Year(), cairoTime.Month(), cairoTime.Day(), 10, 0, 0, 0, egx.tradingHours.Timezone)
	}

	// Otherwise, return next business day opening
	return egx.getNextBusinessDay(cairoTime).Add(10 * time.Hour)
}

// getNextMarketClose returns the next market closing time
func (egx *EGXService) getNextMarketClose(now time.Time) time.Time {
	cairoTime := now.In(egx.tradingHours.Timezone)

	// If market is currently open, return today's closing
	if egx.isMarketOpen(cairoTime) {
		return time.Date(cairoTime.Year(), cairoTime.Month(), cairoTime.Day(), 14, 30, 0, 0, egx.tradingHours.Timezone)
	}

	// Otherwise, return next business day closing
	return egx.getNextBusinessDay(cairoTime).Add(14*time.Hour + 30*time.Minute)
}

// getNextBusinessDay returns the next business day (excluding weekends and holidays)
func (egx *EGXService) getNextBusinessDay(from time.Time) time.Time {
	next := from.AddDate(0, 0, 1)

	for {
		weekday := next.Weekday()
		if weekday != time.Friday && weekday != time.Saturday {
			// Check if it's not a holiday
			isHoliday := false
			for _, holiday := range egx.tradingHours.Holidays {
				if next.Format("2006-01-02") == holiday.Format("2006-01-02") {
					isHoliday = true
					break
				}
			}
			if !isHoliday {
				return next
			}
		}
		next = next.AddDate(0, 0, 1)
	}
}

// isIslamicInstrument checks if an asset type is an Islamic instrument
func (egx *EGXService) isIslamicInstrument(assetType AssetType) bool {
	return assetType == AssetTypeIslamicInstrument
}

// applyIslamicFiltering applies Islamic finance filtering to market data
func (egx *EGXService) applyIslamicFiltering(data *MarketData) *MarketData {
	// Apply Islamic finance filtering logic
	// This would include checking for Sharia compliance
	return data
}

// getComplianceInfo returns compliance information for an asset
func (egx *EGXService) getComplianceInfo(symbol string) *ComplianceInfo {
	return &ComplianceInfo{
		Exchange:        "EGX",
		Regulator:       "EFA", // Egyptian Financial Authority
		ComplianceLevel: "Full",
		LastUpdated:     time.Now(),
	}
}

// getIslamicInfo returns Islamic finance information for an asset
func (egx *EGXService) getIslamicInfo(symbol string) *IslamicInfo {
	return &IslamicInfo{
		IsHalal:         true, // This would be determined by actual screening
		ShariaBoard:     "Egyptian Sharia Board",
		LastScreened:    time.Now(),
		ComplianceScore: 95.0,
	}
}

// Helper functions for creating EGX-specific data structures

// getSupportedAssetTypes returns the asset types supported by EGX
func getSupportedAssetTypes() []AssetType {
	return []AssetType{
		AssetTypeStock,
		AssetTypeGovernmentBond,
		AssetTypeCorporateBond,
		AssetTypeETF,
		AssetTypeREIT,
		AssetTypeIslamicInstrument,
		AssetTypeMutualFund,
	}
}

// createEGXTradingSchedule creates the trading schedule for EGX
func createEGXTradingSchedule(timezone *time.Location) *TradingSchedule {
	now := time.Now().In(timezone)

	return &TradingSchedule{
		MarketOpen:      time.Date(now.Year(), now.Month(), now.Day(), 10, 0, 0, 0, timezone),
		MarketClose:     time.Date(now.Year(), now.Month(), now.Day(), 14, 30, 0, 0, timezone),
		PreMarketOpen:   time.Date(now.Year(), now.Month(), now.Day(), 9, 30, 0, 0, timezone),
		PostMarketClose: time.Date(now.Year(), now.Month(), now.Day(), 15, 0, 0, 0, timezone),
		TradingSessions: []TradingSession{
			{
				Name:       "Main Session",
				StartTime:  time.Date(now.Year(), now.Month(), now.Day(), 10, 0, 0, 0, timezone),
				EndTime:    time.Date(now.Year(), now.Month(), now.Day(), 14, 30, 0, 0, timezone),
				AssetTypes: getSupportedAssetTypes(),
			},
		},
		Holidays: getEGXHolidays(now.Year()),
		Timezone: timezone,
	}
}

// getEGXHolidays returns EGX holidays for a given year
func getEGXHolidays(year int) []time.Time {
	// Egyptian holidays (simplified list)
	return []time.Time{
		time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),  // New Year
		time.Date(year, 1, 25, 0, 0, 0, 0, time.UTC), // Revolution Day
		time.Date(year, 4, 25, 0, 0, 0, 0, time.UTC), // Sinai Liberation Day
		time.Date(year, 5, 1, 0, 0, 0, 0, time.UTC),  // Labor Day
		time.Date(year, 7, 23, 0, 0, 0, 0, time.UTC), // Revolution Day
		time.Date(year, 10, 6, 0, 0, 0, 0, time.UTC), // Armed Forces Day
		// Islamic holidays would be calculated based on lunar calendar
	}
}

// Shutdown gracefully shuts down the EGX service
func (egx *EGXService) Shutdown(ctx context.Context) error {
	log.Printf("Shutting down EGX Service...")

	// Stop market data feeds
	egx.marketData.Stop()

	// Disconnect from EGX
	egx.connector.Disconnect()

	// Stop performance monitoring
	egx.performanceMonitor.Stop()

	log.Printf("EGX Service shutdown complete")
	return nil
}
