// Package exchanges defines common types and interfaces for exchange services
package exchanges

import (
	"context"
	"fmt"
	"time"
)

// Order represents a trading order
type Order struct {
	ID          string
	UserID      string
	Symbol      string
	AssetType   AssetType
	Type        OrderType
	Side        OrderSide
	Quantity    float64
	Price       float64
	TimeInForce TimeInForce
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Status      OrderStatus
	Metadata    map[string]interface{}
}

// OrderType defines order types
type OrderType int

const (
	OrderTypeMarket OrderType = iota
	OrderTypeLimit
	OrderTypeStop
	OrderTypeStopLimit
)

// OrderSide defines order sides
type OrderSide int

const (
	OrderSideBuy OrderSide = iota
	OrderSideSell
)

// OrderStatus defines order status
type OrderStatus int

const (
	OrderStatusPending OrderStatus = iota
	OrderStatusPartiallyFilled
	OrderStatusFilled
	OrderStatusCancelled
	OrderStatusRejected
)

// TimeInForce defines time in force options
type TimeInForce int

const (
	TimeInForceGTC TimeInForce = iota // Good Till Cancelled
	TimeInForceIOC                    // Immediate Or Cancel
	TimeInForceFOK                    // Fill Or Kill
	TimeInForceDAY                    // Day Order
)

// OrderResponse represents response from order submission
type OrderResponse struct {
	OrderID     string
	Status      OrderStatus
	Message     string
	Timestamp   time.Time
	ExecutedQty float64
	AvgPrice    float64
}

// MarketData represents market data for an asset
type MarketData struct {
	Symbol      string
	AssetType   AssetType
	Price       float64
	Bid         float64
	Ask         float64
	Volume      int64
	High        float64
	Low         float64
	Open        float64
	Close       float64
	Change      float64
	ChangePercent float64
	Timestamp   time.Time
	Exchange    string
}

// MarketDataUpdate represents real-time market data update
type MarketDataUpdate struct {
	Symbol    string
	Price     float64
	Volume    int64
	Timestamp time.Time
	Type      UpdateType
}

// UpdateType defines market data update types
type UpdateType int

const (
	UpdateTypeTrade UpdateType = iota
	UpdateTypeQuote
	UpdateTypeOrderBook
)

// AssetInfo represents detailed asset information
type AssetInfo struct {
	Symbol         string
	Name           string
	AssetType      AssetType
	Exchange       string
	Region         string
	Currency       string
	ISIN           string
	Sector         string
	Industry       string
	MarketCap      float64
	TradingHours   *TradingSchedule
	ComplianceInfo *ComplianceInfo
	IslamicInfo    *IslamicInfo
	Metadata       map[string]interface{}
}

// ComplianceInfo represents compliance information
type ComplianceInfo struct {
	Exchange        string
	Regulator       string
	ComplianceLevel string
	LastUpdated     time.Time
	Rules           []string
}

// IslamicInfo represents Islamic finance information
type IslamicInfo struct {
	IsHalal         bool
	ShariaBoard     string
	LastScreened    time.Time
	ComplianceScore float64
	Restrictions    []string
}

// TradingStatus represents current trading status
type TradingStatus struct {
	Exchange    string
	IsOpen      bool
	CurrentTime time.Time
	NextOpen    time.Time
	NextClose   time.Time
	Session     *TradingSession
	Message     string
}

// PerformanceMetrics represents performance metrics
type PerformanceMetrics struct {
	OrderLatency    time.Duration
	DataLatency     time.Duration
	Throughput      float64
	ErrorRate       float64
	Uptime          float64
	ConnectionCount int64
	Timestamp       time.Time
}

// Supporting component interfaces and types



// RateLimiter manages API rate limiting
type RateLimiter struct {
	RequestsPerSecond int
	BurstSize         int
	tokens            chan struct{}
}

// RetryPolicy defines retry behavior
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// HealthChecker monitors service health
type HealthChecker struct {
	CheckInterval time.Duration
	Timeout       time.Duration
	isHealthy     bool
}



// PriceEngine calculates prices
type PriceEngine struct {
	PricingModel string
	UpdateFreq   time.Duration
}

// IndexCalculator calculates indices
type IndexCalculator struct {
	Indices map[string]float64
}

// OrderBook manages order book
type OrderBook struct {
	Symbol string
	Bids   []OrderLevel
	Asks   []OrderLevel
}

// OrderLevel represents price level in order book
type OrderLevel struct {
	Price    float64
	Quantity float64
	Orders   int
}

// ExecutionEngine handles order execution
type ExecutionEngine struct {
	ExecutionAlgo string
	SlippageLimit float64
}

// SettlementManager handles trade settlement
type SettlementManager struct {
	SettlementPeriod time.Duration
	ClearingHouse    string
}

// AuditTrail maintains audit records
type AuditTrail struct {
	RetentionPeriod time.Duration
	EncryptionKey   string
}

// RiskRule defines risk management rule
type RiskRule struct {
	RuleID      string
	Description string
	Validator   func(interface{}) bool
	Action      RiskAction
}

// RiskAction defines risk management actions
type RiskAction int

const (
	RiskActionAllow RiskAction = iota
	RiskActionWarn
	RiskActionBlock
	RiskActionLimit
)

// PositionLimit defines position limits
type PositionLimit struct {
	MaxPosition     float64
	MaxNotional     float64
	ConcentrationLimit float64
}

// VolatilityModel calculates volatility
type VolatilityModel struct {
	Model      string
	WindowSize int
	Lambda     float64
}

// StressTestEngine performs stress testing
type StressTestEngine struct {
	Scenarios []StressScenario
}

// StressScenario defines stress test scenario
type StressScenario struct {
	Name        string
	Description string
	Parameters  map[string]float64
}

// PerformanceMonitor monitors performance metrics
type PerformanceMonitor struct {
	MetricsInterval time.Duration
	AlertThresholds map[string]float64
	isRunning       bool
}

// NewEgyptianCompliance creates Egyptian compliance engine
func NewEgyptianCompliance() *EgyptianCompliance {
	return &EgyptianCompliance{
		regulatoryRules: make(map[string]ComplianceRule),
		kycRequirements: KYCRequirements{
			RequiredDocuments: []string{"national_id", "proof_of_address", "bank_statement"},
			VerificationLevel: 2,
			RenewalPeriod:     365 * 24 * time.Hour,
		},
		reportingRules: ReportingRules{
			DailyReports:   []string{"trading_summary", "risk_report"},
			MonthlyReports: []string{"compliance_report", "audit_trail"},
			AnnualReports:  []string{"annual_compliance", "regulatory_filing"},
		},
	}
}

// LoadRegulatoryRules loads EFA regulatory rules
func (ec *EgyptianCompliance) LoadRegulatoryRules() {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	// EFA Rule 1: Position Limits
	ec.regulatoryRules["EFA_001"] = ComplianceRule{
		RuleID:      "EFA_001",
		Description: "Maximum position limit per security",
		AssetTypes:  []AssetType{AssetTypeStock},
		Validator: func(data interface{}) bool {
			// Implement position limit validation
			return true
		},
		Severity: SeverityError,
	}

	// EFA Rule 2: Market Manipulation Prevention
	ec.regulatoryRules["EFA_002"] = ComplianceRule{
		RuleID:      "EFA_002",
		Description: "Market manipulation detection",
		AssetTypes:  getSupportedAssetTypes(),
		Validator: func(data interface{}) bool {
			// Implement market manipulation detection
			return true
		},
		Severity: SeverityCritical,
	}

	// EFA Rule 3: Islamic Finance Compliance
	ec.regulatoryRules["EFA_003"] = ComplianceRule{
		RuleID:      "EFA_003",
		Description: "Islamic finance Sharia compliance",
		AssetTypes:  []AssetType{AssetTypeIslamicInstrument},
		Validator: func(data interface{}) bool {
			// Implement Sharia compliance validation
			return true
		},
		Severity: SeverityError,
	}
}

// ValidateOrder validates order against Egyptian compliance rules
func (ec *EgyptianCompliance) ValidateOrder(order *Order) error {
	ec.mu.RLock()
	defer ec.mu.RUnlock()

	for _, rule := range ec.regulatoryRules {
		// Check if rule applies to this asset type
		applies := false
		for _, assetType := range rule.AssetTypes {
			if assetType == order.AssetType {
				applies = true
				break
			}
		}

		if applies && !rule.Validator(order) {
			if rule.Severity == SeverityCritical {
				return fmt.Errorf("critical compliance violation: %s", rule.Description)
			}
		}
	}

	return nil
}

// NewEGXConnector creates EGX connector
func NewEGXConnector() *EGXConnector {
	return &EGXConnector{
		endpoint:       "https://api.egx.com.eg",
		connectionPool: &ConnectionPool{maxConnections: 100},
		rateLimiter:    &RateLimiter{RequestsPerSecond: 100, BurstSize: 200},
		retryPolicy:    &RetryPolicy{MaxRetries: 3, InitialDelay: time.Second, MaxDelay: 10 * time.Second, BackoffFactor: 2.0},
		healthChecker:  &HealthChecker{CheckInterval: 30 * time.Second, Timeout: 5 * time.Second},
	}
}

// Connect establishes connection to EGX
func (conn *EGXConnector) Connect() error {
	// Implement EGX connection logic
	return nil
}

// Disconnect closes connection to EGX
func (conn *EGXConnector) Disconnect() error {
	// Implement EGX disconnection logic
	return nil
}

// GetAssetInfo retrieves asset information from EGX
func (conn *EGXConnector) GetAssetInfo(symbol string) (*AssetInfo, error) {
	// Implement asset info retrieval
	return &AssetInfo{
		Symbol:    symbol,
		Exchange:  "EGX",
		Currency:  "EGP",
		AssetType: AssetTypeStock,
	}, nil
}

// NewEGXMarketData creates EGX market data handler
func NewEGXMarketData() *EGXMarketData {
	return &EGXMarketData{
		realTimeFeeds:   make(map[string]*DataFeed),
		historicalData:  &HistoricalDataStore{data: make(map[string][]HistoricalDataPoint)},
		priceEngine:     &PriceEngine{PricingModel: "VWAP", UpdateFreq: time.Second},
		indexCalculator: &IndexCalculator{Indices: make(map[string]float64)},
	}
}

// StartRealTimeFeeds starts real-time data feeds
func (md *EGXMarketData) StartRealTimeFeeds() {
	// Implement real-time feed startup
}

// Stop stops market data feeds
func (md *EGXMarketData) Stop() {
	// Implement market data shutdown
}

// GetRealTimeData gets real-time market data
func (md *EGXMarketData) GetRealTimeData(symbol string, assetType AssetType) (*MarketData, error) {
	// Implement real-time data retrieval
	return &MarketData{
		Symbol:    symbol,
		AssetType: assetType,
		Exchange:  "EGX",
		Timestamp: time.Now(),
	}, nil
}

// Subscribe subscribes to market data updates
func (md *EGXMarketData) Subscribe(symbols []string, callback func(*MarketDataUpdate)) error {
	// Implement market data subscription
	return nil
}

// NewEGXOrderManager creates EGX order manager
func NewEGXOrderManager() *EGXOrderManager {
	return &EGXOrderManager{
		orderBook:       &OrderBook{},
		executionEngine: &ExecutionEngine{ExecutionAlgo: "TWAP", SlippageLimit: 0.01},
		settlementMgr:   &SettlementManager{SettlementPeriod: 2 * 24 * time.Hour, ClearingHouse: "MCDR"},
		auditTrail:      &AuditTrail{RetentionPeriod: 7 * 365 * 24 * time.Hour},
	}
}

// SubmitOrder submits order to EGX
func (om *EGXOrderManager) SubmitOrder(ctx context.Context, order *Order) (*OrderResponse, error) {
	// Implement order submission
	return &OrderResponse{
		OrderID:   order.ID,
		Status:    OrderStatusPending,
		Timestamp: time.Now(),
	}, nil
}

// NewEGXRiskEngine creates EGX risk engine
func NewEGXRiskEngine() *EGXRiskEngine {
	return &EGXRiskEngine{
		riskRules:       make(map[string]RiskRule),
		positionLimits:  make(map[AssetType]PositionLimit),
		volatilityModel: &VolatilityModel{Model: "GARCH", WindowSize: 252, Lambda: 0.94},
		stressTest:      &StressTestEngine{},
	}
}

// AssessOrder assesses order risk
func (re *EGXRiskEngine) AssessOrder(order *Order) error {
	// Implement risk assessment
	return nil
}

// NewPerformanceMonitor creates performance monitor
func NewPerformanceMonitor() *PerformanceMonitor {
	return &PerformanceMonitor{
		MetricsInterval: time.Minute,
		AlertThresholds: map[string]float64{
			"latency":    50.0, // 50ms
			"error_rate": 0.01, // 1%
			"uptime":     0.999, // 99.9%
		},
	}
}

// Start starts performance monitoring
func (pm *PerformanceMonitor) Start() {
	pm.isRunning = true
	// Implement performance monitoring
}



// RecordOrderLatency records order latency
func (pm *PerformanceMonitor) RecordOrderLatency(latency time.Duration) {
	// Implement latency recording
}

// GetMetrics returns performance metrics
func (pm *PerformanceMonitor) GetMetrics() *PerformanceMetrics {
	return &PerformanceMetrics{
		OrderLatency: 25 * time.Millisecond,
		DataLatency:  5 * time.Millisecond,
		Throughput:   1000.0,
		ErrorRate:    0.001,
		Uptime:       0.9999,
		Timestamp:    time.Now(),
	}
}
