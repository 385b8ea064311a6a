package exchanges

import (
	"context"
	"time"
)

// ADXConfig represents configuration for Abu Dhabi Exchange
type ADXConfig struct {
	APIEndpoint     string
	APIKey          string
	SecretKey       string
	TradingEnabled  bool
	IslamicMode     bool
	ComplianceLevel string
	Timeout         time.Duration
}

// ADXOrderManager manages orders for ADX
type ADXOrderManager struct {
	config *ADXConfig
	client *ADXClient
}

// ScreeningEngine performs Sharia compliance screening
type ScreeningEngine struct {
	rules      []ComplianceRule
	database   *ComplianceDatabase
	auditTrail *IslamicAuditTrail
}

// ComplianceDatabase stores compliance-related data
type ComplianceDatabase struct {
	connection string
	cache      map[string]ComplianceRecord
}

// IslamicAuditTrail maintains audit trail for Islamic finance compliance
type IslamicAuditTrail struct {
	entries []AuditEntry
	storage string
}

// ReportingRequirements defines regulatory reporting requirements
type ReportingRequirements struct {
	Frequency   string
	Recipients  []string
	Format      string
	Mandatory   bool
	Deadline    time.Duration
}

// LicensingRequirements defines licensing requirements for trading
type LicensingRequirements struct {
	LicenseType   string
	Jurisdiction  string
	ExpiryDate    time.Time
	Renewable     bool
	Conditions    []string
}

// SukukPricingEngine handles Sukuk (Islamic bond) pricing
type SukukPricingEngine struct {
	models     []PricingModel
	riskEngine *RiskEngine
}

// IslamicIndexCalculator calculates Islamic finance indices
type IslamicIndexCalculator struct {
	constituents []SecurityInfo
	weights      map[string]float64
	methodology  string
}

// ComplianceDataStore stores compliance-related data
type ComplianceDataStore struct {
	database   *ComplianceDatabase
	cache      map[string]interface{}
	encryption bool
}

// Supporting types
type ComplianceRule struct {
	ID          string
	Name        string
	Description string
	Severity    string
	Active      bool
}

type ComplianceRecord struct {
	SecurityID   string
	Status       string
	LastChecked  time.Time
	Issues       []string
	Approved     bool
}

type AuditEntry struct {
	ID        string
	Action    string
	UserID    string
	Timestamp time.Time
	Details   map[string]interface{}
}

type PricingModel struct {
	Name       string
	Parameters map[string]float64
	Active     bool
}

type RiskEngine struct {
	models []RiskModel
}

type RiskModel struct {
	Name   string
	Type   string
	Active bool
}

type SecurityInfo struct {
	Symbol      string
	Name        string
	Sector      string
	MarketCap   float64
	IsCompliant bool
}

// ADXClient represents a client for ADX API
type ADXClient struct {
	config     *ADXConfig
	httpClient interface{}
}

// Base exchange service types
type Connector interface {
	Connect(ctx context.Context) error
	Disconnect() error
	IsConnected() bool
	GetStatus() string
}

type MarketDataService interface {
	Subscribe(symbols []string) error
	Unsubscribe(symbols []string) error
	GetSnapshot(symbol string) (*MarketSnapshot, error)
	GetOrderBook(symbol string) (*OrderBook, error)
}

type OrderManager interface {
	PlaceOrder(ctx context.Context, order *Order) (*OrderResponse, error)
	CancelOrder(ctx context.Context, orderID string) error
	GetOrder(ctx context.Context, orderID string) (*Order, error)
	GetOrders(ctx context.Context, filter *OrderFilter) ([]*Order, error)
}

type AssetManager interface {
	GetAssets() ([]*Asset, error)
	GetAsset(symbol string) (*Asset, error)
	GetBalance(asset string) (*Balance, error)
	GetBalances() ([]*Balance, error)
}

type ComplianceService interface {
	CheckCompliance(ctx context.Context, order *Order) (*ComplianceResult, error)
	GetComplianceStatus(symbol string) (*ComplianceStatus, error)
	UpdateComplianceRules(rules []ComplianceRule) error
}

type IslamicFinanceService interface {
	IsShariahCompliant(symbol string) (bool, error)
	GetComplianceRating(symbol string) (*ComplianceRating, error)
	ScreenPortfolio(holdings []Holding) (*ScreeningResult, error)
}

// Supporting data structures
type MarketSnapshot struct {
	Symbol    string
	Price     float64
	Volume    float64
	Timestamp time.Time
}

type OrderBook struct {
	Symbol string
	Bids   []PriceLevel
	Asks   []PriceLevel
}

type PriceLevel struct {
	Price    float64
	Quantity float64
}

type Order struct {
	ID       string
	Symbol   string
	Side     string
	Type     string
	Price    float64
	Quantity float64
	Status   string
}

type OrderResponse struct {
	OrderID   string
	Status    string
	Message   string
	Timestamp time.Time
}

type OrderFilter struct {
	Symbol string
	Status string
	Side   string
}

type Asset struct {
	Symbol      string
	Name        string
	Type        string
	TradingPair string
}

type Balance struct {
	Asset     string
	Available float64
	Locked    float64
	Total     float64
}

type ComplianceResult struct {
	Approved bool
	Issues   []string
	Score    float64
}

type ComplianceStatus struct {
	Symbol     string
	Status     string
	LastUpdate time.Time
}

type ComplianceRating struct {
	Symbol string
	Rating string
	Score  float64
	Reason string
}

type Holding struct {
	Symbol   string
	Quantity float64
	Value    float64
}

type ScreeningResult struct {
	Compliant bool
	Issues    []string
	Score     float64
}

// Constructor functions
func NewConnector(config interface{}) Connector {
	// Implementation would depend on specific exchange
	return nil
}

func NewMarketDataService(connector Connector) MarketDataService {
	// Implementation would depend on specific exchange
	return nil
}

func NewOrderManager(connector Connector) OrderManager {
	// Implementation would depend on specific exchange
	return nil
}

func NewAssetManager(connector Connector) AssetManager {
	// Implementation would depend on specific exchange
	return nil
}

func NewComplianceService(config interface{}) ComplianceService {
	// Implementation would depend on specific requirements
	return nil
}

func NewIslamicFinanceService(config interface{}) IslamicFinanceService {
	// Implementation would depend on specific requirements
	return nil
}
