package strategies

import (
	"sync"
	"time"

	"github.com/abdoElHodaky/tradSys/internal/trading/types"
	"go.uber.org/zap"
)

// UnifiedStrategyEngine manages algorithmic trading strategies
type UnifiedStrategyEngine struct {
	config      *StrategyConfig
	logger      *zap.Logger
	strategies  map[string]TradingStrategy
	executor    *StrategyExecutor
	monitor     *StrategyMonitor
	metrics     *StrategyMetrics
	isRunning   int32
	stopChannel chan struct{}
	mu          sync.RWMutex
}

// StrategyConfig contains configuration for strategy engine
type StrategyConfig struct {
	EnabledStrategies   []string      `json:"enabled_strategies"`
	MaxConcurrentOrders int           `json:"max_concurrent_orders"`
	RiskLimits          RiskLimits    `json:"risk_limits"`
	ExecutionInterval   time.Duration `json:"execution_interval"`
	MonitoringEnabled   bool          `json:"monitoring_enabled"`
}

// RiskLimits defines risk limits for strategies
type RiskLimits struct {
	MaxPositionSize float64 `json:"max_position_size"`
	MaxDailyLoss    float64 `json:"max_daily_loss"`
	MaxDrawdown     float64 `json:"max_drawdown"`
}

// StrategyMetrics tracks strategy performance
type StrategyMetrics struct {
	TotalOrders      int64     `json:"total_orders"`
	SuccessfulTrades int64     `json:"successful_trades"`
	TotalPnL         float64   `json:"total_pnl"`
	WinRate          float64   `json:"win_rate"`
	AverageReturn    float64   `json:"average_return"`
	MaxDrawdown      float64   `json:"max_drawdown"`
	SharpeRatio      float64   `json:"sharpe_ratio"`
	LastUpdateTime   time.Time `json:"last_update_time"`
}

// TradingStrategy defines the interface for trading strategies
type TradingStrategy interface {
	GetID() string
	GetName() string
	Initialize(config map[string]interface{}) error
	GenerateSignals(marketData *MarketData) ([]*TradingSignal, error)
	UpdatePosition(position *Position) error
	GetMetrics() *StrategyMetrics
	IsEnabled() bool
	Stop() error
}

// StrategyExecutor executes trading signals
type StrategyExecutor struct {
	orderChannel chan *types.Order
	logger       *zap.Logger
	mu           sync.RWMutex
}

// StrategyMonitor monitors strategy performance
type StrategyMonitor struct {
	positions map[string]*Position
	logger    *zap.Logger
	mu        sync.RWMutex
}

// MarketData represents market data for strategies
type MarketData struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Volume    float64   `json:"volume"`
	Timestamp time.Time `json:"timestamp"`
	OHLC      *OHLC     `json:"ohlc,omitempty"`
}

// OHLC represents open, high, low, close data
type OHLC struct {
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// TradingSignal represents a trading signal
type TradingSignal struct {
	StrategyID string        `json:"strategy_id"`
	Symbol     string        `json:"symbol"`
	Action     SignalAction  `json:"action"`
	Price      float64       `json:"price,omitempty"`
	Quantity   float64       `json:"quantity"`
	Confidence float64       `json:"confidence"`
	Timestamp  time.Time     `json:"timestamp"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// SignalAction represents the action to take
type SignalAction string

const (
	SignalActionBuy  SignalAction = "buy"
	SignalActionSell SignalAction = "sell"
	SignalActionHold SignalAction = "hold"
)

// Position represents a trading position
type Position struct {
	Symbol       string    `json:"symbol"`
	Quantity     float64   `json:"quantity"`
	AveragePrice float64   `json:"average_price"`
	CurrentPrice float64   `json:"current_price"`
	UnrealizedPnL float64  `json:"unrealized_pnl"`
	RealizedPnL   float64  `json:"realized_pnl"`
	LastUpdate    time.Time `json:"last_update"`
}

// MomentumStrategy implements a momentum-based trading strategy
type MomentumStrategy struct {
	id        string
	name      string
	enabled   bool
	threshold float64
	lookback  int
	metrics   *StrategyMetrics
	logger    *zap.Logger
}

// StrategyType represents different strategy types
type StrategyType string

const (
	StrategyTypeMomentum     StrategyType = "momentum"
	StrategyTypeMeanReversion StrategyType = "mean_reversion"
	StrategyTypeArbitrage    StrategyType = "arbitrage"
	StrategyTypeGrid         StrategyType = "grid"
)

// StrategyStatus represents strategy execution status
type StrategyStatus string

const (
	StrategyStatusStopped StrategyStatus = "stopped"
	StrategyStatusRunning StrategyStatus = "running"
	StrategyStatusPaused  StrategyStatus = "paused"
	StrategyStatusError   StrategyStatus = "error"
)

// StrategyPerformance represents detailed performance metrics
type StrategyPerformance struct {
	StrategyID       string    `json:"strategy_id"`
	Status           StrategyStatus `json:"status"`
	TotalTrades      int64     `json:"total_trades"`
	WinningTrades    int64     `json:"winning_trades"`
	LosingTrades     int64     `json:"losing_trades"`
	WinRate          float64   `json:"win_rate"`
	TotalPnL         float64   `json:"total_pnl"`
	AverageWin       float64   `json:"average_win"`
	AverageLoss      float64   `json:"average_loss"`
	ProfitFactor     float64   `json:"profit_factor"`
	MaxDrawdown      float64   `json:"max_drawdown"`
	SharpeRatio      float64   `json:"sharpe_ratio"`
	CalmarRatio      float64   `json:"calmar_ratio"`
	LastTradeTime    time.Time `json:"last_trade_time"`
	LastUpdateTime   time.Time `json:"last_update_time"`
}

// RiskMetrics represents risk-related metrics
type RiskMetrics struct {
	CurrentExposure  float64 `json:"current_exposure"`
	MaxExposure      float64 `json:"max_exposure"`
	VaR95            float64 `json:"var_95"`
	VaR99            float64 `json:"var_99"`
	ExpectedShortfall float64 `json:"expected_shortfall"`
	Beta             float64 `json:"beta"`
	Volatility       float64 `json:"volatility"`
}

// ExecutionMetrics represents execution-related metrics
type ExecutionMetrics struct {
	OrdersSubmitted   int64   `json:"orders_submitted"`
	OrdersFilled      int64   `json:"orders_filled"`
	OrdersCancelled   int64   `json:"orders_cancelled"`
	OrdersRejected    int64   `json:"orders_rejected"`
	FillRate          float64 `json:"fill_rate"`
	AverageSlippage   float64 `json:"average_slippage"`
	AverageLatency    float64 `json:"average_latency"`
}
