// Package websocket implements Plan 6: Real-Time WebSocket System for TradSys v3
// Provides intelligent WebSocket routing with multi-dimensional connection management
package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketGateway manages intelligent WebSocket connections and routing
type WebSocketGateway struct {
	connectionManager   *ConnectionManager
	subscriptionManager *SubscriptionManager
	licenseValidator    *LicenseValidator
	islamicFilter       *IslamicFilter
	complianceEngine    *ComplianceEngine
	analyticsEngine     *AnalyticsEngine
	upgrader            websocket.Upgrader
	connections         map[string]*WebSocketConnection
	channels            map[string]*ExchangeChannel
	mu                  sync.RWMutex
}

// WebSocketConnection represents a single WebSocket connection
type WebSocketConnection struct {
	ID               string
	UserID           string
	SessionID        string
	Exchange         ExchangeType
	Connection       *websocket.Conn
	Context          *WebSocketConnectionContext
	Subscriptions    map[string]*Subscription
	LastActivity     time.Time
	CreatedAt        time.Time
	MessageCount     int64
	BytesTransferred int64
	IsActive         bool
	mu               sync.RWMutex
}

// WebSocketConnectionContext contains connection context information
type WebSocketConnectionContext struct {
	ConnectionID     string
	UserID           string
	SessionID        string
	Exchange         ExchangeType
	LicenseTier      LicenseTier
	IslamicCompliant bool
	Region           string
	ClientIP         string
	UserAgent        string
	RegionalEndpoint string
	Metadata         map[string]interface{}
}

// WebSocketMessage represents a WebSocket message
type WebSocketMessage struct {
	Type      MessageType            `json:"type"`
	Channel   string                 `json:"channel"`
	Data      interface{}            `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	MessageID string                 `json:"message_id"`
	UserID    string                 `json:"user_id,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// MessageType defines WebSocket message types
type MessageType int

const (
	MessageTypeSubscribe MessageType = iota
	MessageTypeUnsubscribe
	MessageTypeMarketData
	MessageTypeOrderUpdate
	MessageTypePortfolioUpdate
	MessageTypeAlert
	MessageTypeHeartbeat
	MessageTypeError
	MessageTypeAuth
	MessageTypeCompliance
)

// ExchangeType defines supported exchanges for WebSocket
type ExchangeType int

const (
	ExchangeTypeEGX ExchangeType = iota
	ExchangeTypeADX
	ExchangeTypeUnified
)

// LicenseTier defines license tiers for WebSocket access
type LicenseTier int

const (
	LicenseTierBasic LicenseTier = iota
	LicenseTierProfessional
	LicenseTierEnterprise
	LicenseTierIslamic
)

// Subscription represents a WebSocket subscription
type Subscription struct {
	ID               string
	ConnectionID     string
	Channel          string
	Filters          map[string]interface{}
	LicenseValidated bool
	IslamicCompliant bool
	CreatedAt        time.Time
	LastUpdate       time.Time
	MessageCount     int64
}

// ExchangeChannel represents an exchange-specific WebSocket channel
type ExchangeChannel struct {
	Name                 string
	Exchange             ExchangeType
	Subscribers          map[string]*WebSocketConnection
	MessageQueue         chan *WebSocketMessage
	IslamicFiltering     bool
	LicenseRequired      LicenseTier
	RegionalOptimization bool
	mu                   sync.RWMutex
}

// ConnectionManager manages WebSocket connections
type ConnectionManager struct {
	connections map[string]*WebSocketConnection
	mu          sync.RWMutex
}

// SubscriptionManager manages WebSocket subscriptions
type SubscriptionManager struct {
	subscriptions map[string]*Subscription
	mu            sync.RWMutex
}

// LicenseValidator validates WebSocket license access
type LicenseValidator struct {
	// License validation logic
}

// IslamicFilter filters WebSocket messages for Islamic compliance
type IslamicFilter struct {
	// Islamic filtering logic
}

// ComplianceEngine handles WebSocket compliance validation
type ComplianceEngine struct {
	// Compliance validation logic
}

// AnalyticsEngine processes WebSocket analytics
type AnalyticsEngine struct {
	// Analytics processing logic
}
