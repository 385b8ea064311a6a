package compliance

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// UnifiedComplianceEngine provides comprehensive compliance and regulatory reporting
type UnifiedComplianceEngine struct {
	config          *ComplianceConfig
	logger          *zap.Logger
	ruleEngine      *RuleEngine
	reportGenerator *ReportGenerator
	auditTrail      *AuditTrail
	alertManager    *AlertManager
	metrics         *ComplianceMetrics
	isRunning       int32
	stopChannel     chan struct{}
	mu              sync.RWMutex
}

// ComplianceConfig contains configuration for compliance engine
type ComplianceConfig struct {
	EnabledRegulations   []string      `json:"enabled_regulations"`
	ReportingEnabled     bool          `json:"reporting_enabled"`
	AuditTrailEnabled    bool          `json:"audit_trail_enabled"`
	AlertingEnabled      bool          `json:"alerting_enabled"`
	ReportingInterval    time.Duration `json:"reporting_interval"`
	RetentionPeriod      time.Duration `json:"retention_period"`
	MaxViolationsPerDay  int           `json:"max_violations_per_day"`
	AutoReportingEnabled bool          `json:"auto_reporting_enabled"`
}

// ComplianceMetrics tracks compliance performance
type ComplianceMetrics struct {
	TotalChecks        int64         `json:"total_checks"`
	PassedChecks       int64         `json:"passed_checks"`
	FailedChecks       int64         `json:"failed_checks"`
	ViolationsDetected int64         `json:"violations_detected"`
	ReportsGenerated   int64         `json:"reports_generated"`
	AlertsTriggered    int64         `json:"alerts_triggered"`
	AverageCheckTime   time.Duration `json:"average_check_time"`
	LastUpdateTime     time.Time     `json:"last_update_time"`
}

// RuleEngine manages compliance rules
type RuleEngine struct {
	rules  map[string]ComplianceRule
	logger *zap.Logger
	mu     sync.RWMutex
}

// ReportGenerator generates compliance reports
type ReportGenerator struct {
	templates map[string]ReportTemplate
	logger    *zap.Logger
	mu        sync.RWMutex
}

// AuditTrail maintains audit trail of compliance events
type AuditTrail struct {
	entries    []AuditEntry
	maxEntries int
	logger     *zap.Logger
	mu         sync.RWMutex
}

// AlertManager manages compliance alerts
type AlertManager struct {
	handlers []AlertHandler
	logger   *zap.Logger
	mu       sync.RWMutex
}

// ComplianceRule defines a compliance rule
type ComplianceRule struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Type        ComplianceRuleType     `json:"type"`
	Enabled     bool                   `json:"enabled"`
	Priority    int                    `json:"priority"`
	Parameters  map[string]interface{} `json:"parameters"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// ComplianceRuleType defines types of compliance rules
type ComplianceRuleType string

const (
	RuleTypePositionLimit      ComplianceRuleType = "position_limit"
	RuleTypeTradingHours       ComplianceRuleType = "trading_hours"
	RuleTypeRiskLimit          ComplianceRuleType = "risk_limit"
	RuleTypeMarketManipulation ComplianceRuleType = "market_manipulation"
	RuleTypeInsiderTrading     ComplianceRuleType = "insider_trading"
	RuleTypeKYC                ComplianceRuleType = "kyc"
	RuleTypeAML                ComplianceRuleType = "aml"
	RuleTypeMiFID              ComplianceRuleType = "mifid"
)

// ComplianceViolation represents a compliance violation
type ComplianceViolation struct {
	ID            string                 `json:"id"`
	RuleID        string                 `json:"rule_id"`
	UserID        string                 `json:"user_id"`
	OrderID       string                 `json:"order_id"`
	ViolationType string                 `json:"violation_type"`
	Severity      ViolationSeverity      `json:"severity"`
	Description   string                 `json:"description"`
	Details       map[string]interface{} `json:"details"`
	Status        ViolationStatus        `json:"status"`
	DetectedAt    time.Time              `json:"detected_at"`
	ResolvedAt    *time.Time             `json:"resolved_at,omitempty"`
}

// ViolationSeverity defines severity levels for violations
type ViolationSeverity string

const (
	SeverityLow      ViolationSeverity = "low"
	SeverityMedium   ViolationSeverity = "medium"
	SeverityHigh     ViolationSeverity = "high"
	SeverityCritical ViolationSeverity = "critical"
)

// ViolationStatus defines status of violations
type ViolationStatus string

const (
	ViolationStatusOpen          ViolationStatus = "open"
	ViolationStatusInvestigating ViolationStatus = "investigating"
	ViolationStatusResolved      ViolationStatus = "resolved"
	ViolationStatusFalsePositive ViolationStatus = "false_positive"
)

// ComplianceReport represents a compliance report
type ComplianceReport struct {
	ID          string       `json:"id"`
	Type        ReportType   `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Period      ReportPeriod `json:"period"`
	Status      ReportStatus `json:"status"`
	Data        interface{}  `json:"data"`
	GeneratedAt time.Time    `json:"generated_at"`
	GeneratedBy string       `json:"generated_by"`
}

// ReportType defines types of compliance reports
type ReportType string

const (
	ReportTypeDaily     ReportType = "daily"
	ReportTypeWeekly    ReportType = "weekly"
	ReportTypeMonthly   ReportType = "monthly"
	ReportTypeQuarterly ReportType = "quarterly"
	ReportTypeAnnual    ReportType = "annual"
	ReportTypeAdHoc     ReportType = "adhoc"
)

// ReportPeriod defines the period for a report
type ReportPeriod struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// ReportStatus defines status of reports
type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "pending"
	ReportStatusGenerating ReportStatus = "generating"
	ReportStatusCompleted  ReportStatus = "completed"
	ReportStatusFailed     ReportStatus = "failed"
)

// ReportTemplate defines a template for generating reports
type ReportTemplate struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Type        ReportType             `json:"type"`
	Description string                 `json:"description"`
	Template    string                 `json:"template"`
	Parameters  map[string]interface{} `json:"parameters"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// AuditEntry represents an audit trail entry
type AuditEntry struct {
	ID          string                 `json:"id"`
	EventType   AuditEventType         `json:"event_type"`
	UserID      string                 `json:"user_id"`
	OrderID     string                 `json:"order_id"`
	Action      string                 `json:"action"`
	Description string                 `json:"description"`
	Details     map[string]interface{} `json:"details"`
	IPAddress   string                 `json:"ip_address"`
	UserAgent   string                 `json:"user_agent"`
	Timestamp   time.Time              `json:"timestamp"`
}

// AuditEventType defines types of audit events
type AuditEventType string

const (
	AuditEventOrderPlaced       AuditEventType = "order_placed"
	AuditEventOrderModified     AuditEventType = "order_modified"
	AuditEventOrderCancelled    AuditEventType = "order_cancelled"
	AuditEventOrderExecuted     AuditEventType = "order_executed"
	AuditEventViolationDetected AuditEventType = "violation_detected"
	AuditEventReportGenerated   AuditEventType = "report_generated"
	AuditEventAlertTriggered    AuditEventType = "alert_triggered"
	AuditEventUserLogin         AuditEventType = "user_login"
	AuditEventUserLogout        AuditEventType = "user_logout"
	AuditEventConfigChanged     AuditEventType = "config_changed"
)

// ComplianceAlert represents a compliance alert
type ComplianceAlert struct {
	ID        string                 `json:"id"`
	Type      AlertType              `json:"type"`
	Severity  ViolationSeverity      `json:"severity"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details"`
	Status    AlertStatus            `json:"status"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// AlertType defines types of alerts
type AlertType string

const (
	AlertTypeViolation   AlertType = "violation"
	AlertTypeSystemError AlertType = "system_error"
	AlertTypeThreshold   AlertType = "threshold"
	AlertTypeRegulatory  AlertType = "regulatory"
)

// AlertStatus defines status of alerts
type AlertStatus string

const (
	AlertStatusActive       AlertStatus = "active"
	AlertStatusAcknowledged AlertStatus = "acknowledged"
	AlertStatusResolved     AlertStatus = "resolved"
)

// AlertHandler defines the interface for alert handlers
type AlertHandler interface {
	HandleAlert(alert *ComplianceAlert) error
}

// ComplianceResult represents the result of a compliance check
type ComplianceResult struct {
	Passed     bool                  `json:"passed"`
	Violations []ComplianceViolation `json:"violations"`
	CheckTime  time.Duration         `json:"check_time"`
	Timestamp  time.Time             `json:"timestamp"`
}
