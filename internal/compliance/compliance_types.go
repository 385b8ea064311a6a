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

// RuleEngine manages compliance rules and checks
type RuleEngine struct {
	rules      map[string]ComplianceRule
	violations []ComplianceViolation
	logger     *zap.Logger
	mu         sync.RWMutex
}

// ReportGenerator generates regulatory reports
type ReportGenerator struct {
	templates map[string]ReportTemplate
	reports   []ComplianceReport
	logger    *zap.Logger
	mu        sync.RWMutex
}

// AuditTrail maintains comprehensive audit logs
type AuditTrail struct {
	entries    []AuditEntry
	maxEntries int
	logger     *zap.Logger
	mu         sync.RWMutex
}

// AlertManager handles compliance alerts and notifications
type AlertManager struct {
	alerts      []ComplianceAlert
	subscribers []AlertHandler
	logger      *zap.Logger
	mu          sync.RWMutex
}

// ComplianceRule defines a compliance rule
type ComplianceRule struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Regulation  string                 `json:"regulation"`
	RuleType    ComplianceRuleType     `json:"rule_type"`
	Parameters  map[string]interface{} `json:"parameters"`
	Enabled     bool                   `json:"enabled"`
	Severity    ViolationSeverity      `json:"severity"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// ComplianceRuleType defines types of compliance rules
type ComplianceRuleType string

const (
	RuleTypePositionLimit      ComplianceRuleType = "position_limit"
	RuleTypeOrderSize          ComplianceRuleType = "order_size"
	RuleTypeTradingHours       ComplianceRuleType = "trading_hours"
	RuleTypeMarketManipulation ComplianceRuleType = "market_manipulation"
	RuleTypeInsiderTrading     ComplianceRuleType = "insider_trading"
	RuleTypeRiskLimit          ComplianceRuleType = "risk_limit"
	RuleTypeReporting          ComplianceRuleType = "reporting"
)

// ComplianceViolation represents a compliance violation
type ComplianceViolation struct {
	ID          string                 `json:"id"`
	RuleID      string                 `json:"rule_id"`
	OrderID     string                 `json:"order_id,omitempty"`
	UserID      string                 `json:"user_id"`
	Symbol      string                 `json:"symbol,omitempty"`
	Severity    ViolationSeverity      `json:"severity"`
	Description string                 `json:"description"`
	Details     map[string]interface{} `json:"details"`
	Status      ViolationStatus        `json:"status"`
	DetectedAt  time.Time              `json:"detected_at"`
	ResolvedAt  *time.Time             `json:"resolved_at,omitempty"`
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

// ComplianceReport represents a regulatory report
type ComplianceReport struct {
	ID          string                 `json:"id"`
	Type        ReportType             `json:"type"`
	Regulation  string                 `json:"regulation"`
	Period      ReportPeriod           `json:"period"`
	Data        map[string]interface{} `json:"data"`
	Status      ReportStatus           `json:"status"`
	GeneratedAt time.Time              `json:"generated_at"`
	SubmittedAt *time.Time             `json:"submitted_at,omitempty"`
	FilePath    string                 `json:"file_path,omitempty"`
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
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusGenerated ReportStatus = "generated"
	ReportStatusSubmitted ReportStatus = "submitted"
	ReportStatusFailed    ReportStatus = "failed"
)

// ReportTemplate defines a template for generating reports
type ReportTemplate struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Type       ReportType `json:"type"`
	Regulation string     `json:"regulation"`
	Fields     []string   `json:"fields"`
	Format     string     `json:"format"`
	Template   string     `json:"template"`
	CreatedAt  time.Time  `json:"created_at"`
}

// AuditEntry represents an audit trail entry
type AuditEntry struct {
	ID        string                 `json:"id"`
	EventType AuditEventType         `json:"event_type"`
	UserID    string                 `json:"user_id"`
	OrderID   string                 `json:"order_id,omitempty"`
	Symbol    string                 `json:"symbol,omitempty"`
	Action    string                 `json:"action"`
	Details   map[string]interface{} `json:"details"`
	IPAddress string                 `json:"ip_address,omitempty"`
	UserAgent string                 `json:"user_agent,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// AuditEventType defines types of audit events
type AuditEventType string

const (
	AuditEventOrderSubmit AuditEventType = "order_submit"
	AuditEventOrderCancel AuditEventType = "order_cancel"
	AuditEventOrderModify AuditEventType = "order_modify"
	AuditEventTrade       AuditEventType = "trade"
	AuditEventLogin       AuditEventType = "login"
	AuditEventLogout      AuditEventType = "logout"
	AuditEventRiskBreach  AuditEventType = "risk_breach"
	AuditEventCompliance  AuditEventType = "compliance"
)

// ComplianceAlert represents a compliance alert
type ComplianceAlert struct {
	ID             string                 `json:"id"`
	Type           AlertType              `json:"type"`
	Severity       ViolationSeverity      `json:"severity"`
	Title          string                 `json:"title"`
	Message        string                 `json:"message"`
	Details        map[string]interface{} `json:"details"`
	Status         AlertStatus            `json:"status"`
	CreatedAt      time.Time              `json:"created_at"`
	AcknowledgedAt *time.Time             `json:"acknowledged_at,omitempty"`
}

// AlertType defines types of compliance alerts
type AlertType string

const (
	AlertTypeViolation   AlertType = "violation"
	AlertTypeRiskBreach  AlertType = "risk_breach"
	AlertTypeSystemError AlertType = "system_error"
	AlertTypeReporting   AlertType = "reporting"
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

// NewRuleEngine creates a new rule engine
func NewRuleEngine(logger *zap.Logger) *RuleEngine {
	return &RuleEngine{
		rules:      make(map[string]ComplianceRule),
		violations: make([]ComplianceViolation, 0),
		logger:     logger,
	}
}
