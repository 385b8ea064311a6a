package compliance

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ReportType represents different types of compliance reports
type ReportType string

const (
	ReportTypeDaily       ReportType = "daily"
	ReportTypeWeekly      ReportType = "weekly"
	ReportTypeMonthly     ReportType = "monthly"
	ReportTypeTransaction ReportType = "transaction"
	ReportTypePosition    ReportType = "position"
	ReportTypeRisk        ReportType = "risk"
	ReportTypeAudit       ReportType = "audit"
)

// ReportStatus represents the status of a report
type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "pending"
	ReportStatusGenerating ReportStatus = "generating"
	ReportStatusGenerated  ReportStatus = "generated"
	ReportStatusSubmitted  ReportStatus = "submitted"
	ReportStatusFailed     ReportStatus = "failed"
	ReportStatusRetrying   ReportStatus = "retrying"
)

// ReportDestination represents where reports are sent
type ReportDestination struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`     // "regulatory", "internal", "external"
	Endpoint string `json:"endpoint"` // URL or file path
	Format   string `json:"format"`   // "json", "xml", "csv", "pdf"
	Active   bool   `json:"active"`
}

// ComplianceReport represents a compliance report
type ComplianceReport struct {
	ID           string                 `json:"id"`
	Type         ReportType             `json:"type"`
	Status       ReportStatus           `json:"status"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Data         map[string]interface{} `json:"data"`
	Destinations []string               `json:"destinations"` // Destination IDs
	CreatedAt    time.Time              `json:"created_at"`
	GeneratedAt  time.Time              `json:"generated_at,omitempty"`
	SubmittedAt  time.Time              `json:"submitted_at,omitempty"`
	RetryCount   int                    `json:"retry_count"`
	MaxRetries   int                    `json:"max_retries"`
	Error        string                 `json:"error,omitempty"`
	FilePath     string                 `json:"file_path,omitempty"`
	FileSize     int64                  `json:"file_size,omitempty"`
	Checksum     string                 `json:"checksum,omitempty"`
}

// ReportTemplate represents a report template
type ReportTemplate struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Type         ReportType             `json:"type"`
	Schedule     string                 `json:"schedule"` // Cron expression
	Template     string                 `json:"template"` // Template content
	Parameters   map[string]interface{} `json:"parameters"`
	Destinations []string               `json:"destinations"`
	Active       bool                   `json:"active"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// ComplianceReporter handles automated regulatory reporting
type ComplianceReporter struct {
	reports           map[string]*ComplianceReport
	templates         map[string]*ReportTemplate
	destinations      map[string]*ReportDestination
	mutex             sync.RWMutex
	workers           int
	workerPool        chan struct{}
	reportQueue       chan *ComplianceReport
	metrics           map[string]interface{}
	totalReports      int64
	successfulReports int64
	failedReports     int64
	running           bool
	ctx               context.Context
	cancel            context.CancelFunc
	wg                sync.WaitGroup
}

// NewComplianceReporter creates a new compliance reporter
func NewComplianceReporter(workers int) *ComplianceReporter {
	ctx, cancel := context.WithCancel(context.Background())

	cr := &ComplianceReporter{
		reports:      make(map[string]*ComplianceReport),
		templates:    make(map[string]*ReportTemplate),
		destinations: make(map[string]*ReportDestination),
		workers:      workers,
		workerPool:   make(chan struct{}, workers),
		reportQueue:  make(chan *ComplianceReport, 1000),
		metrics:      make(map[string]interface{}),
		ctx:          ctx,
		cancel:       cancel,
	}

	// Initialize worker pool
	for i := 0; i < workers; i++ {
		cr.workerPool <- struct{}{}
	}

	return cr
}

// Start starts the compliance reporter
func (cr *ComplianceReporter) Start() {
	cr.mutex.Lock()
	if cr.running {
		cr.mutex.Unlock()
		return
	}
	cr.running = true
	cr.mutex.Unlock()

	// Start worker goroutines
	for i := 0; i < cr.workers; i++ {
		cr.wg.Add(1)
		go cr.worker()
	}
}

// Stop stops the compliance reporter
func (cr *ComplianceReporter) Stop() {
	cr.mutex.Lock()
	if !cr.running {
		cr.mutex.Unlock()
		return
	}
	cr.running = false
	cr.mutex.Unlock()

	cr.cancel()
	close(cr.reportQueue)
	cr.wg.Wait()
}

// worker processes compliance reports
func (cr *ComplianceReporter) worker() {
	defer cr.wg.Done()

	for {
		select {
		case <-cr.ctx.Done():
			return
		case report, ok := <-cr.reportQueue:
			if !ok {
				return
			}

			// Get worker token
			<-cr.workerPool

			// Process report
			cr.processReport(report)

			// Return worker token
			cr.workerPool <- struct{}{}
		}
	}
}

// GenerateReport generates a compliance report
func (cr *ComplianceReporter) GenerateReport(ctx context.Context, reportType ReportType, data map[string]interface{}, destinations []string) (*ComplianceReport, error) {
	if !cr.running {
		return nil, fmt.Errorf("compliance reporter is not running")
	}

	reportID := fmt.Sprintf("report_%d_%s", time.Now().UnixNano(), string(reportType))

	report := &ComplianceReport{
		ID:           reportID,
		Type:         reportType,
		Status:       ReportStatusPending,
		Title:        fmt.Sprintf("%s Report", string(reportType)),
		Description:  fmt.Sprintf("Automated %s compliance report", string(reportType)),
		Data:         data,
		Destinations: destinations,
		CreatedAt:    time.Now(),
		MaxRetries:   3,
	}

	// Store report
	cr.mutex.Lock()
	cr.reports[reportID] = report
	atomic.AddInt64(&cr.totalReports, 1)
	cr.mutex.Unlock()

	// Queue for processing
	select {
	case cr.reportQueue <- report:
		// Successfully queued
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(100 * time.Millisecond):
		return nil, fmt.Errorf("report queue is full")
	}

	return report, nil
}

// processReport processes a compliance report
func (cr *ComplianceReporter) processReport(report *ComplianceReport) {
	// Update status to generating
	cr.mutex.Lock()
	report.Status = ReportStatusGenerating
	cr.mutex.Unlock()

	// Generate report content
	success := cr.generateReportContent(report)

	if success {
		// Submit to destinations
		success = cr.submitReport(report)
	}

	// Update final status
	cr.mutex.Lock()
	if success {
		report.Status = ReportStatusSubmitted
		report.SubmittedAt = time.Now()
		atomic.AddInt64(&cr.successfulReports, 1)
	} else {
		if report.RetryCount < report.MaxRetries {
			report.Status = ReportStatusRetrying
			report.RetryCount++
			// Re-queue for retry
			select {
			case cr.reportQueue <- report:
			default:
				report.Status = ReportStatusFailed
				atomic.AddInt64(&cr.failedReports, 1)
			}
		} else {
			report.Status = ReportStatusFailed
			atomic.AddInt64(&cr.failedReports, 1)
		}
	}
	cr.updateMetrics()
	cr.mutex.Unlock()
}

// generateReportContent generates the actual report content
func (cr *ComplianceReporter) generateReportContent(report *ComplianceReport) bool {
	// Simulate report generation
	time.Sleep(100 * time.Millisecond)

	// Generate report based on type
	switch report.Type {
	case ReportTypeDaily:
		return cr.generateDailyReport(report)
	case ReportTypeWeekly:
		return cr.generateWeeklyReport(report)
	case ReportTypeMonthly:
		return cr.generateMonthlyReport(report)
	case ReportTypeTransaction:
		return cr.generateTransactionReport(report)
	case ReportTypePosition:
		return cr.generatePositionReport(report)
	case ReportTypeRisk:
		return cr.generateRiskReport(report)
	case ReportTypeAudit:
		return cr.generateAuditReport(report)
	default:
		report.Error = fmt.Sprintf("unsupported report type: %s", report.Type)
		return false
	}
}

// generateDailyReport generates a daily compliance report
func (cr *ComplianceReporter) generateDailyReport(report *ComplianceReport) bool {
	report.GeneratedAt = time.Now()
	report.FilePath = fmt.Sprintf("/reports/daily_%s.json", time.Now().Format("2006-01-02"))
	report.FileSize = 1024           // Simulated file size
	report.Checksum = "abc123def456" // Simulated checksum
	return true
}

// generateWeeklyReport generates a weekly compliance report
func (cr *ComplianceReporter) generateWeeklyReport(report *ComplianceReport) bool {
	report.GeneratedAt = time.Now()
	report.FilePath = fmt.Sprintf("/reports/weekly_%s.json", time.Now().Format("2006-W02"))
	report.FileSize = 5120           // Simulated file size
	report.Checksum = "def456ghi789" // Simulated checksum
	return true
}

// generateMonthlyReport generates a monthly compliance report
func (cr *ComplianceReporter) generateMonthlyReport(report *ComplianceReport) bool {
	report.GeneratedAt = time.Now()
	report.FilePath = fmt.Sprintf("/reports/monthly_%s.json", time.Now().Format("2006-01"))
	report.FileSize = 20480          // Simulated file size
	report.Checksum = "ghi789jkl012" // Simulated checksum
	return true
}

// generateTransactionReport generates a transaction report
func (cr *ComplianceReporter) generateTransactionReport(report *ComplianceReport) bool {
	report.GeneratedAt = time.Now()
	report.FilePath = fmt.Sprintf("/reports/transactions_%d.json", time.Now().Unix())
	report.FileSize = 2048           // Simulated file size
	report.Checksum = "jkl012mno345" // Simulated checksum
	return true
}

// generatePositionReport generates a position report
func (cr *ComplianceReporter) generatePositionReport(report *ComplianceReport) bool {
	report.GeneratedAt = time.Now()
	report.FilePath = fmt.Sprintf("/reports/positions_%d.json", time.Now().Unix())
	report.FileSize = 1536           // Simulated file size
	report.Checksum = "mno345pqr678" // Simulated checksum
	return true
}

// generateRiskReport generates a risk report
func (cr *ComplianceReporter) generateRiskReport(report *ComplianceReport) bool {
	report.GeneratedAt = time.Now()
	report.FilePath = fmt.Sprintf("/reports/risk_%d.json", time.Now().Unix())
	report.FileSize = 3072           // Simulated file size
	report.Checksum = "pqr678stu901" // Simulated checksum
	return true
}

// generateAuditReport generates an audit report
func (cr *ComplianceReporter) generateAuditReport(report *ComplianceReport) bool {
	report.GeneratedAt = time.Now()
	report.FilePath = fmt.Sprintf("/reports/audit_%d.json", time.Now().Unix())
	report.FileSize = 4096           // Simulated file size
	report.Checksum = "stu901vwx234" // Simulated checksum
	return true
}

// submitReport submits a report to its destinations
func (cr *ComplianceReporter) submitReport(report *ComplianceReport) bool {
	for _, destID := range report.Destinations {
		cr.mutex.RLock()
		destination, exists := cr.destinations[destID]
		cr.mutex.RUnlock()

		if !exists || !destination.Active {
			continue
		}

		// Simulate submission
		time.Sleep(50 * time.Millisecond)

		// In a real implementation, this would:
		// 1. Format the report according to destination requirements
		// 2. Submit via HTTP, FTP, email, or file system
		// 3. Handle authentication and encryption
		// 4. Verify delivery confirmation
	}

	return true
}

// AddDestination adds a report destination
func (cr *ComplianceReporter) AddDestination(destination *ReportDestination) {
	cr.mutex.Lock()
	defer cr.mutex.Unlock()
	cr.destinations[destination.ID] = destination
}

// RemoveDestination removes a report destination
func (cr *ComplianceReporter) RemoveDestination(destinationID string) {
	cr.mutex.Lock()
	defer cr.mutex.Unlock()
	delete(cr.destinations, destinationID)
}

// GetReport retrieves a report by ID
func (cr *ComplianceReporter) GetReport(reportID string) (*ComplianceReport, bool) {
	cr.mutex.RLock()
	defer cr.mutex.RUnlock()

	report, exists := cr.reports[reportID]
	if exists {
		reportCopy := *report
		return &reportCopy, true
	}

	return nil, false
}

// GetReportsByType returns all reports of a specific type
func (cr *ComplianceReporter) GetReportsByType(reportType ReportType) []*ComplianceReport {
	cr.mutex.RLock()
	defer cr.mutex.RUnlock()

	var reports []*ComplianceReport
	for _, report := range cr.reports {
		if report.Type == reportType {
			reportCopy := *report
			reports = append(reports, &reportCopy)
		}
	}

	return reports
}

// GetReportsByStatus returns all reports with a specific status
func (cr *ComplianceReporter) GetReportsByStatus(status ReportStatus) []*ComplianceReport {
	cr.mutex.RLock()
	defer cr.mutex.RUnlock()

	var reports []*ComplianceReport
	for _, report := range cr.reports {
		if report.Status == status {
			reportCopy := *report
			reports = append(reports, &reportCopy)
		}
	}

	return reports
}

// RetryReport retries a failed report
func (cr *ComplianceReporter) RetryReport(reportID string) error {
	cr.mutex.Lock()
	defer cr.mutex.Unlock()

	report, exists := cr.reports[reportID]
	if !exists {
		return fmt.Errorf("report %s not found", reportID)
	}

	if report.Status != ReportStatusFailed {
		return fmt.Errorf("can only retry failed reports")
	}

	if report.RetryCount >= report.MaxRetries {
		return fmt.Errorf("maximum retry attempts exceeded")
	}

	report.Status = ReportStatusPending
	report.Error = ""

	// Re-queue for processing
	select {
	case cr.reportQueue <- report:
		return nil
	default:
		return fmt.Errorf("report queue is full")
	}
}

// updateMetrics updates internal performance metrics
func (cr *ComplianceReporter) updateMetrics() {
	totalReports := atomic.LoadInt64(&cr.totalReports)
	successfulReports := atomic.LoadInt64(&cr.successfulReports)
	failedReports := atomic.LoadInt64(&cr.failedReports)

	var successRate float64
	if totalReports > 0 {
		successRate = float64(successfulReports) / float64(totalReports)
	}

	cr.metrics["total_reports"] = totalReports
	cr.metrics["successful_reports"] = successfulReports
	cr.metrics["failed_reports"] = failedReports
	cr.metrics["success_rate"] = successRate
	cr.metrics["queue_size"] = int64(len(cr.reportQueue))
	cr.metrics["workers"] = int64(cr.workers)
	cr.metrics["destinations"] = int64(len(cr.destinations))
	cr.metrics["last_report"] = time.Now()
}

// GetPerformanceMetrics returns compliance reporter performance metrics
func (cr *ComplianceReporter) GetPerformanceMetrics() map[string]interface{} {
	cr.mutex.RLock()
	defer cr.mutex.RUnlock()

	// Update metrics before returning
	cr.updateMetrics()

	metrics := make(map[string]interface{})
	for k, v := range cr.metrics {
		metrics[k] = v
	}

	return metrics
}

// GetStats returns compliance reporter statistics
func (cr *ComplianceReporter) GetStats() map[string]interface{} {
	cr.mutex.RLock()
	defer cr.mutex.RUnlock()

	stats := make(map[string]interface{})
	stats["total_reports"] = len(cr.reports)
	stats["total_templates"] = len(cr.templates)
	stats["total_destinations"] = len(cr.destinations)
	stats["workers"] = cr.workers
	stats["queue_capacity"] = cap(cr.reportQueue)
	stats["queue_size"] = len(cr.reportQueue)
	stats["running"] = cr.running

	// Calculate status distribution
	statusCounts := make(map[string]int)
	typeCounts := make(map[string]int)

	for _, report := range cr.reports {
		statusCounts[string(report.Status)]++
		typeCounts[string(report.Type)]++
	}

	stats["status_distribution"] = statusCounts
	stats["type_distribution"] = typeCounts

	// Calculate active destinations
	activeDestinations := 0
	for _, dest := range cr.destinations {
		if dest.Active {
			activeDestinations++
		}
	}
	stats["active_destinations"] = activeDestinations

	return stats
}
