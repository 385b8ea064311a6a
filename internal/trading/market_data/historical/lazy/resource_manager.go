package lazy

import (
	"sync"
	"time"

	"github.com/abdoElHodaky/tradSys/internal/trading/market_data/historical"
	"go.uber.org/zap"
)

// ResourceManager manages resources for historical data components
type ResourceManager struct {
	logger *zap.Logger
	
	// Providers
	historicalDataProvider *HistoricalDataServiceProvider
	timeSeriesProvider     *TimeSeriesAnalyzerProvider
	backtestProvider       *BacktestDataProviderProvider
	
	// Resource usage tracking
	memoryUsage     int64
	lastAccessTimes map[string]time.Time
	
	// Configuration
	cleanupInterval time.Duration
	idleTimeout     time.Duration
	
	// Synchronization
	mu       sync.RWMutex
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewResourceManager creates a new resource manager
func NewResourceManager(
	logger *zap.Logger,
	historicalDataProvider *HistoricalDataServiceProvider,
	timeSeriesProvider *TimeSeriesAnalyzerProvider,
	backtestProvider *BacktestDataProviderProvider,
) *ResourceManager {
	return &ResourceManager{
		logger:                logger,
		historicalDataProvider: historicalDataProvider,
		timeSeriesProvider:     timeSeriesProvider,
		backtestProvider:       backtestProvider,
		lastAccessTimes:        make(map[string]time.Time),
		cleanupInterval:        5 * time.Minute,
		idleTimeout:            30 * time.Minute,
		stopChan:               make(chan struct{}),
	}
}

// Start starts the resource manager
func (m *ResourceManager) Start() {
	m.wg.Add(1)
	go m.cleanupLoop()
}

// Stop stops the resource manager
func (m *ResourceManager) Stop() {
	close(m.stopChan)
	m.wg.Wait()
}

// cleanupLoop periodically checks for idle components and cleans them up
func (m *ResourceManager) cleanupLoop() {
	defer m.wg.Done()
	
	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()
	
	for {
		select {
		case <-ticker.C:
			m.checkAndCleanupIdleComponents()
		case <-m.stopChan:
			return
		}
	}
}

// checkAndCleanupIdleComponents checks for idle components and cleans them up
func (m *ResourceManager) checkAndCleanupIdleComponents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	
	now := time.Now()
	
	// Check historical data service
	if m.historicalDataProvider.IsInitialized() {
		lastAccess, ok := m.lastAccessTimes["historical-data-service"]
		if ok && now.Sub(lastAccess) > m.idleTimeout {
			m.logger.Info("Cleaning up idle historical data service",
				zap.Duration("idle_time", now.Sub(lastAccess)))
			
			// In a real implementation, we would call cleanup methods on the service
			// For now, we just mark it as cleaned up
			delete(m.lastAccessTimes, "historical-data-service")
		}
	}
	
	// Check time series analyzer
	if m.timeSeriesProvider.IsInitialized() {
		lastAccess, ok := m.lastAccessTimes["time-series-analyzer"]
		if ok && now.Sub(lastAccess) > m.idleTimeout {
			m.logger.Info("Cleaning up idle time series analyzer",
				zap.Duration("idle_time", now.Sub(lastAccess)))
			
			// In a real implementation, we would call cleanup methods on the analyzer
			delete(m.lastAccessTimes, "time-series-analyzer")
		}
	}
	
	// Check backtest data provider
	if m.backtestProvider.IsInitialized() {
		lastAccess, ok := m.lastAccessTimes["backtest-data-provider"]
		if ok && now.Sub(lastAccess) > m.idleTimeout {
			m.logger.Info("Cleaning up idle backtest data provider",
				zap.Duration("idle_time", now.Sub(lastAccess)))
			
			// In a real implementation, we would call cleanup methods on the provider
			delete(m.lastAccessTimes, "backtest-data-provider")
		}
	}
}

// RecordAccess records access to a component
func (m *ResourceManager) RecordAccess(componentName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	
	m.lastAccessTimes[componentName] = time.Now()
}

// RecordMemoryUsage records memory usage for a component
func (m *ResourceManager) RecordMemoryUsage(componentName string, bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	
	// In a real implementation, we would track memory usage per component
	// For now, we just update the total
	m.memoryUsage += bytes
	
	m.logger.Debug("Recorded memory usage",
		zap.String("component", componentName),
		zap.Int64("bytes", bytes),
		zap.Int64("total_bytes", m.memoryUsage))
}

// GetTotalMemoryUsage returns the total memory usage
func (m *ResourceManager) GetTotalMemoryUsage() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	
	return m.memoryUsage
}

// GetComponentLastAccessTime returns the last access time for a component
func (m *ResourceManager) GetComponentLastAccessTime(componentName string) (time.Time, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	
	lastAccess, ok := m.lastAccessTimes[componentName]
	return lastAccess, ok
}

// SetIdleTimeout sets the idle timeout for components
func (m *ResourceManager) SetIdleTimeout(timeout time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	
	m.idleTimeout = timeout
}

// SetCleanupInterval sets the cleanup interval
func (m *ResourceManager) SetCleanupInterval(interval time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	
	m.cleanupInterval = interval
}

