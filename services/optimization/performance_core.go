package optimization

import (
	"context"
	"fmt"
	"log"
	"time"
)

// NewPerformanceOptimizer creates a new performance optimizer
func NewPerformanceOptimizer() *PerformanceOptimizer {
	optimizer := &PerformanceOptimizer{
		cacheOptimizer:      NewCacheOptimizer(),
		databaseOptimizer:   NewDatabaseOptimizer(),
		networkOptimizer:    NewNetworkOptimizer(),
		memoryOptimizer:     NewMemoryOptimizer(),
		cpuOptimizer:        NewCPUOptimizer(),
		loadBalancer:        NewIntelligentLoadBalancer(),
		autoScaler:          NewAutoScaler(),
		regionOptimizer:     NewRegionalOptimizer(),
		securityOptimizer:   NewSecurityOptimizer(),
		monitoringSystem:    NewComprehensiveMonitoring(),
		alertManager:        NewAlertManager(),
		performanceAnalyzer: NewPerformanceAnalyzer(),
	}

	// Initialize optimizer
	optimizer.initialize()

	return optimizer
}

// initialize sets up the performance optimizer
func (po *PerformanceOptimizer) initialize() {
	log.Printf("Initializing Performance Optimizer for TradSys v3")

	// Initialize cache optimization
	po.cacheOptimizer.Initialize()

	// Initialize database optimization
	po.databaseOptimizer.Initialize()

	// Initialize network optimization
	po.networkOptimizer.Initialize()

	// Initialize regional optimization
	po.regionOptimizer.InitializeRegions()

	// Initialize auto-scaling
	po.autoScaler.Initialize()

	// Initialize monitoring
	po.monitoringSystem.Initialize()

	// Initialize security optimization
	po.securityOptimizer.Initialize()

	// Start optimization processes
	go po.startOptimizationLoop()
	go po.startMonitoringLoop()
	go po.startAutoScalingLoop()

	log.Printf("Performance Optimizer initialized successfully")
}

// OptimizeSystem performs comprehensive system optimization
func (po *PerformanceOptimizer) OptimizeSystem(ctx context.Context) (*OptimizationReport, error) {
	startTime := time.Now()
	report := &OptimizationReport{
		StartTime: startTime,
		Optimizations: make([]OptimizationResult, 0),
	}

	// Cache optimization
	cacheResult, err := po.cacheOptimizer.Optimize(ctx)
	if err != nil {
		log.Printf("Cache optimization failed: %v", err)
	} else {
		report.Optimizations = append(report.Optimizations, *cacheResult)
	}

	// Database optimization
	dbResult, err := po.databaseOptimizer.Optimize(ctx)
	if err != nil {
		log.Printf("Database optimization failed: %v", err)
	} else {
		report.Optimizations = append(report.Optimizations, *dbResult)
	}

	// Network optimization
	networkResult, err := po.networkOptimizer.Optimize(ctx)
	if err != nil {
		log.Printf("Network optimization failed: %v", err)
	} else {
		report.Optimizations = append(report.Optimizations, *networkResult)
	}

	// Regional optimization
	regionalResult, err := po.regionOptimizer.Optimize(ctx)
	if err != nil {
		log.Printf("Regional optimization failed: %v", err)
	} else {
		report.Optimizations = append(report.Optimizations, *regionalResult)
	}

	// Security optimization
	securityResult, err := po.securityOptimizer.Optimize(ctx)
	if err != nil {
		log.Printf("Security optimization failed: %v", err)
	} else {
		report.Optimizations = append(report.Optimizations, *securityResult)
	}

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	report.Success = len(report.Optimizations) > 0

	log.Printf("System optimization completed in %v", report.Duration)
	return report, nil
}

// OptimizeForRegion optimizes performance for a specific region
func (po *PerformanceOptimizer) OptimizeForRegion(ctx context.Context, regionID string) error {
	config, exists := po.regionOptimizer.regionConfigs[regionID]
	if !exists {
		return fmt.Errorf("region not found: %s", regionID)
	}

	log.Printf("Optimizing performance for region: %s", config.Name)

	// Optimize cache for region
	if err := po.cacheOptimizer.OptimizeForRegion(regionID, config); err != nil {
		log.Printf("Regional cache optimization failed: %v", err)
	}

	// Optimize database for region
	if err := po.databaseOptimizer.OptimizeForRegion(regionID, config); err != nil {
		log.Printf("Regional database optimization failed: %v", err)
	}

	// Optimize network for region
	if err := po.networkOptimizer.OptimizeForRegion(regionID, config); err != nil {
		log.Printf("Regional network optimization failed: %v", err)
	}

	log.Printf("Regional optimization completed for: %s", config.Name)
	return nil
}

// GetPerformanceMetrics returns comprehensive performance metrics
func (po *PerformanceOptimizer) GetPerformanceMetrics() *PerformanceMetrics {
	po.mu.RLock()
	defer po.mu.RUnlock()

	return &PerformanceMetrics{
		CacheMetrics:    po.cacheOptimizer.GetMetrics(),
		DatabaseMetrics: po.databaseOptimizer.GetMetrics(),
		NetworkMetrics:  po.networkOptimizer.GetMetrics(),
		RegionalMetrics: po.regionOptimizer.GetMetrics(),
		SecurityMetrics: po.securityOptimizer.GetMetrics(),
		SystemMetrics:   po.monitoringSystem.GetSystemMetrics(),
		Timestamp:       time.Now(),
	}
}

// startOptimizationLoop starts the continuous optimization loop
func (po *PerformanceOptimizer) startOptimizationLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		
		if _, err := po.OptimizeSystem(ctx); err != nil {
			log.Printf("Optimization loop error: %v", err)
		}
		
		cancel()
	}
}

// startMonitoringLoop starts the monitoring loop
func (po *PerformanceOptimizer) startMonitoringLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		metrics := po.GetPerformanceMetrics()
		
		// Check for performance issues
		if issues := po.performanceAnalyzer.AnalyzeMetrics(metrics); len(issues) > 0 {
			for _, issue := range issues {
				po.alertManager.SendAlert(&PerformanceAlert{
					Type:        issue.Type,
					Severity:    issue.Severity,
					Message:     issue.Message,
					Timestamp:   time.Now(),
					Metrics:     metrics,
				})
			}
		}
	}
}

// startAutoScalingLoop starts the auto-scaling loop
func (po *PerformanceOptimizer) startAutoScalingLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		
		if err := po.autoScaler.EvaluateScaling(ctx); err != nil {
			log.Printf("Auto-scaling evaluation error: %v", err)
		}
		
		cancel()
	}
}

// Shutdown gracefully shuts down the performance optimizer
func (po *PerformanceOptimizer) Shutdown(ctx context.Context) error {
	log.Printf("Shutting down Performance Optimizer...")

	// Shutdown components
	po.monitoringSystem.Shutdown()
	po.autoScaler.Shutdown()
	po.regionOptimizer.Shutdown()
	po.securityOptimizer.Shutdown()

	log.Printf("Performance Optimizer shutdown complete")
	return nil
}

// Constructor functions for optimizer components
func NewCacheOptimizer() *CacheOptimizer {
	return &CacheOptimizer{
		cacheStrategies: make(map[string]CacheStrategy),
		hitRateMonitor:  &CacheHitRateMonitor{},
		evictionPolicy:  &EvictionPolicyManager{},
		distributedCache: &DistributedCacheManager{
			nodes: make(map[string]string),
		},
	}
}

func NewDatabaseOptimizer() *DatabaseOptimizer {
	return &DatabaseOptimizer{
		queryOptimizer:    &QueryOptimizer{optimizedQueries: make(map[string]string)},
		indexManager:      &IndexManager{indexes: make(map[string][]string)},
		connectionPooler:  &ConnectionPoolOptimizer{poolSize: 10},
		shardingManager:   &ShardingManager{shards: make(map[string]string)},
		replicationManager: &ReplicationManager{replicas: make(map[string][]string)},
	}
}

func NewNetworkOptimizer() *NetworkOptimizer {
	return &NetworkOptimizer{
		compressionManager: &CompressionManager{algorithm: "gzip"},
		cdnManager:         &CDNManager{endpoints: make(map[string]string)},
		protocolOptimizer:  &ProtocolOptimizer{protocols: make(map[string]string)},
		bandwidthManager:   &BandwidthManager{limits: make(map[string]float64)},
		latencyOptimizer:   &LatencyOptimizer{targets: make(map[string]time.Duration)},
	}
}

func NewMemoryOptimizer() *MemoryOptimizer {
	return &MemoryOptimizer{
		pools: make(map[string]interface{}),
	}
}

func NewCPUOptimizer() *CPUOptimizer {
	return &CPUOptimizer{
		profiles: make(map[string]interface{}),
	}
}

func NewIntelligentLoadBalancer() *IntelligentLoadBalancer {
	return &IntelligentLoadBalancer{
		algorithms: make(map[string]interface{}),
	}
}

func NewAutoScaler() *AutoScaler {
	return &AutoScaler{
		scalingPolicies:  make(map[string]*ScalingPolicy),
		metricsCollector: &MetricsCollector{metrics: make(map[string]float64)},
		predictionEngine: &ScalingPredictionEngine{models: make(map[string]interface{})},
		resourceManager:  &ResourceManager{resources: make(map[string]int)},
	}
}

func NewRegionalOptimizer() *RegionalOptimizer {
	return &RegionalOptimizer{
		regionConfigs:    make(map[string]*RegionConfig),
		edgeNodes:        make(map[string]*EdgeNode),
		routingOptimizer: &RegionalRoutingOptimizer{routes: make(map[string]string)},
		dataReplication:  &RegionalDataReplication{replicas: make(map[string][]string)},
	}
}

func NewSecurityOptimizer() *SecurityOptimizer {
	return &SecurityOptimizer{
		encryptionOptimizer: &EncryptionOptimizer{algorithms: make(map[string]string)},
		authOptimizer:       &AuthenticationOptimizer{strategies: make(map[string]string)},
		firewallOptimizer:   &FirewallOptimizer{rules: make(map[string][]string)},
		auditOptimizer:      &AuditOptimizer{policies: make(map[string]string)},
	}
}

func NewComprehensiveMonitoring() *ComprehensiveMonitoring {
	return &ComprehensiveMonitoring{
		metricsCollectors: make(map[string]*MetricsCollector),
		logAggregator:     &LogAggregator{logs: make([]string, 0)},
		traceCollector:    &TraceCollector{traces: make([]string, 0)},
		healthChecker:     &HealthChecker{status: make(map[string]bool)},
		dashboardManager:  &DashboardManager{dashboards: make(map[string]interface{})},
	}
}

func NewAlertManager() *AlertManager {
	return &AlertManager{
		alerts: make([]PerformanceAlert, 0),
	}
}

func NewPerformanceAnalyzer() *PerformanceAnalyzer {
	return &PerformanceAnalyzer{
		thresholds: make(map[string]float64),
	}
}
