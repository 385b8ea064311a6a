// Package optimization implements Phase 5: Performance Optimization for TradSys v3
// Provides comprehensive performance optimization, monitoring, and scaling
package optimization

import (
	"sync"
	"time"
)

// PerformanceOptimizer provides comprehensive performance optimization
type PerformanceOptimizer struct {
	cacheOptimizer     *CacheOptimizer
	databaseOptimizer  *DatabaseOptimizer
	networkOptimizer   *NetworkOptimizer
	memoryOptimizer    *MemoryOptimizer
	cpuOptimizer       *CPUOptimizer
	loadBalancer       *IntelligentLoadBalancer
	autoScaler         *AutoScaler
	regionOptimizer    *RegionalOptimizer
	securityOptimizer  *SecurityOptimizer
	monitoringSystem   *ComprehensiveMonitoring
	alertManager       *AlertManager
	performanceAnalyzer *PerformanceAnalyzer
	mu                 sync.RWMutex
}

// CacheOptimizer optimizes caching across all services
type CacheOptimizer struct {
	cacheStrategies map[string]CacheStrategy
	hitRateMonitor  *CacheHitRateMonitor
	evictionPolicy  *EvictionPolicyManager
	distributedCache *DistributedCacheManager
	mu              sync.RWMutex
}

// DatabaseOptimizer optimizes database performance
type DatabaseOptimizer struct {
	queryOptimizer    *QueryOptimizer
	indexManager      *IndexManager
	connectionPooler  *ConnectionPoolOptimizer
	shardingManager   *ShardingManager
	replicationManager *ReplicationManager
	mu                sync.RWMutex
}

// NetworkOptimizer optimizes network performance
type NetworkOptimizer struct {
	compressionManager *CompressionManager
	cdnManager         *CDNManager
	protocolOptimizer  *ProtocolOptimizer
	bandwidthManager   *BandwidthManager
	latencyOptimizer   *LatencyOptimizer
	mu                 sync.RWMutex
}

// RegionalOptimizer optimizes performance for different regions
type RegionalOptimizer struct {
	regionConfigs     map[string]*RegionConfig
	edgeNodes         map[string]*EdgeNode
	routingOptimizer  *RegionalRoutingOptimizer
	dataReplication   *RegionalDataReplication
	mu                sync.RWMutex
}

// RegionConfig defines configuration for a specific region
type RegionConfig struct {
	RegionID        string
	Name            string
	Timezone        *time.Location
	PrimaryExchange string
	LatencyTarget   time.Duration
	ThroughputTarget int64
	EdgeNodes       []string
	CacheConfig     *RegionalCacheConfig
	DatabaseConfig  *RegionalDatabaseConfig
}

// AutoScaler provides intelligent auto-scaling
type AutoScaler struct {
	scalingPolicies   map[string]*ScalingPolicy
	metricsCollector  *MetricsCollector
	predictionEngine  *ScalingPredictionEngine
	resourceManager   *ResourceManager
	mu                sync.RWMutex
}

// ScalingPolicy defines auto-scaling policy
type ScalingPolicy struct {
	ServiceName     string
	MinInstances    int
	MaxInstances    int
	TargetCPU       float64
	TargetMemory    float64
	TargetLatency   time.Duration
	ScaleUpCooldown time.Duration
	ScaleDownCooldown time.Duration
	PredictiveScaling bool
}

// ComprehensiveMonitoring provides comprehensive system monitoring
type ComprehensiveMonitoring struct {
	metricsCollectors map[string]*MetricsCollector
	logAggregator     *LogAggregator
	traceCollector    *TraceCollector
	healthChecker     *HealthChecker
	dashboardManager  *DashboardManager
	mu                sync.RWMutex
}

// SecurityOptimizer optimizes security performance
type SecurityOptimizer struct {
	encryptionOptimizer *EncryptionOptimizer
	authOptimizer       *AuthenticationOptimizer
	firewallOptimizer   *FirewallOptimizer
	auditOptimizer      *AuditOptimizer
	mu                  sync.RWMutex
}

// OptimizationReport represents the result of system optimization
type OptimizationReport struct {
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	Success       bool
	Optimizations []OptimizationResult
}

// OptimizationResult represents the result of a specific optimization
type OptimizationResult struct {
	Component     string
	Type          string
	Description   string
	ImprovementPct float64
	BeforeMetrics map[string]float64
	AfterMetrics  map[string]float64
	Success       bool
	Error         string
}

// PerformanceMetrics represents comprehensive performance metrics
type PerformanceMetrics struct {
	CacheMetrics    *CacheMetrics
	DatabaseMetrics *DatabaseMetrics
	NetworkMetrics  *NetworkMetrics
	RegionalMetrics *RegionalMetrics
	SecurityMetrics *SecurityMetrics
	SystemMetrics   *SystemMetrics
	Timestamp       time.Time
}

// CacheMetrics represents cache performance metrics
type CacheMetrics struct {
	HitRate         float64
	MissRate        float64
	EvictionRate    float64
	MemoryUsage     float64
	ResponseTime    time.Duration
	ThroughputRPS   float64
}

// DatabaseMetrics represents database performance metrics
type DatabaseMetrics struct {
	QueryLatency    time.Duration
	ConnectionCount int
	PoolUtilization float64
	IndexEfficiency float64
	ReplicationLag  time.Duration
	ThroughputQPS   float64
}

// NetworkMetrics represents network performance metrics
type NetworkMetrics struct {
	Latency         time.Duration
	Throughput      float64
	PacketLoss      float64
	Bandwidth       float64
	CompressionRatio float64
	CDNHitRate      float64
}

// RegionalMetrics represents regional performance metrics
type RegionalMetrics struct {
	RegionLatencies map[string]time.Duration
	EdgeNodeStatus  map[string]bool
	DataReplication map[string]float64
	RegionalLoad    map[string]float64
}

// SecurityMetrics represents security performance metrics
type SecurityMetrics struct {
	EncryptionLatency time.Duration
	AuthLatency       time.Duration
	FirewallLatency   time.Duration
	AuditLatency      time.Duration
	ThreatDetection   float64
}

// SystemMetrics represents overall system metrics
type SystemMetrics struct {
	CPUUsage      float64
	MemoryUsage   float64
	DiskUsage     float64
	NetworkIO     float64
	ActiveUsers   int64
	RequestsPerSec float64
	ErrorRate     float64
	Uptime        time.Duration
}

// PerformanceAlert represents a performance alert
type PerformanceAlert struct {
	Type      string
	Severity  string
	Message   string
	Timestamp time.Time
	Metrics   *PerformanceMetrics
}

// PerformanceIssue represents a detected performance issue
type PerformanceIssue struct {
	Type      string
	Severity  string
	Message   string
	Component string
	Metric    string
	Value     float64
	Threshold float64
	Timestamp time.Time
}

// Dependency types for optimization components
type CacheStrategy interface {
	Apply() error
}

type CacheHitRateMonitor struct {
	hitRate float64
	mu      sync.RWMutex
}

type EvictionPolicyManager struct {
	policy string
	mu     sync.RWMutex
}

type DistributedCacheManager struct {
	nodes map[string]string
	mu    sync.RWMutex
}

type QueryOptimizer struct {
	optimizedQueries map[string]string
	mu               sync.RWMutex
}

type IndexManager struct {
	indexes map[string][]string
	mu      sync.RWMutex
}

type ConnectionPoolOptimizer struct {
	poolSize int
	mu       sync.RWMutex
}

type ShardingManager struct {
	shards map[string]string
	mu     sync.RWMutex
}

type ReplicationManager struct {
	replicas map[string][]string
	mu       sync.RWMutex
}

type CompressionManager struct {
	algorithm string
	mu        sync.RWMutex
}

type CDNManager struct {
	endpoints map[string]string
	mu        sync.RWMutex
}

type ProtocolOptimizer struct {
	protocols map[string]string
	mu        sync.RWMutex
}

type BandwidthManager struct {
	limits map[string]float64
	mu     sync.RWMutex
}

type LatencyOptimizer struct {
	targets map[string]time.Duration
	mu      sync.RWMutex
}

type EdgeNode struct {
	ID       string
	Location string
	Status   string
}

type RegionalRoutingOptimizer struct {
	routes map[string]string
	mu     sync.RWMutex
}

type RegionalDataReplication struct {
	replicas map[string][]string
	mu       sync.RWMutex
}

type RegionalCacheConfig struct {
	Size     int64
	TTL      time.Duration
	Strategy string
}

type RegionalDatabaseConfig struct {
	Replicas    int
	ShardCount  int
	Consistency string
}

type MetricsCollector struct {
	metrics map[string]float64
	mu      sync.RWMutex
}

type ScalingPredictionEngine struct {
	models map[string]interface{}
	mu     sync.RWMutex
}

type ResourceManager struct {
	resources map[string]int
	mu        sync.RWMutex
}

type LogAggregator struct {
	logs []string
	mu   sync.RWMutex
}

type TraceCollector struct {
	traces []string
	mu     sync.RWMutex
}

type HealthChecker struct {
	status map[string]bool
	mu     sync.RWMutex
}

type DashboardManager struct {
	dashboards map[string]interface{}
	mu         sync.RWMutex
}

type EncryptionOptimizer struct {
	algorithms map[string]string
	mu         sync.RWMutex
}

type AuthenticationOptimizer struct {
	strategies map[string]string
	mu         sync.RWMutex
}

type FirewallOptimizer struct {
	rules map[string][]string
	mu    sync.RWMutex
}

type AuditOptimizer struct {
	policies map[string]string
	mu       sync.RWMutex
}

type MemoryOptimizer struct {
	pools map[string]interface{}
	mu    sync.RWMutex
}

type CPUOptimizer struct {
	profiles map[string]interface{}
	mu       sync.RWMutex
}

type IntelligentLoadBalancer struct {
	algorithms map[string]interface{}
	mu         sync.RWMutex
}

type AlertManager struct {
	alerts []PerformanceAlert
	mu     sync.RWMutex
}

type PerformanceAnalyzer struct {
	thresholds map[string]float64
	mu         sync.RWMutex
}
