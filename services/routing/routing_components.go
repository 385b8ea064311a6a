// Package routing provides supporting components for intelligent routing
package routing

import (
	"context"
	"sync"
	"time"
)

// RoutingEngine provides core routing functionality
type RoutingEngine struct {
	strategies map[string]RoutingStrategy
	rules      map[string]interface{}
	mu         sync.RWMutex
}

// NewRoutingEngine creates a new routing engine
func NewRoutingEngine() *RoutingEngine {
	return &RoutingEngine{
		strategies: make(map[string]RoutingStrategy),
		rules:      make(map[string]interface{}),
	}
}

// UpdateRules updates routing rules
func (re *RoutingEngine) UpdateRules(rules map[string]interface{}) error {
	re.mu.Lock()
	defer re.mu.Unlock()
	
	for key, value := range rules {
		re.rules[key] = value
	}
	return nil
}

// IsHealthy returns health status
func (re *RoutingEngine) IsHealthy() bool {
	return true
}

// ContextAnalyzer analyzes routing context
type ContextAnalyzer struct {
	cache map[string]*ContextAnalysis
	mu    sync.RWMutex
}

// ContextAnalysis represents analyzed routing context
type ContextAnalysis struct {
	CacheKey   string
	Dimensions map[string]interface{}
	Score      float64
	Timestamp  time.Time
}

// NewContextAnalyzer creates a new context analyzer
func NewContextAnalyzer() *ContextAnalyzer {
	return &ContextAnalyzer{
		cache: make(map[string]*ContextAnalysis),
	}
}

// Analyze analyzes routing context
func (ca *ContextAnalyzer) Analyze(ctx context.Context, routingCtx *RoutingContext) (*ContextAnalysis, error) {
	analysis := &ContextAnalysis{
		CacheKey:   generateCacheKey(routingCtx),
		Dimensions: make(map[string]interface{}),
		Score:      calculateContextScore(routingCtx),
		Timestamp:  time.Now(),
	}

	analysis.Dimensions["user_id"] = routingCtx.UserID
	analysis.Dimensions["exchange"] = routingCtx.Exchange
	analysis.Dimensions["license_tier"] = routingCtx.LicenseTier
	analysis.Dimensions["islamic_compliant"] = routingCtx.IslamicCompliant

	return analysis, nil
}

// IsHealthy returns health status
func (ca *ContextAnalyzer) IsHealthy() bool {
	return true
}

// DecisionEngine makes routing decisions
type DecisionEngine struct {
	rules map[string]DecisionRule
	mu    sync.RWMutex
}

// DecisionRule represents a routing decision rule
type DecisionRule struct {
	Condition func(*ContextAnalysis) bool
	Action    func(*ContextAnalysis) *RoutingDecision
	Priority  int
}

// NewDecisionEngine creates a new decision engine
func NewDecisionEngine() *DecisionEngine {
	return &DecisionEngine{
		rules: make(map[string]DecisionRule),
	}
}

// Decide makes a routing decision
func (de *DecisionEngine) Decide(ctx context.Context, analysis *ContextAnalysis) (*RoutingDecision, error) {
	decision := &RoutingDecision{
		RoutingStrategy:  StrategyLatencyBased,
		LoadBalanceType:  LoadBalanceLatency,
		Confidence:       0.8,
		Metadata:         make(map[string]interface{}),
		FallbackServices: make([]string, 0),
	}

	return decision, nil
}

// IsHealthy returns health status
func (de *DecisionEngine) IsHealthy() bool {
	return true
}

// RoutingCache provides caching for routing decisions
type RoutingCache struct {
	cache map[string]*CacheEntry
	mu    sync.RWMutex
}

// CacheEntry represents a cached routing decision
type CacheEntry struct {
	Decision  *RoutingDecision
	ExpiresAt time.Time
}

// NewRoutingCache creates a new routing cache
func NewRoutingCache() *RoutingCache {
	return &RoutingCache{
		cache: make(map[string]*CacheEntry),
	}
}

// Get retrieves a cached routing decision
func (rc *RoutingCache) Get(key string) *RoutingDecision {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	if entry, exists := rc.cache[key]; exists {
		if time.Now().Before(entry.ExpiresAt) {
			return entry.Decision
		}
		delete(rc.cache, key)
	}

	return nil
}

// Set stores a routing decision in cache
func (rc *RoutingCache) Set(key string, decision *RoutingDecision, ttl time.Duration) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.cache[key] = &CacheEntry{
		Decision:  decision,
		ExpiresAt: time.Now().Add(ttl),
	}
}

// Clear clears the cache
func (rc *RoutingCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.cache = make(map[string]*CacheEntry)
}

// GetStats returns cache statistics
func (rc *RoutingCache) GetStats() map[string]interface{} {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	return map[string]interface{}{
		"entries":   len(rc.cache),
		"timestamp": time.Now(),
	}
}

// IsHealthy returns health status
func (rc *RoutingCache) IsHealthy() bool {
	return true
}

// LoadBalancer provides load balancing for routing
type LoadBalancer struct {
	algorithms map[LoadBalanceType]LoadBalanceAlgorithm
	mu         sync.RWMutex
}

// LoadBalanceAlgorithm defines load balancing algorithm interface
type LoadBalanceAlgorithm interface {
	SelectService(services []string, context *RoutingContext) string
}

// NewLoadBalancer creates a new load balancer
func NewLoadBalancer() *LoadBalancer {
	return &LoadBalancer{
		algorithms: make(map[LoadBalanceType]LoadBalanceAlgorithm),
	}
}

// Balance applies load balancing to routing decision
func (lb *LoadBalancer) Balance(ctx context.Context, decision *RoutingDecision, routingCtx *RoutingContext) (*RoutingDecision, error) {
	// Apply load balancing logic here
	return decision, nil
}

// GetMetrics returns load balancer metrics
func (lb *LoadBalancer) GetMetrics() map[string]interface{} {
	return map[string]interface{}{
		"algorithms": len(lb.algorithms),
		"timestamp":  time.Now(),
	}
}

// IsHealthy returns health status
func (lb *LoadBalancer) IsHealthy() bool {
	return true
}

// CircuitBreaker provides circuit breaker functionality
type CircuitBreaker struct {
	breakers map[string]*ServiceBreaker
	mu       sync.RWMutex
}

// ServiceBreaker represents a circuit breaker for a service
type ServiceBreaker struct {
	ServiceID    string
	State        BreakerState
	FailureCount int
	LastFailure  time.Time
	Threshold    int
}

// BreakerState represents circuit breaker state
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

// NewCircuitBreaker creates a new circuit breaker
func NewCircuitBreaker() *CircuitBreaker {
	return &CircuitBreaker{
		breakers: make(map[string]*ServiceBreaker),
	}
}

// AllowRequest checks if request is allowed through circuit breaker
func (cb *CircuitBreaker) AllowRequest(serviceID string) bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	if breaker, exists := cb.breakers[serviceID]; exists {
		return breaker.State != BreakerOpen
	}

	return true
}

// GetStatus returns circuit breaker status
func (cb *CircuitBreaker) GetStatus() map[string]interface{} {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	status := make(map[string]interface{})
	for serviceID, breaker := range cb.breakers {
		status[serviceID] = map[string]interface{}{
			"state":         breaker.State,
			"failure_count": breaker.FailureCount,
		}
	}

	return status
}

// IsHealthy returns health status
func (cb *CircuitBreaker) IsHealthy() bool {
	return true
}

// PerformanceMonitor monitors routing performance
type PerformanceMonitor struct {
	metrics map[string]*ServiceMetrics
	mu      sync.RWMutex
}

// ServiceMetrics represents performance metrics for a service
type ServiceMetrics struct {
	ServiceID      string
	AverageLatency time.Duration
	CurrentLoad    float64
	Uptime         float64
	RequestCount   int64
	ErrorCount     int64
}

// NewPerformanceMonitor creates a new performance monitor
func NewPerformanceMonitor() *PerformanceMonitor {
	return &PerformanceMonitor{
		metrics: make(map[string]*ServiceMetrics),
	}
}

// RecordCacheHit records a cache hit
func (pm *PerformanceMonitor) RecordCacheHit(exchange ExchangeType, latency time.Duration) {
	// Implementation for cache hit recording
}

// RecordRouting records routing performance
func (pm *PerformanceMonitor) RecordRouting(exchange ExchangeType, latency time.Duration) {
	// Implementation for routing performance recording
}

// GetAverageLatency returns average latency for a service
func (pm *PerformanceMonitor) GetAverageLatency(serviceID string) time.Duration {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	if metrics, exists := pm.metrics[serviceID]; exists {
		return metrics.AverageLatency
	}

	return 0
}

// GetCurrentLoad returns current load for a service
func (pm *PerformanceMonitor) GetCurrentLoad(serviceID string) float64 {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	if metrics, exists := pm.metrics[serviceID]; exists {
		return metrics.CurrentLoad
	}

	return 0.0
}

// GetUptime returns uptime for a service
func (pm *PerformanceMonitor) GetUptime(serviceID string) float64 {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	if metrics, exists := pm.metrics[serviceID]; exists {
		return metrics.Uptime
	}

	return 0.0
}

// GetStats returns performance statistics
func (pm *PerformanceMonitor) GetStats() map[string]interface{} {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	stats := make(map[string]interface{})
	for serviceID, metrics := range pm.metrics {
		stats[serviceID] = map[string]interface{}{
			"average_latency": metrics.AverageLatency,
			"current_load":    metrics.CurrentLoad,
			"uptime":          metrics.Uptime,
		}
	}

	return stats
}

// IsHealthy returns health status
func (pm *PerformanceMonitor) IsHealthy() bool {
	return true
}

// Helper functions
func generateCacheKey(ctx *RoutingContext) string {
	return ctx.UserID + "_" + ctx.SessionID
}

func calculateContextScore(ctx *RoutingContext) float64 {
	score := 0.0

	// Add scoring logic based on context
	if ctx.IslamicCompliant {
		score += 10.0
	}

	if ctx.Priority == PriorityCritical {
		score += 20.0
	}

	return score
}
