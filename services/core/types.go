package core

import (
	"context"
	"time"
)

// ServiceDiscovery handles service discovery and registration
type ServiceDiscovery struct {
	registry map[string]*ServiceInfo
	config   *DiscoveryConfig
}

// LoadBalancer handles load balancing across service instances
type LoadBalancer struct {
	strategy  string
	instances []*ServiceInstance
	config    *LoadBalancerConfig
}

// HealthChecker monitors service health
type HealthChecker struct {
	services map[string]*HealthStatus
	config   *HealthConfig
}

// MetricsCollector collects and aggregates metrics
type MetricsCollector struct {
	metrics map[string]*MetricData
	config  *MetricsConfig
}

// Supporting types
type ServiceInfo struct {
	ID       string
	Name     string
	Address  string
	Port     int
	Status   string
	Metadata map[string]string
}

type ServiceInstance struct {
	ID       string
	Address  string
	Port     int
	Weight   int
	Healthy  bool
	LastSeen time.Time
}

type HealthStatus struct {
	ServiceID   string
	Status      string
	LastCheck   time.Time
	ResponseTime time.Duration
	Error       string
}

type MetricData struct {
	Name      string
	Value     float64
	Timestamp time.Time
	Labels    map[string]string
}

type DiscoveryConfig struct {
	RefreshInterval time.Duration
	Timeout         time.Duration
	RetryCount      int
}

type LoadBalancerConfig struct {
	Strategy        string
	HealthCheckPath string
	Timeout         time.Duration
}

type HealthConfig struct {
	CheckInterval time.Duration
	Timeout       time.Duration
	RetryCount    int
}

type MetricsConfig struct {
	CollectionInterval time.Duration
	RetentionPeriod    time.Duration
	BufferSize         int
}

// Constructor functions
func NewServiceDiscovery(config *DiscoveryConfig) *ServiceDiscovery {
	return &ServiceDiscovery{
		registry: make(map[string]*ServiceInfo),
		config:   config,
	}
}

func NewLoadBalancer(config *LoadBalancerConfig) *LoadBalancer {
	return &LoadBalancer{
		strategy:  config.Strategy,
		instances: make([]*ServiceInstance, 0),
		config:    config,
	}
}

func NewHealthChecker(config *HealthConfig) *HealthChecker {
	return &HealthChecker{
		services: make(map[string]*HealthStatus),
		config:   config,
	}
}

func NewMetricsCollector(config *MetricsConfig) *MetricsCollector {
	return &MetricsCollector{
		metrics: make(map[string]*MetricData),
		config:  config,
	}
}

// ServiceDiscovery methods
func (sd *ServiceDiscovery) Register(service *ServiceInfo) error {
	sd.registry[service.ID] = service
	return nil
}

func (sd *ServiceDiscovery) Deregister(serviceID string) error {
	delete(sd.registry, serviceID)
	return nil
}

func (sd *ServiceDiscovery) Discover(serviceName string) ([]*ServiceInfo, error) {
	var services []*ServiceInfo
	for _, service := range sd.registry {
		if service.Name == serviceName {
			services = append(services, service)
		}
	}
	return services, nil
}

func (sd *ServiceDiscovery) GetService(serviceID string) (*ServiceInfo, error) {
	service, exists := sd.registry[serviceID]
	if !exists {
		return nil, nil
	}
	return service, nil
}

// LoadBalancer methods
func (lb *LoadBalancer) AddInstance(instance *ServiceInstance) error {
	lb.instances = append(lb.instances, instance)
	return nil
}

func (lb *LoadBalancer) RemoveInstance(instanceID string) error {
	for i, instance := range lb.instances {
		if instance.ID == instanceID {
			lb.instances = append(lb.instances[:i], lb.instances[i+1:]...)
			break
		}
	}
	return nil
}

func (lb *LoadBalancer) GetNextInstance() (*ServiceInstance, error) {
	// Simple round-robin for now
	for _, instance := range lb.instances {
		if instance.Healthy {
			return instance, nil
		}
	}
	return nil, nil
}

// HealthChecker methods
func (hc *HealthChecker) CheckHealth(ctx context.Context, serviceID string) (*HealthStatus, error) {
	// Implementation would perform actual health check
	status := &HealthStatus{
		ServiceID:    serviceID,
		Status:       "healthy",
		LastCheck:    time.Now(),
		ResponseTime: 10 * time.Millisecond,
	}
	hc.services[serviceID] = status
	return status, nil
}

func (hc *HealthChecker) GetHealthStatus(serviceID string) (*HealthStatus, error) {
	status, exists := hc.services[serviceID]
	if !exists {
		return nil, nil
	}
	return status, nil
}

func (hc *HealthChecker) GetAllHealthStatuses() map[string]*HealthStatus {
	return hc.services
}

// MetricsCollector methods
func (mc *MetricsCollector) CollectMetric(name string, value float64, labels map[string]string) error {
	metric := &MetricData{
		Name:      name,
		Value:     value,
		Timestamp: time.Now(),
		Labels:    labels,
	}
	mc.metrics[name] = metric
	return nil
}

func (mc *MetricsCollector) GetMetric(name string) (*MetricData, error) {
	metric, exists := mc.metrics[name]
	if !exists {
		return nil, nil
	}
	return metric, nil
}

func (mc *MetricsCollector) GetAllMetrics() map[string]*MetricData {
	return mc.metrics
}

func (mc *MetricsCollector) ClearMetrics() {
	mc.metrics = make(map[string]*MetricData)
}
