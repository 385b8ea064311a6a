package micro

import (
	"github.com/abdoElHodaky/tradSys/internal/config"



	gomicro "github.com/micro/go-micro/v4"
	"github.com/micro/go-micro/v4/client"
	"github.com/micro/go-micro/v4/client/selector"
	"github.com/micro/go-micro/v4/server"



	"go.uber.org/zap"
)

// MeshOptions contains options for service mesh configuration
type MeshOptions struct {
	EnableTracing       bool
	EnableMetrics       bool
	EnableCircuitBreaker bool
	EnableRateLimiting  bool
}

// ConfigureMesh adds service mesh capabilities to a service
func ConfigureMesh(service gomicro.Service, opts MeshOptions, logger *zap.Logger) {
	// Configure client wrappers
	var wrappers []client.Wrapper

	// Add circuit breaker if enabled
	if opts.EnableCircuitBreaker {
		// Note: In a real implementation, you would use a circuit breaker wrapper
		// For example: wrappers = append(wrappers, gobreaker.NewClientWrapper())
		logger.Info("Circuit breaker enabled")
	}

	// Add tracing if enabled
	if opts.EnableTracing {
		// Note: In a real implementation, you would use a tracing wrapper
		// For example: wrappers = append(wrappers, opentracing.NewClientWrapper())
		logger.Info("Distributed tracing enabled")
	}

	// Add metrics if enabled
	if opts.EnableMetrics {
		// Note: In a real implementation, you would use a metrics wrapper
		// For example: wrappers = append(wrappers, prometheus.NewClientWrapper())
		logger.Info("Prometheus metrics enabled")
	}

	// Add rate limiting if enabled
	if opts.EnableRateLimiting {
		// Note: In a real implementation, you would use a rate limiting wrapper
		// For example: wrappers = append(wrappers, ratelimit.NewClientWrapper(100))
		logger.Info("Rate limiting enabled")
	}

	// Apply wrappers to the client
	service.Client().Init(
		client.Wrap(wrappers...),
		client.Retries(3),
		client.Registry(registry.DefaultRegistry),
	)

	// Configure server wrappers
	var serverWrappers []server.HandlerWrapper

	// Add tracing if enabled
	if opts.EnableTracing {
		// Note: In a real implementation, you would use a tracing wrapper
		// For example: serverWrappers = append(serverWrappers, opentracing.NewHandlerWrapper())
	}

	// Add metrics if enabled
	if opts.EnableMetrics {
		// Note: In a real implementation, you would use a metrics wrapper
		// For example: serverWrappers = append(serverWrappers, prometheus.NewHandlerWrapper())
	}

	// Apply wrappers to the server
	for _, wrapper := range serverWrappers {
		service.Server().Init(server.WrapHandler(wrapper))
	}
}

// NewMeshOptions creates mesh options from configuration
func NewMeshOptions(config *config.Config) MeshOptions {
	return MeshOptions{
		EnableTracing:       config.Tracing.Enabled,
		EnableMetrics:       config.Metrics.Enabled,
		EnableCircuitBreaker: config.Resilience.CircuitBreakerEnabled,
		EnableRateLimiting:  config.Resilience.RateLimitingEnabled,
	}
}
