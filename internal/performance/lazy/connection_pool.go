package lazy

import (
	"context"
	"time"

	"github.com/abdoElHodaky/tradSys/internal/architecture/coordination"
	"github.com/abdoElHodaky/tradSys/internal/architecture/fx/lazy"
	"github.com/abdoElHodaky/tradSys/internal/performance"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// LazyConnectionPool is a lazy-loaded wrapper for the connection pool
type LazyConnectionPool struct {
	// Component coordinator
	coordinator *coordination.ComponentCoordinator
	
	// Component name
	componentName string
	
	// Configuration
	config performance.PoolConfig
	
	// Logger
	logger *zap.Logger
}

// NewLazyConnectionPool creates a new lazy-loaded connection pool
func NewLazyConnectionPool(
	coordinator *coordination.ComponentCoordinator,
	config performance.PoolConfig,
	logger *zap.Logger,
) (*LazyConnectionPool, error) {
	componentName := "connection-pool"
	
	// Create the provider function
	providerFn := func(log *zap.Logger) (interface{}, error) {
		return performance.NewConnectionPool(config, log)
	}
	
	// Create the lazy provider
	provider := lazy.NewEnhancedLazyProvider(
		componentName,
		providerFn,
		logger,
		nil, // Metrics will be handled by the coordinator
		lazy.WithMemoryEstimate(config.MaxPoolSize*1024*1024), // Estimate based on max pool size
		lazy.WithTimeout(15*time.Second),
		lazy.WithPriority(15), // High priority
	)
	
	// Register with the coordinator
	err := coordinator.RegisterComponent(
		componentName,
		"connection-pool",
		provider,
		[]string{}, // No dependencies
	)
	
	if err != nil {
		return nil, err
	}
	
	return &LazyConnectionPool{
		coordinator:   coordinator,
		componentName: componentName,
		config:        config,
		logger:        logger,
	}, nil
}

// GetConnection gets a connection from the pool
func (p *LazyConnectionPool) GetConnection(
	ctx context.Context,
	target string,
) (*performance.PooledConnection, error) {
	// Get the underlying pool
	poolInterface, err := p.coordinator.GetComponent(ctx, p.componentName)
	if err != nil {
		return nil, err
	}
	
	// Cast to the actual pool type
	pool, ok := poolInterface.(*performance.ConnectionPool)
	if !ok {
		return nil, performance.ErrInvalidPoolType
	}
	
	// Call the actual method
	return pool.GetConnection(ctx, target)
}

// ReleaseConnection releases a connection back to the pool
func (p *LazyConnectionPool) ReleaseConnection(
	ctx context.Context,
	conn *performance.PooledConnection,
) error {
	// Get the underlying pool
	poolInterface, err := p.coordinator.GetComponent(ctx, p.componentName)
	if err != nil {
		return err
	}
	
	// Cast to the actual pool type
	pool, ok := poolInterface.(*performance.ConnectionPool)
	if !ok {
		return performance.ErrInvalidPoolType
	}
	
	// Call the actual method
	return pool.ReleaseConnection(ctx, conn)
}

// CloseConnection closes a connection and removes it from the pool
func (p *LazyConnectionPool) CloseConnection(
	ctx context.Context,
	conn *performance.PooledConnection,
) error {
	// Get the underlying pool
	poolInterface, err := p.coordinator.GetComponent(ctx, p.componentName)
	if err != nil {
		return err
	}
	
	// Cast to the actual pool type
	pool, ok := poolInterface.(*performance.ConnectionPool)
	if !ok {
		return performance.ErrInvalidPoolType
	}
	
	// Call the actual method
	return pool.CloseConnection(ctx, conn)
}

// CreateConnection creates a new connection
func (p *LazyConnectionPool) CreateConnection(
	ctx context.Context,
	target string,
) (*performance.PooledConnection, error) {
	// Get the underlying pool
	poolInterface, err := p.coordinator.GetComponent(ctx, p.componentName)
	if err != nil {
		return nil, err
	}
	
	// Cast to the actual pool type
	pool, ok := poolInterface.(*performance.ConnectionPool)
	if !ok {
		return nil, performance.ErrInvalidPoolType
	}
	
	// Call the actual method
	return pool.CreateConnection(ctx, target)
}

// GetPoolStats gets pool statistics
func (p *LazyConnectionPool) GetPoolStats(
	ctx context.Context,
) (performance.PoolStats, error) {
	// Get the underlying pool
	poolInterface, err := p.coordinator.GetComponent(ctx, p.componentName)
	if err != nil {
		return performance.PoolStats{}, err
	}
	
	// Cast to the actual pool type
	pool, ok := poolInterface.(*performance.ConnectionPool)
	if !ok {
		return performance.PoolStats{}, performance.ErrInvalidPoolType
	}
	
	// Call the actual method
	return pool.GetPoolStats(ctx)
}

// CleanIdleConnections cleans idle connections
func (p *LazyConnectionPool) CleanIdleConnections(
	ctx context.Context,
	maxIdleTime time.Duration,
) (int, error) {
	// Get the underlying pool
	poolInterface, err := p.coordinator.GetComponent(ctx, p.componentName)
	if err != nil {
		return 0, err
	}
	
	// Cast to the actual pool type
	pool, ok := poolInterface.(*performance.ConnectionPool)
	if !ok {
		return 0, performance.ErrInvalidPoolType
	}
	
	// Call the actual method
	return pool.CleanIdleConnections(ctx, maxIdleTime)
}

// SendMessage sends a message on a connection
func (p *LazyConnectionPool) SendMessage(
	ctx context.Context,
	conn *performance.PooledConnection,
	messageType int,
	data []byte,
) error {
	// Get the underlying pool
	poolInterface, err := p.coordinator.GetComponent(ctx, p.componentName)
	if err != nil {
		return err
	}
	
	// Cast to the actual pool type
	pool, ok := poolInterface.(*performance.ConnectionPool)
	if !ok {
		return performance.ErrInvalidPoolType
	}
	
	// Call the actual method
	return pool.SendMessage(ctx, conn, messageType, data)
}

// ReadMessage reads a message from a connection
func (p *LazyConnectionPool) ReadMessage(
	ctx context.Context,
	conn *performance.PooledConnection,
) (int, []byte, error) {
	// Get the underlying pool
	poolInterface, err := p.coordinator.GetComponent(ctx, p.componentName)
	if err != nil {
		return 0, nil, err
	}
	
	// Cast to the actual pool type
	pool, ok := poolInterface.(*performance.ConnectionPool)
	if !ok {
		return 0, nil, performance.ErrInvalidPoolType
	}
	
	// Call the actual method
	return pool.ReadMessage(ctx, conn)
}

// Shutdown shuts down the pool
func (p *LazyConnectionPool) Shutdown(ctx context.Context) error {
	return p.coordinator.ShutdownComponent(ctx, p.componentName)
}

