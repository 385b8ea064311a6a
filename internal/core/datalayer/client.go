package datalayer

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Store is the contract a Client guards: satisfied directly by
// Repository, and by any future gorm.io/gorm-backed implementation
// swapped in for a real deployment (per-package doc comment).
type Store[M Record] interface {
	Select(Expression[M]) []M
	SelectOne(Expression[M]) (M, bool)
	Insert(M)
	Update(Expression[M], func(M) M) (int, error)
	Delete(Expression[M]) int
}

// Client wraps a Store with a circuit breaker, the way
// internal/architecture/fx/resilience/circuit_breaker.go's
// CircuitBreakerFactory guards an external collaborator: a tripped
// breaker fails fast instead of hanging the matching goroutine that
// called it, and every failure is an error the caller maps to an
// internal "Other" rejection (spec section 7) rather than a panic.
type Client[M Record] struct {
	name    string
	store   Store[M]
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// ClientConfig bundles a Client's construction-time settings.
type ClientConfig struct {
	// Name identifies the collaborator in logs and in the breaker's own
	// state, e.g. "venues" or "price-seeds".
	Name   string
	Logger *zap.Logger
}

// NewClient wraps store with a circuit breaker using the same trip
// threshold as CircuitBreakerFactory.DefaultSettings: ten or more
// requests with at least 50% failures opens the breaker for sixty
// seconds before allowing a half-open probe.
func NewClient[M Record](store Store[M], cfg ClientConfig) *Client[M] {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	name := cfg.Name
	if name == "" {
		name = "datalayer"
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
		OnStateChange: func(breakerName string, from, to gobreaker.State) {
			logger.Warn("datalayer collaborator circuit breaker state changed",
				zap.String("collaborator", breakerName),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &Client[M]{
		name:    name,
		store:   store,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// Select runs a read through the breaker. ctx is accepted for parity
// with a future network-backed Store even though the in-memory one
// never blocks on it.
func (c *Client[M]) Select(ctx context.Context, pred Expression[M]) ([]M, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.store.Select(pred), nil
	})
	if err != nil {
		return nil, c.wrap("select", err)
	}
	return result.([]M), nil
}

// SelectOne runs a single-record read through the breaker.
func (c *Client[M]) SelectOne(ctx context.Context, pred Expression[M]) (M, bool, error) {
	type hit struct {
		record M
		found  bool
	}
	result, err := c.breaker.Execute(func() (interface{}, error) {
		record, found := c.store.SelectOne(pred)
		return hit{record: record, found: found}, nil
	})
	if err != nil {
		var zero M
		return zero, false, c.wrap("select_one", err)
	}
	h := result.(hit)
	return h.record, h.found, nil
}

// Insert runs a write through the breaker.
func (c *Client[M]) Insert(ctx context.Context, record M) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		c.store.Insert(record)
		return nil, nil
	})
	if err != nil {
		return c.wrap("insert", err)
	}
	return nil
}

// Update runs a partial update through the breaker.
func (c *Client[M]) Update(ctx context.Context, pred Expression[M], apply func(M) M) (int, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.store.Update(pred, apply)
	})
	if err != nil {
		return 0, c.wrap("update", err)
	}
	return result.(int), nil
}

// Delete runs a deletion through the breaker.
func (c *Client[M]) Delete(ctx context.Context, pred Expression[M]) (int, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.store.Delete(pred), nil
	})
	if err != nil {
		return 0, c.wrap("delete", err)
	}
	return result.(int), nil
}

func (c *Client[M]) wrap(op string, err error) error {
	c.logger.Error("datalayer collaborator call failed",
		zap.String("collaborator", c.name),
		zap.String("op", op),
		zap.Error(err))
	return fmt.Errorf("datalayer: %s %s: %w", c.name, op, err)
}
