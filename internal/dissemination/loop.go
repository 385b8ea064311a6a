package dissemination

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/abdoElHodaky/tradSys/internal/core/marketdata"
)

// Loop periodically drains every instrument's Aggregator via Hub.FlushAll
// and publishes each non-empty result, decoupling dissemination cadence
// from the per-instrument worker that produced the update.
type Loop struct {
	hub       *marketdata.Hub
	publisher *Publisher
	interval  time.Duration
	logger    *zap.Logger

	stop chan struct{}
	done chan struct{}
}

// LoopConfig bundles a Loop's construction-time settings.
type LoopConfig struct {
	Hub       *marketdata.Hub
	Publisher *Publisher
	// Interval is how often FlushAll runs. Defaults to 100 milliseconds.
	Interval time.Duration
	Logger   *zap.Logger
}

// NewLoop returns a Loop that has not yet started; call Start (or use
// fx's lifecycle via Module) to run it.
func NewLoop(cfg LoopConfig) *Loop {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		hub:       cfg.Hub,
		publisher: cfg.Publisher,
		interval:  interval,
		logger:    logger,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start runs the flush/publish cadence until Stop is called.
func (l *Loop) Start() {
	go func() {
		defer close(l.done)
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		for {
			select {
			case <-l.stop:
				return
			case <-ticker.C:
				l.tick()
			}
		}
	}()
}

// Stop halts the loop and waits for its goroutine to exit.
func (l *Loop) Stop() {
	close(l.stop)
	<-l.done
}

func (l *Loop) tick() {
	for instrument, result := range l.hub.FlushAll() {
		if err := l.publisher.Publish(instrument, result); err != nil {
			l.logger.Error("dissemination tick publish failed", zap.Error(err))
		}
	}
}

// registerLifecycle wires Start/Stop into fx, used by Module.
func registerLifecycle(lc fx.Lifecycle, loop *Loop) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			loop.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			loop.Stop()
			return nil
		},
	})
}
