package dissemination

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/abdoElHodaky/tradSys/internal/core/marketdata"
	"github.com/abdoElHodaky/tradSys/internal/core/router"
)

func provideHub(r *router.Router) *marketdata.Hub {
	return r.Hub()
}

func providePublisher(logger *zap.Logger) *Publisher {
	return New(Config{Logger: logger})
}

func provideLoop(hub *marketdata.Hub, publisher *Publisher, logger *zap.Logger) *Loop {
	return NewLoop(LoopConfig{Hub: hub, Publisher: publisher, Logger: logger})
}

// Module provides the market-data dissemination Loop and its
// gochannel-backed Publisher, and registers the loop's Start/Stop as an
// fx lifecycle hook.
var Module = fx.Options(
	fx.Provide(provideHub),
	fx.Provide(providePublisher),
	fx.Provide(provideLoop),
	fx.Invoke(registerLifecycle),
)
