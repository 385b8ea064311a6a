package bootstrap

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/abdoElHodaky/tradSys/internal/admin"
	"github.com/abdoElHodaky/tradSys/internal/config"
	"github.com/abdoElHodaky/tradSys/internal/core/router"
	"github.com/abdoElHodaky/tradSys/internal/metrics"
)

// provide builds the System from the fx-supplied config path, logger and
// metrics collector.
func provide(path config.Path, logger *zap.Logger, m *metrics.Collector) (*System, error) {
	return New(string(path), logger, m)
}

// provideReloader exposes System as the admin server's Reloader, binding
// the reference-data reload trigger named in spec section 5 to the
// admin package's POST /reload route without admin importing bootstrap
// directly.
func provideReloader(sys *System) admin.Reloader {
	return sys
}

// provideRouter exposes the current instrument router, e.g. for a
// dissemination loop or an inbound FIX session transport.
func provideRouter(sys *System) *router.Router {
	return sys.Router()
}

// Module provides *System, its admin.Reloader binding, and its current
// *router.Router for the rest of the fx graph.
var Module = fx.Options(
	fx.Provide(provide),
	fx.Provide(provideReloader),
	fx.Provide(provideRouter),
)
