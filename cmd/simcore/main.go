package main

import (
	"flag"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/abdoElHodaky/tradSys/internal/admin"
	"github.com/abdoElHodaky/tradSys/internal/bootstrap"
	"github.com/abdoElHodaky/tradSys/internal/config"
	"github.com/abdoElHodaky/tradSys/internal/dissemination"
	"github.com/abdoElHodaky/tradSys/internal/metrics"
)

func main() {
	configPath := flag.String("config", "config", "directory containing config.yaml")
	flag.Parse()

	app := fx.New(
		fx.Supply(config.Path(*configPath)),
		config.Module,
		metrics.Module,
		bootstrap.Module,
		admin.Module,
		dissemination.Module,
		fx.Invoke(func(server *admin.Server, loop *dissemination.Loop, logger *zap.Logger) {
			logger.Info("simulator core started", zap.String("config_path", *configPath))
		}),
	)

	app.Run()
}
