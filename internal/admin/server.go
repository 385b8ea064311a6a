// Package admin implements the simulator core's ops surface: a slim
// gin-gonic/gin HTTP server exposing health checks, Prometheus metrics,
// and a reference-data reload trigger. It is never a trading entrypoint -
// order flow only ever reaches the core through the FIX session layer
// that owns internal/core/router.
package admin

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/abdoElHodaky/tradSys/internal/config"
)

// Reloader is supplied by cmd/simcore and re-reads the reference-data
// repositories under the catalogue's writer lock (§5). Returning an error
// leaves the previously loaded configuration untouched.
type Reloader interface {
	Reload(ctx context.Context) error
}

// ServerParams are the fx-provided dependencies for the admin server.
type ServerParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Logger    *zap.Logger
	Config    *config.Config
	Reloader  Reloader `optional:"true"`
}

// Server is the admin HTTP surface.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// newEngine builds the route table. Split out from NewServer so tests can
// drive it with httptest without going through fx.
func newEngine(logger *zap.Logger, reloader Reloader) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	gin.DisableConsoleColor()

	engine := gin.New()
	engine.HandleMethodNotAllowed = false
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false
	engine.SetTrustedProxies(nil)

	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))
	engine.Use(cors.New(cors.Config{
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Content-Type"},
		AllowOrigins: []string{"*"},
		MaxAge:       12 * time.Hour,
	}))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.POST("/reload", func(c *gin.Context) {
		if reloader == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reload not configured"})
			return
		}
		if err := reloader.Reload(c.Request.Context()); err != nil {
			logger.Error("reference-data reload failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "reloaded"})
	})

	return engine
}

// NewServer builds the admin engine and registers its fx lifecycle hooks.
// Route set is intentionally small: /health, /ready, /metrics, /reload.
func NewServer(p ServerParams) *Server {
	engine := newEngine(p.Logger, p.Reloader)

	srv := &Server{
		engine: engine,
		logger: p.Logger,
		http: &http.Server{
			Addr:              addr(p.Config),
			Handler:           engine,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				p.Logger.Info("starting admin server", zap.String("address", srv.http.Addr))
				if err := srv.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					p.Logger.Error("admin server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Logger.Info("stopping admin server")
			return srv.http.Shutdown(ctx)
		},
	})

	return srv
}

func addr(cfg *config.Config) string {
	if cfg == nil || cfg.Admin.Host == "" {
		return ":8080"
	}
	return cfg.Admin.Host + ":" + strconv.Itoa(cfg.Admin.Port)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("admin request",
			zap.String("path", path),
			zap.String("method", c.Request.Method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
