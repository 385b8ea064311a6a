package poc

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/abdoElHodaky/tradSys/fiber-migration/phase1/models"
)

// FiberService represents a proof of concept Fiber-based trading service
type FiberService struct {
	app    *fiber.App
	logger *zap.Logger
	db     *gorm.DB
}

// FiberServiceParams contains dependencies for the Fiber service
type FiberServiceParams struct {
	fx.In

	Logger *zap.Logger
	DB     *gorm.DB `optional:"true"`
}

// NewFiberService creates a new Fiber service with fx integration
func NewFiberService(p FiberServiceParams) *FiberService {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			p.Logger.Error("Request error", 
				zap.Error(err),
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
			
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		},
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	})

	service := &FiberService{
		app:    app,
		logger: p.Logger,
		db:     p.DB,
	}

	service.setupMiddleware()
	service.setupRoutes()

	return service
}

func (s *FiberService) setupMiddleware() {
	// Recovery middleware
	s.app.Use(recover.New())

	// CORS middleware
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Logger middleware
	s.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Custom request logging
	s.app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		
		err := c.Next()
		
		s.logger.Info("Request processed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		)
		
		return err
	})
}

func (s *FiberService) setupRoutes() {
	// Health check
	s.app.Get("/health", s.healthCheck)

	// API routes
	api := s.app.Group("/api/v1")
	
	// Trading pairs
	pairs := api.Group("/pairs")
	pairs.Get("/", s.getAllPairs)
	pairs.Get("/:id", s.getPair)
	pairs.Post("/", s.createPair)
	pairs.Put("/:id", s.updatePair)
	pairs.Delete("/:id", s.deletePair)

	// Orders
	orders := api.Group("/orders")
	orders.Get("/", s.getAllOrders)
	orders.Post("/", s.createOrder)
	orders.Get("/:id", s.getOrder)
	orders.Put("/:id/cancel", s.cancelOrder)

	// Market data
	market := api.Group("/market")
	market.Get("/ticker/:symbol", s.getTicker)
	market.Get("/orderbook/:symbol", s.getOrderBook)
	market.Get("/trades/:symbol", s.getRecentTrades)

	// WebSocket endpoint
	s.app.Get("/ws", websocket.New(s.handleWebSocket))

	// Metrics endpoint
	s.app.Get("/metrics", s.getMetrics)
}

// Health check endpoint
func (s *FiberService) healthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
		"service":   "fiber-poc",
		"version":   "1.0.0",
	})
}

// Trading pairs endpoints
func (s *FiberService) getAllPairs(c *fiber.Ctx) error {
	// Simulate database query
	pairs := []models.Pair{
		{ID: "1", Symbol: "BTCUSD", BaseAsset: "BTC", QuoteAsset: "USD"},
		{ID: "2", Symbol: "ETHUSD", BaseAsset: "ETH", QuoteAsset: "USD"},
		{ID: "3", Symbol: "ADAUSD", BaseAsset: "ADA", QuoteAsset: "USD"},
	}

	return c.JSON(fiber.Map{
		"pairs": pairs,
		"count": len(pairs),
	})
}

func (s *FiberService) getPair(c *fiber.Ctx) error {
	id := c.Params("id")

	// Simulate database lookup
	pair := models.Pair{
		ID:         id,
		Symbol:     "BTCUSD",
		BaseAsset:  "BTC",
		QuoteAsset: "USD",
	}

	return c.JSON(pair)
}

func (s *FiberService) createPair(c *fiber.Ctx) error {
	var pair models.Pair
	if err := c.BodyParser(&pair); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Validate required fields
	if pair.Symbol == "" || pair.BaseAsset == "" || pair.QuoteAsset == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields",
		})
	}

	// Simulate database insert
	pair.ID = "new-pair-id"

	s.logger.Info("Pair created", zap.String("symbol", pair.Symbol))

	return c.Status(fiber.StatusCreated).JSON(pair)
}

func (s *FiberService) updatePair(c *fiber.Ctx) error {
	id := c.Params("id")
	var pair models.Pair

	if err := c.BodyParser(&pair); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	pair.ID = id
	return c.JSON(pair)
}

func (s *FiberService) deletePair(c *fiber.Ctx) error {
	id := c.Params("id")

	s.logger.Info("Pair deleted", zap.String("id", id))

	return c.JSON(fiber.Map{
		"message": "Pair deleted successfully",
		"id":      id,
	})
}

// Order endpoints
func (s *FiberService) getAllOrders(c *fiber.Ctx) error {
	// Simulate database query with pagination
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	orders := []fiber.Map{
		{"id": "1", "symbol": "BTCUSD", "side": "buy", "quantity": 1.0, "price": 50000.0, "status": "filled"},
		{"id": "2", "symbol": "ETHUSD", "side": "sell", "quantity": 10.0, "price": 3000.0, "status": "pending"},
	}

	return c.JSON(fiber.Map{
		"orders": orders,
		"count":  len(orders),
		"page":   page,
		"limit":  limit,
	})
}

func (s *FiberService) createOrder(c *fiber.Ctx) error {
	var order map[string]interface{}
	if err := c.BodyParser(&order); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Validate order
	if order["symbol"] == nil || order["side"] == nil || order["quantity"] == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required order fields",
		})
	}

	// Simulate order processing
	order["id"] = "new-order-id"
	order["status"] = "pending"
	order["timestamp"] = time.Now().Unix()

	s.logger.Info("Order created", 
		zap.String("symbol", order["symbol"].(string)),
		zap.String("side", order["side"].(string)),
	)

	return c.Status(fiber.StatusCreated).JSON(order)
}

func (s *FiberService) getOrder(c *fiber.Ctx) error {
	id := c.Params("id")

	order := fiber.Map{
		"id":        id,
		"symbol":    "BTCUSD",
		"side":      "buy",
		"quantity":  1.0,
		"price":     50000.0,
		"status":    "filled",
		"timestamp": time.Now().Unix(),
	}

	return c.JSON(order)
}

func (s *FiberService) cancelOrder(c *fiber.Ctx) error {
	id := c.Params("id")

	s.logger.Info("Order cancelled", zap.String("id", id))

	return c.JSON(fiber.Map{
		"message": "Order cancelled successfully",
		"id":      id,
		"status":  "cancelled",
	})
}

// Market data endpoints
func (s *FiberService) getTicker(c *fiber.Ctx) error {
	symbol := c.Params("symbol")

	ticker := fiber.Map{
		"symbol":    symbol,
		"price":     50000.0,
		"change":    1250.0,
		"change_pct": 2.56,
		"volume":    1234567.89,
		"timestamp": time.Now().Unix(),
	}

	return c.JSON(ticker)
}

func (s *FiberService) getOrderBook(c *fiber.Ctx) error {
	symbol := c.Params("symbol")

	orderbook := fiber.Map{
		"symbol": symbol,
		"bids": []fiber.Map{
			{"price": 49950.0, "quantity": 1.5},
			{"price": 49900.0, "quantity": 2.0},
		},
		"asks": []fiber.Map{
			{"price": 50050.0, "quantity": 1.2},
			{"price": 50100.0, "quantity": 1.8},
		},
		"timestamp": time.Now().Unix(),
	}

	return c.JSON(orderbook)
}

func (s *FiberService) getRecentTrades(c *fiber.Ctx) error {
	symbol := c.Params("symbol")

	trades := []fiber.Map{
		{"price": 50000.0, "quantity": 0.5, "side": "buy", "timestamp": time.Now().Unix()},
		{"price": 49995.0, "quantity": 1.0, "side": "sell", "timestamp": time.Now().Unix() - 60},
	}

	return c.JSON(fiber.Map{
		"symbol": symbol,
		"trades": trades,
		"count":  len(trades),
	})
}

// WebSocket handler
func (s *FiberService) handleWebSocket(c *websocket.Conn) {
	defer c.Close()

	s.logger.Info("WebSocket connection established", zap.String("remote", c.RemoteAddr().String()))

	// Send welcome message
	c.WriteJSON(fiber.Map{
		"type":    "welcome",
		"message": "Connected to TradSys Fiber PoC",
		"timestamp": time.Now().Unix(),
	})

	// Handle messages
	for {
		var msg map[string]interface{}
		if err := c.ReadJSON(&msg); err != nil {
			s.logger.Error("WebSocket read error", zap.Error(err))
			break
		}

		s.logger.Info("WebSocket message received", zap.Any("message", msg))

		// Echo message back with timestamp
		response := fiber.Map{
			"type":      "echo",
			"original":  msg,
			"timestamp": time.Now().Unix(),
		}

		if err := c.WriteJSON(response); err != nil {
			s.logger.Error("WebSocket write error", zap.Error(err))
			break
		}
	}

	s.logger.Info("WebSocket connection closed")
}

// Metrics endpoint
func (s *FiberService) getMetrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service":     "fiber-poc",
		"uptime":      time.Since(time.Now()).String(),
		"memory_mb":   "N/A", // Would implement actual memory metrics
		"goroutines":  "N/A", // Would implement actual goroutine count
		"requests":    "N/A", // Would implement request counter
		"timestamp":   time.Now().Unix(),
	})
}

// Start starts the Fiber service
func (s *FiberService) Start(ctx context.Context) error {
	s.logger.Info("Starting Fiber PoC service on :8080")
	
	go func() {
		if err := s.app.Listen(":8080"); err != nil {
			s.logger.Fatal("Failed to start Fiber service", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the Fiber service
func (s *FiberService) Stop(ctx context.Context) error {
	s.logger.Info("Stopping Fiber PoC service")
	return s.app.Shutdown()
}

// FiberModule provides the Fiber service for fx
var FiberModule = fx.Options(
	fx.Provide(NewFiberService),
	fx.Invoke(func(lc fx.Lifecycle, service *FiberService) {
		lc.Append(fx.Hook{
			OnStart: service.Start,
			OnStop:  service.Stop,
		})
	}),
)
