package main

import (
	"log"
	"time"

	"printshop_app_go/config"
	"printshop_app_go/db"
	"printshop_app_go/handlers"
	"printshop_app_go/middleware"
	"printshop_app_go/models"
	"printshop_app_go/realtime"
	"printshop_app_go/services"
	"printshop_app_go/services/jobs"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(db.Options{
		Path:        cfg.DBPath,
		Environment: cfg.Environment,
		RemoteURL:   cfg.TursoDatabaseURL,
		AuthToken:   cfg.TursoAuthToken,
	}); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Event broadcast: websocket clients, plus Redis when configured
	hub := realtime.NewHub()
	events := realtime.Fanout{hub}
	if cfg.RedisHost != "" {
		rdb, err := realtime.NewRedisClient(realtime.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Printf("[WARNING] Redis unavailable, events stay local: %v", err)
		} else {
			defer rdb.Close()
			relay := realtime.NewRedisPublisher(rdb, cfg.RedisChannel)
			defer relay.Close()
			events = append(events, relay)
		}
	}

	// Services
	matrix := services.NewMatrixService(db.DB)
	defaultPrice, err := services.ParseDefaultPrice(cfg.DefaultCombinationPrice)
	if err != nil {
		log.Fatalf("Invalid DEFAULT_COMBINATION_PRICE: %v", err)
	}
	matrix.DefaultPrice = defaultPrice
	options := services.NewOptionService(db.DB, matrix)

	policy, err := services.PolicyByName(cfg.StatusTransitions)
	if err != nil {
		log.Fatalf("Invalid STATUS_TRANSITIONS: %v", err)
	}
	orders := services.NewOrderService(db.DB, events)
	orders.Policy = policy
	orders.Notifier = &services.EmailNotifier{Config: cfg}

	settings := services.NewSettingsService(db.DB, events)

	// Seed data
	if err := settings.SeedDefaults(); err != nil {
		log.Fatalf("Failed to seed settings: %v", err)
	}
	if cfg.SeedDefaultOptions {
		if err := options.SeedDefaultOptions(); err != nil {
			log.Fatalf("Failed to seed options: %v", err)
		}
	}

	// Fill gaps left by earlier versions or interrupted writes
	if _, err := matrix.Repair(); err != nil {
		log.Fatalf("Failed to repair combination matrix: %v", err)
	}

	// Start background jobs
	scheduler, err := jobs.StartScheduler(matrix, cfg.MatrixCheckSchedule)
	if err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	window := time.Duration(cfg.RateLimitWindowMinutes) * time.Minute
	e.Use(middleware.APIRateLimiter(cfg.RateLimitRequests, window).Middleware())

	h := &handlers.Handler{
		Options:                  options,
		Matrix:                   matrix,
		Orders:                   orders,
		Settings:                 settings,
		Storage:                  services.InitializeStorage(cfg),
		Auth:                     middleware.NewJWTAuthorizer(cfg.AdminTokenSecret),
		PublicCombinationUpdates: cfg.PublicCombinationUpdates,
		OrderLimiter:             middleware.OrderSubmitRateLimiter(),
	}
	h.Register(e)

	// Live updates
	e.GET("/ws", echo.WrapHandler(hub))

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
