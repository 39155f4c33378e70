package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/adeliap/rotiku-backend/config"
	"github.com/adeliap/rotiku-backend/internal/app/controller"
	"github.com/adeliap/rotiku-backend/internal/app/repository"
	"github.com/adeliap/rotiku-backend/internal/app/service"
	"github.com/adeliap/rotiku-backend/internal/db"
	"github.com/adeliap/rotiku-backend/internal/middleware"
	"github.com/adeliap/rotiku-backend/internal/router"
	"github.com/adeliap/rotiku-backend/internal/scheduler"
	"github.com/adeliap/rotiku-backend/internal/storage"
	ws "github.com/adeliap/rotiku-backend/internal/websocket"
	"github.com/adeliap/rotiku-backend/pkg/logger"
	"github.com/adeliap/rotiku-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Rotiku Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed store settings and default jenis (idempotent)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis backs the token blacklist and the store-closure cache. The
	// server still works without it; those features degrade gracefully.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, running without cache and token blacklist", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	}

	// WebSocket hub for the back-office order feed
	hub := ws.NewHub()
	go hub.Run()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	addonRepo := repository.NewAddonRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	voucherRepo := repository.NewVoucherRepository(db.GetDB())
	settingRepo := repository.NewSettingRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	storeStatusService := service.NewStoreStatusService(settingRepo)
	productService := service.NewProductService(productRepo, addonRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	cartService := service.NewCartService(cartRepo, productRepo, addonRepo, storeStatusService)
	voucherService := service.NewVoucherService(voucherRepo)
	orderService := service.NewOrderService(
		orderRepo,
		cartRepo,
		storeStatusService,
		hub,
		cfg.Checkout.DeliveryFee,
		db.GetDB(),
	)
	reportService := service.NewReportService(orderRepo)

	// S3 presigned uploads for product photos
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService, cfg.JWT.AccessTokenExpiry)
	productController := controller.NewProductController(productService)
	categoryController := controller.NewCategoryController(categoryService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService, reportService)
	voucherController := controller.NewVoucherController(voucherService)
	storeController := controller.NewStoreController(storeStatusService, hub)
	uploadController := controller.NewUploadController(s3Storage)
	wsController := controller.NewWSController(hub, cfg.CORS.AllowedOrigins)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Nightly voucher expiry sweep
	voucherScheduler := scheduler.NewVoucherScheduler(voucherService)
	if err := voucherScheduler.Start(); err != nil {
		logger.Error("Failed to start voucher scheduler", err)
	}
	defer voucherScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		categoryController,
		cartController,
		orderController,
		voucherController,
		storeController,
		uploadController,
		wsController,
		authMiddleware,
		hub,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
