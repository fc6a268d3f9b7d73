package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ikkim/shopmall-backend/config"
	"github.com/ikkim/shopmall-backend/internal/app/controller"
	"github.com/ikkim/shopmall-backend/internal/app/repository"
	"github.com/ikkim/shopmall-backend/internal/app/service"
	"github.com/ikkim/shopmall-backend/internal/db"
	"github.com/ikkim/shopmall-backend/internal/middleware"
	"github.com/ikkim/shopmall-backend/internal/router"
	"github.com/ikkim/shopmall-backend/internal/scheduler"
	"github.com/ikkim/shopmall-backend/internal/storage"
	"github.com/ikkim/shopmall-backend/internal/websocket"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"github.com/ikkim/shopmall-backend/pkg/redis"
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

	logger.Info("Starting SHOPMALL Backend Server", map[string]interface{}{
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

	// Seed database (optional)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis is optional: without it the dashboard falls back to
	// querying the database on every request.
	cacheEnabled := true
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, caching disabled", map[string]interface{}{
			"error": err.Error(),
		})
		cacheEnabled = false
	} else {
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close redis connection", err)
			}
		}()
	}

	// Notification push hub
	hub := websocket.NewHub()
	go hub.Run()

	// S3 storage for slip and catalog image uploads
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	ownerRepo := repository.NewOwnerRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	addressRepo := repository.NewAddressRepository(db.GetDB())
	wishlistRepo := repository.NewWishlistRepository(db.GetDB())
	notificationRepo := repository.NewNotificationRepository(db.GetDB())
	channelRepo := repository.NewPaymentChannelRepository(db.GetDB())
	dashboardRepo := repository.NewDashboardRepository(db.GetDB())
	auditRepo := repository.NewAuditLogRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(userRepo, &cfg.JWT)
	categoryService := service.NewCategoryService(categoryRepo)
	ownerService := service.NewOwnerService(ownerRepo)
	productService := service.NewProductService(productRepo, categoryRepo, ownerRepo, wishlistRepo)
	cartService := service.NewCartService(cartRepo, productRepo, db.GetDB())
	notificationService := service.NewNotificationService(notificationRepo, hub)
	orderService := service.NewOrderService(
		orderRepo,
		cartRepo,
		productRepo,
		addressRepo,
		notificationService,
		&cfg.Checkout,
		&cfg.Order,
		db.GetDB(),
	)
	paymentService := service.NewPaymentService(orderRepo, channelRepo, notificationService, s3Storage, db.GetDB())
	addressService := service.NewAddressService(addressRepo, orderRepo)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo)
	dashboardService := service.NewDashboardService(dashboardRepo, cacheEnabled)
	auditService := service.NewAuditService(auditRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	categoryController := controller.NewCategoryController(categoryService)
	ownerController := controller.NewOwnerController(ownerService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService, auditService)
	paymentController := controller.NewPaymentController(paymentService, auditService)
	addressController := controller.NewAddressController(addressService)
	wishlistController := controller.NewWishlistController(wishlistService)
	notificationController := controller.NewNotificationController(notificationService, hub)
	dashboardController := controller.NewDashboardController(dashboardService)
	uploadController := controller.NewUploadController(s3Storage)
	auditController := controller.NewAuditController(auditService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		authController,
		categoryController,
		ownerController,
		productController,
		cartController,
		orderController,
		paymentController,
		addressController,
		wishlistController,
		notificationController,
		dashboardController,
		uploadController,
		auditController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Hourly janitor that closes abandoned empty carts
	cartScheduler := scheduler.NewCartScheduler(cartService, cfg.Order.StaleCartAge)
	if err := cartScheduler.Start(); err != nil {
		logger.Error("Failed to start cart janitor, continuing without it", err, nil)
	}
	defer cartScheduler.Stop()

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
