package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopmall-backend/config"
	"github.com/ikkim/shopmall-backend/internal/app/controller"
	"github.com/ikkim/shopmall-backend/internal/middleware"
)

type Router struct {
	authController         *controller.AuthController
	categoryController     *controller.CategoryController
	ownerController        *controller.OwnerController
	productController      *controller.ProductController
	cartController         *controller.CartController
	orderController        *controller.OrderController
	paymentController      *controller.PaymentController
	addressController      *controller.AddressController
	wishlistController     *controller.WishlistController
	notificationController *controller.NotificationController
	dashboardController    *controller.DashboardController
	uploadController       *controller.UploadController
	auditController        *controller.AuditController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	categoryController *controller.CategoryController,
	ownerController *controller.OwnerController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	paymentController *controller.PaymentController,
	addressController *controller.AddressController,
	wishlistController *controller.WishlistController,
	notificationController *controller.NotificationController,
	dashboardController *controller.DashboardController,
	uploadController *controller.UploadController,
	auditController *controller.AuditController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		categoryController:     categoryController,
		ownerController:        ownerController,
		productController:      productController,
		cartController:         cartController,
		orderController:        orderController,
		paymentController:      paymentController,
		addressController:      addressController,
		wishlistController:     wishlistController,
		notificationController: notificationController,
		dashboardController:    dashboardController,
		uploadController:       uploadController,
		auditController:        auditController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "SHOPMALL API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.Refresh)
			auth.POST("/logout", r.authMiddleware.OptionalAuthenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetProfile)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
		}

		// Public catalog. Optional auth decorates listings with
		// wishlist flags for logged-in viewers.
		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.List)
			categories.GET("/:id", r.categoryController.Get)
		}

		owners := v1.Group("/owners")
		{
			owners.GET("", r.ownerController.List)
			owners.GET("/:id", r.ownerController.Get)
		}

		products := v1.Group("/products")
		products.Use(r.authMiddleware.OptionalAuthenticate())
		{
			products.GET("", r.productController.List)
			products.GET("/:id", r.productController.Get)
		}

		v1.GET("/payment-channels", r.paymentController.ListChannels)

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("/items", r.cartController.AddItem)
			cart.PUT("/items/:id", r.cartController.UpdateItem)
			cart.DELETE("/items/:id", r.cartController.RemoveItem)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.POST("/checkout", r.orderController.Checkout)
			orders.GET("", r.orderController.List)
			orders.GET("/:id", r.orderController.Get)
			orders.POST("/:id/cancel", r.orderController.Cancel)
			orders.POST("/:id/payment", r.paymentController.SubmitClaim)
		}

		addresses := v1.Group("/addresses")
		addresses.Use(r.authMiddleware.Authenticate())
		{
			addresses.GET("", r.addressController.List)
			addresses.POST("", r.addressController.Create)
			addresses.PUT("/:id", r.addressController.Update)
			addresses.DELETE("/:id", r.addressController.Delete)
		}

		wishlist := v1.Group("/wishlist")
		wishlist.Use(r.authMiddleware.Authenticate())
		{
			wishlist.GET("", r.wishlistController.List)
			wishlist.POST("", r.wishlistController.Add)
			wishlist.DELETE("/:productId", r.wishlistController.Remove)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(r.authMiddleware.Authenticate())
		{
			notifications.GET("", r.notificationController.List)
			notifications.GET("/ws", r.notificationController.Connect)
			notifications.POST("/:id/read", r.notificationController.MarkRead)
			notifications.POST("/read-all", r.notificationController.MarkAllRead)
			notifications.GET("/settings", r.notificationController.GetSettings)
			notifications.PUT("/settings", r.notificationController.UpdateSettings)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.POST("/categories", r.categoryController.Create)
			admin.PUT("/categories/:id", r.categoryController.Update)
			admin.DELETE("/categories/:id", r.categoryController.Delete)

			admin.POST("/owners", r.ownerController.Create)
			admin.PUT("/owners/:id", r.ownerController.Update)
			admin.DELETE("/owners/:id", r.ownerController.Delete)

			admin.POST("/products", r.productController.Create)
			admin.PUT("/products/:id", r.productController.Update)
			admin.DELETE("/products/:id", r.productController.Delete)

			admin.GET("/orders", r.orderController.AdminList)
			admin.GET("/orders/:id", r.orderController.AdminGet)
			admin.PUT("/orders/:id", r.orderController.AdminUpdate)
			admin.DELETE("/orders/:id", r.orderController.AdminDelete)

			admin.POST("/payment-channels", r.paymentController.CreateChannel)
			admin.PUT("/payment-channels/:id", r.paymentController.UpdateChannel)
			admin.DELETE("/payment-channels/:id", r.paymentController.DeleteChannel)

			admin.GET("/dashboard/summary", r.dashboardController.Summary)
			admin.GET("/dashboard/sold-by-category/:year", r.dashboardController.SoldByCategory)
			admin.GET("/dashboard/sales-by-month/:year", r.dashboardController.SalesByMonth)
			admin.GET("/dashboard/recent-orders/:year", r.dashboardController.RecentOrders)
			admin.GET("/dashboard/years", r.dashboardController.Years)

			admin.POST("/uploads/presign", r.uploadController.Presign)

			admin.GET("/logs", r.auditController.List)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
