// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/food-delivery-backend/internal/config"
	"github.com/your-org/food-delivery-backend/internal/interfaces/http/handlers"
	"github.com/your-org/food-delivery-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires all API routes
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	setupAuthRoutes(rg, db, cfg, logger)
	setupMenuRoutes(rg, db, redisClient, cfg, logger)
	setupCartRoutes(rg, db, cfg, logger)
	setupOrderRoutes(rg, db, cfg, logger)
	setupPaymentRoutes(rg, db, cfg, logger)
	setupAdminRoutes(rg, db, redisClient, cfg, logger)
}

// setupAuthRoutes sets up authentication related routes
func setupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, logger *logrus.Logger) {
	authHandler := handlers.NewAuthHandler(db, cfg, logger)

	auth := rg.Group("/auth")
	{
		// Public auth endpoints
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		// Protected auth endpoints
		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
			protected.PUT("/password", authHandler.ChangePassword)
		}
	}
}

// setupMenuRoutes sets up public catalog routes
func setupMenuRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	catalogHandler := handlers.NewCatalogHandler(db, redisClient, cfg, logger)

	menu := rg.Group("/menu")
	{
		menu.GET("", catalogHandler.GetMenu)
		menu.GET("/categories", catalogHandler.GetCategories)
		menu.GET("/:id", catalogHandler.GetFood)
	}
}

// setupCartRoutes sets up cart related routes
func setupCartRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, logger *logrus.Logger) {
	cartHandler := handlers.NewCartHandler(db, cfg, logger)

	cart := rg.Group("/cart")
	cart.Use(middleware.AuthMiddleware(cfg))
	{
		cart.GET("", cartHandler.GetCart)
		cart.GET("/count", cartHandler.GetCartCount)
		cart.POST("/items", cartHandler.AddItem)
		cart.PUT("/items/:line_id", cartHandler.UpdateQuantity)
		cart.DELETE("/items/:line_id", cartHandler.RemoveItem)
		cart.DELETE("", cartHandler.ClearCart)
	}
}

// setupOrderRoutes sets up checkout and order routes
func setupOrderRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, logger *logrus.Logger) {
	checkoutHandler := handlers.NewCheckoutHandler(db, cfg, logger)
	orderHandler := handlers.NewOrderHandler(db, cfg, logger)
	invoiceHandler := handlers.NewInvoiceHandler(db, cfg, logger)

	checkout := rg.Group("/checkout")
	checkout.Use(middleware.AuthMiddleware(cfg))
	{
		checkout.POST("", checkoutHandler.CreateOrder)
	}

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", orderHandler.GetUserOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.PUT("/:id/cancel", orderHandler.CancelOrder)
		orders.GET("/:id/invoice", invoiceHandler.DownloadInvoice)
	}
}

// setupPaymentRoutes sets up payment gateway routes
func setupPaymentRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, logger *logrus.Logger) {
	paymentHandler := handlers.NewPaymentHandler(db, cfg, logger)

	payment := rg.Group("/payment")
	payment.Use(middleware.AuthMiddleware(cfg))
	{
		payment.POST("/orders", paymentHandler.InitiatePayment)
		payment.POST("/verify", paymentHandler.VerifyPayment)
	}
}

// setupAdminRoutes sets up admin related routes
func setupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	catalogHandler := handlers.NewCatalogHandler(db, redisClient, cfg, logger)
	orderHandler := handlers.NewOrderHandler(db, cfg, logger)
	deliveryHandler := handlers.NewDeliveryHandler(db, cfg)
	userAdminHandler := handlers.NewUserAdminHandler(db, cfg, logger)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		// Menu management
		menu := admin.Group("/menu")
		{
			menu.GET("", catalogHandler.AdminListFoods)
			menu.POST("", catalogHandler.AdminCreateFood)
			menu.POST("/categories", catalogHandler.AdminCreateCategory)
			menu.PUT("/:id", catalogHandler.AdminUpdateFood)
			menu.DELETE("/:id", catalogHandler.AdminDeleteFood)
		}

		// Order management
		orders := admin.Group("/orders")
		{
			orders.GET("", orderHandler.AdminListOrders)
			orders.PUT("/:id/status", orderHandler.AdminUpdateStatus)
			orders.PUT("/:id/delivery-partner", orderHandler.AdminAssignDelivery)
		}

		// Delivery partner management
		partners := admin.Group("/delivery-partners")
		{
			partners.GET("", deliveryHandler.ListPartners)
			partners.POST("", deliveryHandler.CreatePartner)
			partners.PUT("/:id/location", deliveryHandler.UpdateLocation)
			partners.PUT("/:id/availability", deliveryHandler.SetAvailability)
			partners.GET("/:id/orders", orderHandler.AdminListPartnerOrders)
		}

		// User management
		users := admin.Group("/users")
		{
			users.GET("", userAdminHandler.ListUsers)
			users.PUT("/:id/status", userAdminHandler.SetUserStatus)
		}
	}
}
