// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/handlers"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires every route group under /api/v1
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	SetupCartRoutes(rg, db, redisClient, cfg)
	SetupOrderRoutes(rg, db, redisClient, cfg, logger)
	SetupSellerRoutes(rg, db, cfg, logger)
	SetupAdminRoutes(rg, db, cfg, logger)
}

// SetupCartRoutes sets up anonymous and buyer cart routes
func SetupCartRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(db, redisClient, cfg)

	// Anonymous carts, addressed by opaque token
	carts := rg.Group("/carts")
	{
		carts.POST("", cartHandler.CreateAnonymousCart)
		carts.GET("/:token", cartHandler.GetAnonymousCart)
		carts.DELETE("/:token", cartHandler.ClearAnonymousCart)
		carts.POST("/:token/items", cartHandler.AddAnonymousItem)
		carts.PUT("/:token/items/:itemId", cartHandler.UpdateAnonymousItem)
		carts.DELETE("/:token/items/:itemId", cartHandler.RemoveAnonymousItem)
	}

	// Buyer cart, scoped to the authenticated user
	myCart := rg.Group("/me/cart")
	myCart.Use(middleware.AuthMiddleware(cfg))
	{
		myCart.GET("", cartHandler.GetCart)
		myCart.DELETE("", cartHandler.ClearCart)
		myCart.GET("/count", cartHandler.GetCartItemCount)
		myCart.POST("/items", cartHandler.AddItem)
		myCart.PUT("/items/:itemId", cartHandler.UpdateItem)
		myCart.DELETE("/items/:itemId", cartHandler.RemoveItem)
		myCart.POST("/merge-anonymous", cartHandler.MergeCart)
	}
}

// SetupOrderRoutes sets up buyer checkout, order history and return routes
func SetupOrderRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	orderHandler := handlers.NewOrderHandler(db, redisClient, cfg, logger)
	returnsHandler := handlers.NewReturnsHandler(db, cfg, logger)
	invoiceHandler := handlers.NewInvoiceHandler(db, cfg, logger)

	orders := rg.Group("/me/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.POST("", orderHandler.PlaceOrder)
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.GET("/:id/invoice", invoiceHandler.GenerateInvoice)
		orders.POST("/:id/cancel", orderHandler.CancelOrder)
		orders.POST("/:id/returns", returnsHandler.CreateReturn)
	}

	myReturns := rg.Group("/me/returns")
	myReturns.Use(middleware.AuthMiddleware(cfg))
	{
		myReturns.GET("", returnsHandler.ListReturns)
		myReturns.GET("/:id", returnsHandler.GetReturn)
	}
}

// SetupSellerRoutes sets up the seller store routes
func SetupSellerRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, logger *logrus.Logger) {
	sellerHandler := handlers.NewSellerHandler(db, cfg, logger)

	store := rg.Group("/me/store")
	store.Use(middleware.AuthMiddleware(cfg))
	store.Use(middleware.SellerMiddleware())
	{
		store.GET("/orders", sellerHandler.ListOrders)
		store.PATCH("/orders/:id/status", sellerHandler.UpdateOrderStatus)
		store.PATCH("/orders/:id/items/:itemId/status", sellerHandler.UpdateItemStatus)
		store.GET("/returns", sellerHandler.ListReturns)
		store.PATCH("/returns/:id/status", sellerHandler.UpdateReturnStatus)
	}
}

// SetupAdminRoutes sets up the admin oversight routes
func SetupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, logger *logrus.Logger) {
	adminHandler := handlers.NewAdminHandler(db, cfg, logger)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/orders", adminHandler.ListOrders)
		admin.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)
		admin.POST("/orders/:id/refund", adminHandler.RefundOrder)
		admin.GET("/returns", adminHandler.ListReturns)
		admin.PATCH("/returns/:id/status", adminHandler.UpdateReturnStatus)
	}
}
