// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/catalog"
	"github.com/your-org/marketplace-backend/internal/domain/checkout"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/payment"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
	"github.com/your-org/marketplace-backend/internal/pkg/notify"
	"github.com/your-org/marketplace-backend/internal/pkg/pagination"
	"gorm.io/gorm"
)

// OrderHandler handles buyer-facing order and checkout endpoints
type OrderHandler struct {
	orderService    *order.Service
	checkoutService *checkout.Service
	config          *config.Config
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *OrderHandler {
	resolver := catalog.NewResolver(db)
	carts := cart.NewService(db, redisClient, resolver, cfg)
	addresses := user.NewAddressService(db, cfg)
	methods := user.NewPaymentMethodService(db, cfg)
	authorizer := payment.NewFromConfig(cfg, logger)

	var sender notify.Sender
	if cfg.Notification.Enabled {
		if smtpSender, err := notify.NewSMTPSender(&cfg.Notification); err == nil {
			sender = smtpSender
		} else {
			logger.WithError(err).Warn("Notifications enabled but SMTP misconfigured, notifications disabled")
		}
	}
	dispatcher := notify.NewDispatcher(sender, logger)

	return &OrderHandler{
		orderService:    order.NewService(db, cfg, logger),
		checkoutService: checkout.NewService(db, redisClient, resolver, carts, addresses, methods, authorizer, dispatcher, cfg, logger),
		config:          cfg,
	}
}

// PlaceOrder handles POST /me/orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req checkout.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}

	placed, err := h.checkoutService.PlaceOrder(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    placed,
	})
}

// ListOrders handles GET /me/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req order.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	orders, total, err := h.orderService.ListBuyerOrders(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.NewPage(orders, req.Params, total))
}

// GetOrder handles GET /me/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	o, err := h.orderService.GetBuyerOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

// CancelOrder handles POST /me/orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	o, err := h.orderService.Cancel(c.Request.Context(), userID, orderID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled successfully",
		"data":    o,
	})
}

func requireUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return 0, false
	}
	return userID, true
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " parameter"})
		return 0, false
	}
	return uint(id), true
}
