// internal/interfaces/http/handlers/seller.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/returns"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
	"github.com/your-org/marketplace-backend/internal/pkg/pagination"
	"gorm.io/gorm"
)

// SellerHandler handles the seller store endpoints: incoming orders,
// fulfillment transitions and the returns queue
type SellerHandler struct {
	orderService   *order.Service
	returnsService *returns.Service
	config         *config.Config
}

// NewSellerHandler creates a new seller handler
func NewSellerHandler(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *SellerHandler {
	return &SellerHandler{
		orderService:   order.NewService(db, cfg, logger),
		returnsService: returns.NewService(db, cfg, logger),
		config:         cfg,
	}
}

// transitionRequest is the shared body for order and item status updates
type transitionRequest struct {
	Status          string `json:"status" binding:"required"`
	TrackingNumber  string `json:"tracking_number"`
	ShippingCarrier string `json:"shipping_carrier"`
	Comment         string `json:"comment"`
}

// ListOrders handles GET /me/store/orders
func (h *SellerHandler) ListOrders(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req order.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	orders, total, err := h.orderService.ListSellerOrders(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.NewPage(orders, req.Params, total))
}

// UpdateOrderStatus handles PATCH /me/store/orders/:id/status
func (h *SellerHandler) UpdateOrderStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	req, input, ok := bindTransition(c)
	if !ok {
		return
	}

	o, err := h.orderService.Transition(c.Request.Context(), actor, orderID, order.Status(req.Status), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data":    o,
	})
}

// UpdateItemStatus handles PATCH /me/store/orders/:id/items/:itemId/status
func (h *SellerHandler) UpdateItemStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	req, input, ok := bindTransition(c)
	if !ok {
		return
	}

	item, err := h.orderService.TransitionItem(c.Request.Context(), actor, orderID, itemID, order.Status(req.Status), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order item status updated successfully",
		"data":    item,
	})
}

// ListReturns handles GET /me/store/returns
func (h *SellerHandler) ListReturns(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var params pagination.Params
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	requests, total, err := h.returnsService.ListSellerReturns(c.Request.Context(), userID, &params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.NewPage(requests, params, total))
}

// UpdateReturnStatus handles PATCH /me/store/returns/:id/status
func (h *SellerHandler) UpdateReturnStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	returnID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status          string `json:"status" binding:"required"`
		RejectionReason string `json:"rejection_reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	rr, err := h.returnsService.Transition(c.Request.Context(), actor, returnID, returns.Status(req.Status), returns.DecisionInput{
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Return request updated successfully",
		"data":    rr,
	})
}

func requireActor(c *gin.Context) (order.Actor, bool) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return order.Actor{}, false
	}
	return actor, true
}

func bindTransition(c *gin.Context) (*transitionRequest, order.TransitionInput, bool) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return nil, order.TransitionInput{}, false
	}
	return &req, order.TransitionInput{
		TrackingNumber:  req.TrackingNumber,
		ShippingCarrier: req.ShippingCarrier,
		Comment:         req.Comment,
	}, true
}
