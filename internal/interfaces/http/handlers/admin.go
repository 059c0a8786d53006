// internal/interfaces/http/handlers/admin.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/returns"
	"github.com/your-org/marketplace-backend/internal/pkg/pagination"
	"gorm.io/gorm"
)

// AdminHandler handles admin oversight endpoints: full order visibility,
// dispute transitions and refund recording
type AdminHandler struct {
	orderService   *order.Service
	returnsService *returns.Service
	config         *config.Config
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		orderService:   order.NewService(db, cfg, logger),
		returnsService: returns.NewService(db, cfg, logger),
		config:         cfg,
	}
}

// ListOrders handles GET /admin/orders
func (h *AdminHandler) ListOrders(c *gin.Context) {
	var req order.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.NewPage(orders, req.Params, total))
}

// UpdateOrderStatus handles PATCH /admin/orders/:id/status. Refunds are
// recorded here with their amount and reason.
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status          string `json:"status" binding:"required"`
		TrackingNumber  string `json:"tracking_number"`
		ShippingCarrier string `json:"shipping_carrier"`
		Comment         string `json:"comment"`
		RefundAmount    int64  `json:"refund_amount"`
		RefundReason    string `json:"refund_reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	o, err := h.orderService.Transition(c.Request.Context(), actor, orderID, order.Status(req.Status), order.TransitionInput{
		TrackingNumber:  req.TrackingNumber,
		ShippingCarrier: req.ShippingCarrier,
		Comment:         req.Comment,
		RefundAmount:    req.RefundAmount,
		RefundReason:    req.RefundReason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data":    o,
	})
}

// RefundOrder handles POST /admin/orders/:id/refund. The order must already
// sit in refund_pending; the refund amount and reason are recorded on it.
func (h *AdminHandler) RefundOrder(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		RefundAmount int64  `json:"refund_amount" binding:"required"`
		RefundReason string `json:"refund_reason"`
		Comment      string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	o, err := h.orderService.Transition(c.Request.Context(), actor, orderID, order.StatusRefunded, order.TransitionInput{
		Comment:      req.Comment,
		RefundAmount: req.RefundAmount,
		RefundReason: req.RefundReason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Refund recorded successfully",
		"data":    o,
	})
}

// ListReturns handles GET /admin/returns
func (h *AdminHandler) ListReturns(c *gin.Context) {
	var params pagination.Params
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	requests, total, err := h.returnsService.ListReturns(c.Request.Context(), &params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.NewPage(requests, params, total))
}

// UpdateReturnStatus handles PATCH /admin/returns/:id/status
func (h *AdminHandler) UpdateReturnStatus(c *gin.Context) {
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
		RefundAmount    int64  `json:"refund_amount"`
		RefundReason    string `json:"refund_reason"`
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
		RefundAmount:    req.RefundAmount,
		RefundReason:    req.RefundReason,
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
