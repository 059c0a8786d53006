// internal/interfaces/http/handlers/returns.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/returns"
	"github.com/your-org/marketplace-backend/internal/pkg/pagination"
	"gorm.io/gorm"
)

// ReturnsHandler handles buyer-facing return request endpoints
type ReturnsHandler struct {
	returnsService *returns.Service
	config         *config.Config
}

// NewReturnsHandler creates a new returns handler
func NewReturnsHandler(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *ReturnsHandler {
	return &ReturnsHandler{
		returnsService: returns.NewService(db, cfg, logger),
		config:         cfg,
	}
}

// CreateReturn handles POST /me/orders/:id/returns
func (h *ReturnsHandler) CreateReturn(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req returns.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	rr, err := h.returnsService.Create(c.Request.Context(), userID, orderID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Return request created successfully",
		"data":    rr,
	})
}

// ListReturns handles GET /me/returns
func (h *ReturnsHandler) ListReturns(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var params pagination.Params
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	requests, total, err := h.returnsService.ListBuyerReturns(c.Request.Context(), userID, &params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.NewPage(requests, params, total))
}

// GetReturn handles GET /me/returns/:id
func (h *ReturnsHandler) GetReturn(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	returnID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rr, err := h.returnsService.GetBuyerReturn(c.Request.Context(), userID, returnID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Return request retrieved successfully",
		"data":    rr,
	})
}
