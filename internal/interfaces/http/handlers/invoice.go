// internal/interfaces/http/handlers/invoice.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
	"github.com/your-org/marketplace-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// InvoiceHandler handles invoice downloads
type InvoiceHandler struct {
	orderService *order.Service
	pdfService   *pdf.Service
	config       *config.Config
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		orderService: order.NewService(db, cfg, logger),
		pdfService:   pdf.NewService(cfg),
		config:       cfg,
	}
}

// GenerateInvoice handles GET /me/orders/:id/invoice
func (h *InvoiceHandler) GenerateInvoice(c *gin.Context) {
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

	email, _ := middleware.GetUserEmailFromContext(c)
	pdfBuffer, err := h.pdfService.GenerateInvoice(o, email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", o.OrderNumber))
	c.Header("Content-Length", strconv.Itoa(pdfBuffer.Len()))
	c.Data(http.StatusOK, "application/pdf", pdfBuffer.Bytes())
}
