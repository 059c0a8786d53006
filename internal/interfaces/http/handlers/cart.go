// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/catalog"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
	apperrors "github.com/your-org/marketplace-backend/internal/pkg/errors"
	"gorm.io/gorm"
)

// CartHandler handles both anonymous and buyer cart endpoints
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *CartHandler {
	resolver := catalog.NewResolver(db)
	return &CartHandler{
		cartService: cart.NewService(db, redisClient, resolver, cfg),
		config:      cfg,
	}
}

// CreateAnonymousCart handles POST /carts
func (h *CartHandler) CreateAnonymousCart(c *gin.Context) {
	var req cart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cartResponse, err := h.cartService.CreateAnonymousCart(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Cart created successfully",
		"data":    cartResponse,
	})
}

// GetAnonymousCart handles GET /carts/:token
func (h *CartHandler) GetAnonymousCart(c *gin.Context) {
	cartResponse, err := h.cartService.View(c.Request.Context(), anonymousRef(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    cartResponse,
	})
}

// AddAnonymousItem handles POST /carts/:token/items
func (h *CartHandler) AddAnonymousItem(c *gin.Context) {
	h.addItem(c, anonymousRef(c))
}

// UpdateAnonymousItem handles PUT /carts/:token/items/:itemId
func (h *CartHandler) UpdateAnonymousItem(c *gin.Context) {
	h.updateItem(c, anonymousRef(c))
}

// RemoveAnonymousItem handles DELETE /carts/:token/items/:itemId
func (h *CartHandler) RemoveAnonymousItem(c *gin.Context) {
	h.removeItem(c, anonymousRef(c))
}

// ClearAnonymousCart handles DELETE /carts/:token
func (h *CartHandler) ClearAnonymousCart(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context(), anonymousRef(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// GetCart handles GET /me/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	ref, ok := buyerRef(c)
	if !ok {
		return
	}

	cartResponse, err := h.cartService.View(c.Request.Context(), ref)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    cartResponse,
	})
}

// GetCartItemCount handles GET /me/cart/count
func (h *CartHandler) GetCartItemCount(c *gin.Context) {
	ref, ok := buyerRef(c)
	if !ok {
		return
	}

	count, err := h.cartService.ItemCount(c.Request.Context(), ref)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"count": count},
	})
}

// AddItem handles POST /me/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	ref, ok := buyerRef(c)
	if !ok {
		return
	}
	h.addItem(c, ref)
}

// UpdateItem handles PUT /me/cart/items/:itemId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	ref, ok := buyerRef(c)
	if !ok {
		return
	}
	h.updateItem(c, ref)
}

// RemoveItem handles DELETE /me/cart/items/:itemId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	ref, ok := buyerRef(c)
	if !ok {
		return
	}
	h.removeItem(c, ref)
}

// ClearCart handles DELETE /me/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	ref, ok := buyerRef(c)
	if !ok {
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), ref); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// MergeCart handles POST /me/cart/merge. Merging an already-consumed token
// is a no-op success so clients can safely retry.
func (h *CartHandler) MergeCart(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cartResponse, err := h.cartService.Merge(c.Request.Context(), userID, req.Token)
	if err != nil {
		if apperrors.IsNotFound(err) {
			cartResponse, err = h.cartService.View(c.Request.Context(), cart.Ref{UserID: &userID})
		}
		if err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart merged successfully",
		"data":    cartResponse,
	})
}

func (h *CartHandler) addItem(c *gin.Context, ref cart.Ref) {
	var req cart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cartResponse, err := h.cartService.AddItem(c.Request.Context(), ref, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    cartResponse,
	})
}

func (h *CartHandler) updateItem(c *gin.Context, ref cart.Ref) {
	var req cart.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cartResponse, err := h.cartService.UpdateItemQuantity(c.Request.Context(), ref, c.Param("itemId"), req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    cartResponse,
	})
}

func (h *CartHandler) removeItem(c *gin.Context, ref cart.Ref) {
	cartResponse, err := h.cartService.RemoveItem(c.Request.Context(), ref, c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    cartResponse,
	})
}

func anonymousRef(c *gin.Context) cart.Ref {
	return cart.Ref{Token: c.Param("token")}
}

func buyerRef(c *gin.Context) (cart.Ref, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return cart.Ref{}, false
	}
	return cart.Ref{UserID: &userID}, true
}
