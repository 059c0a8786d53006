// internal/domain/catalog/resolver.go
package catalog

import (
	"context"
	"time"

	apperrors "github.com/your-org/marketplace-backend/internal/pkg/errors"
	"gorm.io/gorm"
)

// ResolvedVariant is the catalog collaborator's answer for one purchasable
// line: current price, availability and the owning seller.
type ResolvedVariant struct {
	ProductID   uint
	VariantID   *uint
	SellerID    uint
	ProductName string
	VariantName string
	Attributes  string
	Price       int64
	Stock       int
	Tracked     bool
	IsActive    bool
}

// VariantResolver resolves current price and availability for a
// (product, variant) pair. Checkout consumes this instead of cart-cached
// prices so stale pricing never reaches an order.
type VariantResolver interface {
	Resolve(ctx context.Context, productID uint, variantID *uint) (*ResolvedVariant, error)
}

// Resolver is the database-backed VariantResolver
type Resolver struct {
	db          *gorm.DB
	callTimeout time.Duration
}

// NewResolver creates a new catalog resolver
func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{
		db:          db,
		callTimeout: 5 * time.Second,
	}
}

// Resolve looks up the product (and variant, when given) and returns the
// current selling state. Inactive records resolve with IsActive=false rather
// than an error so checkout can report a conflict with context.
func (r *Resolver) Resolve(ctx context.Context, productID uint, variantID *uint) (*ResolvedVariant, error) {
	ctx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	var prod Product
	result := r.db.WithContext(ctx).Where("id = ?", productID).First(&prod)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("product")
		}
		return nil, apperrors.Unavailable("catalog lookup failed", result.Error)
	}

	resolved := &ResolvedVariant{
		ProductID:   prod.ID,
		SellerID:    prod.SellerID,
		ProductName: prod.Name,
		Price:       prod.Price,
		Stock:       prod.Quantity,
		Tracked:     prod.TrackQuantity,
		IsActive:    prod.IsActive,
	}

	if variantID != nil {
		var variant ProductVariant
		result := r.db.WithContext(ctx).
			Where("id = ? AND product_id = ?", *variantID, productID).
			First(&variant)
		if result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				return nil, apperrors.NotFound("product variant")
			}
			return nil, apperrors.Unavailable("catalog lookup failed", result.Error)
		}

		resolved.VariantID = variantID
		resolved.VariantName = variant.Name
		resolved.Attributes = variant.Attributes
		resolved.Price = variant.EffectivePrice(&prod)
		resolved.Stock = variant.Quantity
		resolved.IsActive = prod.IsActive && variant.IsActive
	}

	return resolved, nil
}
