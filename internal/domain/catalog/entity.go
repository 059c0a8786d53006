// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a sellable product owned by a seller
type Product struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	SellerID      uint           `gorm:"not null;index" json:"seller_id"`
	Name          string         `gorm:"not null;size:255" json:"name"`
	SKU           string         `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Price         int64          `gorm:"not null" json:"price"` // In cents
	Quantity      int            `gorm:"default:0" json:"quantity"`
	TrackQuantity bool           `gorm:"default:true" json:"track_quantity"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Variants []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"variants,omitempty"`
}

// ProductVariant represents a purchasable variant of a product
type ProductVariant struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ProductID  uint           `gorm:"not null;index" json:"product_id"`
	Name       string         `gorm:"size:255" json:"name"`
	SKU        string         `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Attributes string         `gorm:"type:text" json:"attributes"` // e.g. "Color: Black / Size: M"
	Price      int64          `gorm:"default:0" json:"price"`      // 0 falls back to product price
	Quantity   int            `gorm:"default:0" json:"quantity"`
	IsActive   bool           `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides
func (Product) TableName() string        { return "products" }
func (ProductVariant) TableName() string { return "product_variants" }

// EffectivePrice returns the variant price, falling back to the product price
func (v *ProductVariant) EffectivePrice(p *Product) int64 {
	if v != nil && v.Price > 0 {
		return v.Price
	}
	return p.Price
}
