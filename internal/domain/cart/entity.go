// internal/domain/cart/entity.go
package cart

import (
	"time"

	"gorm.io/gorm"
)

// CartItem represents a cart line stored in database for authenticated buyers.
// One row exists per distinct (user, product, variant); adding the same pair
// again merges quantities instead of appending.
type CartItem struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UserID           uint           `gorm:"not null;index:idx_cart_items_user_line" json:"user_id"`
	ProductID        uint           `gorm:"not null;index:idx_cart_items_user_line" json:"product_id"`
	ProductVariantID *uint          `gorm:"index:idx_cart_items_user_line" json:"product_variant_id"`
	Quantity         int            `gorm:"not null;default:1" json:"quantity"`
	Price            int64          `gorm:"not null" json:"price"` // Display price at time of adding; billing re-resolves at checkout
	ProductName      string         `gorm:"size:255" json:"product_name"`
	VariantName      string         `gorm:"size:255" json:"variant_name"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (CartItem) TableName() string {
	return "cart_items"
}

// AnonymousCart represents a cart owned by nobody, addressed by an opaque
// token and stored in Redis
type AnonymousCart struct {
	Token     string              `json:"token"`
	Items     []AnonymousCartItem `json:"items"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// AnonymousCartItem represents a cart line inside an anonymous cart
type AnonymousCartItem struct {
	ItemID           string    `json:"item_id"`
	ProductID        uint      `json:"product_id"`
	ProductVariantID *uint     `json:"product_variant_id,omitempty"`
	Quantity         int       `json:"quantity"`
	Price            int64     `json:"price"`
	ProductName      string    `json:"product_name"`
	VariantName      string    `json:"variant_name"`
	AddedAt          time.Time `json:"added_at"`
}

// CartTotals represents calculated cart totals (display only)
type CartTotals struct {
	ItemCount     int   `json:"item_count"`     // Number of distinct lines
	TotalQuantity int   `json:"total_quantity"` // Sum of all quantities
	SubTotal      int64 `json:"sub_total"`
}

// sameLine reports whether an anonymous line matches a (product, variant) pair
func (i *AnonymousCartItem) sameLine(productID uint, variantID *uint) bool {
	if i.ProductID != productID {
		return false
	}
	if i.ProductVariantID == nil && variantID == nil {
		return true
	}
	return i.ProductVariantID != nil && variantID != nil && *i.ProductVariantID == *variantID
}
