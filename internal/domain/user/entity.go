// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Address types
const (
	AddressTypeShipping = "shipping"
	AddressTypeBilling  = "billing"
	AddressTypeBusiness = "business"
)

// User represents a marketplace account (buyer, seller or admin)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	FirstName string         `gorm:"size:100" json:"first_name"`
	LastName  string         `gorm:"size:100" json:"last_name"`
	Phone     string         `gorm:"size:20" json:"phone"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	IsSeller  bool           `gorm:"default:false" json:"is_seller"`
	IsAdmin   bool           `gorm:"default:false" json:"is_admin"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Addresses      []Address       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"addresses,omitempty"`
	PaymentMethods []PaymentMethod `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"payment_methods,omitempty"`
}

// Address represents a buyer-owned mailing/billing record. At most one
// default shipping and one default billing address exist per user; the
// service toggles them explicitly, never through model hooks.
type Address struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"not null;index" json:"user_id"`
	Type              string    `gorm:"size:20;default:'shipping'" json:"type"` // shipping, billing, business
	FirstName         string    `gorm:"size:100" json:"first_name"`
	LastName          string    `gorm:"size:100" json:"last_name"`
	Company           string    `gorm:"size:100" json:"company"`
	AddressLine1      string    `gorm:"size:255;not null" json:"address_line1"`
	AddressLine2      string    `gorm:"size:255" json:"address_line2"`
	City              string    `gorm:"size:100;not null" json:"city"`
	State             string    `gorm:"size:100" json:"state"`
	PostalCode        string    `gorm:"size:20" json:"postal_code"`
	Country           string    `gorm:"size:2;not null;default:'US'" json:"country"` // ISO 2-letter code
	Phone             string    `gorm:"size:20" json:"phone"`
	IsDefaultShipping bool      `gorm:"default:false" json:"is_default_shipping"`
	IsDefaultBilling  bool      `gorm:"default:false" json:"is_default_billing"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PaymentMethod represents an opaque payment reference. ProviderToken points
// at the gateway's stored instrument; raw credentials never reach this system.
type PaymentMethod struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	ProviderToken string         `gorm:"not null;size:255" json:"-"`
	Brand         string         `gorm:"size:50" json:"brand"`
	LastFour      string         `gorm:"size:4" json:"last_four"`
	IsDefault     bool           `gorm:"default:false" json:"is_default"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides
func (User) TableName() string          { return "users" }
func (Address) TableName() string       { return "addresses" }
func (PaymentMethod) TableName() string { return "payment_methods" }

// BeforeCreate hook to normalize email before user creation
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Email = strings.ToLower(u.Email)
	return nil
}

// GetFullName returns the user's full name
func (u *User) GetFullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
