// internal/domain/order/entity.go
package order

import (
	"fmt"
	"time"

	"github.com/your-org/marketplace-backend/internal/domain/user"
)

// Status represents the order (and order item) status
type Status string

const (
	StatusPendingPayment    Status = "pending_payment"
	StatusPaymentFailed     Status = "payment_failed"
	StatusProcessing        Status = "processing"
	StatusShipped           Status = "shipped"
	StatusOutForDelivery    Status = "out_for_delivery"
	StatusDelivered         Status = "delivered"
	StatusCompleted         Status = "completed"
	StatusRefundPending     Status = "refund_pending"
	StatusRefunded          Status = "refunded"
	StatusCancelledByUser   Status = "cancelled_by_user"
	StatusCancelledBySeller Status = "cancelled_by_seller"
	StatusCancelledByAdmin  Status = "cancelled_by_admin"
)

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Order represents the order entity. Snapshots and amounts are immutable
// once created; only status, payment status and tracking fields change.
type Order struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	OrderNumber   string        `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID        uint          `gorm:"not null;index" json:"user_id"`
	Status        Status        `gorm:"not null;default:'pending_payment'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"not null;default:'pending'" json:"payment_status"`

	// Financial information, in cents
	SubtotalAmount int64 `gorm:"not null" json:"subtotal_amount"`
	DiscountAmount int64 `gorm:"default:0" json:"discount_amount"`
	ShippingAmount int64 `gorm:"default:0" json:"shipping_amount"`
	TaxAmount      int64 `gorm:"default:0" json:"tax_amount"`
	TotalAmount    int64 `gorm:"not null" json:"total_amount"`

	// Snapshots: plain copies captured at checkout so later edits to the
	// source records never alter past orders
	ShippingAddress AddressSnapshot       `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	BillingAddress  AddressSnapshot       `gorm:"embedded;embeddedPrefix:billing_" json:"billing_address"`
	PaymentMethod   PaymentMethodSnapshot `gorm:"embedded;embeddedPrefix:payment_" json:"payment_method"`

	// Additional information
	Currency      string `gorm:"size:3;default:'USD'" json:"currency"`
	Notes         string `gorm:"type:text" json:"notes"`
	InternalNotes string `gorm:"type:text" json:"internal_notes"`

	// Shipping information
	ShippingMethod  string `gorm:"size:100" json:"shipping_method"`
	TrackingNumber  string `gorm:"size:100" json:"tracking_number"`
	ShippingCarrier string `gorm:"size:50" json:"shipping_carrier"`

	// Refund information, recorded by admin refund processing
	RefundAmount int64  `gorm:"default:0" json:"refund_amount"`
	RefundReason string `gorm:"type:text" json:"refund_reason"`

	// Timestamps
	OrderedAt   time.Time  `gorm:"not null" json:"ordered_at"`
	ProcessedAt *time.Time `json:"processed_at"`
	ShippedAt   *time.Time `json:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relationships
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	StatusHistory []StatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// OrderItem represents one line of an order. SellerID is denormalized at
// checkout so seller-scoped queries need no joins; each item carries its own
// status since a multi-seller order ships in parts.
type OrderItem struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	OrderID           uint      `gorm:"not null;index" json:"order_id"`
	ProductID         uint      `gorm:"not null;index" json:"product_id"`
	ProductVariantID  *uint     `gorm:"index" json:"product_variant_id"`
	SellerID          uint      `gorm:"not null;index" json:"seller_id"`
	Name              string    `gorm:"not null;size:255" json:"name"`
	VariantName       string    `gorm:"size:255" json:"variant_name"`
	VariantAttributes string    `gorm:"type:text" json:"variant_attributes"`
	Quantity          int       `gorm:"not null" json:"quantity"`
	Price             int64     `gorm:"not null" json:"price"`       // Price per unit in cents
	TotalPrice        int64     `gorm:"not null" json:"total_price"` // Quantity * Price
	Status            Status    `gorm:"not null;default:'pending_payment'" json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// StatusHistory tracks order status changes
type StatusHistory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"not null;index" json:"order_id"`
	OrderItemID *uint     `gorm:"index" json:"order_item_id,omitempty"` // Set for item-level transitions
	Status      Status    `gorm:"not null" json:"status"`
	Comment     string    `gorm:"type:text" json:"comment"`
	CreatedBy   uint      `gorm:"index" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// AddressSnapshot is the immutable copy of a buyer address embedded in an
// order
type AddressSnapshot struct {
	FirstName    string `gorm:"size:100" json:"first_name"`
	LastName     string `gorm:"size:100" json:"last_name"`
	Company      string `gorm:"size:100" json:"company"`
	AddressLine1 string `gorm:"size:255" json:"address_line1"`
	AddressLine2 string `gorm:"size:255" json:"address_line2"`
	City         string `gorm:"size:100" json:"city"`
	State        string `gorm:"size:100" json:"state"`
	PostalCode   string `gorm:"size:20" json:"postal_code"`
	Country      string `gorm:"size:2" json:"country"`
	Phone        string `gorm:"size:20" json:"phone"`
}

// PaymentMethodSnapshot is the immutable copy of the payment method
// reference used at checkout; no raw credentials, only the provider token
// and display metadata
type PaymentMethodSnapshot struct {
	MethodID      uint   `json:"method_id"`
	ProviderToken string `gorm:"size:255" json:"-"`
	Brand         string `gorm:"size:50" json:"brand"`
	LastFour      string `gorm:"size:4" json:"last_four"`
	TransactionID string `gorm:"size:255" json:"transaction_id,omitempty"`
}

// TableName overrides
func (Order) TableName() string         { return "orders" }
func (OrderItem) TableName() string     { return "order_items" }
func (StatusHistory) TableName() string { return "order_status_history" }

// SnapshotAddress copies a stored address into the embedded order form
func SnapshotAddress(a *user.Address) AddressSnapshot {
	return AddressSnapshot{
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Company:      a.Company,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		PostalCode:   a.PostalCode,
		Country:      a.Country,
		Phone:        a.Phone,
	}
}

// SnapshotPaymentMethod copies a stored payment method reference into the
// embedded order form
func SnapshotPaymentMethod(pm *user.PaymentMethod) PaymentMethodSnapshot {
	return PaymentMethodSnapshot{
		MethodID:      pm.ID,
		ProviderToken: pm.ProviderToken,
		Brand:         pm.Brand,
		LastFour:      pm.LastFour,
	}
}

// GenerateOrderNumber formats a unique order number from the row id
func GenerateOrderNumber(orderID uint) string {
	// Format: ORD-YYYYMMDD-XXXXX
	return fmt.Sprintf("ORD-%s-%05d", time.Now().UTC().Format("20060102"), orderID)
}

// AddStatusHistory appends a status change record
func (o *Order) AddStatusHistory(status Status, comment string, createdBy uint) {
	o.StatusHistory = append(o.StatusHistory, StatusHistory{
		OrderID:   o.ID,
		Status:    status,
		Comment:   comment,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	})
}
