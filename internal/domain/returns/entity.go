// internal/domain/returns/entity.go
package returns

import (
	"time"
)

// Status represents the return request status
type Status string

const (
	StatusPendingApproval  Status = "pending_approval"
	StatusApproved         Status = "approved"
	StatusRejected         Status = "rejected"
	StatusItemReceived     Status = "item_received"
	StatusProcessingRefund Status = "processing_refund"
	StatusRefunded         Status = "refunded"
)

// ReturnRequest represents a buyer's request to return part or all of one
// order item. SellerID is denormalized from the item so seller queues need
// no joins.
type ReturnRequest struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderID     uint   `gorm:"not null;index" json:"order_id"`
	OrderItemID uint   `gorm:"not null;index" json:"order_item_id"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	SellerID    uint   `gorm:"not null;index" json:"seller_id"`
	Quantity    int    `gorm:"not null" json:"quantity"`
	Reason      string `gorm:"type:text;not null" json:"reason"`
	Status      Status `gorm:"not null;default:'pending_approval'" json:"status"`

	// Decision trail
	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`
	DecidedBy       *uint      `json:"decided_by,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`

	// Refund recording; the refund itself is executed out of band by the
	// payment provider
	RefundAmount int64      `gorm:"default:0" json:"refund_amount"`
	RefundReason string     `gorm:"type:text" json:"refund_reason,omitempty"`
	RefundedAt   *time.Time `json:"refunded_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (ReturnRequest) TableName() string {
	return "return_requests"
}

// transitions is the directed return status graph. Any non-terminal state
// may move to item_received since packages arrive on their own schedule,
// before or after the approval decision.
var transitions = map[Status][]Status{
	StatusPendingApproval:  {StatusApproved, StatusRejected, StatusItemReceived},
	StatusItemReceived:     {StatusApproved, StatusRejected, StatusProcessingRefund},
	StatusApproved:         {StatusItemReceived, StatusProcessingRefund},
	StatusProcessingRefund: {StatusRefunded, StatusItemReceived},
}

// IsTerminal reports whether no further transitions leave the status
func IsTerminal(s Status) bool {
	return s == StatusRejected || s == StatusRefunded
}

// CanTransition reports whether from -> to is an edge in the graph
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
