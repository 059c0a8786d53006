// internal/domain/order/statemachine.go
package order

import (
	"strings"

	apperrors "github.com/your-org/marketplace-backend/internal/pkg/errors"
)

// Role identifies who is driving a transition
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// Actor is the acting user plus their role for permission checks
type Actor struct {
	UserID uint
	Role   Role
}

// TransitionInput carries the side data some transitions require
type TransitionInput struct {
	TrackingNumber  string
	ShippingCarrier string
	Comment         string
	RefundAmount    int64
	RefundReason    string
}

// transitions is the directed status graph. Every write validates against it
// before being applied.
var transitions = map[Status][]Status{
	StatusPendingPayment: {StatusProcessing, StatusPaymentFailed, StatusCancelledByUser, StatusCancelledByAdmin},
	StatusPaymentFailed:  {StatusProcessing, StatusCancelledByUser, StatusCancelledByAdmin},
	StatusProcessing:     {StatusShipped, StatusCancelledByUser, StatusCancelledBySeller, StatusCancelledByAdmin},
	StatusShipped:        {StatusOutForDelivery, StatusDelivered},
	StatusOutForDelivery: {StatusDelivered},
	StatusDelivered:      {StatusCompleted, StatusRefundPending},
	StatusRefundPending:  {StatusRefunded},
}

// buyerCancellable lists the states a buyer may cancel out of
var buyerCancellable = map[Status]bool{
	StatusPendingPayment: true,
	StatusProcessing:     true,
}

// sellerTransitions is the fulfillment arm a seller may drive
var sellerTransitions = map[Status][]Status{
	StatusProcessing:     {StatusShipped, StatusCancelledBySeller},
	StatusShipped:        {StatusOutForDelivery, StatusDelivered},
	StatusOutForDelivery: {StatusDelivered},
}

// IsTerminal reports whether no further transitions leave the status
func IsTerminal(s Status) bool {
	switch s {
	case StatusCompleted, StatusRefunded, StatusCancelledByUser, StatusCancelledBySeller, StatusCancelledByAdmin:
		return true
	}
	return false
}

// IsValid reports whether the status is a known member of the enum
func IsValid(s Status) bool {
	switch s {
	case StatusPendingPayment, StatusPaymentFailed, StatusProcessing, StatusShipped,
		StatusOutForDelivery, StatusDelivered, StatusCompleted, StatusRefundPending,
		StatusRefunded, StatusCancelledByUser, StatusCancelledBySeller, StatusCancelledByAdmin:
		return true
	}
	return false
}

func graphAllows(table map[Status][]Status, from, to Status) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition checks that the actor may move a status from -> to and
// that the transition's side data is present. It does not apply anything.
func ValidateTransition(actor Actor, from, to Status, input TransitionInput) error {
	if !IsValid(to) {
		return apperrors.Validation("unknown status %q", to)
	}
	if from == to {
		return apperrors.InvalidTransition("order", string(from), string(to))
	}

	switch actor.Role {
	case RoleBuyer:
		if to != StatusCancelledByUser {
			return apperrors.Forbidden("buyers may only cancel orders")
		}
		if !buyerCancellable[from] {
			return apperrors.InvalidTransition("order", string(from), string(to))
		}
	case RoleSeller:
		if !graphAllows(sellerTransitions, from, to) {
			if graphAllows(transitions, from, to) {
				return apperrors.Forbidden("sellers may not set status %q", to)
			}
			return apperrors.InvalidTransition("order", string(from), string(to))
		}
	case RoleAdmin:
		// Admin may set any status for dispute resolution, but terminal
		// states stay terminal and refunds must pass through refund_pending.
		if IsTerminal(from) {
			return apperrors.InvalidTransition("order", string(from), string(to))
		}
		if to == StatusRefunded && from != StatusRefundPending {
			return apperrors.InvalidTransition("order", string(from), string(to))
		}
	default:
		return apperrors.Forbidden("unknown actor role")
	}

	if to == StatusShipped && strings.TrimSpace(input.TrackingNumber) == "" {
		return apperrors.Validation("a tracking number is required to mark an order shipped")
	}
	if to == StatusRefunded && actor.Role == RoleAdmin && input.RefundAmount <= 0 {
		return apperrors.Validation("a refund amount is required to record a refund")
	}

	return nil
}
