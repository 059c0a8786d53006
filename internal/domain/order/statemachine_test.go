// internal/domain/order/statemachine_test.go
package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	apperrors "github.com/your-org/marketplace-backend/internal/pkg/errors"
)

var (
	buyer  = Actor{UserID: 1, Role: RoleBuyer}
	seller = Actor{UserID: 2, Role: RoleSeller}
	admin  = Actor{UserID: 3, Role: RoleAdmin}
)

func TestBuyerCancellation(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		wantErr func(error) bool
	}{
		{"from pending_payment", StatusPendingPayment, nil},
		{"from processing", StatusProcessing, nil},
		{"from shipped", StatusShipped, apperrors.IsConflict},
		{"from delivered", StatusDelivered, apperrors.IsConflict},
		{"from completed", StatusCompleted, apperrors.IsConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransition(buyer, tt.from, StatusCancelledByUser, TransitionInput{})
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.True(t, tt.wantErr(err))
			}
		})
	}
}

func TestBuyerMayOnlyCancel(t *testing.T) {
	for _, to := range []Status{StatusShipped, StatusDelivered, StatusRefunded, StatusProcessing} {
		err := ValidateTransition(buyer, StatusProcessing, to, TransitionInput{TrackingNumber: "T1"})
		assert.Error(t, err, "buyer should not reach %s", to)
		assert.True(t, apperrors.IsForbidden(err))
	}
}

func TestSellerShippingFlow(t *testing.T) {
	input := TransitionInput{TrackingNumber: "1Z999AA10123456784"}

	assert.NoError(t, ValidateTransition(seller, StatusProcessing, StatusShipped, input))
	assert.NoError(t, ValidateTransition(seller, StatusShipped, StatusOutForDelivery, TransitionInput{}))
	assert.NoError(t, ValidateTransition(seller, StatusShipped, StatusDelivered, TransitionInput{}))
	assert.NoError(t, ValidateTransition(seller, StatusOutForDelivery, StatusDelivered, TransitionInput{}))
	assert.NoError(t, ValidateTransition(seller, StatusProcessing, StatusCancelledBySeller, TransitionInput{}))
}

func TestShippedRequiresTrackingNumber(t *testing.T) {
	err := ValidateTransition(seller, StatusProcessing, StatusShipped, TransitionInput{})
	assert.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	err = ValidateTransition(seller, StatusProcessing, StatusShipped, TransitionInput{TrackingNumber: "   "})
	assert.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestSellerForbiddenStatuses(t *testing.T) {
	// Edges that exist in the graph but belong to other actors are a
	// permission failure, not an unknown transition.
	err := ValidateTransition(seller, StatusProcessing, StatusCancelledByAdmin, TransitionInput{})
	assert.True(t, apperrors.IsForbidden(err))

	err = ValidateTransition(seller, StatusDelivered, StatusCompleted, TransitionInput{})
	assert.True(t, apperrors.IsForbidden(err))

	// Edges missing from the graph entirely are conflicts
	err = ValidateTransition(seller, StatusShipped, StatusProcessing, TransitionInput{})
	assert.True(t, apperrors.IsConflict(err))
}

func TestAdminTransitions(t *testing.T) {
	assert.NoError(t, ValidateTransition(admin, StatusPendingPayment, StatusCancelledByAdmin, TransitionInput{}))
	assert.NoError(t, ValidateTransition(admin, StatusDelivered, StatusRefundPending, TransitionInput{}))
	assert.NoError(t, ValidateTransition(admin, StatusPaymentFailed, StatusProcessing, TransitionInput{}))
	assert.NoError(t, ValidateTransition(admin, StatusShipped, StatusDelivered, TransitionInput{}))
}

func TestAdminRefundRules(t *testing.T) {
	input := TransitionInput{RefundAmount: 1500, RefundReason: "damaged item"}

	assert.NoError(t, ValidateTransition(admin, StatusRefundPending, StatusRefunded, input))

	// Refunds only out of refund_pending
	err := ValidateTransition(admin, StatusDelivered, StatusRefunded, input)
	assert.True(t, apperrors.IsConflict(err))

	// Amount is mandatory
	err = ValidateTransition(admin, StatusRefundPending, StatusRefunded, TransitionInput{})
	assert.True(t, apperrors.IsValidation(err))
}

func TestTerminalStatesRejectEverything(t *testing.T) {
	terminal := []Status{
		StatusCompleted, StatusRefunded,
		StatusCancelledByUser, StatusCancelledBySeller, StatusCancelledByAdmin,
	}

	for _, from := range terminal {
		assert.True(t, IsTerminal(from))
		err := ValidateTransition(admin, from, StatusProcessing, TransitionInput{})
		assert.Error(t, err, "terminal status %s should reject transitions", from)
		assert.True(t, apperrors.IsConflict(err))
	}

	assert.False(t, IsTerminal(StatusProcessing))
	assert.False(t, IsTerminal(StatusRefundPending))
}

func TestNoSelfTransition(t *testing.T) {
	err := ValidateTransition(admin, StatusProcessing, StatusProcessing, TransitionInput{})
	assert.True(t, apperrors.IsConflict(err))
}

func TestUnknownStatusRejected(t *testing.T) {
	err := ValidateTransition(admin, StatusProcessing, Status("archived"), TransitionInput{})
	assert.True(t, apperrors.IsValidation(err))
}
