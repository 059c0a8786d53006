// internal/domain/returns/service_test.go
package returns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	apperrors "github.com/your-org/marketplace-backend/internal/pkg/errors"
)

func TestReturnEligibilityFollowsOrderStatus(t *testing.T) {
	tests := []struct {
		name        string
		orderStatus order.Status
		itemStatus  order.Status
		want        bool
	}{
		{"delivered order, items never transitioned", order.StatusDelivered, order.StatusProcessing, true},
		{"completed order, items never transitioned", order.StatusCompleted, order.StatusProcessing, true},
		{"item delivered ahead of the rest of the order", order.StatusShipped, order.StatusDelivered, true},
		{"order still processing", order.StatusProcessing, order.StatusProcessing, false},
		{"order shipped but not delivered", order.StatusShipped, order.StatusShipped, false},
		{"order pending payment", order.StatusPendingPayment, order.StatusPendingPayment, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, returnEligible(tt.orderStatus, tt.itemStatus))
		})
	}
}

func TestValidateReturnQuantity(t *testing.T) {
	tests := []struct {
		name             string
		requested        int
		purchased        int
		alreadyRequested int64
		wantErr          bool
	}{
		{"full quantity, no prior returns", 3, 3, 0, false},
		{"partial quantity, no prior returns", 1, 3, 0, false},
		{"remainder after a prior partial return", 2, 3, 1, false},
		{"more than purchased", 4, 3, 0, true},
		{"one over after prior returns", 2, 3, 2, true},
		{"item fully returned already", 1, 3, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateReturnQuantity(tt.requested, tt.purchased, tt.alreadyRequested)
			if tt.wantErr {
				assert.True(t, apperrors.IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReturnTransitionGraph(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPendingApproval, StatusApproved},
		{StatusPendingApproval, StatusRejected},
		{StatusPendingApproval, StatusItemReceived},
		{StatusItemReceived, StatusApproved},
		{StatusItemReceived, StatusRejected},
		{StatusItemReceived, StatusProcessingRefund},
		{StatusApproved, StatusItemReceived},
		{StatusApproved, StatusProcessingRefund},
		{StatusProcessingRefund, StatusRefunded},
		{StatusProcessingRefund, StatusItemReceived},
	}
	for _, tt := range allowed {
		assert.True(t, CanTransition(tt.from, tt.to), "%s -> %s should be allowed", tt.from, tt.to)
	}

	denied := []struct{ from, to Status }{
		{StatusPendingApproval, StatusRefunded},
		{StatusPendingApproval, StatusProcessingRefund},
		{StatusApproved, StatusRejected},
		{StatusRejected, StatusApproved},
		{StatusRefunded, StatusProcessingRefund},
		{StatusProcessingRefund, StatusApproved},
	}
	for _, tt := range denied {
		assert.False(t, CanTransition(tt.from, tt.to), "%s -> %s should be denied", tt.from, tt.to)
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, IsTerminal(StatusRejected))
	assert.True(t, IsTerminal(StatusRefunded))
	assert.False(t, IsTerminal(StatusPendingApproval))
	assert.False(t, IsTerminal(StatusApproved))
	assert.False(t, IsTerminal(StatusItemReceived))
	assert.False(t, IsTerminal(StatusProcessingRefund))
}

func TestValidateDecisionRejectionRequiresReason(t *testing.T) {
	err := validateDecision(StatusPendingApproval, StatusRejected, DecisionInput{})
	assert.True(t, apperrors.IsValidation(err))

	err = validateDecision(StatusPendingApproval, StatusRejected, DecisionInput{RejectionReason: "   "})
	assert.True(t, apperrors.IsValidation(err))

	err = validateDecision(StatusPendingApproval, StatusRejected, DecisionInput{RejectionReason: "outside return window"})
	assert.NoError(t, err)
}

func TestValidateDecisionRefundRequiresAmount(t *testing.T) {
	err := validateDecision(StatusProcessingRefund, StatusRefunded, DecisionInput{})
	assert.True(t, apperrors.IsValidation(err))

	err = validateDecision(StatusProcessingRefund, StatusRefunded, DecisionInput{RefundAmount: 2500, RefundReason: "item damaged in transit"})
	assert.NoError(t, err)
}

func TestValidateDecisionBadEdgeIsConflict(t *testing.T) {
	err := validateDecision(StatusRejected, StatusApproved, DecisionInput{})
	assert.True(t, apperrors.IsConflict(err))
}
