// internal/domain/checkout/service_test.go
package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/your-org/marketplace-backend/internal/domain/catalog"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/payment"
	"github.com/your-org/marketplace-backend/internal/domain/pricing"
)

func TestStatusForOutcome(t *testing.T) {
	tests := []struct {
		outcome       payment.Outcome
		wantStatus    order.Status
		wantPayStatus order.PaymentStatus
	}{
		{payment.OutcomeAuthorized, order.StatusProcessing, order.PaymentStatusPaid},
		{payment.OutcomeDeclined, order.StatusPaymentFailed, order.PaymentStatusFailed},
		{payment.OutcomePending, order.StatusPendingPayment, order.PaymentStatusPending},
	}
	for _, tt := range tests {
		status, payStatus := statusForOutcome(tt.outcome)
		assert.Equal(t, tt.wantStatus, status)
		assert.Equal(t, tt.wantPayStatus, payStatus)
	}
}

func TestBuildOrderItemsSnapshotsResolvedState(t *testing.T) {
	variantID := uint(7)
	lines := []resolvedLine{
		{
			Quantity: 3,
			Resolved: catalog.ResolvedVariant{
				ProductID:   10,
				VariantID:   &variantID,
				SellerID:    42,
				ProductName: "Walnut Desk",
				VariantName: "Large",
				Attributes:  `{"size":"large"}`,
				Price:       1250, // authoritative, not the cart's display price
			},
		},
		{
			Quantity: 1,
			Resolved: catalog.ResolvedVariant{
				ProductID:   11,
				SellerID:    43,
				ProductName: "Desk Lamp",
				Price:       2500,
			},
		},
	}

	items := buildOrderItems(99, order.StatusProcessing, lines)

	assert.Len(t, items, 2)
	assert.Equal(t, uint(99), items[0].OrderID)
	assert.Equal(t, uint(42), items[0].SellerID)
	assert.Equal(t, &variantID, items[0].ProductVariantID)
	// The resolved price is billed, not the cart's display price
	assert.Equal(t, int64(1250), items[0].Price)
	assert.Equal(t, int64(3750), items[0].TotalPrice)
	assert.Equal(t, order.StatusProcessing, items[0].Status)
	assert.Equal(t, "Walnut Desk", items[0].Name)

	assert.Nil(t, items[1].ProductVariantID)
	assert.Equal(t, int64(2500), items[1].TotalPrice)
}

func TestPricingLinesUseResolvedPrices(t *testing.T) {
	lines := []resolvedLine{
		{Quantity: 2, Resolved: catalog.ResolvedVariant{Price: 700}},
		{Quantity: 1, Resolved: catalog.ResolvedVariant{Price: 100}},
	}

	pl := pricingLines(lines)

	assert.Equal(t, []pricing.Line{
		{UnitPrice: 700, Quantity: 2},
		{UnitPrice: 100, Quantity: 1},
	}, pl)
	assert.Equal(t, int64(1500), pricing.Subtotal(pl))
}

func TestStockRowTargetsResolvedSource(t *testing.T) {
	variantID := uint(7)

	model, id := stockRow(resolvedLine{Resolved: catalog.ResolvedVariant{ProductID: 10, VariantID: &variantID}})
	assert.IsType(t, &catalog.ProductVariant{}, model)
	assert.Equal(t, variantID, id)

	model, id = stockRow(resolvedLine{Resolved: catalog.ResolvedVariant{ProductID: 10}})
	assert.IsType(t, &catalog.Product{}, model)
	assert.Equal(t, uint(10), id)
}

func TestIdempotencyKeyScopedToBuyer(t *testing.T) {
	assert.Equal(t, "checkout:idem:5:abc", idempotencyKey(5, "abc"))
	assert.NotEqual(t, idempotencyKey(5, "abc"), idempotencyKey(6, "abc"))
}

func TestHistoryComment(t *testing.T) {
	assert.Equal(t, "Order placed, payment authorized",
		historyComment(&payment.Result{Outcome: payment.OutcomeAuthorized}))
	assert.Equal(t, "Order placed, payment declined: insufficient_funds",
		historyComment(&payment.Result{Outcome: payment.OutcomeDeclined, DeclineReason: "insufficient_funds"}))
	assert.Equal(t, "Order placed, payment pending",
		historyComment(&payment.Result{Outcome: payment.OutcomePending}))
}
