// internal/pkg/pdf/invoice_test.go
package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/order"
)

func testService() *Service {
	return NewService(&config.Config{
		App: config.AppConfig{
			CompanyName:  "Marketplace Inc.",
			CompanyEmail: "support@example.com",
		},
	})
}

func sampleOrder() *order.Order {
	return &order.Order{
		OrderNumber:    "ORD-20260827-00042",
		Currency:       "USD",
		PaymentStatus:  order.PaymentStatusPaid,
		SubtotalAmount: 5000,
		DiscountAmount: 500,
		ShippingAmount: 1000,
		TaxAmount:      450,
		TotalAmount:    5950,
		ShippingAddress: order.AddressSnapshot{
			FirstName: "Ada", LastName: "Lovelace",
			AddressLine1: "1 Analytical Way", City: "London", Country: "GB",
		},
		BillingAddress: order.AddressSnapshot{
			FirstName: "Ada", LastName: "Lovelace",
			AddressLine1: "1 Analytical Way", City: "London", Country: "GB",
		},
		Items: []order.OrderItem{
			{Name: "Walnut Desk", VariantName: "Large", Quantity: 2, Price: 2000, TotalPrice: 4000},
			{Name: "Desk Lamp", Quantity: 1, Price: 1000, TotalPrice: 1000},
		},
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "12.50 USD", formatAmount(1250, "USD"))
	assert.Equal(t, "0.05 EUR", formatAmount(5, "EUR"))
	assert.Equal(t, "-3.00 USD", formatAmount(-300, "USD"))
	assert.Equal(t, "0.00 USD", formatAmount(0, "USD"))
}

func TestRenderInvoiceHTML(t *testing.T) {
	s := testService()
	o := sampleOrder()

	html, err := s.renderHTML(s.invoiceData(o, "ada@example.com"))
	require.NoError(t, err)

	assert.Contains(t, html, "INV-ORD-20260827-00042")
	assert.Contains(t, html, "Walnut Desk")
	assert.Contains(t, html, "Large")
	assert.Contains(t, html, "40.00 USD")
	assert.Contains(t, html, "59.50 USD")
	assert.Contains(t, html, "-5.00 USD")
	assert.Contains(t, html, "ada@example.com")
	assert.Contains(t, html, "Marketplace Inc.")
}

func TestRenderInvoiceHTMLOmitsZeroDiscount(t *testing.T) {
	s := testService()
	o := sampleOrder()
	o.DiscountAmount = 0

	html, err := s.renderHTML(s.invoiceData(o, ""))
	require.NoError(t, err)

	assert.NotContains(t, html, "Discount:")
}
