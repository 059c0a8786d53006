// internal/pkg/pdf/invoice.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/order"
)

// Service renders order invoices as PDF
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GenerateInvoice renders a PDF invoice for an order
func (s *Service) GenerateInvoice(o *order.Order, buyerEmail string) (*bytes.Buffer, error) {
	htmlContent, err := s.renderHTML(s.invoiceData(o, buyerEmail))
	if err != nil {
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// invoiceData builds the template view model with all amounts pre-formatted
func (s *Service) invoiceData(o *order.Order, buyerEmail string) InvoiceData {
	lines := make([]InvoiceLine, len(o.Items))
	for i, item := range o.Items {
		lines[i] = InvoiceLine{
			Name:      item.Name,
			Variant:   item.VariantName,
			Quantity:  item.Quantity,
			UnitPrice: formatAmount(item.Price, o.Currency),
			LineTotal: formatAmount(item.TotalPrice, o.Currency),
		}
	}

	return InvoiceData{
		InvoiceNumber: fmt.Sprintf("INV-%s", o.OrderNumber),
		InvoiceDate:   time.Now().Format("January 2, 2006"),
		Order:         o,
		BuyerEmail:    buyerEmail,
		Lines:         lines,
		Subtotal:      formatAmount(o.SubtotalAmount, o.Currency),
		Discount:      formatAmount(o.DiscountAmount, o.Currency),
		Shipping:      formatAmount(o.ShippingAmount, o.Currency),
		Tax:           formatAmount(o.TaxAmount, o.Currency),
		Total:         formatAmount(o.TotalAmount, o.Currency),
		Company: CompanyInfo{
			Name:    s.config.App.CompanyName,
			Address: s.config.App.CompanyAddress,
			Phone:   s.config.App.CompanyPhone,
			Email:   s.config.App.CompanyEmail,
			Website: s.config.App.CompanyWebsite,
		},
	}
}

func (s *Service) renderHTML(data InvoiceData) (string, error) {
	tmpl := template.Must(template.New("invoice").Parse(invoiceTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// formatAmount renders cents as a decimal amount with the currency code
func formatAmount(cents int64, currency string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, cents/100, cents%100, currency)
}

// InvoiceData is the invoice template view model
type InvoiceData struct {
	InvoiceNumber string
	InvoiceDate   string
	Order         *order.Order
	BuyerEmail    string
	Company       CompanyInfo
	Lines         []InvoiceLine
	Subtotal      string
	Discount      string
	Shipping      string
	Tax           string
	Total         string
}

// InvoiceLine is one order item row with formatted amounts
type InvoiceLine struct {
	Name      string
	Variant   string
	Quantity  int
	UnitPrice string
	LineTotal string
}

// CompanyInfo identifies the marketplace operator on the invoice
type CompanyInfo struct {
	Name    string
	Address string
	Phone   string
	Email   string
	Website string
}

const invoiceTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { display: flex; justify-content: space-between; margin-bottom: 30px; border-bottom: 2px solid #eee; padding-bottom: 20px; }
        .invoice-title { font-size: 28px; font-weight: bold; color: #2563eb; margin-bottom: 10px; }
        .invoice-info { text-align: right; }
        .addresses { display: flex; justify-content: space-between; margin-bottom: 30px; }
        .addresses > div { flex: 1; margin-right: 20px; }
        .section-title { font-size: 16px; font-weight: bold; margin-bottom: 10px; color: #374151; }
        .items { width: 100%; border-collapse: collapse; margin-bottom: 30px; }
        .items th, .items td { border: 1px solid #ddd; padding: 12px 8px; text-align: left; }
        .items th { background-color: #f8f9fa; }
        .items .num { text-align: right; width: 110px; }
        .totals { float: right; width: 300px; }
        .totals table { width: 100%; border-collapse: collapse; }
        .totals td { padding: 8px; border-bottom: 1px solid #eee; }
        .totals .label { text-align: right; font-weight: bold; }
        .totals .amount { text-align: right; width: 120px; }
        .total-row { font-size: 18px; font-weight: bold; border-top: 2px solid #333; }
        .footer { margin-top: 50px; padding-top: 20px; border-top: 1px solid #eee; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <div>
            <h1>{{.Company.Name}}</h1>
            {{if .Company.Address}}<p>{{.Company.Address}}</p>{{end}}
            {{if .Company.Phone}}<p>Phone: {{.Company.Phone}}</p>{{end}}
            <p>Email: {{.Company.Email}}</p>
            {{if .Company.Website}}<p>{{.Company.Website}}</p>{{end}}
        </div>
        <div class="invoice-info">
            <div class="invoice-title">INVOICE</div>
            <p><strong>Invoice #:</strong> {{.InvoiceNumber}}</p>
            <p><strong>Invoice Date:</strong> {{.InvoiceDate}}</p>
            <p><strong>Order #:</strong> {{.Order.OrderNumber}}</p>
            <p><strong>Payment Status:</strong> {{.Order.PaymentStatus}}</p>
        </div>
    </div>

    <div class="addresses">
        <div>
            <div class="section-title">Bill To:</div>
            <p><strong>{{.Order.BillingAddress.FirstName}} {{.Order.BillingAddress.LastName}}</strong></p>
            {{if .Order.BillingAddress.Company}}<p>{{.Order.BillingAddress.Company}}</p>{{end}}
            <p>{{.Order.BillingAddress.AddressLine1}}</p>
            {{if .Order.BillingAddress.AddressLine2}}<p>{{.Order.BillingAddress.AddressLine2}}</p>{{end}}
            <p>{{.Order.BillingAddress.City}}, {{.Order.BillingAddress.State}} {{.Order.BillingAddress.PostalCode}}</p>
            <p>{{.Order.BillingAddress.Country}}</p>
            {{if .BuyerEmail}}<p>Email: {{.BuyerEmail}}</p>{{end}}
        </div>
        <div>
            <div class="section-title">Ship To:</div>
            <p><strong>{{.Order.ShippingAddress.FirstName}} {{.Order.ShippingAddress.LastName}}</strong></p>
            {{if .Order.ShippingAddress.Company}}<p>{{.Order.ShippingAddress.Company}}</p>{{end}}
            <p>{{.Order.ShippingAddress.AddressLine1}}</p>
            {{if .Order.ShippingAddress.AddressLine2}}<p>{{.Order.ShippingAddress.AddressLine2}}</p>{{end}}
            <p>{{.Order.ShippingAddress.City}}, {{.Order.ShippingAddress.State}} {{.Order.ShippingAddress.PostalCode}}</p>
            <p>{{.Order.ShippingAddress.Country}}</p>
        </div>
    </div>

    <table class="items">
        <thead>
            <tr>
                <th>Item</th>
                <th class="num">Qty</th>
                <th class="num">Price</th>
                <th class="num">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Lines}}
            <tr>
                <td>
                    <strong>{{.Name}}</strong>
                    {{if .Variant}}<br><small>{{.Variant}}</small>{{end}}
                </td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">{{.UnitPrice}}</td>
                <td class="num">{{.LineTotal}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr><td class="label">Subtotal:</td><td class="amount">{{.Subtotal}}</td></tr>
            {{if .Order.DiscountAmount}}<tr><td class="label">Discount:</td><td class="amount">-{{.Discount}}</td></tr>{{end}}
            <tr><td class="label">Shipping:</td><td class="amount">{{.Shipping}}</td></tr>
            <tr><td class="label">Tax:</td><td class="amount">{{.Tax}}</td></tr>
            <tr class="total-row"><td class="label">Total:</td><td class="amount">{{.Total}}</td></tr>
        </table>
    </div>

    <div style="clear: both;"></div>

    <div class="footer">
        <p>Thank you for your order!</p>
        <p>Questions about this invoice? Contact us at {{.Company.Email}}</p>
    </div>
</body>
</html>
`
