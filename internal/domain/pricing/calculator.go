// internal/domain/pricing/calculator.go
package pricing

// Line is one order line as seen by the calculator: the re-resolved unit
// price and the quantity being purchased.
type Line struct {
	UnitPrice int64
	Quantity  int
}

// Totals is the full pricing breakdown for a checkout, in cents
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Shipping int64 `json:"shipping"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// ShippingCalculator computes the shipping cost for a method and subtotal
type ShippingCalculator func(method string, lines []Line) int64

// TaxCalculator computes tax on the given taxable amount
type TaxCalculator func(taxable int64, country string) int64

// DiscountProvider supplies the discount for a buyer's checkout; zero unless
// a promotion applies
type DiscountProvider func(buyerID uint, subtotal int64) int64

// LineTotal returns unit price times quantity
func LineTotal(l Line) int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Subtotal sums all line totals
func Subtotal(lines []Line) int64 {
	var subtotal int64
	for _, l := range lines {
		subtotal += LineTotal(l)
	}
	return subtotal
}

// Compute assembles the full breakdown. The invariant
// Total == Subtotal - Discount + Shipping + Tax holds exactly.
func Compute(lines []Line, discount, shipping, tax int64) Totals {
	subtotal := Subtotal(lines)
	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal - discount + shipping + tax,
	}
}

// FlatRateShipping returns the default shipping calculator with a flat rate
// per method
func FlatRateShipping() ShippingCalculator {
	return func(method string, lines []Line) int64 {
		switch method {
		case "standard":
			return 999
		case "express":
			return 1999
		case "overnight":
			return 2999
		default:
			return 999
		}
	}
}

// ZeroTax returns the default tax calculator; the real engine is an external
// collaborator injected at wiring time
func ZeroTax() TaxCalculator {
	return func(taxable int64, country string) int64 {
		return 0
	}
}

// NoDiscount returns the default promotion provider
func NoDiscount() DiscountProvider {
	return func(buyerID uint, subtotal int64) int64 {
		return 0
	}
}
