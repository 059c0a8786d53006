// internal/domain/pricing/calculator_test.go
package pricing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineTotal(t *testing.T) {
	assert.Equal(t, int64(600), LineTotal(Line{UnitPrice: 200, Quantity: 3}))
}

func TestSubtotal(t *testing.T) {
	lines := []Line{
		{UnitPrice: 100, Quantity: 2},
		{UnitPrice: 250, Quantity: 1},
	}
	assert.Equal(t, int64(450), Subtotal(lines))
}

func TestComputeScenario(t *testing.T) {
	// Cart of 2 x 100 with shipping 20 and no tax or discount
	totals := Compute([]Line{{UnitPrice: 100, Quantity: 2}}, 0, 20, 0)

	assert.Equal(t, int64(200), totals.Subtotal)
	assert.Equal(t, int64(220), totals.Total)
}

func TestComputeTotalInvariant(t *testing.T) {
	// Total == Subtotal - Discount + Shipping + Tax for random line sets
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 500; i++ {
		lines := make([]Line, 1+rng.Intn(10))
		for j := range lines {
			lines[j] = Line{
				UnitPrice: int64(rng.Intn(100000)),
				Quantity:  1 + rng.Intn(20),
			}
		}
		discount := int64(rng.Intn(5000))
		shipping := int64(rng.Intn(3000))
		tax := int64(rng.Intn(20000))

		totals := Compute(lines, discount, shipping, tax)
		assert.Equal(t, totals.Subtotal-totals.Discount+totals.Shipping+totals.Tax, totals.Total)
		assert.Equal(t, Subtotal(lines), totals.Subtotal)
	}
}

func TestFlatRateShipping(t *testing.T) {
	calc := FlatRateShipping()
	assert.Equal(t, int64(999), calc("standard", nil))
	assert.Equal(t, int64(1999), calc("express", nil))
	assert.Equal(t, int64(2999), calc("overnight", nil))
	assert.Equal(t, int64(999), calc("unknown", nil))
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, int64(0), ZeroTax()(10000, "US"))
	assert.Equal(t, int64(0), NoDiscount()(1, 10000))
}
