// internal/domain/cart/service_test.go
package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anonItem(id string, productID uint, variantID *uint, qty int, price int64) AnonymousCartItem {
	return AnonymousCartItem{
		ItemID:           id,
		ProductID:        productID,
		ProductVariantID: variantID,
		Quantity:         qty,
		Price:            price,
		AddedAt:          time.Now().UTC(),
	}
}

func uintPtr(v uint) *uint { return &v }

func TestUpsertAnonymousItemMergesByProductAndVariant(t *testing.T) {
	anonCart := &AnonymousCart{Token: "t"}

	upsertAnonymousItem(anonCart, anonItem("a", 1, nil, 2, 100))
	upsertAnonymousItem(anonCart, anonItem("b", 1, uintPtr(7), 1, 120))
	upsertAnonymousItem(anonCart, anonItem("c", 1, nil, 3, 110))
	upsertAnonymousItem(anonCart, anonItem("d", 1, uintPtr(7), 4, 120))

	require.Len(t, anonCart.Items, 2)
	assert.Equal(t, 5, anonCart.Items[0].Quantity)
	assert.Equal(t, int64(110), anonCart.Items[0].Price, "merge refreshes display price")
	assert.Equal(t, 5, anonCart.Items[1].Quantity)
}

func TestUpsertAnonymousItemDistinctVariantsStaySeparate(t *testing.T) {
	anonCart := &AnonymousCart{Token: "t"}

	upsertAnonymousItem(anonCart, anonItem("a", 1, uintPtr(1), 1, 100))
	upsertAnonymousItem(anonCart, anonItem("b", 1, uintPtr(2), 1, 100))
	upsertAnonymousItem(anonCart, anonItem("c", 2, uintPtr(1), 1, 100))

	assert.Len(t, anonCart.Items, 3)
}

func TestRepeatedAddsSumQuantities(t *testing.T) {
	// For any sequence of adds with repeated pairs, one line per distinct
	// pair remains with the summed quantity.
	anonCart := &AnonymousCart{Token: "t"}
	adds := []int{1, 2, 3, 4, 5}
	total := 0
	for i, qty := range adds {
		upsertAnonymousItem(anonCart, anonItem(string(rune('a'+i)), 42, nil, qty, 100))
		total += qty
	}

	require.Len(t, anonCart.Items, 1)
	assert.Equal(t, total, anonCart.Items[0].Quantity)
}

func TestSetAnonymousItemQuantity(t *testing.T) {
	anonCart := &AnonymousCart{Token: "t"}
	upsertAnonymousItem(anonCart, anonItem("line-1", 1, nil, 2, 100))

	assert.True(t, setAnonymousItemQuantity(anonCart, "line-1", 9))
	assert.Equal(t, 9, anonCart.Items[0].Quantity)
	assert.False(t, setAnonymousItemQuantity(anonCart, "missing", 1))
}

func TestRemoveAnonymousItem(t *testing.T) {
	anonCart := &AnonymousCart{Token: "t"}
	upsertAnonymousItem(anonCart, anonItem("line-1", 1, nil, 2, 100))
	upsertAnonymousItem(anonCart, anonItem("line-2", 2, nil, 1, 50))

	assert.True(t, removeAnonymousItem(anonCart, "line-1"))
	require.Len(t, anonCart.Items, 1)
	assert.Equal(t, "line-2", anonCart.Items[0].ItemID)
	assert.False(t, removeAnonymousItem(anonCart, "line-1"))
}

func TestMergeBuyerLineSumsQuantitiesAndRefreshesPrice(t *testing.T) {
	existing := CartItem{ID: 3, UserID: 9, ProductID: 1, Quantity: 1, Price: 100}

	merged := mergeBuyerLine(&existing, CartItem{UserID: 9, ProductID: 1, Quantity: 2, Price: 120})
	assert.Equal(t, uint(3), merged.ID, "merge keeps the existing row")
	assert.Equal(t, 3, merged.Quantity)
	assert.Equal(t, int64(120), merged.Price)

	fresh := mergeBuyerLine(nil, CartItem{UserID: 9, ProductID: 2, Quantity: 1, Price: 50})
	assert.Equal(t, uint(0), fresh.ID)
	assert.Equal(t, 1, fresh.Quantity)
}

func TestMergeFoldsAnonymousLinesIntoBuyerCart(t *testing.T) {
	// Buyer holds product A qty 1; the anonymous cart holds A qty 2 and
	// B qty 1. After folding each anonymous line through the merge rule the
	// buyer ends with A qty 3 and B qty 1.
	buyerRows := map[uint]CartItem{
		1: {ID: 10, UserID: 9, ProductID: 1, Quantity: 1, Price: 100},
	}
	anonLines := []AnonymousCartItem{
		{ProductID: 1, Quantity: 2, Price: 110},
		{ProductID: 2, Quantity: 1, Price: 50},
	}

	for _, line := range anonLines {
		incoming := CartItem{
			UserID:    9,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		}
		if existing, ok := buyerRows[line.ProductID]; ok {
			buyerRows[line.ProductID] = mergeBuyerLine(&existing, incoming)
		} else {
			buyerRows[line.ProductID] = mergeBuyerLine(nil, incoming)
		}
	}

	require.Len(t, buyerRows, 2)
	assert.Equal(t, 3, buyerRows[1].Quantity)
	assert.Equal(t, uint(10), buyerRows[1].ID, "existing row is updated, not duplicated")
	assert.Equal(t, 1, buyerRows[2].Quantity)
}

func TestCalculateTotals(t *testing.T) {
	items := []LineResponse{
		{Quantity: 2, Price: 100},
		{Quantity: 1, Price: 250},
	}

	totals := calculateTotals(items)
	assert.Equal(t, 2, totals.ItemCount)
	assert.Equal(t, 3, totals.TotalQuantity)
	assert.Equal(t, int64(450), totals.SubTotal)
}

func TestParseBuyerItemID(t *testing.T) {
	id, err := parseBuyerItemID("42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = parseBuyerItemID("not-a-number")
	assert.Error(t, err)
}

func TestSameLine(t *testing.T) {
	item := anonItem("a", 1, uintPtr(5), 1, 100)
	assert.True(t, item.sameLine(1, uintPtr(5)))
	assert.False(t, item.sameLine(1, nil))
	assert.False(t, item.sameLine(1, uintPtr(6)))
	assert.False(t, item.sameLine(2, uintPtr(5)))
}
