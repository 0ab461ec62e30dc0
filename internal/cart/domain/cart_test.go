package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCart() *Cart {
	return &Cart{
		ID:        "cart-1",
		SessionID: "sess-1",
		Items: []CartItem{
			{ProductID: "p1", Price: 1000, Quantity: 2, SelectedSize: "m", SelectedColor: "navy"},
			{ProductID: "p1", Price: 1000, Quantity: 1, SelectedSize: "l", SelectedColor: "navy"},
			{ProductID: "p2", Price: 500, Quantity: 1},
		},
	}
}

func TestCartSubtotal(t *testing.T) {
	assert.Equal(t, int64(3500), testCart().Subtotal())
	assert.Equal(t, int64(0), (&Cart{}).Subtotal())
}

func TestCartItemCount(t *testing.T) {
	assert.Equal(t, 4, testCart().ItemCount())
}

func TestCartQuantityOf(t *testing.T) {
	cart := testCart()
	assert.Equal(t, 3, cart.QuantityOf("p1"))
	assert.Equal(t, 1, cart.QuantityOf("p2"))
	assert.Equal(t, 0, cart.QuantityOf("p3"))
}

func TestCartFindItemIndex(t *testing.T) {
	cart := testCart()
	assert.Equal(t, 0, cart.FindItemIndex("p1", "M", "Navy"))
	assert.Equal(t, 1, cart.FindItemIndex("p1", "l", "navy"))
	assert.Equal(t, 2, cart.FindItemIndex("p2", "", ""))
	assert.Equal(t, -1, cart.FindItemIndex("p1", "xl", "navy"))
}

func TestCanAdd(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		delta     int
		stock     int
		allowed   bool
		reason    string
		available int
	}{
		{name: "fits in stock", current: 0, delta: 2, stock: 5, allowed: true, available: 5},
		{name: "exactly exhausts stock", current: 3, delta: 2, stock: 5, allowed: true, available: 5},
		{name: "out of stock", current: 0, delta: 1, stock: 0, allowed: false, reason: ReasonOutOfStock},
		{name: "negative stock treated as out of stock", current: 0, delta: 1, stock: -2, allowed: false, reason: ReasonOutOfStock},
		{name: "increment past stock", current: 5, delta: 1, stock: 5, allowed: false, reason: ReasonInsufficientStock, available: 5},
		{name: "bulk add past stock", current: 0, delta: 6, stock: 5, allowed: false, reason: ReasonInsufficientStock, available: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanAdd(tt.current, tt.delta, tt.stock)
			assert.Equal(t, tt.allowed, got.Allowed)
			assert.Equal(t, tt.reason, got.Reason)
			assert.Equal(t, tt.available, got.Available)
		})
	}
}

func TestCanAddIsSideEffectFree(t *testing.T) {
	first := CanAdd(2, 1, 5)
	second := CanAdd(2, 1, 5)
	assert.Equal(t, first, second)
}
