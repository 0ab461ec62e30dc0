package domain

import (
	"strings"
	"time"
)

// Cart represents a shopping cart, keyed by session.
type Cart struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
	Version   int        `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// CartItem represents a single line item in the cart. Price is a snapshot
// taken at add-time, in minor units.
type CartItem struct {
	ProductID     string `json:"product_id"`
	Name          string `json:"name"`
	SKU           string `json:"sku"`
	Price         int64  `json:"price"`
	Quantity      int    `json:"quantity"`
	SelectedSize  string `json:"selected_size,omitempty"`
	SelectedColor string `json:"selected_color,omitempty"`
	ImageURL      string `json:"image_url,omitempty"`
}

// Subtotal calculates the total price of all items in the cart (in minor units).
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// ItemCount returns the total number of units in the cart.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// QuantityOf returns the total quantity already in the cart for a product,
// across all its variant lines. The stock guard compares this against the
// product-level stock quantity.
func (c *Cart) QuantityOf(productID string) int {
	var qty int
	for _, item := range c.Items {
		if item.ProductID == productID {
			qty += item.Quantity
		}
	}
	return qty
}

// FindItemIndex returns the index of the cart item matching the given product
// and variant selection, or -1 if not found. Variant tokens compare
// case-insensitively.
func (c *Cart) FindItemIndex(productID, selectedSize, selectedColor string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID &&
			strings.EqualFold(c.Items[i].SelectedSize, selectedSize) &&
			strings.EqualFold(c.Items[i].SelectedColor, selectedColor) {
			return i
		}
	}
	return -1
}
