package domain

// Totals is the monetary breakdown of an order, in minor units.
type Totals struct {
	Subtotal    int64 `json:"subtotal"`
	DeliveryFee int64 `json:"delivery_fee"`
	Discount    int64 `json:"discount"`
	Total       int64 `json:"total"`
}

// ComputeTotals derives the order totals from its line items, a delivery fee,
// and a discount. The discount is clamped into [0, subtotal+deliveryFee], so
// total = subtotal + deliveryFee - discount always holds and never goes
// negative; the stored discount is the amount actually granted.
func ComputeTotals(items []OrderItem, deliveryFee, discount int64) Totals {
	var subtotal int64
	for i := range items {
		subtotal += items[i].LineTotal()
	}

	if deliveryFee < 0 {
		deliveryFee = 0
	}
	if discount < 0 {
		discount = 0
	}
	if discount > subtotal+deliveryFee {
		discount = subtotal + deliveryFee
	}

	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Discount:    discount,
		Total:       subtotal + deliveryFee - discount,
	}
}
