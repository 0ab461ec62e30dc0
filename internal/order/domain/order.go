package domain

import "time"

// Order status constants.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// Order source constants. Orders arrive from the storefront website or from
// the in-store point of sale.
const (
	OrderSourceWebsite = "website"
	OrderSourcePOS     = "pos"
)

// Order represents a customer order. Monetary amounts are minor units.
type Order struct {
	ID              string      `json:"id"`
	OrderNumber     string      `json:"order_number"`
	Status          string      `json:"status"`
	Source          string      `json:"source"`
	CustomerName    string      `json:"customer_name"`
	CustomerPhone   string      `json:"customer_phone,omitempty"`
	CustomerAddress string      `json:"customer_address,omitempty"`
	Items           []OrderItem `json:"items"`
	Subtotal        int64       `json:"subtotal"`
	DeliveryFee     int64       `json:"delivery_fee"`
	DiscountAmount  int64       `json:"discount_amount"`
	TotalAmount     int64       `json:"total_amount"`
	Notes           string      `json:"notes,omitempty"`
	CancelledReason string      `json:"cancelled_reason,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem is an immutable line item snapshot taken at order time.
type OrderItem struct {
	ID            string `json:"id"`
	OrderID       string `json:"order_id"`
	ProductID     string `json:"product_id"`
	Name          string `json:"name"`
	SKU           string `json:"sku"`
	Price         int64  `json:"price"`
	Quantity      int    `json:"quantity"`
	SelectedSize  string `json:"selected_size,omitempty"`
	SelectedColor string `json:"selected_color,omitempty"`
}

// LineTotal returns the total price for this line item.
func (i *OrderItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// ValidStatuses returns all valid order statuses.
func ValidStatuses() []string {
	return []string{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
		OrderStatusRefunded,
	}
}

// IsValidStatus checks if a status string is valid.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// ValidSources returns all valid order sources.
func ValidSources() []string {
	return []string{OrderSourceWebsite, OrderSourcePOS}
}

// IsValidSource checks if a source string is valid.
func IsValidSource(source string) bool {
	return source == OrderSourceWebsite || source == OrderSourcePOS
}

// IsTerminal reports whether the order sits in a terminal status.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusRefunded
}

// CanTransitionTo checks if the order may move to the target status. Status
// changes are admin-driven and deliberately permissive: any non-terminal
// order may move to any other status, while delivered and refunded orders
// are frozen.
func (o *Order) CanTransitionTo(target string) bool {
	if !IsValidStatus(target) {
		return false
	}
	if o.IsTerminal() {
		return false
	}
	return target != o.Status
}
