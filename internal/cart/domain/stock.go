package domain

// Rejection reasons returned by CanAdd.
const (
	ReasonOutOfStock        = "out of stock"
	ReasonInsufficientStock = "insufficient stock"
)

// StockDecision is the advisory result of a stock guard check. It carries the
// available quantity so callers can build a user-facing message.
type StockDecision struct {
	Allowed   bool   `json:"allowed"`
	Reason    string `json:"reason,omitempty"`
	Available int    `json:"available"`
}

// CanAdd reports whether a line item's quantity may grow by requestedDelta
// given the quantity already in the cart and the known stock. It is consulted
// on every path that increases a quantity (add, increment, scan) and never on
// decrement or remove. It only advises; the caller applies or rejects the
// mutation.
func CanAdd(currentQuantity, requestedDelta, availableStock int) StockDecision {
	if availableStock <= 0 {
		return StockDecision{Reason: ReasonOutOfStock}
	}
	if currentQuantity+requestedDelta > availableStock {
		return StockDecision{Reason: ReasonInsufficientStock, Available: availableStock}
	}
	return StockDecision{Allowed: true, Available: availableStock}
}
