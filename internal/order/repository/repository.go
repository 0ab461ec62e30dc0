package repository

import (
	"context"
	"time"

	"github.com/youneszerotohero-coder/mb-backend/internal/order/domain"
)

// OrderFilter holds optional filters for listing orders.
type OrderFilter struct {
	Status      *string
	Source      *string
	Search      *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Page        int
	PerPage     int
}

// OrderRepository defines the persistence operations for orders.
type OrderRepository interface {
	// Create persists an order and its items atomically.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID returns an order with its items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List returns orders matching the filter with the total count.
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)

	// UpdateStatus changes an order's status. The reason is stored when the
	// target status is cancelled.
	UpdateStatus(ctx context.Context, id, status, reason string) error
}
