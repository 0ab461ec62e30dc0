package repository

import (
	"context"

	"github.com/youneszerotohero-coder/mb-backend/internal/cart/domain"
)

// CartRepository defines the interface for cart persistence operations.
type CartRepository interface {
	// Get retrieves a cart by session ID.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// Save persists a cart unconditionally.
	Save(ctx context.Context, cart *domain.Cart) error

	// SaveIfVersion persists the cart only if the stored version still equals
	// expectedVersion, bumping the version on success. Returns false when the
	// cart was modified concurrently.
	SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) (bool, error)

	// Delete removes a cart by session ID.
	Delete(ctx context.Context, sessionID string) error
}
