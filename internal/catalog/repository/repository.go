package repository

import (
	"context"

	"github.com/youneszerotohero-coder/mb-backend/internal/catalog/domain"
)

// ProductFilter defines the server-side filter criteria for listing products.
// Size and color constraints are not here: variant selections are matched in
// the service layer against the normalized tokens, after the rows are loaded.
type ProductFilter struct {
	Search     *string
	CategoryID *string
	IsActive   *bool
	IsFeatured *bool
	MinPrice   *int64
	MaxPrice   *int64

	// Page and PerPage apply a LIMIT/OFFSET. A PerPage of zero or less
	// disables paging; the storefront filter path loads all matching rows
	// and slices in memory after variant matching.
	Page    int
	PerPage int
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create inserts a new product into the store.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product with its images by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// GetBySKU retrieves a product by its SKU.
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)

	// List returns products matching the given filter along with the total count.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// Update modifies an existing product in the store.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product from the store by its identifier.
	Delete(ctx context.Context, id string) error

	// AdjustStock applies a signed delta to the product's stock quantity,
	// flooring at zero, and returns the resulting quantity.
	AdjustStock(ctx context.Context, id string, delta int) (int, error)

	// ReplaceImages swaps the product's image set atomically.
	ReplaceImages(ctx context.Context, productID string, images []domain.ProductImage) error
}

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// Create inserts a new category into the store.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Category, error)

	// List returns all categories ordered for display.
	List(ctx context.Context) ([]domain.Category, error)

	// Update modifies an existing category in the store.
	Update(ctx context.Context, category *domain.Category) error

	// Delete removes a category from the store by its identifier.
	Delete(ctx context.Context, id string) error
}
