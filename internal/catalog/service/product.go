package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/youneszerotohero-coder/mb-backend/internal/catalog/domain"
	"github.com/youneszerotohero-coder/mb-backend/internal/catalog/event"
	"github.com/youneszerotohero-coder/mb-backend/internal/catalog/repository"
	apperrors "github.com/youneszerotohero-coder/mb-backend/pkg/errors"
)

// ProductService implements the business logic for catalog operations.
type ProductService struct {
	repo     repository.ProductRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, producer *event.Producer, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name           string
	SKU            string
	Brand          string
	CategoryID     *string
	Price          int64
	Cost           int64
	CompareAtPrice *int64
	StockQuantity  int
	IsActive       bool
	IsFeatured     bool
	Sizes          []domain.Size
	Colors         []domain.Color
}

// UpdateProductInput holds the parameters for partially updating a product.
type UpdateProductInput struct {
	Name           *string
	SKU            *string
	Brand          *string
	CategoryID     *string
	Price          *int64
	Cost           *int64
	CompareAtPrice *int64
	StockQuantity  *int
	IsActive       *bool
	IsFeatured     *bool
	Sizes          []domain.Size
	Colors         []domain.Color
}

// CatalogQuery describes a storefront catalog page request.
type CatalogQuery struct {
	Filter          domain.FilterSet
	Page            int
	PerPage         int
	IncludeInactive bool
}

// CreateProduct creates a new product with the given input.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if input.SKU == "" {
		return nil, apperrors.InvalidInput("product sku is required")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}
	if input.Cost < 0 {
		return nil, apperrors.InvalidInput("cost must not be negative")
	}
	if input.StockQuantity < 0 {
		return nil, apperrors.InvalidInput("stock quantity must not be negative")
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:             uuid.New().String(),
		Name:           input.Name,
		SKU:            strings.ToUpper(strings.TrimSpace(input.SKU)),
		Brand:          input.Brand,
		CategoryID:     input.CategoryID,
		Price:          input.Price,
		Cost:           input.Cost,
		CompareAtPrice: input.CompareAtPrice,
		StockQuantity:  input.StockQuantity,
		IsActive:       input.IsActive,
		IsFeatured:     input.IsFeatured,
		Sizes:          input.Sizes,
		Colors:         input.Colors,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("sku", product.SKU),
	)

	return product, nil
}

// GetProduct retrieves a product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// GetProductBySKU retrieves a product by its SKU.
func (s *ProductService) GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	product, err := s.repo.GetBySKU(ctx, strings.ToUpper(strings.TrimSpace(sku)))
	if err != nil {
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return product, nil
}

// QueryCatalog answers a storefront catalog page request. Search and price
// constraints are pushed to the database; size, color, and category
// selections are matched in memory against the normalized variant tokens,
// then the surviving rows are sliced into the requested page.
func (s *ProductService) QueryCatalog(ctx context.Context, q CatalogQuery) (domain.Page[domain.Product], error) {
	filter := q.Filter.Normalize()

	repoFilter := repository.ProductFilter{
		MinPrice: filter.PriceMin,
		MaxPrice: filter.PriceMax,
	}
	if filter.SearchTerm != "" {
		repoFilter.Search = &filter.SearchTerm
	}
	if !q.IncludeInactive {
		active := true
		repoFilter.IsActive = &active
	}

	products, _, err := s.repo.List(ctx, repoFilter)
	if err != nil {
		return domain.Page[domain.Product]{}, fmt.Errorf("query catalog: %w", err)
	}

	matched := products[:0:0]
	for i := range products {
		if filter.Matches(&products[i]) {
			matched = append(matched, products[i])
		}
	}

	size := q.PerPage
	if size <= 0 {
		size = domain.DefaultPageSize
	}
	if size > 100 {
		size = 100
	}

	return domain.Paginate(matched, q.Page, size), nil
}

// ListProducts returns a paginated product list for the back office, using
// database paging.
func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

// UpdateProduct applies partial updates to an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input *UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("product name must not be empty")
		}
		product.Name = *input.Name
	}

	if input.SKU != nil {
		if *input.SKU == "" {
			return nil, apperrors.InvalidInput("product sku must not be empty")
		}
		product.SKU = strings.ToUpper(strings.TrimSpace(*input.SKU))
	}

	if input.Brand != nil {
		product.Brand = *input.Brand
	}

	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}

	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperrors.InvalidInput("price must not be negative")
		}
		product.Price = *input.Price
	}

	if input.Cost != nil {
		if *input.Cost < 0 {
			return nil, apperrors.InvalidInput("cost must not be negative")
		}
		product.Cost = *input.Cost
	}

	if input.CompareAtPrice != nil {
		product.CompareAtPrice = input.CompareAtPrice
	}

	if input.StockQuantity != nil {
		if *input.StockQuantity < 0 {
			return nil, apperrors.InvalidInput("stock quantity must not be negative")
		}
		product.StockQuantity = *input.StockQuantity
	}

	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}

	if input.Sizes != nil {
		product.Sizes = input.Sizes
	}

	if input.Colors != nil {
		product.Colors = input.Colors
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID),
		slog.String("sku", product.SKU),
	)

	return product, nil
}

// DeleteProduct removes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	// Verify the product exists before deleting.
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("get product for delete: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if err := s.producer.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return nil
}

// AdjustStock applies a signed delta to a product's stock, flooring at zero,
// and returns the remaining quantity.
func (s *ProductService) AdjustStock(ctx context.Context, id string, delta int) (int, error) {
	if delta == 0 {
		return 0, apperrors.InvalidInput("stock delta must not be zero")
	}

	remaining, err := s.repo.AdjustStock(ctx, id, delta)
	if err != nil {
		return 0, fmt.Errorf("adjust stock: %w", err)
	}

	if err := s.producer.PublishStockAdjusted(ctx, id, delta, remaining); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish stock.adjusted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "stock adjusted",
		slog.String("product_id", id),
		slog.Int("delta", delta),
		slog.Int("remaining", remaining),
	)

	return remaining, nil
}

// ReplaceImages swaps a product's image set. Exactly one image may be marked
// primary; when none is, the first image becomes primary.
func (s *ProductService) ReplaceImages(ctx context.Context, productID string, images []domain.ProductImage) error {
	if _, err := s.repo.GetByID(ctx, productID); err != nil {
		return fmt.Errorf("get product for images: %w", err)
	}

	primaries := 0
	for i := range images {
		if images[i].ID == "" {
			images[i].ID = uuid.New().String()
		}
		images[i].ProductID = productID
		if images[i].IsPrimary {
			primaries++
		}
	}
	if primaries > 1 {
		return apperrors.InvalidInput("at most one image may be primary")
	}
	if primaries == 0 && len(images) > 0 {
		images[0].IsPrimary = true
	}

	if err := s.repo.ReplaceImages(ctx, productID, images); err != nil {
		return fmt.Errorf("replace images: %w", err)
	}

	s.logger.InfoContext(ctx, "product images replaced",
		slog.String("product_id", productID),
		slog.Int("count", len(images)),
	)

	return nil
}
