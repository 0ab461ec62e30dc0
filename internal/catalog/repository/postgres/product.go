package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/youneszerotohero-coder/mb-backend/internal/catalog/domain"
	"github.com/youneszerotohero-coder/mb-backend/internal/catalog/repository"
	"github.com/youneszerotohero-coder/mb-backend/pkg/database"
	apperrors "github.com/youneszerotohero-coder/mb-backend/pkg/errors"
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `p.id, p.name, p.sku, p.brand, p.category_id, COALESCE(c.name, ''),
	p.price, p.cost, p.compare_at_price, p.stock_quantity, p.is_active, p.is_featured,
	p.sizes, p.colors, p.created_at, p.updated_at`

// Create inserts a new product into the database.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	sizesJSON, colorsJSON, err := marshalVariants(p)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (id, name, sku, brand, category_id, price, cost, compare_at_price,
			stock_quantity, is_active, is_featured, sizes, colors, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err = r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		p.SKU,
		p.Brand,
		p.CategoryID,
		p.Price,
		p.Cost,
		p.CompareAtPrice,
		p.StockQuantity,
		p.IsActive,
		p.IsFeatured,
		sizesJSON,
		colorsJSON,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "sku", p.SKU)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product with its images by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`, productColumns)

	p, err := r.scanProduct(ctx, query, id)
	if err != nil {
		return nil, err
	}

	if err := r.loadImages(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// GetBySKU retrieves a product by its SKU.
func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.sku = $1`, productColumns)

	return r.scanProduct(ctx, query, sku)
}

// List returns products matching the given filter with the total count.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf(
			"(p.name ILIKE $%d OR p.brand ILIKE $%d OR p.sku ILIKE $%d OR c.name ILIKE $%d)",
			argIndex, argIndex, argIndex, argIndex))
		args = append(args, "%"+*filter.Search+"%")
		argIndex++
	}

	if filter.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", argIndex))
		args = append(args, *filter.CategoryID)
		argIndex++
	}

	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("p.is_active = $%d", argIndex))
		args = append(args, *filter.IsActive)
		argIndex++
	}

	if filter.IsFeatured != nil {
		conditions = append(conditions, fmt.Sprintf("p.is_featured = $%d", argIndex))
		args = append(args, *filter.IsFeatured)
		argIndex++
	}

	if filter.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("p.price >= $%d", argIndex))
		args = append(args, *filter.MinPrice)
		argIndex++
	}

	if filter.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("p.price <= $%d", argIndex))
		args = append(args, *filter.MaxPrice)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Use count(*) OVER() for total count in a single query.
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		%s
		ORDER BY p.created_at DESC`, productColumns, whereClause)

	if filter.PerPage > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PerPage
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, filter.PerPage, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var (
		products   []domain.Product
		totalCount int
	)

	for rows.Next() {
		var (
			p          domain.Product
			sizesJSON  []byte
			colorsJSON []byte
		)

		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.SKU,
			&p.Brand,
			&p.CategoryID,
			&p.CategoryName,
			&p.Price,
			&p.Cost,
			&p.CompareAtPrice,
			&p.StockQuantity,
			&p.IsActive,
			&p.IsFeatured,
			&sizesJSON,
			&colorsJSON,
			&p.CreatedAt,
			&p.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}

		if err := unmarshalVariants(&p, sizesJSON, colorsJSON); err != nil {
			return nil, 0, err
		}

		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, totalCount, nil
}

// Update modifies an existing product in the database.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	sizesJSON, colorsJSON, err := marshalVariants(p)
	if err != nil {
		return err
	}

	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE products
		SET name = $1, sku = $2, brand = $3, category_id = $4, price = $5, cost = $6,
		    compare_at_price = $7, stock_quantity = $8, is_active = $9, is_featured = $10,
		    sizes = $11, colors = $12, updated_at = $13
		WHERE id = $14`

	ct, err := r.pool.Exec(ctx, query,
		p.Name,
		p.SKU,
		p.Brand,
		p.CategoryID,
		p.Price,
		p.Cost,
		p.CompareAtPrice,
		p.StockQuantity,
		p.IsActive,
		p.IsFeatured,
		sizesJSON,
		colorsJSON,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "sku", p.SKU)
		}
		return fmt.Errorf("update product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}

	return nil
}

// Delete removes a product from the database by its ID.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM products WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}

// AdjustStock applies a signed delta to the stock quantity, flooring at zero,
// and returns the resulting quantity.
func (r *ProductRepository) AdjustStock(ctx context.Context, id string, delta int) (int, error) {
	query := `
		UPDATE products
		SET stock_quantity = GREATEST(stock_quantity + $1, 0), updated_at = $2
		WHERE id = $3
		RETURNING stock_quantity`

	var remaining int
	err := r.pool.QueryRow(ctx, query, delta, time.Now().UTC(), id).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NotFound("product", id)
		}
		return 0, fmt.Errorf("adjust stock: %w", err)
	}

	return remaining, nil
}

// ReplaceImages swaps the product's image set inside a transaction.
func (r *ProductRepository) ReplaceImages(ctx context.Context, productID string, images []domain.ProductImage) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM product_images WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete product images: %w", err)
	}

	insert := `
		INSERT INTO product_images (id, product_id, url, alt_text, sort_order, is_primary)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, img := range images {
		if _, err := tx.Exec(ctx, insert,
			img.ID, productID, img.URL, img.AltText, img.SortOrder, img.IsPrimary,
		); err != nil {
			return fmt.Errorf("insert product image: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (r *ProductRepository) loadImages(ctx context.Context, p *domain.Product) error {
	query := `
		SELECT id, product_id, url, alt_text, sort_order, is_primary
		FROM product_images
		WHERE product_id = $1
		ORDER BY sort_order, id`

	rows, err := r.pool.Query(ctx, query, p.ID)
	if err != nil {
		return fmt.Errorf("load product images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img domain.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL, &img.AltText, &img.SortOrder, &img.IsPrimary); err != nil {
			return fmt.Errorf("scan product image: %w", err)
		}
		p.Images = append(p.Images, img)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate product images: %w", err)
	}

	return nil
}

// scanProduct is a helper that executes a query expected to return a single product row.
func (r *ProductRepository) scanProduct(ctx context.Context, query string, args ...any) (*domain.Product, error) {
	var (
		p          domain.Product
		sizesJSON  []byte
		colorsJSON []byte
	)

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID,
		&p.Name,
		&p.SKU,
		&p.Brand,
		&p.CategoryID,
		&p.CategoryName,
		&p.Price,
		&p.Cost,
		&p.CompareAtPrice,
		&p.StockQuantity,
		&p.IsActive,
		&p.IsFeatured,
		&sizesJSON,
		&colorsJSON,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	if err := unmarshalVariants(&p, sizesJSON, colorsJSON); err != nil {
		return nil, err
	}

	return &p, nil
}

func marshalVariants(p *domain.Product) (sizes, colors []byte, err error) {
	sizes, err = json.Marshal(p.Sizes)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal sizes: %w", err)
	}
	colors, err = json.Marshal(p.Colors)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal colors: %w", err)
	}
	return sizes, colors, nil
}

// unmarshalVariants decodes the sizes and colors JSONB columns. Legacy rows
// may hold bare strings instead of objects; domain.Size and domain.Color
// accept both encodings.
func unmarshalVariants(p *domain.Product, sizesJSON, colorsJSON []byte) error {
	if sizesJSON != nil {
		if err := json.Unmarshal(sizesJSON, &p.Sizes); err != nil {
			return fmt.Errorf("unmarshal sizes: %w", err)
		}
	}
	if colorsJSON != nil {
		if err := json.Unmarshal(colorsJSON, &p.Colors); err != nil {
			return fmt.Errorf("unmarshal colors: %w", err)
		}
	}
	return nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
