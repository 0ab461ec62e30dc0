package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youneszerotohero-coder/mb-backend/internal/catalog/domain"
	"github.com/youneszerotohero-coder/mb-backend/internal/catalog/repository"
	"github.com/youneszerotohero-coder/mb-backend/pkg/database"
	apperrors "github.com/youneszerotohero-coder/mb-backend/pkg/errors"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return mock
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func int64Ptr(n int64) *int64 { return &n }

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

var productCols = []string{
	"id", "name", "sku", "brand", "category_id", "category_name",
	"price", "cost", "compare_at_price", "stock_quantity", "is_active", "is_featured",
	"sizes", "colors", "created_at", "updated_at",
}

var productColsWithCount = append(append([]string{}, productCols...), "total_count")

var imageCols = []string{"id", "product_id", "url", "alt_text", "sort_order", "is_primary"}

func testProduct() domain.Product {
	return domain.Product{
		ID:            "prod-1",
		Name:          "Canvas Tote Bag",
		SKU:           "TOTE-001",
		Brand:         "Northwind",
		CategoryID:    strPtr("cat-1"),
		CategoryName:  "Bags",
		Price:         2500,
		Cost:          1100,
		StockQuantity: 8,
		IsActive:      true,
		Sizes:         []domain.Size{{Value: "M"}, {Value: "L"}},
		Colors:        []domain.Color{{Name: "Navy", HexCode: "#001f3f"}},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func productRow(p domain.Product) []any {
	sizesJSON, _ := json.Marshal(p.Sizes)
	colorsJSON, _ := json.Marshal(p.Colors)
	return []any{
		p.ID, p.Name, p.SKU, p.Brand, p.CategoryID, p.CategoryName,
		p.Price, p.Cost, p.CompareAtPrice, p.StockQuantity, p.IsActive, p.IsFeatured,
		sizesJSON, colorsJSON, p.CreatedAt, p.UpdatedAt,
	}
}

func TestProductRepository_Create_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := testProduct()
	sizesJSON, _ := json.Marshal(p.Sizes)
	colorsJSON, _ := json.Marshal(p.Colors)

	mock.ExpectExec("INSERT INTO products").
		WithArgs(
			p.ID, p.Name, p.SKU, p.Brand, p.CategoryID, p.Price, p.Cost, p.CompareAtPrice,
			p.StockQuantity, p.IsActive, p.IsFeatured, sizesJSON, colorsJSON, p.CreatedAt, p.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), &p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Create_DuplicateSKU(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := testProduct()
	mock.ExpectExec("INSERT INTO products").
		WillReturnError(errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err := repo.Create(context.Background(), &p)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := testProduct()
	mock.ExpectQuery("SELECT .+ FROM products p LEFT JOIN categories c ON c.id = p.category_id WHERE p.id").
		WithArgs(p.ID).
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(productRow(p)...))
	mock.ExpectQuery("SELECT .+ FROM product_images WHERE product_id").
		WithArgs(p.ID).
		WillReturnRows(
			pgxmock.NewRows(imageCols).
				AddRow("img-1", p.ID, "https://cdn.example.com/tote.jpg", "tote", 0, true),
		)

	result, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, result.ID)
	assert.Equal(t, p.SKU, result.SKU)
	assert.Equal(t, "Bags", result.CategoryName)
	assert.Equal(t, []domain.Size{{Value: "M"}, {Value: "L"}}, result.Sizes)
	require.Len(t, result.Images, 1)
	assert.True(t, result.Images[0].IsPrimary)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_LegacyStringVariants(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := testProduct()
	row := productRow(p)
	row[12] = []byte(`["M"," L "]`)
	row[13] = []byte(`["Navy"]`)

	mock.ExpectQuery("SELECT .+ FROM products p LEFT JOIN categories c ON c.id = p.category_id WHERE p.id").
		WithArgs(p.ID).
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(row...))
	mock.ExpectQuery("SELECT .+ FROM product_images WHERE product_id").
		WithArgs(p.ID).
		WillReturnRows(pgxmock.NewRows(imageCols))

	result, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"m", "l"}, result.SizeTokens())
	assert.Equal(t, []string{"navy"}, result.ColorTokens())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM products p LEFT JOIN categories c ON c.id = p.category_id WHERE p.id").
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByID(context.Background(), "missing-id")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := testProduct()
	row := append(productRow(p), 1) // total_count = 1

	mock.ExpectQuery("SELECT .+ FROM products p").
		WithArgs(20, 0). // limit, offset
		WillReturnRows(pgxmock.NewRows(productColsWithCount).AddRow(row...))

	products, total, err := repo.List(context.Background(), repository.ProductFilter{Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, p.ID, products[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_WithFilters(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := testProduct()
	row := append(productRow(p), 1)

	filter := repository.ProductFilter{
		Search:   strPtr("tote"),
		IsActive: boolPtr(true),
		MinPrice: int64Ptr(1000),
		MaxPrice: int64Ptr(5000),
		Page:     1,
		PerPage:  12,
	}

	mock.ExpectQuery("SELECT .+ FROM products p").
		WithArgs("%tote%", true, int64(1000), int64(5000), 12, 0).
		WillReturnRows(pgxmock.NewRows(productColsWithCount).AddRow(row...))

	products, total, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_Unpaged(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := testProduct()
	rows := pgxmock.NewRows(productColsWithCount).
		AddRow(append(productRow(p), 2)...)
	p2 := testProduct()
	p2.ID = "prod-2"
	p2.SKU = "TOTE-002"
	rows.AddRow(append(productRow(p2), 2)...)

	mock.ExpectQuery("SELECT .+ FROM products p").
		WillReturnRows(rows)

	products, total, err := repo.List(context.Background(), repository.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, 2, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_Empty(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM products p").
		WithArgs(20, 0).
		WillReturnRows(pgxmock.NewRows(productColsWithCount))

	products, total, err := repo.List(context.Background(), repository.ProductFilter{Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := testProduct()
	mock.ExpectExec("UPDATE products").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &p)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectExec("DELETE FROM products").
		WithArgs("prod-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "prod-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_AdjustStock(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("UPDATE products SET stock_quantity = GREATEST").
		WithArgs(-3, pgxmock.AnyArg(), "prod-1").
		WillReturnRows(pgxmock.NewRows([]string{"stock_quantity"}).AddRow(5))

	remaining, err := repo.AdjustStock(context.Background(), "prod-1", -3)
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_AdjustStock_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("UPDATE products SET stock_quantity = GREATEST").
		WithArgs(1, pgxmock.AnyArg(), "missing-id").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.AdjustStock(context.Background(), "missing-id", 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_ReplaceImages(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	images := []domain.ProductImage{
		{ID: "img-1", URL: "https://cdn.example.com/a.jpg", SortOrder: 0, IsPrimary: true},
		{ID: "img-2", URL: "https://cdn.example.com/b.jpg", SortOrder: 1},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM product_images").
		WithArgs("prod-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("INSERT INTO product_images").
		WithArgs("img-1", "prod-1", images[0].URL, "", 0, true).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO product_images").
		WithArgs("img-2", "prod-1", images[1].URL, "", 1, false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := repo.ReplaceImages(context.Background(), "prod-1", images)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
