package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/youneszerotohero-coder/mb-backend/internal/catalog/domain"
	"github.com/youneszerotohero-coder/mb-backend/internal/catalog/event"
	"github.com/youneszerotohero-coder/mb-backend/internal/catalog/repository"
	"github.com/youneszerotohero-coder/mb-backend/internal/catalog/service"
	apperrors "github.com/youneszerotohero-coder/mb-backend/pkg/errors"
	pkgkafka "github.com/youneszerotohero-coder/mb-backend/pkg/kafka"
)

// =============================================================================
// Mock ProductRepository
// =============================================================================

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepo) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductRepo) AdjustStock(ctx context.Context, id string, delta int) (int, error) {
	args := m.Called(ctx, id, delta)
	return args.Int(0), args.Error(1)
}

func (m *mockProductRepo) ReplaceImages(ctx context.Context, productID string, images []domain.ProductImage) error {
	args := m.Called(ctx, productID, images)
	return args.Error(0)
}

// =============================================================================
// Helpers
// =============================================================================

func newTestRouter(repo *mockProductRepo) chi.Router {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:9092"}), logger)
	producer := event.NewProducer(kafkaProducer, logger)
	productSvc := service.NewProductService(repo, producer, logger)

	r := chi.NewRouter()
	handler := NewProductHandler(productSvc, logger)
	r.Get("/api/v1/catalog/products", handler.QueryCatalog)
	r.Get("/api/v1/products", handler.ListProducts)
	r.Get("/api/v1/products/{id}", handler.GetProduct)
	r.Post("/api/v1/products", handler.CreateProduct)
	r.Post("/api/v1/products/{id}/stock", handler.AdjustStock)
	return r
}

const productID = "6f1a7c2e-9b0d-4e3a-8f5c-1d2e3f4a5b6c"

// =============================================================================
// Tests
// =============================================================================

func TestQueryCatalog_ParsesFiltersAndPaginates(t *testing.T) {
	repo := new(mockProductRepo)
	router := newTestRouter(repo)

	products := []domain.Product{
		{ID: "p1", Name: "Tote Bag", Price: 2500, IsActive: true, Sizes: []domain.Size{{Value: "M"}}},
		{ID: "p2", Name: "Tote Bag XL", Price: 3000, IsActive: true, Sizes: []domain.Size{{Value: "XL"}}},
	}

	repo.On("List", mock.Anything, mock.MatchedBy(func(f repository.ProductFilter) bool {
		return f.Search != nil && *f.Search == "tote" && f.PerPage == 0
	})).Return(products, 2, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?search=tote&sizes=m,xl&page=1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Items      []domain.Product `json:"items"`
			Number     int              `json:"number"`
			TotalPages int              `json:"total_pages"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data.Items, 2)
	assert.Equal(t, 1, body.Data.Number)
	assert.Equal(t, 1, body.Data.TotalPages)
	repo.AssertExpectations(t)
}

func TestQueryCatalog_InvalidPage(t *testing.T) {
	repo := new(mockProductRepo)
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?page=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "List")
}

func TestQueryCatalog_PerPageOutOfRange(t *testing.T) {
	repo := new(mockProductRepo)
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?per_page=500", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "List")
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := new(mockProductRepo)
	router := newTestRouter(repo)

	repo.On("GetByID", mock.Anything, productID).Return(nil, apperrors.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProduct_InvalidID(t *testing.T) {
	repo := new(mockProductRepo)
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "GetByID")
}

func TestCreateProduct_Success(t *testing.T) {
	repo := new(mockProductRepo)
	router := newTestRouter(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	payload := map[string]any{
		"name":           "Canvas Tote Bag",
		"sku":            "TOTE-001",
		"price":          2500,
		"cost":           1100,
		"stock_quantity": 8,
		"is_active":      true,
		"sizes":          []any{"M", map[string]any{"value": "L"}},
		"colors":         []any{"Navy"},
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data domain.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "TOTE-001", resp.Data.SKU)
	assert.Equal(t, []string{"m", "l"}, resp.Data.SizeTokens())
	repo.AssertExpectations(t)
}

func TestCreateProduct_ValidationError(t *testing.T) {
	repo := new(mockProductRepo)
	router := newTestRouter(repo)

	body, _ := json.Marshal(map[string]any{"sku": "X-1", "price": 100})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Create")
}

func TestAdjustStock_Success(t *testing.T) {
	repo := new(mockProductRepo)
	router := newTestRouter(repo)

	repo.On("AdjustStock", mock.Anything, productID, -2).Return(6, nil)

	body, _ := json.Marshal(map[string]any{"delta": -2})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/"+productID+"/stock", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			StockQuantity int `json:"stock_quantity"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 6, resp.Data.StockQuantity)
	repo.AssertExpectations(t)
}
