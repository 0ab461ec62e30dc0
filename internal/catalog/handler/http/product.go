package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/youneszerotohero-coder/mb-backend/internal/catalog/domain"
	"github.com/youneszerotohero-coder/mb-backend/internal/catalog/repository"
	"github.com/youneszerotohero-coder/mb-backend/internal/catalog/service"
	"github.com/youneszerotohero-coder/mb-backend/pkg/httputil"
	"github.com/youneszerotohero-coder/mb-backend/pkg/validator"
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// SizeInput mirrors domain.Size and accepts both the bare-string and object
// encodings in request bodies.
type SizeInput = domain.Size

// ColorInput mirrors domain.Color and accepts both encodings.
type ColorInput = domain.Color

// CreateProductRequest is the JSON request body for creating a product.
type CreateProductRequest struct {
	Name           string       `json:"name" validate:"required,min=1,max=500"`
	SKU            string       `json:"sku" validate:"required,min=1,max=100"`
	Brand          string       `json:"brand" validate:"max=200"`
	CategoryID     *string      `json:"category_id" validate:"omitempty,uuid"`
	Price          int64        `json:"price" validate:"gte=0"`
	Cost           int64        `json:"cost" validate:"gte=0"`
	CompareAtPrice *int64       `json:"compare_at_price" validate:"omitempty,gte=0"`
	StockQuantity  int          `json:"stock_quantity" validate:"gte=0"`
	IsActive       bool         `json:"is_active"`
	IsFeatured     bool         `json:"is_featured"`
	Sizes          []SizeInput  `json:"sizes"`
	Colors         []ColorInput `json:"colors"`
}

// UpdateProductRequest is the JSON request body for updating a product.
type UpdateProductRequest struct {
	Name           *string      `json:"name" validate:"omitempty,min=1,max=500"`
	SKU            *string      `json:"sku" validate:"omitempty,min=1,max=100"`
	Brand          *string      `json:"brand" validate:"omitempty,max=200"`
	CategoryID     *string      `json:"category_id" validate:"omitempty,uuid"`
	Price          *int64       `json:"price" validate:"omitempty,gte=0"`
	Cost           *int64       `json:"cost" validate:"omitempty,gte=0"`
	CompareAtPrice *int64       `json:"compare_at_price" validate:"omitempty,gte=0"`
	StockQuantity  *int         `json:"stock_quantity" validate:"omitempty,gte=0"`
	IsActive       *bool        `json:"is_active"`
	IsFeatured     *bool        `json:"is_featured"`
	Sizes          []SizeInput  `json:"sizes"`
	Colors         []ColorInput `json:"colors"`
}

// AdjustStockRequest is the JSON request body for a stock adjustment.
type AdjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// ReplaceImagesRequest is the JSON request body for replacing product images.
type ReplaceImagesRequest struct {
	Images []ImageInput `json:"images" validate:"dive"`
}

// ImageInput describes one image in a ReplaceImagesRequest.
type ImageInput struct {
	URL       string `json:"url" validate:"required,url"`
	AltText   string `json:"alt_text" validate:"max=500"`
	SortOrder int    `json:"sort_order" validate:"gte=0"`
	IsPrimary bool   `json:"is_primary"`
}

// --- Handlers ---

// QueryCatalog handles GET /api/v1/catalog/products
// @Summary Query the storefront catalog
// @Description Returns one page of active products matching the filters. Size,
// color, and category selections accept comma-separated values.
// @Tags catalog
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(12)
// @Param search query string false "Search over name, brand, category, and SKU"
// @Param min_price query int false "Minimum price in cents"
// @Param max_price query int false "Maximum price in cents"
// @Param sizes query string false "Comma-separated size tokens"
// @Param colors query string false "Comma-separated color tokens"
// @Param categories query string false "Comma-separated category names or IDs"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/catalog/products [get]
func (h *ProductHandler) QueryCatalog(w http.ResponseWriter, r *http.Request) {
	query := service.CatalogQuery{Page: 1}

	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "page must be a valid integer"},
			})
			return
		}
		query.Page = page
	}
	if v := q.Get("per_page"); v != "" {
		perPage, err := strconv.Atoi(v)
		if err != nil || perPage < 1 || perPage > 100 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "per_page must be a valid integer between 1 and 100"},
			})
			return
		}
		query.PerPage = perPage
	}

	query.Filter.SearchTerm = q.Get("search")
	query.Filter.Sizes = splitTokens(q.Get("sizes"))
	query.Filter.Colors = splitTokens(q.Get("colors"))
	query.Filter.Categories = splitTokens(q.Get("categories"))

	if v := q.Get("min_price"); v != "" {
		price, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "min_price must be a valid number"},
			})
			return
		}
		query.Filter.PriceMin = &price
	}
	if v := q.Get("max_price"); v != "" {
		price, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "max_price must be a valid number"},
			})
			return
		}
		query.Filter.PriceMax = &price
	}

	page, err := h.service.QueryCatalog(r.Context(), query)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: page})
}

// ListProducts handles GET /api/v1/products
// @Summary List products for the back office
// @Description Returns a paginated product list with optional filtering
// @Tags products
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 100)" default(20)
// @Param category_id query string false "Filter by category UUID"
// @Param search query string false "Search over name, brand, category, and SKU"
// @Param is_active query bool false "Filter by active flag"
// @Param is_featured query bool false "Filter by featured flag"
// @Param min_price query int false "Minimum price in cents"
// @Param max_price query int false "Maximum price in cents"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/products [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := repository.ProductFilter{
		Page:    1,
		PerPage: 20,
	}

	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "page must be a valid positive integer"},
			})
			return
		}
		filter.Page = page
	}
	if v := q.Get("per_page"); v != "" {
		perPage, err := strconv.Atoi(v)
		if err != nil || perPage < 1 || perPage > 100 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "per_page must be a valid integer between 1 and 100"},
			})
			return
		}
		filter.PerPage = perPage
	}
	if v := q.Get("category_id"); v != "" {
		filter.CategoryID = &v
	}
	if v := q.Get("search"); v != "" {
		filter.Search = &v
	}
	if v := q.Get("is_active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "is_active must be true or false"},
			})
			return
		}
		filter.IsActive = &active
	}
	if v := q.Get("is_featured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "is_featured must be true or false"},
			})
			return
		}
		filter.IsFeatured = &featured
	}
	if v := q.Get("min_price"); v != "" {
		price, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "min_price must be a valid number"},
			})
			return
		}
		filter.MinPrice = &price
	}
	if v := q.Get("max_price"); v != "" {
		price, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "max_price must be a valid number"},
			})
			return
		}
		filter.MaxPrice = &price
	}

	products, total, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(products, total, filter.Page, filter.PerPage))
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.service.GetProduct(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// CreateProduct handles POST /api/v1/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := &service.CreateProductInput{
		Name:           req.Name,
		SKU:            req.SKU,
		Brand:          req.Brand,
		CategoryID:     req.CategoryID,
		Price:          req.Price,
		Cost:           req.Cost,
		CompareAtPrice: req.CompareAtPrice,
		StockQuantity:  req.StockQuantity,
		IsActive:       req.IsActive,
		IsFeatured:     req.IsFeatured,
		Sizes:          req.Sizes,
		Colors:         req.Colors,
	}

	product, err := h.service.CreateProduct(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// UpdateProduct handles PUT /api/v1/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := &service.UpdateProductInput{
		Name:           req.Name,
		SKU:            req.SKU,
		Brand:          req.Brand,
		CategoryID:     req.CategoryID,
		Price:          req.Price,
		Cost:           req.Cost,
		CompareAtPrice: req.CompareAtPrice,
		StockQuantity:  req.StockQuantity,
		IsActive:       req.IsActive,
		IsFeatured:     req.IsFeatured,
		Sizes:          req.Sizes,
		Colors:         req.Colors,
	}

	product, err := h.service.UpdateProduct(r.Context(), id.String(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": id.String(), "status": "deleted"}})
}

// AdjustStock handles POST /api/v1/products/{id}/stock
func (h *ProductHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req AdjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	remaining, err := h.service.AdjustStock(r.Context(), id.String(), req.Delta)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"product_id":     id.String(),
		"stock_quantity": remaining,
	}})
}

// ReplaceImages handles PUT /api/v1/products/{id}/images
func (h *ProductHandler) ReplaceImages(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req ReplaceImagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	images := make([]domain.ProductImage, len(req.Images))
	for i, img := range req.Images {
		images[i] = domain.ProductImage{
			URL:       img.URL,
			AltText:   img.AltText,
			SortOrder: img.SortOrder,
			IsPrimary: img.IsPrimary,
		}
	}

	if err := h.service.ReplaceImages(r.Context(), id.String(), images); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"product_id": id.String(),
		"count":      len(images),
	}})
}

// splitTokens splits a comma-separated query value, dropping empty parts.
func splitTokens(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
