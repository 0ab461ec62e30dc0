package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/youneszerotohero-coder/mb-backend/internal/campaign/repository"
	"github.com/youneszerotohero-coder/mb-backend/internal/campaign/service"
	"github.com/youneszerotohero-coder/mb-backend/pkg/httputil"
	"github.com/youneszerotohero-coder/mb-backend/pkg/validator"
)

// CampaignHandler handles HTTP requests for campaign endpoints.
type CampaignHandler struct {
	service *service.CampaignService
	logger  *slog.Logger
}

// NewCampaignHandler creates a new campaign HTTP handler.
func NewCampaignHandler(svc *service.CampaignService, logger *slog.Logger) *CampaignHandler {
	return &CampaignHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateCampaignRequest is the JSON request body for creating a campaign.
type CreateCampaignRequest struct {
	Name       string     `json:"name" validate:"required,min=1,max=300"`
	Platform   string     `json:"platform" validate:"max=100"`
	Cost       int64      `json:"cost" validate:"gte=0"`
	StartDate  time.Time  `json:"start_date" validate:"required"`
	EndDate    *time.Time `json:"end_date"`
	IsActive   bool       `json:"is_active"`
	ProductIDs []string   `json:"product_ids" validate:"dive,uuid"`
}

// UpdateCampaignRequest is the JSON request body for updating a campaign.
type UpdateCampaignRequest struct {
	Name      *string    `json:"name" validate:"omitempty,min=1,max=300"`
	Platform  *string    `json:"platform" validate:"omitempty,max=100"`
	Cost      *int64     `json:"cost" validate:"omitempty,gte=0"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	ClearEnd  bool       `json:"clear_end"`
	IsActive  *bool      `json:"is_active"`
}

// LinkProductRequest is the JSON request body for linking a product.
type LinkProductRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

// ProductMetricsInput describes one product's counters in a performance update.
type ProductMetricsInput struct {
	ProductID   string `json:"product_id" validate:"required,uuid"`
	Impressions int    `json:"impressions" validate:"gte=0"`
	Clicks      int    `json:"clicks" validate:"gte=0"`
	Conversions int    `json:"conversions" validate:"gte=0"`
	Revenue     int64  `json:"revenue" validate:"gte=0"`
}

// RecordPerformanceRequest is the JSON request body for a metric rollup update.
type RecordPerformanceRequest struct {
	Products []ProductMetricsInput `json:"products" validate:"required,min=1,dive"`
}

// --- Handlers ---

// ListCampaigns handles GET /api/v1/campaigns
// @Summary List campaigns
// @Description Returns a paginated campaign list with aggregated performance
// @Tags campaigns
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 100)" default(20)
// @Param is_active query bool false "Filter by active flag"
// @Param search query string false "Search over name and platform"
// @Param running_at query string false "Keep only campaigns running at this instant (RFC 3339)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/campaigns [get]
func (h *CampaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	filter := repository.CampaignFilter{
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
	if v := q.Get("search"); v != "" {
		filter.Search = &v
	}
	if v := q.Get("running_at"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "running_at must be an RFC 3339 timestamp"},
			})
			return
		}
		filter.RunningAt = &ts
	}

	campaigns, total, err := h.service.ListCampaigns(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(campaigns, total, filter.Page, filter.PerPage))
}

// GetCampaign handles GET /api/v1/campaigns/{id}
func (h *CampaignHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	campaign, err := h.service.GetCampaign(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: campaign})
}

// CreateCampaign handles POST /api/v1/campaigns
func (h *CampaignHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateCampaignRequest
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

	campaign, err := h.service.CreateCampaign(r.Context(), &service.CreateCampaignInput{
		Name:       req.Name,
		Platform:   req.Platform,
		Cost:       req.Cost,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		IsActive:   req.IsActive,
		ProductIDs: req.ProductIDs,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: campaign})
}

// UpdateCampaign handles PUT /api/v1/campaigns/{id}
func (h *CampaignHandler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateCampaignRequest
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

	campaign, err := h.service.UpdateCampaign(r.Context(), id.String(), &service.UpdateCampaignInput{
		Name:      req.Name,
		Platform:  req.Platform,
		Cost:      req.Cost,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		ClearEnd:  req.ClearEnd,
		IsActive:  req.IsActive,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: campaign})
}

// DeleteCampaign handles DELETE /api/v1/campaigns/{id}
func (h *CampaignHandler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteCampaign(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": id.String(), "status": "deleted"}})
}

// LinkProduct handles POST /api/v1/campaigns/{id}/products
func (h *CampaignHandler) LinkProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req LinkProductRequest
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

	campaign, err := h.service.LinkProduct(r.Context(), id.String(), req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: campaign})
}

// UnlinkProduct handles DELETE /api/v1/campaigns/{id}/products/{productId}
func (h *CampaignHandler) UnlinkProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	productID, ok := httputil.ParseUUID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	if err := h.service.UnlinkProduct(r.Context(), id.String(), productID.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{
		"campaign_id": id.String(),
		"product_id":  productID.String(),
		"status":      "unlinked",
	}})
}

// RecordPerformance handles PUT /api/v1/campaigns/{id}/performance
func (h *CampaignHandler) RecordPerformance(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req RecordPerformanceRequest
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

	inputs := make([]service.MetricsInput, len(req.Products))
	for i, p := range req.Products {
		inputs[i] = service.MetricsInput{
			ProductID:   p.ProductID,
			Impressions: p.Impressions,
			Clicks:      p.Clicks,
			Conversions: p.Conversions,
			Revenue:     p.Revenue,
		}
	}

	campaign, err := h.service.RecordPerformance(r.Context(), id.String(), inputs)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"campaign": campaign,
		"rollup":   campaign.Aggregate(),
		"roi":      campaign.ROI(),
	}})
}
