package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/youneszerotohero-coder/mb-backend/internal/analytics/service"
	"github.com/youneszerotohero-coder/mb-backend/pkg/httputil"
)

// AnalyticsHandler handles HTTP requests for the admin dashboard read models.
type AnalyticsHandler struct {
	service *service.AnalyticsService
	logger  *slog.Logger
}

// NewAnalyticsHandler creates a new analytics HTTP handler.
func NewAnalyticsHandler(svc *service.AnalyticsService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: svc,
		logger:  logger,
	}
}

// dateRange parses the from/to query parameters, defaulting to the last 30
// days.
func dateRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)

	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "from must be an RFC 3339 timestamp"},
			})
			return time.Time{}, time.Time{}, false
		}
		from = ts
	}
	if v := q.Get("to"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "to must be an RFC 3339 timestamp"},
			})
			return time.Time{}, time.Time{}, false
		}
		to = ts
	}

	return from, to, true
}

// Dashboard handles GET /api/v1/analytics/dashboard
// @Summary Dashboard overview
// @Description Revenue, order count, delivery fees, campaign spend, and net
// profit over a date range (default: last 30 days)
// @Tags analytics
// @Produce json
// @Param from query string false "Range start (RFC 3339)"
// @Param to query string false "Range end (RFC 3339)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}

	stats, err := h.service.Dashboard(r.Context(), from, to)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: stats})
}

// SalesOverTime handles GET /api/v1/analytics/sales
func (h *AnalyticsHandler) SalesOverTime(w http.ResponseWriter, r *http.Request) {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "days must be an integer between 1 and 365"},
			})
			return
		}
		days = n
	}

	series, err := h.service.SalesOverTime(r.Context(), days)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: series})
}

// Profitability handles GET /api/v1/analytics/profitability
func (h *AnalyticsHandler) Profitability(w http.ResponseWriter, r *http.Request) {
	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}

	products, err := h.service.Profitability(r.Context(), from, to, r.URL.Query().Get("sort"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// StockValue handles GET /api/v1/analytics/stock-value
func (h *AnalyticsHandler) StockValue(w http.ResponseWriter, r *http.Request) {
	value, err := h.service.StockValue(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]int64{"stock_value": value}})
}
