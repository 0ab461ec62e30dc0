package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/youneszerotohero-coder/mb-backend/internal/analytics/service"
)

// RegisterRoutes mounts the analytics endpoints on the given router.
func RegisterRoutes(r chi.Router, analyticsSvc *service.AnalyticsService, logger *slog.Logger) {
	handler := NewAnalyticsHandler(analyticsSvc, logger)

	r.Route("/api/v1/analytics", func(r chi.Router) {
		r.Get("/dashboard", handler.Dashboard)
		r.Get("/sales", handler.SalesOverTime)
		r.Get("/profitability", handler.Profitability)
		r.Get("/stock-value", handler.StockValue)
	})
}
