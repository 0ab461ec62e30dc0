package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/youneszerotohero-coder/mb-backend/internal/campaign/service"
)

// RegisterRoutes mounts the campaign endpoints on the given router.
func RegisterRoutes(r chi.Router, campaignSvc *service.CampaignService, logger *slog.Logger) {
	handler := NewCampaignHandler(campaignSvc, logger)

	r.Route("/api/v1/campaigns", func(r chi.Router) {
		r.Get("/", handler.ListCampaigns)
		r.Post("/", handler.CreateCampaign)
		r.Get("/{id}", handler.GetCampaign)
		r.Put("/{id}", handler.UpdateCampaign)
		r.Delete("/{id}", handler.DeleteCampaign)
		r.Post("/{id}/products", handler.LinkProduct)
		r.Delete("/{id}/products/{productId}", handler.UnlinkProduct)
		r.Put("/{id}/performance", handler.RecordPerformance)
	})
}
